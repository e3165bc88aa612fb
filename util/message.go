package util

// Message is implemented by every OpenFlow wire object: headers, full
// messages, and the structures nested inside them (matches, actions,
// instructions, buckets). A stream only ever needs Marshal/Unmarshal and
// a byte length to move a Message across the wire.
type Message interface {
	Len() uint16
	MarshalBinary() (data []byte, err error)
	UnmarshalBinary(data []byte) error
}
