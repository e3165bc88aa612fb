package openflow13

import (
	"github.com/trema-go/switch-core/common"
)

// Echo is the body of both OFPT_ECHO_REQUEST and OFPT_ECHO_REPLY: an
// opaque payload that the replying side must return unmodified.
type Echo struct {
	common.Header
	Data []byte
}

func NewEchoRequest() *Echo {
	h := NewOfp13Header()
	h.Type = Type_EchoRequest
	return &Echo{Header: h}
}

func NewEchoReply() *Echo {
	h := NewOfp13Header()
	h.Type = Type_EchoReply
	return &Echo{Header: h}
}

func (e *Echo) Len() uint16 {
	return e.Header.Len() + uint16(len(e.Data))
}

func (e *Echo) MarshalBinary() (data []byte, err error) {
	e.Header.Length = e.Len()
	data, err = e.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, e.Data...), nil
}

func (e *Echo) UnmarshalBinary(data []byte) error {
	if err := e.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	if int(e.Header.Length) > len(data) {
		return errTooShort("echo")
	}
	e.Data = append([]byte(nil), data[common.HeaderLen:e.Header.Length]...)
	return nil
}
