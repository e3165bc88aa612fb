package util

// Pad64 returns the number of zero bytes that must follow a structure of
// length n bytes so that the next structure starts on an 8-byte boundary,
// as OpenFlow 1.3 requires after every match, bucket and instruction list.
func Pad64(n int) int {
	return (8 - n%8) % 8
}

// AppendPad64 appends the zero padding Pad64 computes to data.
func AppendPad64(data []byte) []byte {
	return append(data, make([]byte, Pad64(len(data)))...)
}
