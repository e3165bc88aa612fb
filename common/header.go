package common

import (
	"encoding/binary"
	"errors"

	"github.com/trema-go/switch-core/util"
)

const (
	HeaderLen = 8
)

// Header is the 8-byte ofp_header every OpenFlow message starts with.
type Header struct {
	Version uint8
	Type    uint8
	Length  uint16
	Xid     uint32
}

// NewHeaderGenerator returns a constructor stamping fresh headers with
// version and a process-wide xid, mirroring how each OF version package
// builds its own `NewOfpNNHeader`.
func NewHeaderGenerator(version uint8) func() Header {
	return func() Header {
		return Header{
			Version: version,
			Xid:     util.NextXid(),
		}
	}
}

func (h *Header) Len() uint16 {
	return HeaderLen
}

func (h *Header) MarshalBinary() (data []byte, err error) {
	data = make([]byte, HeaderLen)
	data[0] = h.Version
	data[1] = h.Type
	binary.BigEndian.PutUint16(data[2:4], h.Length)
	binary.BigEndian.PutUint32(data[4:8], h.Xid)
	return
}

func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderLen {
		return errors.New("common.Header: buffer too short")
	}
	h.Version = data[0]
	h.Type = data[1]
	h.Length = binary.BigEndian.Uint16(data[2:4])
	h.Xid = binary.BigEndian.Uint32(data[4:8])
	return nil
}

// GetHeader returns the receiver so types that embed Header satisfy code
// that wants to inspect the generic header of a concrete message.
func (h *Header) GetHeader() *Header {
	return h
}
