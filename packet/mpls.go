package packet

import "encoding/binary"

// MPLS is the outermost label of an MPLS label stack: the dissector
// does not walk past the first label.
type MPLS struct {
	Label uint32
	TC    uint8
	BoS   bool
	TTL   uint8
}

const mplsLabelLen = 4

func decodeMPLS(data []byte) *MPLS {
	if len(data) < mplsLabelLen {
		return nil
	}
	word := binary.BigEndian.Uint32(data[0:4])
	return &MPLS{
		Label: word >> 12,
		TC:    uint8((word >> 9) & 0x7),
		BoS:   word&0x100 != 0,
		TTL:   uint8(word & 0xff),
	}
}

// PBB is the I-TAG of a Provider Backbone Bridge frame: only the
// service instance identifier matters to the match-builder.
type PBB struct {
	ISID uint32
}

const pbbITagLen = 4

func decodePBB(data []byte) *PBB {
	if len(data) < pbbITagLen {
		return nil
	}
	word := binary.BigEndian.Uint32(data[0:4])
	return &PBB{ISID: word & 0x00ffffff}
}
