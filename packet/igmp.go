package packet

import (
	"net"

	"github.com/trema-go/switch-core/protocol"
)

// IGMP is the type plus, where the message carries one, the single
// group address the dissector can extract without decoding every
// IGMPv3 source-record shape.
type IGMP struct {
	Type  uint8
	Group net.IP
}

func decodeIGMP(data []byte) *IGMP {
	if len(data) < 8 {
		return nil
	}
	switch data[0] {
	case protocol.IGMPQuery, protocol.IGMPv1Report, protocol.IGMPv2Report, protocol.IGMPv2LeaveGroup:
		msg := new(protocol.IGMPv1or2)
		if err := msg.UnmarshalBinary(data); err != nil {
			return &IGMP{Type: data[0]}
		}
		return &IGMP{Type: data[0], Group: msg.GroupAddress}
	case protocol.IGMPv3Report:
		return &IGMP{Type: data[0]}
	default:
		return &IGMP{Type: data[0]}
	}
}

// EtherIP is the 2-byte version/reserved header that precedes a
// tunnelled Ethernet frame (RFC 3378); the dissector does not recurse
// into the inner frame.
type EtherIP struct {
	Version uint8
}

const etherIPHeaderLen = 2

func decodeEtherIP(data []byte) *EtherIP {
	if len(data) < etherIPHeaderLen {
		return nil
	}
	return &EtherIP{Version: data[0] & 0x0f}
}
