package packet

import "encoding/binary"

// ofp_ip_proto values the L4 dispatcher recognises.
const (
	IPProtoICMP    = 1
	IPProtoIGMP    = 2
	IPProtoTCP     = 6
	IPProtoUDP     = 17
	IPProtoICMPv6  = 58
	IPProtoSCTP    = 132
	IPProtoEtherIP = 97
)

// TCP is the subset of a TCP segment the match-builder needs: ports and
// the data offset (used to validate the segment is long enough).
type TCP struct {
	SrcPort uint16
	DstPort uint16
	Offset  uint8
}

const tcpMinLen = 20

func decodeTCP(data []byte) *TCP {
	if len(data) < tcpMinLen {
		return nil
	}
	offset := data[12] >> 4
	if offset < 5 || len(data) < int(offset)*4 {
		return nil
	}
	return &TCP{
		SrcPort: binary.BigEndian.Uint16(data[0:2]),
		DstPort: binary.BigEndian.Uint16(data[2:4]),
		Offset:  offset,
	}
}

// UDP is the 8-byte UDP header.
type UDP struct {
	SrcPort uint16
	DstPort uint16
	Length  uint16
}

const udpLen = 8

func decodeUDP(data []byte) *UDP {
	if len(data) < udpLen {
		return nil
	}
	return &UDP{
		SrcPort: binary.BigEndian.Uint16(data[0:2]),
		DstPort: binary.BigEndian.Uint16(data[2:4]),
		Length:  binary.BigEndian.Uint16(data[4:6]),
	}
}

// SCTP is the fixed 12-byte common header: only the ports matter to the
// match-builder.
type SCTP struct {
	SrcPort uint16
	DstPort uint16
}

const sctpCommonHeaderLen = 12

func decodeSCTP(data []byte) *SCTP {
	if len(data) < sctpCommonHeaderLen {
		return nil
	}
	return &SCTP{
		SrcPort: binary.BigEndian.Uint16(data[0:2]),
		DstPort: binary.BigEndian.Uint16(data[2:4]),
	}
}

// ICMPv4 is type/code plus nothing else — the dissector doesn't walk
// ICMPv4's many variable payload shapes.
type ICMPv4 struct {
	Type uint8
	Code uint8
}

const icmpv4MinLen = 4

func decodeICMPv4(data []byte) *ICMPv4 {
	if len(data) < icmpv4MinLen {
		return nil
	}
	return &ICMPv4{Type: data[0], Code: data[1]}
}
