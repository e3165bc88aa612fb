package protocol

import (
	"encoding/binary"
	"errors"
	"net"
)

// IGMP message types the dissector distinguishes between; IGMPv3Report
// carries per-group source records this package does not decode, so
// decodeIGMP only tags it by type.
const (
	IGMPQuery        = 0x11
	IGMPv1Report     = 0x12
	IGMPv2Report     = 0x16
	IGMPv2LeaveGroup = 0x17
	IGMPv3Report     = 0x22
)

// IGMPv1or2 is the 8-byte ofp_igmp body shared by IGMPv1 and IGMPv2
// queries, reports and leave messages: version/type differ only in
// MaxResponseTime, which is always 0 for IGMPv1.
//
//    0                   1                   2                   3
//    0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//   |      Type     | Max Resp Time |           Checksum            |
//   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//   |                         Group Address                         |
//   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type IGMPv1or2 struct {
	Type            uint8
	MaxResponseTime uint8
	Checksum        uint16
	GroupAddress    net.IP
}

func (p *IGMPv1or2) Len() uint16 {
	return 8
}

func (p *IGMPv1or2) MarshalBinary() (data []byte, err error) {
	data = make([]byte, int(p.Len()))
	n := 0
	data[n] = p.Type
	n += 1
	data[n] = p.MaxResponseTime
	n += 1
	binary.BigEndian.PutUint16(data[n:], p.Checksum)
	n += 2
	copy(data[n:n+4], p.GroupAddress.To4())
	return
}

func (p *IGMPv1or2) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("protocol: buffer too short for an IGMPv1/v2 message")
	}
	p.Type = data[0]
	p.MaxResponseTime = data[1]
	p.Checksum = binary.BigEndian.Uint16(data[2:4])
	p.GroupAddress = data[4:8]
	return nil
}
