package packet

import (
	"encoding/binary"
	"net"
)

// IPv4 is the fixed 20-byte IPv4 header plus any options, trimmed to
// just the fields the match-builder and L4 dispatcher need.
type IPv4 struct {
	IHL      uint8
	DSCP     uint8
	ECN      uint8
	Length   uint16
	Protocol uint8
	TTL      uint8
	Src      net.IP
	Dst      net.IP
}

const ipv4MinLen = 20

func decodeIPv4(data []byte) (*IPv4, int, bool) {
	if len(data) < ipv4MinLen {
		return nil, 0, false
	}
	ihl := data[0] & 0x0f
	hlen := int(ihl) * 4
	if hlen < ipv4MinLen || len(data) < hlen {
		return nil, 0, false
	}
	tos := data[1]
	ip := &IPv4{
		IHL:      ihl,
		DSCP:     tos >> 2,
		ECN:      tos & 0x03,
		Length:   binary.BigEndian.Uint16(data[2:4]),
		Protocol: data[9],
		TTL:      data[8],
		Src:      append(net.IP(nil), data[12:16]...),
		Dst:      append(net.IP(nil), data[16:20]...),
	}
	return ip, hlen, true
}
