package packet

import "net"

// ICMPv6 type numbers the dissector dispatches on.
const (
	icmpv6TypeNeighborSolicit   = 135
	icmpv6TypeNeighborAdvertise = 136
	ndpOptSourceLinkLayerAddr   = 1
	ndpOptTargetLinkLayerAddr   = 2
)

// ICMPv6 is type/code plus, for neighbor solicitation/advertisement,
// the target address and whichever link-layer-address option the
// message carries.
type ICMPv6 struct {
	Type   uint8
	Code   uint8
	Target net.IP
	LLAddr net.HardwareAddr
}

const icmpv6HeaderLen = 4
const ndpMinLen = icmpv6HeaderLen + 4 + 16 // header + reserved + target

func decodeICMPv6(data []byte) *ICMPv6 {
	if len(data) < icmpv6HeaderLen {
		return nil
	}
	msg := &ICMPv6{Type: data[0], Code: data[1]}
	if msg.Type != icmpv6TypeNeighborSolicit && msg.Type != icmpv6TypeNeighborAdvertise {
		return msg
	}
	if len(data) < ndpMinLen {
		return msg
	}
	n := icmpv6HeaderLen + 4
	msg.Target = append(net.IP(nil), data[n:n+16]...)
	n += 16

	wantOpt := uint8(ndpOptSourceLinkLayerAddr)
	if msg.Type == icmpv6TypeNeighborAdvertise {
		wantOpt = ndpOptTargetLinkLayerAddr
	}
	for n+8 <= len(data) {
		optType := data[n]
		optLen := int(data[n+1]) * 8
		if optLen == 0 || n+optLen > len(data) {
			break
		}
		if optType == wantOpt && optLen >= 8 {
			msg.LLAddr = append(net.HardwareAddr(nil), data[n+2:n+8]...)
			break
		}
		n += optLen
	}
	return msg
}
