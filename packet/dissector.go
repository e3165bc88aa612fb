package packet

// Format is a bitset recording which layers Dissect actually found,
// since an incomplete or malformed frame simply leaves the
// corresponding fields of PacketInfo unset rather than failing.
type Format uint32

const (
	FormatEthernet Format = 1 << iota
	FormatVlan
	FormatSNAP
	FormatARP
	FormatIPv4
	FormatIPv6
	FormatICMPv4
	FormatICMPv6
	FormatTCP
	FormatUDP
	FormatSCTP
	FormatIGMP
	FormatMPLS
	FormatPBB
	FormatLLDP
	FormatEtherIP
)

// PacketInfo is the parsed view of one raw frame: a presence bitset
// plus typed fields for every layer the dissector recognises. Fields
// outside Format's reported layers are zero-valued, not meaningful.
type PacketInfo struct {
	Format Format

	Eth  Ethernet
	Vlan Vlan

	ARP  ARP
	IPv4 IPv4
	IPv6 IPv6

	ICMPv4 ICMPv4
	ICMPv6 ICMPv6
	TCP    TCP
	UDP    UDP
	SCTP   SCTP
	IGMP   IGMP

	MPLS MPLS
	PBB  PBB

	EtherIP EtherIP

	// L2Data/L3Data/L4Data are the raw bytes from the start of each
	// layer through the end of the frame, for callers that need the
	// untouched wire bytes alongside the parsed fields.
	L2Data []byte
	L3Data []byte
	L4Data []byte
}

// Dissect parses a raw Ethernet frame into a PacketInfo. It never
// fails: a short or malformed frame simply yields a PacketInfo whose
// Format bitset stops short of the point the parse gave up.
func Dissect(frame []byte) *PacketInfo {
	info := &PacketInfo{L2Data: frame}

	eth, n, ok := decodeEthernet(frame)
	if !ok {
		return info
	}
	info.Format |= FormatEthernet
	info.Eth = *eth

	ethType := eth.EthType
	vlanSeen := false
	for {
		rest := frame[n:]
		if isVlanEthType(ethType) {
			vlan, nextEthType, consumed, ok := decodeVlanTag(ethType, rest)
			if !ok {
				return info
			}
			if !vlanSeen {
				info.Format |= FormatVlan
				info.Vlan = *vlan
				vlanSeen = true
			}
			n += consumed
			ethType = nextEthType
			continue
		}
		if snapType, hdrLen, ok := isSNAP(rest); ok {
			info.Format |= FormatSNAP
			n += hdrLen
			ethType = snapType
			continue
		}
		break
	}

	info.L3Data = frame[n:]
	l3 := frame[n:]

	var ipProto uint8
	var l4Offset int
	haveL4Candidate := false

	switch ethType {
	case EthTypeARP:
		if arp := decodeARP(l3); arp != nil {
			info.Format |= FormatARP
			info.ARP = *arp
		}
		return info
	case EthTypeIPv4:
		ip, hlen, ok := decodeIPv4(l3)
		if !ok {
			return info
		}
		info.Format |= FormatIPv4
		info.IPv4 = *ip
		ipProto = ip.Protocol
		l4Offset = hlen
		haveL4Candidate = true
	case EthTypeIPv6:
		ip, payloadOffset, nextProto, ok := decodeIPv6(l3)
		if !ok {
			return info
		}
		info.Format |= FormatIPv6
		info.IPv6 = *ip
		ipProto = nextProto
		l4Offset = payloadOffset
		haveL4Candidate = true
	case EthTypeLLDP:
		info.Format |= FormatLLDP
		return info
	case EthTypeMPLSUni, EthTypeMPLSMulti:
		if mpls := decodeMPLS(l3); mpls != nil {
			info.Format |= FormatMPLS
			info.MPLS = *mpls
		}
		return info
	case EthTypePBB:
		if pbb := decodePBB(l3); pbb != nil {
			info.Format |= FormatPBB
			info.PBB = *pbb
		}
		return info
	default:
		return info
	}

	if !haveL4Candidate || l4Offset > len(l3) {
		return info
	}
	l4 := l3[l4Offset:]
	info.L4Data = l4

	switch ipProto {
	case IPProtoICMP:
		if icmp := decodeICMPv4(l4); icmp != nil {
			info.Format |= FormatICMPv4
			info.ICMPv4 = *icmp
		}
	case IPProtoICMPv6:
		if icmp := decodeICMPv6(l4); icmp != nil {
			info.Format |= FormatICMPv6
			info.ICMPv6 = *icmp
		}
	case IPProtoTCP:
		if tcp := decodeTCP(l4); tcp != nil {
			info.Format |= FormatTCP
			info.TCP = *tcp
		}
	case IPProtoUDP:
		if udp := decodeUDP(l4); udp != nil {
			info.Format |= FormatUDP
			info.UDP = *udp
		}
	case IPProtoSCTP:
		if sctp := decodeSCTP(l4); sctp != nil {
			info.Format |= FormatSCTP
			info.SCTP = *sctp
		}
	case IPProtoEtherIP:
		if eip := decodeEtherIP(l4); eip != nil {
			info.Format |= FormatEtherIP
			info.EtherIP = *eip
		}
	case IPProtoIGMP:
		if igmp := decodeIGMP(l4); igmp != nil {
			info.Format |= FormatIGMP
			info.IGMP = *igmp
		}
	}
	return info
}
