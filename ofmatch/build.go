// Package ofmatch combines the packet dissector with the OXM match
// library to turn a received frame into the OxmMatches a flow lookup
// or PacketIn needs.
package ofmatch

import (
	"net"

	"github.com/trema-go/switch-core/openflow13"
	"github.com/trema-go/switch-core/packet"
)

// FieldMask names fields BuildMatchFromPacket can be told to leave out
// entirely (the caller wants that part of the frame wildcarded).
type FieldMask uint32

const (
	SkipInPort FieldMask = 1 << iota
	SkipEthAddrs
	SkipVlan
)

// Masks carries the optional value masks BuildMatchFromPacket applies
// to maskable fields; a nil entry means an exact match.
type Masks struct {
	EthSrc  net.HardwareAddr
	EthDst  net.HardwareAddr
	IPv4Src net.IP
	IPv4Dst net.IP
	IPv6Src net.IP
	IPv6Dst net.IP
	ArpSpa  net.IP
	ArpTpa  net.IP
	PbbIsid *uint32
}

// BuildMatchFromPacket emits an OxmMatches describing info, following
// the field order and per-ethertype emission rules: IN_PORT, eth
// src/dst, PBB I-SID, VLAN_VID/PCP, ETH_TYPE, then fields specific to
// whichever L3/L4 protocol the frame carried.
func BuildMatchFromPacket(inPort uint32, skip FieldMask, masks *Masks, info *packet.PacketInfo) *openflow13.Match {
	if masks == nil {
		masks = &Masks{}
	}
	m := openflow13.NewMatch()

	if skip&SkipInPort == 0 {
		m.AddField(openflow13.NewOxmInPort(inPort))
	}

	if skip&SkipEthAddrs == 0 && info.Format&packet.FormatEthernet != 0 {
		m.AddField(ethAddrField(openflow13.OXM_FIELD_ETH_SRC, info.Eth.SrcMAC, masks.EthSrc))
		m.AddField(ethAddrField(openflow13.OXM_FIELD_ETH_DST, info.Eth.DstMAC, masks.EthDst))
	}

	if info.Format&packet.FormatPBB != 0 {
		m.AddField(openflow13.NewOxmPbbIsid(info.PBB.ISID, masks.PbbIsid))
	}

	if skip&SkipVlan == 0 {
		if info.Format&packet.FormatVlan != 0 {
			m.AddField(openflow13.NewOxmVlanVid(openflow13.OFPVID_PRESENT|info.Vlan.VID(), nil))
			m.AddField(openflow13.NewOxmVlanPcp(info.Vlan.PCP()))
		} else {
			m.AddField(openflow13.NewOxmVlanVid(openflow13.OFPVID_NONE, nil))
		}
	}

	if info.Format&packet.FormatEthernet != 0 {
		m.AddField(openflow13.NewOxmEthType(info.Eth.EthType))
	}

	switch {
	case info.Format&packet.FormatIPv4 != 0:
		addIPv4Fields(m, info, masks)
	case info.Format&packet.FormatIPv6 != 0:
		addIPv6Fields(m, info, masks)
	case info.Format&packet.FormatARP != 0:
		addARPFields(m, info, masks)
	case info.Format&packet.FormatMPLS != 0:
		m.AddField(openflow13.NewOxmMplsLabel(info.MPLS.Label))
		m.AddField(openflow13.NewOxmMplsTc(info.MPLS.TC))
		m.AddField(openflow13.NewOxmMplsBos(info.MPLS.BoS))
	}

	return m
}

func ethAddrField(field uint8, addr net.HardwareAddr, mask net.HardwareAddr) *openflow13.OxmField {
	var a [6]byte
	copy(a[:], addr)
	if mask == nil {
		return openflow13.NewOxmEthAddr(field, a, nil)
	}
	var mbuf [6]byte
	copy(mbuf[:], mask)
	return openflow13.NewOxmEthAddr(field, a, &mbuf)
}

func addIPv4Fields(m *openflow13.Match, info *packet.PacketInfo, masks *Masks) {
	m.AddField(openflow13.NewOxmIpDscp(info.IPv4.DSCP))
	m.AddField(openflow13.NewOxmIpEcn(info.IPv4.ECN))
	m.AddField(openflow13.NewOxmIpProto(info.IPv4.Protocol))
	m.AddField(openflow13.NewOxmIpv4Addr(openflow13.OXM_FIELD_IPV4_SRC, be32(info.IPv4.Src), maskUint32(masks.IPv4Src)))
	m.AddField(openflow13.NewOxmIpv4Addr(openflow13.OXM_FIELD_IPV4_DST, be32(info.IPv4.Dst), maskUint32(masks.IPv4Dst)))
	addL4Fields(m, info)
}

func addIPv6Fields(m *openflow13.Match, info *packet.PacketInfo, masks *Masks) {
	m.AddField(openflow13.NewOxmIpDscp(info.IPv6.TrafficClass >> 2))
	m.AddField(openflow13.NewOxmIpEcn(info.IPv6.TrafficClass & 0x03))
	m.AddField(openflow13.NewOxmIpProto(ipv6NextProto(info)))
	m.AddField(openflow13.NewOxmIpv6Addr(openflow13.OXM_FIELD_IPV6_SRC, info.IPv6.Src, masks.IPv6Src))
	m.AddField(openflow13.NewOxmIpv6Addr(openflow13.OXM_FIELD_IPV6_DST, info.IPv6.Dst, masks.IPv6Dst))
	m.AddField(openflow13.NewOxmIpv6FlowLabel(info.IPv6.FlowLabel))
	m.AddField(openflow13.NewOxmIpv6ExtHdr(info.IPv6.ExtHeaders))
	addL4Fields(m, info)
}

// ipv6NextProto recovers the upper-layer protocol number the dissector
// resolved the extension-header walk to, from whichever L4 format bit
// ended up set (IPv6.NextHeader is only the first header, not the final
// one once extension headers are present).
func ipv6NextProto(info *packet.PacketInfo) uint8 {
	switch {
	case info.Format&packet.FormatICMPv6 != 0:
		return packet.IPProtoICMPv6
	case info.Format&packet.FormatTCP != 0:
		return packet.IPProtoTCP
	case info.Format&packet.FormatUDP != 0:
		return packet.IPProtoUDP
	case info.Format&packet.FormatSCTP != 0:
		return packet.IPProtoSCTP
	case info.Format&packet.FormatIGMP != 0:
		return packet.IPProtoIGMP
	default:
		return info.IPv6.NextHeader
	}
}

func addARPFields(m *openflow13.Match, info *packet.PacketInfo, masks *Masks) {
	m.AddField(openflow13.NewOxmArpOp(info.ARP.Operation))
	m.AddField(openflow13.NewOxmArpIpv4Addr(openflow13.OXM_FIELD_ARP_SPA, info.ARP.SenderIP, masks.ArpSpa))
	m.AddField(openflow13.NewOxmArpIpv4Addr(openflow13.OXM_FIELD_ARP_TPA, info.ARP.TargetIP, masks.ArpTpa))
	m.AddField(openflow13.NewOxmArpHwAddr(openflow13.OXM_FIELD_ARP_SHA, info.ARP.SenderMAC))
	m.AddField(openflow13.NewOxmArpHwAddr(openflow13.OXM_FIELD_ARP_THA, info.ARP.TargetMAC))
}

func addL4Fields(m *openflow13.Match, info *packet.PacketInfo) {
	switch {
	case info.Format&packet.FormatICMPv4 != 0:
		m.AddField(openflow13.NewOxmIcmpType(openflow13.OXM_FIELD_ICMPV4_TYPE, info.ICMPv4.Type))
		m.AddField(openflow13.NewOxmIcmpCode(openflow13.OXM_FIELD_ICMPV4_CODE, info.ICMPv4.Code))
	case info.Format&packet.FormatICMPv6 != 0:
		m.AddField(openflow13.NewOxmIcmpType(openflow13.OXM_FIELD_ICMPV6_TYPE, info.ICMPv6.Type))
		m.AddField(openflow13.NewOxmIcmpCode(openflow13.OXM_FIELD_ICMPV6_CODE, info.ICMPv6.Code))
		if info.ICMPv6.Target != nil {
			m.AddField(openflow13.NewOxmIpv6NdTarget(info.ICMPv6.Target))
		}
		if info.ICMPv6.LLAddr != nil {
			field := uint8(openflow13.OXM_FIELD_IPV6_ND_SLL)
			if info.ICMPv6.Type == 136 {
				field = openflow13.OXM_FIELD_IPV6_ND_TLL
			}
			m.AddField(openflow13.NewOxmIpv6NdLinkLayer(field, info.ICMPv6.LLAddr))
		}
	case info.Format&packet.FormatTCP != 0:
		m.AddField(openflow13.NewOxmPort(openflow13.OXM_FIELD_TCP_SRC, info.TCP.SrcPort))
		m.AddField(openflow13.NewOxmPort(openflow13.OXM_FIELD_TCP_DST, info.TCP.DstPort))
	case info.Format&packet.FormatUDP != 0:
		m.AddField(openflow13.NewOxmPort(openflow13.OXM_FIELD_UDP_SRC, info.UDP.SrcPort))
		m.AddField(openflow13.NewOxmPort(openflow13.OXM_FIELD_UDP_DST, info.UDP.DstPort))
	case info.Format&packet.FormatSCTP != 0:
		m.AddField(openflow13.NewOxmPort(openflow13.OXM_FIELD_SCTP_SRC, info.SCTP.SrcPort))
		m.AddField(openflow13.NewOxmPort(openflow13.OXM_FIELD_SCTP_DST, info.SCTP.DstPort))
	}
}

func be32(ip net.IP) uint32 {
	v4 := ip.To4()
	if v4 == nil {
		return 0
	}
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
}

func maskUint32(mask net.IP) *uint32 {
	if mask == nil {
		return nil
	}
	v := be32(mask)
	return &v
}
