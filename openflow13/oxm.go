package openflow13

import (
	"encoding/binary"
	"net"

	log "github.com/sirupsen/logrus"
)

// oxm_class
const (
	OXM_CLASS_NXM_0          = 0x0000
	OXM_CLASS_NXM_1          = 0x0001
	OXM_CLASS_OPENFLOW_BASIC = 0x8000
	OXM_CLASS_EXPERIMENTER   = 0xffff
)

// oxm_ofb_match_fields
const (
	OXM_FIELD_IN_PORT        = 0
	OXM_FIELD_IN_PHY_PORT    = 1
	OXM_FIELD_METADATA       = 2
	OXM_FIELD_ETH_DST        = 3
	OXM_FIELD_ETH_SRC        = 4
	OXM_FIELD_ETH_TYPE       = 5
	OXM_FIELD_VLAN_VID       = 6
	OXM_FIELD_VLAN_PCP       = 7
	OXM_FIELD_IP_DSCP        = 8
	OXM_FIELD_IP_ECN         = 9
	OXM_FIELD_IP_PROTO       = 10
	OXM_FIELD_IPV4_SRC       = 11
	OXM_FIELD_IPV4_DST       = 12
	OXM_FIELD_TCP_SRC        = 13
	OXM_FIELD_TCP_DST        = 14
	OXM_FIELD_UDP_SRC        = 15
	OXM_FIELD_UDP_DST        = 16
	OXM_FIELD_SCTP_SRC       = 17
	OXM_FIELD_SCTP_DST       = 18
	OXM_FIELD_ICMPV4_TYPE    = 19
	OXM_FIELD_ICMPV4_CODE    = 20
	OXM_FIELD_ARP_OP         = 21
	OXM_FIELD_ARP_SPA        = 22
	OXM_FIELD_ARP_TPA        = 23
	OXM_FIELD_ARP_SHA        = 24
	OXM_FIELD_ARP_THA        = 25
	OXM_FIELD_IPV6_SRC       = 26
	OXM_FIELD_IPV6_DST       = 27
	OXM_FIELD_IPV6_FLABEL    = 28
	OXM_FIELD_ICMPV6_TYPE    = 29
	OXM_FIELD_ICMPV6_CODE    = 30
	OXM_FIELD_IPV6_ND_TARGET = 31
	OXM_FIELD_IPV6_ND_SLL    = 32
	OXM_FIELD_IPV6_ND_TLL    = 33
	OXM_FIELD_MPLS_LABEL     = 34
	OXM_FIELD_MPLS_TC        = 35
	OXM_FIELD_MPLS_BOS       = 36
	OXM_FIELD_PBB_ISID       = 37
	OXM_FIELD_TUNNEL_ID      = 38
	OXM_FIELD_IPV6_EXTHDR    = 39
)

// oxmFieldLen gives the wire payload length (without the header or mask
// half) for each openflow-basic field. A field with hasMask doubles this
// for the value+mask encoding.
var oxmFieldLen = map[uint8]uint8{
	OXM_FIELD_IN_PORT:        4,
	OXM_FIELD_IN_PHY_PORT:    4,
	OXM_FIELD_METADATA:       8,
	OXM_FIELD_ETH_DST:        6,
	OXM_FIELD_ETH_SRC:        6,
	OXM_FIELD_ETH_TYPE:       2,
	OXM_FIELD_VLAN_VID:       2,
	OXM_FIELD_VLAN_PCP:       1,
	OXM_FIELD_IP_DSCP:        1,
	OXM_FIELD_IP_ECN:         1,
	OXM_FIELD_IP_PROTO:       1,
	OXM_FIELD_IPV4_SRC:       4,
	OXM_FIELD_IPV4_DST:       4,
	OXM_FIELD_TCP_SRC:        2,
	OXM_FIELD_TCP_DST:        2,
	OXM_FIELD_UDP_SRC:        2,
	OXM_FIELD_UDP_DST:        2,
	OXM_FIELD_SCTP_SRC:       2,
	OXM_FIELD_SCTP_DST:       2,
	OXM_FIELD_ICMPV4_TYPE:    1,
	OXM_FIELD_ICMPV4_CODE:    1,
	OXM_FIELD_ARP_OP:         2,
	OXM_FIELD_ARP_SPA:        4,
	OXM_FIELD_ARP_TPA:        4,
	OXM_FIELD_ARP_SHA:        6,
	OXM_FIELD_ARP_THA:        6,
	OXM_FIELD_IPV6_SRC:       16,
	OXM_FIELD_IPV6_DST:       16,
	OXM_FIELD_IPV6_FLABEL:    4,
	OXM_FIELD_ICMPV6_TYPE:    1,
	OXM_FIELD_ICMPV6_CODE:    1,
	OXM_FIELD_IPV6_ND_TARGET: 16,
	OXM_FIELD_IPV6_ND_SLL:    6,
	OXM_FIELD_IPV6_ND_TLL:    6,
	OXM_FIELD_MPLS_LABEL:     4,
	OXM_FIELD_MPLS_TC:        1,
	OXM_FIELD_MPLS_BOS:       1,
	OXM_FIELD_PBB_ISID:       3,
	OXM_FIELD_TUNNEL_ID:      8,
	OXM_FIELD_IPV6_EXTHDR:    2,
}

// maskableFields lists fields OF1.3 allows a mask on (table 11 of the
// spec). Fields not in this set are exact-match only.
var maskableFields = map[uint8]bool{
	OXM_FIELD_IN_PORT:     false,
	OXM_FIELD_METADATA:    true,
	OXM_FIELD_ETH_DST:     true,
	OXM_FIELD_ETH_SRC:     true,
	OXM_FIELD_VLAN_VID:    true,
	OXM_FIELD_IPV4_SRC:    true,
	OXM_FIELD_IPV4_DST:    true,
	OXM_FIELD_ARP_SPA:     true,
	OXM_FIELD_ARP_TPA:     true,
	OXM_FIELD_IPV6_SRC:    true,
	OXM_FIELD_IPV6_DST:    true,
	OXM_FIELD_IPV6_FLABEL: true,
	OXM_FIELD_PBB_ISID:    true,
	OXM_FIELD_TUNNEL_ID:   true,
	OXM_FIELD_IPV6_EXTHDR: true,
}

// OxmHeader is the packed 32-bit tag every OXM TLV begins with: a 16-bit
// class, a 7-bit field, a 1-bit has-mask flag and an 8-bit payload length.
type OxmHeader uint32

func NewOxmHeader(class uint16, field uint8, hasMask bool, length uint8) OxmHeader {
	var h uint32
	h = uint32(class) << 16
	h |= uint32(field&0x7f) << 9
	if hasMask {
		h |= 1 << 8
	}
	h |= uint32(length)
	return OxmHeader(h)
}

func (h OxmHeader) Class() uint16 { return uint16(h >> 16) }
func (h OxmHeader) Field() uint8  { return uint8((h >> 9) & 0x7f) }
func (h OxmHeader) HasMask() bool { return (h>>8)&0x1 == 1 }
func (h OxmHeader) Length() uint8 { return uint8(h & 0xff) }

// OxmField is one OXM TLV: class/field/mask-flag packed header, a value
// and, when HasMask is set, a mask of the same width.
type OxmField struct {
	Class   uint16
	Field   uint8
	HasMask bool
	Value   []byte
	Mask    []byte
}

func (f *OxmField) Len() uint16 {
	n := 4 + len(f.Value)
	if f.HasMask {
		n += len(f.Mask)
	}
	return uint16(n)
}

func (f *OxmField) MarshalBinary() (data []byte, err error) {
	payloadLen := len(f.Value)
	if f.HasMask {
		payloadLen += len(f.Mask)
	}
	hdr := NewOxmHeader(f.Class, f.Field, f.HasMask, uint8(payloadLen))
	data = make([]byte, 4)
	binary.BigEndian.PutUint32(data, uint32(hdr))
	data = append(data, f.Value...)
	if f.HasMask {
		data = append(data, f.Mask...)
	}
	return data, nil
}

func (f *OxmField) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errTooShort("oxm header")
	}
	hdr := OxmHeader(binary.BigEndian.Uint32(data[0:4]))
	f.Class = hdr.Class()
	f.Field = hdr.Field()
	f.HasMask = hdr.HasMask()
	payloadLen := int(hdr.Length())
	if len(data) < 4+payloadLen {
		return errTooShort("oxm payload")
	}
	if f.HasMask {
		half := payloadLen / 2
		f.Value = append([]byte(nil), data[4:4+half]...)
		f.Mask = append([]byte(nil), data[4+half:4+payloadLen]...)
	} else {
		f.Value = append([]byte(nil), data[4:4+payloadLen]...)
	}
	return nil
}

// clampUint clamps v to the inclusive [0,max] range, logging rather
// than failing the build: builders never reject an out-of-range field,
// they clamp and warn.
func clampUint(field string, v, max uint32) uint32 {
	if v > max {
		log.Warnf("openflow13: oxm field %s value %d exceeds max %d, clamping", field, v, max)
		return max
	}
	return v
}

// NewOxmInPort builds an exact-match in_port field.
func NewOxmInPort(port uint32) *OxmField {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, port)
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_IN_PORT, Value: v}
}

// NewOxmEthType builds an exact-match eth_type field.
func NewOxmEthType(ethType uint16) *OxmField {
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, ethType)
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_ETH_TYPE, Value: v}
}

// NewOxmEthAddr builds an exact- or masked-match eth_src/eth_dst field.
func NewOxmEthAddr(field uint8, addr [6]byte, mask *[6]byte) *OxmField {
	f := &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: addr[:]}
	if mask != nil {
		f.HasMask = true
		f.Mask = mask[:]
	}
	return f
}

// NewOxmIpProto builds an exact-match ip_proto field.
func NewOxmIpProto(proto uint8) *OxmField {
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_IP_PROTO, Value: []byte{proto}}
}

// NewOxmIpv4Addr builds an exact- or masked-match ipv4_src/ipv4_dst field.
func NewOxmIpv4Addr(field uint8, addr uint32, mask *uint32) *OxmField {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, addr)
	f := &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: v}
	if mask != nil {
		m := make([]byte, 4)
		binary.BigEndian.PutUint32(m, *mask)
		f.HasMask = true
		f.Mask = m
	}
	return f
}

// NewOxmPort builds an exact-match tcp/udp/sctp src or dst port field.
func NewOxmPort(field uint8, port uint16) *OxmField {
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, port)
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: v}
}

// NewOxmVlanVid builds a vlan_vid field. The OFPVID_PRESENT bit (0x1000)
// must already be set by the caller for a tagged match; passing 0 alone
// matches "untagged" per OF1.3 table 10.
func NewOxmVlanVid(vid uint16, mask *uint16) *OxmField {
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, vid)
	f := &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_VLAN_VID, Value: v}
	if mask != nil {
		m := make([]byte, 2)
		binary.BigEndian.PutUint16(m, *mask)
		f.HasMask = true
		f.Mask = m
	}
	return f
}

// NewOxmVlanPcp builds an exact-match vlan_pcp field (3 bits).
func NewOxmVlanPcp(pcp uint8) *OxmField {
	pcp = uint8(clampUint("vlan_pcp", uint32(pcp), 0x7))
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_VLAN_PCP, Value: []byte{pcp}}
}

// NewOxmIpDscp builds an exact-match ip_dscp field (6 bits).
func NewOxmIpDscp(dscp uint8) *OxmField {
	dscp = uint8(clampUint("ip_dscp", uint32(dscp), 0x3f))
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_IP_DSCP, Value: []byte{dscp}}
}

// NewOxmIpEcn builds an exact-match ip_ecn field (2 bits).
func NewOxmIpEcn(ecn uint8) *OxmField {
	ecn = uint8(clampUint("ip_ecn", uint32(ecn), 0x3))
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_IP_ECN, Value: []byte{ecn}}
}

// NewOxmIpv6Addr builds an exact- or masked-match ipv6_src/ipv6_dst field.
func NewOxmIpv6Addr(field uint8, addr net.IP, mask net.IP) *OxmField {
	f := &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: append([]byte(nil), addr.To16()...)}
	if mask != nil {
		f.HasMask = true
		f.Mask = append([]byte(nil), mask.To16()...)
	}
	return f
}

// NewOxmIpv6FlowLabel builds an exact-match ipv6_flabel field (20 bits).
func NewOxmIpv6FlowLabel(label uint32) *OxmField {
	label = clampUint("ipv6_flabel", label, 0xfffff)
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, label)
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_IPV6_FLABEL, Value: v}
}

// NewOxmIpv6ExtHdr builds an exact-match ipv6_exthdr field (9-bit bitmap).
func NewOxmIpv6ExtHdr(bitmap uint16) *OxmField {
	bitmap = uint16(clampUint("ipv6_exthdr", uint32(bitmap), 0x1ff))
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, bitmap)
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_IPV6_EXTHDR, Value: v}
}

// NewOxmArpOp builds an exact-match arp_op field.
func NewOxmArpOp(op uint16) *OxmField {
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, op)
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_ARP_OP, Value: v}
}

// NewOxmArpIpv4Addr builds an exact- or masked-match arp_spa/arp_tpa field.
func NewOxmArpIpv4Addr(field uint8, addr net.IP, mask net.IP) *OxmField {
	f := &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: append([]byte(nil), addr.To4()...)}
	if mask != nil {
		f.HasMask = true
		f.Mask = append([]byte(nil), mask.To4()...)
	}
	return f
}

// NewOxmArpHwAddr builds an exact-match arp_sha/arp_tha field.
func NewOxmArpHwAddr(field uint8, addr net.HardwareAddr) *OxmField {
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: append([]byte(nil), addr...)}
}

// NewOxmIcmpType builds an exact-match icmpv4_type/icmpv6_type field.
func NewOxmIcmpType(field uint8, t uint8) *OxmField {
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: []byte{t}}
}

// NewOxmIcmpCode builds an exact-match icmpv4_code/icmpv6_code field.
func NewOxmIcmpCode(field uint8, code uint8) *OxmField {
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: []byte{code}}
}

// NewOxmIpv6NdTarget builds an exact-match ipv6_nd_target field.
func NewOxmIpv6NdTarget(target net.IP) *OxmField {
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_IPV6_ND_TARGET, Value: append([]byte(nil), target.To16()...)}
}

// NewOxmIpv6NdLinkLayer builds an exact-match ipv6_nd_sll/ipv6_nd_tll field.
func NewOxmIpv6NdLinkLayer(field uint8, addr net.HardwareAddr) *OxmField {
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: field, Value: append([]byte(nil), addr...)}
}

// NewOxmMplsLabel builds an exact-match mpls_label field (20 bits).
func NewOxmMplsLabel(label uint32) *OxmField {
	label = clampUint("mpls_label", label, 0xfffff)
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, label)
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_MPLS_LABEL, Value: v}
}

// NewOxmMplsTc builds an exact-match mpls_tc field (3 bits).
func NewOxmMplsTc(tc uint8) *OxmField {
	tc = uint8(clampUint("mpls_tc", uint32(tc), 0x7))
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_MPLS_TC, Value: []byte{tc}}
}

// NewOxmMplsBos builds an exact-match mpls_bos field (1 bit).
func NewOxmMplsBos(bos bool) *OxmField {
	var v uint8
	if bos {
		v = 1
	}
	return &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_MPLS_BOS, Value: []byte{v}}
}

// NewOxmPbbIsid builds an exact- or masked-match pbb_isid field (24 bits).
func NewOxmPbbIsid(isid uint32, mask *uint32) *OxmField {
	isid = clampUint("pbb_isid", isid, 0xffffff)
	v := []byte{byte(isid >> 16), byte(isid >> 8), byte(isid)}
	f := &OxmField{Class: OXM_CLASS_OPENFLOW_BASIC, Field: OXM_FIELD_PBB_ISID, Value: v}
	if mask != nil {
		m := []byte{byte(*mask >> 16), byte(*mask >> 8), byte(*mask)}
		f.HasMask = true
		f.Mask = m
	}
	return f
}
