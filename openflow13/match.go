package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/util"
)

// ofp_match_type
const (
	MatchType_Standard = 0
	MatchType_OXM      = 1
)

// Reserved vlan_vid values: OFPVID_PRESENT marks a tagged match (ORed
// with the 12-bit VID), OFPVID_NONE matches only untagged frames.
const (
	OFPVID_PRESENT = 0x1000
	OFPVID_NONE    = 0x0000
)

const matchHeaderLen = 4

// Match is ofp_match: a match type tag followed by a packed list of OXM
// TLVs, padded to a multiple of 8 bytes.
type Match struct {
	Type   uint16
	Fields []*OxmField
}

// NewMatch returns an empty OXM match ready to have fields appended.
func NewMatch() *Match {
	return &Match{Type: MatchType_OXM}
}

// AddField appends an OXM field to the match, replacing any existing
// field of the same class/field pair (duplicate fields are invalid per
// OFPBMC_DUP_FIELD).
func (m *Match) AddField(f *OxmField) {
	for i, existing := range m.Fields {
		if existing.Class == f.Class && existing.Field == f.Field {
			m.Fields[i] = f
			return
		}
	}
	m.Fields = append(m.Fields, f)
}

// GetField returns the field for a class/field pair, or nil.
func (m *Match) GetField(class uint16, field uint8) *OxmField {
	for _, f := range m.Fields {
		if f.Class == class && f.Field == field {
			return f
		}
	}
	return nil
}

func (m *Match) Len() uint16 {
	n := matchHeaderLen
	for _, f := range m.Fields {
		n += int(f.Len())
	}
	return uint16(n + util.Pad64(n))
}

func (m *Match) MarshalBinary() (data []byte, err error) {
	body := make([]byte, matchHeaderLen)
	binary.BigEndian.PutUint16(body[0:2], m.Type)
	n := matchHeaderLen
	for _, f := range m.Fields {
		n += int(f.Len())
	}
	binary.BigEndian.PutUint16(body[2:4], uint16(n))
	for _, f := range m.Fields {
		fb, ferr := f.MarshalBinary()
		if ferr != nil {
			return nil, ferr
		}
		body = append(body, fb...)
	}
	pad := util.Pad64(len(body))
	body = append(body, make([]byte, pad)...)
	return body, nil
}

func (m *Match) UnmarshalBinary(data []byte) error {
	if len(data) < matchHeaderLen {
		return errTooShort("match")
	}
	m.Type = binary.BigEndian.Uint16(data[0:2])
	length := binary.BigEndian.Uint16(data[2:4])
	if int(length) > len(data) {
		return errTooShort("match body")
	}
	m.Fields = nil
	pos := matchHeaderLen
	for pos < int(length) {
		f := new(OxmField)
		if err := f.UnmarshalBinary(data[pos:]); err != nil {
			return err
		}
		m.Fields = append(m.Fields, f)
		pos += int(f.Len())
	}
	return nil
}

// prereqs enumerates the field(s) and required value(s) of the
// prerequisite that must already be present in a match before the named
// field can legally appear, per OF1.3 table 10.
type prereq struct {
	field     uint8
	reqField  uint8
	reqValue  []byte
	reqValue2 []byte // alternate acceptable value (e.g. eth_type arp has one value; ip_dscp allows both IPv4 and IPv6 eth_types)
	reqBit    uint16 // when nonzero, reqField's value must have this bit set rather than equal reqValue
}

var fieldPrereqs = map[uint8]prereq{
	OXM_FIELD_IN_PHY_PORT:    {reqField: OXM_FIELD_IN_PORT},
	OXM_FIELD_VLAN_PCP:       {reqField: OXM_FIELD_VLAN_VID, reqBit: OFPVID_PRESENT},
	OXM_FIELD_IP_DSCP:        {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0800), reqValue2: be16(0x86dd)},
	OXM_FIELD_IP_ECN:         {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0800), reqValue2: be16(0x86dd)},
	OXM_FIELD_IP_PROTO:       {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0800), reqValue2: be16(0x86dd)},
	OXM_FIELD_IPV4_SRC:       {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0800)},
	OXM_FIELD_IPV4_DST:       {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0800)},
	OXM_FIELD_TCP_SRC:        {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{6}},
	OXM_FIELD_TCP_DST:        {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{6}},
	OXM_FIELD_UDP_SRC:        {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{17}},
	OXM_FIELD_UDP_DST:        {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{17}},
	OXM_FIELD_SCTP_SRC:       {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{132}},
	OXM_FIELD_SCTP_DST:       {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{132}},
	OXM_FIELD_ICMPV4_TYPE:    {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{1}},
	OXM_FIELD_ICMPV4_CODE:    {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{1}},
	OXM_FIELD_ARP_OP:         {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0806)},
	OXM_FIELD_ARP_SPA:        {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0806)},
	OXM_FIELD_ARP_TPA:        {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0806)},
	OXM_FIELD_ARP_SHA:        {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0806)},
	OXM_FIELD_ARP_THA:        {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x0806)},
	OXM_FIELD_IPV6_SRC:       {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x86dd)},
	OXM_FIELD_IPV6_DST:       {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x86dd)},
	OXM_FIELD_IPV6_FLABEL:    {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x86dd)},
	OXM_FIELD_ICMPV6_TYPE:    {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{58}},
	OXM_FIELD_ICMPV6_CODE:    {reqField: OXM_FIELD_IP_PROTO, reqValue: []byte{58}},
	OXM_FIELD_IPV6_ND_TARGET: {reqField: OXM_FIELD_ICMPV6_TYPE, reqValue: []byte{135}, reqValue2: []byte{136}},
	OXM_FIELD_IPV6_ND_SLL:    {reqField: OXM_FIELD_ICMPV6_TYPE, reqValue: []byte{135}},
	OXM_FIELD_IPV6_ND_TLL:    {reqField: OXM_FIELD_ICMPV6_TYPE, reqValue: []byte{136}},
	OXM_FIELD_MPLS_LABEL:     {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x8847), reqValue2: be16(0x8848)},
	OXM_FIELD_MPLS_TC:        {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x8847), reqValue2: be16(0x8848)},
	OXM_FIELD_MPLS_BOS:       {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x8847), reqValue2: be16(0x8848)},
	OXM_FIELD_PBB_ISID:       {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x88e7)},
	OXM_FIELD_IPV6_EXTHDR:    {reqField: OXM_FIELD_ETH_TYPE, reqValue: be16(0x86dd)},
}

func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ValidatePrereqs walks every field in the match and confirms its OF1.3
// table-10 prerequisite field is present (and, where the prerequisite
// names a required value, that the earlier field's value matches one of
// the acceptable values). It returns the ErrorKind to surface via
// GetErrorTypeAndCode, or KindNone when the match is well formed.
func (m *Match) ValidatePrereqs() ErrorKind {
	for _, f := range m.Fields {
		if f.Class != OXM_CLASS_OPENFLOW_BASIC {
			continue
		}
		pr, ok := fieldPrereqs[f.Field]
		if !ok {
			continue
		}
		prereqField := m.GetField(OXM_CLASS_OPENFLOW_BASIC, pr.reqField)
		if prereqField == nil {
			return KindBadMatchPrereq
		}
		if pr.reqBit != 0 {
			if len(prereqField.Value) < 2 || binary.BigEndian.Uint16(prereqField.Value)&pr.reqBit == 0 {
				return KindBadMatchPrereq
			}
			continue
		}
		if pr.reqValue == nil {
			continue
		}
		if bytesEqual(prereqField.Value, pr.reqValue) {
			continue
		}
		if pr.reqValue2 != nil && bytesEqual(prereqField.Value, pr.reqValue2) {
			continue
		}
		return KindBadMatchPrereq
	}
	return KindNone
}

// Equal reports strict OF1.3 match equality: same set of fields, same
// values, same masks. Used by MODIFY_STRICT/DELETE_STRICT flow-mod
// commands, which require an exact match rather than a superset.
func (m *Match) Equal(other *Match) bool {
	if len(m.Fields) != len(other.Fields) {
		return false
	}
	for _, f := range m.Fields {
		of := other.GetField(f.Class, f.Field)
		if of == nil || of.HasMask != f.HasMask {
			return false
		}
		if !bytesEqual(of.Value, f.Value) {
			return false
		}
		if f.HasMask && !bytesEqual(of.Mask, f.Mask) {
			return false
		}
	}
	return true
}

// Subsumes reports whether m (the stored flow's match) is at least as
// general as other (an incoming match), i.e. every packet other matches
// is also matched by m. Used for non-strict MODIFY/DELETE lookups.
func (m *Match) Subsumes(other *Match) bool {
	for _, f := range m.Fields {
		of := other.GetField(f.Class, f.Field)
		if of == nil {
			return false
		}
		if !f.HasMask {
			if of.HasMask || !bytesEqual(of.Value, f.Value) {
				return false
			}
			continue
		}
		for i := range f.Mask {
			if i >= len(of.Value) {
				return false
			}
			if f.Value[i]&f.Mask[i] != of.Value[i]&f.Mask[i] {
				return false
			}
		}
	}
	return true
}
