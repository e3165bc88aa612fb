package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/common"
)

// ofp_group
const (
	OFPG_MAX = 0xffffff00 /* Last usable group number. */
	/* Fake groups. */
	OFPG_ALL = 0xfffffffc /* Represents all groups for group delete commands. */
	OFPG_ANY = 0xffffffff /* Wildcard group used only for flow stats requests. Selects all flows regardless of group (including flows with no group). */
)

// ofp_group_mod_command
const (
	GC_ADD    = 0
	GC_MODIFY = 1
	GC_DELETE = 2
)

// ofp_group_type
const (
	GT_ALL      = 0
	GT_SELECT   = 1
	GT_INDIRECT = 2
	GT_FF       = 3
)

// GroupMod is OFPT_GROUP_MOD.
type GroupMod struct {
	common.Header
	Command uint16
	Type    uint8
	pad     uint8
	GroupId uint32
	Buckets BucketList
}

func NewGroupMod() *GroupMod {
	g := new(GroupMod)
	g.Header = NewOfp13Header()
	g.Header.Type = Type_GroupMod
	return g
}

func (g *GroupMod) AddBucket(b *Bucket) {
	g.Buckets.Buckets = append(g.Buckets.Buckets, b)
}

func (g *GroupMod) Len() uint16 {
	return g.Header.Len() + 8 + g.Buckets.Len()
}

func (g *GroupMod) MarshalBinary() (data []byte, err error) {
	g.Header.Length = g.Len()
	data, err = g.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, 8)
	binary.BigEndian.PutUint16(body[0:2], g.Command)
	body[2] = g.Type
	binary.BigEndian.PutUint32(body[4:8], g.GroupId)
	data = append(data, body...)
	bb, err := g.Buckets.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, bb...), nil
}

func (g *GroupMod) UnmarshalBinary(data []byte) error {
	if err := g.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < int(g.Header.Len())+8 {
		return errTooShort("group mod")
	}
	n := int(g.Header.Len())
	g.Command = binary.BigEndian.Uint16(data[n:])
	n += 2
	g.Type = data[n]
	n += 2 // type + pad
	g.GroupId = binary.BigEndian.Uint32(data[n:])
	n += 4
	if int(g.Header.Length) > n {
		return g.Buckets.UnmarshalBinary(data[n:g.Header.Length])
	}
	return nil
}

// GroupStatsRequest is the body of a MultipartType_Group request.
type GroupStatsRequest struct {
	GroupId uint32
	pad     []byte // 4 bytes
}

func NewGroupStatsRequest() *GroupStatsRequest {
	return &GroupStatsRequest{GroupId: OFPG_ALL, pad: make([]byte, 4)}
}

func (s *GroupStatsRequest) Len() uint16 { return 8 }

func (s *GroupStatsRequest) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 8)
	binary.BigEndian.PutUint32(data[0:4], s.GroupId)
	return data, nil
}

func (s *GroupStatsRequest) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errTooShort("group stats request")
	}
	s.GroupId = binary.BigEndian.Uint32(data[0:4])
	return nil
}

// BucketCounter is ofp_bucket_counter: per-bucket packet/byte tallies
// inside a GroupStats reply.
type BucketCounter struct {
	PacketCount uint64
	ByteCount   uint64
}

// GroupStats is the per-group body of a MultipartType_Group reply.
type GroupStats struct {
	Length       uint16
	pad          []byte // 2 bytes
	GroupId      uint32
	RefCount     uint32
	pad2         []byte // 4 bytes
	PacketCount  uint64
	ByteCount    uint64
	DurationSec  uint32
	DurationNSec uint32
	BucketStats  []BucketCounter
}

func (s *GroupStats) Len() uint16 {
	return uint16(40 + 16*len(s.BucketStats))
}

func (s *GroupStats) MarshalBinary() (data []byte, err error) {
	s.Length = s.Len()
	data = make([]byte, 40)
	binary.BigEndian.PutUint16(data[0:2], s.Length)
	binary.BigEndian.PutUint32(data[4:8], s.GroupId)
	binary.BigEndian.PutUint32(data[8:12], s.RefCount)
	binary.BigEndian.PutUint64(data[16:24], s.PacketCount)
	binary.BigEndian.PutUint64(data[24:32], s.ByteCount)
	binary.BigEndian.PutUint32(data[32:36], s.DurationSec)
	binary.BigEndian.PutUint32(data[36:40], s.DurationNSec)
	for _, bc := range s.BucketStats {
		b := make([]byte, 16)
		binary.BigEndian.PutUint64(b[0:8], bc.PacketCount)
		binary.BigEndian.PutUint64(b[8:16], bc.ByteCount)
		data = append(data, b...)
	}
	return data, nil
}

func (s *GroupStats) UnmarshalBinary(data []byte) error {
	if len(data) < 40 {
		return errTooShort("group stats")
	}
	s.Length = binary.BigEndian.Uint16(data[0:2])
	s.GroupId = binary.BigEndian.Uint32(data[4:8])
	s.RefCount = binary.BigEndian.Uint32(data[8:12])
	s.PacketCount = binary.BigEndian.Uint64(data[16:24])
	s.ByteCount = binary.BigEndian.Uint64(data[24:32])
	s.DurationSec = binary.BigEndian.Uint32(data[32:36])
	s.DurationNSec = binary.BigEndian.Uint32(data[36:40])
	s.BucketStats = nil
	for n := 40; n+16 <= int(s.Length); n += 16 {
		s.BucketStats = append(s.BucketStats, BucketCounter{
			PacketCount: binary.BigEndian.Uint64(data[n : n+8]),
			ByteCount:   binary.BigEndian.Uint64(data[n+8 : n+16]),
		})
	}
	return nil
}

// GroupDesc is the per-group body of a MultipartType_GroupDesc reply.
type GroupDesc struct {
	Length  uint16
	Type    uint8
	pad     uint8
	GroupId uint32
	Buckets BucketList
}

func (s *GroupDesc) Len() uint16 {
	return 8 + s.Buckets.Len()
}

func (s *GroupDesc) MarshalBinary() (data []byte, err error) {
	s.Length = s.Len()
	data = make([]byte, 8)
	binary.BigEndian.PutUint16(data[0:2], s.Length)
	data[2] = s.Type
	binary.BigEndian.PutUint32(data[4:8], s.GroupId)
	bb, err := s.Buckets.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, bb...), nil
}

func (s *GroupDesc) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errTooShort("group desc")
	}
	s.Length = binary.BigEndian.Uint16(data[0:2])
	s.Type = data[2]
	s.GroupId = binary.BigEndian.Uint32(data[4:8])
	if int(s.Length) > 8 {
		return s.Buckets.UnmarshalBinary(data[8:s.Length])
	}
	return nil
}

// ofp_group_capabilities
const (
	GFC_SELECT_WEIGHT   = 1 << 0
	GFC_SELECT_LIVENESS = 1 << 1
	GFC_CHAINING        = 1 << 2
	GFC_CHAINING_CHECKS = 1 << 3
)

// GroupFeatures is the body of a MultipartType_GroupFeatures reply.
type GroupFeatures struct {
	Types        uint32
	Capabilities uint32
	MaxGroups    [4]uint32
	Actions      [4]uint32
}

func (s *GroupFeatures) Len() uint16 { return 40 }

func (s *GroupFeatures) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 40)
	binary.BigEndian.PutUint32(data[0:4], s.Types)
	binary.BigEndian.PutUint32(data[4:8], s.Capabilities)
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint32(data[8+4*i:12+4*i], s.MaxGroups[i])
	}
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint32(data[24+4*i:28+4*i], s.Actions[i])
	}
	return data, nil
}

func (s *GroupFeatures) UnmarshalBinary(data []byte) error {
	if len(data) < 40 {
		return errTooShort("group features")
	}
	s.Types = binary.BigEndian.Uint32(data[0:4])
	s.Capabilities = binary.BigEndian.Uint32(data[4:8])
	for i := 0; i < 4; i++ {
		s.MaxGroups[i] = binary.BigEndian.Uint32(data[8+4*i : 12+4*i])
	}
	for i := 0; i < 4; i++ {
		s.Actions[i] = binary.BigEndian.Uint32(data[24+4*i : 28+4*i])
	}
	return nil
}
