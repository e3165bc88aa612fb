package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/util"
)

const bucketHeaderLen = 16

// Bucket is ofp_bucket: one weighted/watched action list inside a group.
type Bucket struct {
	Weight     uint16
	WatchPort  uint32
	WatchGroup uint32
	Actions    ActionList
}

func NewBucket() *Bucket {
	return &Bucket{WatchPort: P_ANY, WatchGroup: OFPG_ANY}
}

func (b *Bucket) AddAction(a Action) {
	b.Actions.Actions = append(b.Actions.Actions, a)
}

func (b *Bucket) Len() uint16 {
	n := bucketHeaderLen + int(b.Actions.Len())
	return uint16(n + util.Pad64(n))
}

func (b *Bucket) MarshalBinary() (data []byte, err error) {
	length := b.Len()
	data = make([]byte, bucketHeaderLen)
	binary.BigEndian.PutUint16(data[0:2], length)
	binary.BigEndian.PutUint16(data[2:4], b.Weight)
	binary.BigEndian.PutUint32(data[4:8], b.WatchPort)
	binary.BigEndian.PutUint32(data[8:12], b.WatchGroup)
	ab, err := b.Actions.MarshalBinary()
	if err != nil {
		return nil, err
	}
	data = append(data, ab...)
	pad := int(length) - len(data)
	if pad > 0 {
		data = append(data, make([]byte, pad)...)
	}
	return data, nil
}

func (b *Bucket) UnmarshalBinary(data []byte) error {
	if len(data) < bucketHeaderLen {
		return errTooShort("bucket")
	}
	length := binary.BigEndian.Uint16(data[0:2])
	if int(length) > len(data) {
		return errTooShort("bucket body")
	}
	b.Weight = binary.BigEndian.Uint16(data[2:4])
	b.WatchPort = binary.BigEndian.Uint32(data[4:8])
	b.WatchGroup = binary.BigEndian.Uint32(data[8:12])
	return b.Actions.UnmarshalBinary(data[bucketHeaderLen:length])
}

// BucketList is an ordered, 8-byte-aligned sequence of buckets attached
// to a group-mod.
type BucketList struct {
	Buckets []*Bucket
}

func (l *BucketList) Len() uint16 {
	var n uint16
	for _, b := range l.Buckets {
		n += b.Len()
	}
	return n
}

func (l *BucketList) MarshalBinary() (data []byte, err error) {
	for _, b := range l.Buckets {
		bb, err := b.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, bb...)
	}
	return data, nil
}

func (l *BucketList) UnmarshalBinary(data []byte) error {
	l.Buckets = nil
	pos := 0
	for pos < len(data) {
		b := new(Bucket)
		if err := b.UnmarshalBinary(data[pos:]); err != nil {
			return err
		}
		l.Buckets = append(l.Buckets, b)
		pos += int(b.Len())
	}
	return nil
}
