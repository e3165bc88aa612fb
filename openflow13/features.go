package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/common"
)

// ofp_capabilities
const (
	CAP_FLOW_STATS   = 1 << 0
	CAP_TABLE_STATS  = 1 << 1
	CAP_PORT_STATS   = 1 << 2
	CAP_GROUP_STATS  = 1 << 3
	CAP_IP_REASM     = 1 << 5
	CAP_QUEUE_STATS  = 1 << 6
	CAP_PORT_BLOCKED = 1 << 8
)

const featuresReplyBodyLen = 24

// FeaturesReply is OFPT_FEATURES_REPLY (ofp_switch_features).
type FeaturesReply struct {
	common.Header
	DatapathId   uint64
	NumBuffers   uint32
	NumTables    uint8
	AuxiliaryId  uint8
	pad          []byte // 2 bytes
	Capabilities uint32
	reserved     uint32
}

func NewFeaturesReply() *FeaturesReply {
	f := new(FeaturesReply)
	f.Header = NewOfp13Header()
	f.Header.Type = Type_FeaturesReply
	f.pad = make([]byte, 2)
	return f
}

func (f *FeaturesReply) Len() uint16 {
	return f.Header.Len() + featuresReplyBodyLen
}

func (f *FeaturesReply) MarshalBinary() (data []byte, err error) {
	f.Header.Length = f.Len()
	data, err = f.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, featuresReplyBodyLen)
	binary.BigEndian.PutUint64(body[0:8], f.DatapathId)
	binary.BigEndian.PutUint32(body[8:12], f.NumBuffers)
	body[12] = f.NumTables
	body[13] = f.AuxiliaryId
	binary.BigEndian.PutUint32(body[16:20], f.Capabilities)
	return append(data, body...), nil
}

func (f *FeaturesReply) UnmarshalBinary(data []byte) error {
	if err := f.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(f.Header.Len())
	if len(data) < n+featuresReplyBodyLen {
		return errTooShort("features reply")
	}
	body := data[n:]
	f.DatapathId = binary.BigEndian.Uint64(body[0:8])
	f.NumBuffers = binary.BigEndian.Uint32(body[8:12])
	f.NumTables = body[12]
	f.AuxiliaryId = body[13]
	f.Capabilities = binary.BigEndian.Uint32(body[16:20])
	return nil
}
