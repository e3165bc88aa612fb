package openflow13

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trema-go/switch-core/common"
	"github.com/trema-go/switch-core/util"
)

func TestMultipartMessage(t *testing.T) {
	feature := newTableFeatures()
	mpartRequest := &MultipartRequest{
		Header: NewOfp13Header(),
		Type:   MultipartType_TableFeatures,
		Flags:  0,
		Body:   []util.Message{feature},
	}
	reqBytes, err := mpartRequest.MarshalBinary()
	require.Nil(t, err)
	deReq := new(MultipartRequest)
	err = deReq.UnmarshalBinary(reqBytes)
	require.Nil(t, err)
	assert.True(t, mpartRequestEquals(mpartRequest, deReq), "Original MultipartRequest not equal to the decoded object")
}

func mpartRequestEquals(oriReq, deReq *MultipartRequest) bool {
	if !headerEquals(oriReq.Header, deReq.Header) {
		return false
	}
	if oriReq.Type != deReq.Type {
		return false
	}
	if oriReq.Flags != deReq.Flags {
		return false
	}
	if oriReq.Body != nil && deReq.Body == nil || oriReq.Body == nil && deReq.Body != nil {
		return false
	}
	if oriReq.Body != nil {
		switch oriReq.Type {
		case MultipartType_TableFeatures:
			if len(oriReq.Body) != len(deReq.Body) {
				return false
			}
			for i := range oriReq.Body {
				if !ofPTableFeaturesEquals(oriReq.Body[i].(*OFPTableFeatures), deReq.Body[i].(*OFPTableFeatures)) {
					return false
				}
			}
		}
	}
	return true
}

func headerEquals(oriHeader, newHeader common.Header) bool {
	if oriHeader.Version != newHeader.Version {
		return false
	}
	if oriHeader.Xid != newHeader.Xid {
		return false
	}
	if oriHeader.Length != newHeader.Length {
		return false
	}
	if oriHeader.Type != newHeader.Type {
		return false
	}
	return true
}

func TestOFPTableFeatures(t *testing.T) {
	feature := newTableFeatures()

	fbytes, err := feature.MarshalBinary()
	require.Nil(t, err)
	deFeature := new(OFPTableFeatures)
	err = deFeature.UnmarshalBinary(fbytes)
	require.Nil(t, err)
	assert.True(t, ofPTableFeaturesEquals(feature, deFeature))
}

func newTableFeatures() *OFPTableFeatures {
	nameBytes := []byte("table-10")
	feature := &OFPTableFeatures{
		Length:     64,
		TableID:    10,
		Command:    0,
		Name:       [32]byte{},
		MaxEntries: 100000,
	}
	copy(feature.Name[0:], nameBytes)
	return feature
}

func ofPTableFeaturesEquals(f, df *OFPTableFeatures) bool {
	if f.Length != df.Length {
		return false
	}
	if f.TableID != df.TableID {
		return false
	}
	if f.Command != df.Command {
		return false
	}
	if f.Name != df.Name {
		return false
	}
	if f.Capabilities != df.Capabilities {
		return false
	}
	if f.MetadataMatch != df.MetadataMatch {
		return false
	}
	if f.MetadataWrite != df.MetadataWrite {
		return false
	}
	if f.MaxEntries != df.MaxEntries {
		return false
	}
	if len(f.Properties) != len(df.Properties) {
		return false
	}
	if len(f.Properties) > 0 {
		for i, p := range f.Properties {
			dfP := df.Properties[i]
			pd, _ := p.MarshalBinary()
			dfpd, _ := dfP.MarshalBinary()
			if !bytes.Equal(pd, dfpd) {
				return false
			}
		}
	}
	return true
}

func TestMultipartReplyChunkerSingleFrameWhenSmall(t *testing.T) {
	records := []util.Message{&GroupStats{GroupId: 1}, &GroupStats{GroupId: 2}}
	c := NewMultipartReplyChunker(7, MultipartType_Group, records)

	reply, more := c.Next()
	assert.False(t, more)
	assert.Equal(t, uint16(0), reply.Flags&OFPMPF_REPLY_MORE)
	assert.Len(t, reply.Body, 2)
	assert.Equal(t, uint32(7), reply.Xid)
}

func TestMultipartReplyChunkerPacksManySmallRecordsIntoOneFrame(t *testing.T) {
	records := make([]util.Message, 0, 200)
	for i := uint32(0); i < 200; i++ {
		records = append(records, &GroupStats{GroupId: i})
	}
	c := NewMultipartReplyChunker(9, MultipartType_Group, records)

	reply, more := c.Next()
	assert.False(t, more)
	assert.Equal(t, uint16(0), reply.Flags&OFPMPF_REPLY_MORE)
	assert.Len(t, reply.Body, 200)
}

func TestMultipartReplyChunkerMarksMoreOnOverflow(t *testing.T) {
	// A GroupStats carrying enough bucket counters to nearly fill a
	// frame on its own (65480 of the 65519 bytes available) leaves no
	// room for the next record, forcing it into a fresh frame.
	big := &GroupStats{BucketStats: make([]BucketCounter, 4090)} // 40 + 16*4090 = 65480 bytes
	records := []util.Message{big, &GroupStats{GroupId: 1}}
	c := NewMultipartReplyChunker(3, MultipartType_Group, records)

	first, more := c.Next()
	require.True(t, more)
	assert.NotEqual(t, uint16(0), first.Flags&OFPMPF_REPLY_MORE)
	require.Len(t, first.Body, 1)

	second, more := c.Next()
	assert.False(t, more)
	assert.Equal(t, uint16(0), second.Flags&OFPMPF_REPLY_MORE)
	require.Len(t, second.Body, 1)
}

func TestMultipartReplyChunkerEmptyRecordsStillEmitsOneFrame(t *testing.T) {
	c := NewMultipartReplyChunker(1, MultipartType_Desc, nil)
	reply, more := c.Next()
	assert.False(t, more)
	assert.Empty(t, reply.Body)
}
