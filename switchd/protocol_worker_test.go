package switchd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trema-go/switch-core/common"
	"github.com/trema-go/switch-core/flowengine"
	"github.com/trema-go/switch-core/openflow13"
	"github.com/trema-go/switch-core/util"
)

type recordingChannel struct {
	sent []util.Message
}

func (c *recordingChannel) Send(msg util.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func newTestWorker(t *testing.T) (*ProtocolWorker, *recordingChannel) {
	tr, err := NewTransport(8)
	require.NoError(t, err)
	t.Cleanup(tr.Close)

	engine := flowengine.NewMemEngine(flowengine.Features{DatapathID: 1, NumTables: 4, Capabilities: openflow13.CAP_TABLE_STATS})
	ch := &recordingChannel{}
	return NewProtocolWorker(ch, tr, engine), ch
}

func TestHandleHelloRepliesAndMarksConnected(t *testing.T) {
	w, ch := newTestWorker(t)
	w.HandleHello()
	require.Len(t, ch.sent, 1)
	assert.True(t, w.connected)
}

func TestHandleFlowModRejectsBadFlagsOnAdd(t *testing.T) {
	w, ch := newTestWorker(t)
	mod := openflow13.NewFlowMod()
	mod.Command = openflow13.FC_ADD
	mod.Flags = openflow13.FF_CHECK_OVERLAP // not in the allowed ADD set

	w.HandleFlowMod(mod)

	require.Len(t, ch.sent, 1)
	errMsg, ok := ch.sent[0].(*openflow13.ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, uint16(openflow13.OFPFMFC_BAD_FLAGS), errMsg.Code)
}

func TestHandleFlowModRejectsTableAll(t *testing.T) {
	w, ch := newTestWorker(t)
	mod := openflow13.NewFlowMod()
	mod.Command = openflow13.FC_DELETE
	mod.TableId = openflow13.OFPTT_ALL

	w.HandleFlowMod(mod)

	require.Len(t, ch.sent, 1)
	_, ok := ch.sent[0].(*openflow13.ErrorMsg)
	assert.True(t, ok)
}

func TestHandleFlowModForwardsValidModToDatapath(t *testing.T) {
	w, ch := newTestWorker(t)
	mod := openflow13.NewFlowMod()
	mod.Command = openflow13.FC_ADD
	mod.TableId = 0

	w.HandleFlowMod(mod)

	assert.Empty(t, ch.sent)
	envs := w.transport.DrainToDatapath()
	require.Len(t, envs, 1)
	cf, ok := envs[0].payload.(controllerFrame)
	require.True(t, ok)
	assert.Same(t, mod, cf.msg)
}

func TestHandleBarrierRequestRepliesWithSameXid(t *testing.T) {
	w, ch := newTestWorker(t)
	w.HandleBarrierRequest(42)
	require.Len(t, ch.sent, 1)
	hdr, ok := ch.sent[0].(*common.Header)
	require.True(t, ok)
	assert.Equal(t, uint32(42), hdr.Xid)
	assert.Equal(t, uint8(openflow13.Type_BarrierReply), hdr.Type)
}

func TestHandleMultipartRequestOverflowsAfterSixteen(t *testing.T) {
	w, ch := newTestWorker(t)
	w.HandleHello() // populates w.capabilities from the engine
	ch.sent = nil
	for i := uint32(0); i < maxOutstandingRequests; i++ {
		req := &openflow13.MultipartRequest{Type: openflow13.MultipartType_Flow, Flags: openflow13.OFPMPF_REQ_MORE}
		req.Xid = i
		w.HandleMultipartRequest(req)
	}
	assert.Empty(t, ch.sent)

	overflow := &openflow13.MultipartRequest{Type: openflow13.MultipartType_Flow, Flags: openflow13.OFPMPF_REQ_MORE}
	overflow.Xid = maxOutstandingRequests
	w.HandleMultipartRequest(overflow)

	require.Len(t, ch.sent, 1)
	errMsg, ok := ch.sent[0].(*openflow13.ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, uint16(openflow13.OFPBRC_MULTIPART_BUFFER_OVERFLOW), errMsg.Code)
}
