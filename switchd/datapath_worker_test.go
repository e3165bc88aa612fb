package switchd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trema-go/switch-core/flowengine"
	"github.com/trema-go/switch-core/openflow13"
)

func newTestDatapath(t *testing.T) (*DatapathWorker, *Transport, *flowengine.MemEngine) {
	tr, err := NewTransport(8)
	require.NoError(t, err)
	t.Cleanup(tr.Close)
	engine := flowengine.NewMemEngine(flowengine.Features{DatapathID: 1, NumTables: 4})
	return NewDatapathWorker(engine, tr, 128), tr, engine
}

func TestDatapathWorkerPostsReadyOnRun(t *testing.T) {
	w, tr, _ := newTestDatapath(t)
	stop := make(chan struct{})
	go w.Run(stop)

	var envs []envelope
	require.Eventually(t, func() bool {
		envs = tr.DrainToProtocol()
		return len(envs) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, tagDatapathReady, envs[0].tag)
	close(stop)
}

func TestDatapathWorkerDispatchesFlowModAdd(t *testing.T) {
	w, tr, engine := newTestDatapath(t)
	mod := openflow13.NewFlowMod()
	mod.Command = openflow13.FC_ADD
	mod.Flags = openflow13.FF_SEND_FLOW_REM
	require.NoError(t, tr.PostToDatapath(controllerFrame{msg: mod, tableID: 0}))

	for _, env := range tr.DrainToDatapath() {
		w.handleControllerFrame(env)
	}

	del := openflow13.NewFlowMod()
	del.Command = openflow13.FC_DELETE
	require.NoError(t, engine.DeleteFlow(0, del))

	select {
	case up := <-engine.Upcalls():
		require.NotNil(t, up.FlowRemoved)
	default:
		t.Fatal("expected the earlier AddFlow dispatch to have installed an entry that DeleteFlow then removed")
	}
}

func TestDatapathWorkerDispatchesGroupModAdd(t *testing.T) {
	w, tr, engine := newTestDatapath(t)
	mod := openflow13.NewGroupMod()
	mod.Command = openflow13.GC_ADD
	mod.GroupId = 7
	require.NoError(t, tr.PostToDatapath(controllerFrame{msg: mod}))

	for _, env := range tr.DrainToDatapath() {
		w.handleControllerFrame(env)
	}

	records, err := engine.Stats(openflow13.MultipartType_Group, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	stats, ok := records[0].(*openflow13.GroupStats)
	require.True(t, ok)
	assert.Equal(t, uint32(7), stats.GroupId)
}

func TestDatapathWorkerForwardsUpcallsAsEnvelopes(t *testing.T) {
	w, tr, engine := newTestDatapath(t)

	mod := openflow13.NewFlowMod()
	mod.Command = openflow13.FC_ADD
	mod.Flags = openflow13.FF_SEND_FLOW_REM
	require.NoError(t, engine.AddFlow(0, mod))

	del := openflow13.NewFlowMod()
	del.Command = openflow13.FC_DELETE
	require.NoError(t, engine.DeleteFlow(0, del))

	up := <-engine.Upcalls()
	w.handleUpcall(up)

	envs := tr.DrainToProtocol()
	require.Len(t, envs, 1)
	assert.Equal(t, tagFlowRemoved, envs[0].tag)
}
