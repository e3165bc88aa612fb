package flowengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trema-go/switch-core/openflow13"
)

func TestMemEngineAddAndDeleteFlowEmitsRemoved(t *testing.T) {
	e := NewMemEngine(Features{DatapathID: 1, NumTables: 1})

	mod := openflow13.NewFlowMod()
	mod.Cookie = 0x42
	mod.CookieMask = 0xffffffffffffffff
	mod.Priority = 10
	mod.Flags = openflow13.FF_SEND_FLOW_REM

	require.NoError(t, e.AddFlow(0, mod))
	require.NoError(t, e.DeleteFlow(0, mod))

	select {
	case up := <-e.Upcalls():
		require.NotNil(t, up.FlowRemoved)
		assert.Equal(t, uint64(0x42), up.FlowRemoved.Cookie)
		assert.Equal(t, uint8(openflow13.RR_DELETE), up.FlowRemoved.Reason)
	default:
		t.Fatal("expected a FlowRemoved upcall")
	}
}

func TestMemEngineDeleteFlowWithoutFlagSendsNoUpcall(t *testing.T) {
	e := NewMemEngine(Features{})
	mod := openflow13.NewFlowMod()
	mod.Cookie = 1
	mod.CookieMask = 0xffffffffffffffff

	require.NoError(t, e.AddFlow(0, mod))
	require.NoError(t, e.DeleteFlow(0, mod))

	select {
	case up := <-e.Upcalls():
		t.Fatalf("unexpected upcall: %+v", up)
	default:
	}
}

func TestMemEngineGroupLifecycle(t *testing.T) {
	e := NewMemEngine(Features{})
	mod := openflow13.NewGroupMod()
	mod.GroupId = 7
	mod.Type = openflow13.GT_ALL
	mod.AddBucket(openflow13.NewBucket())

	require.NoError(t, e.AddGroup(mod))

	records, err := e.Stats(openflow13.MultipartType_Group, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	gs, ok := records[0].(*openflow13.GroupStats)
	require.True(t, ok)
	assert.Equal(t, uint32(7), gs.GroupId)
	assert.Equal(t, uint32(1), gs.RefCount)

	require.NoError(t, e.DeleteGroup(mod))
	records, err = e.Stats(openflow13.MultipartType_Group, nil)
	require.NoError(t, err)
	assert.Len(t, records, 0)
}

func TestMemEnginePortConfigMasksOnlySelectedBits(t *testing.T) {
	e := NewMemEngine(Features{})
	require.NoError(t, e.SetPortConfig(1, 0xffffffff, 0x1))
	e.mu.Lock()
	cfg := e.ports[1]
	e.mu.Unlock()
	assert.Equal(t, uint32(0x1), cfg)
}
