package switchd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trema-go/switch-core/flowengine"
)

func TestParseDatapathIDHex(t *testing.T) {
	id, err := ParseDatapathID("0x2a")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestParseDatapathIDDecimal(t *testing.T) {
	id, err := ParseDatapathID("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestParseDatapathIDRejectsGarbage(t *testing.T) {
	_, err := ParseDatapathID("not-a-number")
	assert.Error(t, err)
}

func TestPidFilePathUsesTremaHome(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TremaHome = "/var/trema"
	cfg.DatapathID = "0x1"
	assert.Equal(t, "/var/trema/tmp/pid/trema-switch.1.pid", PidFilePath(cfg, "trema-switch"))
}

func TestLogFilePathUsesTremaHome(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TremaHome = "/var/trema"
	cfg.DatapathID = "0x1"
	assert.Equal(t, "/var/trema/tmp/log/trema-switch.1.log", LogFilePath(cfg, "trema-switch"))
}

func TestNewBuildsRunnableSwitch(t *testing.T) {
	cfg := DefaultConfig()
	engine := flowengine.NewMemEngine(flowengine.Features{DatapathID: 1})
	sw, err := New(cfg, engine, &recordingChannel{})
	require.NoError(t, err)
	require.NotNil(t, sw.Transport)
	t.Cleanup(sw.Transport.Close)
}
