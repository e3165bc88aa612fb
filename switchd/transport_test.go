package switchd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportPostAndDrainToDatapath(t *testing.T) {
	tr, err := NewTransport(4)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.PostToDatapath("frame-1"))
	require.NoError(t, tr.PostToDatapath("frame-2"))

	envs := tr.DrainToDatapath()
	require.Len(t, envs, 2)
	assert.Equal(t, "frame-1", envs[0].payload)
	assert.Equal(t, "frame-2", envs[1].payload)

	assert.Empty(t, tr.DrainToDatapath())
}

func TestTransportQueueFullReturnsError(t *testing.T) {
	tr, err := NewTransport(1)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.PostToDatapath("a"))
	assert.ErrorIs(t, tr.PostToDatapath("b"), errQueueFull)
}

func TestTransportDatapathReadyTag(t *testing.T) {
	tr, err := NewTransport(4)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.PostDatapathReady())
	envs := tr.DrainToProtocol()
	require.Len(t, envs, 1)
	assert.Equal(t, tagDatapathReady, envs[0].tag)
}

func TestTransportPostUpcallDropsWhenFull(t *testing.T) {
	tr, err := NewTransport(1)
	require.NoError(t, err)
	defer tr.Close()

	tr.PostUpcall(tagPacketIn, "one")
	tr.PostUpcall(tagPacketIn, "two")

	envs := tr.DrainToProtocol()
	require.Len(t, envs, 1)
	assert.Equal(t, "one", envs[0].payload)
}
