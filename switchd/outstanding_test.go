package switchd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutstandingTableAcceptsUpToSixteen(t *testing.T) {
	tbl := newOutstandingTable()
	for i := uint32(0); i < maxOutstandingRequests; i++ {
		ok := tbl.track(i, 1, 0, true)
		assert.True(t, ok, "request %d should be accepted", i)
	}
	assert.Equal(t, maxOutstandingRequests, tbl.count())

	assert.False(t, tbl.track(maxOutstandingRequests, 1, 0, true), "17th concurrent request should overflow")
}

func TestOutstandingTableClearsOnCompletion(t *testing.T) {
	tbl := newOutstandingTable()
	for i := uint32(0); i < maxOutstandingRequests; i++ {
		assert.True(t, tbl.track(i, 1, 0, true))
	}
	assert.True(t, tbl.track(0, 1, 0, false), "completing one entry frees a slot")
	assert.Equal(t, maxOutstandingRequests-1, tbl.count())
	assert.True(t, tbl.track(maxOutstandingRequests, 1, 0, true), "a fresh request now fits")
}

func TestOutstandingTableSameKeyDoesNotDuplicate(t *testing.T) {
	tbl := newOutstandingTable()
	assert.True(t, tbl.track(5, 2, 0, true))
	assert.True(t, tbl.track(5, 2, 1, true))
	assert.Equal(t, 1, tbl.count())
}
