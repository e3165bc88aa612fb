package switchd

import "sync"

const maxOutstandingRequests = 16

// outstandingRequest correlates a multi-frame multipart reply with
// the request that triggered it.
type outstandingRequest struct {
	xid    uint32
	mpType uint16
	flags  uint16
}

// outstandingTable tracks up to maxOutstandingRequests concurrent
// multipart requests. A request is added when OFPMPF_REQ_MORE is set
// and cleared once the same (xid, type) is seen again without it.
type outstandingTable struct {
	mu      sync.Mutex
	entries []outstandingRequest
}

func newOutstandingTable() *outstandingTable {
	return &outstandingTable{}
}

func (t *outstandingTable) find(xid uint32, mpType uint16) (int, bool) {
	for i, e := range t.entries {
		if e.xid == xid && e.mpType == mpType {
			return i, true
		}
	}
	return -1, false
}

// track records or clears an (xid, type) entry depending on moreFlag.
// It reports false (overflow) when the entry is new, moreFlag is set,
// and the table is already at capacity.
func (t *outstandingTable) track(xid uint32, mpType uint16, flags uint16, moreFlag bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx, found := t.find(xid, mpType)
	if !moreFlag {
		if found {
			t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
		}
		return true
	}

	if found {
		t.entries[idx].flags = flags
		return true
	}

	if len(t.entries) >= maxOutstandingRequests {
		return false
	}
	t.entries = append(t.entries, outstandingRequest{xid: xid, mpType: mpType, flags: flags})
	return true
}

func (t *outstandingTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
