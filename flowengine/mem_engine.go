package flowengine

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/trema-go/switch-core/openflow13"
)

type flowEntry struct {
	cookie      uint64
	priority    uint16
	match       openflow13.Match
	instrs      []openflow13.Instruction
	flags       uint16
	idleTimeout uint16
	hardTimeout uint16
}

type groupEntry struct {
	groupType uint8
	buckets   openflow13.BucketList
}

type meterEntry struct {
	flags uint16
	bands []openflow13.Instruction
}

// MemEngine is a minimal, non-persistent Engine sufficient to drive
// C8/C9 end-to-end: it tracks flow/group/meter/port state in plain
// maps and slices and never actually forwards a packet. It exists to
// give the protocol/datapath worker split something real to call.
type MemEngine struct {
	mu       sync.Mutex
	tables   map[uint8][]*flowEntry
	groups   map[uint32]*groupEntry
	meters   map[uint32]*meterEntry
	ports    map[uint32]uint32 // portNo -> config bits
	upcalls  chan Upcall
	features Features
}

// NewMemEngine returns an engine reporting the given feature set.
func NewMemEngine(features Features) *MemEngine {
	return &MemEngine{
		tables:   make(map[uint8][]*flowEntry),
		groups:   make(map[uint32]*groupEntry),
		meters:   make(map[uint32]*meterEntry),
		ports:    make(map[uint32]uint32),
		upcalls:  make(chan Upcall, 64),
		features: features,
	}
}

func (e *MemEngine) Features() Features { return e.features }

func (e *MemEngine) Upcalls() <-chan Upcall { return e.upcalls }

func (e *MemEngine) AddFlow(tableID uint8, mod *openflow13.FlowMod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry := &flowEntry{
		cookie:      mod.Cookie,
		priority:    mod.Priority,
		match:       mod.Match,
		instrs:      mod.Instructions,
		flags:       mod.Flags,
		idleTimeout: mod.IdleTimeout,
		hardTimeout: mod.HardTimeout,
	}
	e.tables[tableID] = append(e.tables[tableID], entry)
	log.Debugf("flowengine: added flow to table %d, cookie=%#x priority=%d", tableID, entry.cookie, entry.priority)
	return nil
}

func (e *MemEngine) ModifyFlow(tableID uint8, mod *openflow13.FlowMod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	matched := false
	for _, entry := range e.tables[tableID] {
		if entry.cookie&mod.CookieMask == mod.Cookie&mod.CookieMask {
			entry.instrs = mod.Instructions
			entry.flags = mod.Flags
			matched = true
		}
	}
	if !matched {
		e.tables[tableID] = append(e.tables[tableID], &flowEntry{
			cookie:   mod.Cookie,
			priority: mod.Priority,
			match:    mod.Match,
			instrs:   mod.Instructions,
			flags:    mod.Flags,
		})
	}
	return nil
}

func (e *MemEngine) DeleteFlow(tableID uint8, mod *openflow13.FlowMod) error {
	e.mu.Lock()
	remaining := e.tables[tableID][:0]
	var removed []*flowEntry
	for _, entry := range e.tables[tableID] {
		if entry.cookie&mod.CookieMask == mod.Cookie&mod.CookieMask {
			removed = append(removed, entry)
			continue
		}
		remaining = append(remaining, entry)
	}
	e.tables[tableID] = remaining
	e.mu.Unlock()

	for _, entry := range removed {
		if entry.flags&openflow13.FF_SEND_FLOW_REM == 0 {
			continue
		}
		fr := openflow13.NewFlowRemoved()
		fr.Cookie = entry.cookie
		fr.Priority = entry.priority
		fr.Reason = openflow13.RR_DELETE
		fr.TableId = tableID
		fr.Match = entry.match
		e.upcalls <- Upcall{FlowRemoved: fr}
	}
	return nil
}

func (e *MemEngine) AddGroup(mod *openflow13.GroupMod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.groups[mod.GroupId] = &groupEntry{groupType: mod.Type, buckets: mod.Buckets}
	return nil
}

func (e *MemEngine) ModifyGroup(mod *openflow13.GroupMod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.groups[mod.GroupId] = &groupEntry{groupType: mod.Type, buckets: mod.Buckets}
	return nil
}

func (e *MemEngine) DeleteGroup(mod *openflow13.GroupMod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mod.GroupId == openflow13.OFPG_ALL {
		e.groups = make(map[uint32]*groupEntry)
		return nil
	}
	delete(e.groups, mod.GroupId)
	return nil
}

func (e *MemEngine) AddMeter(mod *openflow13.MeterMod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.meters[mod.MeterId] = &meterEntry{flags: mod.Flags}
	return nil
}

func (e *MemEngine) ModifyMeter(mod *openflow13.MeterMod) error {
	return e.AddMeter(mod)
}

func (e *MemEngine) DeleteMeter(mod *openflow13.MeterMod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.meters, mod.MeterId)
	return nil
}

func (e *MemEngine) SetPortConfig(portNo uint32, config, mask uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.ports[portNo]
	e.ports[portNo] = (cur &^ mask) | (config & mask)
	return nil
}

func (e *MemEngine) SetTableConfig(mod *openflow13.TableMod) error {
	log.Debugf("flowengine: table %d config set to %#x", mod.TableId, mod.Config)
	return nil
}

func (e *MemEngine) Send(out *openflow13.PacketOut) error {
	log.Debugf("flowengine: packet-out, buffer_id=%#x, %d actions", out.BufferId, len(out.Actions.Actions))
	return nil
}

func (e *MemEngine) Stats(mpType uint16, body []byte) ([]Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch mpType {
	case openflow13.MultipartType_Group:
		records := make([]Record, 0, len(e.groups))
		for id, g := range e.groups {
			records = append(records, &openflow13.GroupStats{GroupId: id, RefCount: uint32(len(g.buckets.Buckets))})
		}
		return records, nil
	default:
		return nil, nil
	}
}
