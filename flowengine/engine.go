// Package flowengine defines the collaborator the datapath worker
// drives: whatever owns the flow, group and meter tables and the
// switch's ports. The switch core only depends on this interface —
// the forwarding pipeline itself is out of scope.
package flowengine

import (
	"github.com/trema-go/switch-core/openflow13"
)

// Upcall is an asynchronous event the engine pushes to the datapath
// worker: a received packet, a flow expiring, or a port changing state.
type Upcall struct {
	PacketIn    *openflow13.PacketIn
	FlowRemoved *openflow13.FlowRemoved
	PortStatus  *openflow13.PortStatus
}

// Engine is the flow-table/group-table/meter-table/port-table
// collaborator. Every method is expected to be safe for concurrent use
// from the datapath worker's single goroutine plus whatever goroutine
// feeds Upcalls.
type Engine interface {
	AddFlow(tableID uint8, mod *openflow13.FlowMod) error
	ModifyFlow(tableID uint8, mod *openflow13.FlowMod) error
	DeleteFlow(tableID uint8, mod *openflow13.FlowMod) error

	AddGroup(mod *openflow13.GroupMod) error
	ModifyGroup(mod *openflow13.GroupMod) error
	DeleteGroup(mod *openflow13.GroupMod) error

	AddMeter(mod *openflow13.MeterMod) error
	ModifyMeter(mod *openflow13.MeterMod) error
	DeleteMeter(mod *openflow13.MeterMod) error

	SetPortConfig(portNo uint32, config, mask uint32) error
	SetTableConfig(mod *openflow13.TableMod) error

	// Send hands a frame to the engine as if received off the wire on
	// bufferID == NO_BUFFER, or retrieves a previously buffered frame
	// and forwards it per the given PacketOut actions.
	Send(out *openflow13.PacketOut) error

	// Stats renders the records for one multipart reply body, given
	// the request's type and body. The caller chunks the returned
	// records across as many MULTIPART_REPLY fragments as needed.
	Stats(mpType uint16, body []byte) ([]Record, error)

	// Upcalls returns the channel the engine posts asynchronous events
	// on. The datapath worker owns draining it.
	Upcalls() <-chan Upcall

	// Features returns the switch-wide capability set reported in
	// FEATURES_REPLY.
	Features() Features
}

// Record is one stats-reply element the engine produced; the caller
// (the protocol worker's multipart chunker) packs it onto the wire.
type Record interface {
	Len() uint16
	MarshalBinary() ([]byte, error)
}

// Features is the static, rarely-changing capability set a switch
// reports in FEATURES_REPLY.
type Features struct {
	DatapathID   uint64
	NumBuffers   uint32
	NumTables    uint8
	AuxiliaryID  uint8
	Capabilities uint32
}
