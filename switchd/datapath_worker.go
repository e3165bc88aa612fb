package switchd

import (
	log "github.com/sirupsen/logrus"

	"github.com/trema-go/switch-core/flowengine"
	"github.com/trema-go/switch-core/ofmatch"
	"github.com/trema-go/switch-core/openflow13"
	"github.com/trema-go/switch-core/packet"
)

// controllerFrame is what the protocol worker posts to the datapath
// worker: a validated inbound message plus the table it targets. Only
// flow mods set and use tableID; other kinds leave it zero.
type controllerFrame struct {
	msg     interface{}
	tableID uint8
}

// DatapathWorker hosts the flow engine and turns its upcalls into the
// OF1.3 messages the protocol worker forwards to the controller. It
// owns no controller state of its own; everything it touches lives in
// the engine.
type DatapathWorker struct {
	engine    flowengine.Engine
	transport *Transport
	maxLen    uint16
}

// NewDatapathWorker wires engine to transport. maxLen is stored on the
// worker, but no handler reads it: PACKET_IN upcalls are forwarded with
// the data the engine supplied, without truncation.
func NewDatapathWorker(engine flowengine.Engine, transport *Transport, maxLen uint16) *DatapathWorker {
	return &DatapathWorker{engine: engine, transport: transport, maxLen: maxLen}
}

// Run drains controller frames and engine upcalls until stopCh closes.
// Per its single-goroutine-per-worker contract, every engine call made
// from the handlers below happens on this goroutine only.
func (w *DatapathWorker) Run(stopCh <-chan struct{}) {
	if err := w.transport.PostDatapathReady(); err != nil {
		log.WithError(err).Error("switchd: datapath worker failed to post ready frame")
	}

	for {
		select {
		case <-stopCh:
			return
		case up, ok := <-w.engine.Upcalls():
			if !ok {
				return
			}
			w.handleUpcall(up)
		default:
		}

		for _, env := range w.transport.DrainToDatapath() {
			w.handleControllerFrame(env)
		}
	}
}

func (w *DatapathWorker) handleUpcall(up flowengine.Upcall) {
	switch {
	case up.PacketIn != nil:
		w.transport.PostUpcall(tagPacketIn, up.PacketIn)
	case up.FlowRemoved != nil:
		w.transport.PostUpcall(tagFlowRemoved, up.FlowRemoved)
	case up.PortStatus != nil:
		w.transport.PostUpcall(tagPortStatus, up.PortStatus)
	}
}

func (w *DatapathWorker) handleControllerFrame(env envelope) {
	cf, ok := env.payload.(controllerFrame)
	if !ok {
		return
	}
	var err error
	switch msg := cf.msg.(type) {
	case *openflow13.FlowMod:
		err = w.dispatchFlowMod(cf.tableID, msg)
	case *openflow13.GroupMod:
		err = w.dispatchGroupMod(msg)
	case *openflow13.MeterMod:
		err = w.dispatchMeterMod(msg)
	case *openflow13.TableMod:
		err = w.engine.SetTableConfig(msg)
	case *openflow13.PortMod:
		err = w.engine.SetPortConfig(msg.PortNo, msg.Config, msg.Mask)
	case *openflow13.PacketOut:
		err = w.engine.Send(msg)
	}
	if err != nil {
		log.WithError(err).Warn("switchd: engine call failed")
	}
}

func (w *DatapathWorker) dispatchFlowMod(tableID uint8, msg *openflow13.FlowMod) error {
	switch msg.Command {
	case openflow13.FC_ADD:
		return w.engine.AddFlow(tableID, msg)
	case openflow13.FC_MODIFY, openflow13.FC_MODIFY_STRICT:
		return w.engine.ModifyFlow(tableID, msg)
	case openflow13.FC_DELETE, openflow13.FC_DELETE_STRICT:
		return w.engine.DeleteFlow(tableID, msg)
	}
	return nil
}

func (w *DatapathWorker) dispatchGroupMod(msg *openflow13.GroupMod) error {
	switch msg.Command {
	case openflow13.GC_ADD:
		return w.engine.AddGroup(msg)
	case openflow13.GC_MODIFY:
		return w.engine.ModifyGroup(msg)
	case openflow13.GC_DELETE:
		return w.engine.DeleteGroup(msg)
	}
	return nil
}

func (w *DatapathWorker) dispatchMeterMod(msg *openflow13.MeterMod) error {
	switch msg.Command {
	case openflow13.OFPMC_ADD:
		return w.engine.AddMeter(msg)
	case openflow13.OFPMC_MODIFY:
		return w.engine.ModifyMeter(msg)
	case openflow13.OFPMC_DELETE:
		return w.engine.DeleteMeter(msg)
	}
	return nil
}

// BuildPacketInMatch is the helper the PACKET_IN upcall path uses to
// turn a dissected frame back into the OxmMatches a PacketIn carries,
// given the port it arrived on.
func BuildPacketInMatch(inPort uint32, frame []byte) *openflow13.Match {
	info := packet.Dissect(frame)
	return ofmatch.BuildMatchFromPacket(inPort, 0, nil, info)
}
