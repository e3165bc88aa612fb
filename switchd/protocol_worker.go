package switchd

import (
	log "github.com/sirupsen/logrus"

	"github.com/trema-go/switch-core/common"
	"github.com/trema-go/switch-core/flowengine"
	"github.com/trema-go/switch-core/openflow13"
	"github.com/trema-go/switch-core/util"
)

// ChannelSend is the controller-facing send the protocol worker drives;
// a real binary satisfies this with a util.MessageStream, tests with a
// recording fake.
type ChannelSend interface {
	Send(msg util.Message) error
}

// ProtocolWorker owns the controller channel: it validates inbound
// frames, dispatches them to the datapath worker across the
// transport, and turns datapath upcalls into outbound messages.
type ProtocolWorker struct {
	channel      ChannelSend
	transport    *Transport
	engine       flowengine.Engine
	outstanding  *outstandingTable
	connected    bool
	capabilities uint32
}

// NewProtocolWorker wires channel (the controller connection) to
// transport (the link to the datapath worker) and engine (used
// directly for FEATURES_REQUEST/capability queries and for the Stats
// call that answers multipart requests; mods and packet-outs cross the
// transport).
func NewProtocolWorker(channel ChannelSend, transport *Transport, engine flowengine.Engine) *ProtocolWorker {
	return &ProtocolWorker{
		channel:     channel,
		transport:   transport,
		engine:      engine,
		outstanding: newOutstandingTable(),
	}
}

// Run drains the transport's upcall direction until stopCh closes.
// The first envelope it ever sees is expected to be the
// datapath-ready control frame; until then the controller channel
// should not be considered open by the caller.
func (w *ProtocolWorker) Run(stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		default:
		}
		for _, env := range w.transport.DrainToProtocol() {
			w.handleEnvelope(env)
		}
	}
}

func (w *ProtocolWorker) handleEnvelope(env envelope) {
	switch env.tag {
	case tagDatapathReady:
		w.capabilities = w.engine.Features().Capabilities
		log.Info("switchd: datapath ready")
	case tagPacketIn:
		if pi, ok := env.payload.(*openflow13.PacketIn); ok {
			w.send(pi)
		}
	case tagFlowRemoved:
		if fr, ok := env.payload.(*openflow13.FlowRemoved); ok {
			w.send(fr)
		}
	case tagPortStatus:
		if ps, ok := env.payload.(*openflow13.PortStatus); ok {
			w.send(ps)
		}
	}
}

func (w *ProtocolWorker) send(msg util.Message) {
	if err := w.channel.Send(msg); err != nil {
		log.WithError(err).Error("switchd: failed to send message to controller")
	}
}

func (w *ProtocolWorker) sendError(xid uint32, kind openflow13.ErrorKind, msgType uint8) {
	etype, code := openflow13.GetErrorTypeAndCode(msgType, kind)
	w.send(openflow13.NewErrorMsg(xid, etype, code, nil))
}

// HandleHello replies with a Hello advertising only this core's own
// version and marks the controller connected.
func (w *ProtocolWorker) HandleHello() {
	hello, err := common.NewHello(openflow13.VERSION)
	if err != nil {
		log.WithError(err).Error("switchd: failed to build hello reply")
		return
	}
	w.send(hello)
	w.connected = true
	w.capabilities = w.engine.Features().Capabilities
}

// HandleFeaturesRequest replies with the engine's reported capability
// set.
func (w *ProtocolWorker) HandleFeaturesRequest(xid uint32) {
	f := w.engine.Features()
	reply := openflow13.NewFeaturesReply()
	reply.Xid = xid
	reply.DatapathId = f.DatapathID
	reply.NumBuffers = f.NumBuffers
	reply.NumTables = f.NumTables
	reply.AuxiliaryId = f.AuxiliaryID
	reply.Capabilities = f.Capabilities
	w.send(reply)
}

// HandleEchoRequest replies with the identical body.
func (w *ProtocolWorker) HandleEchoRequest(req *openflow13.Echo) {
	reply := openflow13.NewEchoReply()
	reply.Xid = req.Xid
	reply.Data = req.Data
	w.send(reply)
}

// HandleBarrierRequest immediately replies with a barrier reply of the
// same xid; ordering itself is the engine's responsibility.
func (w *ProtocolWorker) HandleBarrierRequest(xid uint32) {
	reply := openflow13.NewOfp13Header()
	reply.Type = openflow13.Type_BarrierReply
	reply.Xid = xid
	w.send(&reply)
}

// HandleFlowMod validates command-specific constraints not covered by
// ValidateFlowMod, then forwards the mod to the datapath worker. If
// buffer_id names a buffered frame, a synthetic packet-out to
// OFPP_TABLE is enqueued alongside it.
func (w *ProtocolWorker) HandleFlowMod(mod *openflow13.FlowMod) {
	if mod.Command == openflow13.FC_ADD {
		const allowed = openflow13.FF_SEND_FLOW_REM | openflow13.FF_RESET_COUNTS
		if mod.Flags&^allowed != 0 {
			w.sendError(mod.Xid, openflow13.KindInvalidFlowModFlags, openflow13.Type_FlowMod)
			return
		}
	}
	if mod.TableId == openflow13.OFPTT_ALL {
		w.sendError(mod.Xid, openflow13.KindNoTableAvailable, openflow13.Type_FlowMod)
		return
	}

	if err := w.transport.PostToDatapath(controllerFrame{msg: mod, tableID: mod.TableId}); err != nil {
		log.WithError(err).Warn("switchd: failed to post flow mod to datapath")
		return
	}

	if mod.BufferId != openflow13.NO_BUFFER {
		out := openflow13.NewPacketOut()
		out.Xid = mod.Xid
		out.BufferId = mod.BufferId
		out.InPort = openflow13.P_CONTROLLER
		out.Actions.Actions = append(out.Actions.Actions, openflow13.NewActionOutput(openflow13.P_TABLE))
		if err := w.transport.PostToDatapath(controllerFrame{msg: out}); err != nil {
			log.WithError(err).Warn("switchd: failed to post synthetic packet-out")
		}
	}
}

// HandlePacketOut forwards the packet-out to the datapath worker.
func (w *ProtocolWorker) HandlePacketOut(out *openflow13.PacketOut) {
	if err := w.transport.PostToDatapath(controllerFrame{msg: out}); err != nil {
		log.WithError(err).Warn("switchd: failed to post packet-out to datapath")
	}
}

// HandleGroupMod, HandlePortMod, HandleTableMod and HandleMeterMod all
// forward unchanged to the datapath worker; error mapping happens once
// the engine call resolves, which in this core's design is
// fire-and-forget from the protocol worker's perspective (the engine
// logs rather than returning a synchronous OFDPE over the transport).
func (w *ProtocolWorker) HandleGroupMod(mod *openflow13.GroupMod) {
	if err := w.transport.PostToDatapath(controllerFrame{msg: mod}); err != nil {
		log.WithError(err).Warn("switchd: failed to post group mod to datapath")
	}
}

func (w *ProtocolWorker) HandlePortMod(mod *openflow13.PortMod) {
	if err := w.transport.PostToDatapath(controllerFrame{msg: mod}); err != nil {
		log.WithError(err).Warn("switchd: failed to post port mod to datapath")
	}
}

func (w *ProtocolWorker) HandleTableMod(mod *openflow13.TableMod) {
	if err := w.transport.PostToDatapath(controllerFrame{msg: mod}); err != nil {
		log.WithError(err).Warn("switchd: failed to post table mod to datapath")
	}
}

func (w *ProtocolWorker) HandleMeterMod(mod *openflow13.MeterMod) {
	if err := w.transport.PostToDatapath(controllerFrame{msg: mod}); err != nil {
		log.WithError(err).Warn("switchd: failed to post meter mod to datapath")
	}
}

// multipartCapabilityBit reports the switch capability required to
// answer a given multipart request type, or 0 if the type is ungated.
func multipartCapabilityBit(mpType uint16) uint32 {
	switch mpType {
	case openflow13.MultipartType_Flow, openflow13.MultipartType_Aggregate, openflow13.MultipartType_Table:
		return openflow13.CAP_TABLE_STATS
	case openflow13.MultipartType_Port:
		return openflow13.CAP_PORT_STATS
	case openflow13.MultipartType_Group, openflow13.MultipartType_GroupDesc, openflow13.MultipartType_GroupFeatures:
		return openflow13.CAP_GROUP_STATS
	case openflow13.MultipartType_Queue:
		return openflow13.CAP_QUEUE_STATS
	}
	return 0
}

// HandleMultipartRequest tracks the (xid, type) outstanding-request
// table, enforces capability gating, and answers from the engine's
// Stats by driving a MultipartReplyChunker until it reports no more
// frames, setting OFPMPF_REPLY_MORE on every frame but the last.
func (w *ProtocolWorker) HandleMultipartRequest(req *openflow13.MultipartRequest) {
	moreFlag := req.Flags&openflow13.OFPMPF_REQ_MORE != 0
	if !w.outstanding.track(req.Xid, req.Type, req.Flags, moreFlag) {
		w.sendError(req.Xid, openflow13.KindMultipartBufferOverflow, openflow13.Type_MultiPartRequest)
		return
	}

	if bit := multipartCapabilityBit(req.Type); bit != 0 && w.capabilities&bit == 0 {
		w.sendError(req.Xid, openflow13.KindInvalidStatsType, openflow13.Type_MultiPartRequest)
		return
	}

	if moreFlag {
		return
	}

	records, err := w.engine.Stats(req.Type, nil)
	if err != nil {
		w.sendError(req.Xid, openflow13.KindUnsupportedStatsType, openflow13.Type_MultiPartRequest)
		return
	}

	body := make([]util.Message, 0, len(records))
	for _, r := range records {
		if m, ok := r.(util.Message); ok {
			body = append(body, m)
		}
	}

	chunker := openflow13.NewMultipartReplyChunker(req.Xid, req.Type, body)
	for {
		reply, more := chunker.Next()
		w.send(reply)
		if !more {
			break
		}
	}
}
