package openflow13

import (
	"encoding/binary"

	log "github.com/sirupsen/logrus"
)

// ValidateHeader checks the ofp_header of a raw inbound frame against
// the message kind the caller expected to receive: version must be
// VERSION, type must equal expectedType, and length must be inside
// [minLen, maxLen] and equal to the buffer's own size. It returns the
// internal ErrorKind to surface via map_err, or KindNone.
func ValidateHeader(data []byte, expectedType uint8, minLen, maxLen uint16) ErrorKind {
	if len(data) < 4 {
		return KindTooShortMessage
	}
	if data[0] != VERSION {
		return KindUnsupportedVersion
	}
	if data[1] != expectedType {
		return KindInvalidType
	}
	length := binary.BigEndian.Uint16(data[2:4])
	if length < minLen {
		return KindTooShortMessage
	}
	if length > maxLen {
		return KindTooLongMessage
	}
	if int(length) != len(data) {
		return KindInvalidLength
	}
	return KindNone
}

// buildErrorFor turns a (msgType, kind, xid) triple into the ErrorMsg the
// protocol worker sends back, echoing up to 64 bytes of the offending
// request per OF1.3's recommendation.
func buildErrorFor(msgType uint8, kind ErrorKind, xid uint32, offending []byte) *ErrorMsg {
	etype, code := GetErrorTypeAndCode(msgType, kind)
	return NewErrorMsg(xid, etype, code, offending)
}

// ValidateFlowMod enforces the FlowMod-specific invariants validate_header
// doesn't cover: command range, flag bits, and match prerequisites.
func ValidateFlowMod(f *FlowMod) ErrorKind {
	switch f.Command {
	case FC_ADD, FC_MODIFY, FC_MODIFY_STRICT, FC_DELETE, FC_DELETE_STRICT:
	default:
		return KindUndefinedFlowModCommand
	}
	const allFlags = FF_SEND_FLOW_REM | FF_CHECK_OVERLAP | FF_RESET_COUNTS | FF_NO_PKT_COUNTS | FF_NO_BYT_COUNTS
	if f.Flags&^uint16(allFlags) != 0 {
		return KindInvalidFlowModFlags
	}
	if kind := f.Match.ValidatePrereqs(); kind != KindNone {
		return kind
	}
	return KindNone
}

// ValidateGroupMod enforces GroupMod command/type enum ranges.
func ValidateGroupMod(g *GroupMod) ErrorKind {
	switch g.Command {
	case GC_ADD, GC_MODIFY, GC_DELETE:
	default:
		return KindInvalidGroupCommand
	}
	switch g.Type {
	case GT_ALL, GT_SELECT, GT_INDIRECT, GT_FF:
	default:
		return KindInvalidGroupType
	}
	return KindNone
}

// ValidatePortMod enforces PortMod's config/mask bit ranges.
func ValidatePortMod(p *PortMod) ErrorKind {
	const allConfig = PC_PORT_DOWN | PC_NO_RECV | PC_NO_FWD | PC_NO_PACKET_IN
	if p.Config&^uint32(allConfig) != 0 {
		return KindInvalidPortConfig
	}
	if p.Mask&^uint32(allConfig) != 0 {
		return KindInvalidPortMask
	}
	return KindNone
}

// ValidateMeterMod enforces MeterMod command/flag ranges.
func ValidateMeterMod(m *MeterMod) ErrorKind {
	switch m.Command {
	case OFPMC_ADD, OFPMC_MODIFY, OFPMC_DELETE:
	default:
		return KindInvalidMeterCommand
	}
	const allFlags = OFPMF13_KBPS | OFPMF13_PKTPS | OFPMF13_BURST | OFPMF13_STATS
	if m.Flags&^uint16(allFlags) != 0 {
		return KindInvalidMeterFlags
	}
	for _, b := range m.MeterBands {
		var btype uint16
		switch band := b.(type) {
		case *MeterBandDrop:
			btype = band.Type
		case *MeterBandDSCP:
			btype = band.Type
		case *MeterBandExperimenter:
			btype = band.Type
		}
		switch btype {
		case OFPMBT13_DROP, OFPMBT13_DSCP_REMARK, OFPMBT13_EXPERIMENTER:
		default:
			return KindInvalidMeterBandType
		}
	}
	return KindNone
}

// ValidateRoleRequest enforces the controller-role enum.
func ValidateRoleRequest(r *RoleRequest) ErrorKind {
	switch r.Role {
	case CR_ROLE_NOCHANGE, CR_ROLE_EQUAL, CR_ROLE_MASTER, CR_ROLE_SLAVE:
		return KindNone
	default:
		return KindInvalidControllerRole
	}
}

// ValidateSwitchConfig enforces the fragmentation-handling flag range.
func ValidateSwitchConfig(c *SwitchConfig) ErrorKind {
	if c.Flags&^uint16(FRAG_MASK) != 0 {
		return KindInvalidSwitchConfig
	}
	return KindNone
}

// ValidatePacketIn enforces the packet-in reason enum.
func ValidatePacketIn(p *PacketIn) ErrorKind {
	switch p.Reason {
	case PR_NO_MATCH, PR_ACTION, PR_INVALID_TTL:
		return KindNone
	default:
		return KindInvalidPacketInReason
	}
}

// ValidateFlowRemoved enforces the flow-removed reason enum.
func ValidateFlowRemoved(f *FlowRemoved) ErrorKind {
	switch f.Reason {
	case RR_IDLE_TIMEOUT, RR_HARD_TIMEOUT, RR_DELETE, RR_GROUP_DELETE:
		return KindNone
	default:
		return KindInvalidFlowRemovedReason
	}
}

// ValidatePortStatus enforces the port-status reason enum.
func ValidatePortStatus(p *PortStatus) ErrorKind {
	switch p.Reason {
	case PR_ADD, PR_DELETE, PR_MODIFY:
		return KindNone
	default:
		return KindInvalidPortStatusReason
	}
}

// ValidatePacketOut enforces the buffer_id/data contract: a PACKET_OUT
// carrying no buffer reference must carry its own packet data, and that
// data must be large enough to have come off a real wire. A violation
// is treated as fatal rather than a wire-level validation error, since
// it means the caller built the message wrong, not the peer.
func ValidatePacketOut(p *PacketOut) {
	const ethMinimumLength = 64
	const ethFCS = 4
	if p.BufferId == NO_BUFFER && len(p.Data)+ethFCS < ethMinimumLength {
		log.Fatalf("packet out: buffer_id is NO_BUFFER but data is too short (%d bytes)", len(p.Data))
	}
}
