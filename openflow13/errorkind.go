package openflow13

import "fmt"

// ErrorKind is the dense internal error number every validate_* function
// returns. It never appears on the wire itself: GetErrorTypeAndCode
// translates a (message type, ErrorKind) pair into the OFPET_*/OFPxxC_*
// pair that does.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnsupportedVersion
	KindInvalidType
	KindUndefinedType
	KindTooShortMessage
	KindTooLongMessage
	KindInvalidLength
	KindTooShortHelloElement
	KindInvalidHelloElementLength
	KindUndefinedHelloElementType
	KindInvalidMatchType
	KindBadMatchPrereq
	KindInvalidVlanVid
	KindInvalidVlanPcp
	KindInvalidIpDscp
	KindInvalidIpEcn
	KindInvalidIpv6Flabel
	KindInvalidMplsLabel
	KindInvalidMplsTc
	KindInvalidMplsBos
	KindInvalidPbbIsid
	KindInvalidIpv6Exthdr
	KindInvalidPortNo
	KindInvalidPortConfig
	KindInvalidPortState
	KindInvalidPortFeatures
	KindInvalidPortMask
	KindInvalidSwitchConfig
	KindInvalidPacketInReason
	KindInvalidFlowRemovedReason
	KindInvalidPortStatusReason
	KindUndefinedFlowModCommand
	KindInvalidFlowModFlags
	KindInvalidGroupCommand
	KindInvalidGroupType
	KindInvalidStatsType
	KindInvalidRequestFlags
	KindInvalidReplyFlags
	KindUnsupportedStatsType
	KindInvalidMeterCommand
	KindInvalidMeterFlags
	KindInvalidMeterBandType
	KindInvalidControllerRole
	KindInvalidPacketInMask
	KindInvalidPortStatusMask
	KindInvalidFlowRemovedMask
	KindTooShortAction
	KindTooLongAction
	KindUndefinedActionType
	KindTooShortInstruction
	KindTooLongInstruction
	KindUndefinedInstructionType
	KindNoTableAvailable
	KindTooShortQueueDescription
	KindTooShortQueueProperty
	KindTooLongQueueProperty
	KindUndefinedQueueProperty
	KindMultipartBufferOverflow
)

var errorKindNames = map[ErrorKind]string{
	KindNone:                      "none",
	KindUnsupportedVersion:        "unsupported_version",
	KindInvalidType:               "invalid_type",
	KindUndefinedType:             "undefined_type",
	KindTooShortMessage:           "too_short_message",
	KindTooLongMessage:            "too_long_message",
	KindInvalidLength:             "invalid_length",
	KindTooShortHelloElement:      "too_short_hello_element",
	KindInvalidHelloElementLength: "invalid_hello_element_length",
	KindUndefinedHelloElementType: "undefined_hello_element_type",
	KindInvalidMatchType:          "invalid_match_type",
	KindBadMatchPrereq:            "bad_match_prereq",
	KindInvalidVlanVid:            "invalid_vlan_vid",
	KindInvalidVlanPcp:            "invalid_vlan_pcp",
	KindInvalidIpDscp:             "invalid_ip_dscp",
	KindInvalidIpEcn:              "invalid_ip_ecn",
	KindInvalidIpv6Flabel:         "invalid_ipv6_flabel",
	KindInvalidMplsLabel:          "invalid_mpls_label",
	KindInvalidMplsTc:             "invalid_mpls_tc",
	KindInvalidMplsBos:            "invalid_mpls_bos",
	KindInvalidPbbIsid:            "invalid_pbb_isid",
	KindInvalidIpv6Exthdr:         "invalid_ipv6_exthdr",
	KindInvalidPortNo:             "invalid_port_no",
	KindInvalidPortConfig:         "invalid_port_config",
	KindInvalidPortState:          "invalid_port_state",
	KindInvalidPortFeatures:       "invalid_port_features",
	KindInvalidPortMask:           "invalid_port_mask",
	KindInvalidSwitchConfig:       "invalid_switch_config",
	KindInvalidPacketInReason:     "invalid_packet_in_reason",
	KindInvalidFlowRemovedReason:  "invalid_flow_removed_reason",
	KindInvalidPortStatusReason:   "invalid_port_status_reason",
	KindUndefinedFlowModCommand:   "undefined_flow_mod_command",
	KindInvalidFlowModFlags:       "invalid_flow_mod_flags",
	KindInvalidGroupCommand:       "invalid_group_command",
	KindInvalidGroupType:          "invalid_group_type",
	KindInvalidStatsType:          "invalid_stats_type",
	KindInvalidRequestFlags:       "invalid_request_flags",
	KindInvalidReplyFlags:         "invalid_reply_flags",
	KindUnsupportedStatsType:      "unsupported_stats_type",
	KindInvalidMeterCommand:       "invalid_meter_command",
	KindInvalidMeterFlags:         "invalid_meter_flags",
	KindInvalidMeterBandType:      "invalid_meter_band_type",
	KindInvalidControllerRole:     "invalid_controller_role",
	KindInvalidPacketInMask:       "invalid_packet_in_mask",
	KindInvalidPortStatusMask:     "invalid_port_status_mask",
	KindInvalidFlowRemovedMask:    "invalid_flow_removed_mask",
	KindTooShortAction:            "too_short_action",
	KindTooLongAction:             "too_long_action",
	KindUndefinedActionType:       "undefined_action_type",
	KindTooShortInstruction:       "too_short_instruction",
	KindTooLongInstruction:        "too_long_instruction",
	KindUndefinedInstructionType:  "undefined_instruction_type",
	KindNoTableAvailable:          "no_table_available",
	KindTooShortQueueDescription:  "too_short_queue_description",
	KindTooShortQueueProperty:     "too_short_queue_property",
	KindTooLongQueueProperty:      "too_long_queue_property",
	KindUndefinedQueueProperty:    "undefined_queue_property",
	KindMultipartBufferOverflow:   "multipart_buffer_overflow",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("errorkind(%d)", int(k))
}

// ValidationError pairs an ErrorKind with the xid of the message that
// failed validation, so the protocol worker can build an OFPT_ERROR
// without re-deriving context.
type ValidationError struct {
	Kind ErrorKind
	Xid  uint32
	msg  string
}

func (e *ValidationError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.msg)
	}
	return e.Kind.String()
}

func newValidationError(kind ErrorKind, xid uint32, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Xid: xid, msg: msg}
}

func errTooShort(what string) error {
	return fmt.Errorf("%s: buffer too short", what)
}
