package openflow13

// errMapKey indexes the error-code table by the message type being
// validated and the internal ErrorKind the validator produced.
type errMapKey struct {
	msgType uint8
	kind    ErrorKind
}

type errCode struct {
	etype uint16
	code  uint16
}

// errorCodeTable is the fixed (message_type, internal_error_kind) →
// (ofp_et, ofp_code) map every validator result is translated through.
// It must be reproduced exactly — tests exercise it row by row. Rows
// marked FIXME fall on OF1.3's catch-all OFPBRC_EPERM because OF1.3
// does not enumerate a more specific code for that (type, kind)
// combination; this mirrors the original C source's own FIXME-flagged
// defaults. The one exception is the TableMod row, whose FIXME marks a
// reused kind and which maps to OFPTMFC_BAD_TABLE.
var errorCodeTable = map[errMapKey]errCode{
	{Type_Hello, KindUnsupportedVersion}: {ET_HELLO_FAILED, HFC_INCOMPATIBLE},

	{Type_Hello, KindTooShortHelloElement}:      {ET_BAD_REQUEST, OFPBRC_BAD_LEN},
	{Type_Hello, KindInvalidHelloElementLength}: {ET_BAD_REQUEST, OFPBRC_BAD_LEN},
	{Type_Hello, KindUndefinedHelloElementType}: {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME: OF1.3 has no specific code for this

	{Type_FlowMod, KindUndefinedFlowModCommand}: {ET_FLOW_MOD_FAILED, OFPFMFC_BAD_COMMAND},
	{Type_FlowMod, KindInvalidFlowModFlags}:     {ET_FLOW_MOD_FAILED, OFPFMFC_BAD_FLAGS},
	{Type_FlowMod, KindNoTableAvailable}:        {ET_FLOW_MOD_FAILED, OFPFMFC_BAD_TABLE_ID},
	{Type_FlowMod, KindInvalidMatchType}:        {ET_BAD_MATCH, OFPBMC_BAD_TYPE},
	{Type_FlowMod, KindBadMatchPrereq}:           {ET_BAD_MATCH, OFPBMC_BAD_PREREQ},
	{Type_FlowMod, KindInvalidVlanVid}:          {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidVlanPcp}:          {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidIpDscp}:           {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidIpEcn}:            {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidIpv6Flabel}:       {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidMplsLabel}:        {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidMplsTc}:           {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidMplsBos}:          {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidPbbIsid}:          {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindInvalidIpv6Exthdr}:       {ET_BAD_MATCH, OFPBMC_BAD_VALUE},
	{Type_FlowMod, KindTooShortAction}:          {ET_BAD_ACTION, OFPBAC_BAD_LEN},
	{Type_FlowMod, KindTooLongAction}:           {ET_BAD_ACTION, OFPBAC_BAD_LEN},
	{Type_FlowMod, KindUndefinedActionType}:     {ET_BAD_ACTION, OFPBAC_BAD_TYPE},
	{Type_FlowMod, KindInvalidPortNo}:           {ET_BAD_ACTION, OFPBAC_BAD_OUT_PORT},
	{Type_FlowMod, KindTooShortInstruction}:     {ET_BAD_INSTRUCTION, OFPBIC_BAD_LEN},
	{Type_FlowMod, KindTooLongInstruction}:      {ET_BAD_INSTRUCTION, OFPBIC_BAD_LEN},
	{Type_FlowMod, KindUndefinedInstructionType}: {ET_BAD_INSTRUCTION, OFPBIC_UNKNOWN_INST},

	{Type_GroupMod, KindInvalidGroupCommand}: {ET_GROUP_MOD_FAILED, OFPGMFC_BAD_COMMAND},
	{Type_GroupMod, KindInvalidGroupType}:    {ET_GROUP_MOD_FAILED, OFPGMFC_BAD_TYPE},
	{Type_GroupMod, KindTooShortAction}:      {ET_BAD_ACTION, OFPBAC_BAD_LEN},
	{Type_GroupMod, KindUndefinedActionType}: {ET_BAD_ACTION, OFPBAC_BAD_TYPE},

	{Type_PortMod, KindInvalidPortNo}:       {ET_PORT_MOD_FAILED, OFPPMFC_BAD_PORT},
	{Type_PortMod, KindInvalidPortConfig}:   {ET_PORT_MOD_FAILED, OFPPMFC_BAD_CONFIG},
	{Type_PortMod, KindInvalidPortFeatures}: {ET_PORT_MOD_FAILED, OFPPMFC_BAD_ADVERTISE},
	{Type_PortMod, KindInvalidPortMask}:     {ET_PORT_MOD_FAILED, OFPPMFC_BAD_CONFIG},

	{Type_TableMod, KindInvalidPortNo}: {ET_TABLE_MOD_FAILED, OFPTMFC_BAD_TABLE}, // FIXME: reused kind, table id out of range

	{Type_MeterMod, KindInvalidMeterCommand}:  {ET_METER_MOD_FAILED, OFPMMFC_BAD_COMMAND},
	{Type_MeterMod, KindInvalidMeterFlags}:    {ET_METER_MOD_FAILED, OFPMMFC_BAD_FLAGS},
	{Type_MeterMod, KindInvalidMeterBandType}: {ET_METER_MOD_FAILED, OFPMMFC_BAD_BAND},

	{Type_RoleRequest, KindInvalidControllerRole}: {ET_ROLE_REQUEST_FAILED, OFPRRFC_BAD_ROLE},

	{Type_SetConfig, KindInvalidSwitchConfig}: {ET_SWITCH_CONFIG_FAILED, OFPSCFC_BAD_FLAGS},

	{Type_PacketIn, KindInvalidPacketInReason}: {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME: no OF1.3 code for a bad controller-local enum seen only on encode
	{Type_PacketIn, KindInvalidPacketInMask}:   {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME: async config masks have no dedicated error type

	{Type_FlowRemoved, KindInvalidFlowRemovedReason}: {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME
	{Type_FlowRemoved, KindInvalidFlowRemovedMask}:   {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME

	{Type_PortStatus, KindInvalidPortStatusReason}: {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME
	{Type_PortStatus, KindInvalidPortStatusMask}:   {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME

	{Type_MultiPartRequest, KindInvalidStatsType}:     {ET_BAD_REQUEST, OFPBRC_BAD_MULTIPART},
	{Type_MultiPartRequest, KindUnsupportedStatsType}: {ET_BAD_REQUEST, OFPBRC_BAD_MULTIPART},
	{Type_MultiPartRequest, KindInvalidRequestFlags}:  {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME
	{Type_MultiPartRequest, KindInvalidReplyFlags}:    {ET_BAD_REQUEST, OFPBRC_EPERM}, // FIXME
	{Type_MultiPartRequest, KindMultipartBufferOverflow}: {ET_BAD_REQUEST, OFPBRC_MULTIPART_BUFFER_OVERFLOW},

	{Type_PacketOut, KindTooShortAction}:      {ET_BAD_ACTION, OFPBAC_BAD_LEN},
	{Type_PacketOut, KindUndefinedActionType}: {ET_BAD_ACTION, OFPBAC_BAD_TYPE},
	{Type_PacketOut, KindInvalidPortNo}:       {ET_BAD_ACTION, OFPBAC_BAD_OUT_PORT},
}

// generic, message-type-agnostic header failures apply to every message
// kind; they are looked up with msgType == 0xff as a wildcard row.
const anyMsgType = 0xff

func init() {
	errorCodeTable[errMapKey{anyMsgType, KindUnsupportedVersion}] = errCode{ET_HELLO_FAILED, HFC_INCOMPATIBLE}
	errorCodeTable[errMapKey{anyMsgType, KindInvalidType}] = errCode{ET_BAD_REQUEST, OFPBRC_BAD_TYPE}
	errorCodeTable[errMapKey{anyMsgType, KindUndefinedType}] = errCode{ET_BAD_REQUEST, OFPBRC_BAD_TYPE}
	errorCodeTable[errMapKey{anyMsgType, KindTooShortMessage}] = errCode{ET_BAD_REQUEST, OFPBRC_BAD_LEN}
	errorCodeTable[errMapKey{anyMsgType, KindTooLongMessage}] = errCode{ET_BAD_REQUEST, OFPBRC_BAD_LEN}
	errorCodeTable[errMapKey{anyMsgType, KindInvalidLength}] = errCode{ET_BAD_REQUEST, OFPBRC_BAD_LEN}
}

// GetErrorTypeAndCode resolves the (ofp_et, code) pair for a validator
// failure. Message-type-specific rows take priority; otherwise the
// wildcard row for that kind applies; otherwise OF1.3's generic
// (OFPET_BAD_REQUEST, OFPBRC_BAD_TYPE) default.
func GetErrorTypeAndCode(msgType uint8, kind ErrorKind) (etype uint16, code uint16) {
	if c, ok := errorCodeTable[errMapKey{msgType, kind}]; ok {
		return c.etype, c.code
	}
	if c, ok := errorCodeTable[errMapKey{anyMsgType, kind}]; ok {
		return c.etype, c.code
	}
	return ET_BAD_REQUEST, OFPBRC_BAD_TYPE
}
