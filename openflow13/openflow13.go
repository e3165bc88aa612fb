// Package openflow13 implements the OpenFlow 1.3 wire protocol: message
// construction, parsing and validation with bit-exact field layout.
//
// Struct documentation follows the OpenFlow Switch Specification
// Version 1.3.4.
package openflow13

import (
	"fmt"

	"github.com/trema-go/switch-core/common"
	"github.com/trema-go/switch-core/util"
)

const (
	VERSION = 4
)

// NewOfp13Header returns a fresh ofp_header stamped with version 0x04
// and a process-wide transaction id.
var NewOfp13Header func() common.Header = common.NewHeaderGenerator(VERSION)

// ofp_type
const (
	Type_Hello        = 0
	Type_Error        = 1
	Type_EchoRequest  = 2
	Type_EchoReply    = 3
	Type_Experimenter = 4

	Type_FeaturesRequest  = 5
	Type_FeaturesReply    = 6
	Type_GetConfigRequest = 7
	Type_GetConfigReply   = 8
	Type_SetConfig        = 9

	Type_PacketIn    = 10
	Type_FlowRemoved = 11
	Type_PortStatus  = 12

	Type_PacketOut = 13
	Type_FlowMod   = 14
	Type_GroupMod  = 15
	Type_PortMod   = 16
	Type_TableMod  = 17

	Type_MultiPartRequest = 18
	Type_MultiPartReply   = 19

	Type_BarrierRequest = 20
	Type_BarrierReply   = 21

	Type_QueueGetConfigRequest = 22
	Type_QueueGetConfigReply   = 23

	Type_RoleRequest = 24
	Type_RoleReply   = 25

	Type_GetAsyncRequest = 26
	Type_GetAsyncReply   = 27
	Type_SetAsync        = 28

	Type_MeterMod = 29
)

// Parse demultiplexes a raw OF1.3 frame (msg[0] == VERSION already
// checked by the caller) into a typed util.Message by msg[1] (ofp_type).
func Parse(data []byte) (msg util.Message, err error) {
	if len(data) < common.HeaderLen {
		return nil, fmt.Errorf("openflow13: frame too short (%d bytes)", len(data))
	}
	switch data[1] {
	case Type_Hello:
		msg = new(common.Hello)
	case Type_Error:
		msg = new(ErrorMsg)
	case Type_EchoRequest, Type_EchoReply:
		msg = new(Echo)
	case Type_Experimenter:
		msg = new(VendorHeader)
	case Type_FeaturesRequest:
		msg = new(common.Header)
	case Type_FeaturesReply:
		msg = NewFeaturesReply()
	case Type_GetConfigRequest:
		msg = new(common.Header)
	case Type_GetConfigReply:
		msg = NewGetConfigReply()
	case Type_SetConfig:
		msg = NewSetConfig()
	case Type_PacketIn:
		msg = NewPacketIn()
	case Type_FlowRemoved:
		msg = NewFlowRemoved()
	case Type_PortStatus:
		msg = NewPortStatus()
	case Type_PacketOut:
		msg = NewPacketOut()
	case Type_FlowMod:
		msg = NewFlowMod()
	case Type_GroupMod:
		msg = NewGroupMod()
	case Type_PortMod:
		msg = new(PortMod)
	case Type_TableMod:
		msg = NewTableMod()
	case Type_MultiPartRequest:
		msg = new(MultipartRequest)
	case Type_MultiPartReply:
		msg = new(MultipartReply)
	case Type_BarrierRequest:
		msg = new(common.Header)
	case Type_BarrierReply:
		msg = new(common.Header)
	case Type_RoleRequest:
		msg = NewRoleRequest()
	case Type_RoleReply:
		msg = NewRoleReply()
	case Type_MeterMod:
		msg = NewMeterMod()
	default:
		return nil, fmt.Errorf("openflow13: unknown message type %d", data[1])
	}
	if err = msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}
