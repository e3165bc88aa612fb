package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/common"
)

// ofp_error_type
const (
	ET_HELLO_FAILED         = 0
	ET_BAD_REQUEST          = 1
	ET_BAD_ACTION           = 2
	ET_BAD_INSTRUCTION      = 3
	ET_BAD_MATCH            = 4
	ET_FLOW_MOD_FAILED      = 5
	ET_GROUP_MOD_FAILED     = 6
	ET_PORT_MOD_FAILED      = 7
	ET_TABLE_MOD_FAILED     = 8
	ET_QUEUE_OP_FAILED      = 9
	ET_SWITCH_CONFIG_FAILED = 10
	ET_ROLE_REQUEST_FAILED  = 11
	ET_METER_MOD_FAILED     = 12
	ET_TABLE_FEATURES_FAILED = 13
	ET_EXPERIMENTER         = 0xffff
)

// ofp_hello_failed_code
const (
	HFC_INCOMPATIBLE = 0
	HFC_EPERM        = 1
)

// ofp_bad_request_code
const (
	OFPBRC_BAD_VERSION                = 0
	OFPBRC_BAD_TYPE                   = 1
	OFPBRC_BAD_MULTIPART              = 2
	OFPBRC_BAD_EXPERIMENTER           = 3
	OFPBRC_BAD_EXP_TYPE               = 4
	OFPBRC_EPERM                      = 5
	OFPBRC_BAD_LEN                    = 6
	OFPBRC_BUFFER_EMPTY               = 7
	OFPBRC_BUFFER_UNKNOWN             = 8
	OFPBRC_BAD_TABLE_ID               = 9
	OFPBRC_IS_SLAVE                   = 10
	OFPBRC_BAD_PORT                   = 11
	OFPBRC_BAD_PACKET                 = 12
	OFPBRC_MULTIPART_BUFFER_OVERFLOW  = 13
)

// ofp_bad_action_code
const (
	OFPBAC_BAD_TYPE           = 0
	OFPBAC_BAD_LEN            = 1
	OFPBAC_BAD_EXPERIMENTER   = 2
	OFPBAC_BAD_EXP_TYPE       = 3
	OFPBAC_BAD_OUT_PORT       = 4
	OFPBAC_BAD_ARGUMENT       = 5
	OFPBAC_EPERM              = 6
	OFPBAC_TOO_MANY           = 7
	OFPBAC_BAD_QUEUE          = 8
	OFPBAC_BAD_OUT_GROUP      = 9
	OFPBAC_MATCH_INCONSISTENT = 10
	OFPBAC_UNSUPPORTED_ORDER  = 11
	OFPBAC_BAD_TAG            = 12
	OFPBAC_BAD_SET_TYPE       = 13
	OFPBAC_BAD_SET_LEN        = 14
	OFPBAC_BAD_SET_ARGUMENT   = 15
)

// ofp_bad_instruction_code
const (
	OFPBIC_UNKNOWN_INST        = 0
	OFPBIC_UNSUP_INST          = 1
	OFPBIC_BAD_TABLE_ID        = 2
	OFPBIC_UNSUP_METADATA      = 3
	OFPBIC_UNSUP_METADATA_MASK = 4
	OFPBIC_BAD_EXPERIMENTER    = 5
	OFPBIC_BAD_EXP_TYPE        = 6
	OFPBIC_BAD_LEN             = 7
	OFPBIC_EPERM               = 8
)

// ofp_bad_match_code
const (
	OFPBMC_BAD_TYPE      = 0
	OFPBMC_BAD_LEN       = 1
	OFPBMC_BAD_TAG       = 2
	OFPBMC_BAD_DL_ADDR_MASK = 3
	OFPBMC_BAD_NW_ADDR_MASK = 4
	OFPBMC_BAD_WILDCARDS = 5
	OFPBMC_BAD_FIELD     = 6
	OFPBMC_BAD_VALUE     = 7
	OFPBMC_BAD_MASK      = 8
	OFPBMC_BAD_PREREQ    = 9
	OFPBMC_DUP_FIELD     = 10
	OFPBMC_EPERM         = 11
)

// ofp_flow_mod_failed_code
const (
	OFPFMFC_UNKNOWN      = 0
	OFPFMFC_TABLE_FULL   = 1
	OFPFMFC_BAD_TABLE_ID = 2
	OFPFMFC_OVERLAP      = 3
	OFPFMFC_EPERM        = 4
	OFPFMFC_BAD_TIMEOUT  = 5
	OFPFMFC_BAD_COMMAND  = 6
	OFPFMFC_BAD_FLAGS    = 7
)

// ofp_group_mod_failed_code
const (
	OFPGMFC_GROUP_EXISTS         = 0
	OFPGMFC_INVALID_GROUP        = 1
	OFPGMFC_WEIGHT_UNSUPPORTED   = 2
	OFPGMFC_OUT_OF_GROUPS        = 3
	OFPGMFC_OUT_OF_BUCKETS       = 4
	OFPGMFC_CHAINING_UNSUPPORTED = 5
	OFPGMFC_WATCH_UNSUPPORTED    = 6
	OFPGMFC_LOOP                 = 7
	OFPGMFC_UNKNOWN_GROUP        = 8
	OFPGMFC_CHAINED_GROUP        = 9
	OFPGMFC_BAD_TYPE             = 10
	OFPGMFC_BAD_COMMAND          = 11
	OFPGMFC_BAD_BUCKET           = 12
	OFPGMFC_BAD_WATCH            = 13
	OFPGMFC_EPERM                = 14
)

// ofp_port_mod_failed_code
const (
	OFPPMFC_BAD_PORT    = 0
	OFPPMFC_BAD_HW_ADDR = 1
	OFPPMFC_BAD_CONFIG  = 2
	OFPPMFC_BAD_ADVERTISE = 3
	OFPPMFC_EPERM       = 4
)

// ofp_table_mod_failed_code
const (
	OFPTMFC_BAD_TABLE  = 0
	OFPTMFC_BAD_CONFIG = 1
	OFPTMFC_EPERM      = 2
)

// ofp_queue_op_failed_code
const (
	OFPQOFC_BAD_PORT  = 0
	OFPQOFC_BAD_QUEUE = 1
	OFPQOFC_EPERM     = 2
)

// ofp_switch_config_failed_code
const (
	OFPSCFC_BAD_FLAGS = 0
	OFPSCFC_BAD_LEN   = 1
	OFPSCFC_EPERM     = 2
)

// ofp_role_request_failed_code
const (
	OFPRRFC_STALE    = 0
	OFPRRFC_UNSUP    = 1
	OFPRRFC_BAD_ROLE = 2
)

// ofp_meter_mod_failed_code
const (
	OFPMMFC_UNKNOWN        = 0
	OFPMMFC_METER_EXISTS   = 1
	OFPMMFC_INVALID_METER  = 2
	OFPMMFC_UNKNOWN_METER  = 3
	OFPMMFC_BAD_COMMAND    = 4
	OFPMMFC_BAD_FLAGS      = 5
	OFPMMFC_BAD_RATE       = 6
	OFPMMFC_BAD_BURST      = 7
	OFPMMFC_BAD_BAND       = 8
	OFPMMFC_BAD_BAND_VALUE = 9
	OFPMMFC_OUT_OF_METERS  = 10
	OFPMMFC_OUT_OF_BANDS   = 11
)

// ofp_table_features_failed_code
const (
	OFPTFFC_BAD_TABLE    = 0
	OFPTFFC_BAD_METADATA = 1
	OFPTFFC_BAD_TYPE     = 2
	OFPTFFC_BAD_LEN      = 3
	OFPTFFC_BAD_ARGUMENT = 4
	OFPTFFC_EPERM        = 5
)

// ErrorMsg is OFPT_ERROR: (type, code) plus the offending request data,
// echoed back verbatim up to 64 bytes as OF1.3 recommends.
type ErrorMsg struct {
	common.Header
	Type uint16
	Code uint16
	Data []byte
}

func NewErrorMsg(xid uint32, errType, code uint16, data []byte) *ErrorMsg {
	h := NewOfp13Header()
	h.Type = Type_Error
	h.Xid = xid
	if len(data) > 64 {
		data = data[:64]
	}
	return &ErrorMsg{Header: h, Type: errType, Code: code, Data: data}
}

func (e *ErrorMsg) Len() uint16 {
	return e.Header.Len() + 4 + uint16(len(e.Data))
}

func (e *ErrorMsg) MarshalBinary() (data []byte, err error) {
	e.Header.Length = e.Len()
	data, err = e.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	tail := make([]byte, 4)
	binary.BigEndian.PutUint16(tail[0:2], e.Type)
	binary.BigEndian.PutUint16(tail[2:4], e.Code)
	data = append(data, tail...)
	return append(data, e.Data...), nil
}

func (e *ErrorMsg) UnmarshalBinary(data []byte) error {
	if err := e.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 12 {
		return errTooShort("error")
	}
	e.Type = binary.BigEndian.Uint16(data[8:10])
	e.Code = binary.BigEndian.Uint16(data[10:12])
	if int(e.Header.Length) > 12 {
		e.Data = append([]byte(nil), data[12:e.Header.Length]...)
	}
	return nil
}

// VendorHeader is OFPT_EXPERIMENTER: an experimenter id plus an
// experimenter-defined, opaque payload.
type VendorHeader struct {
	common.Header
	Vendor uint32
	Data   []byte
}

func (v *VendorHeader) Len() uint16 {
	return v.Header.Len() + 4 + uint16(len(v.Data))
}

func (v *VendorHeader) MarshalBinary() (data []byte, err error) {
	v.Header.Length = v.Len()
	data, err = v.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	tail := make([]byte, 4)
	binary.BigEndian.PutUint32(tail, v.Vendor)
	data = append(data, tail...)
	return append(data, v.Data...), nil
}

func (v *VendorHeader) UnmarshalBinary(data []byte) error {
	if err := v.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 12 {
		return errTooShort("vendor header")
	}
	v.Vendor = binary.BigEndian.Uint32(data[8:12])
	if int(v.Header.Length) > 12 {
		v.Data = append([]byte(nil), data[12:v.Header.Length]...)
	}
	return nil
}
