package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/util"
)

// ofp_action_type
const (
	AT_OUTPUT       = 0
	AT_COPY_TTL_OUT = 11
	AT_COPY_TTL_IN  = 12
	AT_SET_MPLS_TTL = 15
	AT_DEC_MPLS_TTL = 16
	AT_PUSH_VLAN    = 17
	AT_POP_VLAN     = 18
	AT_PUSH_MPLS    = 19
	AT_POP_MPLS     = 20
	AT_SET_QUEUE    = 21
	AT_GROUP        = 22
	AT_SET_NW_TTL   = 23
	AT_DEC_NW_TTL   = 24
	AT_SET_FIELD    = 25
	AT_PUSH_PBB     = 26
	AT_POP_PBB      = 27
	AT_EXPERIMENTER = 0xffff
)

// ofp_controller_max_len
const (
	ControllerMaxLenMax      = 0xffe5
	ControllerMaxLenNoBuffer = 0xffff
)

const actionHeaderLen = 4

// ActionHeader is the common {type, length} prefix every action shares.
type ActionHeader struct {
	Type   uint16
	Length uint16
}

func (h *ActionHeader) Len() uint16 { return actionHeaderLen }

func (h *ActionHeader) MarshalBinary() (data []byte, err error) {
	data = make([]byte, actionHeaderLen)
	binary.BigEndian.PutUint16(data[0:2], h.Type)
	binary.BigEndian.PutUint16(data[2:4], h.Length)
	return
}

func (h *ActionHeader) UnmarshalBinary(data []byte) error {
	if len(data) < actionHeaderLen {
		return errTooShort("action header")
	}
	h.Type = binary.BigEndian.Uint16(data[0:2])
	h.Length = binary.BigEndian.Uint16(data[2:4])
	return nil
}

// ActionOutput is OFPAT_OUTPUT: forward to Port, buffering at most
// MaxLen bytes to the controller when Port is OFPP_CONTROLLER.
type ActionOutput struct {
	ActionHeader
	Port   uint32
	MaxLen uint16
}

func NewActionOutput(port uint32) *ActionOutput {
	return &ActionOutput{ActionHeader: ActionHeader{Type: AT_OUTPUT}, Port: port, MaxLen: ControllerMaxLenMax}
}

func (a *ActionOutput) Len() uint16 { return 16 }

func (a *ActionOutput) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	body := make([]byte, 12)
	binary.BigEndian.PutUint32(body[0:4], a.Port)
	binary.BigEndian.PutUint16(body[4:6], a.MaxLen)
	return append(data, body...), nil
}

func (a *ActionOutput) UnmarshalBinary(data []byte) error {
	if err := a.ActionHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 16 {
		return errTooShort("action output")
	}
	a.Port = binary.BigEndian.Uint32(data[4:8])
	a.MaxLen = binary.BigEndian.Uint16(data[8:10])
	return nil
}

// actionUint16Arg covers the simple actions whose body is a uint16
// followed by padding: SET_MPLS_TTL (ttl, pad[3]) and PUSH_VLAN/
// PUSH_MPLS/PUSH_PBB (ethertype, pad[2]).
type actionUint16Arg struct {
	ActionHeader
	Value uint16
}

func (a *actionUint16Arg) Len() uint16 { return 8 }

func (a *actionUint16Arg) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	body := make([]byte, 4)
	binary.BigEndian.PutUint16(body[0:2], a.Value)
	return append(data, body...), nil
}

func (a *actionUint16Arg) UnmarshalBinary(data []byte) error {
	if err := a.ActionHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 8 {
		return errTooShort("action")
	}
	a.Value = binary.BigEndian.Uint16(data[4:6])
	return nil
}

func NewActionSetMplsTtl(ttl uint8) *actionUint16Arg {
	return &actionUint16Arg{ActionHeader: ActionHeader{Type: AT_SET_MPLS_TTL}, Value: uint16(ttl) << 8}
}

func NewActionPushVlan(ethType uint16) *actionUint16Arg {
	return &actionUint16Arg{ActionHeader: ActionHeader{Type: AT_PUSH_VLAN}, Value: ethType}
}

func NewActionPushMpls(ethType uint16) *actionUint16Arg {
	return &actionUint16Arg{ActionHeader: ActionHeader{Type: AT_PUSH_MPLS}, Value: ethType}
}

func NewActionPushPbb(ethType uint16) *actionUint16Arg {
	return &actionUint16Arg{ActionHeader: ActionHeader{Type: AT_PUSH_PBB}, Value: ethType}
}

// actionEmpty covers the zero-argument actions: COPY_TTL_IN/OUT,
// DEC_MPLS_TTL, POP_VLAN, DEC_NW_TTL, POP_PBB.
type actionEmpty struct {
	ActionHeader
}

func (a *actionEmpty) Len() uint16 { return 8 }

func (a *actionEmpty) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	return append(data, make([]byte, 4)...), nil
}

func (a *actionEmpty) UnmarshalBinary(data []byte) error {
	return a.ActionHeader.UnmarshalBinary(data)
}

func newActionEmpty(atype uint16) *actionEmpty {
	return &actionEmpty{ActionHeader: ActionHeader{Type: atype}}
}

// ActionSetQueue is OFPAT_SET_QUEUE.
type ActionSetQueue struct {
	ActionHeader
	QueueId uint32
}

func NewActionSetQueue(queueID uint32) *ActionSetQueue {
	return &ActionSetQueue{ActionHeader: ActionHeader{Type: AT_SET_QUEUE}, QueueId: queueID}
}

func (a *ActionSetQueue) Len() uint16 { return 8 }

func (a *ActionSetQueue) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, a.QueueId)
	return append(data, body...), nil
}

func (a *ActionSetQueue) UnmarshalBinary(data []byte) error {
	if err := a.ActionHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 8 {
		return errTooShort("action set queue")
	}
	a.QueueId = binary.BigEndian.Uint32(data[4:8])
	return nil
}

// ActionGroup is OFPAT_GROUP.
type ActionGroup struct {
	ActionHeader
	GroupId uint32
}

func NewActionGroup(groupID uint32) *ActionGroup {
	return &ActionGroup{ActionHeader: ActionHeader{Type: AT_GROUP}, GroupId: groupID}
}

func (a *ActionGroup) Len() uint16 { return 8 }

func (a *ActionGroup) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, a.GroupId)
	return append(data, body...), nil
}

func (a *ActionGroup) UnmarshalBinary(data []byte) error {
	if err := a.ActionHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 8 {
		return errTooShort("action group")
	}
	a.GroupId = binary.BigEndian.Uint32(data[4:8])
	return nil
}

// ActionSetNwTtl is OFPAT_SET_NW_TTL.
type ActionSetNwTtl struct {
	ActionHeader
	NwTtl uint8
}

func NewActionSetNwTtl(ttl uint8) *ActionSetNwTtl {
	return &ActionSetNwTtl{ActionHeader: ActionHeader{Type: AT_SET_NW_TTL}, NwTtl: ttl}
}

func (a *ActionSetNwTtl) Len() uint16 { return 8 }

func (a *ActionSetNwTtl) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	body := make([]byte, 4)
	body[0] = a.NwTtl
	return append(data, body...), nil
}

func (a *ActionSetNwTtl) UnmarshalBinary(data []byte) error {
	if err := a.ActionHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 8 {
		return errTooShort("action set nw ttl")
	}
	a.NwTtl = data[4]
	return nil
}

// ActionSetField is OFPAT_SET_FIELD: a single OXM TLV, padded to 8 bytes.
type ActionSetField struct {
	ActionHeader
	Field *OxmField
}

func NewActionSetField(field *OxmField) *ActionSetField {
	return &ActionSetField{ActionHeader: ActionHeader{Type: AT_SET_FIELD}, Field: field}
}

func (a *ActionSetField) Len() uint16 {
	n := actionHeaderLen + int(a.Field.Len())
	return uint16(n + util.Pad64(n))
}

func (a *ActionSetField) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	fb, err := a.Field.MarshalBinary()
	if err != nil {
		return nil, err
	}
	data = append(data, fb...)
	pad := int(a.Length) - len(data)
	if pad > 0 {
		data = append(data, make([]byte, pad)...)
	}
	return data, nil
}

func (a *ActionSetField) UnmarshalBinary(data []byte) error {
	if err := a.ActionHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < actionHeaderLen+4 {
		return errTooShort("action set field")
	}
	a.Field = new(OxmField)
	return a.Field.UnmarshalBinary(data[actionHeaderLen:])
}

// ActionExperimenter is OFPAT_EXPERIMENTER: an experimenter id plus
// opaque, experimenter-defined data.
type ActionExperimenter struct {
	ActionHeader
	Experimenter uint32
	Data         []byte
}

func (a *ActionExperimenter) Len() uint16 {
	n := actionHeaderLen + 4 + len(a.Data)
	return uint16(n + util.Pad64(n))
}

func (a *ActionExperimenter) MarshalBinary() (data []byte, err error) {
	a.Length = a.Len()
	data, _ = a.ActionHeader.MarshalBinary()
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, a.Experimenter)
	data = append(data, body...)
	data = append(data, a.Data...)
	pad := int(a.Length) - len(data)
	if pad > 0 {
		data = append(data, make([]byte, pad)...)
	}
	return data, nil
}

func (a *ActionExperimenter) UnmarshalBinary(data []byte) error {
	if err := a.ActionHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < actionHeaderLen+4 {
		return errTooShort("action experimenter")
	}
	a.Experimenter = binary.BigEndian.Uint32(data[4:8])
	if int(a.Length) > 8 {
		a.Data = append([]byte(nil), data[8:a.Length]...)
	}
	return nil
}

// Action is any OF1.3 action TLV: every concrete action type below
// implements util.Message.
type Action = util.Message

// DecodeAction parses a single action TLV at the front of data and
// returns the typed action. An undefined action type surfaces as a
// *ValidationError carrying KindUndefinedActionType; a truncated buffer
// carries KindTooShortAction.
func DecodeAction(data []byte) (Action, error) {
	if len(data) < actionHeaderLen {
		return nil, newValidationError(KindTooShortAction, 0, "action header")
	}
	atype := binary.BigEndian.Uint16(data[0:2])
	length := binary.BigEndian.Uint16(data[2:4])
	if int(length) > len(data) {
		return nil, newValidationError(KindTooShortAction, 0, "action body")
	}
	var a Action
	switch atype {
	case AT_OUTPUT:
		a = new(ActionOutput)
	case AT_COPY_TTL_OUT, AT_COPY_TTL_IN, AT_DEC_MPLS_TTL, AT_POP_VLAN, AT_DEC_NW_TTL, AT_POP_PBB:
		a = newActionEmpty(atype)
	case AT_SET_MPLS_TTL, AT_PUSH_VLAN, AT_PUSH_MPLS, AT_POP_MPLS, AT_PUSH_PBB:
		a = &actionUint16Arg{ActionHeader: ActionHeader{Type: atype}}
	case AT_SET_QUEUE:
		a = new(ActionSetQueue)
	case AT_GROUP:
		a = new(ActionGroup)
	case AT_SET_NW_TTL:
		a = new(ActionSetNwTtl)
	case AT_SET_FIELD:
		a = new(ActionSetField)
	case AT_EXPERIMENTER:
		a = new(ActionExperimenter)
	default:
		return nil, newValidationError(KindUndefinedActionType, 0, "action type")
	}
	if err := a.UnmarshalBinary(data); err != nil {
		return nil, newValidationError(KindTooShortAction, 0, err.Error())
	}
	return a, nil
}

// ActionList is an ordered, 8-byte-aligned sequence of actions, used by
// OFPIT_APPLY_ACTIONS, OFPIT_WRITE_ACTIONS and bucket action lists.
type ActionList struct {
	Actions []Action
}

func (l *ActionList) Len() uint16 {
	var n uint16
	for _, a := range l.Actions {
		n += a.Len()
	}
	return n
}

func (l *ActionList) MarshalBinary() (data []byte, err error) {
	for _, a := range l.Actions {
		b, err := a.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	return data, nil
}

// UnmarshalBinary decodes consecutive actions until data is exhausted.
// The caller slices data to the exact length of the enclosing list.
func (l *ActionList) UnmarshalBinary(data []byte) error {
	l.Actions = nil
	pos := 0
	for pos < len(data) {
		a, err := DecodeAction(data[pos:])
		if err != nil {
			return err
		}
		l.Actions = append(l.Actions, a)
		pos += int(a.Len())
	}
	return nil
}
