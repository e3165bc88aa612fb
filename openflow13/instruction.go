package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/util"
)

// ofp_instruction_type
const (
	IT_GOTO_TABLE     = 1
	IT_WRITE_METADATA = 2
	IT_WRITE_ACTIONS  = 3
	IT_APPLY_ACTIONS  = 4
	IT_CLEAR_ACTIONS  = 5
	IT_METER          = 6
	IT_EXPERIMENTER   = 0xffff
)

const instrHeaderLen = 4

// InstrHeader is the common {type, length} prefix every instruction shares.
type InstrHeader struct {
	Type   uint16
	Length uint16
}

func (h *InstrHeader) Len() uint16 { return instrHeaderLen }

func (h *InstrHeader) MarshalBinary() (data []byte, err error) {
	data = make([]byte, instrHeaderLen)
	binary.BigEndian.PutUint16(data[0:2], h.Type)
	binary.BigEndian.PutUint16(data[2:4], h.Length)
	return
}

func (h *InstrHeader) UnmarshalBinary(data []byte) error {
	if len(data) < instrHeaderLen {
		return errTooShort("instruction header")
	}
	h.Type = binary.BigEndian.Uint16(data[0:2])
	h.Length = binary.BigEndian.Uint16(data[2:4])
	return nil
}

// InstrGotoTable is OFPIT_GOTO_TABLE.
type InstrGotoTable struct {
	InstrHeader
	TableId uint8
}

func NewInstrGotoTable(tableID uint8) *InstrGotoTable {
	return &InstrGotoTable{InstrHeader: InstrHeader{Type: IT_GOTO_TABLE}, TableId: tableID}
}

func (i *InstrGotoTable) Len() uint16 { return 8 }

func (i *InstrGotoTable) MarshalBinary() (data []byte, err error) {
	i.Length = i.Len()
	data, _ = i.InstrHeader.MarshalBinary()
	body := make([]byte, 4)
	body[0] = i.TableId
	return append(data, body...), nil
}

func (i *InstrGotoTable) UnmarshalBinary(data []byte) error {
	if err := i.InstrHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 8 {
		return errTooShort("instruction goto table")
	}
	i.TableId = data[4]
	return nil
}

// InstrWriteMetadata is OFPIT_WRITE_METADATA.
type InstrWriteMetadata struct {
	InstrHeader
	Metadata     uint64
	MetadataMask uint64
}

func NewInstrWriteMetadata(metadata, mask uint64) *InstrWriteMetadata {
	return &InstrWriteMetadata{InstrHeader: InstrHeader{Type: IT_WRITE_METADATA}, Metadata: metadata, MetadataMask: mask}
}

func (i *InstrWriteMetadata) Len() uint16 { return 24 }

func (i *InstrWriteMetadata) MarshalBinary() (data []byte, err error) {
	i.Length = i.Len()
	data, _ = i.InstrHeader.MarshalBinary()
	body := make([]byte, 20)
	binary.BigEndian.PutUint64(body[4:12], i.Metadata)
	binary.BigEndian.PutUint64(body[12:20], i.MetadataMask)
	return append(data, body...), nil
}

func (i *InstrWriteMetadata) UnmarshalBinary(data []byte) error {
	if err := i.InstrHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 24 {
		return errTooShort("instruction write metadata")
	}
	i.Metadata = binary.BigEndian.Uint64(data[8:16])
	i.MetadataMask = binary.BigEndian.Uint64(data[16:24])
	return nil
}

// InstrActions covers WRITE_ACTIONS, APPLY_ACTIONS and CLEAR_ACTIONS:
// all three share a {header, pad[4], actions...} layout.
type InstrActions struct {
	InstrHeader
	Actions ActionList
}

func NewInstrActions(itype uint16) *InstrActions {
	return &InstrActions{InstrHeader: InstrHeader{Type: itype}}
}

func (i *InstrActions) AddAction(a util.Message) {
	i.Actions.Actions = append(i.Actions.Actions, a)
}

func (i *InstrActions) Len() uint16 {
	return instrHeaderLen + 4 + i.Actions.Len()
}

func (i *InstrActions) MarshalBinary() (data []byte, err error) {
	i.Length = i.Len()
	data, _ = i.InstrHeader.MarshalBinary()
	data = append(data, make([]byte, 4)...)
	ab, err := i.Actions.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, ab...), nil
}

func (i *InstrActions) UnmarshalBinary(data []byte) error {
	if err := i.InstrHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 8 || int(i.Length) > len(data) {
		return errTooShort("instruction actions")
	}
	return i.Actions.UnmarshalBinary(data[8:i.Length])
}

// InstrMeter is OFPIT_METER.
type InstrMeter struct {
	InstrHeader
	MeterId uint32
}

func NewInstrMeter(meterID uint32) *InstrMeter {
	return &InstrMeter{InstrHeader: InstrHeader{Type: IT_METER}, MeterId: meterID}
}

func (i *InstrMeter) Len() uint16 { return 8 }

func (i *InstrMeter) MarshalBinary() (data []byte, err error) {
	i.Length = i.Len()
	data, _ = i.InstrHeader.MarshalBinary()
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, i.MeterId)
	return append(data, body...), nil
}

func (i *InstrMeter) UnmarshalBinary(data []byte) error {
	if err := i.InstrHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < 8 {
		return errTooShort("instruction meter")
	}
	i.MeterId = binary.BigEndian.Uint32(data[4:8])
	return nil
}

// InstrExperimenter is OFPIT_EXPERIMENTER.
type InstrExperimenter struct {
	InstrHeader
	Experimenter uint32
	Data         []byte
}

func (i *InstrExperimenter) Len() uint16 {
	n := instrHeaderLen + 4 + len(i.Data)
	return uint16(n + util.Pad64(n))
}

func (i *InstrExperimenter) MarshalBinary() (data []byte, err error) {
	i.Length = i.Len()
	data, _ = i.InstrHeader.MarshalBinary()
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, i.Experimenter)
	data = append(data, body...)
	data = append(data, i.Data...)
	pad := int(i.Length) - len(data)
	if pad > 0 {
		data = append(data, make([]byte, pad)...)
	}
	return data, nil
}

func (i *InstrExperimenter) UnmarshalBinary(data []byte) error {
	if err := i.InstrHeader.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < instrHeaderLen+4 {
		return errTooShort("instruction experimenter")
	}
	i.Experimenter = binary.BigEndian.Uint32(data[4:8])
	if int(i.Length) > 8 {
		i.Data = append([]byte(nil), data[8:i.Length]...)
	}
	return nil
}

// Instruction is any OF1.3 instruction TLV: every concrete instruction
// type below implements util.Message.
type Instruction = util.Message

// DecodeInstr parses a single instruction TLV at the front of data and
// returns the typed instruction. An undefined type surfaces as a
// *ValidationError carrying KindUndefinedInstructionType; a truncated
// buffer carries KindTooShortInstruction.
func DecodeInstr(data []byte) (Instruction, error) {
	if len(data) < instrHeaderLen {
		return nil, newValidationError(KindTooShortInstruction, 0, "instruction header")
	}
	itype := binary.BigEndian.Uint16(data[0:2])
	length := binary.BigEndian.Uint16(data[2:4])
	if int(length) > len(data) {
		return nil, newValidationError(KindTooShortInstruction, 0, "instruction body")
	}
	var i Instruction
	switch itype {
	case IT_GOTO_TABLE:
		i = new(InstrGotoTable)
	case IT_WRITE_METADATA:
		i = new(InstrWriteMetadata)
	case IT_WRITE_ACTIONS, IT_APPLY_ACTIONS, IT_CLEAR_ACTIONS:
		i = &InstrActions{InstrHeader: InstrHeader{Type: itype}}
	case IT_METER:
		i = new(InstrMeter)
	case IT_EXPERIMENTER:
		i = new(InstrExperimenter)
	default:
		return nil, newValidationError(KindUndefinedInstructionType, 0, "instruction type")
	}
	if err := i.UnmarshalBinary(data); err != nil {
		return nil, newValidationError(KindTooShortInstruction, 0, err.Error())
	}
	return i, nil
}

// InstructionList is an ordered, 8-byte-aligned sequence of instructions
// attached to a flow-mod.
type InstructionList struct {
	Instructions []Instruction
}

func (l *InstructionList) Len() uint16 {
	var n uint16
	for _, i := range l.Instructions {
		n += i.Len()
	}
	return n
}

func (l *InstructionList) MarshalBinary() (data []byte, err error) {
	for _, i := range l.Instructions {
		b, err := i.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	return data, nil
}

func (l *InstructionList) UnmarshalBinary(data []byte) error {
	l.Instructions = nil
	pos := 0
	for pos < len(data) {
		i, err := DecodeInstr(data[pos:])
		if err != nil {
			return err
		}
		l.Instructions = append(l.Instructions, i)
		pos += int(i.Len())
	}
	return nil
}
