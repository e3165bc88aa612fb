package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/common"
	"github.com/trema-go/switch-core/util"
)

// ofp_flow_mod_command
const (
	FC_ADD           = 0 /* New flow. */
	FC_MODIFY        = 1 /* Modify all matching flows. */
	FC_MODIFY_STRICT = 2 /* Modify entry strictly matching wildcards. */
	FC_DELETE        = 3 /* Delete all matching flows. */
	FC_DELETE_STRICT = 4 /* Delete entry strictly matching wildcards. */
)

// NO_BUFFER marks a FlowMod/PacketOut as carrying its own packet data
// instead of referencing a buffer held by the datapath.
const NO_BUFFER = 0xffffffff

// ofp_flow_mod_flags
const (
	FF_SEND_FLOW_REM = 1 << 0
	FF_CHECK_OVERLAP = 1 << 1
	FF_RESET_COUNTS  = 1 << 2
	FF_NO_PKT_COUNTS = 1 << 3
	FF_NO_BYT_COUNTS = 1 << 4
)

// FlowMod is OFPT_FLOW_MOD.
type FlowMod struct {
	common.Header
	Cookie       uint64
	CookieMask   uint64
	TableId      uint8
	Command      uint8
	IdleTimeout  uint16
	HardTimeout  uint16
	Priority     uint16
	BufferId     uint32
	OutPort      uint32
	OutGroup     uint32
	Flags        uint16
	pad          []byte // 2 bytes
	Match        Match
	Instructions []Instruction
}

func NewFlowMod() *FlowMod {
	f := new(FlowMod)
	f.Header = NewOfp13Header()
	f.Header.Type = Type_FlowMod
	f.BufferId = NO_BUFFER
	f.OutPort = P_ANY
	f.OutGroup = OFPG_ANY
	f.pad = make([]byte, 2)
	f.Match = *NewMatch()
	return f
}

func (f *FlowMod) AddAction(a Action) {
	for _, instr := range f.Instructions {
		if ia, ok := instr.(*InstrActions); ok && ia.Type == IT_APPLY_ACTIONS {
			ia.AddAction(a)
			return
		}
	}
	ia := &InstrActions{InstrHeader: InstrHeader{Type: IT_APPLY_ACTIONS}}
	ia.AddAction(a)
	f.Instructions = append(f.Instructions, ia)
}

func (f *FlowMod) AddInstruction(i Instruction) {
	f.Instructions = append(f.Instructions, i)
}

const flowModBodyLen = 40

func (f *FlowMod) Len() uint16 {
	n := f.Header.Len() + flowModBodyLen + f.Match.Len()
	for _, instr := range f.Instructions {
		n += instr.Len()
	}
	return n
}

func (f *FlowMod) MarshalBinary() (data []byte, err error) {
	f.Header.Length = f.Len()
	data, err = f.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, flowModBodyLen)
	binary.BigEndian.PutUint64(body[0:8], f.Cookie)
	binary.BigEndian.PutUint64(body[8:16], f.CookieMask)
	body[16] = f.TableId
	body[17] = f.Command
	binary.BigEndian.PutUint16(body[18:20], f.IdleTimeout)
	binary.BigEndian.PutUint16(body[20:22], f.HardTimeout)
	binary.BigEndian.PutUint16(body[22:24], f.Priority)
	binary.BigEndian.PutUint32(body[24:28], f.BufferId)
	binary.BigEndian.PutUint32(body[28:32], f.OutPort)
	binary.BigEndian.PutUint32(body[32:36], f.OutGroup)
	binary.BigEndian.PutUint16(body[36:38], f.Flags)
	data = append(data, body...)

	mb, err := f.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	data = append(data, mb...)

	for _, instr := range f.Instructions {
		ib, err := instr.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, ib...)
	}
	return data, nil
}

func (f *FlowMod) UnmarshalBinary(data []byte) error {
	if err := f.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(f.Header.Len())
	if len(data) < n+flowModBodyLen {
		return errTooShort("flow mod")
	}
	body := data[n:]
	f.Cookie = binary.BigEndian.Uint64(body[0:8])
	f.CookieMask = binary.BigEndian.Uint64(body[8:16])
	f.TableId = body[16]
	f.Command = body[17]
	f.IdleTimeout = binary.BigEndian.Uint16(body[18:20])
	f.HardTimeout = binary.BigEndian.Uint16(body[20:22])
	f.Priority = binary.BigEndian.Uint16(body[22:24])
	f.BufferId = binary.BigEndian.Uint32(body[24:28])
	f.OutPort = binary.BigEndian.Uint32(body[28:32])
	f.OutGroup = binary.BigEndian.Uint32(body[32:36])
	f.Flags = binary.BigEndian.Uint16(body[36:38])
	n += flowModBodyLen

	if len(data) < n+4 {
		return errTooShort("flow mod match")
	}
	matchLen := int(binary.BigEndian.Uint16(data[n+2 : n+4]))
	if err := f.Match.UnmarshalBinary(data[n:]); err != nil {
		return err
	}
	n += matchLen + util.Pad64(matchLen)

	f.Instructions = nil
	for n < int(f.Header.Length) {
		instr, err := DecodeInstr(data[n:])
		if err != nil {
			return err
		}
		f.Instructions = append(f.Instructions, instr)
		n += int(instr.Len())
	}
	return nil
}

// FlowRemoved is OFPT_FLOW_REMOVED.

// ofp_flow_removed_reason
const (
	RR_IDLE_TIMEOUT = 0 /* Flow idle time exceeded idle_timeout. */
	RR_HARD_TIMEOUT = 1 /* Time exceeded hard_timeout. */
	RR_DELETE       = 2 /* Evicted by a DELETE flow mod. */
	RR_GROUP_DELETE = 3 /* Group was removed. */
)

const flowRemovedBodyLen = 40

type FlowRemoved struct {
	common.Header
	Cookie       uint64
	Priority     uint16
	Reason       uint8
	TableId      uint8
	DurationSec  uint32
	DurationNSec uint32
	IdleTimeout  uint16
	HardTimeout  uint16
	PacketCount  uint64
	ByteCount    uint64
	Match        Match
}

func NewFlowRemoved() *FlowRemoved {
	f := new(FlowRemoved)
	f.Header = NewOfp13Header()
	f.Header.Type = Type_FlowRemoved
	f.Match = *NewMatch()
	return f
}

func (f *FlowRemoved) Len() uint16 {
	return f.Header.Len() + flowRemovedBodyLen + f.Match.Len()
}

func (f *FlowRemoved) MarshalBinary() (data []byte, err error) {
	f.Header.Length = f.Len()
	data, err = f.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, flowRemovedBodyLen)
	binary.BigEndian.PutUint64(body[0:8], f.Cookie)
	binary.BigEndian.PutUint16(body[8:10], f.Priority)
	body[10] = f.Reason
	body[11] = f.TableId
	binary.BigEndian.PutUint32(body[12:16], f.DurationSec)
	binary.BigEndian.PutUint32(body[16:20], f.DurationNSec)
	binary.BigEndian.PutUint16(body[20:22], f.IdleTimeout)
	binary.BigEndian.PutUint16(body[22:24], f.HardTimeout)
	binary.BigEndian.PutUint64(body[24:32], f.PacketCount)
	binary.BigEndian.PutUint64(body[32:40], f.ByteCount)
	data = append(data, body...)

	mb, err := f.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, mb...), nil
}

func (f *FlowRemoved) UnmarshalBinary(data []byte) error {
	if err := f.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(f.Header.Len())
	if len(data) < n+flowRemovedBodyLen {
		return errTooShort("flow removed")
	}
	body := data[n:]
	f.Cookie = binary.BigEndian.Uint64(body[0:8])
	f.Priority = binary.BigEndian.Uint16(body[8:10])
	f.Reason = body[10]
	f.TableId = body[11]
	f.DurationSec = binary.BigEndian.Uint32(body[12:16])
	f.DurationNSec = binary.BigEndian.Uint32(body[16:20])
	f.IdleTimeout = binary.BigEndian.Uint16(body[20:22])
	f.HardTimeout = binary.BigEndian.Uint16(body[22:24])
	f.PacketCount = binary.BigEndian.Uint64(body[24:32])
	f.ByteCount = binary.BigEndian.Uint64(body[32:40])
	n += flowRemovedBodyLen
	if n < int(f.Header.Length) {
		return f.Match.UnmarshalBinary(data[n:f.Header.Length])
	}
	return nil
}
