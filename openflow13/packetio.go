package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/common"
)

// ofp_packet_in_reason
const (
	PR_NO_MATCH    = 0 /* No matching flow (table-miss flow entry). */
	PR_ACTION      = 1 /* Action explicitly output to controller. */
	PR_INVALID_TTL = 2 /* Packet has invalid TTL. */
)

const packetInBodyLen = 16

// PacketIn is OFPT_PACKET_IN.
type PacketIn struct {
	common.Header
	BufferId uint32
	TotalLen uint16
	Reason   uint8
	TableId  uint8
	Cookie   uint64
	Match    Match
	Data     []byte
}

func NewPacketIn() *PacketIn {
	p := new(PacketIn)
	p.Header = NewOfp13Header()
	p.Header.Type = Type_PacketIn
	p.BufferId = NO_BUFFER
	p.Match = *NewMatch()
	return p
}

func (p *PacketIn) Len() uint16 {
	return p.Header.Len() + packetInBodyLen + p.Match.Len() + 2 + uint16(len(p.Data))
}

func (p *PacketIn) MarshalBinary() (data []byte, err error) {
	p.Header.Length = p.Len()
	data, err = p.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, packetInBodyLen)
	binary.BigEndian.PutUint32(body[0:4], p.BufferId)
	binary.BigEndian.PutUint16(body[4:6], p.TotalLen)
	body[6] = p.Reason
	body[7] = p.TableId
	binary.BigEndian.PutUint64(body[8:16], p.Cookie)
	data = append(data, body...)

	mb, err := p.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	data = append(data, mb...)
	data = append(data, 0, 0) // pad(2) between match and packet data
	data = append(data, p.Data...)
	return data, nil
}

func (p *PacketIn) UnmarshalBinary(data []byte) error {
	if err := p.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(p.Header.Len())
	if len(data) < n+packetInBodyLen {
		return errTooShort("packet in")
	}
	body := data[n:]
	p.BufferId = binary.BigEndian.Uint32(body[0:4])
	p.TotalLen = binary.BigEndian.Uint16(body[4:6])
	p.Reason = body[6]
	p.TableId = body[7]
	p.Cookie = binary.BigEndian.Uint64(body[8:16])
	n += packetInBodyLen

	if len(data) < n+4 {
		return errTooShort("packet in match")
	}
	if err := p.Match.UnmarshalBinary(data[n:]); err != nil {
		return err
	}
	n += int(p.Match.Len())
	n += 2 // pad between match and data
	if n <= int(p.Header.Length) {
		p.Data = append([]byte(nil), data[n:p.Header.Length]...)
	}
	return nil
}

// PacketOut is OFPT_PACKET_OUT.
type PacketOut struct {
	common.Header
	BufferId uint32
	InPort   uint32
	Actions  ActionList
	Data     []byte
}

const packetOutBodyLen = 16

func NewPacketOut() *PacketOut {
	p := new(PacketOut)
	p.Header = NewOfp13Header()
	p.Header.Type = Type_PacketOut
	p.BufferId = NO_BUFFER
	p.InPort = P_CONTROLLER
	return p
}

func (p *PacketOut) AddAction(a Action) {
	p.Actions.Actions = append(p.Actions.Actions, a)
}

func (p *PacketOut) Len() uint16 {
	return p.Header.Len() + packetOutBodyLen + p.Actions.Len() + uint16(len(p.Data))
}

func (p *PacketOut) MarshalBinary() (data []byte, err error) {
	p.Header.Length = p.Len()
	data, err = p.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, packetOutBodyLen)
	binary.BigEndian.PutUint32(body[0:4], p.BufferId)
	binary.BigEndian.PutUint32(body[4:8], p.InPort)
	binary.BigEndian.PutUint16(body[8:10], p.Actions.Len())
	data = append(data, body...)

	ab, err := p.Actions.MarshalBinary()
	if err != nil {
		return nil, err
	}
	data = append(data, ab...)

	return append(data, p.Data...), nil
}

func (p *PacketOut) UnmarshalBinary(data []byte) error {
	if err := p.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(p.Header.Len())
	if len(data) < n+packetOutBodyLen {
		return errTooShort("packet out")
	}
	body := data[n:]
	p.BufferId = binary.BigEndian.Uint32(body[0:4])
	p.InPort = binary.BigEndian.Uint32(body[4:8])
	actionsLen := binary.BigEndian.Uint16(body[8:10])
	n += packetOutBodyLen

	if len(data) < n+int(actionsLen) {
		return errTooShort("packet out actions")
	}
	if err := p.Actions.UnmarshalBinary(data[n : n+int(actionsLen)]); err != nil {
		return err
	}
	n += int(actionsLen)

	if n < int(p.Header.Length) {
		p.Data = append([]byte(nil), data[n:p.Header.Length]...)
	}
	return nil
}
