package openflow13

import (
	"encoding/binary"
	"net"

	"github.com/trema-go/switch-core/common"
)

const ETH_ALEN = 6
const MAX_PORT_NAME_LEN = 16

// ofp_port_no: reserved port numbers.
const (
	P_MAX        = 0xffffff00
	P_IN_PORT    = 0xfffffff8 /* Send the packet out the input port. */
	P_TABLE      = 0xfffffff9 /* Submit the packet to the first flow table. */
	P_NORMAL     = 0xfffffffa /* Process with normal L2/L3 switching. */
	P_FLOOD      = 0xfffffffb /* All physical ports except input port and those disabled by STP. */
	P_ALL        = 0xfffffffc /* All physical ports except input port. */
	P_CONTROLLER = 0xfffffffd /* Send to controller. */
	P_LOCAL      = 0xfffffffe /* Local openflow "port". */
	P_ANY        = 0xffffffff /* Wildcard port used only for flow mod (delete) and flow stats requests. */
)

// ofp_queue: reserved queue numbers.
const (
	OFPQ_ALL = 0xffffffff
)

// ofp_port_config
const (
	PC_PORT_DOWN    = 1 << 0
	PC_NO_RECV      = 1 << 2
	PC_NO_FWD       = 1 << 5
	PC_NO_PACKET_IN = 1 << 6
)

// ofp_port_state
const (
	PS_LINK_DOWN = 1 << 0
	PS_BLOCKED   = 1 << 1
	PS_LIVE      = 1 << 2
)

// ofp_port_features
const (
	PF_10MB_HD    = 1 << 0
	PF_10MB_FD    = 1 << 1
	PF_100MB_HD   = 1 << 2
	PF_100MB_FD   = 1 << 3
	PF_1GB_HD     = 1 << 4
	PF_1GB_FD     = 1 << 5
	PF_10GB_FD    = 1 << 6
	PF_40GB_FD    = 1 << 7
	PF_100GB_FD   = 1 << 8
	PF_1TB_FD     = 1 << 9
	PF_OTHER      = 1 << 10
	PF_COPPER     = 1 << 11
	PF_FIBER      = 1 << 12
	PF_AUTONEG    = 1 << 13
	PF_PAUSE      = 1 << 14
	PF_PAUSE_ASYM = 1 << 15
)

// PhyPort is ofp_port: the fixed 64-byte OF1.3 port description.
type PhyPort struct {
	PortNo     uint32
	pad        []byte // 4 bytes
	HWAddr     net.HardwareAddr
	pad2       []byte // 2 bytes
	Name       []byte // 16 bytes, NUL padded
	Config     uint32
	State      uint32
	Curr       uint32
	Advertised uint32
	Supported  uint32
	Peer       uint32
	CurrSpeed  uint32
	MaxSpeed   uint32
}

func NewPhyPort() *PhyPort {
	p := new(PhyPort)
	p.pad = make([]byte, 4)
	p.HWAddr = make(net.HardwareAddr, ETH_ALEN)
	p.pad2 = make([]byte, 2)
	p.Name = make([]byte, MAX_PORT_NAME_LEN)
	return p
}

func (p *PhyPort) Len() uint16 { return 64 }

func (p *PhyPort) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 64)
	n := 0
	binary.BigEndian.PutUint32(data[n:], p.PortNo)
	n += 4
	n += len(p.pad)
	copy(data[n:], p.HWAddr)
	n += ETH_ALEN
	n += len(p.pad2)
	copy(data[n:], p.Name)
	n += MAX_PORT_NAME_LEN
	binary.BigEndian.PutUint32(data[n:], p.Config)
	n += 4
	binary.BigEndian.PutUint32(data[n:], p.State)
	n += 4
	binary.BigEndian.PutUint32(data[n:], p.Curr)
	n += 4
	binary.BigEndian.PutUint32(data[n:], p.Advertised)
	n += 4
	binary.BigEndian.PutUint32(data[n:], p.Supported)
	n += 4
	binary.BigEndian.PutUint32(data[n:], p.Peer)
	n += 4
	binary.BigEndian.PutUint32(data[n:], p.CurrSpeed)
	n += 4
	binary.BigEndian.PutUint32(data[n:], p.MaxSpeed)
	return
}

func (p *PhyPort) UnmarshalBinary(data []byte) error {
	if len(data) < 64 {
		return errTooShort("port")
	}
	n := 0
	p.PortNo = binary.BigEndian.Uint32(data[n:])
	n += 4
	n += 4
	p.HWAddr = append(net.HardwareAddr(nil), data[n:n+ETH_ALEN]...)
	n += ETH_ALEN
	n += 2
	p.Name = append([]byte(nil), data[n:n+MAX_PORT_NAME_LEN]...)
	n += MAX_PORT_NAME_LEN
	p.Config = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.State = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.Curr = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.Advertised = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.Supported = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.Peer = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.CurrSpeed = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.MaxSpeed = binary.BigEndian.Uint32(data[n:])
	return nil
}

// ofp_port_reason
const (
	PR_ADD = iota
	PR_DELETE
	PR_MODIFY
)

// PortMod is OFPT_PORT_MOD.
type PortMod struct {
	common.Header
	PortNo    uint32
	pad       []byte // 4 bytes
	HWAddr    net.HardwareAddr
	pad2      []byte // 2 bytes
	Config    uint32
	Mask      uint32
	Advertise uint32
	pad3      []byte // 4 bytes
}

func NewPortMod(portNo uint32, hwAddr net.HardwareAddr) *PortMod {
	p := new(PortMod)
	p.Header = NewOfp13Header()
	p.Header.Type = Type_PortMod
	p.PortNo = portNo
	p.pad = make([]byte, 4)
	p.HWAddr = hwAddr
	p.pad2 = make([]byte, 2)
	p.pad3 = make([]byte, 4)
	return p
}

func (p *PortMod) Len() uint16 { return p.Header.Len() + 32 }

func (p *PortMod) MarshalBinary() (data []byte, err error) {
	p.Header.Length = p.Len()
	data, err = p.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, 32)
	n := 0
	binary.BigEndian.PutUint32(body[n:], p.PortNo)
	n += 4
	n += 4
	copy(body[n:], p.HWAddr)
	n += ETH_ALEN
	n += 2
	binary.BigEndian.PutUint32(body[n:], p.Config)
	n += 4
	binary.BigEndian.PutUint32(body[n:], p.Mask)
	n += 4
	binary.BigEndian.PutUint32(body[n:], p.Advertise)
	return append(data, body...), nil
}

const portStatusBodyLen = 8 // reason(1) + pad(7), PhyPort follows

// PortStatus is OFPT_PORT_STATUS.
type PortStatus struct {
	common.Header
	Reason uint8
	pad    []byte // 7 bytes
	Desc   PhyPort
}

func NewPortStatus() *PortStatus {
	p := new(PortStatus)
	p.Header = NewOfp13Header()
	p.Header.Type = Type_PortStatus
	p.pad = make([]byte, 7)
	p.Desc = *NewPhyPort()
	return p
}

func (p *PortStatus) Len() uint16 {
	return p.Header.Len() + portStatusBodyLen + p.Desc.Len()
}

func (p *PortStatus) MarshalBinary() (data []byte, err error) {
	p.Header.Length = p.Len()
	data, err = p.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, portStatusBodyLen)
	body[0] = p.Reason
	data = append(data, body...)
	db, err := p.Desc.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(data, db...), nil
}

func (p *PortStatus) UnmarshalBinary(data []byte) error {
	if err := p.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(p.Header.Len())
	if len(data) < n+portStatusBodyLen+64 {
		return errTooShort("port status")
	}
	p.Reason = data[n]
	n += portStatusBodyLen
	return p.Desc.UnmarshalBinary(data[n:])
}

func (p *PortMod) UnmarshalBinary(data []byte) error {
	if err := p.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < int(p.Header.Len())+32 {
		return errTooShort("port mod")
	}
	n := int(p.Header.Len())
	p.PortNo = binary.BigEndian.Uint32(data[n:])
	n += 4
	n += 4
	p.HWAddr = append(net.HardwareAddr(nil), data[n:n+ETH_ALEN]...)
	n += ETH_ALEN
	n += 2
	p.Config = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.Mask = binary.BigEndian.Uint32(data[n:])
	n += 4
	p.Advertise = binary.BigEndian.Uint32(data[n:])
	return nil
}
