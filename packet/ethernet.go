// Package packet implements a one-pass, never-failing dissector over a
// raw Ethernet frame: L2 (Ethernet/SNAP/VLAN), L3 (ARP/IPv4/IPv6/LLDP/
// MPLS/PBB) and L4 (TCP/UDP/ICMP/ICMPv6/IGMP/SCTP/EtherIP).
package packet

import (
	"encoding/binary"
	"net"
)

const (
	EthTypeIPv4      = 0x0800
	EthTypeARP       = 0x0806
	EthTypeVLAN      = 0x8100
	EthTypeQinQ      = 0x88a8
	EthTypeVLAN9100  = 0x9100
	EthTypeVLAN9200  = 0x9200
	EthTypeVLAN9300  = 0x9300
	EthTypeMPLSUni   = 0x8847
	EthTypeMPLSMulti = 0x8848
	EthTypePBB       = 0x88e7
	EthTypeLLDP      = 0x88cc
	EthTypeIPv6      = 0x86dd

	llcSNAPType = 0xaaaa
)

func isVlanEthType(t uint16) bool {
	switch t {
	case EthTypeVLAN, EthTypeQinQ, EthTypeVLAN9100, EthTypeVLAN9200, EthTypeVLAN9300:
		return true
	}
	return false
}

// Ethernet is the outermost L2 header: destination, source and the
// ethertype of whatever follows (possibly a VLAN tag or SNAP header).
type Ethernet struct {
	DstMAC  net.HardwareAddr
	SrcMAC  net.HardwareAddr
	EthType uint16
}

const ethernetHeaderLen = 14

func decodeEthernet(data []byte) (*Ethernet, int, bool) {
	if len(data) < ethernetHeaderLen {
		return nil, 0, false
	}
	e := &Ethernet{
		DstMAC:  append(net.HardwareAddr(nil), data[0:6]...),
		SrcMAC:  append(net.HardwareAddr(nil), data[6:12]...),
		EthType: binary.BigEndian.Uint16(data[12:14]),
	}
	return e, ethernetHeaderLen, true
}

// Vlan is a single 802.1Q/802.1ad tag: only the outermost tag is
// recorded, per the dissector's single-VLAN contract.
type Vlan struct {
	TPID uint16
	TCI  uint16
}

func (v *Vlan) PCP() uint8 { return uint8(v.TCI >> 13) }
func (v *Vlan) CFI() bool { return v.TCI&0x1000 != 0 }
func (v *Vlan) VID() uint16 { return v.TCI & 0x0fff }

// vlanTagLen is the TCI plus the ethertype of whatever follows the tag
// (the TPID itself was already consumed as the preceding ethertype).
const vlanTagLen = 4

func decodeVlanTag(tpid uint16, data []byte) (vlan *Vlan, nextEthType uint16, hdrLen int, ok bool) {
	if len(data) < vlanTagLen {
		return nil, 0, 0, false
	}
	vlan = &Vlan{TPID: tpid, TCI: binary.BigEndian.Uint16(data[0:2])}
	nextEthType = binary.BigEndian.Uint16(data[2:4])
	return vlan, nextEthType, vlanTagLen, true
}

// isSNAP reports whether data begins with an 802.2 LLC/SNAP header
// carrying an embedded ethertype (AA AA 03, OUI 00 00 00).
func isSNAP(data []byte) (ethType uint16, hdrLen int, ok bool) {
	if len(data) < 8 {
		return 0, 0, false
	}
	if data[0] != 0xaa || data[1] != 0xaa {
		return 0, 0, false
	}
	if data[2] != 0x03 {
		return 0, 0, false
	}
	if data[3] != 0 || data[4] != 0 || data[5] != 0 {
		return 0, 0, false
	}
	return binary.BigEndian.Uint16(data[6:8]), 8, true
}
