package packet

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEthernet(dst, src net.HardwareAddr, ethType uint16, payload []byte) []byte {
	frame := make([]byte, 14+len(payload))
	copy(frame[0:6], dst)
	copy(frame[6:12], src)
	frame[12] = byte(ethType >> 8)
	frame[13] = byte(ethType)
	copy(frame[14:], payload)
	return frame
}

func buildIPv4(proto uint8, src, dst net.IP, payload []byte) []byte {
	hdr := make([]byte, 20)
	hdr[0] = 0x45
	length := uint16(20 + len(payload))
	hdr[2] = byte(length >> 8)
	hdr[3] = byte(length)
	hdr[8] = 64
	hdr[9] = proto
	copy(hdr[12:16], src.To4())
	copy(hdr[16:20], dst.To4())
	return append(hdr, payload...)
}

func TestDissectPlainIPv4TCP(t *testing.T) {
	tcp := make([]byte, 20)
	tcp[0], tcp[1] = 0x1f, 0x90
	tcp[2], tcp[3] = 0x00, 0x50
	tcp[12] = 5 << 4

	ipv4 := buildIPv4(IPProtoTCP, net.IPv4(10, 0, 0, 1), net.IPv4(10, 0, 0, 2), tcp)
	frame := buildEthernet(
		net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xaa},
		EthTypeIPv4, ipv4)

	info := Dissect(frame)
	require.NotZero(t, info.Format&FormatEthernet)
	require.NotZero(t, info.Format&FormatIPv4)
	require.NotZero(t, info.Format&FormatTCP)
	assert.Zero(t, info.Format&FormatVlan)
	assert.Equal(t, uint8(IPProtoTCP), info.IPv4.Protocol)
	assert.Equal(t, uint16(0x1f90), info.TCP.SrcPort)
	assert.Equal(t, uint16(0x50), info.TCP.DstPort)
}

func TestDissectSingleVlanTag(t *testing.T) {
	udp := make([]byte, 8)
	udp[0], udp[1] = 0x13, 0x88
	ipv4 := buildIPv4(IPProtoUDP, net.IPv4(192, 168, 1, 1), net.IPv4(192, 168, 1, 2), udp)

	vlanTag := make([]byte, 4)
	vlanTag[0], vlanTag[1] = 0x20, 0x05 // PCP=1, VID=5
	vlanTag[2], vlanTag[3] = 0x08, 0x00 // inner ethertype IPv4
	payload := append(vlanTag, ipv4...)

	frame := buildEthernet(
		net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xaa},
		EthTypeVLAN, payload)

	info := Dissect(frame)
	require.NotZero(t, info.Format&FormatVlan)
	require.NotZero(t, info.Format&FormatIPv4)
	require.NotZero(t, info.Format&FormatUDP)
	assert.Equal(t, uint16(5), info.Vlan.VID())
	assert.EqualValues(t, 1, info.Vlan.PCP())
	assert.Equal(t, uint16(0x1388), info.UDP.SrcPort)
}

func TestDissectARP(t *testing.T) {
	arp := make([]byte, 28)
	arp[6], arp[7] = 0x00, 0x01 // request
	copy(arp[8:14], []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	copy(arp[14:18], net.IPv4(10, 0, 0, 1).To4())
	copy(arp[18:24], []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	copy(arp[24:28], net.IPv4(10, 0, 0, 2).To4())

	frame := buildEthernet(
		net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		EthTypeARP, arp)

	info := Dissect(frame)
	require.NotZero(t, info.Format&FormatARP)
	assert.EqualValues(t, 1, info.ARP.Operation)
	assert.True(t, info.ARP.SenderIP.Equal(net.IPv4(10, 0, 0, 1)))
	assert.True(t, info.ARP.TargetIP.Equal(net.IPv4(10, 0, 0, 2)))
}

func TestDissectTruncatedFrameNeverFails(t *testing.T) {
	info := Dissect([]byte{0x00, 0x01, 0x02})
	assert.Zero(t, info.Format)
}

func TestDissectICMPv6NeighborSolicitation(t *testing.T) {
	ns := make([]byte, 32)
	ns[0] = icmpv6TypeNeighborSolicit
	copy(ns[8:24], net.ParseIP("fe80::1").To16())
	// source link-layer address option: type=1, length=1 (8 bytes)
	ns[24] = 1
	ns[25] = 1
	copy(ns[26:32], []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})

	ipv6 := make([]byte, 40+len(ns))
	ipv6[6] = IPProtoICMPv6
	ipv6[7] = 255
	copy(ipv6[8:24], net.ParseIP("fe80::2").To16())
	copy(ipv6[24:40], net.ParseIP("ff02::1").To16())
	copy(ipv6[40:], ns)

	frame := buildEthernet(
		net.HardwareAddr{0x33, 0x33, 0x00, 0x00, 0x00, 0x01},
		net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		EthTypeIPv6, ipv6)

	info := Dissect(frame)
	require.NotZero(t, info.Format&FormatIPv6)
	require.NotZero(t, info.Format&FormatICMPv6)
	assert.EqualValues(t, icmpv6TypeNeighborSolicit, info.ICMPv6.Type)
	assert.True(t, info.ICMPv6.Target.Equal(net.ParseIP("fe80::1")))
	assert.Equal(t, net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}, info.ICMPv6.LLAddr)
}
