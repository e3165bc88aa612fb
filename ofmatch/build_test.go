package ofmatch

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trema-go/switch-core/openflow13"
	"github.com/trema-go/switch-core/packet"
)

func TestBuildMatchFromPacketIPv4TCP(t *testing.T) {
	info := &packet.PacketInfo{
		Format: packet.FormatEthernet | packet.FormatIPv4 | packet.FormatTCP,
		Eth: packet.Ethernet{
			SrcMAC:  net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
			DstMAC:  net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xaa},
			EthType: packet.EthTypeIPv4,
		},
		IPv4: packet.IPv4{
			Protocol: packet.IPProtoTCP,
			Src:      net.IPv4(10, 0, 0, 1),
			Dst:      net.IPv4(10, 0, 0, 2),
		},
		TCP: packet.TCP{SrcPort: 1234, DstPort: 80},
	}

	m := BuildMatchFromPacket(3, 0, nil, info)
	require.NotNil(t, m)

	inPort := m.GetField(openflow13.OXM_CLASS_OPENFLOW_BASIC, openflow13.OXM_FIELD_IN_PORT)
	require.NotNil(t, inPort)
	assert.Equal(t, []byte{0, 0, 0, 3}, inPort.Value)

	ethType := m.GetField(openflow13.OXM_CLASS_OPENFLOW_BASIC, openflow13.OXM_FIELD_ETH_TYPE)
	require.NotNil(t, ethType)
	assert.Equal(t, []byte{0x08, 0x00}, ethType.Value)

	vlan := m.GetField(openflow13.OXM_CLASS_OPENFLOW_BASIC, openflow13.OXM_FIELD_VLAN_VID)
	require.NotNil(t, vlan)
	assert.Equal(t, []byte{0x00, 0x00}, vlan.Value)

	tcpDst := m.GetField(openflow13.OXM_CLASS_OPENFLOW_BASIC, openflow13.OXM_FIELD_TCP_DST)
	require.NotNil(t, tcpDst)
	assert.Equal(t, []byte{0x00, 0x50}, tcpDst.Value)
}

func TestBuildMatchFromPacketSkipInPort(t *testing.T) {
	info := &packet.PacketInfo{Format: packet.FormatEthernet, Eth: packet.Ethernet{EthType: 0x9999}}
	m := BuildMatchFromPacket(1, SkipInPort, nil, info)
	assert.Nil(t, m.GetField(openflow13.OXM_CLASS_OPENFLOW_BASIC, openflow13.OXM_FIELD_IN_PORT))
}
