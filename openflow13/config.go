package openflow13

import (
	"encoding/binary"

	log "github.com/sirupsen/logrus"

	"github.com/trema-go/switch-core/common"
)

// ofp_config_flags
const (
	FRAG_NORMAL = 0
	FRAG_DROP   = 1 << 0
	FRAG_REASM  = 1 << 1
	FRAG_MASK   = 3
)

// OFPCML_MAX is the largest controller_max_len value that means "send
// exactly this many bytes"; OFPCML_NO_BUFFER means "send the whole
// packet, not just a fragment".
const (
	OFPCML_MAX       = 0xffe5
	OFPCML_NO_BUFFER = 0xffff
)

const switchConfigBodyLen = 4

// SwitchConfig is the shared body of GetConfigReply and SetConfig
// (ofp_switch_config): flags plus miss_send_len.
type SwitchConfig struct {
	common.Header
	Flags       uint16
	MissSendLen uint16
}

func NewGetConfigReply() *SwitchConfig {
	c := new(SwitchConfig)
	c.Header = NewOfp13Header()
	c.Header.Type = Type_GetConfigReply
	c.MissSendLen = OFPCML_MAX
	return c
}

func NewSetConfig() *SwitchConfig {
	c := new(SwitchConfig)
	c.Header = NewOfp13Header()
	c.Header.Type = Type_SetConfig
	c.MissSendLen = OFPCML_MAX
	return c
}

func (c *SwitchConfig) Len() uint16 {
	return c.Header.Len() + switchConfigBodyLen
}

// clampMissSendLen warns and clamps a requested miss_send_len to the
// range the datapath actually honors.
func clampMissSendLen(v uint16) uint16 {
	if v > OFPCML_MAX && v != OFPCML_NO_BUFFER {
		log.Warnf("miss_send_len %d exceeds OFPCML_MAX, clamping to %d", v, OFPCML_MAX)
		return OFPCML_MAX
	}
	return v
}

func (c *SwitchConfig) MarshalBinary() (data []byte, err error) {
	c.Header.Length = c.Len()
	data, err = c.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, switchConfigBodyLen)
	binary.BigEndian.PutUint16(body[0:2], c.Flags)
	binary.BigEndian.PutUint16(body[2:4], clampMissSendLen(c.MissSendLen))
	return append(data, body...), nil
}

func (c *SwitchConfig) UnmarshalBinary(data []byte) error {
	if err := c.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(c.Header.Len())
	if len(data) < n+switchConfigBodyLen {
		return errTooShort("switch config")
	}
	body := data[n:]
	c.Flags = binary.BigEndian.Uint16(body[0:2])
	c.MissSendLen = binary.BigEndian.Uint16(body[2:4])
	return nil
}
