package openflow13

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePrereqsVlanPcpRequiresPresentVlanVid(t *testing.T) {
	present := uint16(OFPVID_PRESENT | 5)
	m := NewMatch()
	m.AddField(NewOxmVlanVid(present, nil))
	m.AddField(NewOxmVlanPcp(3))
	assert.Equal(t, KindNone, m.ValidatePrereqs())
}

func TestValidatePrereqsVlanPcpRejectsNoneVlanVid(t *testing.T) {
	m := NewMatch()
	m.AddField(NewOxmVlanVid(OFPVID_NONE, nil))
	m.AddField(NewOxmVlanPcp(3))
	assert.Equal(t, KindBadMatchPrereq, m.ValidatePrereqs())
}

func TestValidatePrereqsVlanPcpRejectsMissingVlanVid(t *testing.T) {
	m := NewMatch()
	m.AddField(NewOxmVlanPcp(3))
	assert.Equal(t, KindBadMatchPrereq, m.ValidatePrereqs())
}
