package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/common"
)

const tableModBodyLen = 8

// TABLE_MAX_TABLES / ofp_table: a flow table number or the special "all
// tables" value.
const TABLE_ALL = 0xff

// TableMod is OFPT_TABLE_MOD.
type TableMod struct {
	common.Header
	TableId uint8
	pad     []byte // 3 bytes
	Config  uint32
}

func NewTableMod() *TableMod {
	t := new(TableMod)
	t.Header = NewOfp13Header()
	t.Header.Type = Type_TableMod
	t.TableId = TABLE_ALL
	t.pad = make([]byte, 3)
	return t
}

func (t *TableMod) Len() uint16 {
	return t.Header.Len() + tableModBodyLen
}

func (t *TableMod) MarshalBinary() (data []byte, err error) {
	t.Header.Length = t.Len()
	data, err = t.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, tableModBodyLen)
	body[0] = t.TableId
	binary.BigEndian.PutUint32(body[4:8], t.Config)
	return append(data, body...), nil
}

func (t *TableMod) UnmarshalBinary(data []byte) error {
	if err := t.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(t.Header.Len())
	if len(data) < n+tableModBodyLen {
		return errTooShort("table mod")
	}
	body := data[n:]
	t.TableId = body[0]
	t.Config = binary.BigEndian.Uint32(body[4:8])
	return nil
}
