package openflow13

import (
	"encoding/binary"

	"github.com/trema-go/switch-core/common"
)

// ofp_controller_role
const (
	CR_ROLE_NOCHANGE = 0 /* Don't change current role. */
	CR_ROLE_EQUAL    = 1 /* Default role, full access. */
	CR_ROLE_MASTER   = 2 /* Full access, at most one master. */
	CR_ROLE_SLAVE    = 3 /* Read-only access. */
)

const roleBodyLen = 16

// RoleRequest is OFPT_ROLE_REQUEST; RoleReply reuses the same wire shape
// for OFPT_ROLE_REPLY.
type RoleRequest struct {
	common.Header
	Role         uint32
	pad          []byte // 4 bytes
	GenerationId uint64
}

func NewRoleRequest() *RoleRequest {
	r := new(RoleRequest)
	r.Header = NewOfp13Header()
	r.Header.Type = Type_RoleRequest
	r.Role = CR_ROLE_NOCHANGE
	r.pad = make([]byte, 4)
	return r
}

func NewRoleReply() *RoleRequest {
	r := new(RoleRequest)
	r.Header = NewOfp13Header()
	r.Header.Type = Type_RoleReply
	r.pad = make([]byte, 4)
	return r
}

func (r *RoleRequest) Len() uint16 {
	return r.Header.Len() + roleBodyLen
}

func (r *RoleRequest) MarshalBinary() (data []byte, err error) {
	r.Header.Length = r.Len()
	data, err = r.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := make([]byte, roleBodyLen)
	binary.BigEndian.PutUint32(body[0:4], r.Role)
	binary.BigEndian.PutUint64(body[8:16], r.GenerationId)
	return append(data, body...), nil
}

func (r *RoleRequest) UnmarshalBinary(data []byte) error {
	if err := r.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	n := int(r.Header.Len())
	if len(data) < n+roleBodyLen {
		return errTooShort("role request")
	}
	body := data[n:]
	r.Role = binary.BigEndian.Uint32(body[0:4])
	r.GenerationId = binary.BigEndian.Uint64(body[8:16])
	return nil
}
