package common

import (
	"encoding/binary"
	"errors"

	"github.com/trema-go/switch-core/util"
)

const (
	OFPHET_VERSIONBITMAP = 1

	helloElemHeaderLen = 4
)

// HelloElemVersionBitmap is the OFPHET_VERSIONBITMAP hello element: a
// bitmap of supported OpenFlow wire versions, one bit per version number,
// packed 32 versions per uint32 (version%32 within bitmaps[version/32]).
type HelloElemVersionBitmap struct {
	Bitmaps []uint32
}

func (h *HelloElemVersionBitmap) Len() uint16 {
	n := helloElemHeaderLen + 4*len(h.Bitmaps)
	return uint16(n + util.Pad64(n))
}

func (h *HelloElemVersionBitmap) MarshalBinary() (data []byte, err error) {
	body := make([]byte, 4*len(h.Bitmaps))
	for i, b := range h.Bitmaps {
		binary.BigEndian.PutUint32(body[i*4:], b)
	}
	hdr := make([]byte, helloElemHeaderLen)
	binary.BigEndian.PutUint16(hdr[0:2], OFPHET_VERSIONBITMAP)
	binary.BigEndian.PutUint16(hdr[2:4], uint16(helloElemHeaderLen+len(body)))
	data = append(hdr, body...)
	data = util.AppendPad64(data)
	return data, nil
}

func (h *HelloElemVersionBitmap) UnmarshalBinary(data []byte) error {
	if len(data) < helloElemHeaderLen {
		return errors.New("hello element: too short")
	}
	elemLen := binary.BigEndian.Uint16(data[2:4])
	if int(elemLen) > len(data) || elemLen < helloElemHeaderLen {
		return errors.New("hello element: invalid length")
	}
	body := data[helloElemHeaderLen:elemLen]
	h.Bitmaps = make([]uint32, len(body)/4)
	for i := range h.Bitmaps {
		h.Bitmaps[i] = binary.BigEndian.Uint32(body[i*4:])
	}
	return nil
}

// versionBitmapFor builds the bitmap list for a single advertised
// version: n_bitmaps = max_version/32 + 1, bit version%32 set within
// bitmaps[version/32].
func versionBitmapFor(version uint8) []uint32 {
	nBitmaps := int(version)/32 + 1
	bitmaps := make([]uint32, nBitmaps)
	bitmaps[version/32] |= 1 << (uint(version) % 32)
	return bitmaps
}

// Hello is the OFPT_HELLO message, version-generic since negotiation
// happens before either side knows the peer's version.
type Hello struct {
	Header
	VersionBitmap *HelloElemVersionBitmap
}

// NewHello builds a Hello carrying a version-bitmap element that
// advertises exactly one version, as the switch core always does: it
// replies with a Hello whose version-bitmap element advertises only
// its own version.
func NewHello(version uint8) (*Hello, error) {
	h := &Hello{
		Header:        Header{Version: version, Type: 0, Xid: util.NextXid()},
		VersionBitmap: &HelloElemVersionBitmap{Bitmaps: versionBitmapFor(version)},
	}
	return h, nil
}

func (h *Hello) Len() uint16 {
	n := HeaderLen
	if h.VersionBitmap != nil {
		n += int(h.VersionBitmap.Len())
	}
	return uint16(n)
}

func (h *Hello) MarshalBinary() (data []byte, err error) {
	h.Header.Length = h.Len()
	hdrBytes, err := h.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	data = hdrBytes
	if h.VersionBitmap != nil {
		elemBytes, err := h.VersionBitmap.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, elemBytes...)
	}
	return data, nil
}

func (h *Hello) UnmarshalBinary(data []byte) error {
	if err := h.Header.UnmarshalBinary(data); err != nil {
		return err
	}
	body := data[HeaderLen:]
	for len(body) >= helloElemHeaderLen {
		elemType := binary.BigEndian.Uint16(body[0:2])
		elemLen := binary.BigEndian.Uint16(body[2:4])
		if elemLen < helloElemHeaderLen || int(elemLen) > len(body) {
			return errors.New("hello: invalid element length")
		}
		if elemType == OFPHET_VERSIONBITMAP {
			h.VersionBitmap = &HelloElemVersionBitmap{}
			if err := h.VersionBitmap.UnmarshalBinary(body[:elemLen]); err != nil {
				return err
			}
		}
		advance := int(elemLen) + util.Pad64(int(elemLen))
		if advance > len(body) {
			break
		}
		body = body[advance:]
	}
	return nil
}

// SupportsVersion reports whether the bitmap advertises version v.
func (h *Hello) SupportsVersion(v uint8) bool {
	if h.VersionBitmap == nil {
		return h.Header.Version == v
	}
	idx := int(v) / 32
	if idx >= len(h.VersionBitmap.Bitmaps) {
		return false
	}
	return h.VersionBitmap.Bitmaps[idx]&(1<<(uint(v)%32)) != 0
}
