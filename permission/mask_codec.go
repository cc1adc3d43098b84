package permission

import (
	"encoding/binary"
	"errors"
)

// EncodeMask serializes a grant mask to big-endian bytes: 8 bytes for a
// [Mask64], 16 for a [Mask128]. The length encodes the width.
func EncodeMask(mask interface{}) ([]byte, error) {
	switch m := mask.(type) {
	case *Mask64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(*m))
		return b, nil
	case *Mask128:
		b := make([]byte, 16)
		binary.BigEndian.PutUint64(b[0:8], m.A)
		binary.BigEndian.PutUint64(b[8:16], m.B)
		return b, nil
	case nil:
		return nil, nil
	default:
		return nil, errors.New("invalid mask type")
	}
}

// DecodeMask is the inverse of [EncodeMask]. An empty input decodes to a
// nil mask (no grants).
func DecodeMask(data []byte) (interface{}, error) {
	switch len(data) {
	case 0:
		return nil, nil
	case 8:
		m := Mask64(binary.BigEndian.Uint64(data))
		return &m, nil
	case 16:
		return &Mask128{
			A: binary.BigEndian.Uint64(data[0:8]),
			B: binary.BigEndian.Uint64(data[8:16]),
		}, nil
	default:
		return nil, errors.New("invalid mask size")
	}
}

// MaskHas dispatches Has over the supported mask widths. Unknown or nil
// masks grant nothing.
func MaskHas(mask interface{}, bit int) bool {
	switch m := mask.(type) {
	case *Mask64:
		return m.Has(bit)
	case *Mask128:
		return m.Has(bit)
	default:
		return false
	}
}
