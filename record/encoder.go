package record

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/hirewire/goGate/permission"
)

const recordFormatVersion = 1

const (
	sessionFlagRevoked byte = 1 << 0

	maxSessionsPerRecord = 1024
)

// ErrCorruptRecord is returned when a stored record blob cannot be decoded.
var ErrCorruptRecord = errors.New("security record corrupt")

// Encode serializes a [SecurityRecord] into the versioned binary format
// used by [Store].
func Encode(r *SecurityRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordFormatVersion)

	if err := writeString(&buf, r.UserID); err != nil {
		return nil, err
	}
	if err := writeString(&buf, r.UserType); err != nil {
		return nil, err
	}

	maskBytes, err := permission.EncodeMask(r.Mask)
	if err != nil {
		return nil, err
	}
	if len(maskBytes) > 255 {
		return nil, errors.New("mask too large")
	}
	buf.WriteByte(byte(len(maskBytes)))
	buf.Write(maskBytes)

	if len(r.Sessions) > maxSessionsPerRecord {
		return nil, errors.New("too many sessions")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(r.Sessions))); err != nil {
		return nil, err
	}
	for i := range r.Sessions {
		s := &r.Sessions[i]
		if err := writeString(&buf, s.ID); err != nil {
			return nil, err
		}
		buf.Write(s.TokenHash[:])
		if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
			return nil, err
		}
		var flags byte
		if s.Revoked {
			flags |= sessionFlagRevoked
		}
		buf.WriteByte(flags)
	}

	if err := binary.Write(&buf, binary.BigEndian, r.UpdatedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a blob produced by [Encode]. Any structural damage yields
// [ErrCorruptRecord].
func Decode(data []byte) (*SecurityRecord, error) {
	rd := bytes.NewReader(data)

	version, err := rd.ReadByte()
	if err != nil || version != recordFormatVersion {
		return nil, ErrCorruptRecord
	}

	r := &SecurityRecord{}

	if r.UserID, err = readString(rd); err != nil {
		return nil, ErrCorruptRecord
	}
	if r.UserType, err = readString(rd); err != nil {
		return nil, ErrCorruptRecord
	}

	maskLen, err := rd.ReadByte()
	if err != nil {
		return nil, ErrCorruptRecord
	}
	if maskLen > 0 {
		maskBytes := make([]byte, maskLen)
		if _, err := readFull(rd, maskBytes); err != nil {
			return nil, ErrCorruptRecord
		}
		mask, err := permission.DecodeMask(maskBytes)
		if err != nil {
			return nil, ErrCorruptRecord
		}
		r.Mask = mask
	}

	var count uint16
	if err := binary.Read(rd, binary.BigEndian, &count); err != nil {
		return nil, ErrCorruptRecord
	}
	if int(count) > maxSessionsPerRecord {
		return nil, ErrCorruptRecord
	}

	r.Sessions = make([]Session, 0, count)
	for i := 0; i < int(count); i++ {
		var s Session
		if s.ID, err = readString(rd); err != nil {
			return nil, ErrCorruptRecord
		}
		if _, err := readFull(rd, s.TokenHash[:]); err != nil {
			return nil, ErrCorruptRecord
		}
		if err := binary.Read(rd, binary.BigEndian, &s.CreatedAt); err != nil {
			return nil, ErrCorruptRecord
		}
		if err := binary.Read(rd, binary.BigEndian, &s.ExpiresAt); err != nil {
			return nil, ErrCorruptRecord
		}
		flags, err := rd.ReadByte()
		if err != nil {
			return nil, ErrCorruptRecord
		}
		s.Revoked = flags&sessionFlagRevoked != 0
		r.Sessions = append(r.Sessions, s)
	}

	if err := binary.Read(rd, binary.BigEndian, &r.UpdatedAt); err != nil {
		return nil, ErrCorruptRecord
	}
	if rd.Len() != 0 {
		return nil, ErrCorruptRecord
	}

	return r, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > 255 {
		return errors.New("string field too long")
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}

func readString(rd *bytes.Reader) (string, error) {
	n, err := rd.ReadByte()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := readFull(rd, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readFull(rd *bytes.Reader, b []byte) (int, error) {
	n, err := rd.Read(b)
	if err != nil {
		return n, err
	}
	if n != len(b) {
		return n, ErrCorruptRecord
	}
	return n, nil
}
