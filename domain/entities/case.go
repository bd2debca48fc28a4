package entities

import (
	"encoding/binary"
	"errors"
)

const (
	// CaseVersionV1 is the only case format version understood here.
	CaseVersionV1 byte = 1

	// CaseHeaderSize is the encoded size of CaseHeader:
	// version(1) + seed(8) + flags(4) + input_count(2) + output_count(2).
	CaseHeaderSize = 17

	// FlagHasPrivkeys marks inputs that carry a 32-byte private key.
	FlagHasPrivkeys uint32 = 1 << 1

	// FlagHasPubkeys marks inputs that carry a 33-byte public key.
	FlagHasPubkeys uint32 = 1 << 2
)

const (
	txidSize    = 32
	privkeySize = 32
	pubkeySize  = 33
)

// InputType identifies the script type of a case input. Only 0x01-0x03 are
// defined by the v1 format.
type InputType uint8

var (
	// ErrUnexpectedEnd is returned when the payload ends mid-field.
	ErrUnexpectedEnd = errors.New("unexpected end of data")
	// ErrUnsupportedVersion is returned for a version byte other than 1.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrUnknownInputType is returned for an input type outside 0x01-0x03.
	ErrUnknownInputType = errors.New("unknown input type")
	// ErrTrailingBytes is returned when bytes remain after the label list.
	ErrTrailingBytes = errors.New("trailing bytes")
	// ErrHeaderTooShort is returned by ParseCaseHeader for short payloads.
	ErrHeaderTooShort = errors.New("case header too short")
)

// CaseHeader is the fixed 17-byte prefix of every v1 case.
type CaseHeader struct {
	Seed        uint64 `json:"seed"`
	Flags       uint32 `json:"flags"`
	InputCount  uint16 `json:"input_count"`
	OutputCount uint16 `json:"output_count"`
	Version     uint8  `json:"version"`
}

// CaseInput is one transaction input of a case.
type CaseInput struct {
	OutpointTxid []byte    `json:"outpoint_txid"`
	Privkey      []byte    `json:"privkey,omitempty"`
	Pubkey       []byte    `json:"pubkey,omitempty"`
	OutpointVout uint32    `json:"outpoint_vout"`
	Type         InputType `json:"input_type"`
}

// Case is a fully parsed v1 case.
type Case struct {
	Inputs      []CaseInput `json:"inputs"`
	ScanPubkey  []byte      `json:"scan_pubkey"`
	SpendPubkey []byte      `json:"spend_pubkey"`
	Labels      []uint32    `json:"labels"`
	Header      CaseHeader  `json:"header"`
}

// caseReader is a bounds-checked little-endian cursor.
type caseReader struct {
	buf []byte
	off int
}

func (r *caseReader) take(n int) ([]byte, error) {
	if n > len(r.buf)-r.off {
		return nil, ErrUnexpectedEnd
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *caseReader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *caseReader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *caseReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *caseReader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// bytes returns a copy so the parsed case never aliases the payload.
func (r *caseReader) bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (r *caseReader) header() (CaseHeader, error) {
	var (
		h   CaseHeader
		err error
	)
	if h.Version, err = r.u8(); err != nil {
		return h, err
	}
	if h.Seed, err = r.u64(); err != nil {
		return h, err
	}
	if h.Flags, err = r.u32(); err != nil {
		return h, err
	}
	if h.InputCount, err = r.u16(); err != nil {
		return h, err
	}
	if h.OutputCount, err = r.u16(); err != nil {
		return h, err
	}
	return h, nil
}

// ParseCaseHeader decodes the 17-byte header and checks the version.
// Anything after the header is ignored.
func ParseCaseHeader(payload []byte) (CaseHeader, error) {
	r := &caseReader{buf: payload}
	h, err := r.header()
	if err != nil {
		return h, ErrHeaderTooShort
	}
	if h.Version != CaseVersionV1 {
		return h, ErrUnsupportedVersion
	}
	return h, nil
}

// ParseCase decodes a complete v1 case. The payload must be consumed exactly.
func ParseCase(payload []byte) (*Case, error) {
	if len(payload) == 0 {
		return nil, ErrUnexpectedEnd
	}
	if payload[0] != CaseVersionV1 {
		return nil, ErrUnsupportedVersion
	}

	r := &caseReader{buf: payload}
	header, err := r.header()
	if err != nil {
		return nil, err
	}

	c := &Case{Header: header, Inputs: make([]CaseInput, 0, header.InputCount)}
	hasPriv := header.Flags&FlagHasPrivkeys != 0
	hasPub := header.Flags&FlagHasPubkeys != 0

	for i := 0; i < int(header.InputCount); i++ {
		var in CaseInput
		if in.OutpointTxid, err = r.bytes(txidSize); err != nil {
			return nil, err
		}
		if in.OutpointVout, err = r.u32(); err != nil {
			return nil, err
		}
		t, err := r.u8()
		if err != nil {
			return nil, err
		}
		in.Type = InputType(t)
		if !in.Type.Valid() {
			return nil, ErrUnknownInputType
		}
		if hasPriv {
			if in.Privkey, err = r.bytes(privkeySize); err != nil {
				return nil, err
			}
		}
		if hasPub {
			if in.Pubkey, err = r.bytes(pubkeySize); err != nil {
				return nil, err
			}
		}
		c.Inputs = append(c.Inputs, in)
	}

	if c.ScanPubkey, err = r.bytes(pubkeySize); err != nil {
		return nil, err
	}
	if c.SpendPubkey, err = r.bytes(pubkeySize); err != nil {
		return nil, err
	}

	labelCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	c.Labels = make([]uint32, 0, labelCount)
	for i := 0; i < int(labelCount); i++ {
		label, err := r.u32()
		if err != nil {
			return nil, err
		}
		c.Labels = append(c.Labels, label)
	}

	if r.off != len(payload) {
		return nil, ErrTrailingBytes
	}
	return c, nil
}

// Valid reports whether t is a known input type.
func (t InputType) Valid() bool {
	return t >= 0x01 && t <= 0x03
}
