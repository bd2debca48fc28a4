package entities

import "fmt"

// Status is the validation verdict a worker reports for a case.
// The integer values are a wire contract: new variants are appended with new
// values and existing values are never renumbered.
type Status uint8

const (
	// StatusOK means the case header was recognized.
	StatusOK Status = 0

	// StatusInvalidInput means the case could not be interpreted.
	StatusInvalidInput Status = 1

	// StatusPointAtInfinity is reserved for curve point validation.
	StatusPointAtInfinity Status = 2

	// StatusZeroScalar is reserved for scalar validation.
	StatusZeroScalar Status = 3

	// StatusInvalidPubkey is reserved for public key validation.
	StatusInvalidPubkey Status = 4

	// StatusTweakOutOfRange is reserved for tweak range validation.
	StatusTweakOutOfRange Status = 5

	// StatusInternal reports a worker-side fault while evaluating the case.
	StatusInternal Status = 255
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusInvalidInput, StatusPointAtInfinity, StatusZeroScalar,
		StatusInvalidPubkey, StatusTweakOutOfRange, StatusInternal:
		return true
	}
	return false
}

// String returns the snake_case name used in logs and JSON output.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidInput:
		return "invalid_input"
	case StatusPointAtInfinity:
		return "point_at_infinity"
	case StatusZeroScalar:
		return "zero_scalar"
	case StatusInvalidPubkey:
		return "invalid_pubkey"
	case StatusTweakOutOfRange:
		return "tweak_out_of_range"
	case StatusInternal:
		return "internal"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus maps a wire byte to a Status. Unknown values are rejected so a
// host never silently accepts a verdict it does not understand.
func ParseStatus(b byte) (Status, error) {
	s := Status(b)
	if !s.Valid() {
		return s, fmt.Errorf("unknown status code %d", b)
	}
	return s, nil
}
