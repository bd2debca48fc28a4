package host

import (
	"context"
	"fmt"

	"github.com/shuv-amp/sp-differ/domain/entities"
	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
)

// RunCase runs input on w and returns the decoded reply together with the
// raw reply bytes. A non-zero run return surfaces as *errors.CallError; a
// malformed reply as *errors.PayloadError. A rejected case is not an error.
func RunCase(ctx context.Context, w ports.Worker, input []byte) (entities.Reply, []byte, error) {
	raw, err := w.Run(ctx, input)
	if err != nil {
		return entities.Reply{}, nil, err
	}
	if err := entities.ValidateReplyPayload(raw); err != nil {
		return entities.Reply{}, raw, &errors.PayloadError{Worker: w.Name(), Err: err}
	}
	reply, err := entities.DecodeReply(raw)
	if err != nil {
		return entities.Reply{}, raw, &errors.PayloadError{Worker: w.Name(), Err: err}
	}
	return reply, raw, nil
}

// Comparison is the outcome of running one case on two workers.
type Comparison struct {
	Left       entities.Reply `json:"left"`
	Right      entities.Reply `json:"right"`
	LeftRaw    []byte         `json:"left_raw"`
	RightRaw   []byte         `json:"right_raw"`
	FirstDiff  int            `json:"first_diff"`
	LengthDiff bool           `json:"length_diff"`
}

// Match reports whether both replies are byte-identical.
func (c *Comparison) Match() bool {
	return c.FirstDiff < 0 && !c.LengthDiff
}

// String describes the first divergence.
func (c *Comparison) String() string {
	switch {
	case c.Match():
		return "outputs match"
	case c.FirstDiff >= 0:
		return fmt.Sprintf("outputs differ at byte %d: left=0x%02x right=0x%02x",
			c.FirstDiff, c.LeftRaw[c.FirstDiff], c.RightRaw[c.FirstDiff])
	default:
		return fmt.Sprintf("output length mismatch: left=%d right=%d", len(c.LeftRaw), len(c.RightRaw))
	}
}

// Compare runs input on both workers and reports where their replies first
// differ. Either reply failing validation is an error.
func Compare(ctx context.Context, left, right ports.Worker, input []byte) (*Comparison, error) {
	lr, lraw, err := RunCase(ctx, left, input)
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}
	rr, rraw, err := RunCase(ctx, right, input)
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}

	c := &Comparison{
		Left:       lr,
		Right:      rr,
		LeftRaw:    lraw,
		RightRaw:   rraw,
		FirstDiff:  firstDiff(lraw, rraw),
		LengthDiff: len(lraw) != len(rraw),
	}
	return c, nil
}

// firstDiff returns the index of the first differing byte within the common
// prefix, or -1.
func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}
