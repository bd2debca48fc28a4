package host

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuv-amp/sp-differ/domain/entities"
	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/internal/testutil"
	"github.com/shuv-amp/sp-differ/worker"
)

func TestRunCase(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		reply   []byte
		status  entities.Status
		wantErr string
	}{
		{name: "ok", reply: []byte{1, 0, 0, 0}, status: entities.StatusOK},
		{name: "invalid input", reply: []byte{1, 1, 0, 0}, status: entities.StatusInvalidInput},
		{name: "internal", reply: []byte{1, 255, 0, 0}, status: entities.StatusInternal},
		{name: "too short", reply: []byte{1, 0}, wantErr: "output too short"},
		{name: "bad schema", reply: []byte{2, 0, 0, 0}, wantErr: "unsupported output version"},
		{name: "non-ok payload", reply: []byte{1, 1, 0, 0, 9}, wantErr: "non-ok status must have empty payload"},
		{name: "ok count mismatch", reply: []byte{1, 0, 1, 0}, wantErr: "invalid payload length"},
		{name: "unknown status", reply: []byte{1, 42, 0, 0}, wantErr: "unknown status code 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &testutil.FakeWorker{Label: "fake", Reply: tt.reply}
			reply, raw, err := RunCase(ctx, w, []byte{1})
			if tt.wantErr != "" {
				payloadErr := testutil.RequireErrorAs[*errors.PayloadError](t, err)
				assert.Equal(t, "fake", payloadErr.Worker)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, reply.Status)
			assert.Equal(t, tt.reply, raw)
		})
	}
}

func TestRunCase_CallError(t *testing.T) {
	w := &testutil.FakeWorker{Label: "fake", RunErr: &errors.CallError{Worker: "fake", Code: -1}}

	_, raw, err := RunCase(context.Background(), w, nil)
	assert.Nil(t, raw)
	callErr := testutil.RequireErrorAs[*errors.CallError](t, err)
	assert.Equal(t, int32(-1), callErr.Code)
}

func TestRunCase_Builtin(t *testing.T) {
	w := NewInProcessWorker()
	ctx := context.Background()

	reply, _, err := RunCase(ctx, w, testutil.MinimalCase(1))
	require.NoError(t, err)
	assert.Equal(t, entities.NewReply(entities.StatusOK), reply)

	reply, _, err = RunCase(ctx, w, nil)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInvalidInput, reply.Status)
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	input := testutil.HeaderBytes(1, 17)

	t.Run("match", func(t *testing.T) {
		left := &testutil.FakeWorker{Label: "l", Reply: []byte{1, 0, 0, 0}}
		c, err := Compare(ctx, left, NewInProcessWorker(), input)
		require.NoError(t, err)
		assert.True(t, c.Match())
		assert.Equal(t, -1, c.FirstDiff)
		assert.Equal(t, "outputs match", c.String())
		assert.Equal(t, [][]byte{input}, left.Inputs)
	})

	t.Run("status differs", func(t *testing.T) {
		left := &testutil.FakeWorker{Label: "l", Reply: []byte{1, 0, 0, 0}}
		right := &testutil.FakeWorker{Label: "r", Reply: []byte{1, 1, 0, 0}}
		c, err := Compare(ctx, left, right, input)
		require.NoError(t, err)
		assert.False(t, c.Match())
		assert.Equal(t, 1, c.FirstDiff)
		assert.Equal(t, "outputs differ at byte 1: left=0x00 right=0x01", c.String())
	})

	t.Run("length differs", func(t *testing.T) {
		withOutput := append([]byte{1, 0, 1, 0}, make([]byte, 65)...)
		left := &testutil.FakeWorker{Label: "l", Reply: []byte{1, 0, 0, 0}}
		right := &testutil.FakeWorker{Label: "r", Reply: withOutput}
		c, err := Compare(ctx, left, right, input)
		require.NoError(t, err)
		assert.Equal(t, 2, c.FirstDiff)

		right.Reply = []byte{1, 0, 0, 0}
		left.Reply = []byte{1, 0, 0, 0}
		c, err = Compare(ctx, left, right, input)
		require.NoError(t, err)
		assert.True(t, c.Match())
	})

	t.Run("scripted worker agrees with builtin", func(t *testing.T) {
		left := &testutil.FakeWorker{Label: "l", RunFunc: func(in []byte) ([]byte, error) {
			reply := worker.Run(in).Encode()
			return reply[:], nil
		}}
		for _, in := range [][]byte{input, nil, testutil.HeaderBytes(1, 16), testutil.HeaderBytes(2, 17)} {
			c, err := Compare(ctx, left, NewInProcessWorker(), in)
			require.NoError(t, err)
			assert.True(t, c.Match(), c.String())
		}
		assert.Len(t, left.Inputs, 4)
	})

	t.Run("invalid side", func(t *testing.T) {
		left := &testutil.FakeWorker{Label: "l", Reply: []byte{1, 0, 0, 0}}
		right := &testutil.FakeWorker{Label: "r", Reply: []byte{9}}
		_, err := Compare(ctx, left, right, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "right: ")
		var payloadErr *errors.PayloadError
		assert.True(t, stdErrors.As(err, &payloadErr))
	})
}

func TestComparison_LengthMismatch(t *testing.T) {
	c := &Comparison{LeftRaw: []byte{1, 0, 0, 0}, RightRaw: []byte{1, 0, 0, 0, 5}, FirstDiff: -1, LengthDiff: true}
	assert.False(t, c.Match())
	assert.Equal(t, "output length mismatch: left=4 right=5", c.String())
}
