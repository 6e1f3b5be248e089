package capture

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmacd/touchctl/controller"
	"github.com/jmacd/touchctl/touchosc"
)

func batches(b ...[]controller.Message) controller.Source {
	return controller.SourceFunc(func() []controller.Message {
		if len(b) == 0 {
			return nil
		}
		next := b[0]
		b = b[1:]
		return next
	})
}

func TestRecordAndReplay(t *testing.T) {
	first := []controller.Message{
		{Address: "/vol", Arguments: []any{float32(0.5)}},
		{Address: "/radio", Arguments: []any{int32(1)}},
	}
	second := []controller.Message{
		{Address: "/xy", Arguments: []any{float32(0.25), float32(1)}},
		{Address: "/label", Arguments: []any{"hi", true, false, int64(7), 1.5, []byte{1}, nil}},
	}

	var buf bytes.Buffer
	rec := NewRecorder(batches(first, nil, second), &buf)
	ts := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time {
		ts = ts.Add(time.Millisecond)
		return ts
	}

	assert.Equal(t, first, rec.Drain())
	assert.Empty(t, rec.Drain())
	assert.Equal(t, second, rec.Drain())
	require.NoError(t, rec.Err())

	rp, err := ReadAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, rp.Len())
	assert.Equal(t, first, rp.Drain())
	assert.Equal(t, second, rp.Drain())
	assert.Nil(t, rp.Drain())
	assert.Zero(t, rp.Len())
}

func TestReplayDrivesClient(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(batches([]controller.Message{
		{Address: "/vol", Arguments: []any{float32(1)}},
		{Address: "/grid/2", Arguments: []any{float32(0.5)}},
	}), &buf)
	rec.Drain()

	rp, err := ReadAll(&buf)
	require.NoError(t, err)

	c := touchosc.NewClient(rp)
	require.NoError(t, c.AddScalar("/vol", 0, 10, 5))
	require.NoError(t, c.AddArray("/grid", 2, 0, 4, 0))
	c.Update()

	assert.Equal(t, 10.0, c.Scalar("/vol"))
	assert.Equal(t, 2.0, c.Array("/grid/2"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecorderWriteError(t *testing.T) {
	msgs := []controller.Message{{Address: "/a", Arguments: []any{float32(1)}}}
	rec := NewRecorder(batches(msgs, msgs), failingWriter{})

	assert.Equal(t, msgs, rec.Drain())
	assert.ErrorContains(t, rec.Err(), "disk full")
	assert.Equal(t, msgs, rec.Drain())
}

func TestReadAllTruncated(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(batches([]controller.Message{{Address: "/a"}}), &buf)
	rec.Drain()

	data := buf.Bytes()
	_, err := ReadAll(bytes.NewReader(data[:len(data)-2]))
	assert.Error(t, err)
}
