// Package capture records drained control messages to a CBOR stream
// and plays them back as a controller.Source.
package capture

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/jmacd/touchctl/controller"
)

// Argument type tags, following the OSC type tag characters.
const (
	TypeFloat32 byte = 'f'
	TypeInt32   byte = 'i'
	TypeString  byte = 's'
	TypeFloat64 byte = 'd'
	TypeInt64   byte = 'h'
	TypeTrue    byte = 'T'
	TypeFalse   byte = 'F'
	TypeBlob    byte = 'b'
	TypeNil     byte = 'N'
)

// Event is one recorded message. Integer keys keep the stream compact.
type Event struct {
	Time    time.Time `cbor:"1,keyasint"`
	Address string    `cbor:"2,keyasint"`
	Args    []Arg     `cbor:"3,keyasint,omitempty"`
}

// Arg is a typed message argument.
type Arg struct {
	Type byte    `cbor:"1,keyasint"`
	F    float64 `cbor:"2,keyasint,omitempty"`
	I    int64   `cbor:"3,keyasint,omitempty"`
	S    string  `cbor:"4,keyasint,omitempty"`
	B    []byte  `cbor:"5,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR encoder mode: %v", err))
	}
}

// NewEvent converts a message. Arguments of unsupported types are
// recorded as nil.
func NewEvent(t time.Time, m controller.Message) Event {
	evt := Event{Time: t, Address: m.Address}
	for _, a := range m.Arguments {
		evt.Args = append(evt.Args, newArg(a))
	}
	return evt
}

func newArg(a any) Arg {
	switch v := a.(type) {
	case float32:
		return Arg{Type: TypeFloat32, F: float64(v)}
	case int32:
		return Arg{Type: TypeInt32, I: int64(v)}
	case string:
		return Arg{Type: TypeString, S: v}
	case float64:
		return Arg{Type: TypeFloat64, F: v}
	case int64:
		return Arg{Type: TypeInt64, I: v}
	case bool:
		if v {
			return Arg{Type: TypeTrue}
		}
		return Arg{Type: TypeFalse}
	case []byte:
		return Arg{Type: TypeBlob, B: v}
	}
	return Arg{Type: TypeNil}
}

func (a Arg) value() any {
	switch a.Type {
	case TypeFloat32:
		return float32(a.F)
	case TypeInt32:
		return int32(a.I)
	case TypeString:
		return a.S
	case TypeFloat64:
		return a.F
	case TypeInt64:
		return a.I
	case TypeTrue:
		return true
	case TypeFalse:
		return false
	case TypeBlob:
		return a.B
	}
	return nil
}

// Message converts the event back into a control message.
func (e Event) Message() controller.Message {
	m := controller.Message{Address: e.Address}
	for _, a := range e.Args {
		m.Arguments = append(m.Arguments, a.value())
	}
	return m
}

// Recorder is a Source that passes through another Source and writes
// every drained message to w.
type Recorder struct {
	src controller.Source
	now func() time.Time

	lock sync.Mutex
	enc  *cbor.Encoder
	err  error
}

func NewRecorder(src controller.Source, w io.Writer) *Recorder {
	return &Recorder{
		src: src,
		now: time.Now,
		enc: encMode.NewEncoder(w),
	}
}

// Drain drains the wrapped source. Recording stops at the first write
// error; messages are still passed through. See Err.
func (r *Recorder) Drain() []controller.Message {
	msgs := r.src.Drain()
	if len(msgs) == 0 {
		return msgs
	}
	now := r.now()

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.err != nil {
		return msgs
	}
	for _, m := range msgs {
		if err := r.enc.Encode(NewEvent(now, m)); err != nil {
			r.err = fmt.Errorf("capture: write: %w", err)
			break
		}
	}
	return msgs
}

// Err returns the first write error.
func (r *Recorder) Err() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.err
}

// Replay is a Source that returns recorded messages. Each Drain
// returns the messages that were drained together when recorded.
type Replay struct {
	batches [][]controller.Message
}

// ReadAll decodes a recording.
func ReadAll(r io.Reader) (*Replay, error) {
	dec := cbor.NewDecoder(r)
	rp := &Replay{}
	var last time.Time
	for {
		var evt Event
		err := dec.Decode(&evt)
		if errors.Is(err, io.EOF) {
			return rp, nil
		}
		if err != nil {
			return nil, fmt.Errorf("capture: read event %d: %w", rp.Len(), err)
		}
		if len(rp.batches) == 0 || !evt.Time.Equal(last) {
			rp.batches = append(rp.batches, nil)
			last = evt.Time
		}
		n := len(rp.batches) - 1
		rp.batches[n] = append(rp.batches[n], evt.Message())
	}
}

func (rp *Replay) Drain() []controller.Message {
	if len(rp.batches) == 0 {
		return nil
	}
	b := rp.batches[0]
	rp.batches = rp.batches[1:]
	return b
}

// Len returns the number of messages not yet drained.
func (rp *Replay) Len() int {
	n := 0
	for _, b := range rp.batches {
		n += len(b)
	}
	return n
}
