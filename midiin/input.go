// Package midiin turns a MIDI input port into a controller.Source so
// that hardware faders, knobs and pads can drive the same registry as
// TouchOSC.
package midiin

import (
	"context"
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/jmacd/touchctl/controller"
)

const (
	DefaultPrefix = "/midi"

	MaxPending = 4096
)

// Input represents a MIDI input stream. A driver, such as
// gitlab.com/gomidi/midi/v2/drivers/rtmididrv, must be imported by
// the program.
type Input struct {
	inputDriver drivers.In
	prefix      string

	lock      sync.Mutex
	errorChan chan error
	stopFn    func()
	pending   []controller.Message
	dropped   int64
}

// Open opens the first input port whose name contains name.
func Open(name, prefix string) (*Input, error) {
	in, err := midi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("midiin: can't find input %q: %w", name, err)
	}
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("midiin: open %q: %w", name, err)
	}
	return newInput(in, prefix), nil
}

func newInput(in drivers.In, prefix string) *Input {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Input{
		inputDriver: in,
		prefix:      prefix,
		errorChan:   make(chan error, 1),
	}
}

// Run begins listening for events, blocking the caller until the
// context is canceled or the driver reports an error.
func (l *Input) Run(ctx context.Context) error {
	lcfg := drivers.ListenConfig{
		TimeCode:    false,
		ActiveSense: false,
		SysEx:       false,
		OnErr: func(err error) {
			_ = l.handleError(err)
		},
	}

	stop, err := l.inputDriver.Listen(func(msg []byte, milliseconds int32) {
		if evt, ok := newEvent(msg, milliseconds); ok {
			l.event(evt)
		}
	}, lcfg)
	if err != nil {
		return fmt.Errorf("midiin: listen: %w", err)
	}
	l.lock.Lock()
	l.stopFn = stop
	l.lock.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-l.errorChan:
		return err
	}
}

func (l *Input) event(evt Event) {
	m, ok := evt.Message(l.prefix)
	if !ok {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.pending) >= MaxPending {
		l.dropped++
		return
	}
	l.pending = append(l.pending, m)
}

// Drain returns the buffered messages in arrival order.
func (l *Input) Drain() []controller.Message {
	l.lock.Lock()
	defer l.lock.Unlock()
	msgs := l.pending
	l.pending = nil
	return msgs
}

// Dropped reports how many events were lost to a full buffer.
func (l *Input) Dropped() int64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.dropped
}

func (l *Input) Close() error {
	l.lock.Lock()
	stop := l.stopFn
	l.stopFn = nil
	l.lock.Unlock()
	if stop != nil {
		stop()
	}

	if err := l.inputDriver.Close(); err != nil {
		return l.handleError(fmt.Errorf("midiin: close stream: %w", err))
	}
	return nil
}

func (l *Input) handleError(err error) error {
	if err == nil {
		return err
	}
	select {
	case l.errorChan <- err:
	default:
	}
	return err
}
