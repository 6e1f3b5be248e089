// Package touchosc keeps the latest state of remote controls, such as
// the faders, buttons and pads of a TouchOSC layout, keyed by address.
//
// Controls are registered once at setup with an output range and a
// default. Each frame the application calls Update, which drains the
// Source and stores the decoded, range-mapped values; the typed
// getters then read them back:
//
//	c := touchosc.NewClient(receiver)
//	if err := c.AddScalar("/vol", 0, 10, 5); err != nil {
//		log.Fatal(err)
//	}
//	for range ticker.C {
//		c.Update()
//		volume := c.Scalar("/vol")
//		...
//	}
//
// A Client is not safe for concurrent use.
package touchosc

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmacd/touchctl/controller"
)

// Observer is told the outcome of every dispatched message.
type Observer interface {
	// Stored reports a message that updated a control.
	Stored(addr string, k Kind)
	// Rejected reports a message for a registered control whose
	// arguments did not have the expected shape.
	Rejected(addr string, k Kind)
	// Ignored reports a message that matched no registered address.
	Ignored(addr string)
}

type Option func(*Client)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithVerbose logs every stored value at Info level.
func WithVerbose(v bool) Option {
	return func(c *Client) { c.verbose = v }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.obs = o }
}

// Client routes inbound messages to registered controls.
type Client struct {
	src     controller.Source
	reg     *registry
	log     *slog.Logger
	obs     Observer
	verbose bool

	unmatched rate.Sometimes
}

// NewClient returns a client reading from src. src may be nil when
// messages are only supplied through Dispatch.
func NewClient(src controller.Source, opts ...Option) *Client {
	c := &Client{
		src:       src,
		reg:       newRegistry(),
		log:       slog.New(slog.DiscardHandler),
		unmatched: rate.Sometimes{First: 10, Interval: time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update drains the source and dispatches every buffered message in
// arrival order. It does not wait for new messages.
func (c *Client) Update() {
	if c.src == nil {
		return
	}
	c.Dispatch(c.src.Drain()...)
}

// Dispatch applies msgs in order. Messages for unknown addresses and
// messages with the wrong arguments are dropped; each message is
// handled independently of the others.
func (c *Client) Dispatch(msgs ...controller.Message) {
	for _, m := range msgs {
		c.dispatch(m)
	}
}

func (c *Client) dispatch(m controller.Message) {
	// Registration rejects leaf addresses that collide with array
	// elements, so an exact hit never also matches an array.
	if st, ok := c.reg.resolveExact(m.Address); ok && st.kind() != KindArray {
		if !st.decode(m.Arguments) {
			c.rejected(m, st.kind())
			return
		}
		c.stored(m.Address, st.kind(), st.current())
		return
	}
	if a, n, ok := c.reg.resolveArray(m.Address); ok {
		if !a.decodeAt(n, m.Arguments) {
			c.rejected(m, KindArray)
			return
		}
		e, _ := a.element(n)
		c.stored(m.Address, KindArray, e.value)
		return
	}
	if c.obs != nil {
		c.obs.Ignored(m.Address)
	}
	c.unmatched.Do(func() {
		c.log.Debug("unmatched address", "address", m.Address)
	})
}

func (c *Client) stored(addr string, k Kind, v any) {
	if c.obs != nil {
		c.obs.Stored(addr, k)
	}
	if c.verbose {
		c.log.Info("control", "address", addr, "kind", k, "value", v)
	}
}

func (c *Client) rejected(m controller.Message, k Kind) {
	if c.obs != nil {
		c.obs.Rejected(m.Address, k)
	}
	c.log.Debug("argument mismatch", "address", m.Address, "kind", k, "args", m.Arguments)
}

// AddSwitch registers a button. def is the state before the first
// message.
func (c *Client) AddSwitch(addr string, def bool) error {
	return c.reg.register(addr, newSwitchStore(def))
}

// AddScalar registers a fader mapped onto [min, max].
func (c *Client) AddScalar(addr string, min, max, def float64) error {
	return c.reg.register(addr, newScalarStore(KindScalar, Bounds{min, max}, def))
}

// AddAngle registers an encoder mapped onto [min, max].
func (c *Client) AddAngle(addr string, min, max, def float64) error {
	return c.reg.register(addr, newScalarStore(KindAngle, Bounds{min, max}, def))
}

// AddRadial registers a radial control mapped onto [min, max].
func (c *Client) AddRadial(addr string, min, max, def float64) error {
	return c.reg.register(addr, newScalarStore(KindRadial, Bounds{min, max}, def))
}

// AddPoint registers an XY pad. Both axes share [min, max] and start
// at def.
func (c *Client) AddPoint(addr string, min, max, def float64) error {
	return c.reg.register(addr, newPointStore(Bounds{min, max}, def))
}

// AddPolar registers a radar control. def holds the initial radius
// in X and angle in Y.
func (c *Client) AddPolar(addr string, radius, angle Bounds, def Point) error {
	return c.reg.register(addr, newPolarStore(radius, angle, def))
}

// AddIndex registers a radio group of size buttons. Inbound int32
// values are stored verbatim.
func (c *Client) AddIndex(addr string, size int, def int32) error {
	if size < 1 {
		return &AddressError{Op: "register", Addr: addr, Err: ErrInvalidSize}
	}
	return c.reg.register(addr, newIndexStore(size, def))
}

// AddArray registers size faders addressed as addr/1 .. addr/size,
// all mapped onto [min, max].
func (c *Client) AddArray(addr string, size int, min, max, def float64) error {
	if size < 1 {
		return &AddressError{Op: "register", Addr: addr, Err: ErrInvalidSize}
	}
	return c.reg.register(addr, newArrayStore(size, Bounds{min, max}, def))
}

// SetRange changes the output range of a scalar, angle, radial, point
// or array control. The stored value is not rescaled.
func (c *Client) SetRange(addr string, b Bounds) error {
	st, ok := c.reg.resolveExact(addr)
	if !ok {
		return &AddressError{Op: "set range", Addr: addr, Err: ErrUnknownAddress}
	}
	switch s := st.(type) {
	case *scalarStore:
		s.bounds = b
	case *pointStore:
		s.bounds = b
	case *arrayStore:
		for _, e := range s.elems {
			e.bounds = b
		}
	default:
		return &AddressError{Op: "set range", Addr: addr, Err: ErrKindMismatch}
	}
	return nil
}

// SetPolarRange changes both ranges of a polar control.
func (c *Client) SetPolarRange(addr string, radius, angle Bounds) error {
	st, ok := c.reg.resolveExact(addr)
	if !ok {
		return &AddressError{Op: "set range", Addr: addr, Err: ErrUnknownAddress}
	}
	s, ok := st.(*polarStore)
	if !ok {
		return &AddressError{Op: "set range", Addr: addr, Err: ErrKindMismatch}
	}
	s.radius, s.angle = radius, angle
	return nil
}

// Reset restores a control, or every element of an array, to its
// registered default.
func (c *Client) Reset(addr string) error {
	st, ok := c.reg.resolveExact(addr)
	if !ok {
		return &AddressError{Op: "reset", Addr: addr, Err: ErrUnknownAddress}
	}
	st.reset()
	return nil
}

func (c *Client) ResetAll() {
	for _, st := range c.reg.stores {
		st.reset()
	}
}
