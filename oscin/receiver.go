// Package oscin receives OSC messages over UDP and buffers them until
// they are drained by a touchosc.Client.
package oscin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"github.com/jmacd/touchctl/controller"
)

const (
	// DefaultPort is the outgoing port TouchOSC layouts are commonly
	// configured with.
	DefaultPort = 6555

	MaxPacketSize  = 65535
	MaxPending     = 4096
	PollingPeriod  = 100 * time.Millisecond
	ReadBufferSize = 1 << 20
)

var ErrClosed = errors.New("oscin: receiver closed")

type Option func(*Receiver)

func WithLogger(l *slog.Logger) Option {
	return func(r *Receiver) { r.log = l }
}

// WithMaxPending bounds the number of undrained messages. Messages
// arriving while the buffer is full are dropped.
func WithMaxPending(n int) Option {
	return func(r *Receiver) { r.maxPending = n }
}

// Receiver is a controller.Source fed by an OSC UDP socket.
type Receiver struct {
	conn       net.PacketConn
	log        *slog.Logger
	maxPending int
	errorChan  chan error

	lock      sync.Mutex
	pending   []controller.Message
	dropped   int64
	malformed int64
}

// Listen binds a UDP socket on port, on all interfaces. Port 0 picks
// a free port; see Addr.
func Listen(port int, opts ...Option) (*Receiver, error) {
	return ListenAddr(net.JoinHostPort("", strconv.Itoa(port)), opts...)
}

// ListenAddr binds a UDP socket on a host:port address.
func ListenAddr(addr string, opts ...Option) (*Receiver, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("oscin: listen %s: %w", addr, err)
	}
	if uc, ok := conn.(*net.UDPConn); ok {
		_ = uc.SetReadBuffer(ReadBufferSize)
	}
	r := &Receiver{
		conn:       conn,
		log:        slog.New(slog.DiscardHandler),
		maxPending: MaxPending,
		errorChan:  make(chan error, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Addr returns the bound address.
func (r *Receiver) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Port returns the bound UDP port.
func (r *Receiver) Port() int {
	if ua, ok := r.conn.LocalAddr().(*net.UDPAddr); ok {
		return ua.Port
	}
	return 0
}

// Run reads packets until the context is canceled or the socket
// fails.
func (r *Receiver) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := make([]byte, MaxPacketSize)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := r.conn.SetReadDeadline(time.Now().Add(PollingPeriod)); err != nil {
				_ = r.handleError(fmt.Errorf("oscin: set deadline: %w", err))
				return
			}
			n, _, err := r.conn.ReadFrom(buf)
			if err != nil {
				var ne net.Error
				if errors.As(err, &ne) && ne.Timeout() {
					continue
				}
				if errors.Is(err, net.ErrClosed) {
					_ = r.handleError(ErrClosed)
					return
				}
				_ = r.handleError(fmt.Errorf("oscin: read: %w", err))
				return
			}
			r.handlePacket(buf[:n])
		}
	}()

	defer wg.Wait()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-r.errorChan:
		return err
	}
}

// Drain returns the buffered messages in arrival order.
func (r *Receiver) Drain() []controller.Message {
	r.lock.Lock()
	defer r.lock.Unlock()
	msgs := r.pending
	r.pending = nil
	return msgs
}

// Dropped reports how many messages were lost to a full buffer.
func (r *Receiver) Dropped() int64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.dropped
}

// Malformed reports how many packets failed to decode.
func (r *Receiver) Malformed() int64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.malformed
}

func (r *Receiver) Close() error {
	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("oscin: close: %w", err)
	}
	return nil
}

func (r *Receiver) handlePacket(data []byte) {
	pkt, err := osc.ParsePacket(string(data))
	if err != nil {
		r.lock.Lock()
		r.malformed++
		r.lock.Unlock()
		r.log.Debug("malformed osc packet", "size", len(data), "error", err)
		return
	}
	var msgs []controller.Message
	msgs = flatten(msgs, pkt)

	r.lock.Lock()
	defer r.lock.Unlock()
	for _, m := range msgs {
		if len(r.pending) >= r.maxPending {
			r.dropped++
			continue
		}
		r.pending = append(r.pending, m)
	}
}

// flatten appends the messages of pkt. Within a bundle, its direct
// messages come before its nested bundles: osc.Bundle keeps the two
// in separate lists, so any interleaving on the wire is lost.
func flatten(msgs []controller.Message, pkt osc.Packet) []controller.Message {
	switch p := pkt.(type) {
	case *osc.Message:
		msgs = append(msgs, controller.Message{Address: p.Address, Arguments: p.Arguments})
	case *osc.Bundle:
		for _, m := range p.Messages {
			msgs = flatten(msgs, m)
		}
		for _, b := range p.Bundles {
			msgs = flatten(msgs, b)
		}
	}
	return msgs
}

func (r *Receiver) handleError(err error) error {
	if err == nil {
		return err
	}
	select {
	case r.errorChan <- err:
	default:
	}
	return err
}
