// Package controller holds the types shared by control-surface
// transports and the control registry.
package controller

import "fmt"

// Message is one inbound control message: an address and its
// ordered arguments. Transports deliver float32 for normalized
// values and int32 for indexes; anything else is passed through.
type Message struct {
	Address   string
	Arguments []any
}

// Source is a transport that buffers inbound messages. Drain returns
// everything buffered so far, in arrival order, and never blocks.
type Source interface {
	Drain() []Message
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() []Message

func (f SourceFunc) Drain() []Message {
	return f()
}

// Value is a 7-bit MIDI data value.
type Value uint8

func (v Value) Float() float64 {
	switch {
	case v == 0:
		return 0
	case v == 64:
		return 0.5
	case v >= 127:
		return 1
	case v < 64:
		return float64(v) / 128
	default:
		return float64(v-1) / 126
	}
}

// Remap maps x linearly from [inMin, inMax] onto [outMin, outMax].
// Values outside the input range extrapolate. The endpoints map
// exactly: inMin yields outMin and inMax yields outMax.
func Remap(x, inMin, inMax, outMin, outMax float64) float64 {
	t := (x - inMin) / (inMax - inMin)
	return outMin*(1-t) + outMax*t
}

func (m Message) String() string {
	return fmt.Sprintf("%s %v", m.Address, m.Arguments)
}

// Merge returns a Source that drains each of srcs in order.
func Merge(srcs ...Source) Source {
	return SourceFunc(func() []Message {
		var msgs []Message
		for _, s := range srcs {
			msgs = append(msgs, s.Drain()...)
		}
		return msgs
	})
}
