package touchosc

import (
	"github.com/jmacd/touchctl/controller"
)

// Bounds is the output interval a normalized payload is mapped onto.
type Bounds struct {
	Min, Max float64
}

func (b Bounds) remap(x float64) float64 {
	return controller.Remap(x, 0, 1, b.Min, b.Max)
}

// Point is a 2D value. Polar controls store (radius, angle) as (X, Y).
type Point struct {
	X, Y float64
}

// store is the per-address state owned by the registry. decode
// applies a message payload and reports whether it had the expected
// shape; on false the stored value is untouched.
type store interface {
	kind() Kind
	decode(args []any) bool
	current() any
	reset()
}

type switchStore struct {
	state   bool
	initial float64
}

func newSwitchStore(def bool) *switchStore {
	s := &switchStore{}
	if def {
		s.initial = 1
	}
	s.reset()
	return s
}

func (s *switchStore) kind() Kind { return KindSwitch }

func (s *switchStore) decode(args []any) bool {
	x, ok := oneFloat(args)
	if !ok {
		return false
	}
	s.state = x > 0
	return true
}

func (s *switchStore) current() any { return s.state }

func (s *switchStore) reset() { s.state = s.initial > 0 }

// scalarStore serves Scalar, Angle and Radial controls and the
// elements of an array.
type scalarStore struct {
	k      Kind
	bounds Bounds
	value  float64
	def    float64
}

func newScalarStore(k Kind, b Bounds, def float64) *scalarStore {
	return &scalarStore{k: k, bounds: b, value: def, def: def}
}

func (s *scalarStore) kind() Kind { return s.k }

func (s *scalarStore) decode(args []any) bool {
	x, ok := oneFloat(args)
	if !ok {
		return false
	}
	s.value = s.bounds.remap(x)
	return true
}

func (s *scalarStore) current() any { return s.value }

func (s *scalarStore) reset() { s.value = s.def }

type pointStore struct {
	bounds Bounds
	value  Point
	def    Point
}

func newPointStore(b Bounds, def float64) *pointStore {
	p := Point{X: def, Y: def}
	return &pointStore{bounds: b, value: p, def: p}
}

func (s *pointStore) kind() Kind { return KindPoint }

func (s *pointStore) decode(args []any) bool {
	x, y, ok := twoFloats(args)
	if !ok {
		return false
	}
	s.value = Point{X: s.bounds.remap(x), Y: s.bounds.remap(y)}
	return true
}

func (s *pointStore) current() any { return s.value }

func (s *pointStore) reset() { s.value = s.def }

type polarStore struct {
	radius Bounds
	angle  Bounds
	value  Point
	def    Point
}

func newPolarStore(radius, angle Bounds, def Point) *polarStore {
	return &polarStore{radius: radius, angle: angle, value: def, def: def}
}

func (s *polarStore) kind() Kind { return KindPolar }

func (s *polarStore) decode(args []any) bool {
	r, a, ok := twoFloats(args)
	if !ok {
		return false
	}
	s.value = Point{X: s.radius.remap(r), Y: s.angle.remap(a)}
	return true
}

func (s *polarStore) current() any { return s.value }

func (s *polarStore) reset() { s.value = s.def }

// indexStore keeps a radio selection verbatim. By convention the
// value lies in [0, size) but inbound values are not checked.
type indexStore struct {
	size  int
	value int32
	def   int32
}

func newIndexStore(size int, def int32) *indexStore {
	return &indexStore{size: size, value: def, def: def}
}

func (s *indexStore) kind() Kind { return KindIndex }

func (s *indexStore) decode(args []any) bool {
	if len(args) != 1 {
		return false
	}
	v, ok := args[0].(int32)
	if !ok {
		return false
	}
	s.value = v
	return true
}

func (s *indexStore) current() any { return s.value }

func (s *indexStore) reset() { s.value = s.def }

// arrayStore owns one scalar element per position. Elements are
// numbered from 1.
type arrayStore struct {
	elems []*scalarStore
}

func newArrayStore(size int, b Bounds, def float64) *arrayStore {
	a := &arrayStore{elems: make([]*scalarStore, size)}
	for i := range a.elems {
		a.elems[i] = newScalarStore(KindScalar, b, def)
	}
	return a
}

func (s *arrayStore) kind() Kind { return KindArray }

// decode rejects payloads sent to the base address itself.
func (s *arrayStore) decode([]any) bool { return false }

func (s *arrayStore) element(n int) (*scalarStore, bool) {
	if n < 1 || n > len(s.elems) {
		return nil, false
	}
	return s.elems[n-1], true
}

func (s *arrayStore) decodeAt(n int, args []any) bool {
	e, ok := s.element(n)
	if !ok {
		return false
	}
	return e.decode(args)
}

func (s *arrayStore) current() any {
	vs := make([]float64, len(s.elems))
	for i, e := range s.elems {
		vs[i] = e.value
	}
	return vs
}

func (s *arrayStore) reset() {
	for _, e := range s.elems {
		e.reset()
	}
}

func oneFloat(args []any) (float64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	x, ok := args[0].(float32)
	return float64(x), ok
}

func twoFloats(args []any) (float64, float64, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	x, ok1 := args[0].(float32)
	y, ok2 := args[1].(float32)
	return float64(x), float64(y), ok1 && ok2
}
