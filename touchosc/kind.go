package touchosc

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a registered control.
type Kind int

const (
	KindSwitch Kind = iota // toggle or momentary button
	KindScalar             // fader
	KindAngle              // encoder
	KindRadial             // bounded radial
	KindPoint              // XY pad
	KindPolar              // radar: (radius, angle)
	KindIndex              // radio group
	KindArray              // grid of faders addressed as base/N

	numKinds
)

var kindNames = [numKinds]string{
	KindSwitch: "switch",
	KindScalar: "scalar",
	KindAngle:  "angle",
	KindRadial: "radial",
	KindPoint:  "point",
	KindPolar:  "polar",
	KindIndex:  "index",
	KindArray:  "array",
}

// TouchOSC control names for each kind.
var touchOSCNames = map[string]Kind{
	"button":  KindSwitch,
	"toggle":  KindSwitch,
	"fader":   KindScalar,
	"encoder": KindAngle,
	"xy":      KindPoint,
	"radar":   KindPolar,
	"radio":   KindIndex,
	"grid":    KindArray,
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts a kind name or the equivalent TouchOSC control
// name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	if k, ok := touchOSCNames[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("touchosc: unknown control kind %q", s)
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		ks = append(ks, k)
	}
	return ks
}
