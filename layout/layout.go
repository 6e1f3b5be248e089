// Package layout loads a declarative list of controls from YAML and
// registers them with a touchosc.Client.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmacd/touchctl/touchosc"
)

// Layout is the document root.
type Layout struct {
	Controls []Control `yaml:"controls"`
}

// Control describes one registration. Kind accepts the registry kind
// names and TouchOSC control names (fader, button, grid, ...). Min
// and Max default to 0 and 1.
type Control struct {
	Address string   `yaml:"address"`
	Kind    string   `yaml:"kind"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
	Default any      `yaml:"default,omitempty"`
	Size    int      `yaml:"size,omitempty"`
	Radius  *Axis    `yaml:"radius,omitempty"`
	Angle   *Axis    `yaml:"angle,omitempty"`
}

// Axis is one range of a polar control.
type Axis struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
}

// Load reads a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return Parse(data)
}

// Parse decodes a layout document. Unknown fields are rejected.
func Parse(data []byte) (*Layout, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var l Layout
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("layout: parse: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks each control's kind and shape without registering
// anything.
func (l *Layout) Validate() error {
	for i, ctl := range l.Controls {
		if _, err := ctl.register(nil); err != nil {
			return fmt.Errorf("layout: control %d (%s): %w", i, ctl.Address, err)
		}
	}
	return nil
}

// Apply registers every control with c in document order and stops at
// the first error.
func (l *Layout) Apply(c *touchosc.Client) error {
	for i, ctl := range l.Controls {
		reg, err := ctl.register(c)
		if err != nil {
			return fmt.Errorf("layout: control %d (%s): %w", i, ctl.Address, err)
		}
		if err := reg(); err != nil {
			return fmt.Errorf("layout: control %d (%s): %w", i, ctl.Address, err)
		}
	}
	return nil
}

// register checks ctl and returns the registration call for it. c may
// be nil when only validating.
func (ctl Control) register(c *touchosc.Client) (func() error, error) {
	if ctl.Address == "" {
		return nil, errors.New("missing address")
	}
	kind, err := touchosc.ParseKind(ctl.Kind)
	if err != nil {
		return nil, err
	}
	min, max := 0.0, 1.0
	if ctl.Min != nil {
		min = *ctl.Min
	}
	if ctl.Max != nil {
		max = *ctl.Max
	}

	switch kind {
	case touchosc.KindSwitch:
		def, err := toBool(ctl.Default)
		if err != nil {
			return nil, err
		}
		return func() error { return c.AddSwitch(ctl.Address, def) }, nil

	case touchosc.KindScalar, touchosc.KindAngle, touchosc.KindRadial, touchosc.KindPoint:
		def, err := toFloat(ctl.Default, min)
		if err != nil {
			return nil, err
		}
		add := map[touchosc.Kind]func(string, float64, float64, float64) error{
			touchosc.KindScalar: c.AddScalar,
			touchosc.KindAngle:  c.AddAngle,
			touchosc.KindRadial: c.AddRadial,
			touchosc.KindPoint:  c.AddPoint,
		}[kind]
		return func() error { return add(ctl.Address, min, max, def) }, nil

	case touchosc.KindPolar:
		if ctl.Radius == nil || ctl.Angle == nil {
			return nil, errors.New("polar control needs radius and angle")
		}
		r, a := *ctl.Radius, *ctl.Angle
		return func() error {
			return c.AddPolar(ctl.Address,
				touchosc.Bounds{Min: r.Min, Max: r.Max},
				touchosc.Bounds{Min: a.Min, Max: a.Max},
				touchosc.Point{X: r.Default, Y: a.Default})
		}, nil

	case touchosc.KindIndex:
		if ctl.Size < 1 {
			return nil, touchosc.ErrInvalidSize
		}
		def, err := toInt(ctl.Default)
		if err != nil {
			return nil, err
		}
		return func() error { return c.AddIndex(ctl.Address, ctl.Size, def) }, nil

	case touchosc.KindArray:
		if ctl.Size < 1 {
			return nil, touchosc.ErrInvalidSize
		}
		def, err := toFloat(ctl.Default, min)
		if err != nil {
			return nil, err
		}
		return func() error { return c.AddArray(ctl.Address, ctl.Size, min, max, def) }, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

func toBool(v any) (bool, error) {
	switch d := v.(type) {
	case nil:
		return false, nil
	case bool:
		return d, nil
	case int:
		return d > 0, nil
	case float64:
		return d > 0, nil
	}
	return false, fmt.Errorf("default %v is not a boolean", v)
}

func toFloat(v any, fallback float64) (float64, error) {
	switch d := v.(type) {
	case nil:
		return fallback, nil
	case int:
		return float64(d), nil
	case float64:
		return d, nil
	}
	return 0, fmt.Errorf("default %v is not a number", v)
}

func toInt(v any) (int32, error) {
	switch d := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int32(d), nil
	}
	return 0, fmt.Errorf("default %v is not an integer", v)
}
