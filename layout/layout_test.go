package layout

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmacd/touchctl/controller"
	"github.com/jmacd/touchctl/touchosc"
)

const example = `
controls:
  - {address: /show_points, kind: button, default: true}
  - {address: /invert, kind: radio, size: 2, default: 1}
  - {address: /grid, kind: grid, size: 2, min: 3, max: 24, default: 10}
  - {address: /rotate, kind: encoder, min: 0, max: 6.283185307179586}
  - {address: /offset, kind: radial, min: 0, max: 10, default: 0}
  - {address: /color_r, kind: fader, default: 1}
  - {address: /scale, kind: xy, min: 0.1, max: 3.0, default: 1.0}
  - address: /scale_rotate
    kind: radar
    radius: {min: 0.1, max: 1.0, default: 1.0}
    angle: {min: 0, max: 6.283185307179586, default: 0.7853981633974483}
`

func TestParseAndApply(t *testing.T) {
	l, err := Parse([]byte(example))
	require.NoError(t, err)
	require.Len(t, l.Controls, 8)

	c := touchosc.NewClient(nil)
	require.NoError(t, l.Apply(c))

	assert.True(t, c.Switch("/show_points"))
	assert.Equal(t, int32(1), c.Index("/invert"))
	assert.Equal(t, 2, c.Size("/invert"))
	assert.Equal(t, 10.0, c.Array("/grid/2"))
	assert.Equal(t, 0.0, c.Angle("/rotate"))
	assert.Equal(t, 0.0, c.Radial("/offset"))
	assert.Equal(t, 1.0, c.Scalar("/color_r"))
	assert.Equal(t, touchosc.Point{X: 1, Y: 1}, c.Point("/scale"))
	assert.Equal(t, touchosc.Point{X: 1, Y: math.Pi / 4}, c.Polar("/scale_rotate"))

	c.Dispatch(
		controller.Message{Address: "/grid/1", Arguments: []any{float32(1)}},
		controller.Message{Address: "/rotate", Arguments: []any{float32(0.5)}},
	)
	assert.Equal(t, 24.0, c.Array("/grid/1"))
	assert.InDelta(t, math.Pi, c.Angle("/rotate"), 1e-9)
}

func TestApplyDuplicate(t *testing.T) {
	l, err := Parse([]byte(`
controls:
  - {address: /a, kind: fader}
  - {address: /a, kind: button}
`))
	require.NoError(t, err)

	err = l.Apply(touchosc.NewClient(nil))
	require.ErrorIs(t, err, touchosc.ErrAddressInUse)
	assert.Contains(t, err.Error(), "control 1 (/a)")
}

func TestParseErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown kind":   `controls: [{address: /a, kind: slider}]`,
		"missing addr":   `controls: [{kind: fader}]`,
		"unknown field":  `controls: [{address: /a, kind: fader, colour: red}]`,
		"bad default":    `controls: [{address: /a, kind: fader, default: loud}]`,
		"bool default":   `controls: [{address: /a, kind: button, default: yes please}]`,
		"radio size":     `controls: [{address: /a, kind: radio}]`,
		"grid size":      `controls: [{address: /a, kind: grid, size: 0}]`,
		"radar axes":     `controls: [{address: /a, kind: radar}]`,
		"radio fraction": `controls: [{address: /a, kind: radio, size: 2, default: 0.5}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, l.Controls)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
