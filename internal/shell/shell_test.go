package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmacd/touchctl/controller"
	"github.com/jmacd/touchctl/touchosc"
)

func TestExecute(t *testing.T) {
	c := touchosc.NewClient(nil)
	require.NoError(t, c.AddScalar("/vol", 0, 10, 5))
	require.NoError(t, c.AddArray("/grid", 2, 0, 4, 1))

	var out bytes.Buffer
	run := func(cmd string, args ...string) (string, bool) {
		out.Reset()
		quit := execute(&out, c, cmd, args)
		return out.String(), quit
	}

	s, _ := run("list")
	assert.Contains(t, s, "/vol")
	assert.Contains(t, s, "scalar")
	assert.Contains(t, s, "[1 1]")

	c.Dispatch(controller.Message{Address: "/grid/2", Arguments: []any{float32(1)}})
	s, _ = run("get", "/grid/2")
	assert.Equal(t, "/grid/2 = 4\n", s)

	s, _ = run("get", "/nope")
	assert.Contains(t, s, "not a registered address")

	_, _ = run("reset", "all")
	s, _ = run("get", "/grid/2")
	assert.Equal(t, "/grid/2 = 1\n", s)

	s, _ = run("reset", "/nope")
	assert.Contains(t, s, "not a registered address")

	s, _ = run("frobnicate")
	assert.Contains(t, s, "unknown command")

	_, quit := run("quit")
	assert.True(t, quit)
}
