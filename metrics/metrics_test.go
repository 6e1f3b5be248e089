package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmacd/touchctl/controller"
	"github.com/jmacd/touchctl/touchosc"
)

func TestObserverCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewObserver(reg)
	require.NoError(t, err)

	c := touchosc.NewClient(nil, touchosc.WithObserver(obs))
	require.NoError(t, c.AddScalar("/vol", 0, 10, 5))
	require.NoError(t, c.AddArray("/grid", 2, 0, 1, 0))

	c.Dispatch(
		controller.Message{Address: "/vol", Arguments: []any{float32(1)}},
		controller.Message{Address: "/vol", Arguments: []any{float32(0)}},
		controller.Message{Address: "/vol"},
		controller.Message{Address: "/grid/1", Arguments: []any{float32(1)}},
		controller.Message{Address: "/grid/3", Arguments: []any{float32(1)}},
		controller.Message{Address: "/ping"},
	)

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.stored.WithLabelValues("scalar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.stored.WithLabelValues("array")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.rejected.WithLabelValues("scalar")))
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.ignored))

	_, err = NewObserver(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewObserver(reg)
	require.NoError(t, err)
	require.NoError(t, GaugeFunc(reg, "osc_dropped", "Dropped OSC messages.", func() float64 { return 3 }))

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `touchctl_messages_stored_total{kind="polar"} 0`)
	assert.Contains(t, string(body), "touchctl_osc_dropped 3")
}

func TestGaugeFuncDuplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, GaugeFunc(reg, "osc_dropped", "Dropped OSC messages.", func() float64 { return 0 }))

	err := GaugeFunc(reg, "osc_dropped", "Dropped OSC messages.", func() float64 { return 0 })
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}
