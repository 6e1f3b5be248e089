// Package metrics exports dispatch outcomes as Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmacd/touchctl/touchosc"
)

const Namespace = "touchctl"

// Observer implements touchosc.Observer. Counters are labeled by
// control kind; addresses are not used as labels because unmatched
// traffic can carry arbitrary ones.
type Observer struct {
	stored   *prometheus.CounterVec
	rejected *prometheus.CounterVec
	ignored  prometheus.Counter
}

var _ touchosc.Observer = (*Observer)(nil)

// NewObserver creates the counters and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		stored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_stored_total",
			Help:      "Messages that updated a registered control.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_rejected_total",
			Help:      "Messages for a registered control with unexpected arguments.",
		}, []string{"kind"}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_ignored_total",
			Help:      "Messages that matched no registered address.",
		}),
	}
	for _, c := range []prometheus.Collector{o.stored, o.rejected, o.ignored} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	// Expose every kind from the start.
	for _, k := range touchosc.Kinds() {
		o.stored.WithLabelValues(k.String())
		o.rejected.WithLabelValues(k.String())
	}
	return o, nil
}

func (o *Observer) Stored(_ string, k touchosc.Kind) {
	o.stored.WithLabelValues(k.String()).Inc()
}

func (o *Observer) Rejected(_ string, k touchosc.Kind) {
	o.rejected.WithLabelValues(k.String()).Inc()
}

func (o *Observer) Ignored(string) {
	o.ignored.Inc()
}

// GaugeFunc registers a gauge read from f at scrape time, used for
// transport counters such as dropped messages.
func GaugeFunc(reg prometheus.Registerer, name, help string, f func() float64) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, f))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
