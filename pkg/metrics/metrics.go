package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const (
	OpsTotal     = "widgetdb_ops_total"
	ShiftedTotal = "widgetdb_shifted_total"
	Widgets      = "widgetdb_widgets"
	NextZ        = "widgetdb_next_z"
)

// Collector captures counters and gauges.
type Collector interface {
	IncCounter(name string, labels map[string]string, delta float64)
	SetGauge(name string, labels map[string]string, value float64)
}

type nop struct{}

func (nop) IncCounter(string, map[string]string, float64) {}
func (nop) SetGauge(string, map[string]string, float64)   {}

// Nop discards everything.
var Nop Collector = nop{}

// Registry is a Collector backed by a dedicated prometheus registry.
type Registry struct {
	reg      *prometheus.Registry
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
}

func NewRegistry() *Registry {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: OpsTotal,
		Help: "Store mutations by operation and result",
	}, []string{"op", "result"})

	shifted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: ShiftedTotal,
		Help: "Widgets moved up one slot by cascades",
	}, nil)

	widgets := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: Widgets,
		Help: "Widgets currently on the board",
	}, nil)

	nextZ := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: NextZ,
		Help: "Next z value handed out for inserts on top",
	}, nil)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		ops, shifted, widgets, nextZ,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		reg:      reg,
		counters: map[string]*prometheus.CounterVec{OpsTotal: ops, ShiftedTotal: shifted},
		gauges:   map[string]*prometheus.GaugeVec{Widgets: widgets, NextZ: nextZ},
	}
}

func (r *Registry) IncCounter(name string, labels map[string]string, delta float64) {
	vec, ok := r.counters[name]
	if !ok {
		slog.Warn("unknown counter", "name", name)
		return
	}
	c, err := vec.GetMetricWith(labels)
	if err != nil {
		slog.Warn("bad counter labels", "name", name, "error", err)
		return
	}
	c.Add(delta)
}

func (r *Registry) SetGauge(name string, labels map[string]string, value float64) {
	vec, ok := r.gauges[name]
	if !ok {
		slog.Warn("unknown gauge", "name", name)
		return
	}
	g, err := vec.GetMetricWith(labels)
	if err != nil {
		slog.Warn("bad gauge labels", "name", name, "error", err)
		return
	}
	g.Set(value)
}

// Value returns the current value of one series, 0 if it was never touched.
func (r *Registry) Value(name string, labels map[string]string) float64 {
	var m dto.Metric
	if vec, ok := r.counters[name]; ok {
		c, err := vec.GetMetricWith(labels)
		if err != nil || c.Write(&m) != nil {
			return 0
		}
		return m.GetCounter().GetValue()
	}
	if vec, ok := r.gauges[name]; ok {
		g, err := vec.GetMetricWith(labels)
		if err != nil || g.Write(&m) != nil {
			return 0
		}
		return m.GetGauge().GetValue()
	}
	return 0
}

// Handler serves the registry in the exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
