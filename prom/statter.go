// Package prom implements tutorial.Statter on top of Prometheus.
package prom

import (
	"strings"
	"sync"
	"time"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/prometheus/client_golang/prometheus"
)

var _ tutorial.Statter = &Statter{}

// Statter creates one collector per metric name the first time the name is
// used and registers it on its Registerer. Tags are ignored.
type Statter struct {
	reg       prometheus.Registerer
	namespace string

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// NewStatter returns a Statter registering its collectors on reg under
// namespace.
func NewStatter(reg prometheus.Registerer, namespace string) *Statter {
	return &Statter{
		reg:        reg,
		namespace:  namespace,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// metricName maps a statsd style name like "step.upload" onto a valid
// Prometheus name.
func metricName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}

func (s *Statter) counter(name string) prometheus.Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[name]
	if !ok {
		c = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: s.namespace,
			Name:      metricName(name) + "_total",
			Help:      "Count of " + name,
		})
		c = register(s.reg, c).(prometheus.Counter)
		s.counters[name] = c
	}
	return c
}

func (s *Statter) gauge(name string) prometheus.Gauge {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gauges[name]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: s.namespace,
			Name:      metricName(name),
			Help:      "Value of " + name,
		})
		g = register(s.reg, g).(prometheus.Gauge)
		s.gauges[name] = g
	}
	return g
}

func (s *Statter) histogram(name, suffix string) prometheus.Histogram {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := name + suffix
	h, ok := s.histograms[key]
	if !ok {
		h = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: s.namespace,
			Name:      metricName(name) + suffix,
			Help:      "Distribution of " + name,
			Buckets:   prometheus.DefBuckets,
		})
		h = register(s.reg, h).(prometheus.Histogram)
		s.histograms[key] = h
	}
	return h
}

// register registers c, returning the collector already registered under
// the same description if there is one.
func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		// Only reachable with clashing names of different metric types.
		panic(err)
	}
	return c
}

func (s *Statter) Count(name string, value int64, rate float64, tags ...string) {
	s.counter(name).Add(float64(value))
}

func (s *Statter) Gauge(name string, value float64, rate float64, tags ...string) {
	s.gauge(name).Set(value)
}

func (s *Statter) Histogram(name string, value float64, rate float64, tags ...string) {
	s.histogram(name, "").Observe(value)
}

// Set is not supported by Prometheus and is dropped.
func (s *Statter) Set(name string, value string, rate float64, tags ...string) {}

func (s *Statter) Timing(name string, value time.Duration, rate float64, tags ...string) {
	s.histogram(name, "_seconds").Observe(value.Seconds())
}
