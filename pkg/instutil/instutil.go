package instutil

import (
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/retra-de/retra-go-sdk/pkg/cmdutil"
)

var namespace string

func init() {
	namespace = sanitizeNamespace(cmdutil.Name)
}

// sanitizeNamespace converts the application name into a valid Prometheus
// namespace. Prometheus only allows word characters in metric names.
func sanitizeNamespace(name string) string {
	re := regexp.MustCompile("[^a-zA-Z0-9]+")
	return strings.ToLower(re.ReplaceAllString(name, ""))
}

// NewCounter registers a counter in the application namespace. The namespace
// derives from cmdutil.Name, so metrics of different services do not collide.
func NewCounter(name string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
	})
}

func NewCounterVec(name string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
	}, labels)
}

func NewGauge(name string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
	})
}

func NewGaugeVec(name string, labels ...string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
	}, labels)
}

func NewHistogram(name string, buckets ...float64) prometheus.Histogram {
	return promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Buckets:   buckets,
	})
}

// BucketScale multiplies all values with the factor. Useful for deriving
// histogram buckets from a base unit.
func BucketScale(factor float64, values ...float64) []float64 {
	for i := range values {
		values[i] = values[i] * factor
	}
	return values
}
