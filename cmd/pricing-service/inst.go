package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/retra-de/retra-go-sdk/pkg/instutil"
)

// The metric names get stored in constants, because they are our only
// reference in the code and literal strings are prone to errors.
const (
	instRequestsMetric     = "requests_total"
	instPriceUpdatesMetric = "price_updates_total"
	instVacuumRunsMetric   = "vacuum_runs_total"
)

// Instrumentation bundles the application metrics, so handlers and workers
// get them injected as one dependency.
type Instrumentation struct {
	Requests     *prometheus.CounterVec
	PriceUpdates prometheus.Counter
	VacuumRuns   prometheus.Counter
}

func NewInstrumentation() *Instrumentation {
	return &Instrumentation{
		Requests:     instutil.NewCounterVec(instRequestsMetric, "endpoint"),
		PriceUpdates: instutil.NewCounter(instPriceUpdatesMetric),
		VacuumRuns:   instutil.NewCounter(instVacuumRunsMetric),
	}
}
