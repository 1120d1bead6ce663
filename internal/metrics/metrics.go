package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Shell metrics
var (
	// ShellRenders counts composed shells served, by output format (html, json)
	ShellRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gac_shell_renders_total",
			Help: "Total shells rendered by output format",
		},
		[]string{"format"},
	)

	// ShellSignalSettled counts the phase each provider signal was in when a shell was rendered
	ShellSignalSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gac_shell_signal_settled_total",
			Help: "Provider signal phases observed at render time",
		},
		[]string{"signal", "phase"},
	)
)

// Work order query metrics
var (
	// WorkOrderQueryLoads counts list reads by the layer that answered them (memory, redis, postgres)
	WorkOrderQueryLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gac_workorder_query_loads_total",
			Help: "Work order list reads by answering layer",
		},
		[]string{"source"},
	)

	WorkOrderQueryInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gac_workorder_query_invalidations_total",
			Help: "Total work order list invalidations",
		},
	)
)

// Write buffer metrics
var (
	// BufferedOperations counts work order writes parked in the offline buffer
	BufferedOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gac_buffer_operations_total",
			Help: "Work order operations buffered while storage was unavailable",
		},
		[]string{"operation"},
	)

	BufferSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gac_buffer_size_current",
			Help: "Operations currently waiting in the write buffer",
		},
	)
)
