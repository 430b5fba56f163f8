package engine

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/store"
)

// MetricsStore defines the store operations driven by the engine
type MetricsStore interface {
	BeginLoad() uint64
	CommitDataSources(generation uint64, dataSources []string) bool
	CommitMetrics(generation uint64, metrics []common.Metric) (bool, error)
	UpdateMetricQuery(id string, update store.MetricQueryUpdate) error
	SelectMetric(metric common.Metric) error
	IsInterfaceNil() bool
}

// Discoverer defines the remote metric discovery operations
type Discoverer interface {
	// ListDataSources returns the remote data source names
	ListDataSources(ctx context.Context) ([]string, error)
	// FetchAll introspects every data source. Failing sources are reported in their result and already notified.
	FetchAll(ctx context.Context, dataSources []string) []common.SourceResult
	// FetchColumns returns the attribute columns of a remote metric index
	FetchColumns(ctx context.Context, index string) ([]string, error)
	IsInterfaceNil() bool
}

// CustomMetricsLoader defines the custom metrics fetch operation
type CustomMetricsLoader interface {
	FetchCustomMetrics(ctx context.Context) ([]common.Metric, error)
	IsInterfaceNil() bool
}

// Notifier defines the user notification sink
type Notifier interface {
	Notify(message string, severity common.Severity)
	IsInterfaceNil() bool
}
