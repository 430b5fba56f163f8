package api

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/engine"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/store"
)

// MetricsStore defines the metrics state operations exposed over HTTP
type MetricsStore interface {
	Snapshot() common.MetricsState
	DeSelectMetric(metric common.Metric) error
	SetSearch(text string)
	UpdateMetricsLayout(entries []common.LayoutEntry) error
	SetMetricSelectedAttributes(visualizationID string, attributesGroupBy []string) error
	UpdateMetricQuery(id string, update store.MetricQueryUpdate) error
	MoveMetric(from int, to int) error
	SetDateSpan(span common.DateSpan) error
	Refresh() uint64
	IsInterfaceNil() bool
}

// Engine defines the orchestration operations exposed over HTTP
type Engine interface {
	// LoadMetrics reloads the whole catalog
	LoadMetrics(ctx context.Context) (engine.LoadReport, error)
	// AddSelectedMetric resolves the metric attributes, when applicable, and selects it
	AddSelectedMetric(ctx context.Context, metric common.Metric) error
	IsInterfaceNil() bool
}

// SavedObjects defines the write side of the persisted-object service
type SavedObjects interface {
	SaveVisualization(ctx context.Context, visualization common.SavedVisualization, createdTimeMs int64) (string, error)
	DeleteObject(ctx context.Context, objectID string) error
	IsInterfaceNil() bool
}

// NotificationsProvider returns the recent user notifications
type NotificationsProvider interface {
	Recent() []common.Notification
	IsInterfaceNil() bool
}
