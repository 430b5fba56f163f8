package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/store"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/sync/errgroup"
)

// DefaultLoadTimeout bounds a periodic catalog load when no timeout is configured
const DefaultLoadTimeout = 30 * time.Second

const (
	dataSourcesFailedMessage   = "An error occurred retrieving the data sources"
	customMetricsFailedMessage = "An error occurred retrieving the custom metrics"
	attributesFailedMessage    = "An error occurred retrieving attributes for metric %s"
)

var log = logger.GetOrCreate("engine")

// ArgsExplorerEngine defines the explorer engine arguments
type ArgsExplorerEngine struct {
	Store               MetricsStore
	Discoverer          Discoverer
	CustomMetricsLoader CustomMetricsLoader
	Notifier            Notifier
	LoadTimeout         time.Duration
}

// LoadReport describes the outcome of a catalog load
type LoadReport struct {
	Generation        uint64
	NumMetrics        int
	FailedDataSources []string
	Failures          error
}

// explorerEngine orchestrates the catalog loads and the attribute resolution of selected metrics
type explorerEngine struct {
	store               MetricsStore
	discoverer          Discoverer
	customMetricsLoader CustomMetricsLoader
	notifier            Notifier
	loadTimeout         time.Duration
}

// NewExplorerEngine creates a new engine instance
func NewExplorerEngine(args ArgsExplorerEngine) (*explorerEngine, error) {
	if check.IfNil(args.Store) {
		return nil, errNilStore
	}
	if check.IfNil(args.Discoverer) {
		return nil, errNilDiscoverer
	}
	if check.IfNil(args.CustomMetricsLoader) {
		return nil, errNilCustomMetricsLoader
	}
	if check.IfNil(args.Notifier) {
		return nil, errNilNotifier
	}

	loadTimeout := args.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = DefaultLoadTimeout
	}

	return &explorerEngine{
		store:               args.Store,
		discoverer:          args.Discoverer,
		customMetricsLoader: args.CustomMetricsLoader,
		notifier:            args.Notifier,
		loadTimeout:         loadTimeout,
	}, nil
}

// LoadMetrics fetches the custom metrics and the remote data sources metrics and replaces the catalog.
// Failing sources are notified and left out. If another load started meanwhile, the result is
// discarded and ErrStaleLoad is returned. A cancelled or expired context commits nothing.
func (e *explorerEngine) LoadMetrics(ctx context.Context) (LoadReport, error) {
	report := LoadReport{
		Generation:        e.store.BeginLoad(),
		FailedDataSources: make([]string, 0),
	}
	var failures *multierror.Error

	var customMetrics []common.Metric
	var customErr error
	var group errgroup.Group
	group.Go(func() error {
		customMetrics, customErr = e.customMetricsLoader.FetchCustomMetrics(ctx)
		return nil
	})

	dataSources, err := e.discoverer.ListDataSources(ctx)
	if ctx.Err() != nil {
		_ = group.Wait()
		return report, abortedLoadError(ctx, report.Generation)
	}
	if err != nil {
		log.Warn("failed to list the data sources, continuing with the custom metrics only", "error", err)
		e.notifier.Notify(dataSourcesFailedMessage, common.SeverityDanger)
		failures = multierror.Append(failures, err)
		dataSources = make([]string, 0)
	}

	if !e.store.CommitDataSources(report.Generation, dataSources) {
		_ = group.Wait()
		return report, fmt.Errorf("%w, generation %d", ErrStaleLoad, report.Generation)
	}

	results := e.discoverer.FetchAll(ctx, dataSources)
	_ = group.Wait()

	allMetrics := make([]common.Metric, 0)
	if customErr != nil {
		log.Warn("failed to fetch the custom metrics", "error", customErr)
		e.notifier.Notify(customMetricsFailedMessage, common.SeverityDanger)
		failures = multierror.Append(failures, customErr)
	} else {
		allMetrics = append(allMetrics, customMetrics...)
	}

	for _, result := range results {
		if result.Err != nil {
			report.FailedDataSources = append(report.FailedDataSources, result.DataSource)
			failures = multierror.Append(failures, fmt.Errorf("data source %s: %w", result.DataSource, result.Err))
			continue
		}

		allMetrics = append(allMetrics, result.Metrics...)
	}

	if ctx.Err() != nil {
		return report, abortedLoadError(ctx, report.Generation)
	}

	allMetrics = dropDuplicates(allMetrics)
	report.NumMetrics = len(allMetrics)
	report.Failures = failures.ErrorOrNil()

	committed, err := e.store.CommitMetrics(report.Generation, allMetrics)
	if err != nil {
		return report, err
	}
	if !committed {
		return report, fmt.Errorf("%w, generation %d", ErrStaleLoad, report.Generation)
	}

	return report, nil
}

// AddSelectedMetric resolves the available attributes of a remote metric and selects it.
// An attribute resolution failure is notified and does not prevent the selection.
func (e *explorerEngine) AddSelectedMetric(ctx context.Context, metric common.Metric) error {
	if metric.SubType == common.RemoteMetricSubType {
		e.resolveAttributes(ctx, metric)
	}

	return e.store.SelectMetric(metric)
}

func (e *explorerEngine) resolveAttributes(ctx context.Context, metric common.Metric) {
	columns, err := e.discoverer.FetchColumns(ctx, metric.Index)
	if err == nil {
		err = e.store.UpdateMetricQuery(metric.ID, store.MetricQueryUpdate{
			AvailableAttributes: columns,
		})
	}
	if err != nil {
		log.Warn("failed to retrieve the metric attributes", "metric", metric.ID, "index", metric.Index, "error", err)
		e.notifier.Notify(fmt.Sprintf(attributesFailedMessage, metric.ID), common.SeverityDanger)
	}
}

// Process reloads the catalog, bounded by the configured load timeout
func (e *explorerEngine) Process(ctx context.Context) {
	log.Debug("waking up to reload the metrics catalog")

	loadCtx, cancel := context.WithTimeout(ctx, e.loadTimeout)
	defer cancel()

	report, err := e.LoadMetrics(loadCtx)
	if err != nil {
		log.Warn("metrics catalog reload failed", "generation", report.Generation, "error", err)
		return
	}

	log.Debug("metrics catalog reloaded",
		"generation", report.Generation,
		"num metrics", report.NumMetrics,
		"failed data sources", len(report.FailedDataSources))
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *explorerEngine) IsInterfaceNil() bool {
	return e == nil
}

func dropDuplicates(metrics []common.Metric) []common.Metric {
	seen := make(map[string]struct{}, len(metrics))
	out := make([]common.Metric, 0, len(metrics))
	for _, m := range metrics {
		if _, found := seen[m.ID]; found {
			log.Warn("duplicated metric id, keeping the first occurrence", "id", m.ID, "catalog", m.Catalog)
			continue
		}

		seen[m.ID] = struct{}{}
		out = append(out, m)
	}

	return out
}

func abortedLoadError(ctx context.Context, generation uint64) error {
	log.Debug("load aborted, nothing committed", "generation", generation, "error", ctx.Err())
	return fmt.Errorf("%w, generation %d", ctx.Err(), generation)
}
