package discovery

import (
	"context"
	"fmt"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/query"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/sync/errgroup"
)

// DataSourcesQuery lists the prometheus data sources known to the query service
const DataSourcesQuery = "show datasources | where CONNECTOR_TYPE = 'PROMETHEUS' | fields DATASOURCE_NAME"

// DefaultMaxConcurrent is the number of data sources introspected at the same time when not configured
const DefaultMaxConcurrent = 4

var log = logger.GetOrCreate("discovery")

// ArgsRemoteDiscovery defines the remote discovery arguments
type ArgsRemoteDiscovery struct {
	QueryService  QueryService
	Notifier      Notifier
	MaxConcurrent int
}

type remoteDiscovery struct {
	queryService  QueryService
	notifier      Notifier
	maxConcurrent int
}

// NewRemoteDiscovery creates a new remote metric discovery instance
func NewRemoteDiscovery(args ArgsRemoteDiscovery) (*remoteDiscovery, error) {
	if check.IfNil(args.QueryService) {
		return nil, errNilQueryService
	}
	if check.IfNil(args.Notifier) {
		return nil, errNilNotifier
	}

	maxConcurrent := args.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}

	return &remoteDiscovery{
		queryService:  args.QueryService,
		notifier:      args.Notifier,
		maxConcurrent: maxConcurrent,
	}, nil
}

// ListDataSources returns the names of the remote data sources
func (rd *remoteDiscovery) ListDataSources(ctx context.Context) ([]string, error) {
	body, err := rd.queryService.Fetch(ctx, DataSourcesQuery, query.FormatViz)
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}

	names, err := parseDataSourceNames(body)
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}

	log.Debug("listed data sources", "num", len(names))

	return names, nil
}

// FetchAll introspects every data source concurrently. The results keep the order of the provided names.
// A failing source is notified and yields no metrics without affecting the others.
func (rd *remoteDiscovery) FetchAll(ctx context.Context, dataSources []string) []common.SourceResult {
	results := make([]common.SourceResult, len(dataSources))

	var group errgroup.Group
	group.SetLimit(rd.maxConcurrent)
	for idx, dataSource := range dataSources {
		idx, dataSource := idx, dataSource
		group.Go(func() error {
			metrics, err := rd.fetchDataSource(ctx, dataSource)
			if err != nil {
				log.Warn("data source discovery failed", "data source", dataSource, "error", err)
				rd.notifier.Notify(fmt.Sprintf("An error occurred retrieving metrics for data source %s", dataSource), common.SeverityDanger)
				metrics = make([]common.Metric, 0)
			}

			results[idx] = common.SourceResult{
				DataSource: dataSource,
				Metrics:    metrics,
				Err:        err,
			}

			return nil
		})
	}
	_ = group.Wait()

	return results
}

func (rd *remoteDiscovery) fetchDataSource(ctx context.Context, dataSource string) ([]common.Metric, error) {
	body, err := rd.queryService.Fetch(ctx, fmt.Sprintf("source = %s.information_schema.tables", dataSource), query.FormatJDBC)
	if err != nil {
		return nil, err
	}

	tables, err := parseTableRows(body)
	if err != nil {
		return nil, err
	}

	metrics := make([]common.Metric, 0, len(tables))
	for _, table := range tables {
		id := table.catalog + "." + table.name
		metrics = append(metrics, common.Metric{
			ID:                  id,
			Name:                id,
			Catalog:             dataSource,
			CatalogSourceName:   dataSource,
			CatalogTableName:    table.name,
			Index:               dataSource + "." + table.name,
			Aggregation:         common.DefaultAggregation,
			AttributesGroupBy:   make([]string, 0),
			AvailableAttributes: make([]string, 0),
			Type:                common.DefaultVisualizationType,
			SubType:             common.RemoteMetricSubType,
		})
	}

	log.Debug("discovered data source metrics", "data source", dataSource, "num", len(metrics))

	return metrics, nil
}

// FetchColumns returns the attribute columns of the provided index, skipping the '@' prefixed ones
func (rd *remoteDiscovery) FetchColumns(ctx context.Context, index string) ([]string, error) {
	body, err := rd.queryService.Fetch(ctx, fmt.Sprintf("describe %s | fields COLUMN_NAME", index), query.FormatJDBC)
	if err != nil {
		return nil, err
	}

	return parseColumnNames(body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (rd *remoteDiscovery) IsInterfaceNil() bool {
	return rd == nil
}
