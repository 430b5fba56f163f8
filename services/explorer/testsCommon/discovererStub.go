package testsCommon

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// DiscovererStub -
type DiscovererStub struct {
	ListDataSourcesHandler func(ctx context.Context) ([]string, error)
	FetchAllHandler        func(ctx context.Context, dataSources []string) []common.SourceResult
	FetchColumnsHandler    func(ctx context.Context, index string) ([]string, error)
}

// ListDataSources -
func (stub *DiscovererStub) ListDataSources(ctx context.Context) ([]string, error) {
	if stub.ListDataSourcesHandler != nil {
		return stub.ListDataSourcesHandler(ctx)
	}

	return make([]string, 0), nil
}

// FetchAll -
func (stub *DiscovererStub) FetchAll(ctx context.Context, dataSources []string) []common.SourceResult {
	if stub.FetchAllHandler != nil {
		return stub.FetchAllHandler(ctx, dataSources)
	}

	return make([]common.SourceResult, 0)
}

// FetchColumns -
func (stub *DiscovererStub) FetchColumns(ctx context.Context, index string) ([]string, error) {
	if stub.FetchColumnsHandler != nil {
		return stub.FetchColumnsHandler(ctx, index)
	}

	return make([]string, 0), nil
}

// IsInterfaceNil -
func (stub *DiscovererStub) IsInterfaceNil() bool {
	return stub == nil
}
