package testsCommon

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// CustomMetricsLoaderStub -
type CustomMetricsLoaderStub struct {
	FetchCustomMetricsHandler func(ctx context.Context) ([]common.Metric, error)
}

// FetchCustomMetrics -
func (stub *CustomMetricsLoaderStub) FetchCustomMetrics(ctx context.Context) ([]common.Metric, error) {
	if stub.FetchCustomMetricsHandler != nil {
		return stub.FetchCustomMetricsHandler(ctx)
	}

	return make([]common.Metric, 0), nil
}

// IsInterfaceNil -
func (stub *CustomMetricsLoaderStub) IsInterfaceNil() bool {
	return stub == nil
}
