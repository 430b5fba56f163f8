package api

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/engine"
)

type engineStub struct {
	LoadMetricsHandler       func(ctx context.Context) (engine.LoadReport, error)
	AddSelectedMetricHandler func(ctx context.Context, metric common.Metric) error
}

func (stub *engineStub) LoadMetrics(ctx context.Context) (engine.LoadReport, error) {
	if stub.LoadMetricsHandler != nil {
		return stub.LoadMetricsHandler(ctx)
	}

	return engine.LoadReport{}, nil
}

func (stub *engineStub) AddSelectedMetric(ctx context.Context, metric common.Metric) error {
	if stub.AddSelectedMetricHandler != nil {
		return stub.AddSelectedMetricHandler(ctx, metric)
	}

	return nil
}

func (stub *engineStub) IsInterfaceNil() bool {
	return stub == nil
}
