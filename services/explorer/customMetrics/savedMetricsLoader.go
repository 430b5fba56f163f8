package customMetrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

// RecentlyCreatedThreshold is the maximum age of a custom metric still flagged as recently created
const RecentlyCreatedThreshold = 12 * time.Hour

var log = logger.GetOrCreate("customMetrics")

// ArgsSavedMetricsLoader defines the saved metrics loader arguments
type ArgsSavedMetricsLoader struct {
	SavedObjects SavedObjects
	NowFunc      func() time.Time
}

type savedMetricsLoader struct {
	savedObjects SavedObjects
	nowFunc      func() time.Time
}

// NewSavedMetricsLoader creates a loader for the custom metrics held by the persisted-object service
func NewSavedMetricsLoader(args ArgsSavedMetricsLoader) (*savedMetricsLoader, error) {
	if check.IfNil(args.SavedObjects) {
		return nil, errors.New("nil saved objects service")
	}

	nowFunc := args.NowFunc
	if nowFunc == nil {
		nowFunc = time.Now
	}

	return &savedMetricsLoader{
		savedObjects: args.SavedObjects,
		nowFunc:      nowFunc,
	}, nil
}

// FetchCustomMetrics returns every saved visualization tagged as a custom metric
func (loader *savedMetricsLoader) FetchCustomMetrics(ctx context.Context) ([]common.Metric, error) {
	objects, err := loader.savedObjects.GetBulk(ctx, common.SavedVisualizationType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch custom metrics: %w", err)
	}

	now := loader.nowFunc()
	metrics := make([]common.Metric, 0, len(objects))
	for _, obj := range objects {
		if obj.SavedVisualization.SubType != common.CustomMetricSubType {
			continue
		}

		age := now.Sub(time.UnixMilli(obj.CreatedTimeMs))
		metrics = append(metrics, common.Metric{
			ID:                   obj.ObjectID,
			SavedVisualizationID: obj.ObjectID,
			Query:                obj.SavedVisualization.Query,
			Name:                 obj.SavedVisualization.Name,
			Catalog:              common.CustomMetricsSource,
			Type:                 obj.SavedVisualization.Type,
			SubType:              common.CustomMetricSubType,
			AttributesGroupBy:    make([]string, 0),
			AvailableAttributes:  make([]string, 0),
			RecentlyCreated:      age <= RecentlyCreatedThreshold,
		})
	}

	log.Debug("fetched custom metrics", "saved objects", len(objects), "custom metrics", len(metrics))

	return metrics, nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (loader *savedMetricsLoader) IsInterfaceNil() bool {
	return loader == nil
}
