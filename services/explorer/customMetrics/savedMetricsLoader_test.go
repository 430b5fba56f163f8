package customMetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func createMockArgs(objects []common.SavedObject) ArgsSavedMetricsLoader {
	return ArgsSavedMetricsLoader{
		SavedObjects: &testsCommon.SavedObjectsStub{
			GetBulkHandler: func(ctx context.Context, objectType string) ([]common.SavedObject, error) {
				return objects, nil
			},
		},
		NowFunc: func() time.Time {
			return referenceNow
		},
	}
}

func customObject(id string, age time.Duration) common.SavedObject {
	return common.SavedObject{
		ObjectID:      id,
		ObjectType:    common.SavedVisualizationType,
		CreatedTimeMs: referenceNow.Add(-age).UnixMilli(),
		SavedVisualization: common.SavedVisualization{
			Name:    "metric " + id,
			Query:   "source = prom.cpu",
			Type:    "line",
			SubType: common.CustomMetricSubType,
		},
	}
}

func TestNewSavedMetricsLoader(t *testing.T) {
	t.Parallel()

	t.Run("nil saved objects should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs(nil)
		args.SavedObjects = nil
		loader, err := NewSavedMetricsLoader(args)
		assert.Nil(t, loader)
		assert.Error(t, err)
	})
	t.Run("nil clock should default to time.Now", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs(nil)
		args.NowFunc = nil
		loader, err := NewSavedMetricsLoader(args)
		require.NoError(t, err)
		assert.False(t, loader.IsInterfaceNil())
		assert.NotNil(t, loader.nowFunc)
	})
}

func TestSavedMetricsLoader_FetchCustomMetrics(t *testing.T) {
	t.Parallel()

	t.Run("recently created flag follows the object age", func(t *testing.T) {
		t.Parallel()

		loader, err := NewSavedMetricsLoader(createMockArgs([]common.SavedObject{
			customObject("a", time.Hour),
			customObject("b", 13*time.Hour),
			customObject("c", RecentlyCreatedThreshold),
		}))
		require.NoError(t, err)

		metrics, err := loader.FetchCustomMetrics(context.Background())
		require.NoError(t, err)
		require.Len(t, metrics, 3)

		assert.True(t, metrics[0].RecentlyCreated)
		assert.False(t, metrics[1].RecentlyCreated)
		assert.True(t, metrics[2].RecentlyCreated)

		assert.Equal(t, "a", metrics[0].ID)
		assert.Equal(t, "a", metrics[0].SavedVisualizationID)
		assert.Equal(t, "metric a", metrics[0].Name)
		assert.Equal(t, "source = prom.cpu", metrics[0].Query)
		assert.Equal(t, common.CustomMetricsSource, metrics[0].Catalog)
		assert.Equal(t, common.CustomMetricSubType, metrics[0].SubType)
		assert.Equal(t, "line", metrics[0].Type)
		assert.NotNil(t, metrics[0].AttributesGroupBy)
		assert.NotNil(t, metrics[0].AvailableAttributes)
	})
	t.Run("only metric sub types are kept", func(t *testing.T) {
		t.Parallel()

		plain := customObject("plain", time.Minute)
		plain.SavedVisualization.SubType = ""
		other := customObject("other", time.Minute)
		other.SavedVisualization.SubType = common.RemoteMetricSubType

		loader, _ := NewSavedMetricsLoader(createMockArgs([]common.SavedObject{
			plain,
			customObject("kept", time.Minute),
			other,
		}))

		metrics, err := loader.FetchCustomMetrics(context.Background())
		require.NoError(t, err)
		require.Len(t, metrics, 1)
		assert.Equal(t, "kept", metrics[0].ID)
	})
	t.Run("requests saved visualizations", func(t *testing.T) {
		t.Parallel()

		requestedType := ""
		args := createMockArgs(nil)
		args.SavedObjects = &testsCommon.SavedObjectsStub{
			GetBulkHandler: func(ctx context.Context, objectType string) ([]common.SavedObject, error) {
				requestedType = objectType
				return nil, nil
			},
		}
		loader, _ := NewSavedMetricsLoader(args)

		metrics, err := loader.FetchCustomMetrics(context.Background())
		require.NoError(t, err)
		assert.Empty(t, metrics)
		assert.Equal(t, common.SavedVisualizationType, requestedType)
	})
	t.Run("persistence failure should propagate", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("expected error")
		args := createMockArgs(nil)
		args.SavedObjects = &testsCommon.SavedObjectsStub{
			GetBulkHandler: func(ctx context.Context, objectType string) ([]common.SavedObject, error) {
				return nil, expectedErr
			},
		}
		loader, _ := NewSavedMetricsLoader(args)

		metrics, err := loader.FetchCustomMetrics(context.Background())
		assert.Nil(t, metrics)
		assert.ErrorIs(t, err, expectedErr)
	})
}
