package testsCommon

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// SavedObjectsStub -
type SavedObjectsStub struct {
	GetBulkHandler           func(ctx context.Context, objectType string) ([]common.SavedObject, error)
	SaveVisualizationHandler func(ctx context.Context, visualization common.SavedVisualization, createdTimeMs int64) (string, error)
	DeleteObjectHandler      func(ctx context.Context, objectID string) error
	CloseHandler             func() error
}

// GetBulk -
func (stub *SavedObjectsStub) GetBulk(ctx context.Context, objectType string) ([]common.SavedObject, error) {
	if stub.GetBulkHandler != nil {
		return stub.GetBulkHandler(ctx, objectType)
	}

	return make([]common.SavedObject, 0), nil
}

// SaveVisualization -
func (stub *SavedObjectsStub) SaveVisualization(ctx context.Context, visualization common.SavedVisualization, createdTimeMs int64) (string, error) {
	if stub.SaveVisualizationHandler != nil {
		return stub.SaveVisualizationHandler(ctx, visualization, createdTimeMs)
	}

	return "", nil
}

// DeleteObject -
func (stub *SavedObjectsStub) DeleteObject(ctx context.Context, objectID string) error {
	if stub.DeleteObjectHandler != nil {
		return stub.DeleteObjectHandler(ctx, objectID)
	}

	return nil
}

// Close -
func (stub *SavedObjectsStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *SavedObjectsStub) IsInterfaceNil() bool {
	return stub == nil
}
