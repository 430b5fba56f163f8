package customMetrics

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// SavedObjects defines the read side of the persisted-object service
type SavedObjects interface {
	GetBulk(ctx context.Context, objectType string) ([]common.SavedObject, error)
	IsInterfaceNil() bool
}
