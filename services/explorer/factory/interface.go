package factory

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/api"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// Engine defines the explorer engine operations
type Engine interface {
	api.Engine
	Process(ctx context.Context)
}

// SavedObjectsStorage defines the persisted-object service owned by the components handler
type SavedObjectsStorage interface {
	api.SavedObjects
	GetBulk(ctx context.Context, objectType string) ([]common.SavedObject, error)
	Close() error
}
