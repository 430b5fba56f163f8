package discovery

import (
	"context"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// QueryService defines the query execution service operations
type QueryService interface {
	Fetch(ctx context.Context, query string, format string) ([]byte, error)
	IsInterfaceNil() bool
}

// Notifier defines the user notification sink
type Notifier interface {
	Notify(message string, severity common.Severity)
	IsInterfaceNil() bool
}
