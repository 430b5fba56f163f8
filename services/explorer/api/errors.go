package api

import (
	"errors"
	"net/http"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/engine"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/layout"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/savedobjects"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/store"
)

var errInvalidPayload = errors.New("invalid payload")

func statusFromError(err error) int {
	switch {
	case errors.Is(err, store.ErrUnknownMetric),
		errors.Is(err, layout.ErrLayoutEntryNotFound),
		errors.Is(err, savedobjects.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrMetricNotSelected),
		errors.Is(err, engine.ErrStaleLoad):
		return http.StatusConflict
	case errors.Is(err, errInvalidPayload),
		errors.Is(err, store.ErrDuplicateMetric),
		errors.Is(err, store.ErrInvalidSpan),
		errors.Is(err, store.ErrInvalidMove),
		errors.Is(err, layout.ErrInvalidLayout),
		errors.Is(err, layout.ErrOverlappingLayout):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
