package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/engine"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/layout"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/notifier"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/store"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/testsCommon"
	"github.com/stretchr/testify/require"
)

func createStubArgs(t *testing.T) ArgsWebServer {
	metricsStore, err := store.NewMetricsStore(store.ArgsMetricsStore{
		Grid: layout.Grid{
			Columns:       layout.DefaultColumns,
			DefaultWidth:  layout.DefaultWidth,
			DefaultHeight: layout.DefaultHeight,
		},
	})
	require.NoError(t, err)

	return ArgsWebServer{
		ServiceKeyApi:  testServiceKey,
		ListenAddress:  "127.0.0.1:0",
		Store:          metricsStore,
		Engine:         &engineStub{},
		SavedObjects:   &testsCommon.SavedObjectsStub{},
		Notifications:  notifier.NewToastNotifier(10),
		GeneralHandler: func(h http.Handler) http.Handler { return h },
	}
}

func TestNewServer_NilArguments(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		args := createStubArgs(t)
		args.Store = nil
		_, err := NewServer(args)
		require.ErrorContains(t, err, "metrics store is required")
	})
	t.Run("nil engine", func(t *testing.T) {
		args := createStubArgs(t)
		args.Engine = nil
		_, err := NewServer(args)
		require.ErrorContains(t, err, "engine is required")
	})
	t.Run("nil saved objects", func(t *testing.T) {
		args := createStubArgs(t)
		args.SavedObjects = nil
		_, err := NewServer(args)
		require.ErrorContains(t, err, "saved objects service is required")
	})
	t.Run("nil notifications", func(t *testing.T) {
		args := createStubArgs(t)
		args.Notifications = nil
		_, err := NewServer(args)
		require.ErrorContains(t, err, "notifications provider is required")
	})
	t.Run("nil general handler", func(t *testing.T) {
		args := createStubArgs(t)
		args.GeneralHandler = nil
		_, err := NewServer(args)
		require.ErrorContains(t, err, "nil http handler")
	})
}

func TestServer_StartAndClose(t *testing.T) {
	serv, err := NewServer(createStubArgs(t))
	require.NoError(t, err)

	serv.Start()

	// Given it's a goroutine, allow a small time to boot
	time.Sleep(50 * time.Millisecond)
	require.NotEqual(t, "127.0.0.1:0", serv.Address())

	resp, err := http.Get(fmt.Sprintf("http://%s/api/search", serv.Address()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	err = serv.Close()
	require.NoError(t, err)
}

func TestHandlers_CollaboratorErrors(t *testing.T) {
	args := createStubArgs(t)
	args.Engine = &engineStub{
		LoadMetricsHandler: func(ctx context.Context) (engine.LoadReport, error) {
			return engine.LoadReport{}, errors.New("load error")
		},
	}
	args.SavedObjects = &testsCommon.SavedObjectsStub{
		SaveVisualizationHandler: func(ctx context.Context, visualization common.SavedVisualization, createdTimeMs int64) (string, error) {
			return "", errors.New("db save error")
		},
		DeleteObjectHandler: func(ctx context.Context, objectID string) error {
			return errors.New("db del error")
		},
	}
	serv, err := NewServer(args)
	require.NoError(t, err)

	w := doRequest(serv, http.MethodPost, "/api/reload", "", true)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "load error")

	w = doRequest(serv, http.MethodPost, "/api/visualizations", `{"name": "n"}`, true)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "db save error")

	w = doRequest(serv, http.MethodDelete, "/api/visualizations/id", "", true)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "db del error")
}

func TestHandlers_ReloadReport(t *testing.T) {
	t.Run("partial failures are reported", func(t *testing.T) {
		args := createStubArgs(t)
		args.Engine = &engineStub{
			LoadMetricsHandler: func(ctx context.Context) (engine.LoadReport, error) {
				return engine.LoadReport{
					Generation:        3,
					NumMetrics:        5,
					FailedDataSources: []string{"B"},
					Failures:          multierror.Append(nil, errors.New("data source B: timeout")),
				}, nil
			},
		}
		serv, _ := NewServer(args)

		w := doRequest(serv, http.MethodPost, "/api/reload", "", true)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"failedDataSources":["B"]`)
		require.Contains(t, w.Body.String(), "data source B: timeout")
	})
	t.Run("stale load is a conflict", func(t *testing.T) {
		args := createStubArgs(t)
		args.Engine = &engineStub{
			LoadMetricsHandler: func(ctx context.Context) (engine.LoadReport, error) {
				return engine.LoadReport{}, fmt.Errorf("%w, generation 1", engine.ErrStaleLoad)
			},
		}
		serv, _ := NewServer(args)

		w := doRequest(serv, http.MethodPost, "/api/reload", "", true)
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandlers_BadPayloads(t *testing.T) {
	serv, err := NewServer(createStubArgs(t))
	require.NoError(t, err)

	routes := []struct {
		method string
		url    string
	}{
		{http.MethodPut, "/api/search"},
		{http.MethodPut, "/api/metrics/id/query"},
		{http.MethodPut, "/api/layout"},
		{http.MethodPut, "/api/layout/id/attributes"},
		{http.MethodPost, "/api/layout/move"},
		{http.MethodPut, "/api/datespan"},
		{http.MethodPost, "/api/visualizations"},
	}

	for _, route := range routes {
		w := doRequest(serv, route.method, route.url, `{bad-json}`, true)
		require.Equal(t, http.StatusBadRequest, w.Code, route.url)
		require.Contains(t, w.Body.String(), "invalid payload", route.url)
	}
}

func TestHandlers_Unauthorized(t *testing.T) {
	serv, err := NewServer(createStubArgs(t))
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPut, "/api/search", nil)
	req.Header.Set("X-Api-Key", "wrong")
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/refresh", "", false)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlers_Notifications(t *testing.T) {
	args := createStubArgs(t)
	toasts := notifier.NewToastNotifier(10)
	toasts.Notify("An error occurred retrieving attributes for metric prom.cpu", common.SeverityDanger)
	args.Notifications = toasts
	serv, _ := NewServer(args)

	w := doRequest(serv, http.MethodGet, "/api/notifications", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "prom.cpu")
	require.Contains(t, w.Body.String(), `"severity":"danger"`)
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	called := false
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	t.Run("preflight with the api key header is answered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/layout", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		req.Header.Set("Access-Control-Request-Headers", "content-type,x-api-key")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
		require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))
		require.False(t, called)
	})
	t.Run("preflight with an unknown header is refused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/layout", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", "x-unknown")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		require.False(t, called)
	})
	t.Run("cross origin request reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/layout", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.True(t, called)
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestStatusFromError(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusNotFound, statusFromError(fmt.Errorf("%w: x", store.ErrUnknownMetric)))
	require.Equal(t, http.StatusNotFound, statusFromError(layout.ErrLayoutEntryNotFound))
	require.Equal(t, http.StatusConflict, statusFromError(store.ErrMetricNotSelected))
	require.Equal(t, http.StatusBadRequest, statusFromError(layout.ErrOverlappingLayout))
	require.Equal(t, http.StatusBadRequest, statusFromError(store.ErrInvalidSpan))
	require.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("boom")))
}
