package factory

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/metrics-explorer/commonGo"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/api"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/config"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/customMetrics"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/discovery"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/engine"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/layout"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/notifier"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/query"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/savedobjects"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/store"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const defaultReloadInterval = 5 * time.Minute

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	savedObjects   SavedObjectsStorage
	store          api.MetricsStore
	engine         Engine
	server         Server
	mutCancel      sync.Mutex
	cancel         func()
	reloadInterval time.Duration
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	serviceKeyApi string,
	cfg config.Config,
) (*componentsHandler, error) {
	savedObjects, err := savedobjects.NewSQLiteStorage(cfg.SavedObjectsPath)
	if err != nil {
		return nil, err
	}

	ch, err := createComponents(serviceKeyApi, cfg, savedObjects)
	if err != nil {
		_ = savedObjects.Close()
		return nil, err
	}

	return ch, nil
}

func createComponents(
	serviceKeyApi string,
	cfg config.Config,
	savedObjects SavedObjectsStorage,
) (*componentsHandler, error) {
	queryTimeout := time.Duration(cfg.QueryTimeoutInSeconds) * time.Second
	queryService := query.NewHTTPQueryService(cfg.QueryEndpoint, queryTimeout, cfg.MaxQueryResponseSize)
	toasts := notifier.NewToastNotifier(cfg.NotificationsCapacity)

	grid, err := layout.NewGrid(
		valueOrDefault(cfg.Layout.Columns, layout.DefaultColumns),
		valueOrDefault(cfg.Layout.DefaultWidth, layout.DefaultWidth),
		valueOrDefault(cfg.Layout.DefaultHeight, layout.DefaultHeight),
	)
	if err != nil {
		return nil, err
	}

	metricsStore, err := store.NewMetricsStore(store.ArgsMetricsStore{
		Grid: grid,
	})
	if err != nil {
		return nil, err
	}

	discoverer, err := discovery.NewRemoteDiscovery(discovery.ArgsRemoteDiscovery{
		QueryService:  queryService,
		Notifier:      toasts,
		MaxConcurrent: cfg.MaxConcurrentDiscoveries,
	})
	if err != nil {
		return nil, err
	}

	loader, err := customMetrics.NewSavedMetricsLoader(customMetrics.ArgsSavedMetricsLoader{
		SavedObjects: savedObjects,
	})
	if err != nil {
		return nil, err
	}

	reloadInterval := time.Duration(cfg.ReloadIntervalInSeconds) * time.Second
	if reloadInterval <= 0 {
		reloadInterval = defaultReloadInterval
	}

	eng, err := engine.NewExplorerEngine(engine.ArgsExplorerEngine{
		Store:               metricsStore,
		Discoverer:          discoverer,
		CustomMetricsLoader: loader,
		Notifier:            toasts,
		LoadTimeout:         reloadInterval,
	})
	if err != nil {
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ServiceKeyApi:  serviceKeyApi,
		ListenAddress:  cfg.ListenAddress,
		Store:          metricsStore,
		Engine:         eng,
		SavedObjects:   savedObjects,
		Notifications:  toasts,
		GeneralHandler: api.CORSMiddleware,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		savedObjects:   savedObjects,
		store:          metricsStore,
		engine:         eng,
		server:         server,
		reloadInterval: reloadInterval,
	}, nil
}

// GetSavedObjects returns the persisted-object service
func (ch *componentsHandler) GetSavedObjects() SavedObjectsStorage {
	return ch.savedObjects
}

// GetStore returns the metrics store component
func (ch *componentsHandler) GetStore() api.MetricsStore {
	return ch.store
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the HTTP server and the periodic catalog reload
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	ch.server.Start()
	commonGo.CronJobStarter(ctx, ch.engine.Process, ch.reloadInterval)

	log.Debug("components started", "reload interval", ch.reloadInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}

	err := ch.server.Close()
	log.LogIfError(err)

	err = ch.savedObjects.Close()
	log.LogIfError(err)
}

func valueOrDefault(value int, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}

	return value
}
