package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/selectors"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/store"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const apiKeyHeader = "X-Api-Key"

var log = logger.GetOrCreate("api")

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	store          MetricsStore
	engine         Engine
	savedObjects   SavedObjects
	notifications  NotificationsProvider
	serviceKey     string
	listenAddr     string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ServiceKeyApi  string
	ListenAddress  string
	Store          MetricsStore
	Engine         Engine
	SavedObjects   SavedObjects
	Notifications  NotificationsProvider
	GeneralHandler func(http.Handler) http.Handler
}

type searchPayload struct {
	Search string `json:"search"`
}

type layoutPayload struct {
	Layout []common.LayoutEntry `json:"layout"`
}

type attributesPayload struct {
	AttributesGroupBy []string `json:"attributesGroupBy"`
}

type movePayload struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type loadReportResponse struct {
	Generation        uint64   `json:"generation"`
	NumMetrics        int      `json:"numMetrics"`
	FailedDataSources []string `json:"failedDataSources"`
	Failures          string   `json:"failures,omitempty"`
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Store) {
		return nil, errors.New("metrics store is required")
	}
	if check.IfNil(args.Engine) {
		return nil, errors.New("engine is required")
	}
	if check.IfNil(args.SavedObjects) {
		return nil, errors.New("saved objects service is required")
	}
	if check.IfNil(args.Notifications) {
		return nil, errors.New("notifications provider is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		store:          args.Store,
		engine:         args.Engine,
		savedObjects:   args.SavedObjects,
		notifications:  args.Notifications,
		serviceKey:     args.ServiceKeyApi,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/metrics/available", s.handleGetAvailableMetrics)
	api.GET("/metrics/selected", s.handleGetSelectedMetrics)
	api.GET("/metrics/:id", s.handleGetMetric)
	api.GET("/metrics/:id/query", s.handleGetMetricQuery)
	api.GET("/layout", s.handleGetLayout)
	api.GET("/datasources", s.handleGetDataSources)
	api.GET("/search", s.handleGetSearch)
	api.GET("/datespan", s.handleGetDateSpan)
	api.GET("/notifications", s.handleGetNotifications)

	protected := api.Group("/")
	protected.Use(s.authAPIKey())
	{
		protected.PUT("/search", s.handleSetSearch)
		protected.POST("/metrics/:id/select", s.handleSelectMetric)
		protected.DELETE("/metrics/:id/select", s.handleDeSelectMetric)
		protected.PUT("/metrics/:id/query", s.handleUpdateMetricQuery)
		protected.PUT("/layout", s.handleUpdateLayout)
		protected.PUT("/layout/:id/attributes", s.handleSetAttributes)
		protected.POST("/layout/move", s.handleMoveMetric)
		protected.PUT("/datespan", s.handleSetDateSpan)
		protected.POST("/refresh", s.handleRefresh)
		protected.POST("/reload", s.handleReload)
		protected.POST("/visualizations", s.handleSaveVisualization)
		protected.DELETE("/visualizations/:id", s.handleDeleteVisualization)
	}
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

func (s *server) authAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if key != s.serviceKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.Warn("request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, payload interface{}) bool {
	err := c.ShouldBindJSON(payload)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %s", errInvalidPayload, err.Error()))
		return false
	}

	return true
}

// --- Read handlers ---

func (s *server) handleGetAvailableMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": selectors.AvailableMetrics(s.store.Snapshot())})
}

func (s *server) handleGetSelectedMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": selectors.SelectedMetrics(s.store.Snapshot())})
}

func (s *server) handleGetMetric(c *gin.Context) {
	id := c.Param("id")
	metric, found := selectors.MetricByID(s.store.Snapshot(), id)
	if !found {
		respondError(c, fmt.Errorf("%w: %s", store.ErrUnknownMetric, id))
		return
	}

	c.JSON(http.StatusOK, metric)
}

func (s *server) handleGetMetricQuery(c *gin.Context) {
	c.JSON(http.StatusOK, selectors.MetricQuery(s.store.Snapshot(), c.Param("id")))
}

func (s *server) handleGetLayout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"layout": selectors.MetricsLayout(s.store.Snapshot())})
}

func (s *server) handleGetDataSources(c *gin.Context) {
	state := s.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"dataSources": selectors.DataSources(state),
		"titles":      selectors.DataSourceTitles(state),
		"icons":       selectors.DataSourceIcons(state),
	})
}

func (s *server) handleGetSearch(c *gin.Context) {
	c.JSON(http.StatusOK, searchPayload{Search: selectors.Search(s.store.Snapshot())})
}

func (s *server) handleGetDateSpan(c *gin.Context) {
	c.JSON(http.StatusOK, selectors.DateSpan(s.store.Snapshot()))
}

func (s *server) handleGetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": s.notifications.Recent()})
}

// --- Mutating handlers ---

func (s *server) handleSetSearch(c *gin.Context) {
	var payload searchPayload
	if !bindJSON(c, &payload) {
		return
	}

	s.store.SetSearch(payload.Search)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleSelectMetric(c *gin.Context) {
	id := c.Param("id")
	metric, found := selectors.MetricByID(s.store.Snapshot(), id)
	if !found {
		respondError(c, fmt.Errorf("%w: %s", store.ErrUnknownMetric, id))
		return
	}

	err := s.engine.AddSelectedMetric(c.Request.Context(), metric)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleDeSelectMetric(c *gin.Context) {
	err := s.store.DeSelectMetric(common.Metric{ID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleUpdateMetricQuery(c *gin.Context) {
	var payload store.MetricQueryUpdate
	if !bindJSON(c, &payload) {
		return
	}

	err := s.store.UpdateMetricQuery(c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleUpdateLayout(c *gin.Context) {
	var payload layoutPayload
	if !bindJSON(c, &payload) {
		return
	}
	if payload.Layout == nil {
		payload.Layout = make([]common.LayoutEntry, 0)
	}

	err := s.store.UpdateMetricsLayout(payload.Layout)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleSetAttributes(c *gin.Context) {
	var payload attributesPayload
	if !bindJSON(c, &payload) {
		return
	}
	if payload.AttributesGroupBy == nil {
		payload.AttributesGroupBy = make([]string, 0)
	}

	err := s.store.SetMetricSelectedAttributes(c.Param("id"), payload.AttributesGroupBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleMoveMetric(c *gin.Context) {
	var payload movePayload
	if !bindJSON(c, &payload) {
		return
	}
	if payload.From == nil || payload.To == nil {
		respondError(c, fmt.Errorf("%w: from and to are required", errInvalidPayload))
		return
	}

	err := s.store.MoveMetric(*payload.From, *payload.To)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleSetDateSpan(c *gin.Context) {
	var payload common.DateSpan
	if !bindJSON(c, &payload) {
		return
	}

	err := s.store.SetDateSpan(payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleRefresh(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"refresh": s.store.Refresh()})
}

func (s *server) handleReload(c *gin.Context) {
	report, err := s.engine.LoadMetrics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := loadReportResponse{
		Generation:        report.Generation,
		NumMetrics:        report.NumMetrics,
		FailedDataSources: report.FailedDataSources,
	}
	if report.Failures != nil {
		response.Failures = report.Failures.Error()
	}

	c.JSON(http.StatusOK, response)
}

func (s *server) handleSaveVisualization(c *gin.Context) {
	var payload common.SavedVisualization
	if !bindJSON(c, &payload) {
		return
	}
	if len(payload.Name) == 0 {
		respondError(c, fmt.Errorf("%w: empty visualization name", errInvalidPayload))
		return
	}

	id, err := s.savedObjects.SaveVisualization(c.Request.Context(), payload, time.Now().UnixMilli())
	if err != nil {
		respondError(c, err)
		return
	}

	log.Debug("visualization saved", "id", id, "sub type", payload.SubType)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *server) handleDeleteVisualization(c *gin.Context) {
	err := s.savedObjects.DeleteObject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
