package store

import (
	"fmt"
	"sync"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/layout"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("store")

// DefaultDateSpan is the date span filter of a freshly created store
var DefaultDateSpan = common.DateSpan{
	Start:      "now-1d",
	End:        "now",
	Span:       1,
	Resolution: "h",
}

// MetricQueryUpdate carries the query refinement fields to change on a catalog metric.
// An empty aggregation or a nil slice leaves the current value in place.
type MetricQueryUpdate struct {
	Aggregation         string   `json:"aggregation"`
	AttributesGroupBy   []string `json:"attributesGroupBy"`
	AvailableAttributes []string `json:"availableAttributes"`
}

// ArgsMetricsStore defines the metrics store arguments
type ArgsMetricsStore struct {
	Grid     layout.Grid
	DateSpan *common.DateSpan
}

// metricsStore is the single owner of the metrics state. Every action runs under the store
// mutex so transitions are atomic and applied in the order they were dispatched.
type metricsStore struct {
	mut   sync.RWMutex
	grid  layout.Grid
	state common.MetricsState
}

// NewMetricsStore creates a store holding an empty catalog
func NewMetricsStore(args ArgsMetricsStore) (*metricsStore, error) {
	grid, err := layout.NewGrid(args.Grid.Columns, args.Grid.DefaultWidth, args.Grid.DefaultHeight)
	if err != nil {
		return nil, err
	}

	dateSpan := DefaultDateSpan
	if args.DateSpan != nil {
		if args.DateSpan.Span < 1 {
			return nil, fmt.Errorf("%w, got %d", ErrInvalidSpan, args.DateSpan.Span)
		}
		dateSpan = *args.DateSpan
	}

	return &metricsStore{
		grid: grid,
		state: common.MetricsState{
			Metrics:          make([]common.Metric, 0),
			Selected:         make([]string, 0),
			MetricsLayout:    make([]common.LayoutEntry, 0),
			DataSources:      []string{common.CustomMetricsSource},
			DataSourceTitles: []string{common.CustomMetricsTitle},
			DataSourceIcons:  common.ColoredIconsFrom([]string{common.CustomMetricsSource}),
			DateSpan:         dateSpan,
		},
	}, nil
}

// Snapshot returns a deep copy of the current state
func (s *metricsStore) Snapshot() common.MetricsState {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.state.Clone()
}

// SetMetrics replaces the whole catalog
func (s *metricsStore) SetMetrics(metrics []common.Metric) error {
	catalog, err := cloneCatalog(metrics)
	if err != nil {
		return err
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.Metrics = catalog
	s.pruneSelection()
	log.Debug("catalog replaced", "num metrics", len(catalog))

	return nil
}

// SelectMetric appends the metric to the selection and places it on the grid.
// Selecting an already selected metric is a no-op.
func (s *metricsStore) SelectMetric(metric common.Metric) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if !s.isKnown(metric.ID) {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, metric.ID)
	}
	if s.isSelected(metric.ID) {
		log.Debug("metric already selected", "id", metric.ID)
		return nil
	}

	var entry common.LayoutEntry
	s.state.MetricsLayout, entry = s.grid.Append(s.state.MetricsLayout, metric.ID)
	s.state.Selected = append(s.state.Selected, metric.ID)

	log.Debug("metric selected", "id", metric.ID, "x", entry.X, "y", entry.Y)

	return nil
}

// DeSelectMetric removes the metric from the selection and compacts the grid
func (s *metricsStore) DeSelectMetric(metric common.Metric) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if !s.isSelected(metric.ID) {
		return fmt.Errorf("%w: %s", ErrMetricNotSelected, metric.ID)
	}

	newLayout, err := s.grid.Remove(s.state.MetricsLayout, metric.ID)
	if err != nil {
		return err
	}

	selected := make([]string, 0, len(s.state.Selected))
	for _, id := range s.state.Selected {
		if id != metric.ID {
			selected = append(selected, id)
		}
	}

	s.state.MetricsLayout = newLayout
	s.state.Selected = selected
	log.Debug("metric deselected", "id", metric.ID)

	return nil
}

// SetSearch replaces the free-text filter of the available metrics
func (s *metricsStore) SetSearch(text string) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.Search = text
}

// UpdateMetricsLayout replaces the layout after a manual arrangement. The selection is
// derived from the new layout, ordered by (x, y).
func (s *metricsStore) UpdateMetricsLayout(entries []common.LayoutEntry) error {
	err := s.grid.Validate(entries)
	if err != nil {
		return err
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	for _, e := range entries {
		if !s.isKnown(e.ID) {
			return fmt.Errorf("%w: %s", ErrUnknownMetric, e.ID)
		}
	}

	newLayout := common.CloneLayout(entries)
	ordered := common.CloneLayout(entries)
	layout.SortByColumn(ordered)

	selected := make([]string, 0, len(ordered))
	for _, e := range ordered {
		selected = append(selected, e.ID)
	}

	s.state.MetricsLayout = newLayout
	s.state.Selected = selected

	return nil
}

// SetMetricSelectedAttributes sets the group-by fields of one layout entry query
func (s *metricsStore) SetMetricSelectedAttributes(visualizationID string, attributesGroupBy []string) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	for i, e := range s.state.MetricsLayout {
		if e.ID != visualizationID {
			continue
		}

		query := common.MetricQuery{
			AttributesGroupBy:   make([]string, 0),
			AvailableAttributes: make([]string, 0),
		}
		if e.Query != nil {
			query = e.Query.Clone()
		}
		query.AttributesGroupBy = append(make([]string, 0, len(attributesGroupBy)), attributesGroupBy...)
		s.state.MetricsLayout[i].Query = &query

		return nil
	}

	return fmt.Errorf("%w: %s", layout.ErrLayoutEntryNotFound, visualizationID)
}

// UpdateMetricQuery changes the query refinement fields of a catalog metric
func (s *metricsStore) UpdateMetricQuery(id string, update MetricQueryUpdate) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	for i, m := range s.state.Metrics {
		if m.ID != id {
			continue
		}

		s.state.Metrics[i].Aggregation = firstNonEmpty(update.Aggregation, m.Aggregation, common.DefaultAggregation)
		s.state.Metrics[i].AttributesGroupBy = firstNonNil(update.AttributesGroupBy, m.AttributesGroupBy)
		s.state.Metrics[i].AvailableAttributes = firstNonNil(update.AvailableAttributes, m.AvailableAttributes)

		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownMetric, id)
}

// MoveMetric moves the selected metric found at position from to position to and repacks the grid
func (s *metricsStore) MoveMetric(from int, to int) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	numSelected := len(s.state.Selected)
	if from < 0 || from >= numSelected || to < 0 || to >= numSelected {
		return fmt.Errorf("%w: from %d to %d with %d selected metrics", ErrInvalidMove, from, to, numSelected)
	}

	selected := make([]string, 0, numSelected)
	selected = append(selected, s.state.Selected...)
	moved := selected[from]
	selected = append(selected[:from], selected[from+1:]...)
	selected = append(selected[:to], append([]string{moved}, selected[to:]...)...)

	byID := make(map[string]common.LayoutEntry, len(s.state.MetricsLayout))
	for _, e := range s.state.MetricsLayout {
		byID[e.ID] = e
	}

	ordered := make([]common.LayoutEntry, 0, numSelected)
	for _, id := range selected {
		ordered = append(ordered, byID[id])
	}

	s.state.Selected = selected
	s.state.MetricsLayout = s.grid.Repack(ordered)

	return nil
}

// SetDataSources replaces the remote data sources, keeping the custom metrics source first
func (s *metricsStore) SetDataSources(dataSources []string) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.DataSources = withCustomSource(dataSources)
}

// SetDataSourceTitles replaces the remote data source titles, keeping the custom metrics title first
func (s *metricsStore) SetDataSourceTitles(titles []string) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.DataSourceTitles = append([]string{common.CustomMetricsTitle}, titles...)
}

// SetDataSourceIcons replaces the icon map, making sure the custom metrics source has an icon
func (s *metricsStore) SetDataSourceIcons(icons map[string]common.IconAttributes) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.DataSourceIcons = mergeCustomIcon(icons)
}

// SetDateSpan replaces the date span filter applied to the rendered metrics
func (s *metricsStore) SetDateSpan(span common.DateSpan) error {
	if span.Span < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidSpan, span.Span)
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.DateSpan = span

	return nil
}

// Refresh signals the renderers that every selected metric must be queried again
func (s *metricsStore) Refresh() uint64 {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.Refresh++

	return s.state.Refresh
}

// BeginLoad starts a new catalog load and returns its generation. Any load started earlier becomes stale.
func (s *metricsStore) BeginLoad() uint64 {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.LoadGeneration++

	return s.state.LoadGeneration
}

// CommitDataSources applies the discovered data source names if the load generation is still current
func (s *metricsStore) CommitDataSources(generation uint64, dataSources []string) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	if generation != s.state.LoadGeneration {
		log.Debug("discarding stale data sources", "generation", generation, "current", s.state.LoadGeneration)
		return false
	}

	s.state.DataSources = withCustomSource(dataSources)
	s.state.DataSourceTitles = append([]string{common.CustomMetricsTitle}, s.state.DataSources[1:]...)
	s.state.DataSourceIcons = common.ColoredIconsFrom(s.state.DataSources)

	return true
}

// CommitMetrics replaces the catalog if the load generation is still current
func (s *metricsStore) CommitMetrics(generation uint64, metrics []common.Metric) (bool, error) {
	catalog, err := cloneCatalog(metrics)
	if err != nil {
		return false, err
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	if generation != s.state.LoadGeneration {
		log.Debug("discarding stale catalog", "generation", generation, "current", s.state.LoadGeneration)
		return false, nil
	}

	s.state.Metrics = catalog
	s.pruneSelection()
	log.Debug("catalog committed", "generation", generation, "num metrics", len(catalog))

	return true, nil
}

// pruneSelection deselects the metrics missing from the current catalog, compacting the layout.
// Must be called under the write lock.
func (s *metricsStore) pruneSelection() {
	selected := make([]string, 0, len(s.state.Selected))
	for _, id := range s.state.Selected {
		if s.isKnown(id) {
			selected = append(selected, id)
			continue
		}

		newLayout, err := s.grid.Remove(s.state.MetricsLayout, id)
		if err != nil {
			log.Warn("missing layout entry for a selected metric", "id", id, "error", err)
			continue
		}
		s.state.MetricsLayout = newLayout
		log.Debug("metric dropped from the catalog, deselected", "id", id)
	}

	s.state.Selected = selected
}

func (s *metricsStore) isKnown(id string) bool {
	for _, m := range s.state.Metrics {
		if m.ID == id {
			return true
		}
	}

	return false
}

func (s *metricsStore) isSelected(id string) bool {
	for _, selectedID := range s.state.Selected {
		if selectedID == id {
			return true
		}
	}

	return false
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *metricsStore) IsInterfaceNil() bool {
	return s == nil
}

func cloneCatalog(metrics []common.Metric) ([]common.Metric, error) {
	seen := make(map[string]struct{}, len(metrics))
	catalog := make([]common.Metric, 0, len(metrics))
	for _, m := range metrics {
		if _, found := seen[m.ID]; found {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMetric, m.ID)
		}
		seen[m.ID] = struct{}{}
		catalog = append(catalog, m.Clone())
	}

	return catalog, nil
}

func withCustomSource(dataSources []string) []string {
	out := make([]string, 0, len(dataSources)+1)
	out = append(out, common.CustomMetricsSource)
	for _, ds := range dataSources {
		if ds != common.CustomMetricsSource {
			out = append(out, ds)
		}
	}

	return out
}

func mergeCustomIcon(icons map[string]common.IconAttributes) map[string]common.IconAttributes {
	out := make(map[string]common.IconAttributes, len(icons)+1)
	for k, v := range icons {
		out[k] = v
	}
	if _, found := out[common.CustomMetricsSource]; !found {
		out[common.CustomMetricsSource] = common.IconAttributes{Color: common.IconPalette[0]}
	}

	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}

	return ""
}

func firstNonNil(values ...[]string) []string {
	for _, v := range values {
		if v != nil {
			return append(make([]string, 0, len(v)), v...)
		}
	}

	return make([]string, 0)
}
