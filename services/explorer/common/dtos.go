package common

// MetricQuery holds the query refinement fields of a metric visualization
type MetricQuery struct {
	Aggregation         string   `json:"aggregation"`
	AttributesGroupBy   []string `json:"attributesGroupBy"`
	AvailableAttributes []string `json:"availableAttributes"`
}

// Clone returns a deep copy of the query
func (q MetricQuery) Clone() MetricQuery {
	return MetricQuery{
		Aggregation:         q.Aggregation,
		AttributesGroupBy:   cloneStrings(q.AttributesGroupBy),
		AvailableAttributes: cloneStrings(q.AvailableAttributes),
	}
}

// Metric is a catalog entry, either a saved custom metric or a remotely discovered table
type Metric struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Catalog              string   `json:"catalog"`
	CatalogSourceName    string   `json:"catalogSourceName,omitempty"`
	CatalogTableName     string   `json:"catalogTableName,omitempty"`
	Index                string   `json:"index,omitempty"`
	SavedVisualizationID string   `json:"savedVisualizationId,omitempty"`
	Query                string   `json:"query,omitempty"`
	Type                 string   `json:"type"`
	SubType              string   `json:"sub_type"`
	Aggregation          string   `json:"aggregation"`
	AttributesGroupBy    []string `json:"attributesGroupBy"`
	AvailableAttributes  []string `json:"availableAttributes"`
	RecentlyCreated      bool     `json:"recentlyCreated"`
}

// Clone returns a deep copy of the metric
func (m Metric) Clone() Metric {
	m.AttributesGroupBy = cloneStrings(m.AttributesGroupBy)
	m.AvailableAttributes = cloneStrings(m.AvailableAttributes)

	return m
}

// LayoutEntry is the grid placement of one selected metric
type LayoutEntry struct {
	ID    string       `json:"id"`
	X     int          `json:"x"`
	Y     int          `json:"y"`
	W     int          `json:"w"`
	H     int          `json:"h"`
	Query *MetricQuery `json:"query,omitempty"`
}

// Clone returns a deep copy of the layout entry
func (e LayoutEntry) Clone() LayoutEntry {
	if e.Query != nil {
		q := e.Query.Clone()
		e.Query = &q
	}

	return e
}

// IconAttributes defines how a data source is rendered
type IconAttributes struct {
	Color string `json:"color"`
}

// DateSpan is the time window and bucket span applied to every rendered metric
type DateSpan struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	Span       int    `json:"span"`
	Resolution string `json:"resolution"`
}

// MetricsState is the aggregate root of the metrics explorer
type MetricsState struct {
	Metrics          []Metric                  `json:"metrics"`
	Selected         []string                  `json:"selected"`
	Search           string                    `json:"search"`
	MetricsLayout    []LayoutEntry             `json:"metricsLayout"`
	DataSources      []string                  `json:"dataSources"`
	DataSourceTitles []string                  `json:"dataSourceTitles"`
	DataSourceIcons  map[string]IconAttributes `json:"dataSourceIcons"`
	DateSpan         DateSpan                  `json:"dateSpan"`
	Refresh          uint64                    `json:"refresh"`
	LoadGeneration   uint64                    `json:"loadGeneration"`
}

// Clone returns a deep copy of the state
func (s MetricsState) Clone() MetricsState {
	clone := s

	clone.Metrics = make([]Metric, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		clone.Metrics = append(clone.Metrics, m.Clone())
	}

	clone.MetricsLayout = CloneLayout(s.MetricsLayout)
	clone.Selected = cloneStrings(s.Selected)
	clone.DataSources = cloneStrings(s.DataSources)
	clone.DataSourceTitles = cloneStrings(s.DataSourceTitles)

	clone.DataSourceIcons = make(map[string]IconAttributes, len(s.DataSourceIcons))
	for k, v := range s.DataSourceIcons {
		clone.DataSourceIcons[k] = v
	}

	return clone
}

// CloneLayout returns a deep copy of the provided layout
func CloneLayout(entries []LayoutEntry) []LayoutEntry {
	out := make([]LayoutEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Clone())
	}

	return out
}

// SavedVisualization is the visualization payload of a persisted object
type SavedVisualization struct {
	Name    string `json:"name"`
	Query   string `json:"query"`
	Type    string `json:"type"`
	SubType string `json:"sub_type"`
}

// SavedObject is an object held by the persisted-object service
type SavedObject struct {
	ObjectID           string             `json:"objectId"`
	ObjectType         string             `json:"objectType"`
	CreatedTimeMs      int64              `json:"createdTimeMs"`
	SavedVisualization SavedVisualization `json:"savedVisualization"`
}

// Notification is a transient, user visible message
type Notification struct {
	ID        string   `json:"id"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	CreatedAt int64    `json:"createdAt"`
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}

	out := make([]string, len(src))
	copy(out, src)

	return out
}

// SourceResult holds the outcome of a single data source discovery
type SourceResult struct {
	DataSource string
	Metrics    []Metric
	Err        error
}
