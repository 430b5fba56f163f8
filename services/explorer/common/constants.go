package common

// Severity is the level of a user notification
type Severity string

const (
	// SeveritySuccess marks an informative notification
	SeveritySuccess Severity = "success"
	// SeverityWarning marks a degraded but working outcome
	SeverityWarning Severity = "warning"
	// SeverityDanger marks a failed operation
	SeverityDanger Severity = "danger"
)

const (
	// CustomMetricsSource is the built-in data source holding the saved custom metrics
	CustomMetricsSource = "OBSERVABILITY_CUSTOM_METRIC"
	// CustomMetricsTitle is the display title of CustomMetricsSource
	CustomMetricsTitle = "Observability Custom Metrics"

	// SavedVisualizationType is the persisted object type tag for visualizations
	SavedVisualizationType = "savedVisualization"

	// CustomMetricSubType marks saved visualizations that are custom metrics
	CustomMetricSubType = "metric"
	// RemoteMetricSubType marks metrics discovered on remote data sources
	RemoteMetricSubType = "promqlmetric"

	// DefaultAggregation is applied to metrics without an explicit aggregation
	DefaultAggregation = "avg"
	// DefaultVisualizationType is the chart kind of discovered metrics
	DefaultVisualizationType = "line"
)

// IconPalette is the colour-blind safe palette assigned to data sources, in order
var IconPalette = []string{
	"#54B399",
	"#6092C0",
	"#D36086",
	"#9170B8",
	"#CA8EAE",
	"#D6BF57",
	"#B9A888",
	"#DA8B45",
	"#AA6556",
	"#E7664C",
}

// ColoredIconsFrom assigns a palette colour to every data source, cycling the palette
func ColoredIconsFrom(dataSources []string) map[string]IconAttributes {
	icons := make(map[string]IconAttributes, len(dataSources))
	for i, ds := range dataSources {
		icons[ds] = IconAttributes{
			Color: IconPalette[i%len(IconPalette)],
		}
	}

	return icons
}
