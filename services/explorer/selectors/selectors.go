// Package selectors holds the read-only projections computed from a metrics state snapshot.
// Every function is pure: the state is never modified and identical inputs give equal outputs.
package selectors

import (
	"strings"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// AvailableMetrics returns the catalog metrics that are not selected and match the search text
func AvailableMetrics(state common.MetricsState) []common.Metric {
	selected := make(map[string]struct{}, len(state.Selected))
	for _, id := range state.Selected {
		selected[id] = struct{}{}
	}

	search := strings.ToLower(state.Search)
	out := make([]common.Metric, 0, len(state.Metrics))
	for _, m := range state.Metrics {
		if _, isSelected := selected[m.ID]; isSelected {
			continue
		}
		if len(search) > 0 && !strings.Contains(strings.ToLower(m.Name), search) {
			continue
		}

		out = append(out, m.Clone())
	}

	return out
}

// SelectedMetrics resolves the selected ids against the catalog, keeping the selection order.
// Ids no longer present in the catalog are skipped.
func SelectedMetrics(state common.MetricsState) []common.Metric {
	out := make([]common.Metric, 0, len(state.Selected))
	for _, id := range state.Selected {
		m, found := MetricByID(state, id)
		if !found {
			continue
		}

		out = append(out, m)
	}

	return out
}

// MetricByID returns the catalog metric with the provided id
func MetricByID(state common.MetricsState, id string) (common.Metric, bool) {
	for _, m := range state.Metrics {
		if m.ID == id {
			return m.Clone(), true
		}
	}

	return common.Metric{}, false
}

// MetricQuery returns the query attached to the layout entry of the provided id, or an empty default
func MetricQuery(state common.MetricsState, id string) common.MetricQuery {
	for _, e := range state.MetricsLayout {
		if e.ID == id && e.Query != nil {
			return e.Query.Clone()
		}
	}

	return common.MetricQuery{
		Aggregation:         "",
		AttributesGroupBy:   make([]string, 0),
		AvailableAttributes: make([]string, 0),
	}
}

// Search returns the free-text filter
func Search(state common.MetricsState) string {
	return state.Search
}

// MetricsLayout returns a copy of the packed layout
func MetricsLayout(state common.MetricsState) []common.LayoutEntry {
	return common.CloneLayout(state.MetricsLayout)
}

// DataSources returns the ordered data source names, custom metrics source first
func DataSources(state common.MetricsState) []string {
	out := make([]string, len(state.DataSources))
	copy(out, state.DataSources)

	return out
}

// DataSourceTitles returns the display titles parallel to DataSources
func DataSourceTitles(state common.MetricsState) []string {
	out := make([]string, len(state.DataSourceTitles))
	copy(out, state.DataSourceTitles)

	return out
}

// DataSourceIcons returns the icon attributes keyed by data source name
func DataSourceIcons(state common.MetricsState) map[string]common.IconAttributes {
	out := make(map[string]common.IconAttributes, len(state.DataSourceIcons))
	for k, v := range state.DataSourceIcons {
		out[k] = v
	}

	return out
}

// DateSpan returns the active date span filter
func DateSpan(state common.MetricsState) common.DateSpan {
	return state.DateSpan
}
