package selectors

import (
	"fmt"
	"testing"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func createState() common.MetricsState {
	return common.MetricsState{
		Metrics: []common.Metric{
			{ID: "m1", Name: "cpu.load", Catalog: "db1"},
			{ID: "m2", Name: "mem.used", Catalog: "db1"},
			{ID: "m3", Name: "CPU.steal", Catalog: "db2"},
		},
		Selected: []string{"m3"},
		MetricsLayout: []common.LayoutEntry{
			{
				ID: "m3", X: 0, Y: 0, W: 12, H: 2,
				Query: &common.MetricQuery{Aggregation: "sum", AttributesGroupBy: []string{"host"}},
			},
		},
		DataSources:      []string{common.CustomMetricsSource, "db1"},
		DataSourceTitles: []string{common.CustomMetricsTitle, "db1"},
		DataSourceIcons:  common.ColoredIconsFrom([]string{common.CustomMetricsSource, "db1"}),
	}
}

func TestAvailableMetrics(t *testing.T) {
	t.Parallel()

	t.Run("empty search returns every unselected metric", func(t *testing.T) {
		state := createState()

		available := AvailableMetrics(state)
		require.Len(t, available, 2)
		assert.Equal(t, "m1", available[0].ID)
		assert.Equal(t, "m2", available[1].ID)
	})
	t.Run("search filters by name", func(t *testing.T) {
		state := common.MetricsState{
			Metrics: []common.Metric{
				{ID: "a", Name: "cpu.load"},
				{ID: "b", Name: "mem.used"},
			},
			Search: "cpu",
		}

		available := AvailableMetrics(state)
		require.Len(t, available, 1)
		assert.Equal(t, "cpu.load", available[0].Name)
	})
	t.Run("search is case insensitive and skips selected", func(t *testing.T) {
		state := createState()
		state.Search = "CPU"

		available := AvailableMetrics(state)
		require.Len(t, available, 1)
		assert.Equal(t, "m1", available[0].ID)
	})
	t.Run("search text is not a pattern", func(t *testing.T) {
		state := createState()
		state.Search = "cpu.*"

		assert.Empty(t, AvailableMetrics(state))
	})
}

func TestSelectedMetrics(t *testing.T) {
	t.Parallel()

	state := createState()
	state.Selected = []string{"m2", "missing", "m1"}

	selected := SelectedMetrics(state)
	require.Len(t, selected, 2)
	assert.Equal(t, "m2", selected[0].ID)
	assert.Equal(t, "m1", selected[1].ID)
}

func TestMetricByID(t *testing.T) {
	t.Parallel()

	state := createState()

	m, found := MetricByID(state, "m2")
	assert.True(t, found)
	assert.Equal(t, "mem.used", m.Name)

	_, found = MetricByID(state, "m9")
	assert.False(t, found)
}

func TestMetricQuery(t *testing.T) {
	t.Parallel()

	state := createState()

	q := MetricQuery(state, "m3")
	assert.Equal(t, "sum", q.Aggregation)
	assert.Equal(t, []string{"host"}, q.AttributesGroupBy)

	q = MetricQuery(state, "m1")
	assert.Equal(t, common.MetricQuery{
		Aggregation:         "",
		AttributesGroupBy:   []string{},
		AvailableAttributes: []string{},
	}, q)
}

func TestSelectorsDoNotLeakState(t *testing.T) {
	t.Parallel()

	state := createState()

	q := MetricQuery(state, "m3")
	q.AttributesGroupBy[0] = "changed"
	assert.Equal(t, "host", state.MetricsLayout[0].Query.AttributesGroupBy[0])

	sources := DataSources(state)
	sources[0] = "changed"
	assert.Equal(t, common.CustomMetricsSource, state.DataSources[0])

	icons := DataSourceIcons(state)
	delete(icons, "db1")
	assert.Len(t, state.DataSourceIcons, 2)
}

func TestProperty_SelectorsAreIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		numMetrics := rapid.IntRange(0, 20).Draw(rt, "numMetrics")
		names := []string{"cpu.load", "mem.used", "disk.io", "net.rx", "CPU.idle"}

		state := common.MetricsState{}
		for i := 0; i < numMetrics; i++ {
			id := fmt.Sprintf("m%d", i)
			state.Metrics = append(state.Metrics, common.Metric{
				ID:   id,
				Name: rapid.SampledFrom(names).Draw(rt, fmt.Sprintf("name_%d", i)),
			})
			if rapid.Bool().Draw(rt, fmt.Sprintf("selected_%d", i)) {
				state.Selected = append(state.Selected, id)
			}
		}
		state.Search = rapid.SampledFrom([]string{"", "cpu", "MEM", "x"}).Draw(rt, "search")

		if fmt.Sprint(AvailableMetrics(state)) != fmt.Sprint(AvailableMetrics(state)) {
			rt.Fatalf("available metrics selector is not idempotent")
		}
		if fmt.Sprint(SelectedMetrics(state)) != fmt.Sprint(SelectedMetrics(state)) {
			rt.Fatalf("selected metrics selector is not idempotent")
		}

		total := len(AvailableMetrics(state)) + len(SelectedMetrics(state))
		if total > len(state.Metrics) {
			rt.Fatalf("selectors returned %d metrics out of a %d catalog", total, len(state.Metrics))
		}
	})
}
