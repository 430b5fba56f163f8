package savedobjects

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_SaveAndGetBulk(t *testing.T) {
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.False(t, s.IsInterfaceNil())
	defer func() {
		_ = s.Close()
	}()

	ctx := context.Background()
	now := time.Now().UnixMilli()

	firstID, err := s.SaveVisualization(ctx, common.SavedVisualization{
		Name:    "cpu custom",
		Query:   "source = prom.cpu | stats avg(@value)",
		Type:    "line",
		SubType: common.CustomMetricSubType,
	}, now-1000)
	require.NoError(t, err)
	require.NotEmpty(t, firstID)

	secondID, err := s.SaveVisualization(ctx, common.SavedVisualization{
		Name: "plain bar",
		Type: "bar",
	}, now)
	require.NoError(t, err)
	require.NotEqual(t, firstID, secondID)

	objects, err := s.GetBulk(ctx, common.SavedVisualizationType)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	require.Equal(t, firstID, objects[0].ObjectID)
	require.Equal(t, now-1000, objects[0].CreatedTimeMs)
	require.Equal(t, "cpu custom", objects[0].SavedVisualization.Name)
	require.Equal(t, common.CustomMetricSubType, objects[0].SavedVisualization.SubType)
	require.Equal(t, "bar", objects[1].SavedVisualization.Type)

	objects, err = s.GetBulk(ctx, "notebook")
	require.NoError(t, err)
	require.Empty(t, objects)
}

func TestSQLiteStorage_SaveEmptyName(t *testing.T) {
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	_, err = s.SaveVisualization(context.Background(), common.SavedVisualization{}, 0)
	require.Error(t, err)
}

func TestSQLiteStorage_DeleteObject(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "saved.db"))
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	ctx := context.Background()
	id, err := s.SaveVisualization(ctx, common.SavedVisualization{Name: "to delete"}, 1)
	require.NoError(t, err)

	err = s.DeleteObject(ctx, id)
	require.NoError(t, err)

	err = s.DeleteObject(ctx, id)
	require.True(t, errors.Is(err, ErrObjectNotFound))

	objects, err := s.GetBulk(ctx, common.SavedVisualizationType)
	require.NoError(t, err)
	require.Empty(t, objects)
}
