package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"erp-featurestore-be/internal/apperror"
	"erp-featurestore-be/internal/config"
	"erp-featurestore-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreService_InsertBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty batch is a no-op", func(t *testing.T) {
		h := newHarness(t)

		n, err := h.store.InsertBatch(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		n, err = h.store.InsertBatch(ctx, []entity.SnapshotInput{})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("Repeated key in one batch keeps the last value", func(t *testing.T) {
		h := newHarness(t)
		def, err := h.registry.Register(ctx, RegisterDefinitionParams{Name: "f", Entity: "project"})
		require.NoError(t, err)

		ts := testNow
		n, err := h.store.InsertBatch(ctx, []entity.SnapshotInput{
			{FeatureId: def.Id, EntityId: "e1", Ts: ts, Value: entity.Document{"v": 1}},
			{FeatureId: def.Id, EntityId: "e2", Ts: ts, Value: entity.Document{"v": 2}},
			{FeatureId: def.Id, EntityId: "e1", Ts: ts.In(time.FixedZone("WIB", 7*3600)), Value: entity.Document{"v": 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, int64(2), h.snapshotCount(t, def.Id))

		latest, err := h.store.Latest(ctx, def.Id, "e1")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, float64(3), latest.Value["v"])
	})

	t.Run("Rewriting the same key updates in place", func(t *testing.T) {
		h := newHarness(t)
		def, err := h.registry.Register(ctx, RegisterDefinitionParams{Name: "f", Entity: "project"})
		require.NoError(t, err)

		for _, v := range []int{1, 2, 3} {
			_, err := h.store.InsertBatch(ctx, []entity.SnapshotInput{
				{FeatureId: def.Id, EntityId: "e1", Ts: testNow, Value: entity.Document{"v": v}},
			})
			require.NoError(t, err)
		}
		assert.Equal(t, int64(1), h.snapshotCount(t, def.Id))
	})

	t.Run("Invalid item aborts the whole batch", func(t *testing.T) {
		h := newHarness(t)
		def, err := h.registry.Register(ctx, RegisterDefinitionParams{Name: "f", Entity: "project"})
		require.NoError(t, err)

		tests := []struct {
			name string
			item entity.SnapshotInput
		}{
			{name: "missing entity", item: entity.SnapshotInput{FeatureId: def.Id, Ts: testNow}},
			{name: "missing ts", item: entity.SnapshotInput{FeatureId: def.Id, EntityId: "e1"}},
			{name: "missing feature", item: entity.SnapshotInput{EntityId: "e1", Ts: testNow}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				n, err := h.store.InsertBatch(ctx, []entity.SnapshotInput{
					{FeatureId: def.Id, EntityId: "ok", Ts: testNow},
					tt.item,
				})
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperror.ErrInvalid))
				assert.Equal(t, 0, n)
				assert.Equal(t, int64(0), h.snapshotCount(t, def.Id))
			})
		}
	})
}

func TestSnapshotStoreService_Timeseries(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultFeatureStore()
	cfg.TimeseriesDefaultLimit = 5
	cfg.TimeseriesMaxLimit = 8
	h := newHarnessWithConfig(t, cfg)

	def, err := h.registry.Register(ctx, RegisterDefinitionParams{Name: "f", Entity: "project"})
	require.NoError(t, err)

	items := make([]entity.SnapshotInput, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, entity.SnapshotInput{
			FeatureId: def.Id,
			EntityId:  "e1",
			Ts:        testNow.Add(time.Duration(i) * time.Minute),
			Value:     entity.Document{"i": i},
		})
	}
	_, err = h.store.InsertBatch(ctx, items)
	require.NoError(t, err)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: 5},
		{name: "negative uses default", limit: -1, want: 5},
		{name: "explicit", limit: 3, want: 3},
		{name: "capped at max", limit: 100, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := h.store.Timeseries(ctx, def.Id, "e1", tt.limit)
			require.NoError(t, err)
			require.Len(t, series, tt.want)
			assert.Equal(t, float64(9), series[0].Value["i"])
			for i := 1; i < len(series); i++ {
				assert.True(t, series[i-1].Ts.After(series[i].Ts))
			}
		})
	}

	latest, err := h.store.Latest(ctx, def.Id, "e1")
	require.NoError(t, err)
	assert.Equal(t, float64(9), latest.Value["i"])

	none, err := h.store.Latest(ctx, def.Id, "unknown")
	require.NoError(t, err)
	assert.Nil(t, none)
}
