package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/models"
)

func TestMemoryOrderRepository_InsertGet(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "ORD_MISSING")
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)

	order := &models.Order{ID: "ORD_1", Status: models.StatusCompleted, DriveFolderURL: "https://example/1"}
	require.NoError(t, repo.Insert(ctx, order))

	order.Status = models.StatusFailed

	got, err := repo.Get(ctx, "ORD_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "https://example/1", got.DriveFolderURL)

	err = repo.Insert(ctx, &models.Order{ID: "ORD_1"})
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func TestMemoryOrderRepository_ListSorted(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Order{ID: "ORD_B", Timestamp: "2024-01-15T10:00:00.002Z"}))
	require.NoError(t, repo.Insert(ctx, &models.Order{ID: "ORD_A", Timestamp: "2024-01-15T10:00:00.001Z"}))
	require.NoError(t, repo.Insert(ctx, &models.Order{ID: "ORD_C", Timestamp: "2024-01-15T10:00:00.001Z"}))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{"ORD_A", "ORD_C", "ORD_B"}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestMemoryOrderRepository_ConcurrentAccess(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("ORD_%d", i)
			assert.NoError(t, repo.Insert(ctx, &models.Order{ID: id}))
			_, err := repo.Get(ctx, id)
			assert.NoError(t, err)
			_, _ = repo.List(ctx)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Len())
}
