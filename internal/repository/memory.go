package repository

import (
	"context"
	"fmt"
	"sync"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/models"
)

// MemoryOrderRepository keeps orders in a process-local map. It starts empty
// and is never pruned.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]models.Order)}
}

func (r *MemoryOrderRepository) Insert(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *MemoryOrderRepository) Get(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperr.ErrOrderNotFound
	}
	return &order, nil
}

func (r *MemoryOrderRepository) List(_ context.Context) ([]*models.Order, error) {
	r.mu.RLock()
	out := make([]*models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		order := order
		out = append(out, &order)
	}
	r.mu.RUnlock()

	sortOrders(out)
	return out, nil
}

// Len reports how many orders are recorded.
func (r *MemoryOrderRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
