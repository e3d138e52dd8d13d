// Package repository holds the order status stores: an in-process map and
// the MongoDB and DynamoDB backed alternatives.
package repository

import (
	"errors"
	"sort"

	"artistic-unity-backend/internal/models"
)

// ErrDuplicateOrder is returned when an order id is inserted twice.
var ErrDuplicateOrder = errors.New("order already recorded")

// sortOrders orders records by timestamp, then id.
func sortOrders(orders []*models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Timestamp != orders[j].Timestamp {
			return orders[i].Timestamp < orders[j].Timestamp
		}
		return orders[i].ID < orders[j].ID
	})
}
