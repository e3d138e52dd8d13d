package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/models"
	"artistic-unity-backend/internal/repository"
)

const uniqueViolation = "23505"

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OrderRepository stores each order as a JSONB document next to the columns
// used for lookups and ordering.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	document, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order %s: %w", order.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (id, status, order_timestamp, drive_folder_url, document)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, string(order.Status), order.Timestamp, order.DriveFolderURL, document)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateOrder, order.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	var document []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT document
		FROM orders
		WHERE id = $1
	`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	var order models.Order
	if err := json.Unmarshal(document, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", id, err)
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT document
		FROM orders
		ORDER BY order_timestamp ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		var order models.Order
		if err := json.Unmarshal(document, &order); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}
