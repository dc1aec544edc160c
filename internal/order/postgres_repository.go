package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/store"
)

// PostgresRepository persists orders in the shared ledger database.
// Items are stored as JSONB next to the derived total so a single row write
// keeps the lines/total pair consistent.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders (id, user_id, status, items, total_amount, shipping_address, contact_phone, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.Status.String(),
		itemsJSON,
		order.TotalAmount,
		order.ShippingAddress,
		order.ContactPhone)

	if insertErr != nil {
		return store.MapError(insertErr)
	}
	return nil
}

func (r *PostgresRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, items, total_amount, shipping_address, contact_phone, created_at, updated_at
		 FROM orders WHERE id = $1`, id))
}

func (r *PostgresRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT id, user_id, status, items, total_amount, shipping_address, contact_phone, created_at, updated_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.MapError(err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, store.MapError(err)
	}
	return orders, nil
}

func (r *PostgresRepository) AddOrderLine(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.MapError(err)
	}
	defer tx.Rollback()

	// The row lock spans the merge and the total write, so no reader ever
	// sees them out of step.
	order, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT id, user_id, status, items, total_amount, shipping_address, contact_phone, created_at, updated_at
		 FROM orders WHERE id = $1 FOR UPDATE`, orderID))
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusNew {
		return nil, ErrOrderLocked
	}

	order.MergeItem(item)

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET items = $1, total_amount = $2, updated_at = NOW() WHERE id = $3`,
		itemsJSON, order.TotalAmount, orderID)
	if err != nil {
		return nil, store.MapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, store.MapError(err)
	}
	return order, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to.String(), orderID, from.String())
	if err != nil {
		return store.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.MapError(err)
	}
	if affected == 0 {
		// Either the row is gone or a concurrent writer moved the status
		// first; tell them apart so callers get a retryable error only for
		// the race.
		if _, getErr := r.GetOrderByID(ctx, orderID); errors.Is(getErr, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return store.ErrConcurrentModification
	}
	return nil
}

func (r *PostgresRepository) SetShipping(ctx context.Context, orderID uuid.UUID, address, phone string, allowed []domain.OrderStatus) (*domain.Order, error) {
	statuses := make([]string, len(allowed))
	for i, status := range allowed {
		statuses[i] = status.String()
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET shipping_address = $1, contact_phone = $2, updated_at = NOW()
		 WHERE id = $3 AND status = ANY($4)`,
		address, phone, orderID, pq.Array(statuses))
	if err != nil {
		return nil, store.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, store.MapError(err)
	}
	if affected == 0 {
		if _, getErr := r.GetOrderByID(ctx, orderID); errors.Is(getErr, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, ErrOrderLocked
	}

	return r.GetOrderByID(ctx, orderID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte
	var rawStatus string

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&rawStatus,
		&itemsJSON,
		&order.TotalAmount,
		&order.ShippingAddress,
		&order.ContactPhone,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, store.MapError(err)
	}

	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("stored order is corrupt: %w", err)
	}
	order.Status = status

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	return &order, nil
}
