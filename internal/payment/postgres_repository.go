package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/store"
)

// PostgresRepository persists payments in the shared ledger database.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	query := `INSERT INTO payments (id, order_id, amount, status, method, transaction_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.Amount,
		payment.Status.String(),
		payment.Method,
		payment.TransactionID)
	if err != nil {
		return store.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx,
		`SELECT id, order_id, amount, status, method, transaction_id, created_at, updated_at
		 FROM payments WHERE id = $1`, id))
}

func (r *PostgresRepository) ListPaymentsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	query := `SELECT id, order_id, amount, status, method, transaction_id, created_at, updated_at
	          FROM payments WHERE order_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, store.MapError(err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, scanErr := scanPayment(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, store.MapError(err)
	}
	return payments, nil
}

func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to domain.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to.String(), id, from.String())
	if err != nil {
		return store.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.MapError(err)
	}
	if affected == 0 {
		if _, getErr := r.GetPaymentByID(ctx, id); errors.Is(getErr, ErrPaymentNotFound) {
			return ErrPaymentNotFound
		}
		return store.ErrConcurrentModification
	}
	return nil
}

func (r *PostgresRepository) HasCompletedPayment(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM payments WHERE order_id = $1 AND status = $2)`,
		orderID, domain.PaymentStatusCompleted.String()).Scan(&exists)
	if err != nil {
		return false, store.MapError(err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var rawStatus string

	err := row.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Amount,
		&rawStatus,
		&payment.Method,
		&payment.TransactionID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, store.MapError(err)
	}

	status, err := domain.ParsePaymentStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("stored payment is corrupt: %w", err)
	}
	payment.Status = status
	return &payment, nil
}
