package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/store"
)

func setupMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresRepository(db), mock
}

func orderRows(o *domain.Order) *sqlmock.Rows {
	itemsJSON, _ := json.Marshal(o.Items)
	return sqlmock.NewRows([]string{
		"id", "user_id", "status", "items", "total_amount",
		"shipping_address", "contact_phone", "created_at", "updated_at",
	}).AddRow(o.ID, o.UserID, o.Status.String(), itemsJSON, o.TotalAmount,
		o.ShippingAddress, o.ContactPhone, time.Now(), time.Now())
}

func TestPostgresRepository_UpdateOrderStatus_Success(t *testing.T) {
	repo, mock := setupMockRepo(t)
	orderID := uuid.New()

	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(domain.OrderStatusPaid.String(), orderID, domain.OrderStatusPendingPayment.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateOrderStatus(context.Background(), orderID, domain.OrderStatusPendingPayment, domain.OrderStatusPaid)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateOrderStatus_LostRace(t *testing.T) {
	repo, mock := setupMockRepo(t)
	orderID := uuid.New()

	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(domain.OrderStatusPaid.String(), orderID, domain.OrderStatusPendingPayment.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// The row still exists, so the zero-row update means a concurrent writer
	// moved the status first.
	existing := &domain.Order{ID: orderID, UserID: 1, Status: domain.OrderStatusCancelled}
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id`).
		WithArgs(orderID).
		WillReturnRows(orderRows(existing))

	err := repo.UpdateOrderStatus(context.Background(), orderID, domain.OrderStatusPendingPayment, domain.OrderStatusPaid)
	assert.ErrorIs(t, err, store.ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateOrderStatus_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)
	orderID := uuid.New()

	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(domain.OrderStatusPaid.String(), orderID, domain.OrderStatusNew.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "status", "items", "total_amount",
			"shipping_address", "contact_phone", "created_at", "updated_at",
		}))

	err := repo.UpdateOrderStatus(context.Background(), orderID, domain.OrderStatusNew, domain.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_AddOrderLine_LockedOrder(t *testing.T) {
	repo, mock := setupMockRepo(t)
	orderID := uuid.New()

	existing := &domain.Order{
		ID:     orderID,
		UserID: 1,
		Status: domain.OrderStatusPendingPayment,
		Items:  []domain.OrderItem{{ProductID: 1, Quantity: 1, UnitPrice: 10}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id .+ FOR UPDATE`).
		WithArgs(orderID).
		WillReturnRows(orderRows(existing))
	mock.ExpectRollback()

	_, err := repo.AddOrderLine(context.Background(), orderID, domain.OrderItem{ProductID: 2, Quantity: 1, UnitPrice: 5})
	assert.ErrorIs(t, err, ErrOrderLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetOrderByID_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)
	orderID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "status", "items", "total_amount",
			"shipping_address", "contact_phone", "created_at", "updated_at",
		}))

	_, err := repo.GetOrderByID(context.Background(), orderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
