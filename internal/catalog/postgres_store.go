package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// PostgresStore reads the products table of the shared ledger database.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Lookup(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `SELECT id, name, description, price, available FROM products WHERE id = $1`

	var product domain.Product
	err := s.db.QueryRowContext(ctx, query, productID).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Available,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &product, nil
}

func (s *PostgresStore) List(ctx context.Context, availableOnly bool) ([]domain.Product, error) {
	query := `SELECT id, name, description, price, available FROM products ORDER BY id`
	if availableOnly {
		query = `SELECT id, name, description, price, available FROM products WHERE available = TRUE ORDER BY id`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Available,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
