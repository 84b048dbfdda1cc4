package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glazehaus/studio_scheduler/internal/model"
	"github.com/glazehaus/studio_scheduler/internal/repository/base"
)

type ProductRepository struct {
	*base.Repository
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{Repository: base.NewRepository(pool)}
}

// GetActive returns every active product with its type-specific detail
// decoded from the JSONB column.
func (r *ProductRepository) GetActive(ctx context.Context) ([]*model.Product, error) {
	query := `
		SELECT id, name, type, price, detail, is_active, created_at
		FROM products
		WHERE is_active = TRUE
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, nil
}

// GetByID returns one product or nil when absent.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, name, type, price, detail, is_active, created_at
		FROM products
		WHERE id = $1
	`

	rows, err := r.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	return scanProduct(rows)
}

// Create inserts a product, serializing the detail union as JSONB.
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	detail, err := json.Marshal(p.Detail)
	if err != nil {
		return fmt.Errorf("marshal product detail: %w", err)
	}

	query := `
		INSERT INTO products (name, type, price, detail, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = r.QueryRow(ctx, query, p.Name, p.Type, p.Price, detail, p.IsActive).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func scanProduct(rows pgx.Rows) (*model.Product, error) {
	var (
		p      model.Product
		detail []byte
	)
	if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Price, &detail, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &p.Detail); err != nil {
			return nil, fmt.Errorf("decode product detail: %w", err)
		}
	}
	return &p, nil
}
