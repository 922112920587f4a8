package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS orders (
  id             BIGSERIAL PRIMARY KEY,
  order_id       TEXT NOT NULL UNIQUE,
  product_name   TEXT NOT NULL,
  product_price  NUMERIC(10,2) NOT NULL,
  variant_color  TEXT NOT NULL,
  variant_size   TEXT NOT NULL,
  quantity       INT  NOT NULL,
  full_name      TEXT NOT NULL,
  email          TEXT NOT NULL,
  phone          TEXT NOT NULL,
  address        TEXT NOT NULL,
  city           TEXT NOT NULL,
  state          CHAR(2) NOT NULL,
  zip_code       TEXT NOT NULL,
  card_last4     CHAR(4) NOT NULL,
  payment_status TEXT NOT NULL CHECK (payment_status IN ('approved','declined','error')),
  total          NUMERIC(10,2) NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL
)`

type PostgresOrderRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepo(pool *pgxpool.Pool) *PostgresOrderRepo {
	return &PostgresOrderRepo{pool: pool}
}

// EnsureSchema creates the orders table if it is missing.
func (r *PostgresOrderRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

func (r *PostgresOrderRepo) Create(ctx context.Context, o entity.Order) error {
	const stmt = `
INSERT INTO orders (order_id,product_name,product_price,variant_color,variant_size,quantity,
  full_name,email,phone,address,city,state,zip_code,card_last4,payment_status,total,created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`

	_, err := r.pool.Exec(ctx, stmt,
		o.OrderID, o.Product.Name, o.Product.Price, o.Product.Variant.Color, o.Product.Variant.Size, o.Product.Quantity,
		o.Customer.FullName, o.Customer.Email, o.Customer.Phone, o.Customer.Address, o.Customer.City, o.Customer.State, o.Customer.ZipCode,
		o.Payment.CardNumber, string(o.Payment.Status), o.Total, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrDuplicateOrderID
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepo) GetByID(ctx context.Context, orderID string) (entity.Order, error) {
	const query = `
SELECT order_id,product_name,product_price::float8,variant_color,variant_size,quantity,
  full_name,email,phone,address,city,state,zip_code,card_last4,payment_status,total::float8,created_at
FROM orders WHERE order_id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, orderID).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Order{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ usecase.OrderRepo = (*PostgresOrderRepo)(nil)
