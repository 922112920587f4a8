package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

const mysqlDuplicateEntry = 1062

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS orders (
  id             BIGINT AUTO_INCREMENT PRIMARY KEY,
  order_id       VARCHAR(40)  NOT NULL,
  product_name   VARCHAR(200) NOT NULL,
  product_price  DECIMAL(10,2) NOT NULL,
  variant_color  VARCHAR(50)  NOT NULL,
  variant_size   VARCHAR(20)  NOT NULL,
  quantity       INT          NOT NULL,
  full_name      VARCHAR(100) NOT NULL,
  email          VARCHAR(100) NOT NULL,
  phone          CHAR(10)     NOT NULL,
  address        VARCHAR(200) NOT NULL,
  city           VARCHAR(50)  NOT NULL,
  state          CHAR(2)      NOT NULL,
  zip_code       VARCHAR(10)  NOT NULL,
  card_last4     CHAR(4)      NOT NULL,
  payment_status ENUM('approved','declined','error') NOT NULL,
  total          DECIMAL(10,2) NOT NULL,
  created_at     DATETIME(3)  NOT NULL,
  UNIQUE KEY uq_orders_order_id (order_id)
)`

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// EnsureSchema creates the orders table if it is missing.
func (r *MySQLOrderRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, mysqlSchema)
	return err
}

func (r *MySQLOrderRepo) Create(ctx context.Context, o entity.Order) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (order_id,product_name,product_price,variant_color,variant_size,quantity,
  full_name,email,phone,address,city,state,zip_code,card_last4,payment_status,total,created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.OrderID, o.Product.Name, o.Product.Price, o.Product.Variant.Color, o.Product.Variant.Size, o.Product.Quantity,
		o.Customer.FullName, o.Customer.Email, o.Customer.Phone, o.Customer.Address, o.Customer.City, o.Customer.State, o.Customer.ZipCode,
		o.Payment.CardNumber, string(o.Payment.Status), o.Total, o.CreatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return usecase.ErrDuplicateOrderID
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, orderID string) (entity.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT order_id,product_name,product_price,variant_color,variant_size,quantity,
  full_name,email,phone,address,city,state,zip_code,card_last4,payment_status,total,created_at
FROM orders WHERE order_id=?`, orderID)

	o, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

// scanOrder reads the column list shared by the SQL stores.
func scanOrder(scan func(dest ...any) error) (entity.Order, error) {
	var o entity.Order
	var status string
	err := scan(
		&o.OrderID, &o.Product.Name, &o.Product.Price, &o.Product.Variant.Color, &o.Product.Variant.Size, &o.Product.Quantity,
		&o.Customer.FullName, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address, &o.Customer.City, &o.Customer.State, &o.Customer.ZipCode,
		&o.Payment.CardNumber, &status, &o.Total, &o.CreatedAt,
	)
	if err != nil {
		return entity.Order{}, err
	}
	o.Payment.Status = entity.PaymentStatus(status)
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
