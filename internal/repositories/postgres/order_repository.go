package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lucsky/cuid"

	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order, customerID string) (string, error) {
	dbID := order.DBID
	if dbID == "" {
		dbID = cuid.New()
	}

	query := `
        INSERT INTO orders (
            db_id, display_id, customer_id, subtotal, discount_code,
            discount_amount, tax_rate, tax_amount, total, payment_type,
            placed_at, status, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW()
        )
    `
	_, err := r.pool.Exec(ctx, query,
		dbID,
		order.ID,
		customerID,
		order.Subtotal,
		nullableString(order.DiscountCode),
		order.DiscountAmount,
		order.TaxRate,
		order.TaxAmount,
		order.Total,
		order.PaymentType,
		order.Timestamp,
		order.Status,
	)
	if err != nil {
		return "", err
	}
	return dbID, nil
}

func (r *OrderRepository) CreateOrderItems(ctx context.Context, dbID string, items []models.OrderItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{
			"order_id", "item_id", "name", "price", "category",
			"description", "quantity", "total_price",
		},
		pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
			return []interface{}{
				dbID,
				items[i].Item.ID,
				items[i].Item.Name,
				items[i].Item.Price,
				items[i].Item.Category,
				items[i].Item.Description,
				items[i].Quantity,
				items[i].TotalPrice,
			}, nil
		}),
	)
	return err
}

func (r *OrderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	query := `
        SELECT
            o.db_id,
            o.display_id,
            o.subtotal,
            o.discount_code,
            o.discount_amount,
            o.tax_rate,
            o.tax_amount,
            o.total,
            o.payment_type,
            o.placed_at,
            o.status,
            c.id,
            c.name,
            c.mobile
        FROM orders o
        JOIN customers c ON c.id = o.customer_id
        ORDER BY o.created_at DESC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var discountCode sql.NullString
		var placedAt time.Time
		err := rows.Scan(
			&order.DBID,
			&order.ID,
			&order.Subtotal,
			&discountCode,
			&order.DiscountAmount,
			&order.TaxRate,
			&order.TaxAmount,
			&order.Total,
			&order.PaymentType,
			&placedAt,
			&order.Status,
			&order.Customer.ID,
			&order.Customer.Name,
			&order.Customer.Mobile,
		)
		if err != nil {
			return nil, err
		}
		if discountCode.Valid {
			order.DiscountCode = discountCode.String
		}
		order.Timestamp = placedAt
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) ListOrderItems(ctx context.Context, dbID string) ([]models.OrderItem, error) {
	query := `
        SELECT item_id, name, price, category, description, quantity, total_price
        FROM order_items
        WHERE order_id = $1
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query, dbID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.Item.ID,
			&item.Item.Name,
			&item.Item.Price,
			&item.Item.Category,
			&item.Item.Description,
			&item.Quantity,
			&item.TotalPrice,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, dbID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE db_id = $1`, dbID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
