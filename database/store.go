package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"

	"storefront-service/checkout"
	"storefront-service/models"
)

const duplicateKeyErr = 1062

// Store is the only path that mutates the product collection outside of
// admin writes. All stock changes go through CreatePaidOrder's transaction
// or UpdateProduct; nothing else touches the stock column.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ----- Products -----

func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, stock, image, description, active
		FROM products
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image, &p.Description, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", checkout.ErrProductUnavailable, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, stock, image, description, active
		FROM products
		WHERE active = 1
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image, &p.Description, &p.Active); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct applies an admin edit. Returns false if no such product.
func (s *Store) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (bool, error) {
	sets := []string{}
	args := []interface{}{}
	if upd.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *upd.Price)
	}
	if upd.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *upd.Stock)
	}
	if upd.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *upd.Active)
	}
	if len(sets) == 0 {
		return false, errors.New("no fields to update")
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE products SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ----- Coupons -----

func (s *Store) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := s.db.QueryRowContext(ctx, `
		SELECT code, type, value, min_order, active
		FROM coupons
		WHERE code = ?
	`, strings.ToUpper(code)).Scan(&c.Code, &c.Type, &c.Value, &c.MinOrder, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", checkout.ErrCouponNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO coupons (code, type, value, min_order, active)
		VALUES (?, ?, ?, ?, ?)
	`, c.Code, c.Type, c.Value, c.MinOrder, c.Active)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateKeyErr {
		return fmt.Errorf("coupon %s already exists", c.Code)
	}
	return err
}

func (s *Store) DeactivateCoupon(ctx context.Context, code string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE coupons SET active = 0 WHERE code = ?", strings.ToUpper(code))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ----- Orders -----

// CreatePaidOrder persists a verified order and decrements stock for every
// line in one transaction. The conditional decrement (stock >= quantity) is
// the stock re-check at verification time: if any line cannot be fully
// stocked the whole batch rolls back and nothing is written. A duplicate
// order id means a retry of an already-processed payment and surfaces as
// checkout.ErrAlreadyProcessed before any decrement.
func (s *Store) CreatePaidOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, payment_id, total_amount, status, email, name,
		                    phone, address, city, pincode, email_sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, order.ID, order.PaymentID, order.TotalAmount, order.Status,
		order.Delivery.Email, order.Delivery.Name, order.Delivery.Phone,
		order.Delivery.Address, order.Delivery.City, order.Delivery.Pincode,
		order.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateKeyErr {
			return checkout.ErrAlreadyProcessed
		}
		return err
	}

	for _, item := range order.Items {
		options, err := json.Marshal(item.SelectedOptions)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, selected_options)
			VALUES (?, ?, ?, ?, ?, ?)
		`, order.ID, item.ProductID, item.Name, item.Price, item.Quantity, string(options)); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
		`, item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", checkout.ErrInsufficientStock, item.ProductID)
		}
	}

	return tx.Commit()
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, payment_id, total_amount, status, email, name,
		       phone, address, city, pincode, email_sent, created_at
		FROM orders
		WHERE id = ?
	`, id).Scan(&order.ID, &order.PaymentID, &order.TotalAmount, &order.Status,
		&order.Delivery.Email, &order.Delivery.Name, &order.Delivery.Phone,
		&order.Delivery.Address, &order.Delivery.City, &order.Delivery.Pincode,
		&order.EmailSent, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.orderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (s *Store) orderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, product_name, unit_price, quantity, selected_options
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var options string
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &options); err != nil {
			return nil, err
		}
		if options != "" && options != "null" {
			if err := json.Unmarshal([]byte(options), &item.SelectedOptions); err != nil {
				log.Printf("Error decoding options for order %s: %v", orderID, err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentOrders returns the newest orders with their line items.
func (s *Store) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payment_id, total_amount, status, email, name,
		       phone, address, city, pincode, email_sent, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.PaymentID, &order.TotalAmount, &order.Status,
			&order.Delivery.Email, &order.Delivery.Name, &order.Delivery.Phone,
			&order.Delivery.Address, &order.Delivery.City, &order.Delivery.Pincode,
			&order.EmailSent, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateOrderStatus applies an admin fulfillment transition. Returns false
// if no such order.
func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) MarkEmailSent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET email_sent = 1 WHERE id = ?", id)
	return err
}
