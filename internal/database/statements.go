package database

import (
	"time"

	"github.com/gocql/gocql"
)

// CQL for the hot POS paths: the login email lookup, product reads at
// cart-add and checkout time, and the stock write. gocql prepares each
// statement once per session and reuses the plan on every execution;
// issuing a fresh Query per call keeps the bound values off shared
// state, so concurrent registers never overwrite each other's
// arguments.
const (
	stmtUserIDByEmail = "SELECT user_id FROM users_by_email WHERE email = ?"

	stmtProductByID = `SELECT product_id, name, barcode, price_minor, currency, stock, low_stock_threshold,
		category_id, image_urls, discount_percent, discount_expires_at, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`

	stmtProductStock = "SELECT stock, name, is_active FROM products WHERE product_id = ?"

	stmtUpdateProductStock = "UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ?"
)

// UserIDByEmail resolves a staff email through the lookup table.
func UserIDByEmail(email string) (gocql.UUID, error) {
	session, err := GetUsersSession()
	if err != nil {
		return gocql.UUID{}, err
	}

	var id gocql.UUID
	err = session.Query(stmtUserIDByEmail, email).Scan(&id)
	return id, err
}

// ProductByIDQuery returns the full-row product read. Callers scan it
// themselves; the column order is fixed by stmtProductByID.
func ProductByIDQuery(productID gocql.UUID) (*gocql.Query, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, err
	}
	return session.Query(stmtProductByID, productID), nil
}

// ProductStock reads just what a stock check needs, skipping the wide
// product row.
func ProductStock(productID gocql.UUID) (stock int, name string, active bool, err error) {
	session, err := GetProductsSession()
	if err != nil {
		return 0, "", false, err
	}
	err = session.Query(stmtProductStock, productID).Scan(&stock, &name, &active)
	return stock, name, active, err
}

// UpdateProductStock writes the new stock level.
func UpdateProductStock(stock int, updatedAt time.Time, productID gocql.UUID) error {
	session, err := GetProductsSession()
	if err != nil {
		return err
	}
	return session.Query(stmtUpdateProductStock, stock, updatedAt, productID).Exec()
}
