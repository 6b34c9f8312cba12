package repository

import (
	"context"
	"database/sql"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetCustomerKeyByCardNo resolves a scanned card/NFC tag to a customer key.
// Returns nil when no customer matches.
func (r *CustomerRepository) GetCustomerKeyByCardNo(ctx context.Context, cardNo string) (*int, error) {
	query := `SELECT cus_key FROM mst_customer_supplier WHERE card_no = $1 LIMIT 1`

	var key int
	err := r.db.QueryRowContext(ctx, query, cardNo).Scan(&key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &key, nil
}
