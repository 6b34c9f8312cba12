package repository

import (
	"context"
	"database/sql"

	"github.com/yourorg/checkout-kiosk/internal/models"
)

type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

// GetBillLinesByCustomerKey returns the customer's open bill lines in entry
// order. An empty slice means no pending bill.
func (r *BillRepository) GetBillLinesByCustomerKey(ctx context.Context, customerKey int) ([]models.BillLine, error) {
	query := `
		SELECT bill_dtl_row_id, prod_bill_desc, qty, price, amount,
		       item_disc_amt, bill_wise_disc_amt, vat_amt, vat,
		       is_void, is_modifier, seq_no
		FROM trn_bill_detail
		WHERE cus_key = $1 AND status = 'OPEN' AND is_void = 0
		ORDER BY seq_no
	`

	rows, err := r.db.QueryContext(ctx, query, customerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.BillLine
	for rows.Next() {
		var (
			line       models.BillLine
			isVoid     int
			isModifier int
		)
		err := rows.Scan(
			&line.RowID,
			&line.Description,
			&line.Quantity,
			&line.UnitPrice,
			&line.Amount,
			&line.ItemDiscount,
			&line.BillDiscount,
			&line.VATAmount,
			&line.VATRate,
			&isVoid,
			&isModifier,
			&line.SeqNo,
		)
		if err != nil {
			return nil, err
		}
		// POS stores the flags as 0/1 integers
		line.IsVoid = isVoid != 0
		line.IsModifier = isModifier != 0
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
