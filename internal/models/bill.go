package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillLine is a single pending bill item retrieved from the POS database.
// Amount is net of discounts; VATAmount is the tax on top of it.
type BillLine struct {
	RowID        int             `json:"row_id" db:"bill_dtl_row_id"`
	Description  string          `json:"description" db:"prod_bill_desc"`
	Quantity     decimal.Decimal `json:"quantity" db:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"price"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	ItemDiscount decimal.Decimal `json:"item_discount" db:"item_disc_amt"`
	BillDiscount decimal.Decimal `json:"bill_discount" db:"bill_wise_disc_amt"`
	VATAmount    decimal.Decimal `json:"vat_amount" db:"vat_amt"`
	VATRate      decimal.Decimal `json:"vat_rate" db:"vat"`
	IsVoid       bool            `json:"is_void" db:"is_void"`
	IsModifier   bool            `json:"is_modifier" db:"is_modifier"`
	SeqNo        int             `json:"seq_no" db:"seq_no"`
}

// Cart is a customer's pending bill with computed totals, cached between the
// cart-load and payment steps of the kiosk flow.
type Cart struct {
	ID          string          `json:"id"`
	CustomerKey int             `json:"customer_key"`
	Items       []BillLine      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	LoadedAt    time.Time       `json:"loaded_at"`
}

// NewCart computes totals over the given bill lines. Void lines are excluded
// from the sums even if the POS query let one through.
func NewCart(id string, customerKey int, items []BillLine) *Cart {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range items {
		if item.IsVoid {
			continue
		}
		subtotal = subtotal.Add(item.Amount)
		tax = tax.Add(item.VATAmount)
	}

	return &Cart{
		ID:          id,
		CustomerKey: customerKey,
		Items:       items,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       subtotal.Add(tax),
		LoadedAt:    time.Now().UTC(),
	}
}

// ItemCount returns the number of non-void lines in the cart.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		if !item.IsVoid {
			n++
		}
	}
	return n
}
