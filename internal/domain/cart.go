package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartTTL is the maximum age of a persisted cart snapshot. Older snapshots
// are discarded wholesale on load, never partially merged.
const CartTTL = 24 * time.Hour

type Cart struct {
	SessionID string          `json:"session_id"`
	Items     []CartLineItem  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartLineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	ImageRef  string          `json:"image_ref,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Recompute derives Total from the line items. Every mutation goes through
// this; Total is never stored independently of a recompute.
func (c *Cart) Recompute() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	c.Total = total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of quantities across all line items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartSummary is a pure read of the cart state for display.
type CartSummary struct {
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	IsEmpty   bool            `json:"is_empty"`
}
