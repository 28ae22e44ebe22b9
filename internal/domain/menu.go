package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is one dish on the storefront menu. The catalog is read-only
// from the storefront's point of view.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
}
