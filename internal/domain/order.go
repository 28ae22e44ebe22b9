package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompletedOrder is the fact published when a checkout succeeds. Creating
// the durable order record from it happens downstream of the broker.
type CompletedOrder struct {
	CheckoutID    string          `json:"checkout_id"`
	SessionID     string          `json:"session_id"`
	Items         []CartLineItem  `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Provider      ProviderID      `json:"provider"`
	TransactionID string          `json:"transaction_id"`
	CompletedAt   time.Time       `json:"completed_at"`
}
