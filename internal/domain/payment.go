package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProviderID string

const (
	ProviderMTNMoMo     ProviderID = "mtn-momo"
	ProviderOrangeMoney ProviderID = "orange-money"
	ProviderMastercard  ProviderID = "mastercard"
	ProviderVisa        ProviderID = "visa"
)

type ProviderCategory string

const (
	CategoryMobileMoney ProviderCategory = "mobile-money"
	CategoryCard        ProviderCategory = "card"
)

// Provider is display metadata for a payment channel. Immutable, part of a
// process-wide static table, not user data.
type Provider struct {
	ID          ProviderID       `json:"id"`
	Name        string           `json:"name"`
	Icon        string           `json:"icon"`
	Color       string           `json:"color"`
	Description string           `json:"description"`
	Category    ProviderCategory `json:"category"`
}

type PaymentState string

const (
	StateCollectingInput      PaymentState = "collecting-input"
	StateAwaitingConfirmation PaymentState = "awaiting-confirmation"
	StateProcessing           PaymentState = "processing"
	StateSucceeded            PaymentState = "succeeded"
	StateFailed               PaymentState = "failed"
)

func (s PaymentState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func (s PaymentState) String() string {
	return string(s)
}

// PaymentSession tracks one checkout attempt against one provider and one
// fixed amount. The amount is set at creation and never recomputed by the
// payment flow.
type PaymentSession struct {
	ID        string          `json:"id"`
	Provider  ProviderID      `json:"provider"`
	Amount    decimal.Decimal `json:"amount"`
	State     PaymentState    `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

// PaymentReceipt is handed to the success callback when a flow settles.
type PaymentReceipt struct {
	SessionID     string          `json:"session_id"`
	Provider      ProviderID      `json:"provider"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	SettledAt     time.Time       `json:"settled_at"`
}

// PaymentInput is the tagged-variant over the provider-specific
// collecting-input payloads.
type PaymentInput interface {
	paymentInput()
}

// MobileMoneyInput is the collecting-input payload for mobile-money flows.
type MobileMoneyInput struct {
	PhoneNumber string `json:"phone_number"`
}

func (MobileMoneyInput) paymentInput() {}

// CardInput is the collecting-input payload for card-network flows.
type CardInput struct {
	HolderName string `json:"holder_name"`
	Number     string `json:"number"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
}

func (CardInput) paymentInput() {}
