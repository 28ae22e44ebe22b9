package payments

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

var ErrPaymentDeclined = errors.New("payment declined")

// SettlementPolicy decides the outcome of a payment once its input has been
// accepted and the simulated processing delay has elapsed.
type SettlementPolicy interface {
	Settle(session domain.PaymentSession) (transactionID string, err error)
}

// AlwaysApprove settles every payment successfully. This is the storefront
// default: no decline or timeout path is simulated.
type AlwaysApprove struct{}

func (AlwaysApprove) Settle(domain.PaymentSession) (string, error) {
	return newTransactionID(), nil
}

// RandomOutcome approves ApprovePercent of payments and declines the rest.
// Used to exercise the processing→failed path without a real gateway.
type RandomOutcome struct {
	ApprovePercent int
}

func (r RandomOutcome) Settle(domain.PaymentSession) (string, error) {
	if rand.Intn(100) < r.ApprovePercent {
		return newTransactionID(), nil
	}
	return "", ErrPaymentDeclined
}

func newTransactionID() string {
	return fmt.Sprintf("TXN-%d", time.Now().UnixNano())
}
