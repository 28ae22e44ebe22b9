package payments

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

var (
	ErrInvalidTransition = errors.New("transition not allowed from current payment state")
	ErrInputMismatch     = errors.New("input does not match provider category")
	ErrSessionClosed     = errors.New("payment session closed")
)

// Delays are the simulated network latencies the flow sleeps through. Zero
// values skip the wait entirely.
type Delays struct {
	Verification time.Duration // input accepted → awaiting-confirmation
	Processing   time.Duration // confirmation → processing
	Settlement   time.Duration // processing done → success callback
}

func DefaultDelays() Delays {
	return Delays{
		Verification: 1500 * time.Millisecond,
		Processing:   2 * time.Second,
		Settlement:   800 * time.Millisecond,
	}
}

// Flow walks one payment session through collecting-input →
// [awaiting-confirmation] → processing → succeeded/failed. All four
// provider variants share this machine; the differences live in the
// data-driven rules table. The session amount is fixed at creation and
// never mutated by the flow.
type Flow struct {
	mu       sync.Mutex
	session  domain.PaymentSession
	provider domain.Provider
	rules    providerRules
	delays   Delays
	policy   SettlementPolicy

	onSuccess     func(domain.PaymentReceipt)
	now           func() time.Time
	canceled      bool
	callbackFired bool
	failureMsg    string
}

// NewFlow creates a payment session against one provider and one fixed
// amount. onSuccess fires exactly once, after settlement; it may be nil.
func NewFlow(provider domain.Provider, amount decimal.Decimal, delays Delays, policy SettlementPolicy, onSuccess func(domain.PaymentReceipt)) *Flow {
	return &Flow{
		session: domain.PaymentSession{
			ID:        uuid.New().String(),
			Provider:  provider.ID,
			Amount:    amount,
			State:     domain.StateCollectingInput,
			CreatedAt: time.Now(),
		},
		provider:  provider,
		rules:     rulesTable[provider.ID],
		delays:    delays,
		policy:    policy,
		onSuccess: onSuccess,
		now:       time.Now,
	}
}

func (f *Flow) ID() string {
	return f.session.ID
}

// Session returns a copy of the current session state.
func (f *Flow) Session() domain.PaymentSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *Flow) State() domain.PaymentState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.State
}

// FailureMessage is the user-facing reason once the flow is failed.
func (f *Flow) FailureMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failureMsg
}

// SubmitInput validates the provider-specific input. On a validation error
// the state stays collecting-input and the error carries the field message.
// On success, mobile-money flows move to awaiting-confirmation; card flows
// go straight to processing and settle.
func (f *Flow) SubmitInput(ctx context.Context, input domain.PaymentInput) error {
	f.mu.Lock()

	if f.canceled {
		f.mu.Unlock()
		return ErrSessionClosed
	}
	if f.session.State != domain.StateCollectingInput {
		f.mu.Unlock()
		return ErrInvalidTransition
	}

	switch in := input.(type) {
	case domain.MobileMoneyInput:
		if f.provider.Category != domain.CategoryMobileMoney {
			f.mu.Unlock()
			return ErrInputMismatch
		}
		if verr := f.rules.validatePhone(in); verr != nil {
			f.mu.Unlock()
			return verr
		}
		// State changes before the simulated delay so a duplicate
		// submit during the wait is rejected, not replayed.
		f.session.State = domain.StateAwaitingConfirmation
		f.mu.Unlock()
		return f.wait(ctx, f.delays.Verification)

	case domain.CardInput:
		if f.provider.Category != domain.CategoryCard {
			f.mu.Unlock()
			return ErrInputMismatch
		}
		if verr := f.rules.validateCard(in, f.now()); verr != nil {
			f.mu.Unlock()
			return verr
		}
		f.session.State = domain.StateProcessing
		f.mu.Unlock()
		return f.process(ctx)

	default:
		f.mu.Unlock()
		return ErrInputMismatch
	}
}

// Confirm acknowledges the out-of-band USSD step of a mobile-money flow and
// settles the payment.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()

	if f.canceled {
		f.mu.Unlock()
		return ErrSessionClosed
	}
	if f.provider.Category != domain.CategoryMobileMoney ||
		f.session.State != domain.StateAwaitingConfirmation {
		f.mu.Unlock()
		return ErrInvalidTransition
	}

	f.session.State = domain.StateProcessing
	f.mu.Unlock()
	return f.process(ctx)
}

// Back returns from awaiting-confirmation to collecting-input.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.canceled {
		return ErrSessionClosed
	}
	if f.session.State != domain.StateAwaitingConfirmation {
		return ErrInvalidTransition
	}

	f.session.State = domain.StateCollectingInput
	return nil
}

// Cancel discards the session. Allowed at any point before a terminal
// state; no callback is invoked and nothing needs reversing because no
// real charge occurred.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session.State.IsTerminal() {
		return
	}
	f.canceled = true
}

// process runs the simulated processing delay, asks the settlement policy
// for an outcome, and on approval fires the success callback exactly once.
func (f *Flow) process(ctx context.Context) error {
	if err := f.wait(ctx, f.delays.Processing); err != nil {
		return err
	}

	f.mu.Lock()
	session := f.session
	f.mu.Unlock()

	txnID, err := f.policy.Settle(session)
	if err != nil {
		f.mu.Lock()
		f.session.State = domain.StateFailed
		f.failureMsg = "Le paiement a été refusé. Veuillez réessayer."
		f.mu.Unlock()
		return err
	}

	if err := f.wait(ctx, f.delays.Settlement); err != nil {
		return err
	}

	f.mu.Lock()
	if f.canceled || f.callbackFired {
		f.mu.Unlock()
		return ErrSessionClosed
	}
	f.session.State = domain.StateSucceeded
	f.callbackFired = true
	receipt := domain.PaymentReceipt{
		SessionID:     f.session.ID,
		Provider:      f.session.Provider,
		Amount:        f.session.Amount,
		TransactionID: txnID,
		SettledAt:     f.now(),
	}
	callback := f.onSuccess
	f.mu.Unlock()

	if callback != nil {
		callback(receipt)
	}
	return nil
}

func (f *Flow) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
