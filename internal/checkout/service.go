// Package checkout orchestrates the cart ledger and the payment flow: it
// opens a payment session for the cart total, and on settlement publishes
// the order and clears the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/monkamherman/restau--foodi-sub000/internal/cart"
	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
	"github.com/monkamherman/restau--foodi-sub000/internal/notify"
	"github.com/monkamherman/restau--foodi-sub000/internal/payments"
	"github.com/monkamherman/restau--foodi-sub000/internal/repository"
)

const reportTimeout = 5 * time.Second

var (
	ErrEmptyCart         = errors.New("cannot checkout an empty cart")
	ErrIllegalTransition = errors.New("illegal checkout status transition")
	ErrCheckoutNotFound  = errors.New("checkout not found")
)

// record tracks one checkout attempt alongside its payment flow.
type record struct {
	id        string
	sessionID string
	status    domain.CheckoutStatus
	snapshot  domain.Cart
}

type Service struct {
	store    repository.SnapshotStore
	sessions *payments.SessionManager
	reporter OrderReporter
	notifier notify.Notifier
	delays   payments.Delays
	policy   payments.SettlementPolicy

	mu      sync.Mutex
	records map[string]*record // payment session id -> checkout record
}

func NewService(
	store repository.SnapshotStore,
	sessions *payments.SessionManager,
	reporter OrderReporter,
	notifier notify.Notifier,
	delays payments.Delays,
	policy payments.SettlementPolicy,
) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		reporter: reporter,
		notifier: notifier,
		delays:   delays,
		policy:   policy,
		records:  make(map[string]*record),
	}
}

// Begin snapshots the cart, fixes its total as the payment amount and opens
// a payment session against the chosen provider. The amount never changes
// after this point, whatever the flow does.
func (s *Service) Begin(ctx context.Context, sessionID string, providerID domain.ProviderID) (*payments.Flow, error) {
	provider, err := payments.Lookup(providerID)
	if err != nil {
		return nil, err
	}

	ledger := cart.NewLedger(sessionID, s.store, notify.NopNotifier{})
	ledger.Load(ctx)
	snapshot := ledger.Snapshot()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	rec := &record{
		id:        uuid.New().String(),
		sessionID: sessionID,
		status:    domain.CheckoutStatusInitiated,
		snapshot:  snapshot,
	}

	flow := payments.NewFlow(provider, snapshot.Total, s.delays, s.policy, func(receipt domain.PaymentReceipt) {
		s.completeOrder(rec, receipt)
	})

	if err := s.advance(rec, domain.CheckoutStatusPaymentPending); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.records[flow.ID()] = rec
	s.mu.Unlock()

	s.sessions.Put(flow)
	return flow, nil
}

// Flow fetches the live payment flow for a checkout.
func (s *Service) Flow(id string) (*payments.Flow, error) {
	return s.sessions.Get(id)
}

// Status reports the checkout status for a payment session id.
func (s *Service) Status(id string) (domain.CheckoutStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return "", ErrCheckoutNotFound
	}
	return rec.status, nil
}

// Cancel discards the payment session and its checkout record. Permitted
// at any non-terminal point; no compensating action is needed because no
// real charge occurred.
func (s *Service) Cancel(id string) {
	s.sessions.Delete(id)

	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
}

// MarkFailed records a settlement decline.
func (s *Service) MarkFailed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[id]; ok && !rec.status.IsTerminal() {
		rec.status = domain.CheckoutStatusFailed
	}
}

// completeOrder runs on the flow's success callback: publish the order,
// clear the cart, tell the visitor. Report failure does not undo the
// payment; it is surfaced as a destructive toast and left alone.
func (s *Service) completeOrder(rec *record, receipt domain.PaymentReceipt) {
	if err := s.advance(rec, domain.CheckoutStatusPaymentCompleted); err != nil {
		log.Printf("checkout %s: %v", rec.id, err)
		return
	}

	order := domain.CompletedOrder{
		CheckoutID:    rec.id,
		SessionID:     rec.sessionID,
		Items:         rec.snapshot.Items,
		Total:         rec.snapshot.Total,
		Currency:      "XAF",
		Provider:      receipt.Provider,
		TransactionID: receipt.TransactionID,
		CompletedAt:   receipt.SettledAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()
	if err := s.reporter.ReportOrder(ctx, order); err != nil {
		log.Printf("failed to report order %s: %v", rec.id, err)
		s.notifier.Notify(
			"Commande non transmise",
			"Le paiement a réussi mais la commande n'a pas pu être transmise en cuisine.",
			notify.SeverityDestructive,
		)
	}

	ledger := cart.NewLedger(rec.sessionID, s.store, notify.NopNotifier{})
	ledger.Load(ctx)
	ledger.Clear()

	if err := s.advance(rec, domain.CheckoutStatusCompleted); err != nil {
		log.Printf("checkout %s: %v", rec.id, err)
		return
	}

	s.notifier.Notify(
		"Paiement confirmé",
		fmt.Sprintf("Commande %s réglée (%s XAF)", rec.id, rec.snapshot.Total.StringFixed(0)),
		notify.SeveritySuccess,
	)
}

func (s *Service) advance(rec *record, to domain.CheckoutStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.CanTransitionTo(rec.status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, rec.status, to)
	}
	rec.status = to
	return nil
}
