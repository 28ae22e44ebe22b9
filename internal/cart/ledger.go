// Package cart holds the storefront cart ledger: the in-memory line-item
// state for one visitor session, persisted as a snapshot after every
// mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
	"github.com/monkamherman/restau--foodi-sub000/internal/notify"
	"github.com/monkamherman/restau--foodi-sub000/internal/repository"
)

const persistTimeout = 2 * time.Second

// Ledger owns the cart for a single session. The in-memory state is
// authoritative: persistence failures are logged and swallowed, never
// surfaced to the visitor.
type Ledger struct {
	mu        sync.Mutex
	sessionID string
	cart      domain.Cart
	store     repository.SnapshotStore
	notifier  notify.Notifier
	now       func() time.Time
}

func NewLedger(sessionID string, store repository.SnapshotStore, notifier notify.Notifier) *Ledger {
	return &Ledger{
		sessionID: sessionID,
		cart:      domain.Cart{SessionID: sessionID},
		store:     store,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Load hydrates the ledger from its persisted snapshot. A snapshot is
// restored only when it exists, has items, and is younger than the cart TTL;
// an expired snapshot is deleted wholesale, never partially merged. Returns
// whether a snapshot was restored.
func (l *Ledger) Load(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, err := l.store.GetCart(ctx, l.sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			log.Printf("failed to load cart snapshot: %v", err)
		}
		return false
	}

	if stored.IsEmpty() {
		return false
	}

	if l.now().Sub(stored.UpdatedAt) >= domain.CartTTL {
		l.deleteSnapshot()
		return false
	}

	l.cart = *stored
	l.cart.SessionID = l.sessionID
	l.cart.Recompute()

	l.notifier.Notify(
		"Panier restauré",
		fmt.Sprintf("%d article(s) de votre dernière visite", l.cart.ItemCount()),
		notify.SeverityInfo,
	)
	return true
}

// AddItem merges the item into the cart: an existing id has its quantity
// incremented, a new id is appended. Quantities below one count as one.
func (l *Ledger) AddItem(item domain.CartLineItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	merged := false
	for i := range l.cart.Items {
		if l.cart.Items[i].ID == item.ID {
			l.cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = quantity
		l.cart.Items = append(l.cart.Items, item)
	}

	l.commit()
	l.notifier.Notify(
		"Ajouté au panier",
		fmt.Sprintf("%s × %d", item.Name, quantity),
		notify.SeveritySuccess,
	)
}

// RemoveItem deletes the line item with the given id. Removing an absent id
// is a no-op, not an error.
func (l *Ledger) RemoveItem(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.cart.Items {
		if item.ID == id {
			l.cart.Items = append(l.cart.Items[:i], l.cart.Items[i+1:]...)
			l.commit()
			return
		}
	}
}

// SetQuantity replaces the item's quantity. A quantity of zero or below
// behaves exactly as RemoveItem.
func (l *Ledger) SetQuantity(id string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(id)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.cart.Items {
		if l.cart.Items[i].ID == id {
			l.cart.Items[i].Quantity = quantity
			l.commit()
			return
		}
	}
}

// Clear empties the cart and deletes the persisted snapshot.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cart.Items = nil
	l.commit()
}

// Summary is a pure read, no side effects.
func (l *Ledger) Summary() domain.CartSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	return domain.CartSummary{
		ItemCount: l.cart.ItemCount(),
		Total:     l.cart.Total,
		IsEmpty:   l.cart.IsEmpty(),
	}
}

// Snapshot returns a copy of the current cart state.
func (l *Ledger) Snapshot() domain.Cart {
	l.mu.Lock()
	defer l.mu.Unlock()

	cart := l.cart
	cart.Items = append([]domain.CartLineItem(nil), l.cart.Items...)
	return cart
}

// commit recomputes the total, stamps the mutation time and persists the
// snapshot. An empty cart deletes the storage entry entirely. Callers must
// hold l.mu.
func (l *Ledger) commit() {
	l.cart.Recompute()
	l.cart.UpdatedAt = l.now()

	if l.cart.IsEmpty() {
		l.deleteSnapshot()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := l.store.PutCart(ctx, &l.cart); err != nil {
		log.Printf("failed to persist cart snapshot: %v", err)
	}
}

func (l *Ledger) deleteSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	err := l.store.DeleteCart(ctx, l.sessionID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("failed to delete cart snapshot: %v", err)
	}
}
