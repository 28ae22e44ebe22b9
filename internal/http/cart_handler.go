package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/monkamherman/restau--foodi-sub000/internal/cart"
	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
	"github.com/monkamherman/restau--foodi-sub000/internal/menu"
	"github.com/monkamherman/restau--foodi-sub000/internal/notify"
	"github.com/monkamherman/restau--foodi-sub000/internal/repository"
)

type CartHandler struct {
	store    repository.SnapshotStore
	menu     *menu.Service
	notifier notify.Notifier
	timeout  time.Duration
}

func NewCartHandler(store repository.SnapshotStore, menuSvc *menu.Service, notifier notify.Notifier, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:    store,
		menu:     menuSvc,
		notifier: notifier,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Cart     domain.Cart        `json:"cart"`
	Summary  domain.CartSummary `json:"summary"`
	Restored bool               `json:"restored,omitempty"`
}

// ledgerFor hydrates the session's cart ledger. Restoration of a previous
// visit's snapshot is reported so the frontend can show the notice.
func (h *CartHandler) ledgerFor(ctx context.Context) (*cart.Ledger, bool) {
	sessionID := getSessionIDFromContext(ctx)
	ledger := cart.NewLedger(sessionID, h.store, h.notifier)
	restored := ledger.Load(ctx)
	return ledger, restored
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ledger, restored := h.ledgerFor(ctx)
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Cart:     ledger.Snapshot(),
		Summary:  ledger.Summary(),
		Restored: restored,
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	// Prices come from the catalog, never from the client.
	dish, err := h.menu.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "unknown menu item")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve menu item")
		return
	}

	ledger, _ := h.ledgerFor(ctx)
	ledger.AddItem(domain.CartLineItem{
		ID:        dish.ID,
		Name:      dish.Name,
		Category:  dish.Category,
		ImageRef:  dish.ImageURL,
		UnitPrice: dish.Price,
	}, req.Quantity)

	respondJSON(w, http.StatusCreated, CartResponseDTO{
		Cart:    ledger.Snapshot(),
		Summary: ledger.Summary(),
	})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	// Zero or negative removes the line item entirely.
	ledger, _ := h.ledgerFor(ctx)
	ledger.SetQuantity(itemID, req.Quantity)

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Cart:    ledger.Snapshot(),
		Summary: ledger.Summary(),
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	ledger, _ := h.ledgerFor(ctx)
	ledger.RemoveItem(itemID)

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Cart:    ledger.Snapshot(),
		Summary: ledger.Summary(),
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ledger, _ := h.ledgerFor(ctx)
	ledger.Clear()

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Cart:    ledger.Snapshot(),
		Summary: ledger.Summary(),
	})
}
