package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/monkamherman/restau--foodi-sub000/internal/checkout"
	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
	"github.com/monkamherman/restau--foodi-sub000/internal/payments"
)

type CheckoutHandler struct {
	svc     *checkout.Service
	timeout time.Duration
}

func NewCheckoutHandler(svc *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, timeout: timeout}
}

type BeginCheckoutRequestDTO struct {
	Provider string `json:"provider"`
}

type PaymentInputRequestDTO struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	HolderName  string `json:"holder_name,omitempty"`
	Number      string `json:"number,omitempty"`
	Expiry      string `json:"expiry,omitempty"`
	CVV         string `json:"cvv,omitempty"`
}

type PaymentSessionResponseDTO struct {
	ID       string              `json:"id"`
	Provider domain.ProviderID   `json:"provider"`
	Amount   decimal.Decimal     `json:"amount"`
	State    domain.PaymentState `json:"state"`
	Status   string              `json:"checkout_status,omitempty"`
	Message  string              `json:"message,omitempty"`
}

func (h *CheckoutHandler) sessionResponse(flow *payments.Flow) PaymentSessionResponseDTO {
	session := flow.Session()
	dto := PaymentSessionResponseDTO{
		ID:       session.ID,
		Provider: session.Provider,
		Amount:   session.Amount,
		State:    session.State,
		Message:  flow.FailureMessage(),
	}
	if status, err := h.svc.Status(session.ID); err == nil {
		dto.Status = status.String()
	}
	return dto
}

// ListProviders returns the payment method registry grouped for display.
func (h *CheckoutHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, payments.Groups())
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req BeginCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := getSessionIDFromContext(r.Context())
	flow, err := h.svc.Begin(ctx, sessionID, domain.ProviderID(req.Provider))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrUnknownProvider):
			respondError(w, http.StatusBadRequest, "unknown_provider", "unknown payment provider")
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "cannot checkout an empty cart")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to start checkout")
		}
		return
	}

	respondJSON(w, http.StatusCreated, h.sessionResponse(flow))
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flowFrom(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.sessionResponse(flow))
}

// SubmitInput feeds the provider-specific payment details to the flow.
// Validation failures keep the flow in collecting-input and come back as
// field-level errors.
func (h *CheckoutHandler) SubmitInput(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	flow, ok := h.flowFrom(w, r)
	if !ok {
		return
	}

	var req PaymentInputRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	provider, err := payments.Lookup(flow.Session().Provider)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "unknown provider on session")
		return
	}

	var input domain.PaymentInput
	if provider.Category == domain.CategoryMobileMoney {
		input = domain.MobileMoneyInput{PhoneNumber: req.PhoneNumber}
	} else {
		input = domain.CardInput{
			HolderName: req.HolderName,
			Number:     req.Number,
			Expiry:     req.Expiry,
			CVV:        req.CVV,
		}
	}

	h.runFlowStep(w, flow, flow.SubmitInput(ctx, input))
}

// Confirm acknowledges the USSD step of a mobile-money payment.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	flow, ok := h.flowFrom(w, r)
	if !ok {
		return
	}

	h.runFlowStep(w, flow, flow.Confirm(ctx))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flowFrom(w, r)
	if !ok {
		return
	}

	h.runFlowStep(w, flow, flow.Back())
}

// Cancel discards the payment session; closing the modal client-side lands
// here.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "checkout_id")
	h.svc.Cancel(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) flowFrom(w http.ResponseWriter, r *http.Request) (*payments.Flow, bool) {
	id := chi.URLParam(r, "checkout_id")
	flow, err := h.svc.Flow(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "payment session not found")
		return nil, false
	}
	return flow, true
}

// runFlowStep maps a flow transition result onto the HTTP surface. The
// session state in the body is authoritative either way.
func (h *CheckoutHandler) runFlowStep(w http.ResponseWriter, flow *payments.Flow, err error) {
	if err == nil {
		respondJSON(w, http.StatusOK, h.sessionResponse(flow))
		return
	}

	var verr *payments.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   verr.Message,
			"code":    verr.Code,
			"field":   verr.Field,
			"session": h.sessionResponse(flow),
		})
	case errors.Is(err, payments.ErrPaymentDeclined):
		h.svc.MarkFailed(flow.ID())
		respondJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":   flow.FailureMessage(),
			"code":    "payment_declined",
			"session": h.sessionResponse(flow),
		})
	case errors.Is(err, payments.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", "operation not allowed in current state")
	case errors.Is(err, payments.ErrInputMismatch):
		respondError(w, http.StatusBadRequest, "input_mismatch", "input does not match the selected provider")
	case errors.Is(err, payments.ErrSessionClosed):
		respondError(w, http.StatusGone, "session_closed", "payment session was closed")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		respondError(w, http.StatusGatewayTimeout, "timeout", "payment step interrupted")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "payment step failed")
	}
}
