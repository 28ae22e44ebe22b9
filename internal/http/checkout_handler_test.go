package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monkamherman/restau--foodi-sub000/internal/cart"
	"github.com/monkamherman/restau--foodi-sub000/internal/checkout"
	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
	"github.com/monkamherman/restau--foodi-sub000/internal/notify"
	"github.com/monkamherman/restau--foodi-sub000/internal/payments"
	"github.com/monkamherman/restau--foodi-sub000/internal/repository"
)

type nopReporter struct{}

func (nopReporter) ReportOrder(context.Context, domain.CompletedOrder) error { return nil }

type checkoutFixture struct {
	store  *repository.MemoryStore
	router *chi.Mux
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	store := repository.NewMemoryStore()
	sessions := payments.NewSessionManager()
	t.Cleanup(func() { sessions.Close() })

	svc := checkout.NewService(store, sessions, nopReporter{}, notify.NopNotifier{},
		payments.Delays{}, payments.AlwaysApprove{})
	h := NewCheckoutHandler(svc, 5*time.Second)

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Route("/checkout", func(r chi.Router) {
		r.Get("/providers", h.ListProviders)
		r.Post("/", h.Begin)
		r.Route("/{checkout_id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/input", h.SubmitInput)
			r.Post("/confirm", h.Confirm)
			r.Post("/back", h.Back)
			r.Delete("/", h.Cancel)
		})
	})

	return &checkoutFixture{store: store, router: r}
}

func (f *checkoutFixture) fillCart(sessionID string) {
	ledger := cart.NewLedger(sessionID, f.store, notify.NopNotifier{})
	ledger.AddItem(domain.CartLineItem{
		ID:        "d1",
		Name:      "Ndolè",
		UnitPrice: decimal.NewFromInt(5000),
	}, 3)
}

func (f *checkoutFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "sess-checkout-test"})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *checkoutFixture) begin(t *testing.T, provider string) PaymentSessionResponseDTO {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/checkout", BeginCheckoutRequestDTO{Provider: provider})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto PaymentSessionResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func TestListProviders(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodGet, "/checkout/providers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []payments.ProviderGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, domain.CategoryMobileMoney, groups[0].Category)
	assert.Len(t, groups[0].Providers, 2)
	assert.Len(t, groups[1].Providers, 2)
}

func TestBegin_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodPost, "/checkout", BeginCheckoutRequestDTO{Provider: "mtn-momo"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBegin_UnknownProvider(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")

	rec := f.do(t, http.MethodPost, "/checkout", BeginCheckoutRequestDTO{Provider: "paypal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBegin_StartsCollectingInput(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")

	dto := f.begin(t, "mtn-momo")
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, domain.StateCollectingInput, dto.State)
	assert.True(t, dto.Amount.Equal(decimal.NewFromInt(15000)))
}

func TestSubmitInput_MobileMoneyHappyPath(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")
	dto := f.begin(t, "mtn-momo")

	rec := f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/input",
		PaymentInputRequestDTO{PhoneNumber: "671234567"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var after PaymentSessionResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, domain.StateAwaitingConfirmation, after.State)
}

func TestSubmitInput_InvalidPhone(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")
	dto := f.begin(t, "mtn-momo")

	rec := f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/input",
		PaymentInputRequestDTO{PhoneNumber: "691234567"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "phone_number", body["field"])
}

func TestConfirm_CompletesPaymentAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")
	dto := f.begin(t, "mtn-momo")

	rec := f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/input",
		PaymentInputRequestDTO{PhoneNumber: "671234567"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var after PaymentSessionResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, domain.StateSucceeded, after.State)

	_, err := f.store.GetCart(context.Background(), "sess-checkout-test")
	assert.ErrorIs(t, err, repository.ErrCartNotFound)
}

func TestCardFlow_SkipsConfirmation(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")
	dto := f.begin(t, "visa")

	rec := f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/input", PaymentInputRequestDTO{
		HolderName: "Jean Mballa",
		Number:     "4111111111111111",
		Expiry:     "12/27",
		CVV:        "123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var after PaymentSessionResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, domain.StateSucceeded, after.State)
}

func TestConfirm_WrongState(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")
	dto := f.begin(t, "mtn-momo")

	rec := f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBack_ReturnsToCollectingInput(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")
	dto := f.begin(t, "mtn-momo")

	rec := f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/input",
		PaymentInputRequestDTO{PhoneNumber: "671234567"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/checkout/"+dto.ID+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var after PaymentSessionResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, domain.StateCollectingInput, after.State)
}

func TestCancel_ThenSessionGone(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart("sess-checkout-test")
	dto := f.begin(t, "mtn-momo")

	rec := f.do(t, http.MethodDelete, "/checkout/"+dto.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/checkout/"+dto.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSession_Unknown(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodGet, "/checkout/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
