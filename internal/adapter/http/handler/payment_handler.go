package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fleetledger/internal/adapter/http/dto"
	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Payment, error)
	MarkReceived(ctx context.Context, paymentID string) (*domain.Payment, error)
	MarkCleared(ctx context.Context, paymentID string) (*domain.Payment, error)
	MarkBounced(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	ListPaymentsByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Payment, error)
	ListPaymentsByBuilty(ctx context.Context, builtyID string, limit, offset int) ([]*domain.Payment, error)
}

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Create records a new payment.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.paymentUC.RecordPayment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// Get retrieves a payment by ID.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	payment, err := h.paymentUC.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}

// MarkReceived confirms funds for a pending payment and applies it.
func (h *PaymentHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.paymentUC.MarkReceived)
}

// MarkCleared marks a received payment as cleared.
func (h *PaymentHandler) MarkCleared(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.paymentUC.MarkCleared)
}

// MarkBounced marks a payment as bounced and reverses its effect.
func (h *PaymentHandler) MarkBounced(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.paymentUC.MarkBounced)
}

func (h *PaymentHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*domain.Payment, error)) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	payment, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transition payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}

// ListByClient lists payments for a client.
func (h *PaymentHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	payments, err := h.paymentUC.ListPaymentsByClient(r.Context(), clientID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPaymentsResponse{
		Payments: dto.PaymentsFromDomain(payments),
		Total:    int64(len(payments)),
	})
}

// ListByBuilty lists payments applied against a builty.
func (h *PaymentHandler) ListByBuilty(w http.ResponseWriter, r *http.Request) {
	builtyID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	payments, err := h.paymentUC.ListPaymentsByBuilty(r.Context(), builtyID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPaymentsResponse{
		Payments: dto.PaymentsFromDomain(payments),
		Total:    int64(len(payments)),
	})
}
