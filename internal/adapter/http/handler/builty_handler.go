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

// BuiltyService defines the behavior needed by BuiltyHandler.
type BuiltyService interface {
	CreateBuilty(ctx context.Context, input usecase.CreateBuiltyInput) (*domain.Builty, error)
	AmendCharges(ctx context.Context, builtyID string, amendment usecase.ChargeAmendment) (*domain.Builty, error)
	GetBuilty(ctx context.Context, id string) (*domain.Builty, error)
	ListBuiltiesByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Builty, error)
	ListBuiltiesByTrip(ctx context.Context, tripID string) ([]*domain.Builty, error)
}

// BuiltyHandler handles builty-related HTTP requests.
type BuiltyHandler struct {
	builtyUC BuiltyService
}

// NewBuiltyHandler creates a new BuiltyHandler.
func NewBuiltyHandler(builtyUC BuiltyService) *BuiltyHandler {
	return &BuiltyHandler{builtyUC: builtyUC}
}

// Create creates a new builty and registers its charge against the client.
func (h *BuiltyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBuiltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	builty, err := h.builtyUC.CreateBuilty(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create builty", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BuiltyFromDomain(builty))
}

// Get retrieves a builty by ID.
func (h *BuiltyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing builty ID", "")
		return
	}

	builty, err := h.builtyUC.GetBuilty(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get builty", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BuiltyFromDomain(builty))
}

// AmendCharges corrects a builty's charges.
func (h *BuiltyHandler) AmendCharges(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AmendChargesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	builty, err := h.builtyUC.AmendCharges(r.Context(), id, req.ToAmendment())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to amend charges", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BuiltyFromDomain(builty))
}

// ListByClient lists builties for a client.
func (h *BuiltyHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	builties, err := h.builtyUC.ListBuiltiesByClient(r.Context(), clientID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list builties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBuiltiesResponse{
		Builties: dto.BuiltiesFromDomain(builties),
		Total:    int64(len(builties)),
	})
}

// ListByTrip lists builties for a trip.
func (h *BuiltyHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	builties, err := h.builtyUC.ListBuiltiesByTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list builties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBuiltiesResponse{
		Builties: dto.BuiltiesFromDomain(builties),
		Total:    int64(len(builties)),
	})
}
