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

// TripService defines the behavior needed by TripHandler.
type TripService interface {
	CreateTrip(ctx context.Context, input usecase.CreateTripInput) (*domain.Trip, error)
	StartTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	CompleteTrip(ctx context.Context, tripID string, input usecase.CompleteTripInput) (*domain.Trip, error)
	CancelTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	DeleteTrip(ctx context.Context, tripID string) error
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	ListTrips(ctx context.Context, limit, offset int) ([]*domain.Trip, error)
	AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error)
	AddIncome(ctx context.Context, input usecase.AddIncomeInput) (*domain.Income, error)
	ListExpensesByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error)
	ListIncomeByTrip(ctx context.Context, tripID string) ([]*domain.Income, error)
	ProfitLoss(ctx context.Context, tripID string) (*usecase.TripPnL, error)
}

// TripHandler handles trip-related HTTP requests.
type TripHandler struct {
	tripUC TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripUC TripService) *TripHandler {
	return &TripHandler{tripUC: tripUC}
}

// Create creates a new trip.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trip, err := h.tripUC.CreateTrip(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create trip", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TripFromDomain(trip))
}

// Get retrieves a trip by ID.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trip ID", "")
		return
	}

	trip, err := h.tripUC.GetTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// List lists trips.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	trips, err := h.tripUC.ListTrips(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trips", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTripsResponse{
		Trips: dto.TripsFromDomain(trips),
		Total: int64(len(trips)),
	})
}

// Start transitions a trip to RUNNING.
func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trip, err := h.tripUC.StartTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to start trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// Complete transitions a trip to COMPLETED with its actuals.
func (h *TripHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CompleteTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trip, err := h.tripUC.CompleteTrip(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to complete trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// Cancel transitions a trip to CANCELLED.
func (h *TripHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trip, err := h.tripUC.CancelTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// Delete removes a trip with no recorded payments, cascading its ledger.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.tripUC.DeleteTrip(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete trip", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddExpense records an expense against a trip.
func (h *TripHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.tripUC.AddExpense(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// AddIncome records income against a trip.
func (h *TripHandler) AddIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AddIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	income, err := h.tripUC.AddIncome(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add income", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.IncomeFromDomain(income))
}

// ListExpenses lists the expense ledger of a trip.
func (h *TripHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	expenses, err := h.tripUC.ListExpensesByTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(expenses))
}

// ListIncome lists the income ledger of a trip.
func (h *TripHandler) ListIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	income, err := h.tripUC.ListIncomeByTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list income", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeListFromDomain(income))
}

// ProfitLoss returns the trip's profit and loss summary.
func (h *TripHandler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pnl, err := h.tripUC.ProfitLoss(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute profit/loss", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pnl)
}
