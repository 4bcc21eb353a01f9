package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fleetledger/internal/adapter/http/dto"
	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	ClientOutstanding(ctx context.Context, clientID string) (*usecase.OutstandingSnapshot, error)
	PendingBuilties(ctx context.Context, limit, offset int) ([]*domain.Builty, error)
	OverdueBuilties(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Builty, error)
	ClientAging(ctx context.Context, clientID string, asOf time.Time) (*usecase.AgingReport, error)
}

// ReportHandler handles read-only reporting requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// ClientOutstanding returns a client's outstanding snapshot.
func (h *ReportHandler) ClientOutstanding(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	snapshot, err := h.reportUC.ClientOutstanding(r.Context(), clientID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get outstanding snapshot", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// PendingBuilties lists builties that are not fully paid.
func (h *ReportHandler) PendingBuilties(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	builties, err := h.reportUC.PendingBuilties(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list pending builties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBuiltiesResponse{
		Builties: dto.BuiltiesFromDomain(builties),
		Total:    int64(len(builties)),
	})
}

// OverdueBuilties lists unpaid builties past their due date.
func (h *ReportHandler) OverdueBuilties(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)
	asOf := parseTimeQuery(r, "as_of")

	builties, err := h.reportUC.OverdueBuilties(r.Context(), asOf, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list overdue builties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBuiltiesResponse{
		Builties: dto.BuiltiesFromDomain(builties),
		Total:    int64(len(builties)),
	})
}

// ClientAging returns the receivables aging report for a client.
func (h *ReportHandler) ClientAging(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	asOf := parseTimeQuery(r, "as_of")

	report, err := h.reportUC.ClientAging(r.Context(), clientID, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute aging report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
