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

// ClientService defines the behavior needed by ClientHandler.
type ClientService interface {
	RegisterClient(ctx context.Context, input usecase.RegisterClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	ListClients(ctx context.Context, limit, offset int) ([]*domain.Client, error)
	DeactivateClient(ctx context.Context, id string) error
	ReactivateClient(ctx context.Context, id string) error
	DeleteClient(ctx context.Context, id string) error
	CheckOutstandingConsistency(ctx context.Context, clientID string) (*usecase.OutstandingAudit, error)
	CheckAllOutstandingConsistency(ctx context.Context) ([]*usecase.OutstandingAudit, error)
}

// ClientHandler handles client-related HTTP requests.
type ClientHandler struct {
	clientUC ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC ClientService) *ClientHandler {
	return &ClientHandler{clientUC: clientUC}
}

// Create registers a new client.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	client, err := h.clientUC.RegisterClient(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register client", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClientFromDomain(client))
}

// Get retrieves a client by ID.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	client, err := h.clientUC.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// List lists clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	clients, err := h.clientUC.ListClients(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list clients", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListClientsResponse{
		Clients: dto.ClientsFromDomain(clients),
		Total:   int64(len(clients)),
	})
}

// Deactivate soft-deactivates a client.
func (h *ClientHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.clientUC.DeactivateClient(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to deactivate client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// Reactivate reactivates a deactivated client.
func (h *ClientHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.clientUC.ReactivateClient(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to reactivate client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// Delete removes a client that has no financial history.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.clientUC.DeleteClient(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete client", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Audit compares a client's recorded outstanding balance against the sum of
// its unpaid builty balances.
func (h *ClientHandler) Audit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	audit, err := h.clientUC.CheckOutstandingConsistency(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to audit client", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OutstandingAuditFromUseCase(audit))
}

// AuditAll audits every client's outstanding balance.
func (h *ClientHandler) AuditAll(w http.ResponseWriter, r *http.Request) {
	audits, err := h.clientUC.CheckAllOutstandingConsistency(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to audit clients", err.Error())
		return
	}

	consistent := true
	for _, a := range audits {
		if !a.Consistent {
			consistent = false
			break
		}
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyReportResponse{
		Consistent: consistent,
		Clients:    dto.OutstandingAuditsFromUseCase(audits),
	})
}
