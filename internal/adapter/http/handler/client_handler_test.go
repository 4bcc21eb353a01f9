package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/adapter/http/dto"
	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

type clientServiceStub struct {
	registerFn   func(ctx context.Context, input usecase.RegisterClientInput) (*domain.Client, error)
	getFn        func(ctx context.Context, id string) (*domain.Client, error)
	listFn       func(ctx context.Context, limit, offset int) ([]*domain.Client, error)
	deactivateFn func(ctx context.Context, id string) error
	reactivateFn func(ctx context.Context, id string) error
	deleteFn     func(ctx context.Context, id string) error
	auditFn      func(ctx context.Context, clientID string) (*usecase.OutstandingAudit, error)
	auditAllFn   func(ctx context.Context) ([]*usecase.OutstandingAudit, error)
}

func (s *clientServiceStub) RegisterClient(ctx context.Context, input usecase.RegisterClientInput) (*domain.Client, error) {
	return s.registerFn(ctx, input)
}

func (s *clientServiceStub) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.getFn(ctx, id)
}

func (s *clientServiceStub) ListClients(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *clientServiceStub) DeactivateClient(ctx context.Context, id string) error {
	return s.deactivateFn(ctx, id)
}

func (s *clientServiceStub) ReactivateClient(ctx context.Context, id string) error {
	return s.reactivateFn(ctx, id)
}

func (s *clientServiceStub) DeleteClient(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *clientServiceStub) CheckOutstandingConsistency(ctx context.Context, clientID string) (*usecase.OutstandingAudit, error) {
	return s.auditFn(ctx, clientID)
}

func (s *clientServiceStub) CheckAllOutstandingConsistency(ctx context.Context) ([]*usecase.OutstandingAudit, error) {
	return s.auditAllFn(ctx)
}

func TestClientHandler_Create_Success(t *testing.T) {
	client := &domain.Client{
		ID:          "cl-1",
		Name:        "Sharma Transport Co",
		CreditLimit: decimal.NewFromInt(50000),
		Active:      true,
	}

	var captured usecase.RegisterClientInput
	h := NewClientHandler(&clientServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterClientInput) (*domain.Client, error) {
			captured = input
			return client, nil
		},
	})

	body, _ := json.Marshal(dto.RegisterClientRequest{
		Name:        "Sharma Transport Co",
		CreditLimit: decimal.NewFromInt(50000),
	})

	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "Sharma Transport Co" || !captured.CreditLimit.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.ClientResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "cl-1" {
		t.Fatalf("expected client ID cl-1, got %s", resp.ID)
	}
}

func TestClientHandler_Create_InvalidJSON(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterClientInput) (*domain.Client, error) {
			t.Fatal("RegisterClient should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClientHandler_Create_InvalidName(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterClientInput) (*domain.Client, error) {
			return nil, domain.ErrInvalidClientName
		},
	})

	body, _ := json.Marshal(dto.RegisterClientRequest{Name: ""})
	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClientHandler_Get_NotFound(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Client, error) {
			return nil, domain.ErrClientNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/clients/cl-404", nil)
	req = setChiURLParam(req, "id", "cl-404")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestClientHandler_List(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
			if limit != 5 || offset != 2 {
				t.Fatalf("expected limit=5 offset=2, got limit=%d offset=%d", limit, offset)
			}
			return []*domain.Client{{ID: "cl-1"}, {ID: "cl-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/clients?limit=5&offset=2", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListClientsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(resp.Clients))
	}
}

func TestClientHandler_Delete_WithHistory(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrClientHasFinancialHistory
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/clients/cl-1", nil)
	req = setChiURLParam(req, "id", "cl-1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestClientHandler_Deactivate(t *testing.T) {
	var deactivated string
	h := NewClientHandler(&clientServiceStub{
		deactivateFn: func(ctx context.Context, id string) error {
			deactivated = id
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/clients/cl-1/deactivate", nil)
	req = setChiURLParam(req, "id", "cl-1")
	rec := httptest.NewRecorder()

	h.Deactivate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deactivated != "cl-1" {
		t.Fatalf("expected cl-1 to be deactivated, got %q", deactivated)
	}
}

func TestClientHandler_AuditAll_ReportsDrift(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		auditAllFn: func(ctx context.Context) ([]*usecase.OutstandingAudit, error) {
			return []*usecase.OutstandingAudit{
				{ClientID: "cl-1", Recorded: decimal.NewFromInt(100), Calculated: decimal.NewFromInt(100), Consistent: true},
				{ClientID: "cl-2", Recorded: decimal.NewFromInt(500), Calculated: decimal.NewFromInt(450), Difference: decimal.NewFromInt(50), Consistent: false},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	h.AuditAll(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyReportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent {
		t.Fatal("expected report to be inconsistent")
	}
	if len(resp.Clients) != 2 {
		t.Fatalf("expected 2 client audits, got %d", len(resp.Clients))
	}
	if resp.Clients[1].ClientID != "cl-2" || resp.Clients[1].Consistent {
		t.Fatalf("expected cl-2 to be flagged, got %+v", resp.Clients[1])
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
