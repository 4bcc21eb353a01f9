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

// FleetService defines the truck and driver registry behavior needed by
// FleetHandler.
type FleetService interface {
	RegisterTruck(ctx context.Context, input usecase.RegisterTruckInput) (*domain.Truck, error)
	GetTruck(ctx context.Context, id string) (*domain.Truck, error)
	ListTrucks(ctx context.Context, limit, offset int) ([]*domain.Truck, error)
	RegisterDriver(ctx context.Context, input usecase.RegisterDriverInput) (*domain.Driver, error)
	GetDriver(ctx context.Context, id string) (*domain.Driver, error)
	ListDrivers(ctx context.Context, limit, offset int) ([]*domain.Driver, error)
}

// FleetHandler handles truck and driver registry requests.
type FleetHandler struct {
	fleetUC FleetService
}

// NewFleetHandler creates a new FleetHandler.
func NewFleetHandler(fleetUC FleetService) *FleetHandler {
	return &FleetHandler{fleetUC: fleetUC}
}

// CreateTruck registers a new truck.
func (h *FleetHandler) CreateTruck(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	truck, err := h.fleetUC.RegisterTruck(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register truck", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TruckFromDomain(truck))
}

// GetTruck retrieves a truck by ID.
func (h *FleetHandler) GetTruck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	truck, err := h.fleetUC.GetTruck(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get truck", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TruckFromDomain(truck))
}

// ListTrucks lists the fleet.
func (h *FleetHandler) ListTrucks(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	trucks, err := h.fleetUC.ListTrucks(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trucks", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTrucksResponse{
		Trucks: dto.TrucksFromDomain(trucks),
		Total:  int64(len(trucks)),
	})
}

// CreateDriver registers a new driver.
func (h *FleetHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	driver, err := h.fleetUC.RegisterDriver(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register driver", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DriverFromDomain(driver))
}

// GetDriver retrieves a driver by ID.
func (h *FleetHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	driver, err := h.fleetUC.GetDriver(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get driver", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DriverFromDomain(driver))
}

// ListDrivers lists drivers.
func (h *FleetHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	drivers, err := h.fleetUC.ListDrivers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list drivers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDriversResponse{
		Drivers: dto.DriversFromDomain(drivers),
		Total:   int64(len(drivers)),
	})
}
