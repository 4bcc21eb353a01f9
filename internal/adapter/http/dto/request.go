package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// RegisterClientRequest represents a request to register a client.
type RegisterClientRequest struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	GSTNumber   string          `json:"gst_number,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterClientRequest) ToUseCaseInput() usecase.RegisterClientInput {
	return usecase.RegisterClientInput{
		Name:        r.Name,
		Phone:       r.Phone,
		Address:     r.Address,
		GSTNumber:   r.GSTNumber,
		CreditLimit: r.CreditLimit,
	}
}

// CreateBuiltyRequest represents a request to create a builty.
type CreateBuiltyRequest struct {
	BuiltyNumber     string          `json:"builty_number"`
	TripID           string          `json:"trip_id"`
	ClientID         string          `json:"client_id"`
	ConsignorName    string          `json:"consignor_name,omitempty"`
	ConsigneeName    string          `json:"consignee_name,omitempty"`
	GoodsDescription string          `json:"goods_description,omitempty"`
	WeightTonnes     decimal.Decimal `json:"weight_tonnes"`
	FreightCharges   decimal.Decimal `json:"freight_charges"`
	LoadingCharges   decimal.Decimal `json:"loading_charges"`
	UnloadingCharges decimal.Decimal `json:"unloading_charges"`
	OtherCharges     decimal.Decimal `json:"other_charges"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	BuiltyDate       time.Time       `json:"builty_date"`
	DueDate          time.Time       `json:"due_date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBuiltyRequest) ToUseCaseInput() usecase.CreateBuiltyInput {
	return usecase.CreateBuiltyInput{
		BuiltyNumber:     r.BuiltyNumber,
		TripID:           r.TripID,
		ClientID:         r.ClientID,
		ConsignorName:    r.ConsignorName,
		ConsigneeName:    r.ConsigneeName,
		GoodsDescription: r.GoodsDescription,
		WeightTonnes:     r.WeightTonnes,
		FreightCharges:   r.FreightCharges,
		LoadingCharges:   r.LoadingCharges,
		UnloadingCharges: r.UnloadingCharges,
		OtherCharges:     r.OtherCharges,
		TaxAmount:        r.TaxAmount,
		BuiltyDate:       r.BuiltyDate,
		DueDate:          r.DueDate,
	}
}

// AmendChargesRequest represents a request to amend a builty's charges.
type AmendChargesRequest struct {
	FreightCharges   decimal.Decimal `json:"freight_charges"`
	LoadingCharges   decimal.Decimal `json:"loading_charges"`
	UnloadingCharges decimal.Decimal `json:"unloading_charges"`
	OtherCharges     decimal.Decimal `json:"other_charges"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
}

// ToAmendment converts to the reconciliation amendment input.
func (r *AmendChargesRequest) ToAmendment() usecase.ChargeAmendment {
	return usecase.ChargeAmendment{
		FreightCharges:   r.FreightCharges,
		LoadingCharges:   r.LoadingCharges,
		UnloadingCharges: r.UnloadingCharges,
		OtherCharges:     r.OtherCharges,
		TaxAmount:        r.TaxAmount,
	}
}

// RecordPaymentRequest represents a request to record a payment.
type RecordPaymentRequest struct {
	ClientID  string          `json:"client_id"`
	BuiltyID  *string         `json:"builty_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"kind"`
	Mode      string          `json:"mode"`
	Reference string          `json:"reference,omitempty"`
	Received  bool            `json:"received"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		ClientID:  r.ClientID,
		BuiltyID:  r.BuiltyID,
		Amount:    r.Amount,
		Kind:      domain.PaymentKind(r.Kind),
		Mode:      domain.PaymentMode(r.Mode),
		Reference: r.Reference,
		Received:  r.Received,
	}
}

// CreateTripRequest represents a request to create a trip.
type CreateTripRequest struct {
	TruckID      string          `json:"truck_id"`
	DriverID     string          `json:"driver_id"`
	ClientID     *string         `json:"client_id,omitempty"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	PlannedStart time.Time       `json:"planned_start"`
	PlannedEnd   time.Time       `json:"planned_end"`
	DistanceKM   decimal.Decimal `json:"distance_km"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTripRequest) ToUseCaseInput() usecase.CreateTripInput {
	return usecase.CreateTripInput{
		TruckID:      r.TruckID,
		DriverID:     r.DriverID,
		ClientID:     r.ClientID,
		FromLocation: r.FromLocation,
		ToLocation:   r.ToLocation,
		PlannedStart: r.PlannedStart,
		PlannedEnd:   r.PlannedEnd,
		DistanceKM:   r.DistanceKM,
	}
}

// CompleteTripRequest carries the actuals recorded at trip completion.
type CompleteTripRequest struct {
	DistanceKM decimal.Decimal `json:"distance_km"`
	FuelLitres decimal.Decimal `json:"fuel_litres"`
}

// ToUseCaseInput converts to use case input.
func (r *CompleteTripRequest) ToUseCaseInput() usecase.CompleteTripInput {
	return usecase.CompleteTripInput{
		DistanceKM: r.DistanceKM,
		FuelLitres: r.FuelLitres,
	}
}

// AddExpenseRequest represents a request to record a trip expense.
type AddExpenseRequest struct {
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	Paid        bool            `json:"paid"`
}

// ToUseCaseInput converts to use case input for the given trip.
func (r *AddExpenseRequest) ToUseCaseInput(tripID string) usecase.AddExpenseInput {
	return usecase.AddExpenseInput{
		TripID:      tripID,
		Category:    domain.ExpenseCategory(r.Category),
		Description: r.Description,
		Amount:      r.Amount,
		ExpenseDate: r.ExpenseDate,
		Paid:        r.Paid,
	}
}

// AddIncomeRequest represents a request to record trip income.
type AddIncomeRequest struct {
	Source      string          `json:"source"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	IncomeDate  time.Time       `json:"income_date"`
	Received    bool            `json:"received"`
}

// ToUseCaseInput converts to use case input for the given trip.
func (r *AddIncomeRequest) ToUseCaseInput(tripID string) usecase.AddIncomeInput {
	return usecase.AddIncomeInput{
		TripID:      tripID,
		Source:      r.Source,
		Description: r.Description,
		Amount:      r.Amount,
		IncomeDate:  r.IncomeDate,
		Received:    r.Received,
	}
}

// RegisterTruckRequest represents a request to register a truck.
type RegisterTruckRequest struct {
	RegistrationNumber string          `json:"registration_number"`
	Model              string          `json:"model,omitempty"`
	CapacityTonnes     decimal.Decimal `json:"capacity_tonnes"`
	OdometerKM         decimal.Decimal `json:"odometer_km"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterTruckRequest) ToUseCaseInput() usecase.RegisterTruckInput {
	return usecase.RegisterTruckInput{
		RegistrationNumber: r.RegistrationNumber,
		Model:              r.Model,
		CapacityTonnes:     r.CapacityTonnes,
		OdometerKM:         r.OdometerKM,
	}
}

// RegisterDriverRequest represents a request to register a driver.
type RegisterDriverRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterDriverRequest) ToUseCaseInput() usecase.RegisterDriverInput {
	return usecase.RegisterDriverInput{
		Name:          r.Name,
		Phone:         r.Phone,
		LicenseNumber: r.LicenseNumber,
	}
}
