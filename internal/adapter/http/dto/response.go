package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
	"github.com/iho/fleetledger/internal/usecase"
)

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone,omitempty"`
	Address            string          `json:"address,omitempty"`
	GSTNumber          string          `json:"gst_number,omitempty"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Active             bool            `json:"active"`
	Version            int64           `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ClientFromDomain converts a domain client to a response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Phone:              c.Phone,
		Address:            c.Address,
		GSTNumber:          c.GSTNumber,
		CreditLimit:        c.CreditLimit,
		OutstandingBalance: c.OutstandingBalance,
		Active:             c.Active,
		Version:            c.Version,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// BuiltyResponse represents a builty in API responses.
type BuiltyResponse struct {
	ID               string          `json:"id"`
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
	TotalCharges     decimal.Decimal `json:"total_charges"`
	AdvanceReceived  decimal.Decimal `json:"advance_received"`
	BalanceAmount    decimal.Decimal `json:"balance_amount"`
	PaymentStatus    string          `json:"payment_status"`
	BuiltyDate       time.Time       `json:"builty_date"`
	DueDate          time.Time       `json:"due_date"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BuiltyFromDomain converts a domain builty to a response.
func BuiltyFromDomain(b *domain.Builty) *BuiltyResponse {
	return &BuiltyResponse{
		ID:               b.ID,
		BuiltyNumber:     b.BuiltyNumber,
		TripID:           b.TripID,
		ClientID:         b.ClientID,
		ConsignorName:    b.ConsignorName,
		ConsigneeName:    b.ConsigneeName,
		GoodsDescription: b.GoodsDescription,
		WeightTonnes:     b.WeightTonnes,
		FreightCharges:   b.FreightCharges,
		LoadingCharges:   b.LoadingCharges,
		UnloadingCharges: b.UnloadingCharges,
		OtherCharges:     b.OtherCharges,
		TaxAmount:        b.TaxAmount,
		TotalCharges:     b.TotalCharges,
		AdvanceReceived:  b.AdvanceReceived,
		BalanceAmount:    b.BalanceAmount,
		PaymentStatus:    string(b.PaymentStatus),
		BuiltyDate:       b.BuiltyDate,
		DueDate:          b.DueDate,
		Version:          b.Version,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// BuiltiesFromDomain converts domain builties to responses.
func BuiltiesFromDomain(builties []*domain.Builty) []*BuiltyResponse {
	result := make([]*BuiltyResponse, len(builties))
	for i, b := range builties {
		result[i] = BuiltyFromDomain(b)
	}
	return result
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	BuiltyID   *string         `json:"builty_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
	Mode       string          `json:"mode"`
	Reference  string          `json:"reference,omitempty"`
	State      string          `json:"state"`
	AppliedAt  *time.Time      `json:"applied_at,omitempty"`
	ReversedAt *time.Time      `json:"reversed_at,omitempty"`
	Version    int64           `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID,
		ClientID:   p.ClientID,
		BuiltyID:   p.BuiltyID,
		Amount:     p.Amount,
		Kind:       string(p.Kind),
		Mode:       string(p.Mode),
		Reference:  p.Reference,
		State:      string(p.State),
		AppliedAt:  p.AppliedAt,
		ReversedAt: p.ReversedAt,
		Version:    p.Version,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// TripResponse represents a trip in API responses.
type TripResponse struct {
	ID           string          `json:"id"`
	TruckID      string          `json:"truck_id"`
	DriverID     string          `json:"driver_id"`
	ClientID     *string         `json:"client_id,omitempty"`
	Status       string          `json:"status"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	PlannedStart time.Time       `json:"planned_start"`
	PlannedEnd   time.Time       `json:"planned_end"`
	ActualStart  *time.Time      `json:"actual_start,omitempty"`
	ActualEnd    *time.Time      `json:"actual_end,omitempty"`
	DistanceKM   decimal.Decimal `json:"distance_km"`
	FuelLitres   decimal.Decimal `json:"fuel_litres"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TripFromDomain converts a domain trip to a response.
func TripFromDomain(t *domain.Trip) *TripResponse {
	return &TripResponse{
		ID:           t.ID,
		TruckID:      t.TruckID,
		DriverID:     t.DriverID,
		ClientID:     t.ClientID,
		Status:       string(t.Status),
		FromLocation: t.FromLocation,
		ToLocation:   t.ToLocation,
		PlannedStart: t.PlannedStart,
		PlannedEnd:   t.PlannedEnd,
		ActualStart:  t.ActualStart,
		ActualEnd:    t.ActualEnd,
		DistanceKM:   t.DistanceKM,
		FuelLitres:   t.FuelLitres,
		Version:      t.Version,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// TripsFromDomain converts domain trips to responses.
func TripsFromDomain(trips []*domain.Trip) []*TripResponse {
	result := make([]*TripResponse, len(trips))
	for i, t := range trips {
		result[i] = TripFromDomain(t)
	}
	return result
}

// ExpenseResponse represents a trip expense in API responses.
type ExpenseResponse struct {
	ID            string          `json:"id"`
	TripID        *string         `json:"trip_id,omitempty"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   time.Time       `json:"expense_date"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		TripID:        e.TripID,
		Category:      string(e.Category),
		Description:   e.Description,
		Amount:        e.Amount,
		ExpenseDate:   e.ExpenseDate,
		PaymentStatus: string(e.PaymentStatus),
		CreatedAt:     e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// IncomeResponse represents a trip income entry in API responses.
type IncomeResponse struct {
	ID            string          `json:"id"`
	TripID        *string         `json:"trip_id,omitempty"`
	Source        string          `json:"source"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	IncomeDate    time.Time       `json:"income_date"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IncomeFromDomain converts a domain income entry to a response.
func IncomeFromDomain(i *domain.Income) *IncomeResponse {
	return &IncomeResponse{
		ID:            i.ID,
		TripID:        i.TripID,
		Source:        i.Source,
		Description:   i.Description,
		Amount:        i.Amount,
		IncomeDate:    i.IncomeDate,
		PaymentStatus: string(i.PaymentStatus),
		CreatedAt:     i.CreatedAt,
	}
}

// IncomeListFromDomain converts domain income entries to responses.
func IncomeListFromDomain(entries []*domain.Income) []*IncomeResponse {
	result := make([]*IncomeResponse, len(entries))
	for i, e := range entries {
		result[i] = IncomeFromDomain(e)
	}
	return result
}

// TruckResponse represents a truck in API responses.
type TruckResponse struct {
	ID                 string          `json:"id"`
	RegistrationNumber string          `json:"registration_number"`
	Model              string          `json:"model,omitempty"`
	CapacityTonnes     decimal.Decimal `json:"capacity_tonnes"`
	OdometerKM         decimal.Decimal `json:"odometer_km"`
	Active             bool            `json:"active"`
	CreatedAt          time.Time       `json:"created_at"`
}

// TruckFromDomain converts a domain truck to a response.
func TruckFromDomain(t *domain.Truck) *TruckResponse {
	return &TruckResponse{
		ID:                 t.ID,
		RegistrationNumber: t.RegistrationNumber,
		Model:              t.Model,
		CapacityTonnes:     t.CapacityTonnes,
		OdometerKM:         t.OdometerKM,
		Active:             t.Active,
		CreatedAt:          t.CreatedAt,
	}
}

// TrucksFromDomain converts domain trucks to responses.
func TrucksFromDomain(trucks []*domain.Truck) []*TruckResponse {
	result := make([]*TruckResponse, len(trucks))
	for i, t := range trucks {
		result[i] = TruckFromDomain(t)
	}
	return result
}

// DriverResponse represents a driver in API responses.
type DriverResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// DriverFromDomain converts a domain driver to a response.
func DriverFromDomain(d *domain.Driver) *DriverResponse {
	return &DriverResponse{
		ID:            d.ID,
		Name:          d.Name,
		Phone:         d.Phone,
		LicenseNumber: d.LicenseNumber,
		Active:        d.Active,
		CreatedAt:     d.CreatedAt,
	}
}

// DriversFromDomain converts domain drivers to responses.
func DriversFromDomain(drivers []*domain.Driver) []*DriverResponse {
	result := make([]*DriverResponse, len(drivers))
	for i, d := range drivers {
		result[i] = DriverFromDomain(d)
	}
	return result
}

// ListClientsResponse wraps a client listing.
type ListClientsResponse struct {
	Clients []*ClientResponse `json:"clients"`
	Total   int64             `json:"total"`
}

// ListBuiltiesResponse wraps a builty listing.
type ListBuiltiesResponse struct {
	Builties []*BuiltyResponse `json:"builties"`
	Total    int64             `json:"total"`
}

// ListPaymentsResponse wraps a payment listing.
type ListPaymentsResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int64              `json:"total"`
}

// ListTripsResponse wraps a trip listing.
type ListTripsResponse struct {
	Trips []*TripResponse `json:"trips"`
	Total int64           `json:"total"`
}

// ListTrucksResponse wraps a truck listing.
type ListTrucksResponse struct {
	Trucks []*TruckResponse `json:"trucks"`
	Total  int64            `json:"total"`
}

// ListDriversResponse wraps a driver listing.
type ListDriversResponse struct {
	Drivers []*DriverResponse `json:"drivers"`
	Total   int64             `json:"total"`
}

// OutstandingAuditResponse reports one client's outstanding-balance audit.
type OutstandingAuditResponse struct {
	ClientID    string          `json:"client_id"`
	Recorded    decimal.Decimal `json:"recorded"`
	Calculated  decimal.Decimal `json:"calculated"`
	Difference  decimal.Decimal `json:"difference"`
	Consistent  bool            `json:"consistent"`
	LastChecked time.Time       `json:"last_checked"`
}

// OutstandingAuditFromUseCase converts an audit result to a response.
func OutstandingAuditFromUseCase(a *usecase.OutstandingAudit) *OutstandingAuditResponse {
	return &OutstandingAuditResponse{
		ClientID:    a.ClientID,
		Recorded:    a.Recorded,
		Calculated:  a.Calculated,
		Difference:  a.Difference,
		Consistent:  a.Consistent,
		LastChecked: a.LastChecked,
	}
}

// OutstandingAuditsFromUseCase converts a slice of audit results.
func OutstandingAuditsFromUseCase(audits []*usecase.OutstandingAudit) []*OutstandingAuditResponse {
	responses := make([]*OutstandingAuditResponse, len(audits))
	for i, a := range audits {
		responses[i] = OutstandingAuditFromUseCase(a)
	}
	return responses
}

// ConsistencyReportResponse aggregates the per-client outstanding audits.
type ConsistencyReportResponse struct {
	Consistent bool                        `json:"consistent"`
	Clients    []*OutstandingAuditResponse `json:"clients"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
