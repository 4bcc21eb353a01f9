package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fleetledger/internal/domain"
)

// ReportUseCase is the read-only query surface consumed by external
// reporting: pending amounts, overdue sets, receivables aging.
type ReportUseCase struct {
	clientRepo ClientRepository
	builtyRepo BuiltyRepository
	cache      Cache
}

// NewReportUseCase creates a new ReportUseCase. cache is optional.
func NewReportUseCase(clientRepo ClientRepository, builtyRepo BuiltyRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{
		clientRepo: clientRepo,
		builtyRepo: builtyRepo,
		cache:      cache,
	}
}

// OutstandingSnapshot is a point-in-time view of a client's receivables.
type OutstandingSnapshot struct {
	ClientID           string           `json:"client_id"`
	OutstandingBalance decimal.Decimal  `json:"outstanding_balance"`
	CreditLimit        decimal.Decimal  `json:"credit_limit"`
	CreditAvailable    *decimal.Decimal `json:"credit_available,omitempty"`
	TakenAt            time.Time        `json:"taken_at"`
}

// ClientOutstanding returns a client's outstanding snapshot. Snapshots are
// cached briefly; any reconciliation operation for the client invalidates
// the cache.
func (uc *ReportUseCase) ClientOutstanding(ctx context.Context, clientID string) (*OutstandingSnapshot, error) {
	key := "client:outstanding:" + clientID

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil && len(raw) > 0 {
			var cached OutstandingSnapshot
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	snapshot := &OutstandingSnapshot{
		ClientID:           client.ID,
		OutstandingBalance: client.OutstandingBalance,
		CreditLimit:        client.CreditLimit,
		TakenAt:            time.Now().UTC(),
	}

	// A zero credit limit means unenforced, so "available" is undefined.
	if client.CreditLimit.IsPositive() {
		available := domain.SubClamped(client.CreditLimit, client.OutstandingBalance)
		snapshot.CreditAvailable = &available
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(snapshot); err == nil {
			_ = uc.cache.Set(ctx, key, raw, OutstandingCacheTTL)
		}
	}

	return snapshot, nil
}

// PendingBuilties lists builties that still carry a balance.
func (uc *ReportUseCase) PendingBuilties(ctx context.Context, limit, offset int) ([]*domain.Builty, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	pending, err := uc.builtyRepo.ListByPaymentStatus(ctx, domain.BuiltyPaymentPending, limit, offset)
	if err != nil {
		return nil, err
	}

	partial, err := uc.builtyRepo.ListByPaymentStatus(ctx, domain.BuiltyPaymentPartial, limit, offset)
	if err != nil {
		return nil, err
	}

	return append(pending, partial...), nil
}

// OverdueBuilties lists builties with a balance past their due date.
func (uc *ReportUseCase) OverdueBuilties(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Builty, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.builtyRepo.ListOverdue(ctx, asOf, limit, offset)
}

// AgingBucket is one band of the receivables aging report.
type AgingBucket struct {
	Label  string          `json:"label"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// AgingReport buckets a client's unpaid builties by days past due:
// current (not yet due), 0-30, 31-60, 61-90, 90+.
type AgingReport struct {
	ClientID string          `json:"client_id"`
	AsOf     time.Time       `json:"as_of"`
	Buckets  []AgingBucket   `json:"buckets"`
	Total    decimal.Decimal `json:"total"`
}

// ClientAging computes the receivables aging report for a client.
func (uc *ReportUseCase) ClientAging(ctx context.Context, clientID string, asOf time.Time) (*AgingReport, error) {
	if _, err := uc.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(10000, 0)
	builties, err := uc.builtyRepo.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, err
	}

	buckets := []AgingBucket{
		{Label: "current", Amount: decimal.Zero},
		{Label: "0-30", Amount: decimal.Zero},
		{Label: "31-60", Amount: decimal.Zero},
		{Label: "61-90", Amount: decimal.Zero},
		{Label: "90+", Amount: decimal.Zero},
	}
	total := decimal.Zero

	for _, b := range builties {
		if !b.BalanceAmount.IsPositive() {
			continue
		}

		idx := 0
		if asOf.After(b.DueDate) {
			days := int(asOf.Sub(b.DueDate).Hours() / 24)
			switch {
			case days <= 30:
				idx = 1
			case days <= 60:
				idx = 2
			case days <= 90:
				idx = 3
			default:
				idx = 4
			}
		}

		buckets[idx].Count++
		buckets[idx].Amount = buckets[idx].Amount.Add(b.BalanceAmount)
		total = total.Add(b.BalanceAmount)
	}

	return &AgingReport{
		ClientID: clientID,
		AsOf:     asOf,
		Buckets:  buckets,
		Total:    total,
	}, nil
}
