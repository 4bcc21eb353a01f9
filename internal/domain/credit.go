package domain

import "github.com/shopspring/decimal"

// CreditDecision is the outcome of a credit evaluation. When OK is false,
// Excess holds the amount by which the proposed charge would push the
// client's exposure past its credit limit.
type CreditDecision struct {
	OK     bool
	Excess decimal.Decimal
}

// EvaluateCredit checks whether a proposed charge would exceed the client's
// credit limit. It is purely advisory and never mutates state; the caller
// decides whether a WOULD_EXCEED outcome blocks the operation or only warns.
//
// A CreditLimit of zero means "no limit enforced" (unlimited credit), NOT
// zero credit. This mirrors the upstream data model's default and is a
// business rule to confirm with stakeholders before tightening.
func EvaluateCredit(c *Client, proposedCharge decimal.Decimal) CreditDecision {
	if c.CreditLimit.LessThanOrEqual(decimal.Zero) {
		return CreditDecision{OK: true, Excess: decimal.Zero}
	}

	exposure := c.OutstandingBalance.Add(proposedCharge)
	if exposure.GreaterThan(c.CreditLimit) {
		return CreditDecision{OK: false, Excess: exposure.Sub(c.CreditLimit)}
	}

	return CreditDecision{OK: true, Excess: decimal.Zero}
}
