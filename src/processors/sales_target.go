// src/processors/sales_target.go
package processors

import (
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

// targetHorizonDays is the look-ahead of the sales target, inclusive of today.
const targetHorizonDays = 7

type salesTargetCalculatorImpl struct {
	assumptions Assumptions
}

func NewSalesTargetCalculator(a Assumptions) SalesTargetCalculator {
	return &salesTargetCalculatorImpl{assumptions: a}
}

// ComputeTarget sums unpaid entries due in [asOf, asOf+7] and derives the revenue
// that, at the operating margin, covers the outflows.
func (p *salesTargetCalculatorImpl) ComputeTarget(entries []models.LedgerEntry, asOf time.Time) models.SalesTarget {
	today := utils.Day(asOf)
	payable, receivable := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Paid || e.Kind.IsTransfer() {
			continue
		}
		offset := utils.DaysBetween(today, e.DueDate)
		if offset < 0 || offset > targetHorizonDays {
			continue
		}
		if e.Kind.IsInflow() {
			receivable = receivable.Add(e.Amount)
		} else {
			payable = payable.Add(e.Amount)
		}
	}

	target := models.SalesTarget{
		PayableNext7d:    payable.Round(2),
		ReceivableNext7d: receivable.Round(2),
		NetNext7d:        receivable.Sub(payable).Round(2),
		RevenueNeeded:    decimal.Zero,
		DailyTarget:      decimal.Zero,
		BufferedTarget:   decimal.Zero,
	}
	if !payable.IsPositive() || !p.assumptions.OperatingMargin.IsPositive() {
		return target
	}

	needed := payable.Div(p.assumptions.OperatingMargin)
	target.RevenueNeeded = needed.Round(2)
	target.DailyTarget = needed.Div(decimal.NewFromInt(targetHorizonDays)).Round(2)
	target.BufferedTarget = needed.Mul(p.assumptions.SafetyBuffer).Round(2)
	return target
}
