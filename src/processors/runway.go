// src/processors/runway.go
package processors

import (
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

// freeCashHorizonDays bounds the obligations subtracted from cash.
const freeCashHorizonDays = 7

// MonthlyBurn is the recurring monthly outflow: catalog, active loan installments and base ads.
func MonthlyBurn(catalog models.CostCatalog, loans []models.Loan, baseAds decimal.Decimal, asOf time.Time) decimal.Decimal {
	return catalog.Total().Add(models.LoansMonthlyTotal(loans, asOf)).Add(baseAds)
}

// ComputeRunway returns cash / daily burn in whole days.
func ComputeRunway(cash, monthlyBurn decimal.Decimal) models.Runway {
	r := models.Runway{MonthlyBurn: monthlyBurn.Round(2)}
	if !monthlyBurn.IsPositive() {
		r.Unlimited = true
		return r
	}
	if !cash.IsPositive() {
		return r
	}
	daily := monthlyBurn.Div(decimal.NewFromInt(30))
	r.Days = int(cash.Div(daily).Floor().IntPart())
	return r
}

// FreeCash is cash minus unpaid outflows already overdue or due within the next seven days.
func FreeCash(cash decimal.Decimal, entries []models.LedgerEntry, asOf time.Time) decimal.Decimal {
	today := utils.Day(asOf)
	free := cash
	for _, e := range entries {
		if e.Paid || e.Kind.IsInflow() || e.Kind.IsTransfer() {
			continue
		}
		if utils.DaysBetween(today, e.DueDate) <= freeCashHorizonDays {
			free = free.Sub(e.Amount)
		}
	}
	return free
}
