// src/processors/assumptions.go
package processors

import "github.com/shopspring/decimal"

// Assumptions are the business constants the calculators share.
type Assumptions struct {
	OperatingMargin decimal.Decimal // share of revenue left after variable costs
	StandardMargin  decimal.Decimal // expected gross margin, compared with the realized one
	TaxRate         decimal.Decimal // applied over the previous month's revenue
	TaxInstallments int
	TaxDueDay       int
	AdsRevenueCap   decimal.Decimal
	SafetyBuffer    decimal.Decimal
	MarginAlertPp   float64
	COGSWindowDays  int
	DedupPrefixLen  int

	// DefaultMinimumCash applies when the user has not set a minimum cash target.
	DefaultMinimumCash decimal.Decimal
}

// DefaultAssumptions returns the values the product ships with.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		OperatingMargin: decimal.NewFromFloat(0.40),
		StandardMargin:  decimal.NewFromFloat(0.40),
		TaxRate:         decimal.NewFromFloat(0.16),
		TaxInstallments: 4,
		TaxDueDay:       20,
		AdsRevenueCap:   decimal.NewFromFloat(0.10),
		SafetyBuffer:    decimal.NewFromFloat(1.2),
		MarginAlertPp:   5,
		COGSWindowDays:  60,
		DedupPrefixLen:  20,
	}
}
