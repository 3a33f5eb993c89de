// src/models/focus.go
package models

import (
	"time"

	"github.com/focoagora/backend/src/money"
	"github.com/shopspring/decimal"
)

// FocusState is the per-user focus-mode blob, stored JSON-serialized in a single row.
// Money inputs stay as the strings the user typed; Finance.Parse converts them.
type FocusState struct {
	Finance       FinanceInputs              `json:"financeiro"`
	Catalog       CostCatalog                `json:"catalogo"`
	Loans         []Loan                     `json:"emprestimos"`
	Channels      []RevenueChannel           `json:"canais"`
	Checklists    map[string]map[string]bool `json:"checklists"`
	StageScores   StageScores                `json:"scores"`
	Inventory     InventoryInputs            `json:"estoque"`
	AdsBlockers   []string                   `json:"bloqueios_ads"`
	Ritmo         map[string]string          `json:"ritmo"`
	ReminderEmail string                     `json:"email_lembrete,omitempty"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// FinanceInputs are the loosely formatted values typed in the finance stage.
type FinanceInputs struct {
	CashBalance          string `json:"saldo_caixa"`
	MinimumCash          string `json:"caixa_minimo"`
	MonthRevenue         string `json:"faturamento_mes"`
	PreviousMonthRevenue string `json:"faturamento_mes_anterior"`
	ExpectedRevenue      string `json:"faturamento_esperado"`
	BaseAds              string `json:"ads_base"`
	StructuralMarketing  string `json:"marketing_estrutural"`
}

// FinanceValues is FinanceInputs after parsing.
type FinanceValues struct {
	Cash                 decimal.Decimal
	MinimumCash          decimal.Decimal
	MonthRevenue         decimal.Decimal
	PreviousMonthRevenue decimal.Decimal
	ExpectedRevenue      decimal.Decimal
	BaseAds              decimal.Decimal
	StructuralMarketing  decimal.Decimal
}

// Parse converts every input through the currency parser; bad input becomes zero.
func (f FinanceInputs) Parse() FinanceValues {
	return FinanceValues{
		Cash:                 money.Parse(f.CashBalance),
		MinimumCash:          money.Parse(f.MinimumCash),
		MonthRevenue:         money.Parse(f.MonthRevenue),
		PreviousMonthRevenue: money.Parse(f.PreviousMonthRevenue),
		ExpectedRevenue:      money.Parse(f.ExpectedRevenue),
		BaseAds:              money.Parse(f.BaseAds),
		StructuralMarketing:  money.Parse(f.StructuralMarketing),
	}
}

// RevenueChannel is a sales channel whose expected revenue feeds receivable projections.
type RevenueChannel struct {
	ID                string `json:"id"`
	Name              string `json:"nome"`
	MonthlyRevenue    string `json:"receita_mensal"`
	SettlementLagDays int    `json:"prazo_recebimento_dias"`
}

// StageScores holds scores typed in manually; nil means "derive a default".
type StageScores struct {
	Finance   *int `json:"financeiro,omitempty"`
	Inventory *int `json:"estoque,omitempty"`
	Demand    *int `json:"demanda,omitempty"`
}

// InventoryInputs are the supply-chain stage values used by the inventory sub-score.
type InventoryInputs struct {
	CoverageDays *int `json:"cobertura_dias,omitempty"`
}

// NewFocusState returns an empty state with initialized maps.
func NewFocusState() *FocusState {
	return &FocusState{
		Checklists: make(map[string]map[string]bool),
		Ritmo:      make(map[string]string),
	}
}
