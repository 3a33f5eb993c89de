// src/models/score.go
package models

import "github.com/shopspring/decimal"

// ScoreStatus is the tri-state business health classification.
type ScoreStatus string

const (
	StatusHealthy ScoreStatus = "saudavel"
	StatusCaution ScoreStatus = "atencao"
	StatusRisk    ScoreStatus = "risco"
)

// DemandTrend is the direction of orders compared with recent weeks.
type DemandTrend string

const (
	TrendUp      DemandTrend = "alta"
	TrendStable  DemandTrend = "estavel"
	TrendDown    DemandTrend = "queda"
	TrendUnknown DemandTrend = "sem_dados"
)

type FinanceScore struct {
	Score    int  `json:"score"`
	RiskFlag bool `json:"risco"`
}

type InventoryScore struct {
	Score    int `json:"score"`
	Coverage int `json:"cobertura_dias"`
}

type DemandScore struct {
	Score int         `json:"score"`
	Trend DemandTrend `json:"tendencia"`
}

// BusinessScore combines the finance (0-40), inventory (0-30) and demand (0-30) sub-scores.
type BusinessScore struct {
	Total     int            `json:"total"`
	Status    ScoreStatus    `json:"status"`
	Finance   FinanceScore   `json:"financeiro"`
	Inventory InventoryScore `json:"estoque"`
	Demand    DemandScore    `json:"demanda"`
}

// AdsCeiling is the maximum advertising spend allowed for the period.
type AdsCeiling struct {
	Amount  decimal.Decimal `json:"teto"`
	Blocked bool            `json:"bloqueado"`
	Reasons []string        `json:"motivos,omitempty"`
}

// MarginEstimate compares realized margin against the standard assumption.
type MarginEstimate struct {
	RealMarginPct     float64         `json:"margem_real_pct"`
	StandardMarginPct float64         `json:"margem_padrao_pct"`
	DeviationPp       float64         `json:"desvio_pp"`
	HasAlert          bool            `json:"alerta"`
	IsNegativeAlert   bool            `json:"alerta_negativo"`
	TotalCOGS         decimal.Decimal `json:"cmv_total"`
}

// SalesTarget is the revenue needed over the next seven days to cover payables.
type SalesTarget struct {
	PayableNext7d    decimal.Decimal `json:"pagar_7d"`
	ReceivableNext7d decimal.Decimal `json:"receber_7d"`
	NetNext7d        decimal.Decimal `json:"saldo_7d"`
	RevenueNeeded    decimal.Decimal `json:"faturamento_necessario"`
	DailyTarget      decimal.Decimal `json:"meta_diaria"`
	BufferedTarget   decimal.Decimal `json:"meta_com_folga"`
}

// Runway is the number of days the business survives at the current burn.
type Runway struct {
	Days        int             `json:"dias"`
	MonthlyBurn decimal.Decimal `json:"queima_mensal"`
	Unlimited   bool            `json:"sem_queima"`
}
