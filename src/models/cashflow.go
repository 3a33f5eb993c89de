// src/models/cashflow.go
package models

import "github.com/shopspring/decimal"

// ColorBand classifies a projected balance against the minimum cash target.
type ColorBand string

const (
	BandGreen  ColorBand = "verde"
	BandYellow ColorBand = "amarelo"
	BandRed    ColorBand = "vermelho"
)

// ProjectionMode tells how a cash-flow trajectory was built.
type ProjectionMode string

const (
	ModePrecise   ProjectionMode = "preciso"
	ModeProjected ProjectionMode = "projetado"
)

// CashFlowPoint is one point of the five-point balance trajectory.
type CashFlowPoint struct {
	WeekLabel string          `json:"semana"`
	Balance   decimal.Decimal `json:"saldo"`
	ColorBand ColorBand       `json:"cor"`
}

// CashFlowProjection is today plus four weekly points.
type CashFlowProjection struct {
	Points             []CashFlowPoint `json:"pontos"`
	Mode               ProjectionMode  `json:"modo"`
	SourcedFromHistory bool            `json:"baseado_historico"`
	HistoryWeeksUsed   int             `json:"semanas_historico"`
	WeeklyDelta        decimal.Decimal `json:"variacao_semanal"`
}

// CashFlowEstimate feeds the estimated sub-mode when history is insufficient.
type CashFlowEstimate struct {
	ExpectedRevenue     decimal.Decimal `json:"faturamento_esperado"`
	FixedCost           decimal.Decimal `json:"custo_fixo"`
	StructuralMarketing decimal.Decimal `json:"marketing_estrutural"`
	BaseAds             decimal.Decimal `json:"ads_base"`
}
