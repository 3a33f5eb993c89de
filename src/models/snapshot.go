// src/models/snapshot.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeeklySnapshot is an append-only weekly record. Pointer fields are nil when unknown.
type WeeklySnapshot struct {
	ID             int64            `json:"id,omitempty"`
	WeekStart      time.Time        `json:"semana_inicio"`
	ResultadoMes   *decimal.Decimal `json:"resultado_mes"`
	RoasMedio      *float64         `json:"roas_medio"`
	CaixaLivreReal *decimal.Decimal `json:"caixa_livre_real"`
	GastoAds       *decimal.Decimal `json:"gasto_ads"`
	DecisaoAds     string           `json:"decisao_ads"`
	ScoreOrganico  *int             `json:"score_organico"`
	SessoesSemana  *int             `json:"sessoes_semana"`
	PedidosSemana  *int             `json:"pedidos_semana"`
	CreatedAt      time.Time        `json:"created_at,omitempty"`
}

// Ads decisions recorded in a weekly snapshot.
const (
	AdsScale  = "escalar"
	AdsKeep   = "manter"
	AdsReduce = "reduzir"
	AdsPause  = "pausar"
)

// MetricDelta compares the latest week with the average of the previous ones.
type MetricDelta struct {
	Latest   float64 `json:"atual"`
	Average  float64 `json:"media"`
	DeltaPct float64 `json:"variacao_pct"`
	HasData  bool    `json:"tem_dados"`
}

// WeeklyReview is the learning-loop comparison of the latest completed week.
type WeeklyReview struct {
	WeekStart     time.Time   `json:"semana_inicio"`
	WeeksCompared int         `json:"semanas_comparadas"`
	Resultado     MetricDelta `json:"resultado"`
	Roas          MetricDelta `json:"roas"`
	Sessoes       MetricDelta `json:"sessoes"`
	Pedidos       MetricDelta `json:"pedidos"`
	GastoAds      MetricDelta `json:"gasto_ads"`
	LastDecision  string      `json:"ultima_decisao"`
}
