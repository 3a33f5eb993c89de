// src/processors/business_score.go
package processors

import (
	"github.com/focoagora/backend/src/models"
	"github.com/shopspring/decimal"
)

// Sub-score ceilings.
const (
	MaxFinanceScore   = 40
	MaxInventoryScore = 30
	MaxDemandScore    = 30
)

// ReasonNegativeFreeCash is added to the ads blockers whenever free cash is below zero.
const ReasonNegativeFreeCash = "caixa livre negativo"

// AdsCeilingInput feeds the ads ceiling. Blockers are the user-declared reasons to stop spending.
type AdsCeilingInput struct {
	FreeCash     decimal.Decimal
	MonthRevenue decimal.Decimal
	Blockers     []string
}

type scoreAggregatorImpl struct {
	assumptions Assumptions
}

func NewScoreAggregator(a Assumptions) ScoreAggregator {
	return &scoreAggregatorImpl{assumptions: a}
}

func (p *scoreAggregatorImpl) Aggregate(finance models.FinanceScore, inventory models.InventoryScore, demand models.DemandScore) models.BusinessScore {
	finance.Score = clampScore(finance.Score, MaxFinanceScore)
	inventory.Score = clampScore(inventory.Score, MaxInventoryScore)
	demand.Score = clampScore(demand.Score, MaxDemandScore)

	total := finance.Score + inventory.Score + demand.Score
	return models.BusinessScore{
		Total:     total,
		Status:    StatusFor(total),
		Finance:   finance,
		Inventory: inventory,
		Demand:    demand,
	}
}

// StatusFor maps a 0-100 total to its status band.
func StatusFor(total int) models.ScoreStatus {
	switch {
	case total >= 70:
		return models.StatusHealthy
	case total >= 40:
		return models.StatusCaution
	default:
		return models.StatusRisk
	}
}

// AdsCeiling is min(free cash, revenue × cap), or zero with any blocker present.
func (p *scoreAggregatorImpl) AdsCeiling(in AdsCeilingInput) models.AdsCeiling {
	var reasons []string
	for _, b := range in.Blockers {
		if b != "" {
			reasons = append(reasons, b)
		}
	}
	if in.FreeCash.IsNegative() {
		reasons = append(reasons, ReasonNegativeFreeCash)
	}
	if len(reasons) > 0 {
		return models.AdsCeiling{Amount: decimal.Zero, Blocked: true, Reasons: reasons}
	}

	limit := decimal.Min(in.FreeCash, in.MonthRevenue.Mul(p.assumptions.AdsRevenueCap))
	if limit.IsNegative() {
		limit = decimal.Zero
	}
	return models.AdsCeiling{Amount: limit.Round(2)}
}

// FinanceSubScore scores free cash against the minimum; a negative margin alert costs 10 points.
func FinanceSubScore(freeCash, minimumCash decimal.Decimal, margin *models.MarginEstimate) models.FinanceScore {
	var s models.FinanceScore
	switch {
	case !freeCash.IsPositive():
		s = models.FinanceScore{Score: 0, RiskFlag: true}
	case freeCash.LessThan(minimumCash):
		s = models.FinanceScore{Score: 20}
	default:
		s = models.FinanceScore{Score: MaxFinanceScore}
	}
	if margin != nil && margin.IsNegativeAlert {
		s.Score = clampScore(s.Score-10, MaxFinanceScore)
		s.RiskFlag = true
	}
	return s
}

// InventorySubScore scores stock coverage in days. Unknown coverage gets the midpoint.
func InventorySubScore(coverageDays *int) models.InventoryScore {
	if coverageDays == nil {
		return models.InventoryScore{Score: 15}
	}
	d := *coverageDays
	s := models.InventoryScore{Coverage: d}
	switch {
	case d >= 30:
		s.Score = 30
	case d >= 15:
		s.Score = 20
	case d >= 7:
		s.Score = 10
	}
	return s
}

// DemandSubScore compares the latest week's orders with the average of up to three
// earlier weeks. History is ordered newest first.
func DemandSubScore(history []models.WeeklySnapshot) models.DemandScore {
	var orders []float64
	for _, s := range history {
		if s.PedidosSemana == nil {
			continue
		}
		orders = append(orders, float64(*s.PedidosSemana))
		if len(orders) == 4 {
			break
		}
	}
	if len(orders) < 2 {
		return models.DemandScore{Score: 15, Trend: models.TrendUnknown}
	}

	var sum float64
	for _, o := range orders[1:] {
		sum += o
	}
	avg := sum / float64(len(orders)-1)
	if avg == 0 {
		if orders[0] > 0 {
			return models.DemandScore{Score: 30, Trend: models.TrendUp}
		}
		return models.DemandScore{Score: 20, Trend: models.TrendStable}
	}

	change := (orders[0] - avg) / avg
	switch {
	case change >= 0.05:
		return models.DemandScore{Score: 30, Trend: models.TrendUp}
	case change <= -0.05:
		return models.DemandScore{Score: 10, Trend: models.TrendDown}
	default:
		return models.DemandScore{Score: 20, Trend: models.TrendStable}
	}
}

func clampScore(v, ceiling int) int {
	if v < 0 {
		return 0
	}
	if v > ceiling {
		return ceiling
	}
	return v
}
