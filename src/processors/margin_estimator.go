// src/processors/margin_estimator.go
package processors

import (
	"math"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

type marginEstimatorImpl struct {
	assumptions Assumptions
	classifier  *KeywordClassifier
}

func NewMarginEstimator(a Assumptions, classifier *KeywordClassifier) MarginEstimator {
	return &marginEstimatorImpl{assumptions: a, classifier: classifier}
}

// EstimateMargin returns nil when there is no revenue to compare against.
// COGS is the sum of paid payables due within the trailing window ending at asOf whose category or
// description matches a cost-of-goods keyword. Card bills and intercompany transfers never count.
func (p *marginEstimatorImpl) EstimateMargin(entries []models.LedgerEntry, monthRevenue decimal.Decimal, asOf time.Time) *models.MarginEstimate {
	if !monthRevenue.IsPositive() {
		return nil
	}

	today := utils.Day(asOf)
	cogs := decimal.Zero
	for _, e := range entries {
		if !e.Paid || e.Kind != models.KindPayable {
			continue
		}
		if e.DueDate.After(today) || utils.DaysBetween(e.DueDate, today) > p.assumptions.COGSWindowDays {
			continue
		}
		if !p.classifier.Matches(e.Category, e.Description) {
			continue
		}
		cogs = cogs.Add(e.Amount)
	}

	hundred := decimal.NewFromInt(100)
	realMargin := decimal.NewFromInt(1).Sub(cogs.Div(monthRevenue)).Mul(hundred)
	standard := p.assumptions.StandardMargin.Mul(hundred)
	deviation := realMargin.Sub(standard)

	realPct := utils.RoundFloat(realMargin.InexactFloat64(), 2)
	devPp := utils.RoundFloat(deviation.InexactFloat64(), 2)
	return &models.MarginEstimate{
		RealMarginPct:     realPct,
		StandardMarginPct: utils.RoundFloat(standard.InexactFloat64(), 2),
		DeviationPp:       devPp,
		HasAlert:          math.Abs(devPp) > p.assumptions.MarginAlertPp,
		IsNegativeAlert:   devPp < -p.assumptions.MarginAlertPp,
		TotalCOGS:         cogs.Round(2),
	}
}
