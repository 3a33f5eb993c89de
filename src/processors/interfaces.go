// src/processors/interfaces.go
package processors

import (
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/shopspring/decimal"
)

// FixedCostGenerator expands the cost catalog into dated ledger entries for a month.
type FixedCostGenerator interface {
	Generate(req GenerationRequest) GenerationResult
}

// CashFlowProjector builds the five-point balance trajectory.
type CashFlowProjector interface {
	Project(in CashFlowInput) models.CashFlowProjection
}

// MarginEstimator derives realized margin from paid cost-of-goods entries.
type MarginEstimator interface {
	EstimateMargin(entries []models.LedgerEntry, monthRevenue decimal.Decimal, asOf time.Time) *models.MarginEstimate
}

// ScoreAggregator combines sub-scores and derives the ads ceiling.
type ScoreAggregator interface {
	Aggregate(finance models.FinanceScore, inventory models.InventoryScore, demand models.DemandScore) models.BusinessScore
	AdsCeiling(in AdsCeilingInput) models.AdsCeiling
}

// SalesTargetCalculator derives the revenue needed over the next seven days.
type SalesTargetCalculator interface {
	ComputeTarget(entries []models.LedgerEntry, asOf time.Time) models.SalesTarget
}

// RitmoTracker evaluates the freshness of the bookkeeping rituals.
type RitmoTracker interface {
	Evaluate(lastPerformed map[string]string, weekStart, today time.Time) models.RitmoStatus
	Known(id string) bool
}

// Suite bundles every calculator built from one set of assumptions.
type Suite struct {
	Assumptions Assumptions
	Generator   FixedCostGenerator
	Projector   CashFlowProjector
	Margin      MarginEstimator
	Score       ScoreAggregator
	SalesTarget SalesTargetCalculator
	Ritmo       RitmoTracker
}

// NewSuite wires the default implementations.
func NewSuite(a Assumptions) *Suite {
	return &Suite{
		Assumptions: a,
		Generator:   NewFixedCostGenerator(a, DefaultDueDayTable()),
		Projector:   NewCashFlowProjector(a),
		Margin:      NewMarginEstimator(a, NewKeywordClassifier(DefaultCOGSKeywords...)),
		Score:       NewScoreAggregator(a),
		SalesTarget: NewSalesTargetCalculator(a),
		Ritmo:       NewRitmoTracker(DefaultRitmoTasks),
	}
}
