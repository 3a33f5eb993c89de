// src/processors/cashflow_projector.go
package processors

import (
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

// WeekLabels names the five points of a projection.
var WeekLabels = [5]string{"Hoje", "S1", "S2", "S3", "S4"}

// windowEnds holds the last day offset of weekly windows 1 to 4.
var windowEnds = [4]int{7, 14, 21, 30}

// minHistoryWeeks is the number of usable snapshots needed for history-based projection.
const minHistoryWeeks = 2

// maxHistoryWeeks caps how many recent snapshots are averaged.
const maxHistoryWeeks = 4

// CashFlowInput is the full input of a projection. History is ordered newest first.
type CashFlowInput struct {
	Cash        decimal.Decimal
	MinimumCash decimal.Decimal
	Entries     []models.LedgerEntry
	History     []models.WeeklySnapshot
	Estimate    models.CashFlowEstimate
	AsOf        time.Time
}

type cashFlowProjectorImpl struct {
	assumptions Assumptions
}

func NewCashFlowProjector(a Assumptions) CashFlowProjector {
	return &cashFlowProjectorImpl{assumptions: a}
}

// Project returns five points. With unpaid entries on the ledger it walks them into
// weekly windows (overdue and due-today entries count in the first week). Without
// them it applies a constant weekly delta taken from history or, failing that, from
// the revenue estimate.
func (p *cashFlowProjectorImpl) Project(in CashFlowInput) models.CashFlowProjection {
	unpaid := models.UnpaidEntries(in.Entries)
	if len(unpaid) > 0 {
		return p.precise(in, unpaid)
	}
	return p.projected(in)
}

func (p *cashFlowProjectorImpl) precise(in CashFlowInput, unpaid []models.LedgerEntry) models.CashFlowProjection {
	today := utils.Day(in.AsOf)
	var deltas [4]decimal.Decimal
	for i := range deltas {
		deltas[i] = decimal.Zero
	}
	for _, e := range unpaid {
		if e.Kind.IsTransfer() {
			continue
		}
		w := windowFor(utils.DaysBetween(today, e.DueDate))
		if w < 0 {
			continue
		}
		deltas[w] = deltas[w].Add(e.Signed())
	}

	balance := in.Cash
	points := []models.CashFlowPoint{p.point(0, balance, in.MinimumCash)}
	for i, d := range deltas {
		balance = balance.Add(d)
		points = append(points, p.point(i+1, balance, in.MinimumCash))
	}
	return models.CashFlowProjection{
		Points:      points,
		Mode:        models.ModePrecise,
		WeeklyDelta: decimal.Zero,
	}
}

// windowFor maps a day offset to a weekly window index, or -1 beyond the horizon.
func windowFor(offset int) int {
	if offset <= 0 {
		return 0
	}
	for i, end := range windowEnds {
		if offset <= end {
			return i
		}
	}
	return -1
}

func (p *cashFlowProjectorImpl) projected(in CashFlowInput) models.CashFlowProjection {
	four := decimal.NewFromInt(4)
	result := models.CashFlowProjection{Mode: models.ModeProjected}

	var usable []decimal.Decimal
	for _, s := range in.History {
		if s.ResultadoMes == nil || s.ResultadoMes.IsZero() {
			continue
		}
		usable = append(usable, *s.ResultadoMes)
		if len(usable) == maxHistoryWeeks {
			break
		}
	}

	if len(usable) >= minHistoryWeeks {
		sum := decimal.Zero
		for _, v := range usable {
			sum = sum.Add(v)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(usable))))
		result.WeeklyDelta = avg.Div(four).Round(2)
		result.SourcedFromHistory = true
		result.HistoryWeeksUsed = len(usable)
	} else {
		est := in.Estimate
		costs := est.FixedCost.Add(est.StructuralMarketing).Add(est.BaseAds)
		monthly := est.ExpectedRevenue.Mul(p.assumptions.OperatingMargin).Sub(costs)
		result.WeeklyDelta = monthly.Div(four).Round(2)
	}

	balance := in.Cash
	result.Points = []models.CashFlowPoint{p.point(0, balance, in.MinimumCash)}
	for i := 1; i < len(WeekLabels); i++ {
		balance = balance.Add(result.WeeklyDelta)
		result.Points = append(result.Points, p.point(i, balance, in.MinimumCash))
	}
	return result
}

func (p *cashFlowProjectorImpl) point(index int, balance, minimum decimal.Decimal) models.CashFlowPoint {
	return models.CashFlowPoint{
		WeekLabel: WeekLabels[index],
		Balance:   balance,
		ColorBand: ClassifyBalance(balance, minimum),
	}
}

// ClassifyBalance colors a balance: red at or below zero, yellow below the minimum.
func ClassifyBalance(balance, minimum decimal.Decimal) models.ColorBand {
	switch {
	case !balance.IsPositive():
		return models.BandRed
	case balance.LessThan(minimum):
		return models.BandYellow
	default:
		return models.BandGreen
	}
}
