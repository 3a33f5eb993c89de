// src/processors/weekly_review.go
package processors

import (
	"math"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

// minReviewWeeks is how many earlier weeks a metric needs before it is compared.
const minReviewWeeks = 2

// ReviewWeeks compares the newest snapshot with the average of up to four earlier ones.
// History is ordered newest first. Returns nil for an empty history.
func ReviewWeeks(history []models.WeeklySnapshot) *models.WeeklyReview {
	if len(history) == 0 {
		return nil
	}
	latest := history[0]
	previous := history[1:]
	if len(previous) > maxHistoryWeeks {
		previous = previous[:maxHistoryWeeks]
	}

	review := &models.WeeklyReview{
		WeekStart:     latest.WeekStart,
		WeeksCompared: len(previous),
		LastDecision:  latest.DecisaoAds,
	}
	review.Resultado = compareMetric(latest, previous, func(s models.WeeklySnapshot) (float64, bool) {
		return decimalMetric(s.ResultadoMes)
	})
	review.Roas = compareMetric(latest, previous, func(s models.WeeklySnapshot) (float64, bool) {
		if s.RoasMedio == nil {
			return 0, false
		}
		return *s.RoasMedio, true
	})
	review.Sessoes = compareMetric(latest, previous, func(s models.WeeklySnapshot) (float64, bool) {
		return intMetric(s.SessoesSemana)
	})
	review.Pedidos = compareMetric(latest, previous, func(s models.WeeklySnapshot) (float64, bool) {
		return intMetric(s.PedidosSemana)
	})
	review.GastoAds = compareMetric(latest, previous, func(s models.WeeklySnapshot) (float64, bool) {
		return decimalMetric(s.GastoAds)
	})
	return review
}

func compareMetric(latest models.WeeklySnapshot, previous []models.WeeklySnapshot, get func(models.WeeklySnapshot) (float64, bool)) models.MetricDelta {
	current, ok := get(latest)
	if !ok {
		return models.MetricDelta{}
	}
	var sum float64
	n := 0
	for _, s := range previous {
		if v, ok := get(s); ok {
			sum += v
			n++
		}
	}
	d := models.MetricDelta{Latest: utils.RoundFloat(current, 2)}
	if n < minReviewWeeks {
		return d
	}
	avg := sum / float64(n)
	d.Average = utils.RoundFloat(avg, 2)
	d.HasData = true
	if avg != 0 {
		d.DeltaPct = utils.RoundFloat((current-avg)/math.Abs(avg)*100, 2)
	}
	return d
}

func decimalMetric(v *decimal.Decimal) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return v.InexactFloat64(), true
}

func intMetric(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

// SnapshotFromLedger builds the ledger-derived part of a weekly snapshot: the month's
// result so far (settled receivables minus settled outflows), real free cash and ads
// spend. Marketing metrics stay nil; the user fills them in.
func SnapshotFromLedger(weekStart time.Time, cash decimal.Decimal, entries []models.LedgerEntry, asOf time.Time) models.WeeklySnapshot {
	result, ads := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if !e.Paid || e.IsProjection || e.Kind.IsTransfer() || !utils.SameMonth(e.DueDate, asOf) || e.DueDate.After(utils.Day(asOf)) {
			continue
		}
		result = result.Add(e.Signed())
		if e.Category == string(models.CategoryAds) {
			ads = ads.Add(e.Amount)
		}
	}
	free := FreeCash(cash, entries, asOf).Round(2)
	result = result.Round(2)
	ads = ads.Round(2)
	return models.WeeklySnapshot{
		WeekStart:      utils.WeekStart(weekStart),
		ResultadoMes:   &result,
		CaixaLivreReal: &free,
		GastoAds:       &ads,
	}
}
