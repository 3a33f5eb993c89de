package processors

import (
	"testing"

	"github.com/focoagora/backend/src/models"
)

func TestAggregateStatus(t *testing.T) {
	s := NewScoreAggregator(DefaultAssumptions())
	cases := []struct {
		f, i, d int
		total   int
		want    models.ScoreStatus
	}{
		{40, 30, 30, 100, models.StatusHealthy},
		{30, 20, 20, 70, models.StatusHealthy},
		{20, 20, 20, 60, models.StatusCaution},
		{20, 10, 10, 40, models.StatusCaution},
		{20, 10, 9, 39, models.StatusRisk},
		{0, 0, 0, 0, models.StatusRisk},
		{55, 31, -4, 70, models.StatusHealthy},
	}
	for _, c := range cases {
		got := s.Aggregate(models.FinanceScore{Score: c.f}, models.InventoryScore{Score: c.i}, models.DemandScore{Score: c.d})
		if got.Total != c.total || got.Status != c.want {
			t.Errorf("Aggregate(%d,%d,%d): expected %d/%s, got %d/%s", c.f, c.i, c.d, c.total, c.want, got.Total, got.Status)
		}
	}
}

func TestAdsCeiling(t *testing.T) {
	s := NewScoreAggregator(DefaultAssumptions())

	got := s.AdsCeiling(AdsCeilingInput{FreeCash: dec("5000"), MonthRevenue: dec("30000")})
	if !got.Amount.Equal(dec("3000")) || got.Blocked {
		t.Errorf("expected ceiling 3000 unblocked, got %s blocked=%v", got.Amount, got.Blocked)
	}

	got = s.AdsCeiling(AdsCeilingInput{FreeCash: dec("1000"), MonthRevenue: dec("30000")})
	if !got.Amount.Equal(dec("1000")) {
		t.Errorf("expected ceiling limited by free cash 1000, got %s", got.Amount)
	}

	got = s.AdsCeiling(AdsCeilingInput{FreeCash: dec("5000"), MonthRevenue: dec("30000"), Blockers: []string{"estoque em ruptura"}})
	if !got.Amount.IsZero() || !got.Blocked || len(got.Reasons) != 1 {
		t.Errorf("expected a blocked zero ceiling with 1 reason, got %s/%v/%v", got.Amount, got.Blocked, got.Reasons)
	}

	got = s.AdsCeiling(AdsCeilingInput{FreeCash: dec("-1"), MonthRevenue: dec("30000")})
	if !got.Amount.IsZero() || !got.Blocked {
		t.Errorf("expected negative free cash to block ads, got %s/%v", got.Amount, got.Blocked)
	}
	if len(got.Reasons) != 1 || got.Reasons[0] != ReasonNegativeFreeCash {
		t.Errorf("expected reason %q, got %v", ReasonNegativeFreeCash, got.Reasons)
	}
}

func TestFinanceSubScore(t *testing.T) {
	if got := FinanceSubScore(dec("0"), dec("1000"), nil); got.Score != 0 || !got.RiskFlag {
		t.Errorf("expected 0 with risk flag, got %+v", got)
	}
	if got := FinanceSubScore(dec("500"), dec("1000"), nil); got.Score != 20 || got.RiskFlag {
		t.Errorf("expected 20 without risk, got %+v", got)
	}
	if got := FinanceSubScore(dec("1000"), dec("1000"), nil); got.Score != 40 {
		t.Errorf("expected 40, got %+v", got)
	}
	neg := &models.MarginEstimate{IsNegativeAlert: true}
	if got := FinanceSubScore(dec("1000"), dec("1000"), neg); got.Score != 30 || !got.RiskFlag {
		t.Errorf("expected 30 with risk after a negative margin alert, got %+v", got)
	}
}

func TestInventorySubScore(t *testing.T) {
	days := func(n int) *int { return &n }
	cases := []struct {
		in   *int
		want int
	}{
		{nil, 15}, {days(45), 30}, {days(30), 30}, {days(29), 20}, {days(15), 20}, {days(14), 10}, {days(7), 10}, {days(6), 0},
	}
	for _, c := range cases {
		if got := InventorySubScore(c.in); got.Score != c.want {
			t.Errorf("expected %d, got %d", c.want, got.Score)
		}
	}
}

func TestDemandSubScore(t *testing.T) {
	week := func(orders int) models.WeeklySnapshot { return models.WeeklySnapshot{PedidosSemana: &orders} }
	cases := []struct {
		history []models.WeeklySnapshot
		score   int
		trend   models.DemandTrend
	}{
		{nil, 15, models.TrendUnknown},
		{[]models.WeeklySnapshot{week(100)}, 15, models.TrendUnknown},
		{[]models.WeeklySnapshot{week(110), week(100), week(100)}, 30, models.TrendUp},
		{[]models.WeeklySnapshot{week(102), week(100), {}, week(100)}, 20, models.TrendStable},
		{[]models.WeeklySnapshot{week(90), week(100)}, 10, models.TrendDown},
	}
	for i, c := range cases {
		got := DemandSubScore(c.history)
		if got.Score != c.score || got.Trend != c.trend {
			t.Errorf("case %d: expected %d/%s, got %d/%s", i, c.score, c.trend, got.Score, got.Trend)
		}
	}
}
