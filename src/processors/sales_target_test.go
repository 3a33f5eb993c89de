package processors

import (
	"testing"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
)

func TestComputeTarget(t *testing.T) {
	entries := []models.LedgerEntry{
		{Kind: models.KindPayable, Amount: dec("400"), DueDate: utils.Date(2026, time.October, 18)},
		{Kind: models.KindCard, Amount: dec("400"), DueDate: utils.Date(2026, time.October, 25)},
		{Kind: models.KindPayable, Amount: dec("999"), DueDate: utils.Date(2026, time.October, 26)},
		{Kind: models.KindPayable, Amount: dec("999"), DueDate: utils.Date(2026, time.October, 17)},
		{Kind: models.KindPayable, Amount: dec("999"), DueDate: utils.Date(2026, time.October, 20), Paid: true},
		{Kind: models.KindReceivable, Amount: dec("300"), DueDate: utils.Date(2026, time.October, 20)},
		{Kind: models.KindIntercompany, Amount: dec("1000"), DueDate: utils.Date(2026, time.October, 21)},
	}
	got := NewSalesTargetCalculator(DefaultAssumptions()).ComputeTarget(entries, asOf())

	checks := []struct {
		name, got, want string
	}{
		{"payable", got.PayableNext7d.StringFixed(2), "800.00"},
		{"receivable", got.ReceivableNext7d.StringFixed(2), "300.00"},
		{"net", got.NetNext7d.StringFixed(2), "-500.00"},
		{"revenue needed", got.RevenueNeeded.StringFixed(2), "2000.00"},
		{"daily", got.DailyTarget.StringFixed(2), "285.71"},
		{"buffered", got.BufferedTarget.StringFixed(2), "2400.00"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %s, got %s", c.name, c.want, c.got)
		}
	}
}

func TestComputeTargetWithoutPayables(t *testing.T) {
	got := NewSalesTargetCalculator(DefaultAssumptions()).ComputeTarget(nil, asOf())
	if !got.RevenueNeeded.IsZero() || !got.DailyTarget.IsZero() || !got.BufferedTarget.IsZero() {
		t.Errorf("expected zero targets, got %+v", got)
	}
}
