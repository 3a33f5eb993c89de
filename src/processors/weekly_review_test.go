package processors

import (
	"testing"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
)

func TestReviewWeeks(t *testing.T) {
	if ReviewWeeks(nil) != nil {
		t.Error("expected nil review for an empty history")
	}

	orders := func(n int) *int { return &n }
	roas := 3.0
	history := []models.WeeklySnapshot{
		{WeekStart: utils.Date(2026, time.October, 12), PedidosSemana: orders(120), RoasMedio: &roas, DecisaoAds: models.AdsScale},
		{PedidosSemana: orders(100)},
		{PedidosSemana: orders(100)},
		{},
		{PedidosSemana: orders(100)},
		{PedidosSemana: orders(1)},
	}
	review := ReviewWeeks(history)
	if review.WeeksCompared != 4 {
		t.Errorf("expected 4 weeks compared, got %d", review.WeeksCompared)
	}
	if !review.Pedidos.HasData || review.Pedidos.Average != 100 || review.Pedidos.DeltaPct != 20 {
		t.Errorf("expected orders +20%% over 100, got %+v", review.Pedidos)
	}
	if review.Roas.HasData {
		t.Error("expected ROAS without earlier weeks to have no comparison")
	}
	if review.Roas.Latest != 3 {
		t.Errorf("expected latest ROAS 3, got %v", review.Roas.Latest)
	}
	if review.LastDecision != models.AdsScale {
		t.Errorf("expected last decision %q, got %q", models.AdsScale, review.LastDecision)
	}
}

func TestSnapshotFromLedger(t *testing.T) {
	entries := []models.LedgerEntry{
		{Kind: models.KindReceivable, Amount: dec("9000"), DueDate: utils.Date(2026, time.October, 5), Paid: true},
		{Kind: models.KindPayable, Amount: dec("3000"), DueDate: utils.Date(2026, time.October, 7), Paid: true},
		{Kind: models.KindPayable, Category: "ads", Amount: dec("1000"), DueDate: utils.Date(2026, time.October, 14), Paid: true},
		{Kind: models.KindPayable, Amount: dec("999"), DueDate: utils.Date(2026, time.September, 30), Paid: true},
		{Kind: models.KindPayable, Amount: dec("500"), DueDate: utils.Date(2026, time.October, 20)},
		{Kind: models.KindIntercompany, Amount: dec("2000"), DueDate: utils.Date(2026, time.October, 9), Paid: true},
		{Kind: models.KindIntercompany, Amount: dec("700"), DueDate: utils.Date(2026, time.October, 19)},
	}
	s := SnapshotFromLedger(asOf(), dec("4000"), entries, asOf())
	if got := utils.FormatISODate(s.WeekStart); got != "2026-10-12" {
		t.Errorf("expected week start 2026-10-12, got %s", got)
	}
	if !s.ResultadoMes.Equal(dec("5000")) {
		t.Errorf("expected month result 5000, got %s", s.ResultadoMes)
	}
	if !s.CaixaLivreReal.Equal(dec("3500")) {
		t.Errorf("expected free cash 3500, got %s", s.CaixaLivreReal)
	}
	if !s.GastoAds.Equal(dec("1000")) {
		t.Errorf("expected ads spend 1000, got %s", s.GastoAds)
	}
	if s.PedidosSemana != nil || s.RoasMedio != nil {
		t.Error("expected marketing metrics to stay unset")
	}
}
