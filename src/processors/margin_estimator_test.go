package processors

import (
	"testing"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

func newMargin() MarginEstimator {
	return NewMarginEstimator(DefaultAssumptions(), NewKeywordClassifier(DefaultCOGSKeywords...))
}

func paid(kind models.EntryKind, description, category, amount string, due time.Time) models.LedgerEntry {
	return models.LedgerEntry{Kind: kind, Description: description, Category: category, Amount: dec(amount), DueDate: due, Paid: true}
}

func TestEstimateMarginWithoutRevenue(t *testing.T) {
	if got := newMargin().EstimateMargin(nil, decimal.Zero, asOf()); got != nil {
		t.Errorf("expected nil without revenue, got %+v", got)
	}
	if got := newMargin().EstimateMargin(nil, dec("-10"), asOf()); got != nil {
		t.Errorf("expected nil for negative revenue, got %+v", got)
	}
}

func TestEstimateMarginSelectsCOGS(t *testing.T) {
	recent := utils.Date(2026, time.October, 8)
	entries := []models.LedgerEntry{
		paid(models.KindPayable, "Compra de mercadoria", "", "4000", recent),
		paid(models.KindPayable, "Pedido 123", "Logistica", "1000", recent),
		paid(models.KindCard, "Fatura cartão", "frete", "800", recent),
		paid(models.KindIntercompany, "Compra entre empresas", "compra", "3000", recent),
		paid(models.KindPayable, "Fornecedor antigo", "", "9000", utils.Date(2026, time.July, 1)),
		paid(models.KindPayable, "Aluguel", "servicos", "2000", recent),
		{Kind: models.KindPayable, Description: "Embalagens", Amount: dec("700"), DueDate: recent},
		paid(models.KindPayable, "Compra antecipada", "fornecedor", "1200", utils.Date(2026, time.October, 25)),
	}
	m := newMargin().EstimateMargin(entries, dec("10000"), asOf())
	if m == nil {
		t.Fatal("expected an estimate")
	}
	if !m.TotalCOGS.Equal(dec("5000")) {
		t.Errorf("expected COGS 5000, got %s", m.TotalCOGS)
	}
	if m.RealMarginPct != 50 {
		t.Errorf("expected real margin 50%%, got %v", m.RealMarginPct)
	}
	if m.StandardMarginPct != 40 {
		t.Errorf("expected standard margin 40%%, got %v", m.StandardMarginPct)
	}
	if m.DeviationPp != 10 || !m.HasAlert || m.IsNegativeAlert {
		t.Errorf("expected +10pp positive alert, got %v alert=%v negative=%v", m.DeviationPp, m.HasAlert, m.IsNegativeAlert)
	}
}

func TestEstimateMarginAlerts(t *testing.T) {
	recent := utils.Date(2026, time.October, 1)
	cases := []struct {
		cogs          string
		alert, negAlt bool
	}{
		{"6300", false, false},
		{"7000", true, true},
		{"5400", true, false},
		{"5500", false, false},
	}
	for _, c := range cases {
		entries := []models.LedgerEntry{paid(models.KindPayable, "Produto acabado", "", c.cogs, recent)}
		m := newMargin().EstimateMargin(entries, dec("10000"), asOf())
		if m.HasAlert != c.alert || m.IsNegativeAlert != c.negAlt {
			t.Errorf("COGS %s: expected alert=%v negative=%v, got %v/%v (deviation %v)", c.cogs, c.alert, c.negAlt, m.HasAlert, m.IsNegativeAlert, m.DeviationPp)
		}
	}
}

func TestKeywordClassifierIgnoresAccents(t *testing.T) {
	c := NewKeywordClassifier(DefaultCOGSKeywords...)
	for _, text := range []string{"LOGÍSTICA reversa", "materia-prima", "Produção terceirizada", "frete SP"} {
		if !c.Matches(text) {
			t.Errorf("expected %q to match", text)
		}
	}
	if c.Matches("Aluguel", "", "Internet") {
		t.Error("expected unrelated texts not to match")
	}
}
