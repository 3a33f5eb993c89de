// src/models/catalog.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostKind separates costs that cannot be cut from those that can be trimmed in a squeeze.
type CostKind string

const (
	CostFixed     CostKind = "fixo"
	CostTrimmable CostKind = "cortavel"
)

// CostCategory names the catalog buckets; each one has its own due-day rule.
type CostCategory string

const (
	CategoryPeople    CostCategory = "pessoas"
	CategorySoftware  CostCategory = "software"
	CategoryMarketing CostCategory = "marketing"
	CategoryServices  CostCategory = "servicos"
	CategoryStorage   CostCategory = "armazenagem"
	CategoryLoans     CostCategory = "emprestimos"
	CategoryAds       CostCategory = "ads"
	CategoryTaxes     CostCategory = "impostos"
)

// CostCatalogItem is a recurring monthly cost.
type CostCatalogItem struct {
	ID     string          `json:"id"`
	Name   string          `json:"nome"`
	Amount decimal.Decimal `json:"valor"`
	Kind   CostKind        `json:"tipo"`
}

// CostCatalog groups recurring costs by category.
type CostCatalog struct {
	People    []CostCatalogItem `json:"pessoas"`
	Software  []CostCatalogItem `json:"software"`
	Marketing []CostCatalogItem `json:"marketing"`
	Services  []CostCatalogItem `json:"servicos"`
	Storage   []CostCatalogItem `json:"armazenagem"`
}

// Total sums every item of every category.
func (c CostCatalog) Total() decimal.Decimal {
	total := decimal.Zero
	for _, group := range [][]CostCatalogItem{c.People, c.Software, c.Marketing, c.Services, c.Storage} {
		for _, item := range group {
			total = total.Add(item.Amount)
		}
	}
	return total
}

// FixedTotal sums everything except structural marketing, which is tracked on its own line.
func (c CostCatalog) FixedTotal() decimal.Decimal {
	return c.Total().Sub(c.MarketingTotal())
}

// MarketingTotal sums the structural marketing items.
func (c CostCatalog) MarketingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Marketing {
		total = total.Add(item.Amount)
	}
	return total
}

// TrimmableTotal sums the items flagged as trimmable.
func (c CostCatalog) TrimmableTotal() decimal.Decimal {
	total := decimal.Zero
	for _, group := range [][]CostCatalogItem{c.People, c.Software, c.Marketing, c.Services, c.Storage} {
		for _, item := range group {
			if item.Kind == CostTrimmable {
				total = total.Add(item.Amount)
			}
		}
	}
	return total
}

// ItemCount returns the number of catalog items.
func (c CostCatalog) ItemCount() int {
	return len(c.People) + len(c.Software) + len(c.Marketing) + len(c.Services) + len(c.Storage)
}

// Loan is an amortizing loan with its schedule metadata.
type Loan struct {
	ID                    string          `json:"id"`
	Company               string          `json:"empresa"`
	Bank                  string          `json:"banco"`
	Product               string          `json:"produto"`
	Principal             decimal.Decimal `json:"valor_contratado"`
	OutstandingBalance    decimal.Decimal `json:"saldo_devedor"`
	AnnualRate            decimal.Decimal `json:"taxa_anual"`
	MonthlyRate           decimal.Decimal `json:"taxa_mensal"`
	RemainingInstallments int             `json:"parcelas_restantes"`
	TotalInstallments     int             `json:"parcelas_totais"`
	AverageInstallment    decimal.Decimal `json:"parcela_media"`
	DueDay                int             `json:"dia_vencimento"`
	FinalDueDate          time.Time       `json:"vencimento_final"`
	FirstInstallmentDate  *time.Time      `json:"primeira_parcela,omitempty"`
	GracePeriod           string          `json:"carencia,omitempty"`
}

// InGracePeriod reports whether asOf precedes the first installment.
func (l Loan) InGracePeriod(asOf time.Time) bool {
	return l.FirstInstallmentDate != nil && asOf.Before(*l.FirstInstallmentDate)
}

// LoansMonthlyTotal sums the average installment of loans that are being paid at asOf.
func LoansMonthlyTotal(loans []Loan, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		if l.InGracePeriod(asOf) || l.RemainingInstallments <= 0 {
			continue
		}
		total = total.Add(l.AverageInstallment)
	}
	return total
}
