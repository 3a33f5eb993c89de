// src/processors/fixed_cost_generator.go
package processors

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// generatedNamespace seeds the name-based IDs of generated entries, so the same
// catalog, month and item always yield the same entry ID.
var generatedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://focoagora.app/ledger/generated"))

// GenerationRequest is everything the generator reads. It never consults the clock.
type GenerationRequest struct {
	UserID               string // seeds the entry IDs, which are unique across users
	Catalog              models.CostCatalog
	Loans                []models.Loan
	Existing             []models.LedgerEntry
	PreviousMonthRevenue decimal.Decimal
	BaseAdsSpend         decimal.Decimal
	TargetMonth          time.Time
	AsOf                 time.Time
}

type GenerationResult struct {
	Generated       []models.LedgerEntry `json:"gerados"`
	AlreadyExisting int                  `json:"ja_existentes"`
}

// dueDayRule maps a keyword in a service or marketing item name to its usual due day.
type dueDayRule struct {
	keyword string
	day     int
}

// DueDayTable resolves the due day of service and marketing items by name.
type DueDayTable struct {
	rules      []dueDayRule
	defaultDay int
}

// NewDueDayTable builds a table; the first matching keyword wins.
func NewDueDayTable(defaultDay int, pairs map[string]int) DueDayTable {
	t := DueDayTable{defaultDay: defaultDay}
	for k, d := range pairs {
		t.rules = append(t.rules, dueDayRule{keyword: normalizeText(k), day: d})
	}
	// Longer keywords first so "agencia de marketing" beats "marketing".
	sort.Slice(t.rules, func(i, j int) bool {
		if len(t.rules[i].keyword) != len(t.rules[j].keyword) {
			return len(t.rules[i].keyword) > len(t.rules[j].keyword)
		}
		return t.rules[i].keyword < t.rules[j].keyword
	})
	return t
}

// DefaultDueDayTable holds the due days typical for Brazilian small-business services.
func DefaultDueDayTable() DueDayTable {
	return NewDueDayTable(25, map[string]int{
		"aluguel":     5,
		"condominio":  5,
		"contabil":    10,
		"contador":    10,
		"internet":    15,
		"telefone":    15,
		"energia":     15,
		"agua":        15,
		"agencia":     10,
		"consultoria": 20,
	})
}

// Lookup returns the due day for an item name.
func (t DueDayTable) Lookup(name string) int {
	n := normalizeText(name)
	for _, r := range t.rules {
		if strings.Contains(n, r.keyword) {
			return r.day
		}
	}
	if t.defaultDay <= 0 {
		return 25
	}
	return t.defaultDay
}

// Deduplicator decides whether a generated entry is already present in the ledger.
// Two entries match when the first PrefixLen runes of their descriptions are equal
// (case-insensitive) and the existing one is unpaid and due in the target month.
type Deduplicator struct {
	PrefixLen int
}

func (d Deduplicator) key(description string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(description)))
	if d.PrefixLen > 0 && len(runes) > d.PrefixLen {
		runes = runes[:d.PrefixLen]
	}
	return string(runes)
}

// IsDuplicate reports whether candidate collides with an existing unpaid entry of the month.
func (d Deduplicator) IsDuplicate(candidate models.LedgerEntry, month time.Time, existing []models.LedgerEntry) bool {
	k := d.key(candidate.Description)
	for _, e := range existing {
		if e.Paid || !utils.SameMonth(e.DueDate, month) {
			continue
		}
		if d.key(e.Description) == k {
			return true
		}
	}
	return false
}

type fixedCostGeneratorImpl struct {
	assumptions Assumptions
	dueDays     DueDayTable
	dedup       Deduplicator
}

func NewFixedCostGenerator(a Assumptions, dueDays DueDayTable) FixedCostGenerator {
	return &fixedCostGeneratorImpl{
		assumptions: a,
		dueDays:     dueDays,
		dedup:       Deduplicator{PrefixLen: a.DedupPrefixLen},
	}
}

// Generate expands the catalog for the target month. Catalog order is preserved
// within each category; categories follow the order people, software, ads, loans,
// storage, services, marketing, taxes.
func (p *fixedCostGeneratorImpl) Generate(req GenerationRequest) GenerationResult {
	month := utils.MonthStart(req.TargetMonth)
	year, mon := month.Year(), month.Month()
	monthKey := month.Format("2006-01")

	var result GenerationResult
	add := func(category models.CostCategory, key, description string, amount decimal.Decimal, due time.Time) {
		if !amount.IsPositive() {
			return
		}
		entry := models.LedgerEntry{
			ID:          uuid.NewSHA1(generatedNamespace, []byte(req.UserID+"|"+monthKey+"|"+string(category)+"|"+key)).String(),
			Kind:        models.KindPayable,
			Description: description,
			Category:    string(category),
			Amount:      amount.Round(2),
			DueDate:     due,
		}
		if p.dedup.IsDuplicate(entry, month, req.Existing) {
			result.AlreadyExisting++
			return
		}
		result.Generated = append(result.Generated, entry)
	}

	peopleDue := utils.NthBusinessDay(year, mon, 5)
	for i, item := range req.Catalog.People {
		add(models.CategoryPeople, itemKey(item, i), item.Name, item.Amount, peopleDue)
	}

	day23 := utils.ClampDay(year, mon, 23)
	for i, item := range req.Catalog.Software {
		add(models.CategorySoftware, itemKey(item, i), item.Name, item.Amount, day23)
	}
	add(models.CategoryAds, "base", "Ads (verba base)", req.BaseAdsSpend, day23)

	for i, loan := range req.Loans {
		if !loanDueIn(loan, month, req.AsOf) {
			continue
		}
		key := loan.ID
		if key == "" {
			key = fmt.Sprintf("%d", i)
		}
		description := strings.TrimSpace(fmt.Sprintf("Empréstimo %s %s", loan.Bank, loan.Product))
		add(models.CategoryLoans, key, description, loan.AverageInstallment, utils.ClampDay(year, mon, loan.DueDay))
	}

	day25 := utils.ClampDay(year, mon, 25)
	for i, item := range req.Catalog.Storage {
		add(models.CategoryStorage, itemKey(item, i), item.Name, item.Amount, day25)
	}
	for i, item := range req.Catalog.Services {
		add(models.CategoryServices, itemKey(item, i), item.Name, item.Amount, utils.ClampDay(year, mon, p.dueDays.Lookup(item.Name)))
	}
	for i, item := range req.Catalog.Marketing {
		add(models.CategoryMarketing, itemKey(item, i), item.Name, item.Amount, utils.ClampDay(year, mon, p.dueDays.Lookup(item.Name)))
	}

	taxes := p.taxInstallments(req.PreviousMonthRevenue)
	for i, amount := range taxes {
		description := fmt.Sprintf("Imposto (%d/%d) sobre faturamento", i+1, len(taxes))
		add(models.CategoryTaxes, fmt.Sprintf("%d", i+1), description, amount, utils.ClampDay(year, mon, p.assumptions.TaxDueDay))
	}

	return result
}

// taxInstallments splits revenue × TaxRate into equal parts; the last one absorbs rounding.
func (p *fixedCostGeneratorImpl) taxInstallments(revenue decimal.Decimal) []decimal.Decimal {
	n := p.assumptions.TaxInstallments
	if n <= 0 || !revenue.IsPositive() {
		return nil
	}
	total := revenue.Mul(p.assumptions.TaxRate).Round(2)
	part := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	out := make([]decimal.Decimal, n)
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		out[i] = part
		allocated = allocated.Add(part)
	}
	out[n-1] = total.Sub(allocated)
	return out
}

// loanDueIn reports whether a loan has an installment due in the month.
func loanDueIn(l models.Loan, month, asOf time.Time) bool {
	if l.RemainingInstallments <= 0 || l.DueDay <= 0 {
		return false
	}
	if l.InGracePeriod(asOf) {
		return false
	}
	if !l.FinalDueDate.IsZero() && l.FinalDueDate.Before(month) {
		return false
	}
	return true
}

func itemKey(item models.CostCatalogItem, index int) string {
	if item.ID != "" {
		return item.ID
	}
	return fmt.Sprintf("%d:%s", index, item.Name)
}
