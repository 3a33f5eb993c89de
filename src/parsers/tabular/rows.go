// src/parsers/tabular/rows.go
package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column roles recognised in a spreadsheet header.
const (
	colKind        = "tipo"
	colDescription = "descricao"
	colAmount      = "valor"
	colDueDate     = "vencimento"
	colCategory    = "categoria"
	colPaid        = "pago"
)

// headerKeywords maps each role to the normalized header names that may carry it, best first.
var headerKeywords = map[string][]string{
	colKind:        {"tipo", "natureza", "operacao"},
	colDescription: {"descricao", "historico", "lancamento", "favorecido", "fornecedor"},
	colAmount:      {"valor", "montante", "quantia", "total"},
	colDueDate:     {"vencimento", "data vencimento", "data", "dt"},
	colCategory:    {"categoria", "grupo", "conta"},
	colPaid:        {"pago", "status", "situacao", "quitado"},
}

var kindSynonyms = map[string]models.EntryKind{
	"pagar":         models.KindPayable,
	"a pagar":       models.KindPayable,
	"despesa":       models.KindPayable,
	"saida":         models.KindPayable,
	"debito":        models.KindPayable,
	"receber":       models.KindReceivable,
	"a receber":     models.KindReceivable,
	"receita":       models.KindReceivable,
	"entrada":       models.KindReceivable,
	"credito":       models.KindReceivable,
	"cartao":        models.KindCard,
	"fatura":        models.KindCard,
	"intercompany":  models.KindIntercompany,
	"transferencia": models.KindIntercompany,
}

var truthy = map[string]bool{
	"sim": true, "s": true, "true": true, "1": true, "pago": true, "paga": true, "quitado": true, "x": true,
}

// SkippedRow records a row that could not be mapped.
type SkippedRow struct {
	Line   int    `json:"linha"`
	Reason string `json:"motivo"`
}

// Normalize lowercases, trims and removes accents, so "Descrição" and "descricao" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Columns is the index of every recognised role in a header row; -1 when absent.
type Columns map[string]int

func (c Columns) get(row []string, role string) string {
	idx, ok := c[role]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// DetectColumns maps header cells to roles. Exact keyword matches win over prefix matches,
// and each column is claimed by at most one role.
func DetectColumns(header []string) Columns {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = Normalize(h)
	}

	cols := Columns{}
	claimed := map[int]bool{}
	roles := []string{colDescription, colAmount, colDueDate, colKind, colCategory, colPaid}
	for _, exact := range []bool{true, false} {
		for _, role := range roles {
			if _, done := cols[role]; done {
				continue
			}
			if idx := pickColumn(normalized, headerKeywords[role], claimed, exact); idx >= 0 {
				cols[role] = idx
				claimed[idx] = true
			}
		}
	}
	return cols
}

func pickColumn(header, keywords []string, claimed map[int]bool, exact bool) int {
	for _, kw := range keywords {
		for i, h := range header {
			if claimed[i] || h == "" {
				continue
			}
			if (exact && h == kw) || (!exact && strings.HasPrefix(h, kw)) {
				return i
			}
		}
	}
	return -1
}

// Usable reports whether the header carries the columns an entry needs.
func (c Columns) Usable() bool {
	_, hasDesc := c[colDescription]
	_, hasAmount := c[colAmount]
	_, hasDate := c[colDueDate]
	return hasDesc && hasAmount && hasDate
}

// FindHeader returns the index of the first row (within the first ten) that looks like a header.
func FindHeader(rows [][]string) (int, Columns, bool) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		cols := DetectColumns(rows[i])
		if cols.Usable() {
			return i, cols, true
		}
	}
	return -1, nil, false
}

// ParseKind resolves a kind cell. An empty cell falls back to the sign of the amount cell.
func ParseKind(cell, amountCell string) (models.EntryKind, bool) {
	if n := Normalize(cell); n != "" {
		k, ok := kindSynonyms[n]
		return k, ok
	}
	if strings.HasPrefix(strings.TrimSpace(amountCell), "+") {
		return models.KindReceivable, true
	}
	return models.KindPayable, true
}

// ParsePaid interprets a paid/status cell.
func ParsePaid(cell string) bool {
	return truthy[Normalize(cell)]
}

// ParseDate accepts day-first dates, ISO dates and Excel serial numbers, returning YYYY-MM-DD.
func ParseDate(cell string) (string, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return "", false
	}
	if date, _, found := strings.Cut(s, " "); found {
		s = date
	}
	for _, layout := range []string{"02/01/2006", "2/1/2006", "02-01-2006", "02.01.2006", "02/01/06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return utils.FormatISODate(t), true
		}
	}
	if t, ok := utils.ParseISODate(s); ok {
		return utils.FormatISODate(t), true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 35000 && serial < 47000 {
		return utils.FormatISODate(excelSerialToDate(serial)), true
	}
	return "", false
}

// excelSerialToDate converts a spreadsheet day serial (1900 date system).
func excelSerialToDate(serial float64) time.Time {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(serial))
}

// MapRows turns the rows below the header into ledger inputs. Blank rows are ignored silently;
// rows missing a usable kind or date are reported as skipped. Amount and description validation
// happens later, on the inputs.
func MapRows(rows [][]string, headerIdx int, cols Columns) ([]models.LedgerEntryInput, []SkippedRow) {
	var out []models.LedgerEntryInput
	var skipped []SkippedRow
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		line := i + 1
		if blank(row) {
			continue
		}
		amountCell := cols.get(row, colAmount)
		kind, ok := ParseKind(cols.get(row, colKind), amountCell)
		if !ok {
			skipped = append(skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("tipo desconhecido: %q", cols.get(row, colKind))})
			continue
		}
		due, ok := ParseDate(cols.get(row, colDueDate))
		if !ok {
			skipped = append(skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("data inválida: %q", cols.get(row, colDueDate))})
			continue
		}
		out = append(out, models.LedgerEntryInput{
			Kind:        string(kind),
			Description: cols.get(row, colDescription),
			Category:    cols.get(row, colCategory),
			Amount:      amountCell,
			DueDate:     due,
			Paid:        ParsePaid(cols.get(row, colPaid)),
		})
	}
	return out, skipped
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
