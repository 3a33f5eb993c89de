// src/models/ledger.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind carries the direction of a ledger entry. Amounts are always positive magnitudes.
type EntryKind string

const (
	KindPayable      EntryKind = "pagar"
	KindReceivable   EntryKind = "receber"
	KindCard         EntryKind = "cartao"
	KindIntercompany EntryKind = "intercompany"
)

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	switch k {
	case KindPayable, KindReceivable, KindCard, KindIntercompany:
		return true
	}
	return false
}

// IsInflow reports whether the entry adds cash when settled.
func (k EntryKind) IsInflow() bool {
	return k == KindReceivable
}

// IsTransfer reports whether the entry moves money between the user's own companies.
// Transfers never change cash flow, free cash or the sales target.
func (k EntryKind) IsTransfer() bool {
	return k == KindIntercompany
}

// LedgerEntry is a single payable, receivable, card bill or intercompany transfer.
type LedgerEntry struct {
	ID            string          `json:"id"`
	Kind          EntryKind       `json:"tipo"`
	Description   string          `json:"descricao"`
	Category      string          `json:"categoria,omitempty"`
	Amount        decimal.Decimal `json:"valor"`
	DueDate       time.Time       `json:"vencimento"`
	Paid          bool            `json:"pago"`
	IsProjection  bool            `json:"projecao"`
	OriginChannel string          `json:"canal_origem,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
}

// Signed returns the amount with the sign implied by the kind (inflows positive).
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.Kind.IsInflow() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// LedgerEntryInput is the wire shape for manual entry and imports: amount and date as strings.
type LedgerEntryInput struct {
	Kind          string `json:"tipo"`
	Description   string `json:"descricao"`
	Category      string `json:"categoria"`
	Amount        string `json:"valor"`
	DueDate       string `json:"vencimento"`
	Paid          bool   `json:"pago"`
	OriginChannel string `json:"canal_origem"`
}

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	Paid  *bool
	Kind  EntryKind
	Month time.Time // zero means any month
}

// UnpaidEntries returns the entries not yet settled.
func UnpaidEntries(entries []LedgerEntry) []LedgerEntry {
	var out []LedgerEntry
	for _, e := range entries {
		if !e.Paid {
			out = append(out, e)
		}
	}
	return out
}

// PaidEntries returns the settled entries.
func PaidEntries(entries []LedgerEntry) []LedgerEntry {
	var out []LedgerEntry
	for _, e := range entries {
		if e.Paid {
			out = append(out, e)
		}
	}
	return out
}
