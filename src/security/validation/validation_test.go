package validation

import (
	"bytes"
	"errors"
	"testing"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
)

func TestValidateLedgerInput(t *testing.T) {
	e, err := ValidateLedgerInput(models.LedgerEntryInput{
		Kind:        "Pagar",
		Description: "  <b>Fornecedor</b>   ABC ",
		Amount:      "R$ 1.234,56",
		DueDate:     "20/10/2026",
	}, "test")
	if err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if e.Kind != models.KindPayable || e.Description != "Fornecedor ABC" {
		t.Errorf("expected cleaned payable, got %q %q", e.Kind, e.Description)
	}
	if e.Amount.StringFixed(2) != "1234.56" || utils.FormatISODate(e.DueDate) != "2026-10-20" {
		t.Errorf("expected 1234.56 due 2026-10-20, got %s %s", e.Amount, utils.FormatISODate(e.DueDate))
	}
}

func TestValidateLedgerInputRejects(t *testing.T) {
	base := models.LedgerEntryInput{Kind: "receber", Description: "Venda", Amount: "100", DueDate: "2026-10-20"}
	cases := map[string]func(in *models.LedgerEntryInput){
		"kind":        func(in *models.LedgerEntryInput) { in.Kind = "doacao" },
		"empty desc":  func(in *models.LedgerEntryInput) { in.Description = "   " },
		"xss":         func(in *models.LedgerEntryInput) { in.Description = "<script>alert(1)</script>" },
		"zero amount": func(in *models.LedgerEntryInput) { in.Amount = "0,00" },
		"no amount":   func(in *models.LedgerEntryInput) { in.Amount = "abc" },
		"bad date":    func(in *models.LedgerEntryInput) { in.DueDate = "2026-13-40" },
	}
	for name, mutate := range cases {
		in := base
		mutate(&in)
		if _, err := ValidateLedgerInput(in, "test"); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("%s: expected ErrValidationFailed, got %v", name, err)
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"=SUM(A1)":            "'=SUM(A1)",
		"Frete\x00 SP":        "Frete SP",
		"<i>Compra</i> & cia": "Compra & cia",
		"- taxa bancária":     "- taxa bancária",
	}
	for in, want := range cases {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestValidateFileContent(t *testing.T) {
	if err := ValidateFileContent(bytes.NewReader([]byte("tipo;descricao;valor\n")), SourceCSV); err != nil {
		t.Errorf("expected CSV to pass, got %v", err)
	}
	if err := ValidateFileContent(bytes.NewReader([]byte("descri\xe7\xe3o;valor\n")), SourceCSV); err != nil {
		t.Errorf("expected Latin-1 CSV to pass, got %v", err)
	}
	if err := ValidateFileContent(bytes.NewReader([]byte{0x7f, 'E', 'L', 'F', 0, 0}), SourceCSV); err == nil {
		t.Error("expected binary content to be rejected")
	}
	if err := ValidateFileContent(bytes.NewReader([]byte("PK\x03\x04rest")), SourceXLSX); err != nil {
		t.Errorf("expected zip signature to pass, got %v", err)
	}
	if err := ValidateFileContent(bytes.NewReader([]byte("tipo;valor")), SourceXLSX); err == nil {
		t.Error("expected text to be rejected as xlsx")
	}
	if err := ValidateFileContent(bytes.NewReader([]byte("  [{}]")), SourceExtracao); err != nil {
		t.Errorf("expected JSON to pass, got %v", err)
	}
	if err := ValidateFileContent(bytes.NewReader(nil), SourceCSV); err == nil {
		t.Error("expected an empty file to be rejected")
	}
}

func TestValidateClientContentType(t *testing.T) {
	if err := ValidateClientContentType("text/csv; charset=utf-8", SourceCSV); err != nil {
		t.Errorf("expected text/csv to pass, got %v", err)
	}
	if err := ValidateClientContentType("image/png", SourceCSV); err == nil {
		t.Error("expected image/png to be rejected")
	}
	if err := ValidateClientContentType("application/json", "pdf"); err == nil {
		t.Error("expected an unknown source to be rejected")
	}
}
