// src/parsers/parser.go
package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/parsers/extracao"
	"github.com/focoagora/backend/src/parsers/ledgercsv"
	"github.com/focoagora/backend/src/parsers/ledgerxlsx"
	"github.com/focoagora/backend/src/parsers/tabular"
)

// Parser converts an uploaded document into unvalidated ledger inputs.
type Parser interface {
	Parse(r io.Reader) ([]models.LedgerEntryInput, []tabular.SkippedRow, error)
}

// GetParser returns the parser registered for an import source.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "csv":
		return ledgercsv.NewParser(), nil
	case "xlsx":
		return ledgerxlsx.NewParser(), nil
	case "extracao":
		return extracao.NewParser(), nil
	}
	return nil, fmt.Errorf("unsupported import source: %s", source)
}
