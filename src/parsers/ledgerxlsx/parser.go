// src/parsers/ledgerxlsx/parser.go
package ledgerxlsx

import (
	"fmt"
	"io"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/parsers/tabular"
	"github.com/xuri/excelize/v2"
)

// LedgerXLSXParser reads the first worksheet that carries a ledger header.
type LedgerXLSXParser struct{}

func NewParser() *LedgerXLSXParser {
	return &LedgerXLSXParser{}
}

func (p *LedgerXLSXParser) Parse(file io.Reader) ([]models.LedgerEntryInput, []tabular.SkippedRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx parser: failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.L.Warn("xlsx parser: failed to close workbook", "error", err)
		}
	}()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("xlsx parser: failed to read sheet %s: %w", sheet, err)
		}
		headerIdx, cols, ok := tabular.FindHeader(rows)
		if !ok {
			continue
		}
		inputs, skipped := tabular.MapRows(rows, headerIdx, cols)
		return inputs, skipped, nil
	}
	return nil, nil, fmt.Errorf("xlsx parser: no sheet with descricao, valor and vencimento columns")
}
