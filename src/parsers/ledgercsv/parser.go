// src/parsers/ledgercsv/parser.go
package ledgercsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/parsers/tabular"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LedgerCSVParser reads bank and spreadsheet CSV exports, comma or semicolon separated,
// in UTF-8 or Latin-1.
type LedgerCSVParser struct{}

func NewParser() *LedgerCSVParser {
	return &LedgerCSVParser{}
}

// Parse reads the whole file, locates the header row and maps the rows below it.
func (p *LedgerCSVParser) Parse(file io.Reader) ([]models.LedgerEntryInput, []tabular.SkippedRow, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("csv parser: failed to read file: %w", err)
	}
	raw, err = toUTF8(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("csv parser: failed to decode Latin-1 content: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv parser: failed to read records: %w", err)
	}

	headerIdx, cols, ok := tabular.FindHeader(records)
	if !ok {
		return nil, nil, fmt.Errorf("csv parser: no header with descricao, valor and vencimento columns")
	}
	inputs, skipped := tabular.MapRows(records, headerIdx, cols)
	return inputs, skipped, nil
}

func toUTF8(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	return decoded, err
}

// detectDelimiter picks the separator that appears most in the first non-empty line.
// Brazilian exports use ';' because ',' is the decimal separator.
func detectDelimiter(raw []byte) rune {
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		semi := bytes.Count(line, []byte(";"))
		comma := bytes.Count(line, []byte(","))
		tab := bytes.Count(line, []byte("\t"))
		switch {
		case tab > semi && tab > comma:
			return '\t'
		case semi >= comma && semi > 0:
			return ';'
		}
		return ','
	}
	return ','
}
