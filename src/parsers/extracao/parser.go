// src/parsers/extracao/parser.go
package extracao

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/parsers/tabular"
)

// DefaultMinConfidence drops extracted entries the extractor itself doubts.
const DefaultMinConfidence = 0.5

// Item is one entry produced by the document extractor.
type Item struct {
	Tipo       string      `json:"tipo"`
	Descricao  string      `json:"descricao"`
	Valor      json.Number `json:"valor"`
	Vencimento string      `json:"vencimento"`
	Categoria  string      `json:"categoria"`
	Confianca  *float64    `json:"confianca"`
}

// UnmarshalJSON accepts valor both as a JSON number and as a formatted string ("1.234,56").
func (it *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	var aux struct {
		alias
		Valor any `json:"valor"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*it = Item(aux.alias)
	switch v := aux.Valor.(type) {
	case string:
		it.Valor = json.Number(v)
	case float64:
		it.Valor = json.Number(strconv.FormatFloat(v, 'f', -1, 64))
	case nil:
		it.Valor = ""
	default:
		return fmt.Errorf("valor has unsupported type %T", v)
	}
	return nil
}

// ExtracaoParser reads the extractor's JSON output: an array of items, a single item,
// or an object wrapping the array under "itens".
type ExtracaoParser struct {
	MinConfidence float64
}

func NewParser() *ExtracaoParser {
	return &ExtracaoParser{MinConfidence: DefaultMinConfidence}
}

func (p *ExtracaoParser) Parse(r io.Reader) ([]models.LedgerEntryInput, []tabular.SkippedRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("extracao parser: failed to read payload: %w", err)
	}
	items, err := decodeItems(bytes.TrimSpace(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))))
	if err != nil {
		return nil, nil, fmt.Errorf("extracao parser: %w", err)
	}

	var inputs []models.LedgerEntryInput
	var skipped []tabular.SkippedRow
	for i, it := range items {
		line := i + 1
		if it.Confianca != nil && *it.Confianca < p.MinConfidence {
			skipped = append(skipped, tabular.SkippedRow{Line: line, Reason: fmt.Sprintf("confiança baixa: %.2f", *it.Confianca)})
			continue
		}
		kind, ok := tabular.ParseKind(it.Tipo, it.Valor.String())
		if !ok {
			skipped = append(skipped, tabular.SkippedRow{Line: line, Reason: fmt.Sprintf("tipo desconhecido: %q", it.Tipo)})
			continue
		}
		due, ok := tabular.ParseDate(it.Vencimento)
		if !ok {
			skipped = append(skipped, tabular.SkippedRow{Line: line, Reason: fmt.Sprintf("data inválida: %q", it.Vencimento)})
			continue
		}
		inputs = append(inputs, models.LedgerEntryInput{
			Kind:        string(kind),
			Description: strings.TrimSpace(it.Descricao),
			Category:    strings.TrimSpace(it.Categoria),
			Amount:      it.Valor.String(),
			DueDate:     due,
		})
	}
	return inputs, skipped, nil
}

func decodeItems(raw []byte) ([]Item, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	switch raw[0] {
	case '[':
		var items []Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("invalid item array: %w", err)
		}
		return items, nil
	case '{':
		var wrapper struct {
			Itens []Item `json:"itens"`
		}
		if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Itens != nil {
			return wrapper.Itens, nil
		}
		var single Item
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("invalid item: %w", err)
		}
		return []Item{single}, nil
	}
	return nil, fmt.Errorf("payload is not JSON")
}
