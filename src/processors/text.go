// src/processors/text.go
package processors

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeText lowercases s and strips accents so "Logística" matches "logistica".
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.TrimSpace(strings.ToLower(result))
}

// KeywordClassifier matches free text against a keyword table, ignoring case and accents.
type KeywordClassifier struct {
	keywords []string
}

// DefaultCOGSKeywords identify cost-of-goods-sold entries by category or description.
var DefaultCOGSKeywords = []string{
	"compra", "produto", "mercadoria", "frete", "logística",
	"matéria-prima", "materia prima", "embalagem", "produção", "fornecedor",
}

// NewKeywordClassifier builds a classifier; keywords are normalized once.
func NewKeywordClassifier(keywords ...string) *KeywordClassifier {
	c := &KeywordClassifier{}
	for _, k := range keywords {
		if n := normalizeText(k); n != "" {
			c.keywords = append(c.keywords, n)
		}
	}
	return c
}

// Matches reports whether any of the texts contains any keyword.
func (c *KeywordClassifier) Matches(texts ...string) bool {
	for _, text := range texts {
		n := normalizeText(text)
		if n == "" {
			continue
		}
		for _, k := range c.keywords {
			if strings.Contains(n, k) {
				return true
			}
		}
	}
	return false
}
