package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeCell converts one raw cell into a canonical decimal amount.
// Reconciliation sheets are hand-authored: the same column may hold 1234.56,
// "1.234,56", "Bs 1.234,56" or "$1,234.56" depending on who typed it that day.
// Unparsable cells yield zero so a stray comment never aborts an import.
func NormalizeCell(raw string) decimal.Decimal {
	amount, _ := normalizeCell(raw)
	return amount
}

// normalizeCell additionally reports whether a non-empty cell failed to parse,
// so the scanner can surface it as a warning.
func normalizeCell(raw string) (decimal.Decimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, true
	}

	clean := stripCurrencyNoise(raw)
	clean = resolveSeparators(clean)

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// stripCurrencyNoise removes the characters the ledger authors sprinkle
// around amounts: dollar signs, whitespace and the Bs/BsD currency letters.
func stripCurrencyNoise(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '$', 'B', 's', 'D':
			continue
		}
		if r == ' ' || r == '\t' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// resolveSeparators disambiguates thousands vs decimal marks. When both '.'
// and ',' appear, the later one is the decimal mark; a lone ',' is a decimal
// mark ("100,00"); a lone '.' is left as-is.
func resolveSeparators(s string) string {
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// 100,00
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}
