package importer

import (
	"regexp"
	"strings"
	"time"
)

// MatchKind selects how a rule's label is located within a cell.
type MatchKind string

const (
	MatchContains MatchKind = "contains"
	MatchExact    MatchKind = "exact"
	MatchRegex    MatchKind = "regex"
)

// LabelRule maps a textual marker in a ledger row to a payment method.
// The value cell sits a fixed number of columns to the right of the label.
type LabelRule struct {
	Label  string
	Method string
	Offset int
	Match  MatchKind

	re *regexp.Regexp
}

// CompositePart is one labeled sub-amount of a composite category.
type CompositePart struct {
	Label  string
	Key    string
	Offset int
	Match  MatchKind

	re *regexp.Regexp
}

// CompositeRule derives a single sale from sub-amounts accumulated across the
// whole sheet. Sub-sums are kept in the entry details, keyed by part.
type CompositeRule struct {
	Method string
	Parts  []CompositePart
}

// Ruleset is the full extraction contract for one workbook layout: the
// period the day-sheets belong to, the standard label rules and the optional
// composite rule.
type Ruleset struct {
	Year      int
	Month     time.Month
	Rules     []LabelRule
	Composite *CompositeRule
}

// DefaultRuleset describes the reconciliation workbook the shop exports:
// one sheet per January 2026 day, labels in the description column, amounts
// two columns to the right. Divisas is the sum of USD cash and Zelle.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Year:  2026,
		Month: time.January,
		Rules: []LabelRule{
			{Label: "TOTAL EFECTIVO BS", Method: "Efectivo", Offset: 2, Match: MatchContains},
			{Label: "TOTAL TARJETA", Method: "Tarjeta", Offset: 2, Match: MatchContains},
			{Label: "TOTAL PM", Method: "Pago Móvil", Offset: 2, Match: MatchContains},
			{Label: "TOTAL TRANSFERENCIA", Method: "Transferencia", Offset: 2, Match: MatchContains},
		},
		Composite: &CompositeRule{
			Method: MethodDivisas,
			Parts: []CompositePart{
				{Label: "TOTAL EFECTIVO USD", Key: "cash", Offset: 2, Match: MatchContains},
				{Label: "ZELLE", Key: "zelle", Offset: 2, Match: MatchContains},
			},
		},
	}
}

// Compile precompiles regex rules. Returns the first bad pattern error.
func (rs *Ruleset) Compile() error {
	for i := range rs.Rules {
		if rs.Rules[i].Match == MatchRegex {
			re, err := regexp.Compile("(?i)" + rs.Rules[i].Label)
			if err != nil {
				return err
			}
			rs.Rules[i].re = re
		}
	}
	if rs.Composite != nil {
		for i := range rs.Composite.Parts {
			if rs.Composite.Parts[i].Match == MatchRegex {
				re, err := regexp.Compile("(?i)" + rs.Composite.Parts[i].Label)
				if err != nil {
					return err
				}
				rs.Composite.Parts[i].re = re
			}
		}
	}
	return nil
}

func matchCell(cell, label string, kind MatchKind, re *regexp.Regexp) bool {
	switch kind {
	case MatchExact:
		return strings.EqualFold(strings.TrimSpace(cell), label)
	case MatchRegex:
		if re == nil {
			return false
		}
		return re.MatchString(cell)
	default:
		// Substring matching tolerates the inconsistent prefixes and
		// suffixes of hand-authored labels.
		return strings.Contains(strings.ToUpper(cell), strings.ToUpper(label))
	}
}
