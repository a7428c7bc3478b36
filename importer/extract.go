package importer

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// MethodDivisas is the composite foreign-currency category. Kept lowercase
// until commit time, where it is translated to its canonical display label.
const MethodDivisas = "divisas"

// SaleEntry is one extracted payment-method amount for a day. Details is
// only present for the composite category and breaks the amount into its
// labeled sub-sums.
type SaleEntry struct {
	Method  string                     `json:"method"`
	Amount  decimal.Decimal            `json:"amount"`
	Details map[string]decimal.Decimal `json:"details,omitempty"`
}

// DaySummary holds everything extracted from one day-sheet. Date is a fixed
// width YYYY-MM-DD string, so lexicographic order is chronological order.
type DaySummary struct {
	Date  string      `json:"date"`
	Sales []SaleEntry `json:"sales"`
}

// SkippedSheet records a sheet excluded from extraction and why.
type SkippedSheet struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SkippedCell records a matched label whose value cell failed to parse and
// therefore contributed nothing.
type SkippedCell struct {
	Sheet string `json:"sheet"`
	Label string `json:"label"`
	Raw   string `json:"raw"`
}

// SkipReport collects everything the lenient extraction silently dropped, so
// callers can warn without breaking the common case.
type SkipReport struct {
	Sheets []SkippedSheet `json:"sheets,omitempty"`
	Cells  []SkippedCell  `json:"cells,omitempty"`
}

func (r SkipReport) Empty() bool {
	return len(r.Sheets) == 0 && len(r.Cells) == 0
}

// Day-sheets are named after their day of month: "1".."31" or zero-padded.
var dayTokenPattern = regexp.MustCompile(`^\d{1,2}$`)

// valueAtOffset finds the first cell matching the label and normalizes the
// cell a fixed offset to its right. Zero when the label is absent or the
// offset runs past the row's end.
func valueAtOffset(row []string, label string, offset int, kind MatchKind, re *regexp.Regexp) (decimal.Decimal, string) {
	for i, cell := range row {
		if !matchCell(cell, label, kind, re) {
			continue
		}
		if i+offset >= len(row) {
			return decimal.Zero, ""
		}
		raw := row[i+offset]
		amount, ok := normalizeCell(raw)
		if !ok {
			return decimal.Zero, raw
		}
		return amount, ""
	}
	return decimal.Zero, ""
}

// ValueAtOffset applies one label rule to a row.
func ValueAtOffset(row []string, rule LabelRule) decimal.Decimal {
	amount, _ := valueAtOffset(row, rule.Label, rule.Offset, rule.Match, rule.re)
	return amount
}

// ExtractDay extracts one day's sales from a sheet. The second return is
// false when the sheet name is not a day token; such sheets are not days at
// all (cover pages, summaries) and yield no summary. A valid day-sheet with
// no recognized labels still yields a summary with empty sales, so callers
// can tell "valid day, no sales" apart from "not a day sheet".
func ExtractDay(sheetName string, rows [][]string, rs Ruleset, report *SkipReport) (DaySummary, bool) {
	if !dayTokenPattern.MatchString(sheetName) {
		return DaySummary{}, false
	}

	day := DaySummary{
		Date:  fmt.Sprintf("%04d-%02d-%s", rs.Year, int(rs.Month), zeroPad(sheetName)),
		Sales: []SaleEntry{},
	}

	// Composite sub-amounts accumulate across the whole sheet, not per row.
	var partSums map[string]decimal.Decimal
	if rs.Composite != nil {
		partSums = make(map[string]decimal.Decimal, len(rs.Composite.Parts))
	}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		for _, rule := range rs.Rules {
			amount, badCell := valueAtOffset(row, rule.Label, rule.Offset, rule.Match, rule.re)
			if badCell != "" && report != nil {
				report.Cells = append(report.Cells, SkippedCell{Sheet: sheetName, Label: rule.Label, Raw: badCell})
			}
			if amount.IsPositive() {
				day.Sales = append(day.Sales, SaleEntry{Method: rule.Method, Amount: amount})
			}
		}

		if rs.Composite != nil {
			for _, part := range rs.Composite.Parts {
				amount, badCell := valueAtOffset(row, part.Label, part.Offset, part.Match, part.re)
				if badCell != "" && report != nil {
					report.Cells = append(report.Cells, SkippedCell{Sheet: sheetName, Label: part.Label, Raw: badCell})
				}
				if amount.IsPositive() {
					partSums[part.Key] = partSums[part.Key].Add(amount)
				}
			}
		}
	}

	if rs.Composite != nil {
		combined := decimal.Zero
		for _, sum := range partSums {
			combined = combined.Add(sum)
		}
		if combined.IsPositive() {
			details := make(map[string]decimal.Decimal, len(rs.Composite.Parts))
			for _, part := range rs.Composite.Parts {
				details[part.Key] = partSums[part.Key]
			}
			day.Sales = append(day.Sales, SaleEntry{
				Method:  rs.Composite.Method,
				Amount:  combined.Round(2),
				Details: details,
			})
		}
	}

	return day, true
}

// ScanWorkbook runs day extraction over every sheet in workbook order and
// returns the summaries in chronological order plus everything skipped.
func ScanWorkbook(f *excelize.File, rs Ruleset) ([]DaySummary, SkipReport, error) {
	if err := rs.Compile(); err != nil {
		return nil, SkipReport{}, err
	}

	var report SkipReport
	days := make([]DaySummary, 0, len(f.GetSheetList()))

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			report.Sheets = append(report.Sheets, SkippedSheet{Name: name, Reason: err.Error()})
			continue
		}
		day, ok := ExtractDay(name, rows, rs, &report)
		if !ok {
			report.Sheets = append(report.Sheets, SkippedSheet{Name: name, Reason: "sheet name is not a day number"})
			continue
		}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return days, report, nil
}

func zeroPad(token string) string {
	if len(token) == 1 {
		return "0" + token
	}
	return token
}
