package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestValueAtOffset(t *testing.T) {
	rule := LabelRule{Label: "TOTAL TARJETA", Method: "Tarjeta", Offset: 2, Match: MatchContains}

	got := ValueAtOffset([]string{"TOTAL TARJETA", "", "200"}, rule)
	if !got.Equal(dec(t, "200")) {
		t.Fatalf("got %s, want 200", got)
	}

	// Case-insensitive substring match.
	got = ValueAtOffset([]string{"  total tarjeta (pos)", "", "315,50"}, rule)
	if !got.Equal(dec(t, "315.50")) {
		t.Fatalf("got %s, want 315.50", got)
	}

	// Offset runs past the row's end.
	got = ValueAtOffset([]string{"", "TOTAL TARJETA", "200"}, rule)
	if !got.IsZero() {
		t.Fatalf("got %s, want 0 when offset exceeds row length", got)
	}

	// Label absent.
	got = ValueAtOffset([]string{"TOTAL PM", "", "90"}, rule)
	if !got.IsZero() {
		t.Fatalf("got %s, want 0 when label is absent", got)
	}
}

func TestValueAtOffset_MatchKinds(t *testing.T) {
	row := []string{"SUBTOTAL TARJETA", "", "100"}

	exact := LabelRule{Label: "TOTAL TARJETA", Method: "Tarjeta", Offset: 2, Match: MatchExact}
	if got := ValueAtOffset(row, exact); !got.IsZero() {
		t.Fatalf("exact match should not fire on %q", row[0])
	}

	rs := Ruleset{Rules: []LabelRule{{Label: `^TOTAL\s+TARJETA$`, Method: "Tarjeta", Offset: 2, Match: MatchRegex}}}
	if err := rs.Compile(); err != nil {
		t.Fatal(err)
	}
	if got := ValueAtOffset(row, rs.Rules[0]); !got.IsZero() {
		t.Fatalf("anchored regex should not fire on %q", row[0])
	}
	if got := ValueAtOffset([]string{"TOTAL TARJETA", "", "100"}, rs.Rules[0]); !got.Equal(dec(t, "100")) {
		t.Fatalf("regex match got %s, want 100", got)
	}
}

func TestExtractDay_SheetNames(t *testing.T) {
	rs := DefaultRuleset()

	day7, ok := ExtractDay("7", nil, rs, nil)
	if !ok {
		t.Fatal("sheet \"7\" must be a valid day-sheet")
	}
	day07, ok := ExtractDay("07", nil, rs, nil)
	if !ok {
		t.Fatal("sheet \"07\" must be a valid day-sheet")
	}
	if day7.Date != day07.Date {
		t.Fatalf("\"7\" and \"07\" produced different dates: %s vs %s", day7.Date, day07.Date)
	}
	if day7.Date != "2026-01-07" {
		t.Fatalf("got date %s, want 2026-01-07", day7.Date)
	}

	if _, ok := ExtractDay("ABC", nil, rs, nil); ok {
		t.Fatal("sheet \"ABC\" must not be a day-sheet")
	}
	if _, ok := ExtractDay("123", nil, rs, nil); ok {
		t.Fatal("three-digit sheet names must not be day-sheets")
	}
}

func TestExtractDay_StandardLabels(t *testing.T) {
	rows := [][]string{
		{"RESUMEN DEL DIA"},
		{"TOTAL EFECTIVO BS", "", "1.500,00"},
		{"TOTAL TARJETA", "", "200"},
		{"TOTAL PM", "", "0"},
		{"TOTAL TRANSFERENCIA", "", "85,25"},
	}

	day, ok := ExtractDay("05", rows, DefaultRuleset(), nil)
	if !ok {
		t.Fatal("expected valid day-sheet")
	}

	want := map[string]string{
		"Efectivo":      "1500",
		"Tarjeta":       "200",
		"Transferencia": "85.25",
	}
	if len(day.Sales) != len(want) {
		t.Fatalf("got %d sales, want %d (zero amounts must be dropped): %+v", len(day.Sales), len(want), day.Sales)
	}
	for _, sale := range day.Sales {
		expected, ok := want[sale.Method]
		if !ok {
			t.Fatalf("unexpected method %q", sale.Method)
		}
		if !sale.Amount.Equal(dec(t, expected)) {
			t.Fatalf("%s: got %s, want %s", sale.Method, sale.Amount, expected)
		}
		if sale.Details != nil {
			t.Fatalf("%s: standard categories carry no details", sale.Method)
		}
	}
}

func TestExtractDay_CompositeAccumulatesAcrossSheet(t *testing.T) {
	rows := [][]string{
		{"TOTAL EFECTIVO USD", "", "50"},
		{"otras ventas", "x"},
		{"ZELLE", "", "30"},
	}

	day, ok := ExtractDay("09", rows, DefaultRuleset(), nil)
	if !ok {
		t.Fatal("expected valid day-sheet")
	}
	if len(day.Sales) != 1 {
		t.Fatalf("got %d sales, want exactly one composite entry: %+v", len(day.Sales), day.Sales)
	}

	sale := day.Sales[0]
	if sale.Method != MethodDivisas {
		t.Fatalf("got method %q, want %q", sale.Method, MethodDivisas)
	}
	if !sale.Amount.Equal(dec(t, "80")) {
		t.Fatalf("got amount %s, want 80", sale.Amount)
	}
	if !sale.Details["cash"].Equal(dec(t, "50")) {
		t.Fatalf("got cash %s, want 50", sale.Details["cash"])
	}
	if !sale.Details["zelle"].Equal(dec(t, "30")) {
		t.Fatalf("got zelle %s, want 30", sale.Details["zelle"])
	}
}

func TestExtractDay_CompositeRepeatedLabelSums(t *testing.T) {
	rows := [][]string{
		{"ZELLE", "", "10"},
		{"ZELLE", "", "15,50"},
	}

	day, _ := ExtractDay("10", rows, DefaultRuleset(), nil)
	if len(day.Sales) != 1 {
		t.Fatalf("got %d sales, want 1", len(day.Sales))
	}
	if !day.Sales[0].Amount.Equal(dec(t, "25.50")) {
		t.Fatalf("got %s, want 25.50 (repeated labels accumulate)", day.Sales[0].Amount)
	}
}

func TestExtractDay_EmptySheetStillValid(t *testing.T) {
	rows := [][]string{
		{"nada que ver aqui", "x"},
	}
	day, ok := ExtractDay("02", rows, DefaultRuleset(), nil)
	if !ok {
		t.Fatal("a valid day-sheet with no recognized labels is still a day")
	}
	if day.Date != "2026-01-02" {
		t.Fatalf("got date %s, want 2026-01-02", day.Date)
	}
	if len(day.Sales) != 0 {
		t.Fatalf("got %d sales, want none", len(day.Sales))
	}
}

func TestExtractDay_UnparsableValueReported(t *testing.T) {
	rows := [][]string{
		{"TOTAL TARJETA", "", "pendiente"},
	}
	var report SkipReport
	day, _ := ExtractDay("03", rows, DefaultRuleset(), &report)
	if len(day.Sales) != 0 {
		t.Fatalf("unparsable value must contribute nothing, got %+v", day.Sales)
	}
	if len(report.Cells) != 1 {
		t.Fatalf("got %d skipped cells, want 1", len(report.Cells))
	}
	if report.Cells[0].Raw != "pendiente" || report.Cells[0].Sheet != "03" {
		t.Fatalf("unexpected skip record: %+v", report.Cells[0])
	}
}

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}, order []string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for _, name := range order {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%q): %v", name, err)
		}
		for r, row := range sheets[name] {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatal(err)
				}
				if err := f.SetCellValue(name, cell, value); err != nil {
					t.Fatal(err)
				}
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestScanWorkbook(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"02":      {{"TOTAL PM", "", "90,00"}},
		"01":      {{"TOTAL TARJETA", "", 200}},
		"RESUMEN": {{"TOTAL TARJETA", "", 999}},
	}, []string{"02", "01", "RESUMEN"})
	defer f.Close()

	days, report, err := ScanWorkbook(f, DefaultRuleset())
	if err != nil {
		t.Fatal(err)
	}

	if len(days) != 2 {
		t.Fatalf("got %d days, want 2: %+v", len(days), days)
	}
	// Chronological regardless of workbook sheet order.
	if days[0].Date != "2026-01-01" || days[1].Date != "2026-01-02" {
		t.Fatalf("days out of order: %s, %s", days[0].Date, days[1].Date)
	}
	if days[0].Sales[0].Method != "Tarjeta" || !days[0].Sales[0].Amount.Equal(dec(t, "200")) {
		t.Fatalf("unexpected day 01 extraction: %+v", days[0].Sales)
	}
	if days[1].Sales[0].Method != "Pago Móvil" || !days[1].Sales[0].Amount.Equal(dec(t, "90")) {
		t.Fatalf("unexpected day 02 extraction: %+v", days[1].Sales)
	}

	if len(report.Sheets) != 1 || report.Sheets[0].Name != "RESUMEN" {
		t.Fatalf("expected RESUMEN to be skipped, got %+v", report.Sheets)
	}
}
