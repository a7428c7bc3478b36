package importer

import "testing"

func TestFilterNew(t *testing.T) {
	candidates := []DaySummary{
		{Date: "2026-01-01"},
		{Date: "2026-01-02"},
		{Date: "2026-01-03"},
	}
	existing := map[string]struct{}{
		"2026-01-02": {},
	}

	newDays, duplicateCount := FilterNew(candidates, existing)
	if len(newDays) != 2 {
		t.Fatalf("got %d new days, want 2", len(newDays))
	}
	if newDays[0].Date != "2026-01-01" || newDays[1].Date != "2026-01-03" {
		t.Fatalf("unexpected new days: %+v", newDays)
	}
	if duplicateCount != 1 {
		t.Fatalf("got duplicateCount %d, want 1", duplicateCount)
	}
}

func TestFilterNew_DayLevelNotSaleLevel(t *testing.T) {
	// One persisted transaction on a date drops the whole re-extracted day,
	// even when the day carries freshly extracted sales.
	candidates := []DaySummary{
		{Date: "2026-01-05", Sales: []SaleEntry{{Method: "Tarjeta"}, {Method: "Efectivo"}}},
	}
	existing := map[string]struct{}{"2026-01-05": {}}

	newDays, duplicateCount := FilterNew(candidates, existing)
	if len(newDays) != 0 {
		t.Fatalf("expected whole day dropped, got %+v", newDays)
	}
	if duplicateCount != 1 {
		t.Fatalf("got duplicateCount %d, want 1", duplicateCount)
	}
}

func TestFilterNew_Idempotent(t *testing.T) {
	candidates := []DaySummary{
		{Date: "2026-01-01"},
		{Date: "2026-01-02"},
	}
	existing := map[string]struct{}{}

	first, _ := FilterNew(candidates, existing)
	for _, day := range first {
		existing[day.Date] = struct{}{}
	}

	second, duplicateCount := FilterNew(candidates, existing)
	if len(second) != 0 {
		t.Fatalf("second run must yield no new days, got %+v", second)
	}
	if duplicateCount != len(candidates) {
		t.Fatalf("got duplicateCount %d, want %d", duplicateCount, len(candidates))
	}
}

func TestFilterNew_EmptyHistory(t *testing.T) {
	candidates := []DaySummary{{Date: "2026-01-01"}}
	newDays, duplicateCount := FilterNew(candidates, nil)
	if len(newDays) != 1 || duplicateCount != 0 {
		t.Fatalf("empty history must keep everything: %+v, %d", newDays, duplicateCount)
	}
}
