package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeWriter struct {
	records []TransactionRecord
	failAt  int // 1-based call number to fail at, 0 = never
	calls   int
}

func (w *fakeWriter) CreateTransaction(ctx context.Context, record TransactionRecord) error {
	w.calls++
	if w.failAt > 0 && w.calls == w.failAt {
		return errors.New("write refused")
	}
	w.records = append(w.records, record)
	return nil
}

func stagedBatch(days []DaySummary, duplicateCount int) *ImportBatch {
	return &ImportBatch{
		ID:             "test-batch",
		NewDays:        days,
		DuplicateCount: duplicateCount,
		state:          BatchStateStaged,
	}
}

func twoDayBatch(t *testing.T) *ImportBatch {
	return stagedBatch([]DaySummary{
		{
			Date: "2026-01-01",
			Sales: []SaleEntry{
				{Method: "Tarjeta", Amount: dec(t, "200")},
				{Method: MethodDivisas, Amount: dec(t, "80"), Details: map[string]decimal.Decimal{
					"cash":  dec(t, "50"),
					"zelle": dec(t, "30"),
				}},
			},
		},
		{
			Date: "2026-01-02",
			Sales: []SaleEntry{
				{Method: "Efectivo", Amount: dec(t, "120.50")},
			},
		},
	}, 1)
}

func TestCommit_WritesSequentiallyInOrder(t *testing.T) {
	batch := twoDayBatch(t)
	writer := &fakeWriter{}

	count, err := batch.Commit(context.Background(), writer)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("got importedCount %d, want 3", count)
	}
	if batch.State() != BatchStateDone {
		t.Fatalf("got state %s, want %s", batch.State(), BatchStateDone)
	}

	if len(writer.records) != 3 {
		t.Fatalf("got %d writes, want 3", len(writer.records))
	}
	// Chronological day order, extraction order within a day.
	if writer.records[0].Date != "2026-01-01" || writer.records[0].Method != "Tarjeta" {
		t.Fatalf("unexpected first write: %+v", writer.records[0])
	}
	if writer.records[1].Method != "Divisas" {
		t.Fatalf("composite method must commit under its canonical label, got %q", writer.records[1].Method)
	}
	if writer.records[2].Date != "2026-01-02" {
		t.Fatalf("unexpected last write: %+v", writer.records[2])
	}

	for _, record := range writer.records {
		if record.Type != "INCOME" || record.Category != "Venta" || record.Status != "COMPLETED" {
			t.Fatalf("fixed translation missing: %+v", record)
		}
		if record.Note != "Importado por Asistente IA" {
			t.Fatalf("audit note missing: %+v", record)
		}
		if record.ImportKey != record.Date+"|"+record.Method {
			t.Fatalf("import key must be date|method, got %q", record.ImportKey)
		}
	}
}

func TestCommit_PartialFailureStopsAndReportsCount(t *testing.T) {
	batch := twoDayBatch(t)
	writer := &fakeWriter{failAt: 2}

	count, err := batch.Commit(context.Background(), writer)
	if err == nil {
		t.Fatal("expected commit error")
	}
	if count != 1 {
		t.Fatalf("got importedCount %d, want 1 (writes before the failure stay counted)", count)
	}
	if writer.calls != 2 {
		t.Fatalf("commit must stop at the failing write, got %d calls", writer.calls)
	}
	if batch.State() != BatchStateFailed {
		t.Fatalf("got state %s, want %s", batch.State(), BatchStateFailed)
	}

	// A failed batch cannot be committed again.
	if _, err := batch.Commit(context.Background(), writer); err == nil {
		t.Fatal("expected second commit on failed batch to be rejected")
	}
}

func TestCommit_RequiresStagedState(t *testing.T) {
	batch := twoDayBatch(t)
	if err := batch.Cancel(); err != nil {
		t.Fatal(err)
	}
	if _, err := batch.Commit(context.Background(), &fakeWriter{}); err == nil {
		t.Fatal("expected commit on cancelled batch to be rejected")
	}
}

func TestCancel(t *testing.T) {
	batch := twoDayBatch(t)
	if err := batch.Cancel(); err != nil {
		t.Fatal(err)
	}
	if batch.State() != BatchStateCancelled {
		t.Fatalf("got state %s, want %s", batch.State(), BatchStateCancelled)
	}
	if batch.NewDays != nil {
		t.Fatal("cancel must discard staged days")
	}
	if err := batch.Cancel(); err == nil {
		t.Fatal("expected second cancel to be rejected")
	}
}

func TestPreview(t *testing.T) {
	batch := twoDayBatch(t)
	preview := batch.Preview()

	for _, want := range []string{
		"2 días nuevos",
		"Ignoré 1 días",
		"2026-01-01",
		"2026-01-02",
		"Tarjeta: $200.00",
		"Divisas (USD + Zelle): $80.00",
		"Efectivo: $120.50",
		"Total a Importar: $400.50",
		"Total Divisas: $80.00",
	} {
		if !strings.Contains(preview, want) {
			t.Fatalf("preview missing %q:\n%s", want, preview)
		}
	}
}

func TestPreview_SurfacesSkippedData(t *testing.T) {
	batch := stagedBatch(nil, 0)
	batch.Skipped = SkipReport{
		Sheets: []SkippedSheet{{Name: "RESUMEN", Reason: "sheet name is not a day number"}},
		Cells:  []SkippedCell{{Sheet: "03", Label: "TOTAL TARJETA", Raw: "pendiente"}},
	}

	preview := batch.Preview()
	if !strings.Contains(preview, "RESUMEN") || !strings.Contains(preview, "pendiente") {
		t.Fatalf("preview must warn about skipped data:\n%s", preview)
	}
}

func TestTotalEntries(t *testing.T) {
	batch := twoDayBatch(t)
	if got := batch.TotalEntries(); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}
