package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

type BatchState string

const (
	BatchStateParsing    BatchState = "PARSING"
	BatchStateStaged     BatchState = "STAGED"
	BatchStateCommitting BatchState = "COMMITTING"
	BatchStateDone       BatchState = "DONE"
	BatchStateFailed     BatchState = "FAILED"
	BatchStateCancelled  BatchState = "CANCELLED"
)

// TransactionRecord is the external transaction shape written at commit.
type TransactionRecord struct {
	Amount    decimal.Decimal
	Method    string
	Date      string
	Note      string
	Type      string
	Category  string
	Status    string
	ImportKey string
}

// TransactionWriter is the narrow persistence collaborator the committer
// writes through, one call per sale.
type TransactionWriter interface {
	CreateTransaction(ctx context.Context, record TransactionRecord) error
}

// Fixed translation applied to every committed sale.
const (
	importNote     = "Importado por Asistente IA"
	importType     = "INCOME"
	importCategory = "Venta"
	importStatus   = "COMPLETED"

	divisasDisplayLabel = "Divisas"
)

// ImportBatch is a staged, user-confirmable set of new days. It is transient:
// held in memory between parse and confirmation, never persisted itself.
type ImportBatch struct {
	ID             string
	NewDays        []DaySummary
	DuplicateCount int
	Skipped        SkipReport

	mu    sync.Mutex
	state BatchState
}

func (b *ImportBatch) State() BatchState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// TotalEntries is the number of persistence writes a commit will issue.
func (b *ImportBatch) TotalEntries() int {
	total := 0
	for _, day := range b.NewDays {
		total += len(day.Sales)
	}
	return total
}

// Preview renders the human-readable breakdown shown before any write
// happens: every day with each sale, the aggregate totals, the Divisas total
// and how many duplicate days were ignored.
func (b *ImportBatch) Preview() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Detecté %d días nuevos para importar.\n", len(b.NewDays))
	if b.DuplicateCount > 0 {
		fmt.Fprintf(&sb, "Ignoré %d días que ya existen en la base de datos.\n", b.DuplicateCount)
	}
	sb.WriteString("\n")

	totalAmount := decimal.Zero
	totalDivisas := decimal.Zero

	for _, day := range b.NewDays {
		fmt.Fprintf(&sb, "%s\n", day.Date)
		for _, sale := range day.Sales {
			label := sale.Method
			if sale.Method == MethodDivisas {
				label = divisasDisplayLabel + " (USD + Zelle)"
				totalDivisas = totalDivisas.Add(sale.Amount)
			}
			fmt.Fprintf(&sb, "   • %s: $%s\n", label, sale.Amount.StringFixed(2))
			totalAmount = totalAmount.Add(sale.Amount)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Total a Importar: $%s\n", totalAmount.StringFixed(2))
	fmt.Fprintf(&sb, "Total Divisas: $%s\n", totalDivisas.StringFixed(2))

	if !b.Skipped.Empty() {
		sb.WriteString("\nAdvertencia: se omitieron datos ilegibles.\n")
		for _, sheet := range b.Skipped.Sheets {
			fmt.Fprintf(&sb, "   • Hoja %q: %s\n", sheet.Name, sheet.Reason)
		}
		for _, cell := range b.Skipped.Cells {
			fmt.Fprintf(&sb, "   • Hoja %q, etiqueta %q: valor ilegible %q\n", cell.Sheet, cell.Label, cell.Raw)
		}
	}

	return sb.String()
}

// Commit writes every staged sale through the writer, sequentially, in
// chronological day order and extraction order within a day. On the first
// write failure it stops and returns the count persisted so far; earlier
// writes stay in place. There is no retry and no rollback here; a re-import
// after a partial failure is made safe by the duplicate filter and the
// writer's ImportKey idempotency.
func (b *ImportBatch) Commit(ctx context.Context, writer TransactionWriter) (int, error) {
	b.mu.Lock()
	if b.state != BatchStateStaged {
		state := b.state
		b.mu.Unlock()
		return 0, fmt.Errorf("batch is %s, expected %s", state, BatchStateStaged)
	}
	b.state = BatchStateCommitting
	b.mu.Unlock()

	count := 0
	for _, day := range b.NewDays {
		for _, sale := range day.Sales {
			record := translateSale(day, sale)
			if err := writer.CreateTransaction(ctx, record); err != nil {
				b.setState(BatchStateFailed)
				return count, err
			}
			count++
		}
	}

	b.setState(BatchStateDone)
	return count, nil
}

// Cancel discards a staged batch without writing. Only a staged batch can be
// cancelled; once commit begins there is no way back.
func (b *ImportBatch) Cancel() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != BatchStateStaged {
		return fmt.Errorf("batch is %s, expected %s", b.state, BatchStateStaged)
	}
	b.state = BatchStateCancelled
	b.NewDays = nil
	return nil
}

func (b *ImportBatch) setState(state BatchState) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
}

func translateSale(day DaySummary, sale SaleEntry) TransactionRecord {
	method := sale.Method
	if method == MethodDivisas {
		method = divisasDisplayLabel
	}
	return TransactionRecord{
		Amount:    sale.Amount,
		Method:    method,
		Date:      day.Date,
		Note:      importNote,
		Type:      importType,
		Category:  importCategory,
		Status:    importStatus,
		ImportKey: day.Date + "|" + method,
	}
}
