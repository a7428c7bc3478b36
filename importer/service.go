package importer

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ParseError means the input is not a readable workbook at all. Anything
// less (odd sheets, odd cells) is soft-skipped, not raised.
type ParseError struct {
	err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("not a readable workbook: %v", e.err)
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// ParseAndStage reads a workbook, extracts all day summaries, filters days
// already present in persisted history and stages the remainder for a
// human-confirmed commit. The whole workbook is materialized before
// extraction begins; a partial scan has no meaning.
func ParseAndStage(r io.Reader, existingDates map[string]struct{}, rs Ruleset) (*ImportBatch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{err: err}
	}
	defer f.Close()

	days, report, err := ScanWorkbook(f, rs)
	if err != nil {
		return nil, err
	}

	newDays, duplicateCount := FilterNew(days, existingDates)

	return &ImportBatch{
		ID:             uuid.NewString(),
		NewDays:        newDays,
		DuplicateCount: duplicateCount,
		Skipped:        report,
		state:          BatchStateStaged,
	}, nil
}

// Registry holds staged batches between parse and confirmation.
type Registry struct {
	mu      sync.Mutex
	batches map[string]*ImportBatch
}

func NewRegistry() *Registry {
	return &Registry{batches: make(map[string]*ImportBatch)}
}

func (r *Registry) Add(batch *ImportBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = batch
}

func (r *Registry) Get(id string) (*ImportBatch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	return batch, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.batches, id)
}
