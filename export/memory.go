package export

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ExportRecord summarizes a rendered payload for the export history.
type ExportRecord struct {
	ID          string
	Filename    string
	Format      Format
	ContentType string
	Sheets      int
	Rows        int64
	Bytes       int64
	CreatedAt   time.Time
}

// Record returns the history entry for the payload.
func (p Payload) Record() ExportRecord {
	return ExportRecord{
		ID:          p.ID,
		Filename:    p.Filename,
		Format:      p.Format,
		ContentType: p.ContentType,
		Sheets:      p.Sheets,
		Rows:        p.Rows,
		Bytes:       int64(len(p.Data)),
		CreatedAt:   p.CreatedAt,
	}
}

// HistoryFilter narrows history listings.
type HistoryFilter struct {
	Format Format
	Since  time.Time
	Until  time.Time
	Limit  int
}

func (f HistoryFilter) matches(record ExportRecord) bool {
	if f.Format != "" && record.Format != f.Format {
		return false
	}
	if !f.Since.IsZero() && record.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && record.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

// Tracker keeps a history of served exports.
type Tracker interface {
	Track(ctx context.Context, record ExportRecord) error
	Status(ctx context.Context, id string) (ExportRecord, error)
	List(ctx context.Context, filter HistoryFilter) ([]ExportRecord, error)
}

// MemoryTracker stores export history in memory (test/dev only).
type MemoryTracker struct {
	mu      sync.RWMutex
	records map[string]ExportRecord
}

// NewMemoryTracker creates an in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{records: make(map[string]ExportRecord)}
}

// Track stores a record, replacing any previous record with the same ID.
func (t *MemoryTracker) Track(ctx context.Context, record ExportRecord) error {
	_ = ctx
	if record.ID == "" {
		return NewError(KindValidation, "export ID is required", nil)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	t.mu.Lock()
	t.records[record.ID] = record
	t.mu.Unlock()
	return nil
}

// Status returns a record by ID.
func (t *MemoryTracker) Status(ctx context.Context, id string) (ExportRecord, error) {
	_ = ctx
	t.mu.RLock()
	record, ok := t.records[id]
	t.mu.RUnlock()
	if !ok {
		return ExportRecord{}, NewError(KindNotFound, fmt.Sprintf("export %q not found", id), nil)
	}
	return record, nil
}

// List returns matching records, newest first.
func (t *MemoryTracker) List(ctx context.Context, filter HistoryFilter) ([]ExportRecord, error) {
	_ = ctx
	t.mu.RLock()
	records := make([]ExportRecord, 0, len(t.records))
	for _, record := range t.records {
		if filter.matches(record) {
			records = append(records, record)
		}
	}
	t.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

var _ Tracker = (*MemoryTracker)(nil)
