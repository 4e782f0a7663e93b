package trackerbun

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-excel-response/export"
	"github.com/uptrace/bun"
)

// Tracker stores export history in a Bun-backed database.
type Tracker struct {
	DB  *bun.DB
	Now func() time.Time
}

// NewTracker creates a Bun-backed tracker.
func NewTracker(db *bun.DB) *Tracker {
	return &Tracker{DB: db, Now: time.Now}
}

// CreateTable creates the history table when it does not exist.
func (t *Tracker) CreateTable(ctx context.Context) error {
	if t == nil || t.DB == nil {
		return export.NewError(export.KindNotImpl, "tracker database not configured", nil)
	}
	_, err := t.DB.NewCreateTable().Model((*recordModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Track inserts a record, replacing any previous record with the same ID.
func (t *Tracker) Track(ctx context.Context, record export.ExportRecord) error {
	if t == nil || t.DB == nil {
		return export.NewError(export.KindNotImpl, "tracker database not configured", nil)
	}
	if record.ID == "" {
		return export.NewError(export.KindValidation, "export ID is required", nil)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = t.now()
	}

	model := modelFromRecord(record)
	_, err := t.DB.NewInsert().Model(&model).On("CONFLICT (id) DO UPDATE").Exec(ctx)
	return err
}

// Status returns a record by ID.
func (t *Tracker) Status(ctx context.Context, id string) (export.ExportRecord, error) {
	if t == nil || t.DB == nil {
		return export.ExportRecord{}, export.NewError(export.KindNotImpl, "tracker database not configured", nil)
	}
	if id == "" {
		return export.ExportRecord{}, export.NewError(export.KindValidation, "export ID is required", nil)
	}

	model := new(recordModel)
	err := t.DB.NewSelect().Model(model).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return export.ExportRecord{}, export.NewError(export.KindNotFound, fmt.Sprintf("export %q not found", id), nil)
		}
		return export.ExportRecord{}, err
	}
	return model.toRecord(), nil
}

// List returns records matching a filter, newest first.
func (t *Tracker) List(ctx context.Context, filter export.HistoryFilter) ([]export.ExportRecord, error) {
	if t == nil || t.DB == nil {
		return nil, export.NewError(export.KindNotImpl, "tracker database not configured", nil)
	}

	models := make([]recordModel, 0)
	query := t.DB.NewSelect().Model(&models)
	if filter.Format != "" {
		query = query.Where("format = ?", string(filter.Format))
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("created_at <= ?", filter.Until)
	}
	query = query.Order("created_at DESC", "id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, err
	}

	records := make([]export.ExportRecord, 0, len(models))
	for _, model := range models {
		records = append(records, model.toRecord())
	}
	return records, nil
}

func (t *Tracker) now() time.Time {
	if t != nil && t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

type recordModel struct {
	bun.BaseModel `bun:"table:export_history,alias:export_history"`

	ID          string    `bun:",pk"`
	Filename    string    `bun:",notnull"`
	Format      string    `bun:",notnull"`
	ContentType string    `bun:"content_type"`
	Sheets      int       `bun:"sheet_count"`
	Rows        int64     `bun:"row_count"`
	Bytes       int64     `bun:"byte_count"`
	CreatedAt   time.Time `bun:"created_at"`
}

func modelFromRecord(record export.ExportRecord) recordModel {
	return recordModel{
		ID:          record.ID,
		Filename:    record.Filename,
		Format:      string(record.Format),
		ContentType: record.ContentType,
		Sheets:      record.Sheets,
		Rows:        record.Rows,
		Bytes:       record.Bytes,
		CreatedAt:   record.CreatedAt,
	}
}

func (m recordModel) toRecord() export.ExportRecord {
	return export.ExportRecord{
		ID:          m.ID,
		Filename:    m.Filename,
		Format:      export.Format(m.Format),
		ContentType: m.ContentType,
		Sheets:      m.Sheets,
		Rows:        m.Rows,
		Bytes:       m.Bytes,
		CreatedAt:   m.CreatedAt,
	}
}

var _ export.Tracker = (*Tracker)(nil)
