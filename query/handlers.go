package query

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-excel-response/export"
)

// ExportStatusHandler returns a single export record.
type ExportStatusHandler struct {
	Tracker export.Tracker
}

func NewExportStatusHandler(tracker export.Tracker) *ExportStatusHandler {
	return &ExportStatusHandler{Tracker: tracker}
}

func (h *ExportStatusHandler) Query(ctx context.Context, msg ExportStatus) (export.ExportRecord, error) {
	if h == nil || h.Tracker == nil {
		return export.ExportRecord{}, errors.New("export tracker is required", errors.CategoryInternal).
			WithTextCode("TRACKER_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return export.ExportRecord{}, err
	}
	return h.Tracker.Status(ctx, msg.ExportID)
}

// ExportHistoryHandler returns export history.
type ExportHistoryHandler struct {
	Tracker export.Tracker
}

func NewExportHistoryHandler(tracker export.Tracker) *ExportHistoryHandler {
	return &ExportHistoryHandler{Tracker: tracker}
}

func (h *ExportHistoryHandler) Query(ctx context.Context, msg ExportHistory) ([]export.ExportRecord, error) {
	if h == nil || h.Tracker == nil {
		return nil, errors.New("export tracker is required", errors.CategoryInternal).
			WithTextCode("TRACKER_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return h.Tracker.List(ctx, msg.Filter)
}
