package export

import (
	"context"
	"testing"
	"time"
)

func TestMemoryTracker_TrackStatusList(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker()
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	records := []ExportRecord{
		{ID: "a", Format: FormatXLSX, CreatedAt: base},
		{ID: "b", Format: FormatCSV, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Format: FormatXLSX, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, record := range records {
		if err := tracker.Track(ctx, record); err != nil {
			t.Fatalf("track: %v", err)
		}
	}

	got, err := tracker.Status(ctx, "b")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if got.Format != FormatCSV {
		t.Fatalf("unexpected record %+v", got)
	}

	if _, err := tracker.Status(ctx, "missing"); KindFromError(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := tracker.List(ctx, HistoryFilter{Format: FormatXLSX})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c" || list[1].ID != "a" {
		t.Fatalf("expected newest xlsx first, got %+v", list)
	}

	list, err = tracker.List(ctx, HistoryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "c" {
		t.Fatalf("expected limit to keep newest, got %+v", list)
	}

	if err := tracker.Track(ctx, ExportRecord{}); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error for missing ID, got %v", err)
	}
}

func TestPayloadRecord(t *testing.T) {
	payload, err := newTestSerializer().Serialize([][]any{{"a"}, {1}}, Options{ForceCSV: true})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	record := payload.Record()
	if record.ID != "exp-1" || record.Bytes != int64(payload.Len()) || record.Rows != 2 || record.Filename != "excel_data.csv" {
		t.Fatalf("unexpected record %+v", record)
	}
}
