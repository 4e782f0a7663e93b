package export

import (
	"bytes"
	"strings"
	"testing"
)

func TestSerializer_EmptyInputProducesEmptyBody(t *testing.T) {
	inputs := []any{nil, []Row{}, [][]any{}, []map[string]any{}, Sheets{}, &countingSource{}}
	for _, force := range []bool{false, true} {
		for _, input := range inputs {
			payload, err := newTestSerializer().Serialize(input, Options{ForceCSV: force})
			if err != nil {
				t.Fatalf("serialize %T: %v", input, err)
			}
			if payload.Len() != 0 {
				t.Fatalf("expected empty body for %T, got %d bytes", input, payload.Len())
			}
			if payload.Format != FormatCSV || payload.ContentType != ContentTypeCSV {
				t.Fatalf("expected csv headers for empty input, got %q %q", payload.Format, payload.ContentType)
			}
			if payload.Filename != "excel_data.csv" {
				t.Fatalf("expected excel_data.csv, got %q", payload.Filename)
			}
		}
	}
}

func TestSerializer_DefaultsToXLSX(t *testing.T) {
	payload, err := newTestSerializer().Serialize([][]any{{"a", "b"}, {1, 2}}, Options{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payload.Format != FormatXLSX {
		t.Fatalf("expected xlsx, got %q", payload.Format)
	}
	if payload.ContentType != ContentTypeXLSX {
		t.Fatalf("unexpected content type %q", payload.ContentType)
	}
	if payload.Disposition != `attachment; filename="excel_data.xlsx"` {
		t.Fatalf("unexpected disposition %q", payload.Disposition)
	}
	if payload.ID != "exp-1" || payload.Sheets != 1 || payload.Rows != 2 {
		t.Fatalf("unexpected payload metadata %+v", payload)
	}

	file := openWorkbook(t, payload.Data)
	rows, err := file.GetRows(DefaultSheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	assertRows(t, rows, [][]string{{"a", "b"}, {"1", "2"}})
}

func TestSerializer_ForceCSV(t *testing.T) {
	payload, err := newTestSerializer().Serialize([][]any{{"a", "b"}, {1, 2}}, Options{ForceCSV: true, Filename: "people"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payload.Format != FormatCSV || payload.Filename != "people.csv" {
		t.Fatalf("expected people.csv, got %q %q", payload.Format, payload.Filename)
	}
	if string(payload.Data) != "a,b\r\n1,2\r\n" {
		t.Fatalf("unexpected body %q", payload.Data)
	}
}

func TestSerializer_LimitsFallBackToCSV(t *testing.T) {
	cases := []struct {
		name   string
		limits Limits
		data   any
	}{
		{
			name:   "rows",
			limits: Limits{MaxRows: 2},
			data:   [][]any{{"a"}, {1}, {2}},
		},
		{
			name:   "records count header row",
			limits: Limits{MaxRows: 2},
			data: []Record{
				{{Key: "a", Value: 1}},
				{{Key: "a", Value: 2}},
			},
		},
		{
			name:   "columns",
			limits: Limits{MaxColumns: 2},
			data:   [][]any{{"a", "b", "c"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := &captureLogger{}
			serializer := newTestSerializer()
			serializer.Limits = tc.limits
			serializer.Logger = logger

			payload, err := serializer.Serialize(tc.data, Options{})
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			if payload.Format != FormatCSV || payload.Filename != "excel_data.csv" {
				t.Fatalf("expected csv fallback, got %q %q", payload.Format, payload.Filename)
			}
			if len(logger.info) != 1 || !strings.Contains(logger.info[0], "falling back to csv") {
				t.Fatalf("expected fallback log, got %v", logger.info)
			}
		})
	}
}

func TestSerializer_WithinLimitsStaysXLSX(t *testing.T) {
	logger := &captureLogger{}
	serializer := newTestSerializer()
	serializer.Limits = Limits{MaxRows: 2, MaxColumns: 2}
	serializer.Logger = logger

	payload, err := serializer.Serialize([][]any{{"a", "b"}, {1, 2}}, Options{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payload.Format != FormatXLSX {
		t.Fatalf("expected xlsx, got %q", payload.Format)
	}
	if len(logger.info) != 0 {
		t.Fatalf("expected no fallback log, got %v", logger.info)
	}
}

func TestSerializer_FilenameTemplate(t *testing.T) {
	payload, err := newTestSerializer().Serialize([][]any{{"a"}}, Options{Filename: "report_{{.Date}}"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if payload.Filename != "report_20240102.xlsx" {
		t.Fatalf("expected report_20240102.xlsx, got %q", payload.Filename)
	}
}

func TestSerializer_InvalidOptions(t *testing.T) {
	cases := []Options{
		{Filename: `bad"name`},
		{Filename: "dir/name"},
		{SheetName: "a:b"},
		{HeaderFont: &Font{Size: -1}},
	}
	for _, opts := range cases {
		_, err := newTestSerializer().Serialize([][]any{{"a"}}, opts)
		if KindFromError(err) != KindValidation {
			t.Fatalf("expected validation error for %+v, got %v", opts, err)
		}
	}
}

func TestSerializer_UnsupportedInput(t *testing.T) {
	_, err := newTestSerializer().Serialize(42, Options{})
	if !IsUnsupportedInput(err) {
		t.Fatalf("expected unsupported input, got %v", err)
	}
	if !strings.Contains(err.Error(), "int") {
		t.Fatalf("expected error to name the type, got %q", err.Error())
	}
}

func TestSerializer_DoesNotMutateItself(t *testing.T) {
	serializer := &Serializer{}
	if _, err := serializer.Serialize([][]any{{"a"}}, Options{}); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serializer.Renderers != nil || serializer.Logger != nil || serializer.Limits != (Limits{}) {
		t.Fatalf("expected serializer fields untouched, got %+v", serializer)
	}
}

func TestResponse_RendersLazilyOnce(t *testing.T) {
	source := &countingSource{values: []any{
		map[string]any{"a": 1},
		map[string]any{"a": 2},
	}}
	response := newTestSerializer().Response(source, Options{})
	if source.calls != 0 {
		t.Fatalf("expected no work before payload is requested, got %d calls", source.calls)
	}

	contentType, err := response.ContentType()
	if err != nil {
		t.Fatalf("content type: %v", err)
	}
	if contentType != ContentTypeXLSX {
		t.Fatalf("unexpected content type %q", contentType)
	}
	first, err := response.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}

	buf := &bytes.Buffer{}
	n, err := response.WriteTo(buf)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != int64(len(first)) || !bytes.Equal(buf.Bytes(), first) {
		t.Fatalf("expected cached body to be written")
	}
	if source.calls != 1 {
		t.Fatalf("expected a single render, got %d calls", source.calls)
	}
}

func TestResponse_CachesErrors(t *testing.T) {
	response := newTestSerializer().Response("not rows", Options{})
	if _, err := response.Payload(); !IsUnsupportedInput(err) {
		t.Fatalf("expected unsupported input, got %v", err)
	}
	if _, err := response.ContentDisposition(); !IsUnsupportedInput(err) {
		t.Fatalf("expected cached error, got %v", err)
	}
}
