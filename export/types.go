package export

import (
	"io"
	"time"
)

// Format is the serialized output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	// DefaultRowLimit matches the XLSX engine row limit.
	DefaultRowLimit = 1048576
	// DefaultColumnLimit matches the XLSX engine column limit.
	DefaultColumnLimit = 16384

	DefaultFilename  = "excel_data"
	DefaultSheetName = "Sheet 1"

	ContentTypeCSV  = "text/csv; charset=utf8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Row is a positional record.
type Row []any

// Field is a named cell value within a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a row keyed by column name. Field order is column order.
type Record []Field

// Keys returns the record keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, field := range r {
		keys[i] = field.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, field := range r {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Project returns the record values aligned to header. Missing keys are nil
// and keys outside header are dropped.
func (r Record) Project(header []string) Row {
	row := make(Row, len(header))
	for i, key := range header {
		row[i], _ = r.Get(key)
	}
	return row
}

// Table is a normalized sheet: an optional derived header plus positional rows.
type Table struct {
	Name    string
	Named   bool
	Header  []string
	Rows    []Row
	Columns int
}

// SheetRows reports the number of rows the table occupies once written,
// counting a derived header row.
func (t Table) SheetRows() int {
	if t.Header != nil {
		return len(t.Rows) + 1
	}
	return len(t.Rows)
}

// Limits bounds the workbook size before output degrades to CSV.
type Limits struct {
	MaxRows    int
	MaxColumns int
}

// DefaultLimits returns the XLSX engine limits.
func DefaultLimits() Limits {
	return Limits{MaxRows: DefaultRowLimit, MaxColumns: DefaultColumnLimit}
}

func (l Limits) withDefaults() Limits {
	if l.MaxRows <= 0 {
		l.MaxRows = DefaultRowLimit
	}
	if l.MaxColumns <= 0 {
		l.MaxColumns = DefaultColumnLimit
	}
	return l
}

// Font describes the typeface applied to a row class.
type Font struct {
	Family    string
	Size      float64
	Bold      bool
	Italic    bool
	Underline string
	Strike    bool
	Color     string
}

// RenderOptions configures renderer behavior.
type RenderOptions struct {
	SheetName  string
	HeaderFont *Font
	DataFont   *Font
	InferTypes bool
}

// RenderStats capture renderer output.
type RenderStats struct {
	Sheets int
	Rows   int64
	Bytes  int64
}

// Renderer writes normalized tables to the destination.
type Renderer interface {
	Render(tables []Table, w io.Writer, opts RenderOptions) (RenderStats, error)
}

// SheetWriter receives the rows of a single table.
type SheetWriter interface {
	WriteHeader(row Row) error
	WriteRow(row Row) error
}

// Options configures a serialization call.
type Options struct {
	// Filename is the output name without extension. It may contain
	// {{.Date}}, {{.Timestamp}} and {{.Format}} placeholders.
	Filename   string
	SheetName  string
	ForceCSV   bool
	HeaderFont *Font
	DataFont   *Font
	// InferTypes stores numeric-looking strings as numbers. It defaults to
	// true unless InferTypesSet is true.
	InferTypes    bool
	InferTypesSet bool
}

func (o Options) inferTypes() bool {
	if !o.InferTypesSet {
		return true
	}
	return o.InferTypes
}

func (o Options) renderOptions() RenderOptions {
	return RenderOptions{
		SheetName:  o.SheetName,
		HeaderFont: o.HeaderFont,
		DataFont:   o.DataFont,
		InferTypes: o.inferTypes(),
	}
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Payload is a serialized artifact ready to be sent as an HTTP response body.
type Payload struct {
	ID          string
	Format      Format
	Filename    string
	ContentType string
	Disposition string
	Data        []byte
	Sheets      int
	Rows        int64
	CreatedAt   time.Time
}
