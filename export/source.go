package export

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	errorslib "github.com/goliatone/go-errors"
)

// SourceKind tags the input variant a Source was built from.
type SourceKind string

const (
	SourceEmpty    SourceKind = "empty"
	SourceRows     SourceKind = "rows"
	SourceRecords  SourceKind = "records"
	SourceNamed    SourceKind = "named"
	SourceExternal SourceKind = "external"
)

// RecordSource produces a finite, ordered collection of rows. Each value is
// a Record, a map keyed by column name, or a positional sequence. Values is
// called once, before any format decision is made.
type RecordSource interface {
	Values() ([]any, error)
}

// Sheet is one named table of a multi-sheet input. Name is coerced to its
// string form; Data is any row list accepted by ResolveSource or a RecordSource.
type Sheet struct {
	Name any
	Data any
}

// Sheets is an ordered multi-sheet input.
type Sheets []Sheet

// Source is input resolved into normalized tables.
type Source struct {
	kind   SourceKind
	tables []Table
}

// Kind reports which input variant produced the source.
func (s Source) Kind() SourceKind {
	if s.kind == "" {
		return SourceEmpty
	}
	return s.kind
}

// Tables returns the normalized tables in output order.
func (s Source) Tables() []Table {
	return s.tables
}

// Empty reports whether there is nothing to serialize.
func (s Source) Empty() bool {
	return len(s.tables) == 0
}

// Rows builds an anonymous table from positional rows.
func Rows(rows ...Row) Source {
	if len(rows) == 0 {
		return Source{kind: SourceEmpty}
	}
	items := make([]any, len(rows))
	for i, row := range rows {
		items[i] = row
	}
	table, _ := buildTable("", false, items)
	return Source{kind: SourceRows, tables: []Table{table}}
}

// Records builds an anonymous table whose header is the first record's keys.
func Records(records ...Record) Source {
	if len(records) == 0 {
		return Source{kind: SourceEmpty}
	}
	items := make([]any, len(records))
	for i, record := range records {
		items[i] = record
	}
	table, _ := buildTable("", false, items)
	return Source{kind: SourceRecords, tables: []Table{table}}
}

// NamedSheets builds one table per sheet, preserving sheet order.
func NamedSheets(sheets ...Sheet) (Source, error) {
	if len(sheets) == 0 {
		return Source{kind: SourceEmpty}, nil
	}
	tables := make([]Table, 0, len(sheets))
	for i, sheet := range sheets {
		items, err := sheetItems(sheet.Data)
		if err != nil {
			return Source{}, err
		}
		table, err := buildTable(sheetName(sheet.Name, i), true, items)
		if err != nil {
			return Source{}, err
		}
		tables = append(tables, table)
	}
	return Source{kind: SourceNamed, tables: tables}, nil
}

// FromRecordSource materializes an external record collection.
func FromRecordSource(src RecordSource) (Source, error) {
	if src == nil {
		return Source{kind: SourceEmpty}, nil
	}
	items, err := src.Values()
	if err != nil {
		return Source{}, recordSourceError(err)
	}
	if len(items) == 0 {
		return Source{kind: SourceEmpty}, nil
	}
	table, err := buildTable("", false, items)
	if err != nil {
		return Source{}, err
	}
	return Source{kind: SourceExternal, tables: []Table{table}}, nil
}

// ResolveSource dispatches on the shape of data and returns its normalized
// tables. Maps are treated as sheet name to rows; since Go maps are unordered
// their sheets are sorted by name. Use Sheets to control sheet order.
func ResolveSource(data any) (Source, error) {
	switch v := data.(type) {
	case nil:
		return Source{kind: SourceEmpty}, nil
	case Source:
		return v, nil
	case *Source:
		if v == nil {
			return Source{kind: SourceEmpty}, nil
		}
		return *v, nil
	case RecordSource:
		return FromRecordSource(v)
	case Sheets:
		return NamedSheets(v...)
	case []Sheet:
		return NamedSheets(v...)
	case []Row:
		return Rows(v...), nil
	case []Record:
		return Records(v...), nil
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Source{kind: SourceEmpty}, nil
		}
		return ResolveSource(rv.Elem().Interface())
	case reflect.Map:
		return namedFromMap(rv)
	case reflect.Slice, reflect.Array:
		items, ok := sequenceItems(data)
		if !ok {
			return Source{}, NewUnsupportedInputError("input", data)
		}
		return listSource(items)
	}
	return Source{}, NewUnsupportedInputError("input", data)
}

func listSource(items []any) (Source, error) {
	if len(items) == 0 {
		return Source{kind: SourceEmpty}, nil
	}
	table, err := buildTable("", false, items)
	if err != nil {
		return Source{}, err
	}
	kind := SourceRows
	if table.Header != nil {
		kind = SourceRecords
	}
	return Source{kind: kind, tables: []Table{table}}, nil
}

func namedFromMap(rv reflect.Value) (Source, error) {
	if rv.Len() == 0 {
		return Source{kind: SourceEmpty}, nil
	}
	keys := rv.MapKeys()
	sheets := make(Sheets, 0, len(keys))
	for _, key := range keys {
		sheets = append(sheets, Sheet{Name: key.Interface(), Data: rv.MapIndex(key).Interface()})
	}
	sort.SliceStable(sheets, func(i, j int) bool {
		return fmt.Sprint(sheets[i].Name) < fmt.Sprint(sheets[j].Name)
	})
	return NamedSheets(sheets...)
}

func sheetItems(data any) ([]any, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case RecordSource:
		items, err := v.Values()
		if err != nil {
			return nil, recordSourceError(err)
		}
		return items, nil
	}
	items, ok := sequenceItems(data)
	if !ok {
		return nil, NewUnsupportedInputError("sheet data", data)
	}
	return items, nil
}

func sheetName(name any, index int) string {
	label := ""
	if name != nil {
		label = fmt.Sprint(name)
	}
	if label == "" {
		label = fmt.Sprintf("Sheet %d", index+1)
	}
	return label
}

// sequenceItems flattens any slice or array (other than raw bytes) into its elements.
func sequenceItems(data any) ([]any, bool) {
	switch v := data.(type) {
	case []any:
		return v, true
	case []Row:
		items := make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
		return items, true
	case []Record:
		items := make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
		return items, true
	case []byte, string:
		return nil, false
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// recordSourceError keeps the kind of typed source errors and reports
// anything else as internal.
func recordSourceError(err error) error {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return err
	}
	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return NewError(KindFromError(err), "record source failed", err)
	}
	return NewError(KindInternal, "record source failed", err)
}
