package export

import (
	"fmt"
	"reflect"
	"sort"
)

// buildTable normalizes raw rows into a Table. When the first row is a
// record its keys become the header and every later record is projected onto
// it; keys missing from the first record are dropped and missing values are
// nil. Positional rows are kept as given.
func buildTable(name string, named bool, items []any) (Table, error) {
	table := Table{Name: name, Named: named, Rows: make([]Row, 0, len(items))}
	if len(items) == 0 {
		return table, nil
	}

	for i, item := range items {
		row, record, err := classifyRow(item)
		if err != nil {
			return Table{}, err
		}
		if i == 0 {
			if record != nil {
				table.Header = record.Keys()
				table.Columns = len(table.Header)
			} else {
				table.Columns = len(row)
			}
		}
		switch {
		case record != nil && table.Header != nil:
			table.Rows = append(table.Rows, record.Project(table.Header))
		case record != nil:
			table.Rows = append(table.Rows, recordValues(record))
		default:
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

// classifyRow returns either a positional row or a record for item.
func classifyRow(item any) (Row, Record, error) {
	switch v := item.(type) {
	case Record:
		return nil, v, nil
	case Row:
		return v, nil, nil
	case []any:
		return Row(v), nil, nil
	case map[string]any:
		return nil, recordFromMap(reflect.ValueOf(v)), nil
	case nil, string, []byte:
		return nil, nil, NewUnsupportedInputError("row", item)
	}

	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil, NewUnsupportedInputError("row", item)
		}
		return classifyRow(rv.Elem().Interface())
	case reflect.Map:
		return nil, recordFromMap(rv), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, nil, NewUnsupportedInputError("row", item)
		}
		row := make(Row, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			row[i] = rv.Index(i).Interface()
		}
		return row, nil, nil
	}
	return nil, nil, NewUnsupportedInputError("row", item)
}

// recordFromMap converts a map into a record with keys sorted by their string form.
func recordFromMap(rv reflect.Value) Record {
	record := make(Record, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		record = append(record, Field{Key: fmt.Sprint(iter.Key().Interface()), Value: iter.Value().Interface()})
	}
	sort.SliceStable(record, func(i, j int) bool {
		return record[i].Key < record[j].Key
	})
	return record
}

func recordValues(record Record) Row {
	row := make(Row, len(record))
	for i, field := range record {
		row[i] = field.Value
	}
	return row
}
