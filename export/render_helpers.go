package export

import (
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const csvTimeLayout = "2006-01-02 15:04:05"

var numericText = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// derefValue unwraps pointer scalars so writers see plain values; a nil
// pointer becomes nil.
func derefValue(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Pointer {
		return value
	}
	if rv.IsNil() {
		return nil
	}
	switch rv.Elem().Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.Elem().Interface()
	}
	if t, ok := rv.Elem().Interface().(time.Time); ok {
		return t
	}
	return value
}

// textValue renders a cell for delimited output.
func textValue(value any) string {
	switch v := derefValue(value).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(csvTimeLayout)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return stringify(v)
	}
}

// inferValue converts numeric-looking text into an int64 when it fits and a
// float64 otherwise. Any other value is returned unchanged.
func inferValue(value any) any {
	text, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimSpace(text)
	if !numericText.MatchString(trimmed) {
		return value
	}
	if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return parsed
	}
	if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return parsed
	}
	return value
}

func headerRow(header []string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		row[i] = name
	}
	return row
}

// writeTable streams a table into a sheet writer. The derived header, or the
// first positional row when there is none, is the table's single header row.
func writeTable(sw SheetWriter, table Table) (int64, error) {
	var rows int64
	if table.Header != nil {
		if err := sw.WriteHeader(headerRow(table.Header)); err != nil {
			return rows, err
		}
	}
	for i, row := range table.Rows {
		var err error
		if i == 0 && table.Header == nil {
			err = sw.WriteHeader(row)
		} else {
			err = sw.WriteRow(row)
		}
		if err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}
