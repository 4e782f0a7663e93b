package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	excelMaxRows         = 1048576
	excelMaxSheetNameLen = 31
	invalidSheetChars    = `:\/?*[]`
)

// XLSXRenderer renders tables into a workbook with one sheet per table.
type XLSXRenderer struct{}

// Render streams each table into its own sheet and writes the workbook to w.
func (r XLSXRenderer) Render(tables []Table, w io.Writer, opts RenderOptions) (RenderStats, error) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	names, err := sheetNames(tables, opts.SheetName)
	if err != nil {
		return RenderStats{}, err
	}

	styles, err := buildXLSXStyles(file, opts)
	if err != nil {
		return RenderStats{}, err
	}

	stats := RenderStats{}
	for i, table := range tables {
		if table.SheetRows() > excelMaxRows {
			return stats, NewError(KindValidation, fmt.Sprintf("sheet %q exceeds xlsx row limit", names[i]), nil)
		}
		if err := addSheet(file, i, names[i]); err != nil {
			return stats, err
		}

		stream, err := file.NewStreamWriter(names[i])
		if err != nil {
			return stats, err
		}
		sheet := &xlsxSheetWriter{
			stream: stream,
			styles: styles,
			infer:  opts.InferTypes,
		}
		rows, err := writeTable(sheet, table)
		stats.Rows += rows
		if err != nil {
			return stats, err
		}
		if err := stream.Flush(); err != nil {
			return stats, err
		}
		stats.Sheets++
	}
	file.SetActiveSheet(0)

	cw := &countingWriter{w: w}
	if _, err := file.WriteTo(cw); err != nil {
		return stats, err
	}
	stats.Bytes = cw.count
	return stats, nil
}

func addSheet(file *excelize.File, index int, name string) error {
	if index == 0 {
		defaultSheet := file.GetSheetName(0)
		if defaultSheet == name {
			return nil
		}
		file.SetSheetName(defaultSheet, name)
		if file.GetSheetName(0) != name {
			return NewError(KindValidation, fmt.Sprintf("invalid sheet name %q", name), nil)
		}
		return nil
	}
	if _, err := file.NewSheet(name); err != nil {
		return NewError(KindValidation, fmt.Sprintf("invalid sheet name %q", name), err)
	}
	return nil
}

// sheetNames resolves a title per table. Anonymous tables use the configured
// sheet name; named tables keep their own.
func sheetNames(tables []Table, fallback string) ([]string, error) {
	if fallback == "" {
		fallback = DefaultSheetName
	}
	names := make([]string, len(tables))
	seen := make(map[string]struct{}, len(tables))
	for i, table := range tables {
		name := table.Name
		if !table.Named || name == "" {
			name = fallback
		}
		if len([]rune(name)) > excelMaxSheetNameLen {
			return nil, NewError(KindValidation, fmt.Sprintf("sheet name %q exceeds %d characters", name, excelMaxSheetNameLen), nil)
		}
		if strings.ContainsAny(name, invalidSheetChars) || strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
			return nil, NewError(KindValidation, fmt.Sprintf("invalid sheet name %q", name), nil)
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, NewError(KindValidation, fmt.Sprintf("duplicate sheet name %q", name), nil)
		}
		seen[key] = struct{}{}
		names[i] = name
	}
	return names, nil
}

type xlsxSheetWriter struct {
	stream *excelize.StreamWriter
	styles xlsxStyles
	infer  bool
	row    int
}

func (s *xlsxSheetWriter) WriteHeader(row Row) error {
	return s.write(row, s.styles.header)
}

func (s *xlsxSheetWriter) WriteRow(row Row) error {
	return s.write(row, s.styles.data)
}

func (s *xlsxSheetWriter) write(row Row, style rowStyle) error {
	s.row++
	cells := make([]any, len(row))
	for i, value := range row {
		value = derefValue(value)
		if s.infer {
			value = inferValue(value)
		}
		cells[i] = style.cell(value)
	}
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.stream.SetRow(cell, cells)
}

var _ SheetWriter = (*xlsxSheetWriter)(nil)
