package export

import (
	"encoding/csv"
	"io"
)

// CSVRenderer renders tables as a single Excel-dialect CSV stream. Sheets
// after the first are introduced by two blank lines, the sheet name and one
// more blank line. Fonts have no textual form and are ignored.
type CSVRenderer struct{}

// Render writes every table into w.
func (r CSVRenderer) Render(tables []Table, w io.Writer, opts RenderOptions) (RenderStats, error) {
	_ = opts
	cw := &countingWriter{w: w}
	writer := csv.NewWriter(cw)
	writer.UseCRLF = true

	sheet := &csvSheetWriter{writer: writer, out: cw}
	stats := RenderStats{}
	for i, table := range tables {
		if i > 0 {
			if err := writeCSVSeparator(writer, cw, table.Name); err != nil {
				return stats, err
			}
		}
		rows, err := writeTable(sheet, table)
		stats.Rows += rows
		if err != nil {
			return stats, err
		}
		stats.Sheets++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, err
	}

	stats.Bytes = cw.count
	return stats, nil
}

func writeCSVSeparator(writer *csv.Writer, w io.Writer, name string) error {
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\r\n\r\n"); err != nil {
		return err
	}
	if err := writer.Write([]string{name}); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

type csvSheetWriter struct {
	writer *csv.Writer
	out    io.Writer
}

func (s *csvSheetWriter) WriteHeader(row Row) error {
	return s.WriteRow(row)
}

func (s *csvSheetWriter) WriteRow(row Row) error {
	record := make([]string, len(row))
	for i, value := range row {
		record[i] = textValue(value)
	}
	// encoding/csv writes a lone empty field as a blank line, which readers skip.
	if len(record) == 1 && record[0] == "" {
		s.writer.Flush()
		if err := s.writer.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(s.out, "\"\"\r\n")
		return err
	}
	return s.writer.Write(record)
}

var _ SheetWriter = (*csvSheetWriter)(nil)
