package export

import "strings"

// NormalizeFormat coerces format values into known aliases with defaults applied.
func NormalizeFormat(format Format) Format {
	normalized := strings.ToLower(strings.TrimSpace(string(format)))
	switch normalized {
	case "", string(FormatXLSX), "excel", "xls":
		return FormatXLSX
	case string(FormatCSV), "text":
		return FormatCSV
	default:
		return Format(normalized)
	}
}

// DecideFormat picks the output format for a whole response. Output is CSV
// when forced or when any table exceeds the row or column limit; a single
// oversized table degrades every sheet. Record tables count their derived
// header row, so MaxRows records already exceed a MaxRows limit.
func DecideFormat(tables []Table, limits Limits, forceCSV bool) Format {
	if forceCSV {
		return FormatCSV
	}
	limits = limits.withDefaults()
	for _, table := range tables {
		if table.SheetRows() > limits.MaxRows {
			return FormatCSV
		}
		if table.Columns > limits.MaxColumns {
			return FormatCSV
		}
	}
	return FormatXLSX
}

// ContentType returns the HTTP content type for format.
func ContentType(format Format) string {
	if format == FormatCSV {
		return ContentTypeCSV
	}
	return ContentTypeXLSX
}

// ContentDisposition returns the attachment header value for filename.
func ContentDisposition(filename string) string {
	return `attachment; filename="` + filename + `"`
}
