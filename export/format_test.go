package export

import "testing"

func TestDecideFormat(t *testing.T) {
	threeRows := Rows(Row{"a"}, Row{"b"}, Row{"c"}).Tables()
	wide := Rows(Row{"a", "b", "c"}).Tables()
	records := Records(
		Record{{Key: "a", Value: 1}},
		Record{{Key: "a", Value: 2}},
	).Tables()

	cases := []struct {
		name   string
		tables []Table
		limits Limits
		force  bool
		want   Format
	}{
		{"defaults", threeRows, Limits{}, false, FormatXLSX},
		{"forced", threeRows, DefaultLimits(), true, FormatCSV},
		{"row limit exceeded", threeRows, Limits{MaxRows: 2}, false, FormatCSV},
		{"row limit exceeded and forced", threeRows, Limits{MaxRows: 2}, true, FormatCSV},
		{"row limit met", threeRows, Limits{MaxRows: 3}, false, FormatXLSX},
		{"column limit exceeded", wide, Limits{MaxColumns: 2}, false, FormatCSV},
		{"column limit met", wide, Limits{MaxColumns: 3}, false, FormatXLSX},
		{"derived header counts as a row", records, Limits{MaxRows: 2}, false, FormatCSV},
		{"any table degrades all", append(append([]Table{}, wide...), threeRows...), Limits{MaxRows: 2}, false, FormatCSV},
	}

	for _, tc := range cases {
		if got := DecideFormat(tc.tables, tc.limits, tc.force); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestNormalizeFormat(t *testing.T) {
	cases := map[Format]Format{
		"":      FormatXLSX,
		"Excel": FormatXLSX,
		"xls":   FormatXLSX,
		" CSV ": FormatCSV,
		"text":  FormatCSV,
		"pdf":   Format("pdf"),
	}
	for in, want := range cases {
		if got := NormalizeFormat(in); got != want {
			t.Fatalf("NormalizeFormat(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestContentHeaders(t *testing.T) {
	if ContentType(FormatCSV) != "text/csv; charset=utf8" {
		t.Fatalf("unexpected csv content type %q", ContentType(FormatCSV))
	}
	if ContentType(FormatXLSX) != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected xlsx content type %q", ContentType(FormatXLSX))
	}
	if got := ContentDisposition("excel_data.csv"); got != `attachment; filename="excel_data.csv"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}
