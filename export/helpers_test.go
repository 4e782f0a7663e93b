package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

type countingSource struct {
	values []any
	err    error
	calls  int
}

func (s *countingSource) Values() ([]any, error) {
	s.calls++
	return s.values, s.err
}

type captureLogger struct {
	debug []string
	info  []string
	error []string
}

func (l *captureLogger) Debugf(format string, args ...any) {
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Infof(format string, args ...any) {
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Errorf(format string, args ...any) {
	l.error = append(l.error, fmt.Sprintf(format, args...))
}

func newTestSerializer() *Serializer {
	s := NewSerializer()
	s.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	s.IDGenerator = func() string { return "exp-1" }
	return s
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	t.Cleanup(func() {
		_ = file.Close()
	})
	return file
}

func assertRows(t *testing.T, got [][]string, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], got[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("row %d col %d: expected %q, got %q", i, j, want[i][j], got[i][j])
			}
		}
	}
}
