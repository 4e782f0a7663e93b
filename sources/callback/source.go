package exportcallback

import (
	"errors"
	"io"

	"github.com/goliatone/go-excel-response/export"
)

// ValuesFunc returns the projected rows of a lazily evaluated result set.
type ValuesFunc func() ([]any, error)

// Source wraps a callback function as a RecordSource.
type Source struct {
	fn ValuesFunc
}

// NewSource creates a callback-based RecordSource.
func NewSource(fn ValuesFunc) *Source {
	return &Source{fn: fn}
}

// Values delegates to the configured callback.
func (s *Source) Values() ([]any, error) {
	if s == nil || s.fn == nil {
		return nil, export.NewError(export.KindValidation, "callback source requires a function", nil)
	}
	return s.fn()
}

// IteratorFunc yields one row or record at a time and io.EOF when done.
type IteratorFunc func() (any, error)

// FuncIterator drains an iterator into a RecordSource.
type FuncIterator struct {
	NextFunc  IteratorFunc
	CloseFunc func() error
}

// Values reads until io.EOF and closes the iterator.
func (it *FuncIterator) Values() (values []any, err error) {
	if it == nil || it.NextFunc == nil {
		return nil, export.NewError(export.KindValidation, "iterator requires NextFunc", nil)
	}
	defer func() {
		if closeErr := it.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for {
		value, nextErr := it.NextFunc()
		if errors.Is(nextErr, io.EOF) {
			return values, nil
		}
		if nextErr != nil {
			return nil, nextErr
		}
		values = append(values, value)
	}
}

func (it *FuncIterator) close() error {
	if it.CloseFunc == nil {
		return nil
	}
	return it.CloseFunc()
}

var (
	_ export.RecordSource = (*Source)(nil)
	_ export.RecordSource = (*FuncIterator)(nil)
)
