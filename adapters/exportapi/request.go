package exportapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-excel-response/export"
)

// Request provides minimal request access for transport adapters.
type Request interface {
	Context() context.Context
	Method() string
	Path() string
	Header(name string) string
	Query(name string) string
}

// DataFunc loads the table data for a download request. The returned value
// may be any shape accepted by export.ResolveSource.
type DataFunc func(ctx context.Context, req Request) (any, error)

// OptionsFunc adjusts the serializer options for a request.
type OptionsFunc func(req Request, opts export.Options) (export.Options, error)

// FormatParam is the query parameter that selects the output format.
const FormatParam = "format"

// applyFormatQuery maps ?format=csv to a forced CSV response. Any XLSX alias
// leaves the decision to the row and column limits.
func applyFormatQuery(req Request, opts export.Options) (export.Options, error) {
	raw := strings.TrimSpace(req.Query(FormatParam))
	if raw == "" {
		return opts, nil
	}
	switch export.NormalizeFormat(export.Format(raw)) {
	case export.FormatCSV:
		opts.ForceCSV = true
	case export.FormatXLSX:
	default:
		return opts, export.NewError(export.KindValidation, "unsupported format "+strconv.Quote(raw), nil)
	}
	return opts, nil
}

func parseHistoryFilter(req Request) (export.HistoryFilter, error) {
	filter := export.HistoryFilter{}
	if format := strings.TrimSpace(req.Query("type")); format != "" {
		filter.Format = export.NormalizeFormat(export.Format(format))
	}
	if since := req.Query("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return export.HistoryFilter{}, export.NewError(export.KindValidation, "invalid since timestamp", err)
		}
		filter.Since = ts
	}
	if until := req.Query("until"); until != "" {
		ts, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return export.HistoryFilter{}, export.NewError(export.KindValidation, "invalid until timestamp", err)
		}
		filter.Until = ts
	}
	if limit := req.Query("limit"); limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil || value < 0 {
			return export.HistoryFilter{}, export.NewError(export.KindValidation, "invalid limit", err)
		}
		filter.Limit = value
	}
	return filter, nil
}
