package exportapi

import (
	"net/http"
	"strconv"
	"strings"

	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-excel-response/export"
)

// DefaultPath is the download route used when Config.Path is empty.
const DefaultPath = "/export"

// Config configures the shared export API controller.
type Config struct {
	Serializer  *export.Serializer
	Data        DataFunc
	Options     export.Options
	OptionsFunc OptionsFunc
	Tracker     export.Tracker
	Path        string
	HistoryPath string
	Logger      export.Logger
}

// Controller serves table downloads and the export history for multiple transports.
type Controller struct {
	serializer  *export.Serializer
	data        DataFunc
	options     export.Options
	optionsFunc OptionsFunc
	tracker     export.Tracker
	path        string
	historyPath string
	logger      export.Logger
}

// NewController creates a shared export API controller.
func NewController(cfg Config) *Controller {
	path := strings.TrimRight(cfg.Path, "/")
	if path == "" {
		path = DefaultPath
	}
	historyPath := strings.TrimRight(cfg.HistoryPath, "/")
	if historyPath == "" {
		historyPath = path + "/history"
	}
	serializer := cfg.Serializer
	if serializer == nil {
		serializer = export.NewSerializer()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = export.NopLogger{}
	}
	return &Controller{
		serializer:  serializer,
		data:        cfg.Data,
		options:     cfg.Options,
		optionsFunc: cfg.OptionsFunc,
		tracker:     cfg.Tracker,
		path:        path,
		historyPath: historyPath,
		logger:      logger,
	}
}

// Path returns the download path.
func (c *Controller) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// HistoryPath returns the history path, or an empty string when no tracker is configured.
func (c *Controller) HistoryPath() string {
	if c == nil || c.tracker == nil {
		return ""
	}
	return c.historyPath
}

// Serve routes download and history requests.
func (c *Controller) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil {
		WriteError(res, export.NewError(export.KindInternal, "handler is nil", nil))
		return
	}
	if req == nil {
		WriteError(res, export.NewError(export.KindInternal, "request is nil", nil))
		return
	}
	if req.Method() != http.MethodGet && req.Method() != http.MethodHead {
		res.SetHeader("Allow", "GET,HEAD")
		res.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimRight(req.Path(), "/")
	switch {
	case path == c.path:
		c.handleDownload(req, res)
	case c.HistoryPath() != "" && path == c.historyPath:
		c.handleHistory(req, res)
	case c.HistoryPath() != "" && strings.HasPrefix(path, c.historyPath+"/"):
		id := strings.TrimPrefix(path, c.historyPath+"/")
		if id == "" || strings.Contains(id, "/") {
			writeNotFound(res)
			return
		}
		c.handleStatus(req, res, id)
	default:
		writeNotFound(res)
	}
}

// ServeDownload renders the configured data regardless of the request path.
func (c *Controller) ServeDownload(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil || req == nil {
		WriteError(res, export.NewError(export.KindInternal, "handler is nil", nil))
		return
	}
	c.handleDownload(req, res)
}

func (c *Controller) handleDownload(req Request, res Response) {
	if c.data == nil {
		WriteError(res, export.NewError(export.KindNotImpl, "export data not configured", nil))
		return
	}

	opts, err := c.requestOptions(req)
	if err != nil {
		WriteError(res, err)
		return
	}

	data, err := c.data(req.Context(), req)
	if err != nil {
		WriteError(res, err)
		return
	}

	payload, err := c.serializer.Serialize(data, opts)
	if err != nil {
		c.logger.Errorf("export download failed: %v", err)
		WriteError(res, err)
		return
	}

	if c.tracker != nil {
		if err := c.tracker.Track(req.Context(), payload.Record()); err != nil {
			c.logger.Errorf("export %s: track failed: %v", payload.ID, err)
		}
	}

	WritePayload(res, payload, req.Method() != http.MethodHead, c.logger)
}

func (c *Controller) requestOptions(req Request) (export.Options, error) {
	opts := c.options
	if c.optionsFunc != nil {
		var err error
		opts, err = c.optionsFunc(req, opts)
		if err != nil {
			return export.Options{}, err
		}
	}
	return applyFormatQuery(req, opts)
}

func (c *Controller) handleHistory(req Request, res Response) {
	filter, err := parseHistoryFilter(req)
	if err != nil {
		WriteError(res, err)
		return
	}
	records, err := c.tracker.List(req.Context(), filter)
	if err != nil {
		WriteError(res, err)
		return
	}
	entries := make([]HistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntry(record))
	}
	writeJSON(res, http.StatusOK, HistoryResponse{Exports: entries})
}

func (c *Controller) handleStatus(req Request, res Response, id string) {
	record, err := c.tracker.Status(req.Context(), id)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, historyEntry(record))
}

// WritePayload writes the download headers and, when includeBody is set, the body.
func WritePayload(res Response, payload export.Payload, includeBody bool, logger export.Logger) {
	setDownloadHeaders(res, payload)
	res.WriteHeader(http.StatusOK)
	if !includeBody {
		return
	}
	if _, err := res.Write(payload.Data); err != nil && logger != nil {
		logger.Errorf("export %s: write body failed: %v", payload.ID, err)
	}
}

func setDownloadHeaders(res Response, payload export.Payload) {
	res.SetHeader("Content-Type", payload.ContentType)
	res.SetHeader("Content-Disposition", payload.Disposition)
	res.SetHeader("Content-Length", strconv.Itoa(payload.Len()))
	if payload.ID != "" {
		res.SetHeader("X-Export-Id", payload.ID)
	}
}

func historyEntry(record export.ExportRecord) HistoryEntry {
	return HistoryEntry{
		ID:          record.ID,
		Filename:    record.Filename,
		Format:      string(record.Format),
		ContentType: record.ContentType,
		Sheets:      record.Sheets,
		Rows:        record.Rows,
		Bytes:       record.Bytes,
		CreatedAt:   record.CreatedAt,
	}
}

func writeNotFound(res Response) {
	WriteError(res, export.NewError(export.KindNotFound, "not found", nil))
}

// WriteError writes a JSON error response mapped from the export error taxonomy.
func WriteError(res Response, err error) {
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	res.DelHeader("Content-Disposition")
	ge := export.AsGoError(err)
	status := statusForError(ge)
	payload := ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	}
	writeJSON(res, status, payload)
}

func writeJSON(res Response, status int, payload any) {
	_ = res.WriteJSON(status, payload)
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	if err.TextCode == "not_implemented" {
		return http.StatusNotImplemented
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryAuthz:
		return http.StatusForbidden
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
