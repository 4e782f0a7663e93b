package exporthttp

import (
	"net/http"

	"github.com/goliatone/go-excel-response/adapters/exportapi"
	"github.com/goliatone/go-excel-response/export"
)

// Config configures the HTTP adapter.
type Config = exportapi.Config

// Handler exposes the table download over net/http.
type Handler struct {
	controller *exportapi.Controller
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: exportapi.NewController(cfg)}
}

// RegisterRoutes registers handlers on a compatible router.
func (h *Handler) RegisterRoutes(router any) {
	paths := []string{h.path()}
	if history := h.historyPath(); history != "" {
		paths = append(paths, history, history+"/{id}")
	}

	switch r := router.(type) {
	case interface{ Handle(string, http.Handler) }:
		for _, path := range paths {
			r.Handle(path, h)
		}
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		for _, path := range paths {
			r.HandleFunc(path, h.ServeHTTP)
		}
	}
}

// ServeHTTP routes export endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	if h == nil || h.controller == nil {
		exportapi.WriteError(newExchange(w, r), export.NewError(export.KindInternal, "handler is nil", nil))
		return
	}
	ex := newExchange(w, r)
	h.controller.Serve(ex, ex)
}

// Download renders the configured data on any route it is mounted on.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	if h == nil || h.controller == nil {
		exportapi.WriteError(newExchange(w, r), export.NewError(export.KindInternal, "handler is nil", nil))
		return
	}
	ex := newExchange(w, r)
	h.controller.ServeDownload(ex, ex)
}

func (h *Handler) path() string {
	if h == nil || h.controller == nil {
		return exportapi.DefaultPath
	}
	return h.controller.Path()
}

func (h *Handler) historyPath() string {
	if h == nil || h.controller == nil {
		return ""
	}
	return h.controller.HistoryPath()
}
