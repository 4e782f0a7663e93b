package exportrouter

import (
	"github.com/goliatone/go-excel-response/adapters/exportapi"
	"github.com/goliatone/go-excel-response/export"
	"github.com/goliatone/go-router"
)

// Config configures the go-router adapter.
type Config = exportapi.Config

// Handler exposes the table download for go-router.
type Handler struct {
	controller *exportapi.Controller
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: exportapi.NewController(cfg)}
}

// RegisterRoutes registers routes on a compatible go-router router.
func (h *Handler) RegisterRoutes(router any) {
	r, ok := router.(routeRegistrar)
	if !ok {
		return
	}
	r.Get(h.path(), h.Handle)
	if history := h.historyPath(); history != "" {
		r.Get(history, h.Handle)
		r.Get(history+"/:id", h.Handle)
	}
}

// Handle serves the download and history routes.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.controller == nil {
		exportapi.WriteError(exchange{c: c}, export.NewError(export.KindInternal, "handler is nil", nil))
		return nil
	}
	ex := exchange{c: c}
	h.controller.Serve(ex, ex)
	return nil
}

// Download renders the configured data on any route it is mounted on.
func (h *Handler) Download(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.controller == nil {
		exportapi.WriteError(exchange{c: c}, export.NewError(export.KindInternal, "handler is nil", nil))
		return nil
	}
	ex := exchange{c: c}
	h.controller.ServeDownload(ex, ex)
	return nil
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

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
