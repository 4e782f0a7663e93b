package export

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// RendererRegistry maps output formats to renderers. Formats are
// normalized, so "excel" and "xlsx" share an entry.
type RendererRegistry struct {
	mu        sync.RWMutex
	renderers map[Format]Renderer
}

func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{renderers: make(map[Format]Renderer)}
}

// DefaultRenderers returns a registry holding the CSV and XLSX renderers.
func DefaultRenderers() *RendererRegistry {
	registry := NewRendererRegistry()
	_ = registry.Register(FormatCSV, CSVRenderer{})
	_ = registry.Register(FormatXLSX, XLSXRenderer{})
	return registry
}

func (r *RendererRegistry) Register(format Format, renderer Renderer) error {
	if strings.TrimSpace(string(format)) == "" {
		return NewError(KindValidation, "renderer format is required", nil)
	}
	if renderer == nil {
		return NewError(KindValidation, "renderer is required", nil)
	}
	format = NormalizeFormat(format)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[format]; exists {
		return NewError(KindValidation, fmt.Sprintf("renderer for %q already registered", format), nil)
	}
	r.renderers[format] = renderer
	return nil
}

func (r *RendererRegistry) Resolve(format Format) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[NormalizeFormat(format)]
	return renderer, ok
}

// Formats lists the registered formats in sorted order.
func (r *RendererRegistry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]Format, 0, len(r.renderers))
	for format := range r.renderers {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
