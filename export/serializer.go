package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Serializer turns table data into a downloadable payload.
type Serializer struct {
	Limits      Limits
	Renderers   *RendererRegistry
	Logger      Logger
	Now         func() time.Time
	IDGenerator func() string
}

// NewSerializer creates a serializer with the default limits and renderers.
func NewSerializer() *Serializer {
	return &Serializer{
		Limits:      DefaultLimits(),
		Renderers:   DefaultRenderers(),
		Logger:      NopLogger{},
		Now:         time.Now,
		IDGenerator: uuid.NewString,
	}
}

// Serialize resolves data, picks the output format and renders the payload.
// Empty input produces a zero-length CSV payload without invoking a renderer.
func (s *Serializer) Serialize(data any, opts Options) (Payload, error) {
	if s == nil {
		return Payload{}, NewError(KindInternal, "serializer is nil", nil)
	}

	if err := opts.Validate(); err != nil {
		return Payload{}, err
	}

	src, err := ResolveSource(data)
	if err != nil {
		return Payload{}, err
	}
	return s.SerializeSource(src, opts)
}

// SerializeSource renders an already resolved source.
func (s *Serializer) SerializeSource(src Source, opts Options) (Payload, error) {
	if s == nil {
		return Payload{}, NewError(KindInternal, "serializer is nil", nil)
	}
	if err := opts.Validate(); err != nil {
		return Payload{}, err
	}
	cfg := s.withDefaults()

	now := cfg.Now()
	tables := src.Tables()

	format := FormatCSV
	if !src.Empty() {
		format = DecideFormat(tables, cfg.Limits, opts.ForceCSV)
	}

	filename, err := renderFilename(opts.Filename, format, now)
	if err != nil {
		return Payload{}, NewError(KindValidation, "invalid filename", err)
	}

	payload := Payload{
		ID:          cfg.IDGenerator(),
		Format:      format,
		Filename:    filename,
		ContentType: ContentType(format),
		Disposition: ContentDisposition(filename),
		CreatedAt:   now,
	}

	if src.Empty() {
		payload.Data = []byte{}
		cfg.Logger.Debugf("export %s: empty %s input, no rows written", payload.ID, src.Kind())
		return payload, nil
	}

	if format == FormatCSV && !opts.ForceCSV {
		cfg.Logger.Infof("export %s: limits exceeded (max rows %d, max columns %d), falling back to csv", payload.ID, cfg.Limits.MaxRows, cfg.Limits.MaxColumns)
	}

	renderer, ok := cfg.Renderers.Resolve(format)
	if !ok {
		return Payload{}, NewError(KindNotImpl, fmt.Sprintf("no renderer for format %q", format), nil)
	}

	var buf bytes.Buffer
	stats, err := renderer.Render(tables, &buf, opts.renderOptions())
	if err != nil {
		cfg.Logger.Errorf("export %s: render %s failed: %v", payload.ID, format, err)
		return Payload{}, err
	}

	payload.Data = buf.Bytes()
	payload.Sheets = stats.Sheets
	payload.Rows = stats.Rows
	cfg.Logger.Debugf("export %s: rendered %s sheets=%d rows=%d bytes=%d", payload.ID, format, stats.Sheets, stats.Rows, stats.Bytes)
	return payload, nil
}

// Response returns a lazily rendered response for data.
func (s *Serializer) Response(data any, opts Options) *Response {
	return &Response{serializer: s, data: data, opts: opts}
}

func (s *Serializer) withDefaults() Serializer {
	cfg := *s
	cfg.Limits = cfg.Limits.withDefaults()
	if cfg.Renderers == nil {
		cfg.Renderers = DefaultRenderers()
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = uuid.NewString
	}
	return cfg
}
