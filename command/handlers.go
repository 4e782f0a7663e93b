package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-excel-response/export"
)

// RenderExportHandler renders payloads with a shared serializer.
type RenderExportHandler struct {
	Serializer *export.Serializer
	Tracker    export.Tracker
	Logger     export.Logger
}

func NewRenderExportHandler(serializer *export.Serializer) *RenderExportHandler {
	return &RenderExportHandler{Serializer: serializer}
}

func (h *RenderExportHandler) Execute(ctx context.Context, msg RenderExport) error {
	if h == nil || h.Serializer == nil {
		return errors.New("export serializer is required", errors.CategoryInternal).
			WithTextCode("SERIALIZER_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	payload, err := h.Serializer.Serialize(msg.Data, msg.Options)
	if err != nil {
		return export.AsGoError(err)
	}
	if h.Tracker != nil {
		if err := h.Tracker.Track(ctx, payload.Record()); err != nil && h.Logger != nil {
			h.Logger.Errorf("export %s: track failed: %v", payload.ID, err)
		}
	}

	if msg.Result != nil {
		*msg.Result = payload
	}
	if res := gcmd.ResultFromContext[export.Payload](ctx); res != nil {
		res.Store(payload)
	}
	return nil
}
