package command

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-excel-response/export"
)

// RenderExport renders table data into a downloadable payload.
type RenderExport struct {
	Data    any
	Options export.Options
	Result  *export.Payload
}

func (RenderExport) Type() string { return "export:render" }

func (msg RenderExport) Validate() error {
	if err := msg.Options.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "render options are invalid").
			WithTextCode("OPTIONS_INVALID")
	}
	return nil
}

// WriteExports renders a batch of exports into a directory. An empty
// OutputDir uses the directory the command was built with.
type WriteExports struct {
	From      string
	OutputDir string
	Result    *[]export.ExportRecord
}

func (WriteExports) Type() string { return "export:write" }
