package export

import (
	"fmt"
	"strings"
)

// Validate checks caller supplied options before any rendering happens.
func (o Options) Validate() error {
	if o.Filename != "" && !strings.Contains(o.Filename, "{{") {
		if err := validateFilename(o.Filename); err != nil {
			return NewError(KindValidation, "invalid filename", err)
		}
	}
	if o.SheetName != "" {
		if _, err := sheetNames([]Table{{}}, o.SheetName); err != nil {
			return err
		}
	}
	if o.HeaderFont != nil && o.HeaderFont.Size < 0 {
		return NewError(KindValidation, fmt.Sprintf("invalid header font size %v", o.HeaderFont.Size), nil)
	}
	if o.DataFont != nil && o.DataFont.Size < 0 {
		return NewError(KindValidation, fmt.Sprintf("invalid data font size %v", o.DataFont.Size), nil)
	}
	return nil
}
