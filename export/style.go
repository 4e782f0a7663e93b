package export

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// builtin "m/d/yy h:mm" number format.
const dateTimeNumFmt = 22

// rowStyle holds the style IDs for one row class. A zero plain ID means the
// row class is unstyled and cells are written as raw values.
type rowStyle struct {
	plain int
	dated int
}

func (s rowStyle) styled() bool {
	return s.plain != 0
}

// cell wraps value in a styled cell when the row class carries a font.
func (s rowStyle) cell(value any) any {
	if !s.styled() {
		return value
	}
	styleID := s.plain
	if _, ok := value.(time.Time); ok {
		styleID = s.dated
	}
	return excelize.Cell{StyleID: styleID, Value: value}
}

type xlsxStyles struct {
	header rowStyle
	data   rowStyle
}

func buildXLSXStyles(file *excelize.File, opts RenderOptions) (xlsxStyles, error) {
	header, err := newRowStyle(file, opts.HeaderFont)
	if err != nil {
		return xlsxStyles{}, err
	}
	data, err := newRowStyle(file, opts.DataFont)
	if err != nil {
		return xlsxStyles{}, err
	}
	return xlsxStyles{header: header, data: data}, nil
}

func newRowStyle(file *excelize.File, font *Font) (rowStyle, error) {
	if font == nil {
		return rowStyle{}, nil
	}
	plain, err := file.NewStyle(&excelize.Style{Font: font.excelize()})
	if err != nil {
		return rowStyle{}, NewError(KindValidation, "invalid font", err)
	}
	dated, err := file.NewStyle(&excelize.Style{Font: font.excelize(), NumFmt: dateTimeNumFmt})
	if err != nil {
		return rowStyle{}, NewError(KindValidation, "invalid font", err)
	}
	return rowStyle{plain: plain, dated: dated}, nil
}

func (f *Font) excelize() *excelize.Font {
	return &excelize.Font{
		Family:    f.Family,
		Size:      f.Size,
		Bold:      f.Bold,
		Italic:    f.Italic,
		Underline: f.Underline,
		Strike:    f.Strike,
		Color:     f.Color,
	}
}
