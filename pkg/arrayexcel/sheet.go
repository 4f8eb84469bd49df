package arrayexcel

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// Cell style accumulator
// =============================================================================

// CellStyle is the resolved presentation of one cell. Each category is
// optional and is overwritten independently of the others.
type CellStyle struct {
	Alignment *Alignment
	Font      *Font
	Fill      *Fill
	Border    *bool // true: thin on four sides, false: none
}

type Alignment struct {
	Horizontal string // "", left, center, right
	Vertical   string // top, center, bottom
	WrapText   bool
}

type Font struct {
	Size float64 // 0 keeps the workbook default size
	Bold bool
}

// defaultFontSize matches the size of the default workbook font.
const defaultFontSize = 11

type Fill struct {
	Color string // RRGGBB
}

// defaultCellStyle is applied to every cell written from data.
func defaultCellStyle() CellStyle {
	thin := true
	return CellStyle{
		Alignment: &Alignment{Vertical: "center", WrapText: true},
		Border:    &thin,
	}
}

func (cs CellStyle) fingerprint() string {
	var sb strings.Builder
	if cs.Alignment != nil {
		fmt.Fprintf(&sb, "a:%s:%s:%v|", cs.Alignment.Horizontal, cs.Alignment.Vertical, cs.Alignment.WrapText)
	}
	if cs.Font != nil {
		fmt.Fprintf(&sb, "f:%g:%v|", cs.Font.Size, cs.Font.Bold)
	}
	if cs.Fill != nil {
		fmt.Fprintf(&sb, "i:%s|", cs.Fill.Color)
	}
	if cs.Border != nil {
		fmt.Fprintf(&sb, "b:%v|", *cs.Border)
	}
	return sb.String()
}

func (cs CellStyle) excelizeStyle() *excelize.Style {
	style := &excelize.Style{}
	if cs.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: cs.Alignment.Horizontal,
			Vertical:   cs.Alignment.Vertical,
			WrapText:   cs.Alignment.WrapText,
		}
	}
	if cs.Font != nil {
		style.Font = &excelize.Font{
			Size: cs.Font.Size,
			Bold: cs.Font.Bold,
		}
		if style.Font.Size == 0 {
			style.Font.Size = defaultFontSize
		}
	}
	if cs.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{cs.Fill.Color},
			Pattern: 1,
		}
	}
	if cs.Border != nil && *cs.Border {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			style.Border = append(style.Border, excelize.Border{Type: side, Color: "000000", Style: 1})
		}
	}
	return style
}

// =============================================================================
// Sheet
// =============================================================================

type cellRef struct {
	row, col int
}

// Sheet is a single worksheet under construction. Cell values live in the
// excelize file; styles are accumulated per cell and rendered by flushStyles.
type Sheet struct {
	file   *excelize.File
	name   string
	styles map[cellRef]*CellStyle

	// extent of the written data, used to blank cells absorbed by merges
	rows, cols int

	styleCache     map[string]int
	maxWidthColumn int
}

func newSheet(maxWidthColumn int) *Sheet {
	f := excelize.NewFile()
	return &Sheet{
		file:           f,
		name:           f.GetSheetName(0),
		styles:         make(map[cellRef]*CellStyle),
		styleCache:     make(map[string]int),
		maxWidthColumn: maxWidthColumn,
	}
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// File exposes the underlying workbook for inspection.
func (s *Sheet) File() *excelize.File {
	return s.file
}

// Style returns the resolved style of a cell and whether the cell was ever
// written or styled.
func (s *Sheet) Style(row, col int) (CellStyle, bool) {
	cs, ok := s.styles[cellRef{row, col}]
	if !ok {
		return CellStyle{}, false
	}
	return *cs, true
}

// Close releases the workbook.
func (s *Sheet) Close() error {
	return s.file.Close()
}

// WriteTo renders the workbook in the Office Open XML package format.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	return s.file.WriteTo(w)
}

// Bytes renders the workbook into memory.
func (s *Sheet) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := s.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellStyle returns the mutable accumulator for a cell, creating an empty one.
func (s *Sheet) cellStyle(row, col int) *CellStyle {
	ref := cellRef{row, col}
	cs, ok := s.styles[ref]
	if !ok {
		cs = &CellStyle{}
		s.styles[ref] = cs
	}
	return cs
}

// writeRows writes data cell by cell and applies the default style to each.
func (s *Sheet) writeRows(rows []interface{}) error {
	for i, raw := range rows {
		r := i + 1
		row, ok := raw.([]interface{})
		if !ok {
			return fmt.Errorf("%w: row %d is not an array (got %s)", ErrShape, r, kindOf(raw))
		}
		for j, val := range row {
			c := j + 1
			value, err := cellValue(val)
			if err != nil {
				return fmt.Errorf("%w: row %d column %d: %w", ErrShape, r, c, err)
			}
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return fmt.Errorf("%w: row %d column %d: %w", ErrShape, r, c, err)
			}
			if err := s.file.SetCellValue(s.name, cell, value); err != nil {
				return fmt.Errorf("%w: cell %s: %w", ErrShape, cell, err)
			}
			cs := defaultCellStyle()
			s.styles[cellRef{r, c}] = &cs
			s.cols = max(s.cols, c)
		}
		s.rows = r
	}
	return nil
}

func cellValue(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case nil, string, bool, float64, int, int64:
		return v, nil
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
		return n.String(), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", kindOf(v))
	}
}

// flushStyles renders every accumulated cell style into the workbook. Cells
// are visited in row-major order so style IDs are assigned deterministically.
func (s *Sheet) flushStyles() error {
	refs := slices.SortedFunc(maps.Keys(s.styles), func(a, b cellRef) int {
		return cmp.Or(cmp.Compare(a.row, b.row), cmp.Compare(a.col, b.col))
	})
	for _, ref := range refs {
		id, err := s.styleID(*s.styles[ref])
		if err != nil {
			return fmt.Errorf("%w: row %d column %d: %w", ErrStyleConfig, ref.row, ref.col, err)
		}
		cell, err := excelize.CoordinatesToCellName(ref.col, ref.row)
		if err != nil {
			return fmt.Errorf("%w: row %d column %d: %w", ErrStyleConfig, ref.row, ref.col, err)
		}
		if err := s.file.SetCellStyle(s.name, cell, cell, id); err != nil {
			return fmt.Errorf("%w: cell %s: %w", ErrStyleConfig, cell, err)
		}
	}
	return nil
}

func (s *Sheet) styleID(cs CellStyle) (int, error) {
	key := cs.fingerprint()
	if id, ok := s.styleCache[key]; ok {
		return id, nil
	}
	id, err := s.file.NewStyle(cs.excelizeStyle())
	if err != nil {
		return 0, err
	}
	s.styleCache[key] = id
	return id, nil
}
