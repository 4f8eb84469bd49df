package arrayexcel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	horizontalAlignments = []string{"left", "center", "right"}
	verticalAlignments   = []string{"top", "center", "bottom"}
	hexColor             = regexp.MustCompile(`^[0-9A-F]{6}$`)
)

// MaxRegionCells bounds the number of cells a single style region may cover.
const MaxRegionCells = 1 << 20

// StyleRegion applies a StyleSpec to an inclusive rectangle of cells.
type StyleRegion struct {
	CellRange
	Style StyleSpec
}

// StyleSpec holds the style keys of one cell_styles entry. A nil field means
// the key was not supplied.
type StyleSpec struct {
	Alignment *string
	Vertical  *string
	FontSize  *float64
	Bold      *bool
	BgColor   *string
	Border    *bool
	WrapText  *bool
}

// applyStyles overlays cell_styles entries in order, then renders every
// cell's resolved style into the workbook.
func (s *Sheet) applyStyles(raw interface{}) error {
	if raw != nil {
		entries, ok := raw.([]interface{})
		if !ok {
			return fmt.Errorf("%w: cell_styles must be an array, got %s", ErrStyleConfig, kindOf(raw))
		}
		for i, entry := range entries {
			region, err := parseStyleRegion(entry)
			if err != nil {
				return fmt.Errorf("%w: entry %d: %w", ErrStyleConfig, i+1, err)
			}
			s.applyRegion(region)
		}
	}
	return s.flushStyles()
}

func (s *Sheet) applyRegion(region StyleRegion) {
	for r := region.StartRow; r <= region.EndRow; r++ {
		for c := region.StartCol; c <= region.EndCol; c++ {
			region.Style.apply(s.cellStyle(r, c))
		}
	}
}

// apply overlays the spec onto a cell. Each category changes only when one of
// its keys was supplied. A touched alignment is rewritten whole, with vertical
// center and wrap on for the keys left out; font fields are merged into the
// current font.
func (spec StyleSpec) apply(cs *CellStyle) {
	if spec.touchesAlignment() {
		al := &Alignment{Vertical: "center", WrapText: true}
		if spec.Alignment != nil {
			al.Horizontal = *spec.Alignment
		}
		if spec.Vertical != nil {
			al.Vertical = *spec.Vertical
		}
		if spec.WrapText != nil {
			al.WrapText = *spec.WrapText
		}
		cs.Alignment = al
	}

	bold := spec.Bold != nil && *spec.Bold
	if spec.FontSize != nil || bold {
		font := Font{}
		if cs.Font != nil {
			font = *cs.Font
		}
		if spec.FontSize != nil {
			font.Size = *spec.FontSize
		}
		if bold {
			font.Bold = true
		}
		cs.Font = &font
	}

	if spec.BgColor != nil {
		cs.Fill = &Fill{Color: *spec.BgColor}
	}

	if spec.Border != nil {
		border := *spec.Border
		cs.Border = &border
	}
}

func (spec StyleSpec) touchesAlignment() bool {
	return spec.Alignment != nil || spec.Vertical != nil || spec.WrapText != nil
}

func parseStyleRegion(raw interface{}) (StyleRegion, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return StyleRegion{}, fmt.Errorf("must be an object, got %s", kindOf(raw))
	}

	startRow, err := requireInt(m, "start_row")
	if err != nil {
		return StyleRegion{}, err
	}
	startCol, err := requireInt(m, "start_col")
	if err != nil {
		return StyleRegion{}, err
	}
	endRow, present, err := readInt(m, "end_row")
	if err != nil {
		return StyleRegion{}, err
	}
	if !present {
		endRow = startRow
	}
	endCol, present, err := readInt(m, "end_col")
	if err != nil {
		return StyleRegion{}, err
	}
	if !present {
		endCol = startCol
	}

	if startRow < 1 || startCol < 1 {
		return StyleRegion{}, fmt.Errorf("start_row and start_col must be positive, got (%d, %d)", startRow, startCol)
	}
	if endRow > excelize.TotalRows || endCol > excelize.MaxColumns {
		return StyleRegion{}, fmt.Errorf("range ends at (%d, %d), beyond the sheet limit", endRow, endCol)
	}
	if area := max(endRow-startRow+1, 0) * max(endCol-startCol+1, 0); area > MaxRegionCells {
		return StyleRegion{}, fmt.Errorf("range covers %d cells, more than %d", area, MaxRegionCells)
	}

	styleRaw, ok := m["style"]
	if !ok || styleRaw == nil {
		return StyleRegion{}, fmt.Errorf("missing style")
	}
	styleMap, ok := styleRaw.(map[string]interface{})
	if !ok {
		return StyleRegion{}, fmt.Errorf("style must be an object, got %s", kindOf(styleRaw))
	}
	spec, err := parseStyleSpec(styleMap)
	if err != nil {
		return StyleRegion{}, err
	}

	return StyleRegion{
		CellRange: CellRange{StartRow: startRow, StartCol: startCol, EndRow: endRow, EndCol: endCol},
		Style:     spec,
	}, nil
}

func parseStyleSpec(m map[string]interface{}) (StyleSpec, error) {
	var (
		spec StyleSpec
		err  error
	)
	if spec.Alignment, err = readEnum(m, "alignment", horizontalAlignments); err != nil {
		return spec, err
	}
	if spec.Vertical, err = readEnum(m, "vertical", verticalAlignments); err != nil {
		return spec, err
	}
	if spec.FontSize, err = readFontSize(m); err != nil {
		return spec, err
	}
	if spec.Bold, err = readBool(m, "bold"); err != nil {
		return spec, err
	}
	if spec.WrapText, err = readBool(m, "wrap_text"); err != nil {
		return spec, err
	}
	if spec.BgColor, err = readColor(m, "bgcolor"); err != nil {
		return spec, err
	}
	// Presence alone decides whether the border is touched; null clears it.
	if raw, ok := m["border"]; ok {
		border := false
		if raw != nil {
			b, isBool := raw.(bool)
			if !isBool {
				return spec, fmt.Errorf("border must be a boolean, got %s", kindOf(raw))
			}
			border = b
		}
		spec.Border = &border
	}
	return spec, nil
}

func readEnum(m map[string]interface{}, key string, allowed []string) (*string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %s", key, kindOf(raw))
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	for _, a := range allowed {
		if s == a {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%s %q is not one of %s", key, s, strings.Join(allowed, ", "))
}

func readBool(m map[string]interface{}, key string) (*bool, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean, got %s", key, kindOf(raw))
	}
	return &b, nil
}

func readFontSize(m map[string]interface{}) (*float64, error) {
	raw, ok := m["font_size"]
	if !ok || raw == nil {
		return nil, nil
	}
	size, ok := toFloat(raw)
	if !ok {
		return nil, fmt.Errorf("font_size must be a number, got %s", kindOf(raw))
	}
	if size < 1 || size > excelize.MaxFontSize {
		return nil, fmt.Errorf("font_size %g must be between 1 and %d", size, excelize.MaxFontSize)
	}
	return &size, nil
}

func readColor(m map[string]interface{}, key string) (*string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %s", key, kindOf(raw))
	}
	s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if s == "" {
		return nil, nil
	}
	if !hexColor.MatchString(s) {
		return nil, fmt.Errorf("%s %q is not a 6-digit hex RGB color", key, raw)
	}
	return &s, nil
}
