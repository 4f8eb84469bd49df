package arrayexcel

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxWidthColumn is the highest column index col_widths may address; columns
// are named by a single letter, A through Z.
const MaxWidthColumn = 26

func (s *Sheet) setDimensions(rowHeights, colWidths interface{}) error {
	if err := s.setRowHeights(rowHeights); err != nil {
		return err
	}
	return s.setColWidths(colWidths)
}

func (s *Sheet) setRowHeights(raw interface{}) error {
	heights, err := dimensionMap(raw, "row_heights")
	if err != nil {
		return err
	}
	for _, key := range sortedKeys(heights) {
		row, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return fmt.Errorf("%w: row %q is not an integer", ErrDimension, key)
		}
		height, ok := toFloat(heights[key])
		if !ok || height <= 0 {
			return fmt.Errorf("%w: row %d height %v is not a positive number", ErrDimension, row, heights[key])
		}
		if err := s.file.SetRowHeight(s.name, row, height); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrDimension, row, err)
		}
	}
	return nil
}

func (s *Sheet) setColWidths(raw interface{}) error {
	widths, err := dimensionMap(raw, "col_widths")
	if err != nil {
		return err
	}
	for _, key := range sortedKeys(widths) {
		col, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return fmt.Errorf("%w: column %q is not an integer", ErrDimension, key)
		}
		if col < 1 || col > s.maxWidthColumn {
			return fmt.Errorf("%w: column %d is outside 1-%d", ErrDimension, col, s.maxWidthColumn)
		}
		width, ok := toFloat(widths[key])
		if !ok || width <= 0 {
			return fmt.Errorf("%w: column %d width %v is not a positive number", ErrDimension, col, widths[key])
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return fmt.Errorf("%w: column %d: %w", ErrDimension, col, err)
		}
		if err := s.file.SetColWidth(s.name, name, name, width); err != nil {
			return fmt.Errorf("%w: column %d: %w", ErrDimension, col, err)
		}
	}
	return nil
}

func dimensionMap(raw interface{}, field string) (map[string]interface{}, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object, got %s", ErrDimension, field, kindOf(raw))
	}
	return m, nil
}

// sortedKeys orders keys numerically where possible so dimensions are applied
// in a stable order.
func sortedKeys(m map[string]interface{}) []string {
	return slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		ai, aerr := strconv.Atoi(strings.TrimSpace(a))
		bi, berr := strconv.Atoi(strings.TrimSpace(b))
		if aerr == nil && berr == nil && ai != bi {
			return ai - bi
		}
		return strings.Compare(a, b)
	})
}
