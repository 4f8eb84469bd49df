package arrayexcel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellRange is an inclusive rectangle of cells, 1-based.
type CellRange struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// CellNames returns the top-left and bottom-right cell addresses, e.g. "A1"
// and "B2".
func (r CellRange) CellNames() (string, string, error) {
	topLeft, err := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if err != nil {
		return "", "", err
	}
	bottomRight, err := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	if err != nil {
		return "", "", err
	}
	return topLeft, bottomRight, nil
}

// String renders the range as a reference such as "A1:B2".
func (r CellRange) String() string {
	topLeft, bottomRight, err := r.CellNames()
	if err != nil {
		return fmt.Sprintf("R%dC%d:R%dC%d", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
	}
	return topLeft + ":" + bottomRight
}

func parseCellRange(raw interface{}) (CellRange, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return CellRange{}, fmt.Errorf("must be an object, got %s", kindOf(raw))
	}
	var (
		rng CellRange
		err error
	)
	if rng.StartRow, err = requireInt(m, "start_row"); err != nil {
		return CellRange{}, err
	}
	if rng.StartCol, err = requireInt(m, "start_col"); err != nil {
		return CellRange{}, err
	}
	if rng.EndRow, err = requireInt(m, "end_row"); err != nil {
		return CellRange{}, err
	}
	if rng.EndCol, err = requireInt(m, "end_col"); err != nil {
		return CellRange{}, err
	}
	return rng, nil
}

// mergeCells merges each range in order. Start/end ordering and overlaps are
// left to excelize.
func (s *Sheet) mergeCells(raw interface{}) error {
	if raw == nil {
		return nil
	}
	entries, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("%w: merges must be an array, got %s", ErrMerge, kindOf(raw))
	}
	for i, entry := range entries {
		rng, err := parseCellRange(entry)
		if err != nil {
			return fmt.Errorf("%w: merge %d: %w", ErrMerge, i+1, err)
		}
		topLeft, bottomRight, err := rng.CellNames()
		if err != nil {
			return fmt.Errorf("%w: merge %d: %w", ErrMerge, i+1, err)
		}
		if err := s.file.MergeCell(s.name, topLeft, bottomRight); err != nil {
			return fmt.Errorf("%w: merge %d (%s:%s): %w", ErrMerge, i+1, topLeft, bottomRight, err)
		}
		if err := s.clearAbsorbed(rng); err != nil {
			return fmt.Errorf("%w: merge %d (%s:%s): %w", ErrMerge, i+1, topLeft, bottomRight, err)
		}
	}
	return nil
}

// clearAbsorbed blanks every written cell of the range except the top-left
// one, so the merged cell shows only the top-left value.
func (s *Sheet) clearAbsorbed(rng CellRange) error {
	top, bottom := min(rng.StartRow, rng.EndRow), max(rng.StartRow, rng.EndRow)
	left, right := min(rng.StartCol, rng.EndCol), max(rng.StartCol, rng.EndCol)
	for r := top; r <= min(bottom, s.rows); r++ {
		for c := left; c <= min(right, s.cols); c++ {
			if r == top && c == left {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if err := s.file.SetCellValue(s.name, cell, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
