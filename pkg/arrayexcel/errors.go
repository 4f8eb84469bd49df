package arrayexcel

import (
	"errors"
	"fmt"
)

// Stage names one step of the conversion pipeline.
type Stage string

const (
	StageParse     Stage = "parse request"
	StageBuild     Stage = "build sheet"
	StageStyle     Stage = "apply cell styles"
	StageDimension Stage = "set dimensions"
	StageMerge     Stage = "merge cells"
	StageSerialize Stage = "serialize workbook"
)

// Failure kinds. Every error returned by Convert wraps exactly one of them.
var (
	ErrMissingInput = errors.New("missing data_json")
	ErrParse        = errors.New("failed to parse data_json")
	ErrShape        = errors.New("data must be a 2D array")
	ErrStyleConfig  = errors.New("invalid cell style")
	ErrDimension    = errors.New("invalid dimension")
	ErrMerge        = errors.New("invalid merge range")
	ErrSerialize    = errors.New("failed to serialize workbook")
)

// StageError records which pipeline stage aborted the conversion.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsInternal reports whether err is an unexpected failure rather than bad input.
func IsInternal(err error) bool {
	return errors.Is(err, ErrSerialize)
}
