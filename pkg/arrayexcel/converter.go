// Package arrayexcel converts a JSON two-dimensional array into a single-sheet
// xlsx workbook with optional column widths, row heights, merges and
// region-based cell styles.
package arrayexcel

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	// MIMEType is the content type of every produced workbook.
	MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// Filename is the name every produced workbook is delivered under.
	Filename = "output.xlsx"
)

// Attachment is a serialized workbook ready to hand back to the caller.
type Attachment struct {
	Blob     []byte
	MIMEType string
	Filename string
}

// Converter runs the conversion pipeline. It holds no per-call state and is
// safe for concurrent use.
type Converter struct {
	logger         zerolog.Logger
	maxWidthColumn int
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Converter{
		logger:         cfg.logger,
		maxWidthColumn: cfg.maxWidthColumn,
	}
}

// Convert parses dataJSON, builds the workbook and serializes it. The first
// failing stage aborts the conversion; the returned error is a *StageError.
func (c *Converter) Convert(ctx context.Context, dataJSON interface{}) (*Attachment, error) {
	req, err := Parse(dataJSON)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}

	sheet, err := c.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	defer sheet.Close()

	start := time.Now()
	blob, err := sheet.Bytes()
	if err != nil {
		return nil, &StageError{Stage: StageSerialize, Err: fmt.Errorf("%w: %w", ErrSerialize, err)}
	}
	c.logger.Debug().
		Str("stage", string(StageSerialize)).
		Int("bytes", len(blob)).
		Dur("took", time.Since(start)).
		Msg("stage finished")

	return &Attachment{
		Blob:     blob,
		MIMEType: MIMEType,
		Filename: Filename,
	}, nil
}

// Build runs every stage between parsing and serialization. The caller owns
// the returned sheet and must Close it.
func (c *Converter) Build(ctx context.Context, req *ConversionRequest) (*Sheet, error) {
	sheet := newSheet(c.maxWidthColumn)

	stages := []struct {
		stage Stage
		run   func() error
	}{
		{StageBuild, func() error { return sheet.writeRows(req.Data) }},
		{StageStyle, func() error { return sheet.applyStyles(req.CellStyles) }},
		{StageDimension, func() error { return sheet.setDimensions(req.RowHeights, req.ColWidths) }},
		{StageMerge, func() error { return sheet.mergeCells(req.Merges) }},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			sheet.Close()
			return nil, &StageError{Stage: st.stage, Err: err}
		}
		start := time.Now()
		if err := st.run(); err != nil {
			sheet.Close()
			c.logger.Debug().Str("stage", string(st.stage)).Err(err).Msg("stage failed")
			return nil, &StageError{Stage: st.stage, Err: err}
		}
		c.logger.Debug().
			Str("stage", string(st.stage)).
			Dur("took", time.Since(start)).
			Msg("stage finished")
	}
	return sheet, nil
}
