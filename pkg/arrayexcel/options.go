package arrayexcel

import (
	"github.com/rs/zerolog"
)

// Option configures a Converter.
type Option func(*config)

type config struct {
	logger         zerolog.Logger
	maxWidthColumn int
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		logger:         zerolog.Nop(),
		maxWidthColumn: MaxWidthColumn,
	}
}

// WithLogger sets the logger used for per-stage debug output.
// Default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMaxWidthColumn lowers the highest column index accepted by col_widths.
// Values outside 1..MaxWidthColumn are ignored.
func WithMaxWidthColumn(n int) Option {
	return func(c *config) {
		if n > 0 && n <= MaxWidthColumn {
			c.maxWidthColumn = n
		}
	}
}
