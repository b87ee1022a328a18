package fcs

import (
	"github.com/flowfcs/fcs/internal/options"
	"github.com/flowfcs/fcs/keyword"
	"github.com/flowfcs/fcs/layout"
	"github.com/flowfcs/fcs/schema"
	"github.com/flowfcs/fcs/segment"
	"github.com/flowfcs/fcs/validated"
)

// OffsetConfig bundles the per-segment HEADER/TEXT offset-reconciliation
// policy: a correction applied before the segment is built, plus the
// squish/truncate/negative-offset escape hatches for files that violate
// the 8-digit HEADER field convention.
type OffsetConfig struct {
	Correction      segment.Correction
	SquishOffsets   bool // silently collapse begin>end to the empty segment
	TruncateOffsets bool // clip an offset exceeding MaxHeaderOffset instead of failing
	AllowNegative   bool
}

// TextConfig bundles every TEXT-stage policy flag. Supplemental TEXT's own
// policy (ignore it entirely, tolerate it being missing, its own
// delimiter, duplicate keys) lives on Key, since keyword.Scan and
// keyword.ScanSupplemental already take a single keyword.Config.
type TextConfig struct {
	Key     keyword.Config
	Offsets OffsetConfig

	AllowHeaderTextOffsetMismatch bool
	AllowMissingRequiredOffsets   bool
}

// DefaultTextConfig returns the permissive default, built on
// keyword.DefaultConfig.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		Key:                           keyword.DefaultConfig(),
		AllowHeaderTextOffsetMismatch: true,
		AllowMissingRequiredOffsets:   true,
	}
}

// HeaderConfig bundles the HEADER-stage policy flags.
type HeaderConfig struct {
	Offsets OffsetConfig
}

// ReaderConfig bundles the full read pipeline policy: HEADER, TEXT,
// schema promotion, and DATA layout, plus the terminal
// warnings-are-errors escalation.
type ReaderConfig struct {
	Header HeaderConfig
	Text   TextConfig
	Schema schema.Config
	Data   layout.DataConfig

	WarningsAreErrors bool
}

// DefaultReaderConfig returns the permissive default configuration.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Text: DefaultTextConfig(),
		Data: layout.DataConfig{
			AllowUnevenEventWidth: true,
			AllowTotMismatch:      true,
			AllowDataParMismatch:  true,
		},
	}
}

// ReaderOption configures a ReaderConfig via the shared functional-option
// helper.
type ReaderOption = options.Option[*ReaderConfig]

// NewReaderConfig builds a ReaderConfig starting from the permissive
// default and applying opts in order.
func NewReaderConfig(opts ...ReaderOption) (ReaderConfig, error) {
	cfg := DefaultReaderConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return ReaderConfig{}, err
	}
	return cfg, nil
}

// WithWarningsAsErrors promotes every warning surfaced anywhere in the
// pipeline into a terminal failure.
func WithWarningsAsErrors() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.WarningsAreErrors = true })
}

// WithAllowUnevenEventWidth tolerates a DATA segment whose length does
// not evenly divide by the derived event width.
func WithAllowUnevenEventWidth() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Data.AllowUnevenEventWidth = true })
}

// WithAllowTotMismatch tolerates a $TOT that disagrees with the
// segment-length-derived row count.
func WithAllowTotMismatch() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Data.AllowTotMismatch = true })
}

// WithUseLiteralDelims selects the literal (non-doubling) TEXT delimiter
// dialect instead of the default doubled-delimiter escaping dialect.
func WithUseLiteralDelims() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Text.Key.UseLiteralDelims = true })
}

// WithAllowPseudostandard permits residual, unrecognized '$'-prefixed
// keys instead of failing schema promotion.
func WithAllowPseudostandard() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.AllowPseudostandard = true })
}

// WithTimePattern sets the case-insensitive pattern used to identify the
// temporal ("time") measurement by its $PnN value.
func WithTimePattern(p *validated.Pattern) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.TimePattern = p })
}

// WithFixLogScaleOffsets converts a malformed $PnE=(decades,0) into
// (decades,1) with a warning instead of failing.
func WithFixLogScaleOffsets() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.FixLogScaleOffsets = true })
}

// WithIgnoreSupplementalText skips reading the supplemental TEXT segment
// entirely, even when $BEGINSTEXT/$ENDSTEXT name one.
func WithIgnoreSupplementalText() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Text.Key.IgnoreSupplementalText = true })
}

// WithDatePattern validates $DATE against layout (a time.Parse layout
// string), warning on mismatch instead of failing.
func WithDatePattern(layout string) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.DatePattern = layout })
}

// WithShortnamePrefix overrides the "$P" prefix a measurement without a
// stored $PnN is assigned ("{prefix}{1-based index}").
func WithShortnamePrefix(prefix string) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.ShortnamePrefix = prefix })
}

// WithNonstandardMeasurementPattern sets the "%n"-templated pattern used
// to recognize a non-standard key as belonging to a specific
// measurement; a remaining non-standard key matching no measurement's
// pattern draws a warning.
func WithNonstandardMeasurementPattern(tmpl string) ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.NonstandardMeasurementPattern = tmpl })
}

// WithIntegerByteOrdOverride permits an integer column's $BYTEORD width
// to disagree with its $PnB width instead of rejecting the file,
// resynthesizing a same-endianness order of the right width.
func WithIntegerByteOrdOverride() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.IntegerByteOrdOverride = true })
}

// WithDisallowRangeTruncation fails a column whose $PnR exceeds what its
// $PnB width can represent, instead of silently clipping the mask.
func WithDisallowRangeTruncation() ReaderOption {
	return options.NoError(func(c *ReaderConfig) { c.Schema.DisallowRangeTruncation = true })
}

// WriteConfig bundles the DATA writer's policy: the delimiter byte for
// TEXT serialization and whether a lossy cell-to-column cast fails the
// write or only warns.
type WriteConfig struct {
	Delimiter byte
	Loss      layout.LossPolicy
	Lossless  bool
}

// DefaultWriteConfig returns delimiter 0x0C (FF, the historical FCS
// default) with lossy casts permitted.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{Delimiter: 0x0C, Loss: layout.LossPolicy{AllowLossyConversions: true}}
}

// WriteOption configures a WriteConfig.
type WriteOption = options.Option[*WriteConfig]

// NewWriteConfig builds a WriteConfig starting from the default and
// applying opts in order.
func NewWriteConfig(opts ...WriteOption) (WriteConfig, error) {
	cfg := DefaultWriteConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return WriteConfig{}, err
	}
	return cfg, nil
}

// WithDelimiter overrides the TEXT delimiter byte the writer emits.
func WithDelimiter(d byte) WriteOption {
	return options.NoError(func(c *WriteConfig) { c.Delimiter = d })
}

// WithLossless fails the write outright if any cell requires a lossy
// cast to its declared column type, instead of warning.
func WithLossless() WriteOption {
	return options.NoError(func(c *WriteConfig) { c.Loss.AllowLossyConversions = false; c.Lossless = true })
}
