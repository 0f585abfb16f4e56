// Package numerator provides domain contracts for document auto-numbering.
package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Guarantees sequential numbers without gaps.
	// Slower, suitable for invoices and accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if application restarts.
	// Suitable for internal documents.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration for one document type.
type Config struct {
	// Prefix added to all numbers (e.g. "INV", "QUO")
	Prefix string

	// Separator between the prefix, date stamp and counter.
	// Empty for compact formats like QUO001.
	Separator string

	// IncludeDate adds a YYYYMMDD stamp to the number (e.g. PO-20240101-001)
	IncludeDate bool

	// PadWidth is the zero-padded counter width (default 4)
	PadWidth int

	// ResetPeriod: "day", "month", "year", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults: PREFIX-0001, never reset.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		Separator:   "-",
		PadWidth:    4,
		ResetPeriod: "never",
	}
}

// DatedConfig returns a date-stamped config: PREFIX-YYYYMMDD-0001, daily reset.
func DatedConfig(prefix string, padWidth int) Config {
	return Config{
		Prefix:      prefix,
		Separator:   "-",
		IncludeDate: true,
		PadWidth:    padWidth,
		ResetPeriod: "day",
	}
}

// CompactConfig returns a config without separator: PREFIX001, never reset.
func CompactConfig(prefix string, padWidth int) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    padWidth,
		ResetPeriod: "never",
	}
}
