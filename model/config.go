package model

// ParserConfig controls the locale dependent parts of the extraction
// pipeline. The defaults match German register filings.
type ParserConfig struct {
	// ThousandsSeparator and DecimalSeparator describe capital amounts as
	// written in filings, e.g. "1.234.567,89".
	ThousandsSeparator string
	DecimalSeparator   string
	// DefaultCurrency is assumed when a capital statement omits the unit.
	DefaultCurrency string
	// ValidateBirthDates rejects birth dates that are not real calendar
	// dates. Off by default, filings do contain impossible dates and the
	// raw value is still useful for matching.
	ValidateBirthDates bool
}

// NewParserConfig returns the German locale defaults.
func NewParserConfig() ParserConfig {
	return ParserConfig{
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
		DefaultCurrency:    "EUR",
	}
}

// MatcherConfig holds the thresholds of the person resolution stage.
type MatcherConfig struct {
	// Similarity floors for Jaro-Winkler on the three name/place fields.
	FirstNameSimilarity  float64
	LastNameSimilarity   float64
	BirthPlaceSimilarity float64
	// MaxBirthDateDistance is the Levenshtein tolerance on the raw birth
	// date strings, absorbing single digit typos.
	MaxBirthDateDistance int
	// MinBirthYear marks older birth dates as invalid before matching.
	MinBirthYear int
	// Workers bounds the parallelism of the blocking passes.
	Workers int
}

// NewMatcherConfig returns the tuned production thresholds.
func NewMatcherConfig() MatcherConfig {
	return MatcherConfig{
		FirstNameSimilarity:  0.94,
		LastNameSimilarity:   0.94,
		BirthPlaceSimilarity: 0.90,
		MaxBirthDateDistance: 1,
		MinBirthYear:         1800,
		Workers:              4,
	}
}
