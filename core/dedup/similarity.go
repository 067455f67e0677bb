package dedup

import (
	"strings"

	"github.com/adrg/strutil/metrics"
	"github.com/konradh/hpi-ii-project-2022/model"
)

// Register clerks write the same name with umlauts or with their ASCII
// transcriptions. Folding both sides onto the transcription keeps
// "Müller"/"Mueller" above the similarity floors.
var umlautReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss",
)

// Matcher decides whether two person records are the same natural person.
// Not safe for concurrent use, each worker gets its own.
type Matcher struct {
	config      model.MatcherConfig
	jaroWinkler *metrics.JaroWinkler
	levenshtein *metrics.Levenshtein
}

// NewMatcher creates a matcher with the thresholds from config.
func NewMatcher(config model.MatcherConfig) *Matcher {
	return &Matcher{
		config:      config,
		jaroWinkler: metrics.NewJaroWinkler(),
		levenshtein: metrics.NewLevenshtein(),
	}
}

// Similar accepts a pair when the birth dates are at most one edit apart,
// first names are either similar or one contains the other, and last name
// and birth place both clear their similarity floors. Callers must only
// pass persons with birth date and place populated.
func (m *Matcher) Similar(a, b *model.Person) bool {
	if m.levenshtein.Distance(a.BirthDate, b.BirthDate) > m.config.MaxBirthDateDistance {
		return false
	}

	firstA := umlautReplacer.Replace(a.FirstName)
	firstB := umlautReplacer.Replace(b.FirstName)
	if m.jaroWinkler.Compare(firstA, firstB) < m.config.FirstNameSimilarity &&
		!strings.Contains(firstA, firstB) && !strings.Contains(firstB, firstA) {
		return false
	}

	if m.jaroWinkler.Compare(umlautReplacer.Replace(a.LastName), umlautReplacer.Replace(b.LastName)) < m.config.LastNameSimilarity {
		return false
	}

	if m.jaroWinkler.Compare(umlautReplacer.Replace(a.BirthPlace), umlautReplacer.Replace(b.BirthPlace)) < m.config.BirthPlaceSimilarity {
		return false
	}

	return true
}
