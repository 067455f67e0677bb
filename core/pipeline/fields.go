package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/konradh/hpi-ii-project-2022/model"
)

var purposeClause = regexp.MustCompile(`[Gg]egenstand: (.+?)\.`)

// DefaultPurposeExtractor captures the business purpose clause.
func DefaultPurposeExtractor() PurposeExtractFunc {
	return func(information string) (string, bool) {
		if m := purposeClause.FindStringSubmatch(information); m != nil {
			return m[1], true
		}
		return "", false
	}
}

// DefaultCapitalExtractor captures the registered capital clause. The amount
// format is locale dependent, so the separators come from the config instead
// of the process locale. A missing currency falls back to the configured
// default.
func DefaultCapitalExtractor(config model.ParserConfig) CapitalExtractFunc {
	capitalClause := regexp.MustCompile(fmt.Sprintf(
		`[Kk]apital: (\d{1,3}(?:%s\d{3})*(?:%s\d{2})?)(?: ([A-Z]+))?`,
		regexp.QuoteMeta(config.ThousandsSeparator),
		regexp.QuoteMeta(config.DecimalSeparator),
	))
	return func(information string) (*Capital, bool) {
		m := capitalClause.FindStringSubmatch(information)
		if m == nil {
			return nil, false
		}
		number := strings.ReplaceAll(m[1], config.ThousandsSeparator, "")
		number = strings.ReplaceAll(number, config.DecimalSeparator, ".")
		amount, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return nil, false
		}
		currency := m[2]
		if currency == "" {
			currency = config.DefaultCurrency
		}
		return &Capital{Amount: amount, Currency: currency}, true
	}
}
