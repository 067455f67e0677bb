package match

import "regexp"

var postalCode = regexp.MustCompile(`[0-9]{5}`)

// Company is one register company offered to the join.
type Company struct {
	ID      int64
	Name    string
	Address string
}

// LEIRecord is one external legal entity record.
type LEIRecord struct {
	LEI        string
	Name       string
	PostalCode string
}

// Match links a register company to an LEI.
type Match struct {
	CompanyID int64
	LEI       string
}

// JoinStats counts what the join skipped and compared.
type JoinStats struct {
	CompaniesSkipped int
	RecordsSkipped   int
	Comparisons      int
}

// ExtractPostalCode finds the first 5-digit postal code in an address.
func ExtractPostalCode(address string) (string, bool) {
	code := postalCode.FindString(address)
	return code, code != ""
}

// Join matches companies to LEI records. Candidates are blocked by postal
// code, within a block two names match when their weighted edit distance is
// zero, i.e. they differ at most in punctuation and spacing. Records and
// companies without a recognizable postal code are skipped and counted.
func Join(companies []Company, records []LEIRecord) ([]Match, JoinStats) {
	stats := JoinStats{}

	byPostal := make(map[string][]LEIRecord)
	for _, record := range records {
		code, ok := ExtractPostalCode(record.PostalCode)
		if !ok {
			stats.RecordsSkipped++
			continue
		}
		byPostal[code] = append(byPostal[code], record)
	}

	var matches []Match
	for _, company := range companies {
		code, ok := ExtractPostalCode(company.Address)
		if !ok || company.Name == "" {
			stats.CompaniesSkipped++
			continue
		}
		for _, record := range byPostal[code] {
			stats.Comparisons++
			if WeightedEditDistance(company.Name, record.Name) == 0 {
				matches = append(matches, Match{CompanyID: company.ID, LEI: record.LEI})
			}
		}
	}
	return matches, stats
}
