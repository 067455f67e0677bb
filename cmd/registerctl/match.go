package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/konradh/hpi-ii-project-2022/core/match"
)

var matchCmd = &cobra.Command{
	Use:   "match <lei-csv>",
	Short: "Match stored companies against an LEI record export",
	Long: `Match stored companies against a legal entity identifier export.
The CSV columns are LEI, legal name and postal code; a header row is skipped.
Candidates are blocked by postal code and accepted when the names differ at
most in punctuation and spacing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readLEIRecords(args[0])
		if err != nil {
			return err
		}

		register, err := openCorporate()
		if err != nil {
			return err
		}
		defer register.Close()

		matches, stats, err := register.MatchLEIRecords(records)
		if err != nil {
			return err
		}

		for _, m := range matches {
			fmt.Printf("%d,%s\n", m.CompanyID, m.LEI)
		}
		fmt.Fprintf(os.Stderr, "matches: %d, comparisons: %d, companies without postal code: %d, records without postal code: %d\n",
			len(matches), stats.Comparisons, stats.CompaniesSkipped, stats.RecordsSkipped)
		return nil
	},
}

func readLEIRecords(path string) ([]match.LEIRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open LEI export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 3

	var records []match.LEIRecord
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read LEI record: %w", err)
		}
		if record[0] == "lei" || record[0] == "LEI" {
			continue
		}
		records = append(records, match.LEIRecord{
			LEI:        record[0],
			Name:       record[1],
			PostalCode: record[2],
		})
	}
	return records, nil
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
