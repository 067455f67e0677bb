package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Collapse duplicate person records across companies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		register, err := openCorporate()
		if err != nil {
			return err
		}
		defer register.Close()

		result, err := register.RunDeduplication(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("invalid birth dates cleared: %d\n", result.InvalidDatesCleared)
		fmt.Printf("exact duplicates merged: %d\n", result.ExactMerged)
		fmt.Printf("fuzzy pairs: %d, clusters: %d, persons merged: %d\n",
			result.FuzzyPairs, result.Clusters, result.PersonsMerged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dedupCmd)
}
