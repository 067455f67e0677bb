package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a crawler CSV export into the raw event table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		corporate, err := openCorporate()
		if err != nil {
			return err
		}
		defer corporate.Close()

		total, err := countLines(args[0])
		if err != nil {
			return err
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer file.Close()

		bar := progressbar.New(total)
		imported, err := corporate.ImportRawEventsCSV(file, func(int) {
			bar.Add(1)
		})
		bar.Finish()
		fmt.Println()
		if err != nil {
			return err
		}

		fmt.Printf("imported %d raw events\n", imported)
		return nil
	},
}

func countLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open export: %w", err)
	}
	defer file.Close()

	lines := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines++
	}
	return lines, scanner.Err()
}

func init() {
	rootCmd.AddCommand(importCmd)
}
