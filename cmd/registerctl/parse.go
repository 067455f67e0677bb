package main

import (
	"fmt"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	corporate "github.com/konradh/hpi-ii-project-2022"
	"github.com/konradh/hpi-ii-project-2022/core/pipeline"
	"github.com/konradh/hpi-ii-project-2022/model"
)

var nerScan bool

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Replay the raw event log into companies, persons and roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		register, err := openCorporate()
		if err != nil {
			return err
		}
		defer register.Close()

		total, err := register.RawEvents.SelectRawEventCount()
		if err != nil {
			return err
		}
		bar := progressbar.New(int(total))

		opts := corporate.ExtractionOptions{
			Workers: v.GetInt("workers"),
			Progress: func(events int) {
				bar.Add(events)
			},
		}
		if nerScan {
			opts.MentionCounter, err = pipeline.DefaultPersonMentionCounter()
			if err != nil {
				return err
			}
		}

		report, err := register.RunExtraction(cmd.Context(), opts)
		bar.Finish()
		fmt.Println()
		if err != nil {
			return err
		}

		fmt.Printf("companies: %d (failed: %d)\n", report.Companies, report.Failed)
		if nerScan {
			fmt.Printf("model person mentions: %d\n", report.ModelMentions)
		}
		fmt.Printf("events: %d, unmatched preambles: %d, dropped person entries: %d\n",
			report.Stats.Events, report.Stats.UnmatchedPreambles, report.Stats.DroppedEntries)
		for _, kind := range []model.RoleKind{
			model.RoleManager, model.RoleOwner, model.RoleBoardMember, model.RoleChairman,
			model.RoleLiquidator, model.RoleSoleProxy, model.RoleProxy,
		} {
			if count := report.Stats.RoleEvents[kind]; count > 0 {
				fmt.Printf("  %s: %d\n", kind, count)
			}
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&nerScan, "ner", false,
		"also count person mentions with the NER model (downloads the model on first use)")
	rootCmd.AddCommand(parseCmd)
}
