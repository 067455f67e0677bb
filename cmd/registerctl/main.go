package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	corporate "github.com/konradh/hpi-ii-project-2022"
	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
)

var v *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "registerctl",
	Short: "Batch tooling for the commercial register store",
	Long: `registerctl drives the register batch pipeline: load crawled filings
into the raw event table, replay them into structured companies, persons and
roles, and collapse duplicate person records across companies.`,
	SilenceUsage: true,
}

func init() {
	v = viper.New()

	// Environment variables take precedence over defaults,
	// e.g. REGISTER_WORKERS, REGISTER_MIN_BIRTH_YEAR.
	v.SetEnvPrefix("REGISTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("workers", 4)
	v.SetDefault("validate-birth-dates", false)
	v.SetDefault("min-birth-year", 1800)
}

// openCorporate connects using the DB_* envs, .env file values included.
func openCorporate() (*corporate.Corporate, error) {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, fmt.Errorf("database configuration: %w", err)
	}

	parserConfig := model.NewParserConfig()
	parserConfig.ValidateBirthDates = v.GetBool("validate-birth-dates")

	matcherConfig := model.NewMatcherConfig()
	matcherConfig.MinBirthYear = v.GetInt("min-birth-year")
	matcherConfig.Workers = v.GetInt("workers")

	return corporate.NewCorporate(dbConfig, parserConfig, matcherConfig)
}

func main() {
	// A local .env is optional, envs from the shell win.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
