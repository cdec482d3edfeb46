// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-tabulator CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paper-tabulator CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-tabulator",
	Short: "Convert scholarly PDFs into tabular datasets",
	Long: `paper-tabulator turns scholarly PDF documents into row-oriented records.
Structure recovery is delegated to a GROBID structuring service: each PDF is
submitted over HTTP, the returned TEI markup is walked for title, authors,
abstract, sections and references, and the flattened records are written to
a CSV file.

Stages are subcommands: fetch downloads PDFs into the input folder, process
runs the extraction pipeline, query searches previously processed records.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Endpoint and folder settings may come from a .env file, the
		// way deployments alongside a GROBID container tend to do it.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-tabulator.yaml or ~/.config/paper-tabulator/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-tabulator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-tabulator"))
		}
	}

	viper.SetEnvPrefix("PAPER_TABULATOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
