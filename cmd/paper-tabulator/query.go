// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-tabulator/internal/store"
	"github.com/pdiddy/paper-tabulator/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search previously processed records",
	Long: `Query searches the SQLite index written by "process --index". With search
terms it runs a full-text match over title, abstract, and body text; without
terms it lists the most recently processed papers.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("output-dir", "output", "folder holding the index")
	queryCmd.Flags().Int("max-results", 20, "maximum number of results")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	s, err := store.Open(types.StoreConfig{
		OutputDir:  viper.GetString("output-dir"),
		MaxResults: viper.GetInt("max-results"),
	})
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.Search(cmd.Context(), strings.Join(args, " "), 0)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No matching records.")
		return nil
	}

	for _, rec := range records {
		year := rec.Year
		if len(year) > 4 {
			year = year[:4]
		}
		fmt.Printf("%s  %s", rec.ID, rec.Title)
		if year != "" {
			fmt.Printf(" (%s)", year)
		}
		fmt.Println()
		if len(rec.Authors) > 0 {
			fmt.Printf("    %s\n", strings.Join(rec.Authors, ", "))
		}
	}
	fmt.Printf("\n%d record(s)\n", len(records))
	return nil
}
