// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-tabulator/internal/batch"
	"github.com/pdiddy/paper-tabulator/internal/grobid"
	"github.com/pdiddy/paper-tabulator/internal/store"
	"github.com/pdiddy/paper-tabulator/pkg/types"
)

const (
	defaultEndpoint  = "http://localhost:8070"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "paper-tabulator/0.1"
)

var processCmd = &cobra.Command{
	Use:   "process [pdfs...]",
	Short: "Extract tabular records from scholarly PDFs",
	Long: `Process submits each PDF to the structuring service, extracts a flat
record from the returned markup, and writes all records to a CSV file.
With no arguments, every PDF in the input folder is processed in name
order. A document that fails is logged and skipped; the run continues.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("endpoint", defaultEndpoint, "structuring service base URL")
	processCmd.Flags().Duration("timeout", defaultTimeout, "per-request HTTP timeout")
	processCmd.Flags().String("input-dir", "papers", "folder holding source PDFs")
	processCmd.Flags().String("output-dir", "output", "folder for run artifacts")
	processCmd.Flags().StringP("output", "o", "", "CSV result path (default: <output-dir>/results.csv)")
	processCmd.Flags().Bool("save-tei", true, "keep the raw markup response on disk, one file per PDF")
	processCmd.Flags().Bool("index", false, "also store records in the searchable SQLite index")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := types.BatchConfig{
		Service: types.ServiceConfig{
			Endpoint:  viper.GetString("endpoint"),
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: defaultUserAgent,
		},
		InputDir:  viper.GetString("input-dir"),
		OutputDir: viper.GetString("output-dir"),
		SaveTEI:   viper.GetBool("save-tei"),
	}

	csvPath := viper.GetString("output")
	if csvPath == "" {
		csvPath = filepath.Join(cfg.OutputDir, "results.csv")
	}

	pdfPaths := args
	if len(pdfPaths) == 0 {
		var err error
		pdfPaths, err = batch.ListPDFs(cfg.InputDir)
		if err != nil {
			return err
		}
	}

	client := grobid.NewClient(cfg.Service)
	driver := batch.NewDriver(client, cfg)

	result := driver.ProcessBatch(cmd.Context(), pdfPaths, os.Stdout)

	if err := batch.WriteCSV(csvPath, result.Records); err != nil {
		return err
	}
	fmt.Printf("Wrote %d record(s) to %s\n", len(result.Records), csvPath)

	if viper.GetBool("index") && len(result.Records) > 0 {
		s, err := store.Open(types.StoreConfig{OutputDir: cfg.OutputDir})
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.PutAll(cmd.Context(), result.Records); err != nil {
			return err
		}
		fmt.Printf("Indexed %d record(s)\n", len(result.Records))
	}

	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed processing", result.Failed)
	}
	return nil
}
