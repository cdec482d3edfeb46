// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-tabulator/internal/fetch"
	"github.com/pdiddy/paper-tabulator/pkg/types"
)

const defaultDelay = 1 * time.Second

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Download PDFs into the input folder",
	Long: `Fetch downloads PDF files from direct URLs into the input folder so a
subsequent process run picks them up. Existing files are skipped.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", defaultTimeout, "per-request HTTP timeout")
	fetchCmd.Flags().Duration("delay", defaultDelay, "delay between consecutive downloads")
	fetchCmd.Flags().String("input-dir", "papers", "folder PDFs are downloaded into")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PDF URLs")
	}

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := types.FetchConfig{
		Timeout:       viper.GetDuration("timeout"),
		UserAgent:     defaultUserAgent,
		DownloadDelay: viper.GetDuration("delay"),
		InputDir:      viper.GetString("input-dir"),
	}

	client := &http.Client{Timeout: cfg.Timeout}
	result := fetch.FetchBatch(client, args, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d download(s) failed", result.Failed)
	}
	return nil
}
