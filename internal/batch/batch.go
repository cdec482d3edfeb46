// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives the extraction pipeline: it enumerates source PDFs,
// submits each to the structuring service, extracts a flat record from the
// returned markup, and accumulates the records for tabular export.
//
// Processing is strictly sequential, one document at a time, and the
// output preserves input order. A failed document is logged and skipped;
// it never stops the run and never produces a partial row.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/paper-tabulator/internal/pdfcheck"
	"github.com/pdiddy/paper-tabulator/internal/tei"
	"github.com/pdiddy/paper-tabulator/pkg/types"
)

const (
	teiDir      = "tei"
	metadataDir = "metadata"
	teiSuffix   = ".grobid.tei.xml"
)

// Submitter sends one source document to the structuring service and
// returns the raw markup. grobid.Client is the production implementation.
type Submitter interface {
	ProcessFulltext(ctx context.Context, pdfPath string) (string, error)
}

// Driver processes source documents one at a time.
type Driver struct {
	client Submitter
	cfg    types.BatchConfig

	// validate checks a source PDF and returns its page count. Defaults
	// to pdfcheck.PageCount; tests substitute a stub.
	validate func(path string) (int, error)
}

// NewDriver creates a Driver for the given client and configuration.
func NewDriver(client Submitter, cfg types.BatchConfig) *Driver {
	return &Driver{
		client:   client,
		cfg:      cfg,
		validate: pdfcheck.PageCount,
	}
}

// BatchResult holds the outcome of a batch run. Records preserves the
// input order of the documents that produced them.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int
	Records   []types.Record
}

// Total returns the total number of documents handled.
func (r BatchResult) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ProcessOne runs the full pipeline for a single PDF: validate, submit,
// parse, extract. When the TEI side file for the document already exists
// the service call is skipped and the side file is re-parsed instead;
// the reused return value reports that case.
//
// Errors keep their concrete types (grobid transport/service errors,
// tei format errors) so the caller's log lines stay actionable.
func (d *Driver) ProcessOne(ctx context.Context, pdfPath string) (rec *types.Record, reused bool, err error) {
	base := baseName(pdfPath)
	teiPath := filepath.Join(d.cfg.OutputDir, teiDir, base+teiSuffix)

	var markup string
	var pages int

	if data, readErr := os.ReadFile(teiPath); readErr == nil {
		markup = string(data)
		reused = true
	} else {
		pages, err = d.validate(pdfPath)
		if err != nil {
			return nil, false, err
		}

		markup, err = d.client.ProcessFulltext(ctx, pdfPath)
		if err != nil {
			return nil, false, err
		}

		if d.cfg.SaveTEI {
			if err := writeSideFile(teiPath, markup); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save markup for %s: %v\n", base, err)
			}
		}
	}

	doc, err := tei.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", base, err)
	}

	record := tei.Extract(doc)
	record.ID = base
	record.Pages = pages

	if err := d.writeMetadata(record); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write metadata for %s: %v\n", base, err)
	}

	return &record, reused, nil
}

// ProcessBatch runs ProcessOne over the given PDFs in order, printing
// per-document status to w and returning the accumulated records. A
// failure is logged and the run continues with the next document.
func (d *Driver) ProcessBatch(ctx context.Context, pdfPaths []string, w io.Writer) BatchResult {
	var result BatchResult

	for _, path := range pdfPaths {
		select {
		case <-ctx.Done():
			fmt.Fprintf(w, "cancelled: %d document(s) not processed\n", len(pdfPaths)-result.Total())
			return result
		default:
		}

		rec, reused, err := d.ProcessOne(ctx, path)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", baseName(path), err)
			result.Failed++
			continue
		}
		if reused {
			fmt.Fprintf(w, "reused:    %s (markup already on disk)\n", rec.ID)
			result.Skipped++
		} else {
			fmt.Fprintf(w, "processed: %s (%d reference(s))\n", rec.ID, rec.ReferenceCount)
			result.Processed++
		}
		result.Records = append(result.Records, *rec)
	}

	fmt.Fprintf(w, "\nBatch summary: %d processed, %d reused, %d failed (total: %d)\n",
		result.Processed, result.Skipped, result.Failed, result.Total())
	return result
}

// ListPDFs returns the PDF files in dir, sorted by name. A directory with
// no PDFs yields an empty slice, not an error.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// writeSideFile persists the raw markup response next to the results,
// creating the directory on first use.
func writeSideFile(path, markup string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(markup), 0o644)
}

// writeMetadata writes the record as a YAML side file for auditability.
func (d *Driver) writeMetadata(rec types.Record) error {
	dir := filepath.Join(d.cfg.OutputDir, metadataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return writeYAML(filepath.Join(dir, rec.ID+".yaml"), rec)
}

// baseName returns the source document's file name without extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
