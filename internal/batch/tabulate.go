// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-tabulator/pkg/types"
)

// WriteCSV writes the records to a CSV file at path, one row per record,
// one column per field. The header row is always written, so a run with
// zero successful documents still produces a valid, header-only file.
func WriteCSV(path string, records []types.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(types.RecordHeader()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return fmt.Errorf("writing row for %s: %w", rec.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// writeYAML marshals v to a YAML file at path.
func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
