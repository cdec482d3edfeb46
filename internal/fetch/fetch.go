// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads source PDFs into the input folder so a batch
// run can pick them up. Existing files are never re-downloaded.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-tabulator/pkg/types"
)

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the total number of URLs processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchOne downloads a single PDF URL into cfg.InputDir. If the target
// file already exists the download is skipped. The skipped return value
// reports that case.
func FetchOne(client *http.Client, rawURL string, cfg types.FetchConfig, w io.Writer) (pdfPath string, skipped bool, err error) {
	name, err := fileName(rawURL)
	if err != nil {
		return "", false, err
	}
	pdfPath = filepath.Join(cfg.InputDir, name)

	if _, err := os.Stat(pdfPath); err == nil {
		fmt.Fprintf(w, "skipped:     %s (already exists)\n", name)
		return pdfPath, true, nil
	}

	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating input directory %s: %w", cfg.InputDir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", name)
	if err := downloadFile(client, rawURL, pdfPath, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", name, err)
	}
	return pdfPath, false, nil
}

// FetchBatch processes multiple URLs, printing per-item status and
// returning a summary. It continues after individual failures and applies
// a delay between consecutive downloads.
func FetchBatch(client *http.Client, urls []string, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, rawURL := range urls {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		_, skipped, err := FetchOne(client, rawURL, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:      %s (%v)\n", rawURL, err)
			result.Failed++
			continue
		}
		if skipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// fileName derives the destination file name from the URL path, forcing
// a .pdf extension.
func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return "", fmt.Errorf("cannot derive a file name from %q", rawURL)
	}
	if !strings.EqualFold(path.Ext(base), ".pdf") {
		base += ".pdf"
	}
	return base, nil
}

// downloadFile fetches url to destPath using a temporary file so a
// partial download never lands under the final name.
func downloadFile(client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
