// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration structs and the record model shared
// across pipeline stages.
package types

import "time"

// ServiceConfig holds the connection settings for the structuring service.
type ServiceConfig struct {
	// Endpoint is the base URL of the structuring service
	// (e.g. "http://localhost:8070").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-tabulator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BatchConfig holds settings for a batch processing run.
type BatchConfig struct {
	Service ServiceConfig `json:"service" yaml:"service"`

	// InputDir is the folder holding source PDFs.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the folder for run artifacts (contains tei/, metadata/,
	// index/ and the CSV result file).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// SaveTEI controls whether the raw service response is kept on disk
	// next to the results, one file per source document.
	SaveTEI bool `json:"save_tei" yaml:"save_tei"`
}

// FetchConfig holds settings for downloading PDFs into the input folder.
type FetchConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with download requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// InputDir is the folder PDFs are downloaded into.
	InputDir string `json:"input_dir" yaml:"input_dir"`
}

// StoreConfig holds settings for the record index.
type StoreConfig struct {
	// OutputDir is the run output folder; the database lives under
	// OutputDir/index/.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
