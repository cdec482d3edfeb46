// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grobid submits PDF documents to a GROBID structuring service and
// returns the TEI XML it produces.
package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-tabulator/internal/httputil"
	"github.com/pdiddy/paper-tabulator/pkg/types"
)

const (
	processPath = "/api/processFulltextDocument"
	alivePath   = "/api/isalive"

	// bodySnippetLen bounds how much of an error response body is kept
	// for log context.
	bodySnippetLen = 200
)

// Client sends source documents to a structuring service. One outbound
// request per ProcessFulltext call; callers decide whether to skip or
// abort on failure.
type Client struct {
	httpClient *http.Client
	cfg        types.ServiceConfig
}

// NewClient creates a Client for the given service configuration.
func NewClient(cfg types.ServiceConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// ProcessFulltext uploads the PDF at pdfPath and returns the raw TEI XML
// response as text. Failures are reported as *TransportError (service
// unreachable) or *ServiceError (non-2xx status); both carry the source
// filename. Transient busy signals (HTTP 503, 429) are absorbed by
// backoff inside the call and never produce a partial result.
func (c *Client) ProcessFulltext(ctx context.Context, pdfPath string) (string, error) {
	source := filepath.Base(pdfPath)

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pdfPath, err)
	}

	body, contentType, err := multipartBody(source, pdf)
	if err != nil {
		return "", fmt.Errorf("building upload for %s: %w", source, err)
	}

	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + processPath
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", source, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/xml")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return "", &TransportError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Source: source, Err: err}
	}

	if resp.StatusCode/100 != 2 {
		return "", &ServiceError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Body:       snippet(data),
		}
	}

	return string(data), nil
}

// IsAlive checks the service health endpoint. Used for fail-fast
// diagnostics before a batch run; a batch does not require it.
func (c *Client) IsAlive(ctx context.Context) error {
	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + alivePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Source: "isalive", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Source: "isalive", StatusCode: resp.StatusCode}
	}
	return nil
}

// multipartBody builds the multipart/form-data payload the service
// expects: the PDF bytes under the "input" form field.
func multipartBody(filename string, pdf []byte) (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("input", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), mw.FormDataContentType(), nil
}

// snippet returns the leading portion of an error response body with
// whitespace collapsed, for inclusion in log lines.
func snippet(data []byte) string {
	s := strings.Join(strings.Fields(string(data)), " ")
	if len(s) > bodySnippetLen {
		s = s[:bodySnippetLen]
	}
	return s
}
