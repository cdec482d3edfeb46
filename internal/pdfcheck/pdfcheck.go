// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfcheck validates source PDFs before they are sent anywhere.
package pdfcheck

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount validates the PDF at path and returns its page count.
// A file that is not a readable PDF fails here, so corrupt inputs never
// reach the network.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%s is not a readable PDF: %w", path, err)
	}
	return n, nil
}
