// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strconv"
	"strings"
)

// Record is the flat field-to-value mapping produced for one source
// document. Records are immutable after extraction; one source document
// yields at most one Record.
type Record struct {
	// ID is the source document's base name without extension.
	ID string `json:"id" yaml:"id"`

	// Title is the main title, trimmed but otherwise verbatim.
	Title string `json:"title" yaml:"title"`

	// Authors lists header authors in document order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the abstract text, empty when the document has none.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Language is the document language code from the header (e.g. "en").
	Language string `json:"language" yaml:"language"`

	// Publisher and Journal come from the header's monograph description.
	Publisher string `json:"publisher" yaml:"publisher"`
	Journal   string `json:"journal" yaml:"journal"`

	// Year is the publication date attribute, empty when absent.
	Year string `json:"year" yaml:"year"`

	// DOI is the document's DOI identifier, empty when absent.
	DOI string `json:"doi" yaml:"doi"`

	// Text is the full body text: section headings and paragraphs in
	// document order, with boilerplate sections filtered out.
	Text string `json:"text" yaml:"text"`

	// ReferenceCount is the number of usable bibliography entries.
	ReferenceCount int `json:"reference_count" yaml:"reference_count"`

	// References is the flattened bibliography, one delimited string per
	// entry joined with "; ". Empty when the document has no bibliography.
	References string `json:"references" yaml:"references"`

	// Pages is the source PDF's page count, zero when unknown.
	Pages int `json:"pages" yaml:"pages"`
}

// RecordHeader returns the CSV header row. Column order matches Row.
func RecordHeader() []string {
	return []string{
		"id", "title", "authors", "abstract", "language", "publisher",
		"journal", "year", "doi", "text", "reference_count", "references",
		"pages",
	}
}

// Row returns the record as one CSV row. Authors are joined with "; ".
func (r Record) Row() []string {
	return []string{
		r.ID,
		r.Title,
		strings.Join(r.Authors, "; "),
		r.Abstract,
		r.Language,
		r.Publisher,
		r.Journal,
		r.Year,
		r.DOI,
		r.Text,
		strconv.Itoa(r.ReferenceCount),
		r.References,
		strconv.Itoa(r.Pages),
	}
}
