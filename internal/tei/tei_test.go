// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_MalformedMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not xml at all", "this is a plain text response"},
		{"truncated document", `<?xml version="1.0"?><TEI><teiHeader>`},
		{"wrong root element", `<html><body>service error page</body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error for malformed markup")
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("error = %T, want *FormatError", err)
			}
		})
	}
}

func TestParse_SemanticallyEmpty(t *testing.T) {
	// Well-formed TEI with no recognizable content parses fine; the
	// extractor resolves every field to its empty value.
	input := `<?xml version="1.0"?><TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader/><text/></TEI>`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rec := Extract(doc)
	if rec.Title != "" || rec.Abstract != "" || rec.Text != "" || rec.References != "" {
		t.Errorf("expected all-empty record, got %+v", rec)
	}
	if len(rec.Authors) != 0 || rec.ReferenceCount != 0 {
		t.Errorf("expected zero authors and references, got %+v", rec)
	}
}

func TestParse_HTMLEntities(t *testing.T) {
	input := `<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader><fileDesc><titleStmt>
		<title type="main">G&ouml;del&rsquo;s Theorem</title>
	</titleStmt></fileDesc></teiHeader><text/></TEI>`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Extract(doc).Title; got != "Gödel’s Theorem" {
		t.Errorf("title = %q, want entity-decoded title", got)
	}
}

func TestParagraph_SegmentOrder(t *testing.T) {
	input := `<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader/><text><body>
		<div><p>before <ref type="bibr" target="#b0">[1]</ref> after</p></div>
	</body></text></TEI>`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	segs := doc.Text.Body.Divs[0].Paragraphs[0].Segments
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if segs[0].Text != "before " || segs[2].Text != " after" {
		t.Errorf("text segments = %q, %q", segs[0].Text, segs[2].Text)
	}
	ref := segs[1].Ref
	if ref == nil || ref.Type != "bibr" || ref.Target != "#b0" || ref.Text != "[1]" {
		t.Errorf("ref segment = %+v", ref)
	}
}
