// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tei parses the structuring service's TEI XML output into a typed
// document tree and extracts flat records from it.
//
// The tree mirrors the parts of TEI that GROBID emits for scholarly papers:
// header (title, authors, publication metadata), abstract, body divisions,
// and the back-matter bibliography. Everything else in the markup is
// ignored during decoding.
package tei

import (
	"encoding/xml"
	"fmt"
	"io"
)

// FormatError reports markup that cannot be parsed as a TEI document.
// It is the only error this package raises.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("markup is not a valid TEI document: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Document is the typed tree for one structured markup document.
type Document struct {
	XMLName xml.Name `xml:"TEI"`
	Header  Header   `xml:"teiHeader"`
	Text    Text     `xml:"text"`
}

// Header holds the TEI header: bibliographic metadata and the abstract.
type Header struct {
	Lang     string   `xml:"lang,attr"`
	FileDesc FileDesc `xml:"fileDesc"`
	Abstract Abstract `xml:"profileDesc>abstract"`
}

// FileDesc describes the document itself.
type FileDesc struct {
	TitleStmt  TitleStmt  `xml:"titleStmt"`
	PubStmt    PubStmt    `xml:"publicationStmt"`
	SourceDesc SourceDesc `xml:"sourceDesc"`
}

// TitleStmt holds the document titles. GROBID marks the real one
// type="main".
type TitleStmt struct {
	Titles []Title `xml:"title"`
}

// Title is a title element with its classification attributes.
type Title struct {
	Type  string `xml:"type,attr"`
	Level string `xml:"level,attr"`
	Value string `xml:",chardata"`
}

// PubStmt holds publication facts from the header.
type PubStmt struct {
	Publisher string `xml:"publisher"`
	Date      Date   `xml:"date"`
}

// Date carries the machine-readable date in its when attribute.
type Date struct {
	Type  string `xml:"type,attr"`
	When  string `xml:"when,attr"`
	Value string `xml:",chardata"`
}

// SourceDesc wraps the header's bibliographic description of the paper.
type SourceDesc struct {
	BiblStruct BiblStruct `xml:"biblStruct"`
}

// BiblStruct is a structured bibliographic entry. The same shape appears
// in the header (describing the paper itself) and in the back-matter
// bibliography (describing each cited work).
type BiblStruct struct {
	ID       string   `xml:"id,attr"`
	Analytic Analytic `xml:"analytic"`
	Monogr   Monogr   `xml:"monogr"`
}

// Analytic describes the work at article level.
type Analytic struct {
	Titles  []Title  `xml:"title"`
	Authors []Author `xml:"author"`
	IDNos   []IDNo   `xml:"idno"`
}

// Monogr describes the containing publication (journal, proceedings, book).
type Monogr struct {
	Titles  []Title  `xml:"title"`
	Authors []Author `xml:"author"`
	Imprint Imprint  `xml:"imprint"`
}

// Imprint holds publisher and date for a monograph.
type Imprint struct {
	Publisher string `xml:"publisher"`
	Date      Date   `xml:"date"`
}

// IDNo is an identifier such as a DOI or arXiv id.
type IDNo struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Author wraps a structured person name.
type Author struct {
	PersName PersName `xml:"persName"`
}

// PersName holds the name parts GROBID recognizes.
type PersName struct {
	Forenames []Forename `xml:"forename"`
	Surname   string     `xml:"surname"`
}

// Forename is one given-name part, classified first or middle.
type Forename struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Abstract holds the abstract content. Depending on the service version
// the paragraphs sit inside divs or directly under the abstract element.
type Abstract struct {
	Divs       []Div       `xml:"div"`
	Paragraphs []Paragraph `xml:"p"`
}

// Text holds the document body and back matter.
type Text struct {
	Body Body `xml:"body"`
	Back Back `xml:"back"`
}

// Body is the sequence of content divisions.
type Body struct {
	Divs []Div `xml:"div"`
}

// Div is one content division: an optional heading plus paragraphs.
type Div struct {
	Head       Head        `xml:"head"`
	Paragraphs []Paragraph `xml:"p"`
}

// Head is a division heading. The n attribute carries section numbering.
type Head struct {
	N     string `xml:"n,attr"`
	Value string `xml:",chardata"`
}

// Back holds back-matter divisions; the bibliography is the div with
// type="references".
type Back struct {
	Divs []BackDiv `xml:"div"`
}

// BackDiv is a back-matter division.
type BackDiv struct {
	Type    string       `xml:"type,attr"`
	Entries []BiblStruct `xml:"listBibl>biblStruct"`
}

// Segment is one piece of a paragraph's mixed content: plain text or an
// inline reference marker, never both.
type Segment struct {
	Text string
	Ref  *Ref
}

// Ref is an inline reference marker. Type "bibr" points at a bibliography
// entry via Target ("#b3"); other types mark figures and tables.
type Ref struct {
	Type   string
	Target string
	Text   string
}

// Paragraph preserves the order of text runs and inline reference markers.
type Paragraph struct {
	Segments []Segment
}

// UnmarshalXML decodes a paragraph's mixed content into ordered segments.
// Nested elements other than ref contribute their direct text only.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			p.Segments = append(p.Segments, Segment{Text: string(t)})
		case xml.StartElement:
			if t.Name.Local == "ref" {
				var raw struct {
					Type   string `xml:"type,attr"`
					Target string `xml:"target,attr"`
					Value  string `xml:",chardata"`
				}
				if err := d.DecodeElement(&raw, &t); err != nil {
					return err
				}
				p.Segments = append(p.Segments, Segment{Ref: &Ref{
					Type:   raw.Type,
					Target: raw.Target,
					Text:   raw.Value,
				}})
				continue
			}
			var inner struct {
				Value string `xml:",chardata"`
			}
			if err := d.DecodeElement(&inner, &t); err != nil {
				return err
			}
			if inner.Value != "" {
				p.Segments = append(p.Segments, Segment{Text: inner.Value})
			}
		case xml.EndElement:
			return nil
		}
	}
}

// Parse decodes TEI markup into a Document. Markup that is not a
// well-formed TEI tree yields a *FormatError; a well-formed document with
// no recognizable content parses fine and extracts to empty fields.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	// GROBID output occasionally carries HTML entities.
	dec.Entity = xml.HTMLEntity

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, &FormatError{Err: err}
	}
	return &doc, nil
}
