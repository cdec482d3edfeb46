// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-tabulator/pkg/types"
)

// refDelim separates the flattened fields of one bibliography entry.
const refDelim = " | "

// commonSections are headings rendered as top-level sections. Anything
// else becomes a subsection heading.
var commonSections = map[string]bool{
	"abstract":            true,
	"introduction":        true,
	"background":          true,
	"relatedwork":         true,
	"materialandmethods":  true,
	"materialsandmethods": true,
	"methods":             true,
	"results":             true,
	"discussion":          true,
	"conclusion":          true,
	"conclusions":         true,
}

// boilerplateSections are filtered out of the body text entirely.
var boilerplateSections = []string{
	"acknowledgement",
	"acknowledgment",
	"conflict of interest",
	"competing interests",
	"funding",
	"author contribution",
	"supplementary material",
	"supplementary information",
	"additional information",
	"data availability",
	"appendix",
}

// figTableRe strips dangling "(Figure", "(Fig." and "(Table" fragments
// left behind when a figure or table marker is removed from a paragraph.
var figTableRe = regexp.MustCompile(`\s*\(?[Ff]igure\s*$|\s*\(?[Ff]ig\.?\s*$|\s*\(?[Tt]able\s*$`)

// bibRef is a resolved bibliography entry used for inline expansion.
type bibRef struct {
	title  string
	author string
}

// Extract walks the typed tree and produces a flat record. Missing
// optional elements resolve to empty fields; Extract never fails and is
// deterministic for a given document.
func Extract(doc *Document) types.Record {
	refs, order := bibliography(doc)

	rec := types.Record{
		Title:    mainTitle(doc.Header.FileDesc.TitleStmt.Titles),
		Authors:  headerAuthors(doc),
		Abstract: abstractText(doc, refs),
		Language: doc.Header.Lang,
		Year:     doc.Header.FileDesc.PubStmt.Date.When,
		DOI:      headerDOI(doc),
	}

	monogr := doc.Header.FileDesc.SourceDesc.BiblStruct.Monogr
	rec.Journal = mainTitle(monogr.Titles)
	rec.Publisher = strings.TrimSpace(monogr.Imprint.Publisher)
	if rec.Publisher == "" {
		rec.Publisher = strings.TrimSpace(doc.Header.FileDesc.PubStmt.Publisher)
	}

	rec.Text = bodyText(doc, rec.Abstract, refs)
	rec.ReferenceCount = len(order)
	rec.References = flattenReferences(doc, order)

	return rec
}

// mainTitle picks the title marked type="main", falling back to the first
// non-empty one. The text is trimmed but otherwise verbatim.
func mainTitle(titles []Title) string {
	for _, t := range titles {
		if t.Type == "main" {
			return strings.TrimSpace(t.Value)
		}
	}
	for _, t := range titles {
		if v := strings.TrimSpace(t.Value); v != "" {
			return v
		}
	}
	return ""
}

// headerAuthors collects the paper's authors in document order as
// "Forename Middle Surname".
func headerAuthors(doc *Document) []string {
	var names []string
	for _, a := range doc.Header.FileDesc.SourceDesc.BiblStruct.Analytic.Authors {
		var parts []string
		for _, f := range a.PersName.Forenames {
			if v := strings.TrimSpace(f.Value); v != "" {
				parts = append(parts, v)
			}
		}
		if s := strings.TrimSpace(a.PersName.Surname); s != "" {
			parts = append(parts, s)
		}
		if len(parts) > 0 {
			names = append(names, strings.Join(parts, " "))
		}
	}
	return names
}

// headerDOI returns the DOI identifier from the header description.
func headerDOI(doc *Document) string {
	for _, id := range doc.Header.FileDesc.SourceDesc.BiblStruct.Analytic.IDNos {
		if strings.EqualFold(id.Type, "doi") {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

// abstractText concatenates abstract paragraphs in document order. An
// absent abstract yields the empty string.
func abstractText(doc *Document, refs map[string]bibRef) string {
	var paras []string
	appendPara := func(p Paragraph) {
		if text := renderParagraph(p, refs); text != "" {
			paras = append(paras, text)
		}
	}
	for _, p := range doc.Header.Abstract.Paragraphs {
		appendPara(p)
	}
	for _, div := range doc.Header.Abstract.Divs {
		for _, p := range div.Paragraphs {
			appendPara(p)
		}
	}
	return strings.Join(paras, "\n")
}

// bibliography resolves the back-matter reference list. Entries lacking
// both a title and an author are dropped, matching what downstream
// consumers can actually use. It returns a target-id lookup for inline
// expansion plus the kept entries in document order.
func bibliography(doc *Document) (map[string]bibRef, []BiblStruct) {
	refs := make(map[string]bibRef)
	var order []BiblStruct

	for _, div := range doc.Text.Back.Divs {
		if div.Type != "references" {
			continue
		}
		for _, entry := range div.Entries {
			title := refTitle(entry)
			author := firstRefAuthor(entry)
			if title == "" && author == "" {
				continue
			}
			order = append(order, entry)
			if entry.ID != "" {
				refs[entry.ID] = bibRef{title: title, author: author}
			}
		}
	}
	return refs, order
}

// refTitle prefers the article-level title (level "a"), then the
// monograph title.
func refTitle(entry BiblStruct) string {
	for _, t := range entry.Analytic.Titles {
		if t.Level == "a" || t.Level == "" {
			if v := strings.TrimSpace(t.Value); v != "" {
				return v
			}
		}
	}
	return mainTitle(entry.Monogr.Titles)
}

// firstRefAuthor formats the entry's first author surname-first.
func firstRefAuthor(entry BiblStruct) string {
	authors := entry.Analytic.Authors
	if len(authors) == 0 {
		authors = entry.Monogr.Authors
	}
	if len(authors) == 0 {
		return ""
	}

	pn := authors[0].PersName
	var given []string
	for _, f := range pn.Forenames {
		if v := strings.TrimSpace(f.Value); v != "" {
			given = append(given, v)
		}
	}
	name := strings.TrimSpace(pn.Surname)
	if len(given) > 0 {
		name = strings.TrimSpace(name + " " + strings.Join(given, " "))
	}
	return name
}

// refYear extracts a four-digit year from the imprint date.
func refYear(entry BiblStruct) string {
	when := entry.Monogr.Imprint.Date.When
	if len(when) >= 4 {
		return when[:4]
	}
	return when
}

// flattenReferences joins each kept entry's author/title/venue/year into
// one delimited string, and the entries themselves with "; ".
func flattenReferences(doc *Document, entries []BiblStruct) string {
	var flat []string
	for _, entry := range entries {
		venue := ""
		// The monograph title is the venue only when the entry has an
		// article-level title of its own.
		if t := mainTitle(entry.Analytic.Titles); t != "" {
			venue = mainTitle(entry.Monogr.Titles)
		}
		fields := []string{
			firstRefAuthor(entry),
			refTitle(entry),
			venue,
			refYear(entry),
		}
		flat = append(flat, strings.Join(fields, refDelim))
	}
	return strings.Join(flat, "; ")
}

// renderParagraph flattens one paragraph's segments into text. Inline
// bibliography markers are expanded to "[bib_ref] title, author [/bib_ref]"
// when the target resolves; unresolved targets and figure/table markers
// are dropped, along with the dangling punctuation they leave behind.
func renderParagraph(p Paragraph, refs map[string]bibRef) string {
	var b strings.Builder
	dropped := false

	for _, seg := range p.Segments {
		switch {
		case seg.Ref != nil && seg.Ref.Type == "bibr":
			target := strings.TrimPrefix(seg.Ref.Target, "#")
			ref, ok := refs[target]
			if !ok || target == "" {
				dropped = true
				continue
			}
			if strings.HasSuffix(b.String(), "[/bib_ref]") {
				b.WriteString(" ")
			}
			b.WriteString("[bib_ref] " + ref.title + ", " + ref.author + " [/bib_ref]")
			dropped = true

		case seg.Ref != nil:
			// Figure/table marker: remove it and any "(Figure" style
			// fragment already emitted.
			cleaned := figTableRe.ReplaceAllString(b.String(), "")
			b.Reset()
			b.WriteString(cleaned)
			dropped = true

		default:
			text := seg.Text
			if dropped && (strings.HasPrefix(text, ")") || strings.HasPrefix(text, " ")) {
				text = text[1:]
			}
			dropped = false
			b.WriteString(text)
		}
	}
	return strings.TrimSpace(b.String())
}

// bodyText renders the body divisions as sectioned text. Well-known
// section headings become top-level headings, others subsections;
// boilerplate sections are filtered out. When the document has an
// abstract it leads the text as its own section.
func bodyText(doc *Document, abstract string, refs map[string]bibRef) string {
	var b strings.Builder

	if abstract != "" {
		b.WriteString("# Abstract\n\n")
		b.WriteString(abstract)
		b.WriteString("\n\n")
	}

	for _, div := range doc.Text.Body.Divs {
		heading := strings.TrimSpace(div.Head.Value)
		if heading != "" && isBoilerplate(heading) {
			continue
		}

		var paras []string
		for _, p := range div.Paragraphs {
			if text := renderParagraph(p, refs); text != "" {
				paras = append(paras, text)
			}
		}
		if heading == "" && len(paras) == 0 {
			continue
		}

		if heading != "" {
			if commonSections[normalizeHeading(heading)] {
				b.WriteString("# " + heading + "\n")
			} else {
				b.WriteString("## " + heading + "\n")
			}
		}
		if len(paras) > 0 {
			b.WriteString(strings.Join(paras, "\n"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

// normalizeHeading lowercases a heading and strips everything but letters,
// so "Materials and Methods" and "MATERIALS AND METHODS" compare equal.
func normalizeHeading(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isBoilerplate reports whether a heading names a section excluded from
// the body text.
func isBoilerplate(heading string) bool {
	h := strings.ToLower(heading)
	for _, skip := range boilerplateSections {
		if strings.Contains(h, skip) {
			return true
		}
	}
	return false
}
