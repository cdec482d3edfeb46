// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"reflect"
	"strings"
	"testing"
)

// attentionTEI is a trimmed-down structuring service response for a
// two-page paper: three authors, an abstract, two body sections plus an
// acknowledgements section, and five references.
const attentionTEI = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0" xml:space="preserve">
 <teiHeader xml:lang="en">
  <fileDesc>
   <titleStmt>
    <title level="a" type="main">Attention Is All You Need</title>
   </titleStmt>
   <publicationStmt>
    <publisher>arXiv</publisher>
    <date type="published" when="2017-06-12">12 June 2017</date>
   </publicationStmt>
   <sourceDesc>
    <biblStruct>
     <analytic>
      <author><persName><forename type="first">Ashish</forename><surname>Vaswani</surname></persName></author>
      <author><persName><forename type="first">Noam</forename><surname>Shazeer</surname></persName></author>
      <author><persName><forename type="first">Niki</forename><surname>Parmar</surname></persName></author>
      <title level="a" type="main">Attention Is All You Need</title>
      <idno type="DOI">10.48550/arXiv.1706.03762</idno>
     </analytic>
     <monogr>
      <title level="j" type="main">Advances in Neural Information Processing Systems</title>
      <imprint>
       <publisher>Curran Associates</publisher>
       <date type="published" when="2017"/>
      </imprint>
     </monogr>
    </biblStruct>
   </sourceDesc>
  </fileDesc>
  <profileDesc>
   <abstract>
    <div><p>The dominant sequence transduction models are based on complex recurrent or convolutional neural networks.</p></div>
   </abstract>
  </profileDesc>
 </teiHeader>
 <text xml:lang="en">
  <body>
   <div><head n="1">Introduction</head><p>Recurrent neural networks have been established as state of the art <ref type="bibr" target="#b0">[1]</ref>.</p><p>Attention mechanisms allow modeling of dependencies <ref type="bibr" target="#b1">[2]</ref> (Figure <ref type="figure" target="#fig_0">1</ref>).</p></div>
   <div><head n="2">Model Architecture</head><p>The Transformer follows an encoder-decoder structure.</p></div>
   <div><head>Acknowledgements</head><p>We thank our colleagues for their comments.</p></div>
  </body>
  <back>
   <div type="references">
    <listBibl>
     <biblStruct xml:id="b0">
      <analytic>
       <title level="a" type="main">Sequence to Sequence Learning with Neural Networks</title>
       <author><persName><forename type="first">Ilya</forename><surname>Sutskever</surname></persName></author>
      </analytic>
      <monogr>
       <title level="m">Advances in Neural Information Processing Systems</title>
       <imprint><date type="published" when="2014"/></imprint>
      </monogr>
     </biblStruct>
     <biblStruct xml:id="b1">
      <analytic>
       <title level="a" type="main">Neural Machine Translation by Jointly Learning to Align and Translate</title>
       <author><persName><forename type="first">Dzmitry</forename><surname>Bahdanau</surname></persName></author>
      </analytic>
      <monogr>
       <title level="m">ICLR</title>
       <imprint><date type="published" when="2015"/></imprint>
      </monogr>
     </biblStruct>
     <biblStruct xml:id="b2">
      <analytic>
       <title level="a" type="main">Long Short-Term Memory</title>
       <author><persName><forename type="first">Sepp</forename><surname>Hochreiter</surname></persName></author>
      </analytic>
      <monogr>
       <title level="j">Neural Computation</title>
       <imprint><date type="published" when="1997"/></imprint>
      </monogr>
     </biblStruct>
     <biblStruct xml:id="b3">
      <analytic>
       <title level="a" type="main">Effective Approaches to Attention-based Neural Machine Translation</title>
       <author><persName><forename type="first">Minh-Thang</forename><surname>Luong</surname></persName></author>
      </analytic>
      <monogr>
       <title level="m">EMNLP</title>
       <imprint><date type="published" when="2015"/></imprint>
      </monogr>
     </biblStruct>
     <biblStruct xml:id="b4">
      <monogr>
       <title level="m" type="main">Deep Learning</title>
       <author><persName><forename type="first">Ian</forename><surname>Goodfellow</surname></persName></author>
       <imprint><date type="published" when="2016"/></imprint>
      </monogr>
     </biblStruct>
    </listBibl>
   </div>
  </back>
 </text>
</TEI>`

func parseAttention(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(attentionTEI))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestExtract_HeaderFields(t *testing.T) {
	rec := Extract(parseAttention(t))

	if rec.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", rec.Title)
	}
	wantAuthors := []string{"Ashish Vaswani", "Noam Shazeer", "Niki Parmar"}
	if !reflect.DeepEqual(rec.Authors, wantAuthors) {
		t.Errorf("authors = %v, want %v", rec.Authors, wantAuthors)
	}
	if rec.Abstract == "" || !strings.Contains(rec.Abstract, "dominant sequence transduction models") {
		t.Errorf("abstract = %q", rec.Abstract)
	}
	if rec.Language != "en" {
		t.Errorf("language = %q", rec.Language)
	}
	if rec.Journal != "Advances in Neural Information Processing Systems" {
		t.Errorf("journal = %q", rec.Journal)
	}
	if rec.Publisher != "Curran Associates" {
		t.Errorf("publisher = %q", rec.Publisher)
	}
	if rec.Year != "2017-06-12" {
		t.Errorf("year = %q", rec.Year)
	}
	if rec.DOI != "10.48550/arXiv.1706.03762" {
		t.Errorf("doi = %q", rec.DOI)
	}
}

func TestExtract_References(t *testing.T) {
	rec := Extract(parseAttention(t))

	if rec.ReferenceCount != 5 {
		t.Errorf("reference count = %d, want 5", rec.ReferenceCount)
	}

	entries := strings.Split(rec.References, "; ")
	if len(entries) != 5 {
		t.Fatalf("flattened entries = %d, want 5", len(entries))
	}
	want := "Sutskever Ilya | Sequence to Sequence Learning with Neural Networks | Advances in Neural Information Processing Systems | 2014"
	if entries[0] != want {
		t.Errorf("entry[0] = %q, want %q", entries[0], want)
	}
	// The book entry has no article-level title, so no separate venue.
	if !strings.Contains(entries[4], "Goodfellow Ian | Deep Learning") {
		t.Errorf("entry[4] = %q", entries[4])
	}
}

func TestExtract_BodyText(t *testing.T) {
	rec := Extract(parseAttention(t))

	if !strings.HasPrefix(rec.Text, "# Abstract\n\n") {
		t.Errorf("text does not lead with the abstract section: %q", rec.Text[:40])
	}
	if !strings.Contains(rec.Text, "# Introduction\n") {
		t.Error("common heading not rendered top-level")
	}
	if !strings.Contains(rec.Text, "## Model Architecture\n") {
		t.Error("uncommon heading not rendered as subsection")
	}
	if strings.Contains(rec.Text, "Acknowledgements") || strings.Contains(rec.Text, "thank our colleagues") {
		t.Error("boilerplate section not filtered")
	}
}

func TestExtract_InlineReferences(t *testing.T) {
	rec := Extract(parseAttention(t))

	want := "state of the art [bib_ref] Sequence to Sequence Learning with Neural Networks, Sutskever Ilya [/bib_ref]."
	if !strings.Contains(rec.Text, want) {
		t.Errorf("text missing expanded citation:\n%s", rec.Text)
	}

	// The figure marker and its "(Figure 1)" shell are removed.
	if strings.Contains(rec.Text, "Figure") {
		t.Errorf("figure marker leaked into text:\n%s", rec.Text)
	}
	want = "dependencies [bib_ref] Neural Machine Translation by Jointly Learning to Align and Translate, Bahdanau Dzmitry [/bib_ref]."
	if !strings.Contains(rec.Text, want) {
		t.Errorf("text missing citation followed by figure cleanup:\n%s", rec.Text)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	doc := parseAttention(t)
	first := Extract(doc)
	second := Extract(doc)
	if !reflect.DeepEqual(first, second) {
		t.Error("extraction is not deterministic for the same document")
	}
}

func TestExtract_MissingAbstract(t *testing.T) {
	input := `<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader><fileDesc><titleStmt>
		<title type="main">An Untitled Abstractless Paper</title>
	</titleStmt></fileDesc></teiHeader><text><body>
		<div><head>Introduction</head><p>Body only.</p></div>
	</body></text></TEI>`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rec := Extract(doc)
	if rec.Abstract != "" {
		t.Errorf("abstract = %q, want empty", rec.Abstract)
	}
	if rec.Title != "An Untitled Abstractless Paper" {
		t.Errorf("title = %q", rec.Title)
	}
	if strings.Contains(rec.Text, "# Abstract") {
		t.Error("abstract section rendered for a document without one")
	}
}

func TestExtract_NoBibliography(t *testing.T) {
	input := `<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader/><text><body>
		<div><head>Results</head><p>Cites nothing <ref type="bibr" target="#b7">[8]</ref> at all.</p></div>
	</body></text></TEI>`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rec := Extract(doc)
	if rec.References != "" {
		t.Errorf("references = %q, want empty", rec.References)
	}
	if rec.ReferenceCount != 0 {
		t.Errorf("reference count = %d, want 0", rec.ReferenceCount)
	}
	// The unresolvable citation marker is dropped, the sentence kept.
	if !strings.Contains(rec.Text, "Cites nothing at all.") {
		t.Errorf("text = %q", rec.Text)
	}
}

func TestExtract_TitleWhitespace(t *testing.T) {
	input := `<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader><fileDesc><titleStmt>
		<title type="main">  Spaces   Inside Are  Kept  </title>
	</titleStmt></fileDesc></teiHeader><text/></TEI>`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Trimmed at the ends only; interior whitespace is preserved.
	if got := Extract(doc).Title; got != "Spaces   Inside Are  Kept" {
		t.Errorf("title = %q", got)
	}
}

func TestExtract_AuthorCounts(t *testing.T) {
	tests := []struct {
		name    string
		authors string
		want    int
	}{
		{"zero authors", "", 0},
		{"one author", `<author><persName><forename type="first">Ada</forename><surname>Lovelace</surname></persName></author>`, 1},
		{"empty name skipped", `<author><persName/></author><author><persName><surname>Turing</surname></persName></author>`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader><fileDesc><sourceDesc><biblStruct><analytic>` +
				tt.authors +
				`</analytic></biblStruct></sourceDesc></fileDesc></teiHeader><text/></TEI>`

			doc, err := Parse(strings.NewReader(input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := len(Extract(doc).Authors); got != tt.want {
				t.Errorf("author count = %d, want %d", got, tt.want)
			}
		})
	}
}
