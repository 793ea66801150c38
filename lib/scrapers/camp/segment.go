package camp

import (
	"autocamp/lib/htmlutil"
	"autocamp/lib/textutil"
	"strings"
)

const (
	SectionMarker = "Results with"
	FooterMarker  = "© Biomedical Informatics"
)

// headings scoring below this are too unlike any classifier name to
// say anything about the section order
const headingConfidence = 0.85

type BoundaryKind int

const (
	SectionBoundary BoundaryKind = iota
	FooterBoundary
)

// Boundary marks where a section or the footer starts in the response
// text. Offset is only meaningful when Found is set.
type Boundary struct {
	Kind    BoundaryKind
	Offset  int
	Found   bool
	Heading string
}

// Boundaries lists every section marker in order of appearance followed
// by exactly one footer boundary, searched for after the last section.
func Boundaries(text string) []Boundary {
	var out []Boundary

	pos := 0
	for {
		idx := strings.Index(text[pos:], SectionMarker)
		if idx < 0 {
			break
		}
		offset := pos + idx
		out = append(out, Boundary{
			Kind:    SectionBoundary,
			Offset:  offset,
			Found:   true,
			Heading: headingAt(text, offset),
		})
		pos = offset + len(SectionMarker)
	}

	footer := Boundary{Kind: FooterBoundary}
	searchFrom := 0
	if len(out) > 0 {
		searchFrom = out[len(out)-1].Offset
	}
	if idx := strings.Index(text[searchFrom:], FooterMarker); idx >= 0 {
		footer.Offset = searchFrom + idx
		footer.Found = true
	}
	return append(out, footer)
}

func headingAt(text string, offset int) string {
	line := text[offset:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	return htmlutil.NormalizeText(line)
}

// Section is the part of the response holding one classifier's table.
type Section struct {
	Classifier Classifier
	Heading    string
	Text       string
}

// Segments holds one section per classifier, indexed by Classifier.
type Segments [len(Classifiers)]Section

// Segment splits the response into the four classifier sections. It
// walks the boundaries expecting exactly four sections then the footer,
// anything else is ErrMalformedResponse.
func Segment(text string) (Segments, error) {
	var out Segments
	var starts []Boundary
	end := -1
	for _, b := range Boundaries(text) {
		switch b.Kind {
		case SectionBoundary:
			// extra markers mean the page layout changed, the first four
			// sections are not trusted either
			if len(starts) == len(Classifiers) {
				return out, malformed("found more than %d %q markers", len(Classifiers), SectionMarker)
			}
			starts = append(starts, b)
		case FooterBoundary:
			if len(starts) < len(Classifiers) {
				return out, malformed("found %d of %d %q markers", len(starts), len(Classifiers), SectionMarker)
			}
			if !b.Found {
				return out, malformed("footer marker %q not found", FooterMarker)
			}
			end = b.Offset
		}
	}

	for i, c := range Classifiers {
		stop := end
		if i+1 < len(starts) {
			stop = starts[i+1].Offset
		}
		out[c] = Section{
			Classifier: c,
			Heading:    starts[i].Heading,
			Text:       text[starts[i].Offset:stop],
		}
		checkHeading(out[c])
	}
	return out, nil
}

// checkHeading warns when a section's heading reads like a different
// classifier than its position implies. Position stays authoritative.
func checkHeading(s Section) {
	idx, score := textutil.ClosestLabel(s.Heading, longNames())
	if idx < 0 || score < headingConfidence || Classifiers[idx] == s.Classifier {
		return
	}
	reporter.ReportWarning(
		"heading_mismatch",
		s.Classifier.String(),
		Classifiers[idx].String(),
		s.Heading,
	)
}
