package structure

// OffsetNotFound marks a node whose marker text could not be located in
// the raw capture. It is a distinct state, never to be read as offset 0.
const OffsetNotFound = -1

// Clause is an anchored clause node.
type Clause struct {
	Marker string `json:"marker"`
	Offset int    `json:"offset"`
	Index  int    `json:"index"`
}

// Subsection is an anchored subsection node with its clauses in input
// order.
type Subsection struct {
	Marker  string   `json:"marker"`
	Offset  int      `json:"offset"`
	Index   int      `json:"index"`
	Clauses []Clause `json:"clauses,omitempty"`
}

// Section is an anchored section node. Its content range is the half-open
// interval [ContentStart, ContentEnd) of character offsets into the raw
// capture; child offsets lie inside it.
type Section struct {
	DOMIndex      int          `json:"dom_index"`
	Number        string       `json:"section_number"`
	Heading       string       `json:"heading"`
	HeadingOffset int          `json:"heading_offset"`
	NumberOffset  int          `json:"number_offset"`
	ContentStart  int          `json:"content_start"`
	ContentEnd    int          `json:"content_end"`
	Subsections   []Subsection `json:"subsections,omitempty"`
	Clauses       []Clause     `json:"clauses,omitempty"`
}

// Anchored is a located block of text (preamble, enactment clause).
type Anchored struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// Metadata summarizes a build. Deterministic is always true: identical
// input produces byte-identical output, with no timestamps or randomness.
type Metadata struct {
	SectionCount    int  `json:"section_count"`
	SubsectionCount int  `json:"subsection_count"`
	ClauseCount     int  `json:"clause_count"`
	Deterministic   bool `json:"deterministic"`
}

// Tree is the assembled structure for one document. Section order is
// exactly the input fragment order.
type Tree struct {
	Preamble        *Anchored `json:"preamble"`
	EnactmentClause *Anchored `json:"enactment_clause"`
	Sections        []Section `json:"sections"`
	Metadata        Metadata  `json:"metadata"`
}

// SectionContaining returns the section whose content range contains the
// given character offset, or nil. The scan keeps the last qualifying
// section rather than stopping at the first.
func (t *Tree) SectionContaining(offset int) *Section {
	var match *Section
	for i := range t.Sections {
		section := &t.Sections[i]
		if section.ContentStart == OffsetNotFound {
			continue
		}
		if section.ContentStart <= offset && offset < section.ContentEnd {
			match = section
		}
	}
	return match
}
