// Package structure assembles an offset-anchored tree of sections,
// subsections, and clauses from pre-grouped document fragments. Fragments
// arrive already ordered by the DOM layer; this package locates each one
// inside the raw capture and never re-sorts.
package structure

// ClauseFragment is one clause marker as grouped by the DOM layer,
// e.g. "(ক)" or "(খ)".
type ClauseFragment struct {
	Marker string `json:"marker"`
	Text   string `json:"text,omitempty"`
}

// SubsectionFragment is one subsection marker, e.g. "(১)", with the
// clauses the DOM layer grouped under it.
type SubsectionFragment struct {
	Marker  string           `json:"marker"`
	Text    string           `json:"text,omitempty"`
	Clauses []ClauseFragment `json:"clauses,omitempty"`
}

// SectionFragment is one section as parsed from the page, in document
// order. Number is the verbatim numbering token ("১৷"); Heading is the
// heading text. Clauses holds clauses attached directly to the section,
// outside any subsection.
type SectionFragment struct {
	DOMIndex    int                  `json:"dom_index"`
	Number      string               `json:"section_number"`
	Heading     string               `json:"heading"`
	Subsections []SubsectionFragment `json:"subsections,omitempty"`
	Clauses     []ClauseFragment     `json:"clauses,omitempty"`
}

// DocumentFragments is the full parsed input for one document.
type DocumentFragments struct {
	Preamble        string            `json:"preamble,omitempty"`
	EnactmentClause string            `json:"enactment_clause,omitempty"`
	Sections        []SectionFragment `json:"sections"`
}
