// Package anchor merges citation candidates from the link and pattern
// scanners, deduplicates them by character offset, and assigns each kept
// citation its nearest enclosing structural node. The relation it records
// is lexical: a string-proximity match with no legal force.
package anchor

import (
	"context"
	"errors"
	"sort"

	"github.com/coolbeans/bdlex/pkg/structure"
	"github.com/coolbeans/bdlex/pkg/version"
)

// Disclaimer pair embedded in every reference.
const (
	ReferenceSemantics = "string_match_only"
	ReferenceWarning   = "citation located by string proximity in the captured text; no legal relationship between the acts is asserted"
)

// ErrContentMutated reports that the raw capture changed while references
// were being derived. It is an integrity violation, not a recoverable
// condition: the caller gets no references.
var ErrContentMutated = errors.New("anchor: raw content mutated during derivation")

// Candidate is one citation candidate. Link-derived candidates carry Href
// and usually ActID; pattern-derived candidates carry the matched text and
// offset only. Offset is a character offset into the raw capture, with
// structure.OffsetNotFound for candidates whose text was never located.
type Candidate struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Href   string `json:"href,omitempty"`
	ActID  string `json:"act_id,omitempty"`
}

// Scope names the nearest enclosing structural markers of a citation.
type Scope struct {
	Section    string `json:"section,omitempty"`
	Subsection string `json:"subsection,omitempty"`
	Clause     string `json:"clause,omitempty"`
}

// Reference is one anchored citation. Scope is nil when the citation
// falls outside every section's content range.
type Reference struct {
	CitationText       string `json:"citation_text"`
	CharacterOffset    int    `json:"character_offset"`
	Href               string `json:"href,omitempty"`
	ActID              string `json:"act_id,omitempty"`
	Scope              *Scope `json:"scope"`
	ReferenceSemantics string `json:"reference_semantics"`
	ReferenceWarning   string `json:"reference_warning"`
}

// Anchor produces the ordered, deduplicated, scope-anchored reference
// list for one document.
//
// Link-derived candidates are merged first, then pattern-derived ones;
// at most one reference survives per distinct offset, so a link-derived
// entry wins any tie. Candidates with an unresolved offset or empty text
// are skipped, never errored. The output is sorted ascending by offset —
// the only ordering guarantee; input order does not survive the merge.
func Anchor(raw string, tree *structure.Tree, linked, patterns []Candidate) ([]Reference, error) {
	guard := checksum(raw)

	seen := make(map[int]bool)
	var refs []Reference
	for _, group := range [][]Candidate{linked, patterns} {
		for _, candidate := range group {
			if candidate.Offset < 0 || candidate.Text == "" {
				continue
			}
			if seen[candidate.Offset] {
				continue
			}
			seen[candidate.Offset] = true
			refs = append(refs, Reference{
				CitationText:       candidate.Text,
				CharacterOffset:    candidate.Offset,
				Href:               candidate.Href,
				ActID:              candidate.ActID,
				Scope:              scopeFor(tree, candidate.Offset),
				ReferenceSemantics: ReferenceSemantics,
				ReferenceWarning:   ReferenceWarning,
			})
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].CharacterOffset < refs[j].CharacterOffset
	})

	// Last-resort integrity guard: derivation must not have touched raw.
	if checksum(raw) != guard {
		return nil, ErrContentMutated
	}

	return refs, nil
}

// scopeFor finds the citation's enclosing section, then scans that
// section's subsections and clauses in document order, overwriting the
// assignment at every marker whose offset is at or before the citation.
// The last qualifying marker wins; an earlier break would misattribute
// citations under nested markers.
func scopeFor(tree *structure.Tree, offset int) *Scope {
	if tree == nil {
		return nil
	}
	section := tree.SectionContaining(offset)
	if section == nil {
		return nil
	}

	scope := &Scope{Section: section.Number}

	var enclosing *structure.Subsection
	for i := range section.Subsections {
		subsection := &section.Subsections[i]
		if subsection.Offset == structure.OffsetNotFound {
			continue
		}
		if subsection.Offset <= offset {
			enclosing = subsection
			scope.Subsection = subsection.Marker
		}
	}

	clauses := section.Clauses
	if enclosing != nil {
		clauses = enclosing.Clauses
	}
	for _, clause := range clauses {
		if clause.Offset == structure.OffsetNotFound {
			continue
		}
		if clause.Offset <= offset {
			scope.Clause = clause.Marker
		}
	}

	return scope
}

// checksum hashes the raw capture for the before/after mutation guard.
func checksum(raw string) string {
	if raw == "" {
		return ""
	}
	result := version.Hash(context.Background(), version.DefaultProvider(), raw)
	return result.Hash
}
