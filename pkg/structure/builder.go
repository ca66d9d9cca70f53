package structure

// Build assembles the anchored tree for one raw capture.
//
// Each section's heading and numbering token are located by a forward
// substring search whose start is anchored after the previous section's
// located position, which keeps offsets monotonic and skips duplicate
// markers appearing earlier in the text. A section's content range starts
// at its own numbering-token offset (heading offset when the token is
// absent) and ends at the next section's heading offset, or at the end of
// the capture for the last section.
//
// A node whose text cannot be located gets OffsetNotFound. A section that
// could not be located at all does not search for its descendants: they
// are emitted with OffsetNotFound too, instead of being searched from
// position 0 against some unrelated part of the text.
func Build(raw string, doc DocumentFragments) *Tree {
	runes := []rune(raw)
	tree := &Tree{
		Sections: make([]Section, 0, len(doc.Sections)),
		Metadata: Metadata{Deterministic: true},
	}

	if doc.Preamble != "" {
		tree.Preamble = &Anchored{
			Text:   doc.Preamble,
			Offset: indexRunes(runes, doc.Preamble, 0, len(runes)),
		}
	}
	if doc.EnactmentClause != "" {
		after := 0
		if tree.Preamble != nil && tree.Preamble.Offset != OffsetNotFound {
			after = tree.Preamble.Offset + 1
		}
		off := indexRunes(runes, doc.EnactmentClause, after, len(runes))
		tree.EnactmentClause = &Anchored{Text: doc.EnactmentClause, Offset: off}
	}

	// First pass: locate every section's heading and numbering token.
	searchFrom := 0
	for _, fragment := range doc.Sections {
		section := Section{
			DOMIndex:      fragment.DOMIndex,
			Number:        fragment.Number,
			Heading:       fragment.Heading,
			HeadingOffset: OffsetNotFound,
			NumberOffset:  OffsetNotFound,
			ContentStart:  OffsetNotFound,
			ContentEnd:    OffsetNotFound,
		}

		// The numbering token precedes the heading in the source layout,
		// so both searches anchor at the previous section's position.
		headingOffset := indexRunes(runes, fragment.Heading, searchFrom, len(runes))
		section.HeadingOffset = headingOffset

		numberOffset := indexRunes(runes, fragment.Number, searchFrom, len(runes))
		section.NumberOffset = numberOffset

		switch {
		case numberOffset != OffsetNotFound:
			section.ContentStart = numberOffset
		case headingOffset != OffsetNotFound:
			section.ContentStart = headingOffset
		}

		if located := maxOffset(headingOffset, numberOffset); located != OffsetNotFound {
			searchFrom = located + 1
		}

		tree.Sections = append(tree.Sections, section)
	}

	// Second pass: close each content range at the next located heading.
	for i := range tree.Sections {
		section := &tree.Sections[i]
		if section.ContentStart == OffsetNotFound {
			continue
		}
		section.ContentEnd = len(runes)
		for j := i + 1; j < len(tree.Sections); j++ {
			if next := tree.Sections[j].HeadingOffset; next != OffsetNotFound {
				section.ContentEnd = next
				break
			}
		}
	}

	// Third pass: locate subsections and clauses inside each range.
	for i, fragment := range doc.Sections {
		section := &tree.Sections[i]
		buildChildren(runes, section, fragment)
		tree.Metadata.SubsectionCount += len(section.Subsections)
		for _, subsection := range section.Subsections {
			tree.Metadata.ClauseCount += len(subsection.Clauses)
		}
		tree.Metadata.ClauseCount += len(section.Clauses)
	}
	tree.Metadata.SectionCount = len(tree.Sections)

	return tree
}

// buildChildren anchors a section's subsections and clauses. Subsection
// searches start at the section's content start and advance past each
// located marker; clause searches anchor at the nearest preceding
// subsection's offset, or at the section start for clauses attached
// directly to the section.
func buildChildren(runes []rune, section *Section, fragment SectionFragment) {
	located := section.ContentStart != OffsetNotFound

	cursor := section.ContentStart
	for index, subFragment := range fragment.Subsections {
		subsection := Subsection{
			Marker: subFragment.Marker,
			Offset: OffsetNotFound,
			Index:  index,
		}
		if located {
			if off := indexRunes(runes, subFragment.Marker, cursor, section.ContentEnd); off != OffsetNotFound {
				subsection.Offset = off
				cursor = off + 1
			}
		}

		clauseCursor := subsection.Offset
		for clauseIndex, clauseFragment := range subFragment.Clauses {
			clause := Clause{
				Marker: clauseFragment.Marker,
				Offset: OffsetNotFound,
				Index:  clauseIndex,
			}
			// A subsection that was never located does not search for
			// its clauses.
			if located && subsection.Offset != OffsetNotFound {
				if off := indexRunes(runes, clauseFragment.Marker, clauseCursor, section.ContentEnd); off != OffsetNotFound {
					clause.Offset = off
					clauseCursor = off + 1
				}
			}
			subsection.Clauses = append(subsection.Clauses, clause)
		}

		section.Subsections = append(section.Subsections, subsection)
	}

	directCursor := section.ContentStart
	for index, clauseFragment := range fragment.Clauses {
		clause := Clause{
			Marker: clauseFragment.Marker,
			Offset: OffsetNotFound,
			Index:  index,
		}
		if located {
			if off := indexRunes(runes, clauseFragment.Marker, directCursor, section.ContentEnd); off != OffsetNotFound {
				clause.Offset = off
				directCursor = off + 1
			}
		}
		section.Clauses = append(section.Clauses, clause)
	}
}

func maxOffset(a, b int) int {
	if a > b {
		return a
	}
	return b
}
