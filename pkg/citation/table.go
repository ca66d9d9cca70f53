// Package citation scans a raw capture for statute citations using an
// ordered pattern table, producing the pattern-derived candidates that
// feed the reference anchor. Matching is purely lexical.
package citation

import "regexp"

// Category names one citation form recognized by the scanner.
type Category string

const (
	// CategoryBengaliActNumber matches the canonical Bengali citation,
	// e.g. "১৯৭৪ সনের ৩৯ নং আইন".
	CategoryBengaliActNumber Category = "bengali_act_number"

	// CategoryEnglishActNumber matches "Act XXXIX of 1974" and
	// "Act No. 12 of 1995".
	CategoryEnglishActNumber Category = "english_act_number"

	// CategoryEnglishOrdinance matches "Ordinance XIX of 1976".
	CategoryEnglishOrdinance Category = "english_ordinance"

	// CategoryBengaliNamedAct matches a named act with a trailing year,
	// e.g. "মূল্য সংযোজন কর আইন, ১৯৯১". No act number is recoverable.
	CategoryBengaliNamedAct Category = "bengali_named_act"
)

// CategoryPatterns is one row of the scan table: a category and the
// patterns that detect it. Submatch 1 is the act number (where present)
// and submatch 2 the year, except for the named-act form whose only
// submatch is the year.
type CategoryPatterns struct {
	Category Category
	Patterns []*regexp.Regexp
}

// DefaultTable returns the ordered citation table. Earlier categories win
// when matches overlap; order in this slice is the only priority
// mechanism, so the scanning loop stays free of category knowledge.
func DefaultTable() []CategoryPatterns {
	return []CategoryPatterns{
		{
			Category: CategoryBengaliActNumber,
			Patterns: []*regexp.Regexp{
				// ১৯৭৪ সনের ৩৯ নং আইন / ২০১২ সালের ৫ নম্বর অধ্যাদেশ
				regexp.MustCompile(`([০-৯]{4})\s*(?:সনের|সালের)\s*([০-৯]+)\s*(?:নং|নম্বর)\s*(?:আইন|অধ্যাদেশ)`),
			},
		},
		{
			Category: CategoryEnglishActNumber,
			Patterns: []*regexp.Regexp{
				// Act XXXIX of 1974 / Act No. 12 of 1995
				regexp.MustCompile(`\bAct\s+(?:No\.?\s*)?([IVXLC]+|\d+)\s+of\s+(\d{4})`),
			},
		},
		{
			Category: CategoryEnglishOrdinance,
			Patterns: []*regexp.Regexp{
				// Ordinance XIX of 1976 / Ordinance No. 8 of 1986
				regexp.MustCompile(`\bOrdinance\s+(?:No\.?\s*)?([IVXLC]+|\d+)\s+of\s+(\d{4})`),
			},
		},
		{
			Category: CategoryBengaliNamedAct,
			Patterns: []*regexp.Regexp{
				// মূল্য সংযোজন কর আইন, ১৯৯১
				regexp.MustCompile(`[\x{0980}-\x{09FF}][^৷।,\n]*?(?:আইন|অধ্যাদেশ),\s*([০-৯]{4})`),
			},
		},
	}
}
