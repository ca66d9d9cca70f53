package citation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coolbeans/bdlex/pkg/anchor"
)

// Scanner detects citations in raw text using an ordered pattern table.
type Scanner struct {
	table []CategoryPatterns
}

// NewScanner returns a Scanner over the default table.
func NewScanner() *Scanner {
	return &Scanner{table: DefaultTable()}
}

// NewScannerWithTable returns a Scanner over a caller-supplied table.
func NewScannerWithTable(table []CategoryPatterns) *Scanner {
	return &Scanner{table: table}
}

// span is a kept byte range used for first-category-wins resolution.
type span struct {
	start, end int
}

func overlaps(start, end int, kept []span) bool {
	for _, s := range kept {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Scan returns pattern-derived citation candidates with character offsets
// into raw. Categories are tried in table order and a later category
// never claims text already matched by an earlier one. Candidates appear
// in scan order; the anchor stage owns the final ordering.
func (s *Scanner) Scan(raw string) []anchor.Candidate {
	var kept []span
	var candidates []anchor.Candidate

	for _, row := range s.table {
		for _, pattern := range row.Patterns {
			matches := pattern.FindAllStringSubmatchIndex(raw, -1)
			for _, match := range matches {
				if overlaps(match[0], match[1], kept) {
					continue
				}
				kept = append(kept, span{start: match[0], end: match[1]})

				candidates = append(candidates, anchor.Candidate{
					Text:   raw[match[0]:match[1]],
					Offset: utf8.RuneCountInString(raw[:match[0]]),
					ActID:  buildActID(row.Category, raw, match),
				})
			}
		}
	}

	return candidates
}

// buildActID derives a normalized "year/number" identifier from a match,
// or "" when the citation form carries no act number.
func buildActID(category Category, raw string, match []int) string {
	group := func(n int) string {
		if 2*n+1 >= len(match) || match[2*n] < 0 {
			return ""
		}
		return raw[match[2*n]:match[2*n+1]]
	}

	switch category {
	case CategoryBengaliActNumber:
		year := bengaliDigitsToInt(group(1))
		number := bengaliDigitsToInt(group(2))
		if year == 0 || number == 0 {
			return ""
		}
		return strconv.Itoa(year) + "/" + strconv.Itoa(number)
	case CategoryEnglishActNumber, CategoryEnglishOrdinance:
		number := numeralToInt(group(1))
		year, _ := strconv.Atoi(group(2))
		if year == 0 || number == 0 {
			return ""
		}
		return strconv.Itoa(year) + "/" + strconv.Itoa(number)
	default:
		// Named-act citations carry no recoverable number.
		return ""
	}
}

// bengaliDigitsToInt converts a Bengali-digit string ("৩৯") to an int.
// Returns 0 on any non-digit input.
func bengaliDigitsToInt(s string) int {
	value := 0
	for _, r := range s {
		if r < '০' || r > '৯' {
			return 0
		}
		value = value*10 + int(r-'০')
	}
	if s == "" {
		return 0
	}
	return value
}

// numeralToInt parses either an Arabic-digit number or a Roman numeral
// ("XXXIX" → 39). Returns 0 when the input is neither.
func numeralToInt(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return romanToInt(strings.ToUpper(s))
}

var romanValues = map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100}

func romanToInt(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		value, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if i+1 < len(s) && romanValues[s[i+1]] > value {
			total -= value
			continue
		}
		total += value
	}
	return total
}
