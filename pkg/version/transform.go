package version

import (
	"regexp"
	"strings"
)

// Risk classifies a proposed text repair.
type Risk string

const (
	// RiskNonSemantic marks repairs that cannot change meaning (encoding
	// damage, entity escapes). Only these may be applied.
	RiskNonSemantic Risk = "non-semantic"

	// RiskPotentialSemantic marks repairs that could change meaning.
	// They are logged for review and never applied.
	RiskPotentialSemantic Risk = "potential-semantic"
)

// Transformation records one proposed edit against a capture. Entries with
// Risk == RiskPotentialSemantic always have Applied == false.
type Transformation struct {
	Kind    string `json:"kind"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Offset  int    `json:"offset"`
	Risk    Risk   `json:"risk"`
	Applied bool   `json:"applied"`
}

// RepairRule is one entry of the ordered repair table: a pattern, its
// replacement, and the risk class deciding whether it may be applied.
type RepairRule struct {
	Kind    string
	Pattern *regexp.Regexp
	Replace string
	Risk    Risk
}

// DefaultRepairTable returns the ordered repair table for the statute
// source. Resolution is first-rule-wins per overlapping span; order in the
// table is the only priority mechanism. The table is data so it can be
// tested without running the scan loop.
func DefaultRepairTable() []RepairRule {
	return []RepairRule{
		// UTF-8 read as Windows-1252: smart quotes and dashes.
		{Kind: "mojibake_right_quote", Pattern: regexp.MustCompile(`â€™`), Replace: "’", Risk: RiskNonSemantic},
		{Kind: "mojibake_left_quote", Pattern: regexp.MustCompile(`â€œ`), Replace: "“", Risk: RiskNonSemantic},
		{Kind: "mojibake_dash", Pattern: regexp.MustCompile(`â€”`), Replace: "—", Risk: RiskNonSemantic},

		// HTML entities left behind by the scraper.
		{Kind: "html_entity_amp", Pattern: regexp.MustCompile(`&amp;`), Replace: "&", Risk: RiskNonSemantic},
		{Kind: "html_entity_lt", Pattern: regexp.MustCompile(`&lt;`), Replace: "<", Risk: RiskNonSemantic},
		{Kind: "html_entity_gt", Pattern: regexp.MustCompile(`&gt;`), Replace: ">", Risk: RiskNonSemantic},
		{Kind: "html_entity_quot", Pattern: regexp.MustCompile(`&quot;`), Replace: `"`, Risk: RiskNonSemantic},
		{Kind: "html_entity_nbsp", Pattern: regexp.MustCompile(`&nbsp;`), Replace: " ", Risk: RiskNonSemantic},

		// Literal no-break space.
		{Kind: "nbsp", Pattern: regexp.MustCompile("\u00a0"), Replace: " ", Risk: RiskNonSemantic},

		// Devanagari danda where the source convention is the Bengali
		// section terminator. Markers anchor offsets, so this is logged
		// only: swapping it could move or break a section boundary.
		{Kind: "danda_variant", Pattern: regexp.MustCompile("।"), Replace: "৷", Risk: RiskPotentialSemantic},

		// ASCII digits inside an otherwise Bengali numbering token.
		// Digit identity can carry legal meaning, so never auto-repaired.
		{Kind: "ascii_digit_in_bengali", Pattern: regexp.MustCompile(`[\x{0980}-\x{09ff}][0-9]+[\x{0980}-\x{09ff}]`), Replace: "", Risk: RiskPotentialSemantic},
	}
}

// TransformLog accumulates proposed repairs against one capture and keeps
// the corrected copy they produce. The raw capture is never touched: only
// the Corrected result reflects applied entries.
type TransformLog struct {
	entries   []Transformation
	corrected string
}

// Repair runs the rule table against raw and returns the resulting log.
// Non-semantic rules are applied to the corrected copy; potential-semantic
// rules are recorded with Applied == false and the copy left alone.
func Repair(raw string, table []RepairRule) *TransformLog {
	log := &TransformLog{corrected: raw}
	for _, rule := range table {
		log.apply(rule)
	}
	return log
}

func (l *TransformLog) apply(rule RepairRule) {
	matches := rule.Pattern.FindAllStringIndex(l.corrected, -1)
	if matches == nil {
		return
	}

	applied := rule.Risk == RiskNonSemantic
	for _, match := range matches {
		l.entries = append(l.entries, Transformation{
			Kind:    rule.Kind,
			Before:  l.corrected[match[0]:match[1]],
			After:   rule.Replace,
			Offset:  match[0],
			Risk:    rule.Risk,
			Applied: applied,
		})
	}

	if applied {
		l.corrected = rule.Pattern.ReplaceAllString(l.corrected, rule.Replace)
	}
}

// Append adds an externally proposed transformation. The risk invariant is
// enforced here: a potential-semantic entry is stored with Applied forced
// to false regardless of what the caller set.
func (l *TransformLog) Append(t Transformation) {
	if t.Risk == RiskPotentialSemantic {
		t.Applied = false
	}
	l.entries = append(l.entries, t)
}

// Entries returns the recorded transformations in application order.
func (l *TransformLog) Entries() []Transformation {
	out := make([]Transformation, len(l.entries))
	copy(out, l.entries)
	return out
}

// Corrected returns the repaired copy. It is a separate derivation; the
// raw capture that produced it is unchanged.
func (l *TransformLog) Corrected() string { return l.corrected }

// AppliedCount reports how many entries were actually applied.
func (l *TransformLog) AppliedCount() int {
	count := 0
	for _, entry := range l.entries {
		if entry.Applied {
			count++
		}
	}
	return count
}

// describeRisk is used in CLI summaries.
func describeRisk(risk Risk) string {
	if risk == RiskNonSemantic {
		return "safe, auto-applied to corrected copy"
	}
	return "logged only, review required"
}

// Summary renders a short human-readable account of the log.
func (l *TransformLog) Summary() string {
	if len(l.entries) == 0 {
		return "no repairs proposed"
	}
	var b strings.Builder
	for _, entry := range l.entries {
		b.WriteString(entry.Kind)
		b.WriteString(" (")
		b.WriteString(describeRisk(entry.Risk))
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
