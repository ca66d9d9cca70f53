// Package version freezes raw document captures and derives integrity
// hashes from them. The raw capture is the sole anchor for hashing and
// for every character offset computed elsewhere; nothing in this package
// ever rewrites it.
package version

import (
	"golang.org/x/text/unicode/norm"
)

// Versioned holds the two copies of a captured document: the raw capture
// exactly as extracted, and its Unicode canonical-composition (NFC) form.
// The normalized copy changes no wording, spelling, or spacing; it only
// composes canonically equivalent sequences.
type Versioned struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
}

// Freeze captures text as an immutable raw copy and derives its NFC form.
// The raw copy is returned byte-for-byte unchanged.
func Freeze(text string) Versioned {
	return Versioned{
		Raw:        text,
		Normalized: norm.NFC.String(text),
	}
}
