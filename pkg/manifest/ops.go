package manifest

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DuplicateDecision is the outcome of a language-aware duplicate check.
type DuplicateDecision struct {
	IsDuplicate     bool   `json:"is_duplicate"`
	AllowExtraction bool   `json:"allow_extraction"`
	ReplaceExisting bool   `json:"replace_existing"`
	Flag            string `json:"flag"`
	Message         string `json:"message"`
}

// IdempotencyResult classifies a re-extraction against the stored hash.
type IdempotencyResult struct {
	IsNew        bool   `json:"is_new"`
	IsIdentical  bool   `json:"is_identical"`
	Flag         string `json:"flag"`
	PreviousHash string `json:"previous_hash,omitempty"`
	NewHash      string `json:"new_hash,omitempty"`
	Message      string `json:"message"`
}

// IsDuplicate reports whether an act with this identifier is already in
// the corpus, regardless of language.
func (m Manifest) IsDuplicate(internalID string) bool {
	_, ok := m.Acts[internalID]
	return ok
}

// CheckLanguageAwareDuplicate applies the language preference rules:
// Bengali content replaces an English entry for the same act, any other
// collision blocks extraction, and an absent act always allows it.
func (m Manifest) CheckLanguageAwareDuplicate(internalID string, language Language) DuplicateDecision {
	existing, ok := m.Acts[internalID]
	if !ok {
		return DuplicateDecision{
			AllowExtraction: true,
			Flag:            FlagNewDocument,
			Message:         fmt.Sprintf("act %s is not in the corpus", internalID),
		}
	}

	if existing.ContentLanguage == LanguageEnglish && language == LanguageBengali {
		return DuplicateDecision{
			IsDuplicate:     true,
			AllowExtraction: true,
			ReplaceExisting: true,
			Flag:            FlagLanguageReplace,
			Message:         fmt.Sprintf("act %s has english content; bengali replaces it", internalID),
		}
	}

	if existing.ContentLanguage == LanguageBengali && language == LanguageEnglish {
		return DuplicateDecision{
			IsDuplicate: true,
			Flag:        FlagLanguageBlocked,
			Message:     fmt.Sprintf("act %s already has bengali content; english is not stored over it", internalID),
		}
	}

	return DuplicateDecision{
		IsDuplicate: true,
		Flag:        FlagStandardDuplicate,
		Message:     fmt.Sprintf("act %s is already in the corpus with %s content", internalID, existing.ContentLanguage),
	}
}

// CheckIdempotency compares a fresh capture's content hash against the
// stored entry. It never mutates the manifest; recording the new hash is
// the caller's Update.
func (m Manifest) CheckIdempotency(internalID, newHash string) IdempotencyResult {
	existing, ok := m.Acts[internalID]
	if !ok {
		return IdempotencyResult{
			IsNew:   true,
			Flag:    FlagNewDocument,
			NewHash: newHash,
			Message: fmt.Sprintf("act %s has no stored entry", internalID),
		}
	}

	if existing.ContentHash == "" {
		return IdempotencyResult{
			Flag:    FlagNoPreviousHash,
			NewHash: newHash,
			Message: fmt.Sprintf("act %s predates content hashing; treating source as changed", internalID),
		}
	}

	if existing.ContentHash == newHash {
		return IdempotencyResult{
			IsIdentical:  true,
			Flag:         FlagIdentical,
			PreviousHash: existing.ContentHash,
			NewHash:      newHash,
			Message:      fmt.Sprintf("act %s is unchanged since the last capture", internalID),
		}
	}

	return IdempotencyResult{
		Flag:         FlagSourceChanged,
		PreviousHash: existing.ContentHash,
		NewHash:      newHash,
		Message:      fmt.Sprintf("act %s changed at the source", internalID),
	}
}

// Update upserts an entry and returns the next manifest with stats and
// the volume index fully recomputed. The entry's InternalID is forced to
// the key so the two can never disagree.
func (m Manifest) Update(internalID string, entry Entry, now time.Time) Manifest {
	next := m.clone()
	entry.InternalID = internalID
	next.Acts[internalID] = entry
	next.recompute()
	next.UpdatedAt = now
	return next
}

// ForceReExtract archives the current entry for an act (when one exists)
// and then stores the new one. History is append-only; nothing is ever
// removed from it. An empty reason falls back to DefaultArchiveReason.
func (m Manifest) ForceReExtract(internalID string, entry Entry, reason string, now time.Time) Manifest {
	next := m.clone()
	if reason == "" {
		reason = DefaultArchiveReason
	}
	if existing, ok := next.Acts[internalID]; ok {
		next.VersionHistory[internalID] = append(next.VersionHistory[internalID], ArchivedEntry{
			Entry:      existing,
			ArchivedAt: now,
			Reason:     reason,
		})
	}
	return next.Update(internalID, entry, now)
}

// History returns the archived versions of an act, oldest first. The
// returned slice is a copy.
func (m Manifest) History(internalID string) []ArchivedEntry {
	history := m.VersionHistory[internalID]
	if len(history) == 0 {
		return nil
	}
	copied := make([]ArchivedEntry, len(history))
	copy(copied, history)
	return copied
}

// ComputeCoverage partitions the distinct non-empty referenced act
// identifiers into present and missing, with a rounded percentage. No
// references means full coverage. Both lists come back sorted.
func (m Manifest) ComputeCoverage(referencedActIDs []string) Coverage {
	seen := make(map[string]bool)
	var present, missing []string
	for _, id := range referencedActIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := m.Acts[id]; ok {
			present = append(present, id)
		} else {
			missing = append(missing, id)
		}
	}
	sort.Strings(present)
	sort.Strings(missing)

	percentage := 100
	if total := len(present) + len(missing); total > 0 {
		percentage = int(math.Round(float64(len(present)) / float64(total) * 100))
	}

	return Coverage{
		ReferencedActsInCorpus: present,
		ReferencedActsMissing:  missing,
		CoveragePercentage:     percentage,
	}
}

// RecordCoverage stores a computed coverage snapshot on the manifest.
func (m Manifest) RecordCoverage(coverage Coverage, now time.Time) Manifest {
	next := m.clone()
	next.CrossReferenceCoverage = coverage
	next.UpdatedAt = now
	return next
}

// Clear returns an empty manifest. The original creation time is kept so
// the corpus lifetime survives a wipe; everything else resets.
func (m Manifest) Clear(now time.Time) Manifest {
	next := New(now)
	if !m.CreatedAt.IsZero() {
		next.CreatedAt = m.CreatedAt
	}
	return next
}
