// Package manifest maintains corpus-level bookkeeping across repeated
// extractions: deduplication, language preference, idempotency, and
// cross-reference coverage. The manifest is an immutable value: every
// operation takes the current manifest and returns the next one, so
// callers load, apply, and persist without ambient mutation.
package manifest

import (
	"sort"
	"strconv"
	"time"
)

// SchemaVersion identifies the persisted manifest layout.
const SchemaVersion = "1.0.0"

// Language tags a stored document's content language. Bengali is the
// authoritative language of the source and always wins over English.
type Language string

const (
	LanguageBengali Language = "bengali"
	LanguageEnglish Language = "english"
)

// Machine-readable decision flags.
const (
	FlagNewDocument       = "new_document"
	FlagStandardDuplicate = "standard_duplicate"
	FlagLanguageReplace   = "language_replace"
	FlagLanguageBlocked   = "language_blocked"
	FlagIdentical         = "identical"
	FlagNoPreviousHash    = "no_previous_hash"
	FlagSourceChanged     = "source_changed"
)

// DefaultArchiveReason tags archived entries when the caller gives none.
const DefaultArchiveReason = "forced_re_extraction"

// Entry is the stored record for one act.
type Entry struct {
	InternalID          string    `json:"internal_id"`
	Title               string    `json:"title"`
	VolumeNumber        int       `json:"volume_number"`
	CaptureTimestamp    time.Time `json:"capture_timestamp"`
	ContentHash         string    `json:"content_hash"`
	ContentLanguage     Language  `json:"content_language"`
	ContentLength       int       `json:"content_length"`
	CrossReferenceCount int       `json:"cross_reference_count"`
}

// ArchivedEntry is a superseded entry kept in the append-only history.
type ArchivedEntry struct {
	Entry      Entry     `json:"entry"`
	ArchivedAt time.Time `json:"archived_at"`
	Reason     string    `json:"reason"`
}

// VolumeRecord groups the acts extracted from one volume.
type VolumeRecord struct {
	VolumeNumber     int       `json:"volume_number"`
	CaptureTimestamp time.Time `json:"capture_timestamp"`
	ExtractedActs    []string  `json:"extracted_acts"`
}

// DateRange bounds the capture timestamps in the corpus.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// Stats are corpus aggregates, always recomputed from the full entry set
// rather than drifted incrementally.
type Stats struct {
	TotalActs           int       `json:"total_acts"`
	TotalVolumes        int       `json:"total_volumes"`
	TotalCharacters     int       `json:"total_characters"`
	ExtractionDateRange DateRange `json:"extraction_date_range"`
}

// Coverage partitions the distinct referenced act identifiers into those
// present in the corpus and those missing. It is derived on request, not
// stored authoritatively.
type Coverage struct {
	ReferencedActsInCorpus []string `json:"referenced_acts_in_corpus"`
	ReferencedActsMissing  []string `json:"referenced_acts_missing"`
	CoveragePercentage     int      `json:"coverage_percentage"`
}

// Manifest is the durable corpus index.
type Manifest struct {
	Version                string                     `json:"version"`
	CreatedAt              time.Time                  `json:"created_at"`
	UpdatedAt              time.Time                  `json:"updated_at"`
	CorpusStats            Stats                      `json:"corpus_stats"`
	CrossReferenceCoverage Coverage                   `json:"cross_reference_coverage"`
	Acts                   map[string]Entry           `json:"acts"`
	Volumes                map[string]VolumeRecord    `json:"volumes"`
	VersionHistory         map[string][]ArchivedEntry `json:"version_history"`
}

// New returns an empty manifest stamped with the caller's clock.
func New(now time.Time) Manifest {
	return Manifest{
		Version:        SchemaVersion,
		CreatedAt:      now,
		UpdatedAt:      now,
		Acts:           make(map[string]Entry),
		Volumes:        make(map[string]VolumeRecord),
		VersionHistory: make(map[string][]ArchivedEntry),
	}
}

// clone copies the manifest deeply enough that mutating the copy never
// touches the original's maps or history slices.
func (m Manifest) clone() Manifest {
	next := m
	next.Acts = make(map[string]Entry, len(m.Acts))
	for id, entry := range m.Acts {
		next.Acts[id] = entry
	}
	next.Volumes = make(map[string]VolumeRecord, len(m.Volumes))
	for key, record := range m.Volumes {
		acts := make([]string, len(record.ExtractedActs))
		copy(acts, record.ExtractedActs)
		record.ExtractedActs = acts
		next.Volumes[key] = record
	}
	next.VersionHistory = make(map[string][]ArchivedEntry, len(m.VersionHistory))
	for id, history := range m.VersionHistory {
		copied := make([]ArchivedEntry, len(history))
		copy(copied, history)
		next.VersionHistory[id] = copied
	}
	return next
}

// recompute rebuilds corpus stats and the volume index purely from the
// current entry set.
func (m *Manifest) recompute() {
	stats := Stats{}
	volumes := make(map[string]VolumeRecord)
	seenVolumes := make(map[int]bool)

	for _, entry := range m.Acts {
		stats.TotalActs++
		stats.TotalCharacters += entry.ContentLength
		if !seenVolumes[entry.VolumeNumber] {
			seenVolumes[entry.VolumeNumber] = true
			stats.TotalVolumes++
		}

		first := stats.TotalActs == 1
		if first || entry.CaptureTimestamp.Before(stats.ExtractionDateRange.Earliest) {
			stats.ExtractionDateRange.Earliest = entry.CaptureTimestamp
		}
		if first || entry.CaptureTimestamp.After(stats.ExtractionDateRange.Latest) {
			stats.ExtractionDateRange.Latest = entry.CaptureTimestamp
		}

		key := strconv.Itoa(entry.VolumeNumber)
		record := volumes[key]
		record.VolumeNumber = entry.VolumeNumber
		if entry.CaptureTimestamp.After(record.CaptureTimestamp) {
			record.CaptureTimestamp = entry.CaptureTimestamp
		}
		record.ExtractedActs = append(record.ExtractedActs, entry.InternalID)
		volumes[key] = record
	}

	for key, record := range volumes {
		sort.Strings(record.ExtractedActs)
		volumes[key] = record
	}

	m.CorpusStats = stats
	m.Volumes = volumes
}
