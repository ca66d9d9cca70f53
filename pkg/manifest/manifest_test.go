package manifest

import (
	"encoding/json"
	"testing"
	"time"
)

var (
	t0 = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 3, 30, 9, 0, 0, 0, time.UTC)
)

func entry(id string, volume int, lang Language, hash string, length int, captured time.Time) Entry {
	return Entry{
		InternalID:       id,
		Title:            "act " + id,
		VolumeNumber:     volume,
		CaptureTimestamp: captured,
		ContentHash:      hash,
		ContentLanguage:  lang,
		ContentLength:    length,
	}
}

func TestUpdateInsertsAndRecomputesStats(t *testing.T) {
	m := New(t0)
	m = m.Update("7", entry("7", 1, LanguageBengali, "sha256:aa", 100, t0), t0)
	m = m.Update("9", entry("9", 2, LanguageBengali, "sha256:bb", 250, t1), t1)

	if m.CorpusStats.TotalActs != 2 {
		t.Errorf("total acts: got %d, want 2", m.CorpusStats.TotalActs)
	}
	if m.CorpusStats.TotalVolumes != 2 {
		t.Errorf("total volumes: got %d, want 2", m.CorpusStats.TotalVolumes)
	}
	if m.CorpusStats.TotalCharacters != 350 {
		t.Errorf("total characters: got %d, want 350", m.CorpusStats.TotalCharacters)
	}
	if !m.CorpusStats.ExtractionDateRange.Earliest.Equal(t0) {
		t.Errorf("earliest: got %v, want %v", m.CorpusStats.ExtractionDateRange.Earliest, t0)
	}
	if !m.CorpusStats.ExtractionDateRange.Latest.Equal(t1) {
		t.Errorf("latest: got %v, want %v", m.CorpusStats.ExtractionDateRange.Latest, t1)
	}
}

func TestUpdateReplaceDoesNotDriftStats(t *testing.T) {
	m := New(t0)
	m = m.Update("7", entry("7", 1, LanguageEnglish, "sha256:aa", 100, t0), t0)
	m = m.Update("7", entry("7", 1, LanguageBengali, "sha256:bb", 300, t1), t1)

	if m.CorpusStats.TotalActs != 1 {
		t.Errorf("replacing an entry must not inflate total acts, got %d", m.CorpusStats.TotalActs)
	}
	if m.CorpusStats.TotalCharacters != 300 {
		t.Errorf("total characters: got %d, want 300", m.CorpusStats.TotalCharacters)
	}
}

func TestUpdateDoesNotMutateOriginal(t *testing.T) {
	m := New(t0)
	next := m.Update("7", entry("7", 1, LanguageBengali, "sha256:aa", 100, t0), t0)

	if len(m.Acts) != 0 {
		t.Errorf("original manifest mutated: %d acts", len(m.Acts))
	}
	if len(next.Acts) != 1 {
		t.Errorf("next manifest missing entry: %d acts", len(next.Acts))
	}
}

func TestUpdateForcesEntryIDToKey(t *testing.T) {
	m := New(t0).Update("7", entry("999", 1, LanguageBengali, "sha256:aa", 10, t0), t0)
	if m.Acts["7"].InternalID != "7" {
		t.Errorf("entry id must follow the map key, got %q", m.Acts["7"].InternalID)
	}
}

func TestVolumeIndexRebuilt(t *testing.T) {
	m := New(t0)
	m = m.Update("7", entry("7", 3, LanguageBengali, "sha256:aa", 10, t0), t0)
	m = m.Update("9", entry("9", 3, LanguageBengali, "sha256:bb", 10, t1), t1)

	record, ok := m.Volumes["3"]
	if !ok {
		t.Fatal("volume 3 missing from index")
	}
	if len(record.ExtractedActs) != 2 {
		t.Fatalf("volume 3 acts: got %v", record.ExtractedActs)
	}
	if record.ExtractedActs[0] != "7" || record.ExtractedActs[1] != "9" {
		t.Errorf("volume act list must be sorted: %v", record.ExtractedActs)
	}
	if !record.CaptureTimestamp.Equal(t1) {
		t.Errorf("volume timestamp must be the latest capture, got %v", record.CaptureTimestamp)
	}
}

func TestCheckLanguageAwareDuplicateBengaliReplacesEnglish(t *testing.T) {
	m := New(t0).Update("42", entry("42", 1, LanguageEnglish, "sha256:aa", 10, t0), t0)

	got := m.CheckLanguageAwareDuplicate("42", LanguageBengali)
	want := DuplicateDecision{IsDuplicate: true, AllowExtraction: true, ReplaceExisting: true}
	if got.IsDuplicate != want.IsDuplicate || got.AllowExtraction != want.AllowExtraction || got.ReplaceExisting != want.ReplaceExisting {
		t.Errorf("decision: got %+v", got)
	}
	if got.Flag != FlagLanguageReplace {
		t.Errorf("flag: got %q, want %q", got.Flag, FlagLanguageReplace)
	}
}

func TestCheckLanguageAwareDuplicateMatrix(t *testing.T) {
	cases := []struct {
		name     string
		existing Language
		incoming Language
		allow    bool
		replace  bool
		flag     string
	}{
		{"english over bengali blocked", LanguageBengali, LanguageEnglish, false, false, FlagLanguageBlocked},
		{"bengali over bengali blocked", LanguageBengali, LanguageBengali, false, false, FlagStandardDuplicate},
		{"english over english blocked", LanguageEnglish, LanguageEnglish, false, false, FlagStandardDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := New(t0).Update("1", entry("1", 1, tc.existing, "sha256:aa", 10, t0), t0)
			got := m.CheckLanguageAwareDuplicate("1", tc.incoming)
			if !got.IsDuplicate {
				t.Error("expected a duplicate")
			}
			if got.AllowExtraction != tc.allow || got.ReplaceExisting != tc.replace {
				t.Errorf("got %+v", got)
			}
			if got.Flag != tc.flag {
				t.Errorf("flag: got %q, want %q", got.Flag, tc.flag)
			}
		})
	}
}

func TestCheckLanguageAwareDuplicateAbsentAllows(t *testing.T) {
	got := New(t0).CheckLanguageAwareDuplicate("404", LanguageEnglish)
	if got.IsDuplicate || !got.AllowExtraction || got.ReplaceExisting {
		t.Errorf("absent act must allow extraction: %+v", got)
	}
	if got.Flag != FlagNewDocument {
		t.Errorf("flag: got %q, want %q", got.Flag, FlagNewDocument)
	}
}

func TestCheckIdempotency(t *testing.T) {
	m := New(t0).
		Update("7", entry("7", 1, LanguageBengali, "sha256:aa", 10, t0), t0).
		Update("8", entry("8", 1, LanguageBengali, "", 10, t0), t0)

	if got := m.CheckIdempotency("404", "sha256:zz"); !got.IsNew || got.Flag != FlagNewDocument {
		t.Errorf("new act: got %+v", got)
	}
	if got := m.CheckIdempotency("8", "sha256:zz"); got.Flag != FlagNoPreviousHash || got.IsNew || got.IsIdentical {
		t.Errorf("missing stored hash: got %+v", got)
	}
	if got := m.CheckIdempotency("7", "sha256:aa"); !got.IsIdentical || got.Flag != FlagIdentical {
		t.Errorf("identical: got %+v", got)
	}

	changed := m.CheckIdempotency("7", "sha256:bb")
	if changed.Flag != FlagSourceChanged || changed.IsNew || changed.IsIdentical {
		t.Errorf("changed source: got %+v", changed)
	}
	if changed.PreviousHash != "sha256:aa" || changed.NewHash != "sha256:bb" {
		t.Errorf("changed source must carry both hashes: %+v", changed)
	}
}

func TestForceReExtractArchivesPrevious(t *testing.T) {
	m := New(t0).Update("7", entry("7", 1, LanguageBengali, "sha256:aa", 10, t0), t0)
	m = m.ForceReExtract("7", entry("7", 1, LanguageBengali, "sha256:bb", 12, t1), "", t1)
	m = m.ForceReExtract("7", entry("7", 1, LanguageBengali, "sha256:cc", 14, t2), "layout_fix", t2)

	history := m.History("7")
	if len(history) != 2 {
		t.Fatalf("history length: got %d, want 2", len(history))
	}
	if history[0].Entry.ContentHash != "sha256:aa" || history[1].Entry.ContentHash != "sha256:bb" {
		t.Errorf("history must be oldest first: %+v", history)
	}
	if history[0].Reason != DefaultArchiveReason {
		t.Errorf("empty reason must fall back to the default, got %q", history[0].Reason)
	}
	if history[1].Reason != "layout_fix" {
		t.Errorf("reason: got %q", history[1].Reason)
	}
	if m.Acts["7"].ContentHash != "sha256:cc" {
		t.Errorf("live entry: got %q", m.Acts["7"].ContentHash)
	}
}

func TestForceReExtractOnNewActHasNoHistory(t *testing.T) {
	m := New(t0).ForceReExtract("7", entry("7", 1, LanguageBengali, "sha256:aa", 10, t0), "", t0)
	if got := m.History("7"); got != nil {
		t.Errorf("nothing to archive for a new act, got %+v", got)
	}
	if !m.IsDuplicate("7") {
		t.Error("entry must still be stored")
	}
}

func TestComputeCoverage(t *testing.T) {
	m := New(t0).
		Update("7", entry("7", 1, LanguageBengali, "sha256:aa", 10, t0), t0).
		Update("9", entry("9", 1, LanguageBengali, "sha256:bb", 10, t0), t0)

	cov := m.ComputeCoverage([]string{"9", "7", "404", "7", "", "405"})
	if len(cov.ReferencedActsInCorpus) != 2 || len(cov.ReferencedActsMissing) != 2 {
		t.Fatalf("partition: got %+v", cov)
	}
	for _, id := range cov.ReferencedActsInCorpus {
		for _, missing := range cov.ReferencedActsMissing {
			if id == missing {
				t.Fatalf("id %q appears in both partitions", id)
			}
		}
	}
	if cov.ReferencedActsInCorpus[0] != "7" || cov.ReferencedActsMissing[0] != "404" {
		t.Errorf("lists must be sorted: %+v", cov)
	}
	if cov.CoveragePercentage != 50 {
		t.Errorf("percentage: got %d, want 50", cov.CoveragePercentage)
	}
}

func TestComputeCoverageRounds(t *testing.T) {
	m := New(t0).Update("1", entry("1", 1, LanguageBengali, "sha256:aa", 10, t0), t0)
	cov := m.ComputeCoverage([]string{"1", "2", "3"})
	if cov.CoveragePercentage != 33 {
		t.Errorf("1 of 3 must round to 33, got %d", cov.CoveragePercentage)
	}

	m = m.Update("2", entry("2", 1, LanguageBengali, "sha256:bb", 10, t0), t0)
	cov = m.ComputeCoverage([]string{"1", "2", "3"})
	if cov.CoveragePercentage != 67 {
		t.Errorf("2 of 3 must round to 67, got %d", cov.CoveragePercentage)
	}
}

func TestComputeCoverageNoReferencesIsFull(t *testing.T) {
	cov := New(t0).ComputeCoverage(nil)
	if cov.CoveragePercentage != 100 {
		t.Errorf("no references means full coverage, got %d", cov.CoveragePercentage)
	}
	if len(cov.ReferencedActsInCorpus) != 0 || len(cov.ReferencedActsMissing) != 0 {
		t.Errorf("expected empty partitions: %+v", cov)
	}
}

func TestClearResetsButKeepsCreation(t *testing.T) {
	m := New(t0).Update("7", entry("7", 1, LanguageBengali, "sha256:aa", 10, t0), t0)
	m = m.ForceReExtract("7", entry("7", 1, LanguageBengali, "sha256:bb", 10, t1), "", t1)

	cleared := m.Clear(t2)
	if len(cleared.Acts) != 0 || len(cleared.Volumes) != 0 || len(cleared.VersionHistory) != 0 {
		t.Errorf("clear must drop all entries: %+v", cleared)
	}
	if cleared.CorpusStats.TotalActs != 0 {
		t.Errorf("stats must reset: %+v", cleared.CorpusStats)
	}
	if !cleared.CreatedAt.Equal(t0) {
		t.Errorf("creation time must survive a clear, got %v", cleared.CreatedAt)
	}
	if !cleared.UpdatedAt.Equal(t2) {
		t.Errorf("updated time: got %v, want %v", cleared.UpdatedAt, t2)
	}
}

func TestManifestJSONRoundTrip(t *testing.T) {
	m := New(t0).Update("7", entry("7", 2, LanguageBengali, "sha256:aa", 42, t0), t0)
	m = m.RecordCoverage(m.ComputeCoverage([]string{"7", "404"}), t1)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Manifest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Version != SchemaVersion {
		t.Errorf("version: got %q", back.Version)
	}
	if back.Acts["7"].ContentHash != "sha256:aa" {
		t.Errorf("entry lost in round trip: %+v", back.Acts["7"])
	}
	if back.CrossReferenceCoverage.CoveragePercentage != 50 {
		t.Errorf("coverage lost in round trip: %+v", back.CrossReferenceCoverage)
	}
}
