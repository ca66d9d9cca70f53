package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/coolbeans/bdlex/pkg/anchor"
	"github.com/coolbeans/bdlex/pkg/citation"
	"github.com/coolbeans/bdlex/pkg/export"
	"github.com/coolbeans/bdlex/pkg/kv"
	"github.com/coolbeans/bdlex/pkg/manifest"
	"github.com/coolbeans/bdlex/pkg/structure"
	"github.com/coolbeans/bdlex/pkg/version"
)

var toolVersion = "0.1.0"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "bdlex",
		Short: "Bangladesh statute content-integrity toolchain",
		Long: `bdlex freezes captured statute text, anchors its structure and
cross-references at character offsets, and keeps the corpus manifest
that makes repeated extraction runs idempotent.`,
		Version: toolVersion,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .bdlex.yaml when present)")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(hashCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(coverageCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(clearCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractCmd() *cobra.Command {
	var (
		rawPath       string
		fragmentsPath string
		linksPath     string
		outputPath    string
		actID         string
		title         string
		volume        int
		language      string
		force         bool
		reason        string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Process one captured document into an export fragment",
		Long: `Freeze a raw capture, anchor its structure and cross-references,
write the export fragment, and record the act in the corpus manifest.

Example:
  bdlex extract --raw act-672.txt --fragments act-672-fragments.json \
    --id 672 --title "আয়কর আইন" --volume 42 --output act-672.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if language == "" {
				language = cfg.DefaultLanguage
			}

			rawBytes, err := os.ReadFile(rawPath)
			if err != nil {
				return fmt.Errorf("read raw capture: %w", err)
			}
			versioned := version.Freeze(string(rawBytes))

			var doc structure.DocumentFragments
			if err := readJSON(fragmentsPath, &doc); err != nil {
				return err
			}
			var linked []anchor.Candidate
			if linksPath != "" {
				if err := readJSON(linksPath, &linked); err != nil {
					return err
				}
			}

			provider := version.ProviderFor(cfg.HashAlgorithm)
			result := version.HashVersioned(cmd.Context(), provider, versioned)
			if !result.OK {
				return fmt.Errorf("content hash failed: %s", result.Reason)
			}

			store, m, err := loadManifest(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			decision := m.CheckLanguageAwareDuplicate(actID, manifest.Language(language))
			if decision.IsDuplicate && !decision.AllowExtraction && !force {
				fmt.Printf("Skipped: %s\n", decision.Message)
				return nil
			}

			idem := m.CheckIdempotency(actID, result.Hash)
			if idem.IsIdentical && !force {
				fmt.Printf("Unchanged: %s\n", idem.Message)
				return nil
			}

			log := version.Repair(versioned.Raw, version.DefaultRepairTable())
			if len(log.Entries()) > 0 {
				fmt.Printf("Repairs (%d applied):\n%s\n", log.AppliedCount(), log.Summary())
			}

			tree := structure.Build(versioned.Raw, doc)
			patterns := citation.NewScanner().Scan(versioned.Raw)
			refs, err := anchor.Anchor(versioned.Raw, tree, linked, patterns)
			if err != nil {
				return fmt.Errorf("anchor references: %w", err)
			}

			fragment := export.New(tree, refs)
			data, err := fragment.Encode()
			if err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("write export fragment: %w", err)
			}

			now := time.Now().UTC()
			entry := manifest.Entry{
				Title:               title,
				VolumeNumber:        volume,
				CaptureTimestamp:    now,
				ContentHash:         result.Hash,
				ContentLanguage:     manifest.Language(language),
				ContentLength:       utf8.RuneCountInString(versioned.Raw),
				CrossReferenceCount: len(refs),
			}
			if force && !idem.IsNew {
				m = m.ForceReExtract(actID, entry, reason, now)
			} else {
				m = m.Update(actID, entry, now)
			}
			if err := kv.SaveManifest(store, m); err != nil {
				return err
			}

			fmt.Printf("Extracted act %s: %d sections, %d references\n",
				actID, tree.Metadata.SectionCount, len(refs))
			fmt.Printf("  hash:   %s\n", result.Hash)
			fmt.Printf("  output: %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawPath, "raw", "", "raw capture text file (required)")
	cmd.Flags().StringVar(&fragmentsPath, "fragments", "", "document fragments JSON file (required)")
	cmd.Flags().StringVar(&linksPath, "links", "", "link-derived citation candidates JSON file")
	cmd.Flags().StringVar(&outputPath, "output", "export.json", "export fragment output path")
	cmd.Flags().StringVar(&actID, "id", "", "internal act identifier (required)")
	cmd.Flags().StringVar(&title, "title", "", "act title")
	cmd.Flags().IntVar(&volume, "volume", 0, "volume number")
	cmd.Flags().StringVar(&language, "language", "", "content language (bengali or english)")
	cmd.Flags().BoolVar(&force, "force", false, "re-extract even when content is unchanged")
	cmd.Flags().StringVar(&reason, "reason", "", "archive reason recorded on forced re-extraction")
	cmd.MarkFlagRequired("raw")
	cmd.MarkFlagRequired("fragments")
	cmd.MarkFlagRequired("id")

	return cmd
}

func hashCmd() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Print the content hash of a raw capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read raw capture: %w", err)
			}
			provider := version.ProviderFor(algorithm)
			result := version.Hash(context.Background(), provider, string(data))
			if !result.OK {
				return fmt.Errorf("hash failed: %s", result.Reason)
			}
			fmt.Println(result.Hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "sha256", "hash algorithm (sha256 or blake3)")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show corpus manifest statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			store, m, err := loadManifest(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats := m.CorpusStats
			fmt.Printf("Corpus manifest %s (updated %s)\n", m.Version, m.UpdatedAt.Format(time.RFC3339))
			fmt.Printf("  acts:       %d\n", stats.TotalActs)
			fmt.Printf("  volumes:    %d\n", stats.TotalVolumes)
			fmt.Printf("  characters: %d\n", stats.TotalCharacters)
			if stats.TotalActs > 0 {
				fmt.Printf("  captured:   %s to %s\n",
					stats.ExtractionDateRange.Earliest.Format("2006-01-02"),
					stats.ExtractionDateRange.Latest.Format("2006-01-02"))
			}
			fmt.Printf("  coverage:   %d%%\n", m.CrossReferenceCoverage.CoveragePercentage)
			return nil
		},
	}
}

func coverageCmd() *cobra.Command {
	var refsPath string
	var record bool

	cmd := &cobra.Command{
		Use:   "coverage [act-id...]",
		Short: "Compute cross-reference coverage against the corpus",
		Long: `Partition referenced act identifiers, given as arguments or as a JSON
list file, into those present in the corpus and those missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			store, m, err := loadManifest(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ids := args
			if refsPath != "" {
				var fromFile []string
				if err := readJSON(refsPath, &fromFile); err != nil {
					return err
				}
				ids = append(ids, fromFile...)
			}

			cov := m.ComputeCoverage(ids)
			fmt.Printf("Coverage: %d%% (%d in corpus, %d missing)\n",
				cov.CoveragePercentage, len(cov.ReferencedActsInCorpus), len(cov.ReferencedActsMissing))
			for _, id := range cov.ReferencedActsMissing {
				fmt.Printf("  missing: %s\n", id)
			}

			if record {
				m = m.RecordCoverage(cov, time.Now().UTC())
				if err := kv.SaveManifest(store, m); err != nil {
					return err
				}
				fmt.Println("Recorded on manifest.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&refsPath, "refs", "", "JSON file with a list of referenced act identifiers")
	cmd.Flags().BoolVar(&record, "record", false, "store the computed coverage on the manifest")
	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <act-id>",
		Short: "Show archived versions of an act",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			store, m, err := loadManifest(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			history := m.History(args[0])
			if len(history) == 0 {
				fmt.Printf("No archived versions for act %s\n", args[0])
				return nil
			}
			for i, archived := range history {
				fmt.Printf("%d. %s  %s  (%s)\n", i+1,
					archived.ArchivedAt.Format(time.RFC3339),
					archived.Entry.ContentHash,
					archived.Reason)
			}
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset the corpus manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("clear discards all manifest entries; re-run with --yes to confirm")
			}
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			store, m, err := loadManifest(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			cleared := m.Clear(time.Now().UTC())
			if err := kv.SaveManifest(store, cleared); err != nil {
				return err
			}
			fmt.Println("Manifest cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the reset")
	return cmd
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
