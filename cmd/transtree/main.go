// Command transtree lints, diffs, extracts and machine-fills translation
// resources built on the placeholder string format.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZaguanLabs/transtree"
	"github.com/ZaguanLabs/transtree/htmltree"
	"github.com/ZaguanLabs/transtree/provider"
	"github.com/ZaguanLabs/transtree/store"
	"github.com/joho/godotenv"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = transtree.Version
	commit    = transtree.GitCommit
	buildDate = transtree.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("transtree", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Modes
	lintMode := fs.Bool("lint", false, "Check placeholder integrity of -target against -source")
	extractMode := fs.Bool("extract", false, "Extract canonical strings from an HTML file (or stdin)")
	fillMode := fs.Bool("fill", false, "Machine-translate keys missing from -target")
	diffFile := fs.String("diff", "", "Compare -source against this previous version")

	// Shared flags
	source := fs.String("source", "", "Source resource file (json, yaml or toml)")
	target := fs.String("target", "", "Target resource file (json, yaml or toml)")
	lang := fs.String("lang", "", "Target language code (e.g., es_ES, fr)")
	sourceLang := fs.String("source-lang", "en", "Source language code")
	selector := fs.String("selector", "", "CSS selector for -extract (default: whole fragment)")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	contextStr := fs.String("context", "", "Translation context (e.g., 'Checkout flow')")
	exclude := fs.String("exclude", "", "Comma-separated terms to never translate")
	dryRun := fs.Bool("dry-run", false, "Show what would be translated without calling the API")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// .env is optional; deployed environments provide the variables directly.
	_ = godotenv.Load()

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", transtree.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	switch {
	case *lintMode:
		return runLint(*source, *target, *jsonOutput, stdout)
	case *extractMode:
		return runExtract(fs.Args(), *selector, *jsonOutput, stdout)
	case *diffFile != "":
		return runDiff(*diffFile, *source, *jsonOutput, stdout)
	case *fillMode:
		return runFill(fillOptions{
			sourcePath: *source,
			targetPath: *target,
			lang:       *lang,
			sourceLang: *sourceLang,
			apiKey:     *apiKey,
			model:      *model,
			context:    *contextStr,
			exclude:    *exclude,
			dryRun:     *dryRun,
			quiet:      *quiet,
		}, stdout, stderr)
	}

	fs.Usage()
	return fmt.Errorf("one of -lint, -extract, -fill or -diff is required")
}

// runLint compares the placeholder inventory of every shared key and
// reports the damaged ones. A non-nil error (exit 1) signals issues.
func runLint(sourcePath, targetPath string, jsonOut bool, stdout io.Writer) error {
	if sourcePath == "" || targetPath == "" {
		return fmt.Errorf("-lint requires -source and -target")
	}

	src, err := store.ReadResourceFile(sourcePath)
	if err != nil {
		return err
	}
	tgt, err := store.ReadResourceFile(targetPath)
	if err != nil {
		return err
	}

	codec := transtree.NewCodec()

	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type keyIssues struct {
		Key    string   `json:"key"`
		Issues []string `json:"issues"`
	}
	report := make([]keyIssues, 0)
	checked := 0

	for _, k := range keys {
		translated, ok := tgt[k]
		if !ok {
			continue
		}
		checked++

		issues := codec.Lint(src[k], translated)
		if len(issues) == 0 {
			continue
		}
		ki := keyIssues{Key: k}
		for _, issue := range issues {
			ki.Issues = append(ki.Issues, issue.String())
		}
		report = append(report, ki)
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, ki := range report {
			fmt.Fprintf(stdout, "%s:\n", ki.Key)
			for _, s := range ki.Issues {
				fmt.Fprintf(stdout, "  - %s\n", s)
			}
		}
		if len(report) == 0 {
			fmt.Fprintf(stdout, "All %d translated keys are clean.\n", checked)
		}
	}

	if len(report) > 0 {
		return fmt.Errorf("%d of %d translated keys have placeholder issues", len(report), checked)
	}
	return nil
}

// runExtract parses an HTML file and prints the canonical placeholder
// strings it would produce. With a selector, each match's children become
// one string; without, the whole fragment becomes one.
func runExtract(args []string, selector string, jsonOut bool, stdout io.Writer) error {
	input, inputName, err := readInput(args)
	if err != nil {
		return err
	}

	codec := transtree.NewCodec()

	var outputs []string
	if selector != "" {
		nodes, err := htmltree.Select(input, selector)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			el, ok := n.(*transtree.Element)
			if !ok {
				continue
			}
			outputs = append(outputs, codec.Serialize(el.Children))
		}
	} else {
		nodes, err := htmltree.Parse(input)
		if err != nil {
			return err
		}
		outputs = append(outputs, codec.Serialize(nodes))
	}

	if jsonOut {
		type extractOutput struct {
			InputFile string   `json:"input_file"`
			Count     int      `json:"count"`
			Strings   []string `json:"strings"`
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(extractOutput{InputFile: inputName, Count: len(outputs), Strings: outputs})
	}

	for _, s := range outputs {
		fmt.Fprintln(stdout, s)
	}
	return nil
}

// runDiff compares the current source resource with a previous version and
// reports which keys need (re)translation.
func runDiff(oldPath, newPath string, jsonOut bool, stdout io.Writer) error {
	if newPath == "" {
		return fmt.Errorf("-diff requires -source")
	}

	oldRes, err := store.ReadResourceFile(oldPath)
	if err != nil {
		return fmt.Errorf("reading previous version: %w", err)
	}
	newRes, err := store.ReadResourceFile(newPath)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	diff := transtree.DiffResources(oldRes, newRes)
	stats := diff.Stats()

	if jsonOut {
		type diffOutput struct {
			SourceFile   string `json:"source_file"`
			PreviousFile string `json:"previous_file"`
			Stats        struct {
				Added     int `json:"added"`
				Removed   int `json:"removed"`
				Changed   int `json:"changed"`
				Unchanged int `json:"unchanged"`
			} `json:"stats"`
			NeedsTranslation []string `json:"needs_translation"`
		}

		out := diffOutput{
			SourceFile:       filepath.Base(newPath),
			PreviousFile:     filepath.Base(oldPath),
			NeedsTranslation: diff.NeedsTranslation(),
		}
		out.Stats.Added = stats.Added
		out.Stats.Removed = stats.Removed
		out.Stats.Changed = stats.Changed
		out.Stats.Unchanged = stats.Unchanged

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(stdout, "Diff: %s vs %s\n\n", filepath.Base(newPath), filepath.Base(oldPath))
	fmt.Fprintf(stdout, "Summary:\n")
	fmt.Fprintf(stdout, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(stdout, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(stdout, "  Changed:   %d\n\n", stats.Changed)

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "No changes detected. All translations are up to date.\n")
		return nil
	}

	for _, k := range diff.Added {
		fmt.Fprintf(stdout, "  + %s\n", k)
	}
	for _, k := range diff.Changed {
		fmt.Fprintf(stdout, "  ~ %s\n", k)
	}
	for _, k := range diff.Removed {
		fmt.Fprintf(stdout, "  - %s\n", k)
	}

	fmt.Fprintf(stdout, "\nNeeds translation: %d keys\n", len(diff.NeedsTranslation()))
	return nil
}

type fillOptions struct {
	sourcePath string
	targetPath string
	lang       string
	sourceLang string
	apiKey     string
	model      string
	context    string
	exclude    string
	dryRun     bool
	quiet      bool
}

// runFill machine-translates the source values of keys missing from the
// target resource and writes the merged file. Translations that damage
// placeholders are skipped rather than written.
func runFill(opts fillOptions, stdout, stderr io.Writer) error {
	if opts.sourcePath == "" || opts.targetPath == "" {
		return fmt.Errorf("-fill requires -source and -target")
	}
	if opts.lang == "" {
		return fmt.Errorf("-fill requires -lang")
	}

	src, err := store.ReadResourceFile(opts.sourcePath)
	if err != nil {
		return err
	}

	tgt, err := store.ReadResourceFile(opts.targetPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// A missing target starts empty and is created on write.
		tgt = make(map[string]string)
	}

	var missing []string
	for k := range src {
		if _, ok := tgt[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)

	if len(missing) == 0 {
		if !opts.quiet {
			fmt.Fprintf(stderr, "Nothing to fill: %s already covers all %d keys.\n",
				filepath.Base(opts.targetPath), len(src))
		}
		return nil
	}

	if opts.dryRun {
		fmt.Fprintf(stdout, "Dry run: %d of %d keys need translation to %s:\n\n",
			len(missing), len(src), opts.lang)
		for i, k := range missing {
			text := src[k]
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Fprintf(stdout, "%3d. %s = %q\n", i+1, k, text)
		}
		return nil
	}

	key := opts.apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("OpenAI API key required (-api-key or OPENAI_API_KEY env)")
	}

	p := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey: key,
		Model:  opts.model,
	})

	// Wrap with retry and rate limiting
	mt := transtree.NewRateLimitedProvider(
		transtree.NewRetryableProvider(p, transtree.DefaultRetryConfig()),
		transtree.RateLimitConfig{RequestsPerMinute: 60},
	)

	texts := make([]string, len(missing))
	for i, k := range missing {
		texts[i] = src[k]
	}

	var excluded []string
	if opts.exclude != "" {
		excluded = strings.Split(opts.exclude, ",")
		for i := range excluded {
			excluded[i] = strings.TrimSpace(excluded[i])
		}
	}

	if !opts.quiet {
		fmt.Fprintf(stderr, "Translating %d keys to %s...\n", len(missing), opts.lang)
	}

	start := time.Now()
	results, err := mt.Translate(context.Background(), transtree.TranslateRequest{
		Texts:         texts,
		TargetLang:    opts.lang,
		SourceLang:    opts.sourceLang,
		ExcludedTerms: excluded,
		Context:       opts.context,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	if len(results) != len(missing) {
		return &transtree.CountMismatchError{Expected: len(missing), Got: len(results)}
	}

	codec := transtree.NewCodec()
	filled, skipped := 0, 0
	for i, k := range missing {
		if issues := codec.Lint(texts[i], results[i]); len(issues) > 0 {
			skipped++
			fmt.Fprintf(stderr, "skipping %s: %v\n", k, issues)
			continue
		}
		tgt[k] = results[i]
		filled++
	}

	if err := store.WriteResourceFile(opts.targetPath, tgt); err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Filled:  %d\n", filled)
		fmt.Fprintf(stderr, "  Skipped: %d\n", skipped)
	}
	return nil
}

// readInput reads the first positional argument as a file, or stdin when
// there is none.
func readInput(args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	// Read from file - user-provided path is intentional for CLI
	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(args[0]), nil
}
