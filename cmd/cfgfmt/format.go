package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cfgfmt/internal/format"
	"cfgfmt/internal/project"
	"cfgfmt/internal/runner"
	"cfgfmt/internal/textenc"
	"cfgfmt/internal/walk"
)

var formatCmd = &cobra.Command{
	Use:   "format [flags] <dir>",
	Short: "Format *.cfg files under a directory",
	Long: `Batch-format the .cfg files under a directory. Files are rewritten in
place through a backup-guarded atomic replace; --check reports pending
changes without writing. Only whitespace is ever touched.`,
	Example: `  cfgfmt format ./cfg
  cfgfmt format ./cfg --check
  cfgfmt format ./cfg --exclude "**/autoexec.cfg,**/run_async.cfg"
  cfgfmt format ./cfg --fail-fast`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func init() {
	f := formatCmd.Flags()
	f.Bool("check", false, "report files that need formatting, write nothing (exit 1 if any)")
	f.Bool("dry-run", false, "alias for --check")
	f.Bool("fail-fast", false, "stop after the first failed file")
	f.StringArray("exclude", nil, "exclude glob patterns (comma separated, repeatable)")
	f.Bool("no-recursive", false, "only process the directory itself, not subdirectories")
	f.String("encoding", textenc.DefaultName, "text encoding for reading and writing")
	f.Bool("no-backup", false, "skip the timestamped backup before rewriting")
	f.Bool("no-cache", false, "do not skip files cached as already clean")
	f.String("align", string(format.AlignGlobal), "alignment mode (global|block)")
	f.Int("tab-width", format.DefaultTabWidth, "spaces per TAB")
	f.Int("key-cap", format.DefaultKeyCap, "maximum key column width before alignment gives up")
	f.Int("comment-cap", format.DefaultCommentCap, "maximum column reserved for trailing comments")
	f.Bool("no-echo-tables", false, "disable column alignment of echo table rows")
	f.String("format", "text", "output format (text|json)")
}

//nolint:cyclop,funlen
func runFormat(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	flags := cmd.Flags()
	check, _ := flags.GetBool("check")
	dryRun, _ := flags.GetBool("dry-run")
	check = check || dryRun
	failFast, _ := flags.GetBool("fail-fast")
	excludeFlags, _ := flags.GetStringArray("exclude")
	noRecursive, _ := flags.GetBool("no-recursive")
	encodingName, _ := flags.GetString("encoding")
	noBackup, _ := flags.GetBool("no-backup")
	noCache, _ := flags.GetBool("no-cache")
	alignFlag, _ := flags.GetString("align")
	tabWidth, _ := flags.GetInt("tab-width")
	keyCap, _ := flags.GetInt("key-cap")
	commentCap, _ := flags.GetInt("comment-cap")
	noEchoTables, _ := flags.GetBool("no-echo-tables")
	outputFormat, _ := flags.GetString("format")

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
	if err := applyColorMode(colorMode); err != nil {
		return err
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("format: unsupported output format %q", outputFormat)
	}

	root := args[0]
	excludes := append([]string{}, walk.DefaultExcludes...)

	// Per-tree defaults from .cfgfmt.toml; explicit flags win.
	if manifest, ok, err := project.Load(root); err != nil {
		return err
	} else if ok {
		pf := manifest.Config.Format
		if !flags.Changed("align") && pf.Align != "" {
			alignFlag = pf.Align
		}
		if !flags.Changed("tab-width") && pf.TabWidth != nil {
			tabWidth = *pf.TabWidth
		}
		if !flags.Changed("key-cap") && pf.KeyCap != nil {
			keyCap = *pf.KeyCap
		}
		if !flags.Changed("comment-cap") && pf.CommentCap != nil {
			commentCap = *pf.CommentCap
		}
		if !flags.Changed("no-echo-tables") && pf.EchoTables != nil {
			noEchoTables = !*pf.EchoTables
		}
		if !flags.Changed("encoding") && pf.Encoding != "" {
			encodingName = pf.Encoding
		}
		excludes = append(excludes, pf.Exclude...)
	}
	excludes = append(excludes, walk.SplitExcludes(excludeFlags)...)

	align := format.AlignMode(alignFlag)
	if !align.Valid() {
		return fmt.Errorf("format: invalid alignment mode %q (global|block)", alignFlag)
	}
	codec, err := textenc.Resolve(encodingName)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}

	files, err := walk.Collect(root, walk.Options{
		Recursive: !noRecursive,
		Excludes:  excludes,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s  %s  (%v)\n", failedColor.Sprintf("%-14s", "failed"), root, err)
		return &exitCodeError{code: 2}
	}

	var cache *runner.CleanCache
	if !noCache {
		// A broken cache dir only costs the speedup.
		cache, _ = runner.OpenCleanCache("cfgfmt")
	}

	opts := runner.Options{
		Check:    check,
		FailFast: failFast,
		Backup:   !noBackup,
		Cache:    cache,
		Codec:    codec,
		Format: format.Options{
			AlignMode:    align,
			TabWidth:     tabWidth,
			KeyCap:       keyCap,
			CommentCap:   commentCap,
			NoEchoTables: noEchoTables,
		},
	}

	if verbose {
		fmt.Fprintf(os.Stdout, "info: root=%s recursive=%v files=%d encoding=%s backup=%v align=%s\n",
			root, !noRecursive, len(files), codec.Name(), !noBackup, align)
	}

	results, summary, err := runner.New(opts).Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		if err := renderJSON(results, summary, check); err != nil {
			return err
		}
	default:
		renderText(results, summary, quiet)
	}

	if code := runner.ExitCode(summary, check); code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

var (
	okColor      = color.New(color.FgGreen)
	changedColor = color.New(color.FgCyan)
	pendingColor = color.New(color.FgYellow)
	failedColor  = color.New(color.FgRed, color.Bold)
)

func applyColorMode(mode string) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid color mode %q (auto|on|off)", mode)
	}
	return nil
}

func renderText(results []runner.FileResult, summary runner.Summary, quiet bool) {
	for _, res := range results {
		switch res.Outcome {
		case runner.OutcomeUnchanged:
			if quiet {
				continue
			}
			fmt.Fprintf(os.Stdout, "%s  %s\n", okColor.Sprintf("%-14s", "ok"), res.Path)
		case runner.OutcomeFormatted:
			if quiet {
				continue
			}
			fmt.Fprintf(os.Stdout, "%s  %s\n", changedColor.Sprintf("%-14s", "reformatted"), res.Path)
		case runner.OutcomePendingChange:
			if quiet {
				continue
			}
			fmt.Fprintf(os.Stdout, "%s  %s\n", pendingColor.Sprintf("%-14s", "would reformat"), res.Path)
		case runner.OutcomeFailed:
			fmt.Fprintf(os.Stdout, "%s  %s  (%v)\n", failedColor.Sprintf("%-14s", "failed"), res.Path, res.Err)
		}
	}

	fmt.Fprintf(os.Stdout, "summary: formatted=%d unchanged=%d pending=%d failed=%d\n",
		summary.Formatted, summary.Unchanged, summary.Pending, summary.Failed)
}

func renderJSON(results []runner.FileResult, summary runner.Summary, check bool) error {
	type jsonResult struct {
		Path             string `json:"path"`
		Outcome          string `json:"outcome"`
		Error            string `json:"error,omitempty"`
		SigFallbackLines []int  `json:"sig_fallback_lines,omitempty"`
	}
	type jsonPayload struct {
		Check     bool         `json:"check"`
		Files     []jsonResult `json:"files"`
		Formatted int          `json:"formatted"`
		Unchanged int          `json:"unchanged"`
		Pending   int          `json:"pending"`
		Failed    int          `json:"failed"`
		ExitCode  int          `json:"exit_code"`
	}

	payload := jsonPayload{
		Check:     check,
		Files:     make([]jsonResult, 0, len(results)),
		Formatted: summary.Formatted,
		Unchanged: summary.Unchanged,
		Pending:   summary.Pending,
		Failed:    summary.Failed,
		ExitCode:  runner.ExitCode(summary, check),
	}
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Outcome: res.Outcome.String(), SigFallbackLines: res.SigFallbackLines}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload.Files = append(payload.Files, jr)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
