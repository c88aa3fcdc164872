package cmd

import (
	"github.com/spf13/cobra"

	"github.com/trimport/trimport/internal/config"
)

// rewriteFlags are shared across every verb that writes rewritten source
// (minify, apply-plan, and their -dir variants).
type rewriteFlags struct {
	inPlace    bool
	dryRun     bool
	diff       bool
	diffCtx    int
	backupExt  string
	stdin      bool
	stdout     bool
}

func (f *rewriteFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.inPlace, "in-place", false, "write rewritten source back to the original file")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "compute the rewrite but skip writing any output")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a unified diff of the rewrite instead of the rewritten source")
	cmd.Flags().IntVar(&f.diffCtx, "diff-context", 3, "lines of context around each diff hunk")
	cmd.Flags().StringVar(&f.backupExt, "backup-ext", "", "rename the original file with this suffix before an in-place write")
	cmd.Flags().BoolVar(&f.stdin, "stdin", false, "read source from stdin instead of a file argument")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "write rewritten source to stdout regardless of --in-place")
}

// applyProjectConfig fills in project-config defaults for flags the user
// left at their zero value on the command line. Explicit CLI flags always
// win: each field is only overridden when cmd.Flags().Changed reports the
// user never set it.
func (f *rewriteFlags) applyProjectConfig(cmd *cobra.Command, cfg *config.ProjectConfig) {
	if cfg == nil {
		return
	}
	if cfg.Rewrite.BackupExt != "" && !cmd.Flags().Changed("backup-ext") {
		f.backupExt = cfg.Rewrite.BackupExt
	}
}

// reportFlags are shared across every verb that can emit run statistics.
type reportFlags struct {
	stats        bool
	jsonOut      bool
	outputJSON   string
	failOnChange bool
	failOnBailout bool
	failOnError  bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.stats, "stats", false, "print a run summary to stderr")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print the run summary as JSON to stdout")
	cmd.Flags().StringVar(&f.outputJSON, "output-json", "", "write the run summary as JSON to this path")
	cmd.Flags().BoolVar(&f.failOnChange, "fail-on-change", false, "exit non-zero if any file would be rewritten")
	cmd.Flags().BoolVar(&f.failOnBailout, "fail-on-bailout", false, "exit non-zero if any function bails out of renaming")
	cmd.Flags().BoolVar(&f.failOnError, "fail-on-error", false, "exit non-zero if any file fails to parse or rewrite")
}

// applyProjectConfig merges report-shape and fail-trigger defaults from
// .trimportrc.yml, skipping any flag the user explicitly passed.
func (f *reportFlags) applyProjectConfig(cmd *cobra.Command, cfg *config.ProjectConfig) {
	if cfg == nil {
		return
	}
	if cfg.Report.Stats && !cmd.Flags().Changed("stats") {
		f.stats = true
	}
	if cfg.Report.JSON && !cmd.Flags().Changed("json") {
		f.jsonOut = true
	}
	if cfg.Rewrite.FailOnBailout && !cmd.Flags().Changed("fail-on-bailout") {
		f.failOnBailout = true
	}
	if cfg.Rewrite.FailOnChange && !cmd.Flags().Changed("fail-on-change") {
		f.failOnChange = true
	}
}

// dirFlags are shared across every `*-dir` verb (the parallel directory
// driver's Policy, spec §4.8).
type dirFlags struct {
	include          []string
	exclude          []string
	includeFile      string
	excludeFile      string
	maxDepth         int
	includeHidden    bool
	followSymlinks   bool
	globCaseInsens   bool
	respectGitignore bool
	jobs             int
	outDir           string
}

func (f *dirFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "glob pattern to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "glob pattern to exclude, wins over --include (repeatable)")
	cmd.Flags().StringVar(&f.includeFile, "include-file", "", "file of newline-separated include globs")
	cmd.Flags().StringVar(&f.excludeFile, "exclude-file", "", "file of newline-separated exclude globs")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum directory depth, root at depth 1 (0 = unlimited)")
	cmd.Flags().BoolVar(&f.includeHidden, "include-hidden", false, "include dotfiles and dot-directories")
	cmd.Flags().BoolVar(&f.followSymlinks, "follow-symlinks", false, "follow symlinked directories while walking")
	cmd.Flags().BoolVar(&f.globCaseInsens, "glob-case-insensitive", false, "match include/exclude globs case-insensitively")
	cmd.Flags().BoolVar(&f.respectGitignore, "respect-gitignore", true, "honor layered .gitignore files before include/exclude")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "worker pool size (0 = detected CPU count)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "output directory for rewritten files, mirroring the input tree")
}

// applyProjectConfig merges the project config's walk policy and out_dir
// default into f, skipping any flag the user explicitly passed on the
// command line.
func (f *dirFlags) applyProjectConfig(cmd *cobra.Command, cfg *config.ProjectConfig) {
	if cfg == nil {
		return
	}
	w := cfg.Walk
	if len(w.Include) > 0 && !cmd.Flags().Changed("include") {
		f.include = w.Include
	}
	if len(w.Exclude) > 0 && !cmd.Flags().Changed("exclude") {
		f.exclude = w.Exclude
	}
	if w.MaxDepth != 0 && !cmd.Flags().Changed("max-depth") {
		f.maxDepth = w.MaxDepth
	}
	if w.IncludeHidden && !cmd.Flags().Changed("include-hidden") {
		f.includeHidden = true
	}
	if w.FollowSymlinks && !cmd.Flags().Changed("follow-symlinks") {
		f.followSymlinks = true
	}
	if w.CaseInsensitive && !cmd.Flags().Changed("glob-case-insensitive") {
		f.globCaseInsens = true
	}
	if !cmd.Flags().Changed("respect-gitignore") {
		f.respectGitignore = w.RespectGitignoreOrDefault()
	}
	if w.Jobs > 0 && !cmd.Flags().Changed("jobs") {
		f.jobs = w.Jobs
	}
	if cfg.OutDir != "" && !cmd.Flags().Changed("out-dir") {
		f.outDir = cfg.OutDir
	}
}
