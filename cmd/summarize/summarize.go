// Package summarize is a subcommand of the root command. It parses a batch of
// ChampSim simulator run logs into schema-stable metric records, normalizes
// IPC against a baseline config, and writes the batch summary reports.
package summarize

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"simspect/internal/champlog"
	"simspect/internal/common"
	"simspect/internal/labels"
	"simspect/internal/normalize"
	"simspect/internal/progress"
	"simspect/internal/report"
	"simspect/internal/schema"
	"simspect/internal/util"
)

const cmdName = "summarize"

var examples = []string{
	fmt.Sprintf("  Summarize logs in the current directory:  $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Recurse into run directories:             $ %s %s --glob 'runs/**/*.txt'", common.AppName, cmdName),
	fmt.Sprintf("  Custom config labels and baseline:        $ %s %s --label-map 'fdip_:fdip,base_:base' --baseline base", common.AppName, cmdName),
	fmt.Sprintf("  Serve batch gauges to Prometheus:         $ %s %s --prom-listen :9641", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Summarize ChampSim run logs into metric reports",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagGlobs       []string
	flagOutdir      string
	flagBaseline    string
	flagLabelMap    string
	flagLabelConfig string
	flagWorkers     int
	flagPromListen  string
)

// flag names
const (
	flagGlobsName       = "glob"
	flagOutdirName      = "outdir"
	flagBaselineName    = "baseline"
	flagLabelMapName    = "label-map"
	flagLabelConfigName = "label-config"
	flagWorkersName     = "workers"
	flagPromListenName  = "prom-listen"
)

func init() {
	Cmd.Flags().StringSliceVar(&flagGlobs, flagGlobsName, []string{"*.txt"}, "")
	Cmd.Flags().StringVar(&flagLabelMap, flagLabelMapName, labels.DefaultRuleSpec, "")
	Cmd.Flags().StringVar(&flagLabelConfig, flagLabelConfigName, "", "")
	Cmd.Flags().StringVar(&flagBaseline, flagBaselineName, labels.DefaultBaseline, "")
	Cmd.Flags().StringVar(&flagOutdir, flagOutdirName, "", "")
	Cmd.Flags().StringSliceVar(&common.FlagFormat, common.FlagFormatName, []string{report.FormatAll}, "")
	Cmd.Flags().IntVar(&flagWorkers, flagWorkersName, runtime.NumCPU(), "")
	Cmd.Flags().StringVar(&flagPromListen, flagPromListenName, "", "")

	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Flags:")
	for _, group := range getFlagGroups() {
		cmd.Printf("  %s:\n", group.GroupName)
		for _, flag := range group.Flags {
			flagDefault := ""
			if cmd.Flags().Lookup(flag.Name).DefValue != "" {
				flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(flag.Name).DefValue)
			}
			cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
		}
	}
	cmd.Println("\nGlobal Flags:")
	cmd.Parent().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
		flagDefault := ""
		if cmd.Parent().PersistentFlags().Lookup(pf.Name).DefValue != "" {
			flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(pf.Name).DefValue)
		}
		cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
	})
	return nil
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	flags := []common.Flag{
		{
			Name: flagGlobsName,
			Help: "glob pattern(s) selecting input log files, '**' crosses directories",
		},
		{
			Name: flagLabelMapName,
			Help: "ordered 'substring:label' pairs mapping file paths to config labels",
		},
		{
			Name: flagLabelConfigName,
			Help: "YAML file with 'rules:' and 'baseline:' keys, applied after --label-map rules",
		},
		{
			Name: flagBaselineName,
			Help: "config label that IPC ratios are normalized against",
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Input Options",
		Flags:     flags,
	})
	flags = []common.Flag{
		{
			Name: flagOutdirName,
			Help: "directory for report files, created if needed, defaults to the application output directory",
		},
		{
			Name: common.FlagFormatName,
			Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", ")),
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Output Options",
		Flags:     flags,
	})
	flags = []common.Flag{
		{
			Name: flagWorkersName,
			Help: "maximum number of files parsed concurrently",
		},
		{
			Name: flagPromListenName,
			Help: "address for serving batch gauges to Prometheus, e.g., :9641",
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Advanced Options",
		Flags:     flags,
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if len(flagGlobs) == 0 {
		return common.FlagValidationError(cmd, "at least one --glob pattern is required")
	}
	for _, pattern := range flagGlobs {
		if !doublestar.ValidatePattern(pattern) {
			return common.FlagValidationError(cmd, fmt.Sprintf("invalid glob pattern: %s", pattern))
		}
	}
	for _, format := range common.FlagFormat {
		formatOptions := append([]string{report.FormatAll}, report.FormatOptions...)
		if !slices.Contains(formatOptions, format) {
			return common.FlagValidationError(cmd, fmt.Sprintf("format options are: %s", strings.Join(formatOptions, ", ")))
		}
	}
	if flagWorkers < 1 {
		return common.FlagValidationError(cmd, "--workers must be at least 1")
	}
	if flagBaseline == "" {
		return common.FlagValidationError(cmd, "--baseline must not be empty")
	}
	if flagOutdir != "" && !util.IsValidDirectoryName(flagOutdir) {
		return common.FlagValidationError(cmd, fmt.Sprintf("invalid output directory name: %s", flagOutdir))
	}
	if flagLabelConfig != "" {
		exists, err := util.FileExists(flagLabelConfig)
		if err != nil || !exists {
			return common.FlagValidationError(cmd, fmt.Sprintf("label config file not found: %s", flagLabelConfig))
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	rules, baseline, err := resolveLabelConfig(flagLabelMap, flagLabelConfig, flagBaseline, cmd.Flags().Changed(flagBaselineName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	files, err := expandGlobs(flagGlobs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	if len(files) == 0 {
		err := fmt.Errorf("no files matched: %s", strings.Join(flagGlobs, ", "))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	idents := identify(files, rules)
	slog.Info("Starting batch", slog.Int("files", len(files)), slog.String("baseline", baseline), slog.Int("workers", flagWorkers))

	// one spinner per config label, stepped as that config's files finish
	var multiSpinner = progress.NewMultiSpinner()
	var stepFn func(string)
	if !common.FlagNoProgress {
		for _, label := range configOrder(idents) {
			total := 0
			for _, ident := range idents {
				if ident.Config == label {
					total++
				}
			}
			if err := multiSpinner.AddSpinner(label, total); err != nil {
				slog.Warn("failed to add spinner", slog.String("label", label), slog.String("error", err.Error()))
			}
		}
		multiSpinner.Start()
		stepFn = func(label string) {
			_ = multiSpinner.Step(label)
		}
	}
	records, errRows := runBatch(files, idents, flagWorkers, stepFn)
	multiSpinner.Finish()

	outputDir := appContext.OutputDir
	if flagOutdir != "" {
		outputDir, err = util.AbsPath(flagOutdir)
		if err != nil {
			err = fmt.Errorf("failed to expand output dir: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			slog.Error(err.Error())
			cmd.SilenceUsage = true
			return err
		}
	}
	if err := report.CreateOutputDir(outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}

	if len(records) == 0 {
		// nothing parsed, write the error listing only and fail the batch
		paths, werr := report.WriteReports(outputDir, []string{report.FormatCsv}, common.AppName, []report.TableValues{report.ErrorsTable(errRows)})
		if werr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", werr)
			slog.Error(werr.Error())
		} else {
			printReportFiles(paths)
		}
		err := fmt.Errorf("no records extracted from %d file(s)", len(files))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}

	normRows := normalize.Normalize(records, baseline)
	allTableValues := []report.TableValues{
		report.FullMetricsTable(records),
		report.SummaryTable(records),
		report.ErrorsTable(errRows),
		report.NormalizedTable(normRows, baseline),
	}
	paths, err := report.WriteReports(outputDir, common.FlagFormat, common.AppName, allTableValues)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	fmt.Printf("Parsed %d of %d file(s).\n", len(records), len(files))
	printReportFiles(paths)
	slog.Info("Batch complete", slog.Int("records", len(records)), slog.Int("failed", len(errRows)))

	if flagPromListen != "" {
		publishMetrics(records, normRows, len(records), len(errRows))
		startPromServer(flagPromListen)
		waitForInterrupt(flagPromListen)
	}
	return nil
}

func printReportFiles(paths []string) {
	fmt.Println("Report files:")
	for _, path := range paths {
		fmt.Printf("  %s\n", path)
	}
}

// resolveLabelConfig merges the inline rule list with an optional YAML label
// config. Inline rules come first so command-line rules take precedence. The
// file's baseline applies only when --baseline was left at its default.
func resolveLabelConfig(inlineSpec string, configPath string, baseline string, baselineChanged bool) ([]labels.Rule, string, error) {
	rules := labels.ParseRules(inlineSpec)
	if configPath == "" {
		return rules, baseline, nil
	}
	file, err := labels.LoadFile(configPath)
	if err != nil {
		return nil, "", err
	}
	rules = append(rules, file.Rules...)
	if file.Baseline != "" && !baselineChanged {
		baseline = file.Baseline
	}
	return rules, baseline, nil
}

// expandGlobs resolves each pattern against the filesystem and returns the
// sorted union of matched files, without duplicates.
func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("failed to expand glob %s: %w", pattern, err)
		}
		for _, match := range matches {
			files = util.UniqueAppend(files, match)
		}
	}
	slices.Sort(files)
	return files, nil
}

// identify derives the benchmark and config labels for each file. Labels come
// from the file name and path only, never from log content.
func identify(files []string, rules []labels.Rule) []champlog.Identity {
	idents := make([]champlog.Identity, 0, len(files))
	for _, file := range files {
		idents = append(idents, champlog.Identity{
			Bench:  labels.BenchFromName(file),
			Config: labels.Apply(rules, file),
			File:   filepath.Base(file),
		})
	}
	return idents
}

// configOrder returns the distinct config labels in first-seen order.
func configOrder(idents []champlog.Identity) []string {
	var order []string
	for _, ident := range idents {
		order = util.UniqueAppend(order, ident.Config)
	}
	return order
}

type fileResult struct {
	index  int
	record *schema.Record
	errRow report.ErrorRow
	failed bool
}

// runBatch parses the files on a bounded worker pool. Results are reassembled
// in input order so report rows are deterministic regardless of scheduling.
// stepFn, when not nil, is called with the config label of each finished file.
func runBatch(files []string, idents []champlog.Identity, workers int, stepFn func(string)) ([]*schema.Record, []report.ErrorRow) {
	if workers > len(files) {
		workers = len(files)
	}
	jobs := make(chan int)
	results := make(chan fileResult)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- parseOne(files[i], idents[i], i)
			}
		}()
	}
	go func() {
		for i := range files {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()
	ordered := make([]fileResult, len(files))
	for result := range results {
		ordered[result.index] = result
		if stepFn != nil {
			stepFn(idents[result.index].Config)
		}
	}
	var records []*schema.Record
	var errRows []report.ErrorRow
	for _, result := range ordered {
		if result.failed {
			errRows = append(errRows, result.errRow)
		} else {
			records = append(records, result.record)
		}
	}
	return records, errRows
}

func parseOne(file string, ident champlog.Identity, index int) fileResult {
	record, err := champlog.ParseFile(file, ident)
	if err != nil {
		code := champlog.ErrorUnreadableFile
		detail := err.Error()
		var parseErr *champlog.ParseError
		if errors.As(err, &parseErr) {
			code = parseErr.Code
			detail = parseErr.Detail
		}
		slog.Warn("failed to parse log", slog.String("file", file), slog.String("code", code), slog.String("detail", detail))
		return fileResult{
			index:  index,
			failed: true,
			errRow: report.ErrorRow{File: file, Bench: ident.Bench, Config: ident.Config, Code: code, Detail: detail},
		}
	}
	slog.Debug("parsed log", slog.String("file", file), slog.String("config", ident.Config))
	return fileResult{index: index, record: record}
}
