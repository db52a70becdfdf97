// Package inspect is a subcommand of the root command. It parses a single
// ChampSim run log and prints every schema field of the resulting record, a
// debugging aid for new log variants.
package inspect

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"simspect/internal/champlog"
	"simspect/internal/common"
	"simspect/internal/labels"
	"simspect/internal/report"
)

const cmdName = "inspect"

var examples = []string{
	fmt.Sprintf("  Print a record as a name/value listing:  $ %s %s 600_perlbench_s_ChampSim.txt", common.AppName, cmdName),
	fmt.Sprintf("  Print a record as JSON:                  $ %s %s --format json run.txt", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <log file>",
	Short:         "Parse one ChampSim run log and print its record",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
}

var flagFormat string

const flagFormatName = "format"

var formatOptions = []string{report.FormatTxt, report.FormatJson}

func init() {
	Cmd.Flags().StringVar(&flagFormat, flagFormatName, report.FormatTxt, "")

	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s <log file> [flags]\n\n", cmd.CommandPath())
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
	return []common.FlagGroup{
		{
			GroupName: "Output Options",
			Flags: []common.Flag{
				{
					Name: flagFormatName,
					Help: fmt.Sprintf("choose output format from: %s", strings.Join(formatOptions, ", ")),
				},
			},
		},
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if !slices.Contains(formatOptions, flagFormat) {
		return common.FlagValidationError(cmd, fmt.Sprintf("format options are: %s", strings.Join(formatOptions, ", ")))
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	rules := labels.ParseRules(labels.DefaultRuleSpec)
	ident := champlog.Identity{
		Bench:  labels.BenchFromName(path),
		Config: labels.Apply(rules, path),
		File:   filepath.Base(path),
	}
	record, err := champlog.ParseFile(path, ident)
	if err != nil {
		code := champlog.ErrorUnreadableFile
		detail := err.Error()
		var parseErr *champlog.ParseError
		if errors.As(err, &parseErr) {
			code = parseErr.Code
			detail = parseErr.Detail
		}
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", code, detail)
		slog.Error("failed to parse log", slog.String("file", path), slog.String("code", code), slog.String("detail", detail))
		cmd.SilenceUsage = true
		return err
	}
	out, err := report.Create(flagFormat, []report.TableValues{report.RecordTable(record)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	fmt.Print(string(out))
	return nil
}
