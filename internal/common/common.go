// Package common defines data structures and functions that are used by multiple
// application commands, e.g., summarize, inspect.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp   string // Timestamp is the application start time, used to name default output directories.
	OutputDir   string // OutputDir is the directory where the application will write output files.
	LogFilePath string // LogFilePath is the path to the log file, empty when logging to syslog or stdout.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug indicates that debug logging is enabled.
}

// Flag and FlagGroup organize a command's flags into groups for help output.
type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// flags shared by multiple commands
var (
	FlagFormat     []string
	FlagNoProgress bool
)

const (
	FlagFormatName     = "format"
	FlagNoProgressName = "noprogress"
)

// FlagValidationError prints a flag validation failure on stderr and returns
// it with cobra's usage dump suppressed.
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}
