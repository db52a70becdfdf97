// Package cmd provides the command line interface for the application.
package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"log/syslog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"simspect/cmd/inspect"
	"simspect/cmd/summarize"
	"simspect/internal/common"
	"simspect/internal/util"

	"github.com/spf13/cobra"
)

var gLogFile *os.File
var gVersion = "9.9.9" // overwritten by ldflags in Makefile

// LongAppName is the name of the application
const LongAppName = "SimSpect"

var examples = []string{
	fmt.Sprintf("  Summarize all logs under a run directory:    $ %s summarize --glob 'runs/**/*.txt'", common.AppName),
	fmt.Sprintf("  Summarize against an alternate baseline:     $ %s summarize --baseline schedcost_off", common.AppName),
	fmt.Sprintf("  Serve batch gauges to Prometheus:            $ %s summarize --prom-listen :9641", common.AppName),
	fmt.Sprintf("  Inspect a single log:                        $ %s inspect 600_perlbench_s_ChampSim.txt", common.AppName),
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:                common.AppName,
	Short:              common.AppName,
	Long:               fmt.Sprintf(`%s (%s) extracts performance metric records from ChampSim simulator run logs and renders batch summary reports.`, LongAppName, common.AppName),
	Example:            strings.Join(examples, "\n"),
	PersistentPreRunE:  initializeApplication, // will only be run if command has a 'Run' function
	PersistentPostRunE: terminateApplication,  // ...
	Version:            gVersion,
}

var (
	// logging
	flagDebug     bool
	flagSyslog    bool
	flagLogStdOut bool
	// output
	flagOutputDir string
)

const (
	flagDebugName     = "debug"
	flagSyslogName    = "syslog"
	flagLogStdOutName = "log-stdout"
	flagOutputDirName = "output"
)

func init() {
	rootCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command] [flags]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}
`)
	rootCmd.SetHelpCommand(&cobra.Command{}) // block the help command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddGroup([]*cobra.Group{{ID: "primary", Title: "Commands:"}}...)
	rootCmd.AddCommand(summarize.Cmd)
	rootCmd.AddCommand(inspect.Cmd)
	// Global (persistent) flags
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagSyslog, flagSyslogName, false, "write logs to syslog instead of a file")
	rootCmd.PersistentFlags().BoolVar(&flagLogStdOut, flagLogStdOutName, false, "write logs to stdout")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, flagOutputDirName, "", "override the output directory")
	rootCmd.PersistentFlags().BoolVar(&common.FlagNoProgress, common.FlagNoProgressName, false, "disable progress spinners")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.EnableCommandSorting = false
	cobra.EnableCaseInsensitive = true
	err := rootCmd.Execute()
	if err != nil {
		terminateErr := terminateApplication(rootCmd, os.Args)
		if terminateErr != nil {
			slog.Error("Error terminating application", slog.String("error", terminateErr.Error()))
			fmt.Printf("Error: %v\n", terminateErr)
		}
		os.Exit(1)
	}
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	timestamp := time.Now().Local().Format("2006-01-02_15-04-05") // app startup time
	// verify requested output directory exists or create an output directory
	var outputDir string
	if flagOutputDir != "" {
		var err error
		outputDir, err = util.AbsPath(flagOutputDir)
		if err != nil {
			fmt.Printf("Error: failed to expand output dir %v\n", err)
			os.Exit(1)
		}
		exists, err := util.DirectoryExists(outputDir)
		if err != nil {
			fmt.Printf("Error: failed to determine if output dir exists: %v\n", err)
			os.Exit(1)
		}
		if !exists {
			fmt.Printf("Error: requested output dir, %s, does not exist\n", outputDir)
			os.Exit(1)
		}
	} else {
		// output dir named app name + timestamp in the current working directory
		outputDirName := common.AppName + "_" + timestamp
		var err error
		outputDir, err = util.AbsPath(outputDirName)
		if err != nil {
			fmt.Printf("Error: failed to expand output dir %v\n", err)
			os.Exit(1)
		}
		if err := os.MkdirAll(outputDir, 0755); err != nil { // #nosec G301
			fmt.Printf("Error: failed to create output dir: %v\n", err)
			os.Exit(1)
		}
	}
	// configure logging
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
		logOpts.AddSource = false
	}
	if flagSyslog && flagLogStdOut {
		fmt.Println("Error: both syslog handler and stdout output specified. Please pick one only.")
		os.Exit(1)
	} else if flagSyslog { // log to syslog
		handler, err := NewSyslogHandler(&logOpts)
		if err != nil {
			fmt.Printf("Error: failed to create syslog handler: %v\n", err)
			os.Exit(1)
		}
		slog.SetDefault(slog.New(handler))
	} else if flagLogStdOut {
		handler := slog.NewJSONHandler(os.Stdout, &logOpts)
		slog.SetDefault(slog.New(handler))
	} else { // log to file in the output directory
		var err error
		gLogFile, err = os.OpenFile(filepath.Join(outputDir, common.AppName+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) // #nosec G302
		if err != nil {
			fmt.Printf("Error: failed to open log file: %v\n", err)
			os.Exit(1)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(gLogFile, &logOpts)))
	}
	slog.Info("Starting up", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))
	var logFilePath string
	if gLogFile != nil {
		logFilePath = gLogFile.Name()
	}
	// set app context
	cmd.Parent().SetContext(
		context.WithValue(
			context.Background(),
			common.AppContext{},
			common.AppContext{
				Timestamp:   timestamp,
				OutputDir:   outputDir,
				LogFilePath: logFilePath,
				Version:     gVersion,
				Debug:       flagDebug},
		),
	)
	return nil
}

// terminateApplication logs the shutdown and closes the log file if one was opened.
func terminateApplication(cmd *cobra.Command, args []string) error {
	var ctx context.Context
	if cmd.Parent() == nil {
		ctx = cmd.Context()
	} else {
		ctx = cmd.Parent().Context()
	}
	if ctx != nil {
		ctxValue := ctx.Value(common.AppContext{})
		if ctxValue != nil {
			if _, ok := ctxValue.(common.AppContext); ok {
				slog.Info("Shutting down", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))
				if gLogFile != nil {
					err := gLogFile.Close()
					if err != nil {
						slog.Error("error closing log file", slog.String("logFile", gLogFile.Name()), slog.String("error", err.Error()))
						return err
					}
				}
			}
		}
	}
	return nil
}

// SyslogHandler is a slog.Handler that logs to syslog.
type SyslogHandler struct {
	writer     *syslog.Writer
	logLeveler slog.Leveler
	addSource  bool
}

func NewSyslogHandler(logOpts *slog.HandlerOptions) (*SyslogHandler, error) {
	writer, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, filepath.Base(os.Args[0]))
	if err != nil {
		return nil, err
	}
	return &SyslogHandler{writer: writer, logLeveler: logOpts.Level, addSource: logOpts.AddSource}, nil
}

func (h *SyslogHandler) Handle(ctx context.Context, r slog.Record) error {
	var msg string
	if r.PC != 0 && h.addSource {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		// get the file name with path relative to the current working directory + the last directory in the working directory
		filePath := f.File
		if strings.HasPrefix(filePath, "/") {
			wd, err := os.Getwd()
			if err == nil {
				filePath, err = filepath.Rel(wd, filePath)
				if err == nil {
					// last path element in working directory
					_, lastWd := filepath.Split(wd)
					filePath = filepath.Join(lastWd, filePath)
				} else {
					filePath = f.File
				}
			}
		}
		msg = fmt.Sprintf("level=%s source=%s:%d msg=\"%s\"", r.Level.String(), filePath, f.Line, r.Message)
	} else {
		msg = fmt.Sprintf("level=%s msg=\"%s\"", r.Level.String(), r.Message)
	}
	r.Attrs(func(attr slog.Attr) bool {
		msg += fmt.Sprintf(" %s=\"%s\"", attr.Key, attr.Value)
		return true
	})
	switch r.Level {
	case slog.LevelDebug:
		return h.writer.Debug(msg)
	case slog.LevelInfo:
		return h.writer.Info(msg)
	case slog.LevelWarn:
		return h.writer.Warning(msg)
	case slog.LevelError:
		return h.writer.Err(msg)
	default:
		return h.writer.Info(msg)
	}
}

func (h *SyslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SyslogHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *SyslogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.logLeveler.Level()
}
