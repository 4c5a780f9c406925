// Package cmd provides the entrypoint and CLI command configuration for the
// mintwaterfall application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/coredds/mintwaterfall/internal/cache"
	"github.com/coredds/mintwaterfall/internal/devtools"
	"github.com/coredds/mintwaterfall/internal/logger"
)

const (
	envRedisURL = "MINTWATERFALL_REDIS_URL"
	envLogLevel = "MINTWATERFALL_LOG_LEVEL"
)

func buildVersion(version, commit, date, builtBy string) string {
	result := version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	result = fmt.Sprintf("%s\ngoos: %s\ngoarch: %s", result, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		result = fmt.Sprintf("%s\nmodule version: %s, checksum: %s", result, info.Main.Version, info.Main.Sum)
	}

	return result
}

// runtimeEnv is the state shared by every subcommand: logger, processed-data
// store and Redis command tracker. It is set up before a command runs and
// torn down after it.
type runtimeEnv struct {
	log     *zap.Logger
	store   cache.Store
	tracker *devtools.Tracker
	color   bool

	stopProfile func()
}

func (e *runtimeEnv) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	level, _ := flags.GetString("log-level")
	logJSON, _ := flags.GetBool("log-json")
	logFile, _ := flags.GetString("log-file")
	redisURL, _ := flags.GetString("redis")
	cpuprofile, _ := flags.GetString("cpuprofile")
	noColor, _ := flags.GetBool("no-color")

	e.color = !noColor && isTerminal(cmd.OutOrStdout())

	log, err := logger.New(logger.Config{
		Level:  level,
		JSON:   logJSON,
		Color:  logFile == "" && isTerminal(os.Stderr),
		Output: logFile,
	})
	if err != nil {
		return err
	}
	e.log = log

	e.tracker = devtools.NewTracker(0)
	if redisURL == "" {
		store, err := cache.NewMemory(cache.DefaultMemorySize)
		if err != nil {
			return fmt.Errorf("create memory store: %w", err)
		}
		e.store = store
	} else {
		store, err := cache.NewRedis(redisURL, cache.WithHook(e.tracker.Hook()))
		if err != nil {
			return fmt.Errorf("create redis store: %w", err)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			// The chart treats store failures as misses, so keep going.
			log.Warn("redis unavailable", zap.String("redis", store.DisplayRedisURL()), zap.Error(err))
		} else {
			log.Debug("redis connected", zap.String("redis", store.DisplayRedisURL()))
		}
		e.store = store
	}

	if cpuprofile != "" {
		file, err := os.Create(cpuprofile)
		if err != nil {
			return fmt.Errorf("create cpuprofile file: %w", err)
		}
		if err := pprof.StartCPUProfile(file); err != nil {
			_ = file.Close()
			return fmt.Errorf("start cpu profile: %w", err)
		}
		e.stopProfile = func() {
			pprof.StopCPUProfile()
			_ = file.Close()
		}
	}
	return nil
}

// teardown releases what setup acquired. It runs after the command whether
// or not the command failed, so every field may still be unset.
func (e *runtimeEnv) teardown(root *cobra.Command) {
	if trace, _ := root.PersistentFlags().GetBool("trace"); trace && e.tracker != nil {
		w := root.ErrOrStderr()
		for _, event := range e.tracker.Events() {
			fmt.Fprintln(w, event.String())
		}
	}
	if e.stopProfile != nil {
		e.stopProfile()
		e.stopProfile = nil
	}
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}

func envDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func newRootCmd(version string) (*cobra.Command, *runtimeEnv) {
	env := &runtimeEnv{}
	rootCmd := &cobra.Command{
		Use:           "mintwaterfall",
		Short:         "Waterfall chart data processing.",
		Long:          "Compute running totals, breakdowns, margins and scales for waterfall charts.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.setup(cmd)
		},
	}
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`mintwaterfall {{printf "version %s\n" .Version}}`)

	pf := rootCmd.PersistentFlags()
	pf.String("cpuprofile", "", "write cpu profile to file")
	pf.String("redis", envDefault(envRedisURL, ""), "redis URL for the shared processed-data cache (default in-memory)")
	pf.String("log-level", envDefault(envLogLevel, "warn"), "log level (debug, info, warn, error)")
	pf.Bool("log-json", false, "log as JSON")
	pf.String("log-file", "", "write logs to file instead of stderr")
	pf.Bool("trace", false, "print the pipeline and redis trace after the command")
	pf.Bool("no-color", false, "disable colored output")
	pf.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "loglevel":
			name = "log-level"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.AddCommand(
		newProcessCmd(env),
		newStatsCmd(env),
		newRenderCmd(env),
		newExploreCmd(env),
		newBatchCmd(env),
	)
	return rootCmd, env
}

// Execute initializes and runs the mintwaterfall command line.
func Execute(version, commit, date, builtBy string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	rootCmd, env := newRootCmd(buildVersion(version, commit, date, builtBy))
	defer env.teardown(rootCmd)

	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(rootCmd.Version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}
