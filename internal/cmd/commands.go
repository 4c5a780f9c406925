package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coredds/mintwaterfall/internal/chart"
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/format"
	"github.com/coredds/mintwaterfall/internal/jsonview"
	"github.com/coredds/mintwaterfall/internal/render"
	"github.com/coredds/mintwaterfall/internal/ui"
)

// writeJSON prints value as indented JSON, highlighted when writing to a
// color terminal.
func writeJSON(w io.Writer, color bool, value any) error {
	if color {
		out, err := jsonview.Highlight(value, jsonview.ColorStyles())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func newProcessCmd(env *runtimeEnv) *cobra.Command {
	var (
		flags     chartFlags
		itemsOnly bool
	)
	cmd := &cobra.Command{
		Use:   "process FILE",
		Short: "Compute running totals, margins and bar geometry.",
		Long:  "Compute running totals, margins and bar geometry for FILE (- for stdin) and print the frame as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, items, err := flags.load(cmd.Context(), env, args[0])
			if err != nil {
				return err
			}
			f, err := c.Render(cmd.Context(), items)
			if err != nil {
				return err
			}
			if itemsOnly {
				return writeJSON(cmd.OutOrStdout(), env.color, f.Items)
			}
			return writeJSON(cmd.OutOrStdout(), env.color, f)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&itemsOnly, "items", false, "print only the processed items")
	return cmd
}

func newStatsCmd(env *runtimeEnv) *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Summarize, detect outliers and fit a trend.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, items, err := flags.load(cmd.Context(), env, args[0])
			if err != nil {
				return err
			}
			f, err := c.Render(cmd.Context(), items)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), env.color, chart.Analyze(f.Items))
		},
	}
	flags.register(cmd)
	return cmd
}

func newRenderCmd(env *runtimeEnv) *cobra.Command {
	var (
		flags      chartFlags
		cols, rows int
		noLabels   bool
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Draw the waterfall in the terminal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, items, err := flags.load(cmd.Context(), env, args[0])
			if err != nil {
				return err
			}
			f, err := c.Render(cmd.Context(), items)
			if err != nil {
				return err
			}
			m := render.New(
				render.WithFrame(f),
				render.WithSize(cols, rows),
				render.WithValueLabels(!noLabels),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), m.View())
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&cols, "cols", 80, "output width in columns")
	cmd.Flags().IntVar(&rows, "rows", 20, "output height in rows")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "hide running-total labels")
	return cmd
}

func newExploreCmd(env *runtimeEnv) *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   "explore FILE",
		Short: "Browse breakdowns interactively.",
		Long:  "Browse breakdowns interactively. Breakdowns are enabled; use --log-file to keep logs off the screen.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.breakdown = true
			c, items, err := flags.load(cmd.Context(), env, args[0])
			if err != nil {
				return err
			}
			app := ui.New(c, items, ui.WithLogger(env.log))
			p := tea.NewProgram(app, tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run explorer: %w", err)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// batchResult is one line of the batch report.
type batchResult struct {
	path    string
	summary data.Summary
	source  chart.Source
	hash    string
}

func newBatchCmd(env *runtimeEnv) *cobra.Command {
	var (
		flags chartFlags
		jobs  int
	)
	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Process many files concurrently and print a summary per file.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]batchResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for i, path := range args {
				g.Go(func() error {
					c, items, err := flags.load(ctx, env, path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					f, err := c.Render(ctx, items)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = batchResult{
						path:    path,
						summary: data.Summarize(f.Items),
						source:  f.Source,
						hash:    f.DataHash,
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return writeBatch(cmd.OutOrStdout(), results)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "files processed at once")
	return cmd
}

func writeBatch(w io.Writer, results []batchResult) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("FILE", "BARS", "NET", "MIN", "MAX", "SOURCE", "HASH")
	for _, r := range results {
		t = t.Row(
			r.path,
			strconv.Itoa(r.summary.Count),
			format.Number(r.summary.Net),
			format.Number(r.summary.MinCumulative),
			format.Number(r.summary.MaxCumulative),
			r.source.String(),
			r.hash,
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
