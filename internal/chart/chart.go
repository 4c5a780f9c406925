// Package chart wires data preparation, breakdown drill-down, margin
// estimation and scales into a single render call with fingerprint caching.
//
// A Chart is safe for concurrent use; calls are serialized by a per-chart
// mutex. The processed-data cache holds one entry and is replaced whole on
// every miss.
package chart

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coredds/mintwaterfall/internal/breakdown"
	"github.com/coredds/mintwaterfall/internal/cache"
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/devtools"
	"github.com/coredds/mintwaterfall/internal/layout"
	"github.com/coredds/mintwaterfall/internal/scale"
)

// ErrBreakdownDisabled is returned by drill-down calls on a chart whose
// configuration has no breakdown.
var ErrBreakdownDisabled = errors.New("chart: breakdown is not enabled")

// Option configures a Chart.
type Option func(*Chart)

// WithTheme sets the colors used for stacks that have none.
func WithTheme(t Theme) Option {
	return func(c *Chart) { c.theme = t.clone() }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStore adds a shared store consulted when the local entry misses.
func WithStore(s cache.Store) Option {
	return func(c *Chart) { c.store = s }
}

// WithTracker records per-stage timings.
func WithTracker(t *devtools.Tracker) Option {
	return func(c *Chart) { c.tracker = t }
}

type entry struct {
	dataHash   string
	configHash string
	items      []data.ProcessedDataItem
}

// Chart renders waterfall frames for one configuration at a time.
type Chart struct {
	mu      sync.Mutex
	cfg     Config
	theme   Theme
	log     *zap.Logger
	store   cache.Store
	tracker *devtools.Tracker
	engine  *breakdown.Engine
	entry   *entry
}

// New creates a chart for cfg.
func New(cfg Config, opts ...Option) *Chart {
	c := &Chart{
		cfg:   cfg,
		theme: DefaultTheme(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine = newEngine(cfg)
	return c
}

func newEngine(cfg Config) *breakdown.Engine {
	bc, ok := cfg.Breakdown()
	if !ok {
		return nil
	}
	return breakdown.New(breakdown.WithConfig(bc))
}

// Config returns the current configuration.
func (c *Chart) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Theme returns a copy of the chart's theme.
func (c *Chart) Theme() Theme {
	return c.theme.clone()
}

// SetConfig swaps the configuration. Drill-down state survives unless the
// breakdown strategy itself changes.
func (c *Chart) SetConfig(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	oldBC, oldOn := c.cfg.Breakdown()
	newBC, newOn := cfg.Breakdown()
	if oldOn != newOn || oldBC != newBC {
		c.engine = newEngine(cfg)
	}
	c.cfg = cfg
}

// Render prepares items, reusing cached output when neither the data nor
// any prepare-affecting setting changed, then lays out margins and scales.
func (c *Chart) Render(ctx context.Context, items []data.ChartDataItem) (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = devtools.WithOrigin(ctx, "chart.Render")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := data.Validate(items)
	if err != nil {
		return nil, err
	}
	if len(report.DuplicateLabels) > 0 {
		c.log.Warn("duplicate labels", zap.Strings("labels", report.DuplicateLabels))
	}
	c.tracker.Stage(ctx, "validate", start)

	processed, fp, err := c.process(ctx, items)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	f, err := c.frame(processed)
	if err != nil {
		return nil, err
	}
	c.tracker.Stage(ctx, "layout", start)

	f.DataHash, f.ConfigHash, f.Source = fp.data, fp.config, fp.source
	f.Duplicates = report.DuplicateLabels
	c.log.Debug("frame rendered",
		zap.String("data", fp.data),
		zap.String("config", fp.config),
		zap.Stringer("source", fp.source),
		zap.Int("items", len(processed)),
		zap.Any("margin", f.Margin),
	)
	return f, nil
}

type fingerprint struct {
	data, config string
	source       Source
}

func (c *Chart) configKey() configKey {
	k := configKey{
		ShowTotal:  c.cfg.showTotal,
		TotalLabel: c.cfg.totalLabel,
		TotalColor: c.totalColor(),
		Rules:      c.cfg.rules,
		Theme:      c.theme,
	}
	if c.engine != nil {
		k.Breakdown = c.engine.StateKey()
	}
	return k
}

func (c *Chart) totalColor() string {
	return cmp.Or(c.cfg.totalColor, c.theme.Total, data.DefaultTotalColor)
}

func (c *Chart) process(ctx context.Context, items []data.ChartDataItem) ([]data.ProcessedDataItem, fingerprint, error) {
	var fp fingerprint
	var err error
	if fp.data, err = Fingerprint(items); err != nil {
		return nil, fp, err
	}
	if fp.config, err = hashConfig(c.configKey()); err != nil {
		return nil, fp, err
	}

	key := cache.Key(fp.data, fp.config)
	if e := c.entry; e != nil && e.dataHash == fp.data && e.configHash == fp.config {
		c.tracker.Lookup(ctx, "memory", key, true)
		fp.source = SourceMemory
		return e.items, fp, nil
	}
	c.tracker.Lookup(ctx, "memory", key, false)

	prepared := data.CloneItems(items)
	c.theme.fill(prepared, scale.NewOrdinal(nil, scale.WithPalette(c.theme.Palette...)))

	if c.store != nil {
		processed, ok := c.load(ctx, key)
		c.tracker.Lookup(ctx, "store", key, ok)
		if ok {
			// The engine still has to see the data so drill-down calls
			// resolve IDs for the frame just returned.
			if c.engine != nil {
				if err := c.engine.Process(prepared); err != nil {
					return nil, fp, err
				}
			}
			c.entry = &entry{dataHash: fp.data, configHash: fp.config, items: processed}
			fp.source = SourceStore
			return processed, fp, nil
		}
	}

	start := time.Now()
	pc := data.PrepareConfig{
		ShowTotal:  c.cfg.showTotal,
		TotalLabel: c.cfg.totalLabel,
		TotalColor: c.totalColor(),
		Rules:      c.cfg.rules,
	}
	if c.engine != nil {
		pc.Breakdown = c.engine
	}
	processed, err := data.Prepare(prepared, pc)
	if err != nil {
		return nil, fp, err
	}
	c.tracker.Stage(ctx, "prepare", start)

	// Flattening may have dropped stale expansions, which changes the key.
	if c.engine != nil {
		if fp.config, err = hashConfig(c.configKey()); err != nil {
			return nil, fp, err
		}
		key = cache.Key(fp.data, fp.config)
	}
	c.entry = &entry{dataHash: fp.data, configHash: fp.config, items: processed}
	c.log.Debug("cache miss", zap.String("data", fp.data), zap.String("config", fp.config))

	if c.store != nil {
		c.save(ctx, key, processed)
	}
	fp.source = SourceComputed
	return processed, fp, nil
}

func (c *Chart) load(ctx context.Context, key string) ([]data.ProcessedDataItem, bool) {
	b, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warn("cache store get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var processed []data.ProcessedDataItem
	if err := json.Unmarshal(b, &processed); err != nil {
		c.log.Warn("cache store entry unreadable", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return processed, true
}

func (c *Chart) save(ctx context.Context, key string, processed []data.ProcessedDataItem) {
	b, err := json.Marshal(processed)
	if err != nil {
		c.log.Warn("cache store encode failed", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, b); err != nil {
		c.log.Warn("cache store set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Chart) frame(processed []data.ProcessedDataItem) (*Frame, error) {
	margin, diag := layout.Estimate(processed, c.cfg.margin, c.cfg.height, c.cfg.layout...)
	w, h := c.cfg.innerSize(margin)
	y := layout.ValueScale(processed, h)
	x, xs, err := c.cfg.xScale(processed, w)
	if err != nil {
		return nil, fmt.Errorf("x scale: %w", err)
	}
	bs, err := bars(processed, x, xs, y, w, c.cfg.barPadding)
	if err != nil {
		return nil, fmt.Errorf("place bars: %w", err)
	}
	c.log.Debug("margins estimated",
		zap.Any("base", c.cfg.margin),
		zap.Any("margin", margin),
		zap.Float64("highestLabelY", diag.HighestLabelY),
		zap.String("widestLabel", diag.WidestLabel),
	)
	return &Frame{
		Items:       processed,
		Bars:        bs,
		Margin:      margin,
		Diagnostics: diag,
		Width:       c.cfg.width,
		Height:      c.cfg.height,
		InnerWidth:  w,
		InnerHeight: h,
		X:           x,
		Y:           y,
		Stacked:     c.cfg.stacked,
		Theme:       c.theme.clone(),
	}, nil
}

func (c *Chart) withEngine(fn func(e *breakdown.Engine) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil {
		return ErrBreakdownDisabled
	}
	return fn(c.engine)
}

// Expand shows the children of node id on the next Render.
func (c *Chart) Expand(id string) error {
	return c.withEngine(func(e *breakdown.Engine) error { return e.Expand(id) })
}

// Collapse hides node id and every expanded descendant.
func (c *Chart) Collapse(id string) error {
	return c.withEngine(func(e *breakdown.Engine) error { return e.Collapse(id) })
}

// Toggle flips node id and reports whether it is now expanded.
func (c *Chart) Toggle(id string) (bool, error) {
	var expanded bool
	err := c.withEngine(func(e *breakdown.Engine) error {
		var err error
		expanded, err = e.Toggle(id)
		return err
	})
	return expanded, err
}

// ExpandAll expands every node that has children.
func (c *Chart) ExpandAll() error {
	return c.withEngine(func(e *breakdown.Engine) error {
		e.ExpandAll()
		return nil
	})
}

// CollapseAll collapses every node.
func (c *Chart) CollapseAll() error {
	return c.withEngine(func(e *breakdown.Engine) error {
		e.CollapseAll()
		return nil
	})
}

// Path returns the labels from the root down to node id.
func (c *Chart) Path(id string) ([]string, error) {
	var path []string
	err := c.withEngine(func(e *breakdown.Engine) error {
		if _, ok := e.Node(id); !ok {
			return fmt.Errorf("%w: %s", breakdown.ErrNodeNotFound, id)
		}
		path = e.Path(id)
		return nil
	})
	return path, err
}
