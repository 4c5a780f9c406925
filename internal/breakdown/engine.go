// Package breakdown drills waterfall bars into nested sub-items.
//
// Nodes live in an arena keyed by deterministic IDs. Parent and child links
// are IDs, and expansion state is a separate set, so expanding and
// collapsing never copies or mutates item data.
package breakdown

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/text/collate"

	"github.com/coredds/mintwaterfall/internal/data"
)

var (
	// ErrNodeNotFound indicates an unknown node ID.
	ErrNodeNotFound = errors.New("breakdown: node not found")
	// ErrNotExpandable indicates a node without children.
	ErrNotExpandable = errors.New("breakdown: node has no children")
)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/coredds/mintwaterfall/breakdown"))

// Node is one arena entry.
type Node struct {
	ID       string
	Item     data.ChartDataItem
	Level    int
	ParentID string
	Children []string
	IsOther  bool
	// OtherItems lists the consolidated siblings of an Others node. They
	// are also its Children, so expanding the bucket reveals them.
	OtherItems []string
}

// HasBreakdown reports whether the node can be expanded.
func (n *Node) HasBreakdown() bool { return len(n.Children) > 0 }

// Value returns the node's stack total.
func (n *Node) Value() float64 { return n.Item.Total() }

// Engine owns the node arena and expansion state of one chart. It is not
// safe for concurrent use.
type Engine struct {
	cfg      Config
	collator *collate.Collator

	nodes    map[string]*Node
	roots    []string
	expanded map[string]bool
	dataHash uint64
	loaded   bool
}

// New returns an empty engine.
func New(opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		cfg:      cfg,
		collator: collate.New(cfg.Locale),
		nodes:    make(map[string]*Node),
		expanded: make(map[string]bool),
	}
}

// Config returns the engine's grouping strategy.
func (e *Engine) Config() Config { return e.cfg }

// Process rebuilds the arena from items. Expansion state is kept for IDs
// that still exist; because IDs derive from item positions and labels,
// re-processing identical data preserves it entirely.
func (e *Engine) Process(items []data.ChartDataItem) error {
	h, err := hashItems(items)
	if err != nil {
		return err
	}

	e.nodes = make(map[string]*Node)
	e.roots = e.roots[:0]
	for i, it := range items {
		id := e.addNode(strconv.Itoa(i)+":"+it.Label, it, 0, "")
		e.roots = append(e.roots, id)
	}
	for id := range e.expanded {
		if n, ok := e.nodes[id]; !ok || !n.HasBreakdown() {
			delete(e.expanded, id)
		}
	}
	e.dataHash = h
	e.loaded = true
	return nil
}

// Reset drops all nodes and expansion state.
func (e *Engine) Reset() {
	e.nodes = make(map[string]*Node)
	e.roots = nil
	e.expanded = make(map[string]bool)
	e.dataHash = 0
	e.loaded = false
}

func hashItems(items []data.ChartDataItem) (uint64, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("hash breakdown input: %w", err)
	}
	return xxhash.Sum64(b), nil
}

func nodeID(path string) string {
	return uuid.NewSHA1(namespace, []byte(path)).String()
}

func (e *Engine) addNode(path string, it data.ChartDataItem, level int, parent string) string {
	id := nodeID(path)
	n := &Node{ID: id, Level: level, ParentID: parent}
	n.Item = data.ChartDataItem{Label: it.Label, Stacks: slices.Clone(it.Stacks)}
	e.nodes[id] = n

	children := e.group(it.Breakdown)
	keep := children
	var tail []data.ChartDataItem
	if e.cfg.ShowOthers && e.cfg.MaxBreakdowns > 0 && len(children) > e.cfg.MaxBreakdowns {
		keep, tail = children[:e.cfg.MaxBreakdowns], children[e.cfg.MaxBreakdowns:]
	}
	for i, child := range keep {
		cid := e.addNode(path+"/"+strconv.Itoa(i)+":"+child.Label, child, level+1, id)
		n.Children = append(n.Children, cid)
	}
	if len(tail) > 0 {
		n.Children = append(n.Children, e.addOthers(path+"/others", tail, level+1, id))
	}
	return id
}

func (e *Engine) addOthers(path string, tail []data.ChartDataItem, level int, parent string) string {
	var sum float64
	for _, it := range tail {
		sum += it.Total()
	}
	id := nodeID(path)
	n := &Node{
		ID:       id,
		Level:    level,
		ParentID: parent,
		IsOther:  true,
		Item: data.ChartDataItem{
			Label:  e.cfg.OthersLabel,
			Stacks: []data.StackItem{{Value: sum, Color: e.cfg.OthersColor, Label: e.cfg.OthersLabel}},
		},
	}
	e.nodes[id] = n
	for i, it := range tail {
		cid := e.addNode(path+"/"+strconv.Itoa(i)+":"+it.Label, it, level+1, id)
		n.Children = append(n.Children, cid)
	}
	n.OtherItems = slices.Clone(n.Children)
	return id
}

// group returns siblings in configured order. It never drops items.
func (e *Engine) group(items []data.ChartDataItem) []data.ChartDataItem {
	if len(items) == 0 {
		return nil
	}
	out := slices.Clone(items)
	switch e.cfg.Sort {
	case SortValueDesc:
		slices.SortStableFunc(out, func(a, b data.ChartDataItem) int { return cmp.Compare(b.Total(), a.Total()) })
	case SortValueAsc:
		slices.SortStableFunc(out, func(a, b data.ChartDataItem) int { return cmp.Compare(a.Total(), b.Total()) })
	case SortAlphabetical:
		slices.SortStableFunc(out, func(a, b data.ChartDataItem) int { return e.collator.CompareString(a.Label, b.Label) })
	}
	return out
}
