package breakdown

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Expand reveals the children of id. Collapsed ancestors are expanded too,
// so the children become visible.
func (e *Engine) Expand(id string) error {
	n, ok := e.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if !n.HasBreakdown() {
		return fmt.Errorf("%w: %s", ErrNotExpandable, id)
	}
	for cur := n; cur != nil; cur = e.nodes[cur.ParentID] {
		e.expanded[cur.ID] = true
	}
	return nil
}

// Collapse hides id together with every expanded descendant.
func (e *Engine) Collapse(id string) error {
	n, ok := e.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	e.collapse(n)
	return nil
}

func (e *Engine) collapse(n *Node) {
	for _, cid := range n.Children {
		e.collapse(e.nodes[cid])
	}
	delete(e.expanded, n.ID)
}

// Toggle flips the expansion of id and reports the new state.
func (e *Engine) Toggle(id string) (bool, error) {
	if e.IsExpanded(id) {
		return false, e.Collapse(id)
	}
	if err := e.Expand(id); err != nil {
		return false, err
	}
	return true, nil
}

// ExpandAll expands every expandable node.
func (e *Engine) ExpandAll() {
	for id, n := range e.nodes {
		if n.HasBreakdown() {
			e.expanded[id] = true
		}
	}
}

// CollapseAll collapses every node.
func (e *Engine) CollapseAll() {
	clear(e.expanded)
}

// IsExpanded reports whether id is expanded.
func (e *Engine) IsExpanded(id string) bool {
	return e.expanded[id]
}

// Expanded returns the expanded IDs, sorted.
func (e *Engine) Expanded() []string {
	out := make([]string, 0, len(e.expanded))
	for id := range e.expanded {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// StateKey identifies the grouping configuration and expansion state. It
// is stable across processes for the same configuration and data.
func (e *Engine) StateKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "max=%d;others=%t;label=%s;color=%s;sort=%s;indent=%d;locale=%s;expanded=",
		e.cfg.MaxBreakdowns, e.cfg.ShowOthers, e.cfg.OthersLabel, e.cfg.OthersColor,
		e.cfg.Sort, e.cfg.IndentSize, e.cfg.Locale)
	b.WriteString(strings.Join(e.Expanded(), ","))
	return strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}
