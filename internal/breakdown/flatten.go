package breakdown

import (
	"slices"

	"github.com/coredds/mintwaterfall/internal/data"
)

// Flatten returns the visible rows for items, re-processing the arena
// when items differ from the last call. An expanded node is replaced by
// its children, so running totals over the rows stay additive.
func (e *Engine) Flatten(items []data.ChartDataItem) ([]data.ChartDataItem, error) {
	h, err := hashItems(items)
	if err != nil {
		return nil, err
	}
	if !e.loaded || h != e.dataHash {
		if err := e.Process(items); err != nil {
			return nil, err
		}
	}
	return e.Visible(), nil
}

// Visible returns the current rows depth-first.
func (e *Engine) Visible() []data.ChartDataItem {
	out := make([]data.ChartDataItem, 0, len(e.roots))
	for _, id := range e.roots {
		out = e.appendVisible(out, e.nodes[id])
	}
	return out
}

func (e *Engine) appendVisible(out []data.ChartDataItem, n *Node) []data.ChartDataItem {
	if e.expanded[n.ID] && n.HasBreakdown() {
		for _, cid := range n.Children {
			out = e.appendVisible(out, e.nodes[cid])
		}
		return out
	}
	it := n.Item
	it.Stacks = slices.Clone(n.Item.Stacks)
	it.Node = &data.NodeInfo{
		ID:           n.ID,
		Level:        n.Level,
		ParentID:     n.ParentID,
		HasBreakdown: n.HasBreakdown(),
		IsExpanded:   e.expanded[n.ID],
		IsOther:      n.IsOther,
		VisualIndent: n.Level * e.cfg.IndentSize,
	}
	return append(out, it)
}

// Node returns a copy of the node with the given ID.
func (e *Engine) Node(id string) (Node, bool) {
	n, ok := e.nodes[id]
	if !ok {
		return Node{}, false
	}
	out := *n
	out.Children = slices.Clone(n.Children)
	out.OtherItems = slices.Clone(n.OtherItems)
	return out, true
}

// Roots returns the top-level node IDs in input order.
func (e *Engine) Roots() []string { return slices.Clone(e.roots) }

// Parent returns the parent ID of id.
func (e *Engine) Parent(id string) (string, bool) {
	n, ok := e.nodes[id]
	if !ok || n.ParentID == "" {
		return "", false
	}
	return n.ParentID, true
}

// Children returns the child IDs of id.
func (e *Engine) Children(id string) []string {
	if n, ok := e.nodes[id]; ok {
		return slices.Clone(n.Children)
	}
	return nil
}

// Path returns the labels from the root down to id.
func (e *Engine) Path(id string) []string {
	var out []string
	for n := e.nodes[id]; n != nil; n = e.nodes[n.ParentID] {
		out = append(out, n.Item.Label)
	}
	slices.Reverse(out)
	return out
}

// Levels maps every node ID to its depth.
func (e *Engine) Levels() map[string]int {
	out := make(map[string]int, len(e.nodes))
	for id, n := range e.nodes {
		out[id] = n.Level
	}
	return out
}

// Stats summarises the arena.
type Stats struct {
	Nodes    int `json:"nodes"`
	Roots    int `json:"roots"`
	MaxDepth int `json:"maxDepth"`
	Expanded int `json:"expanded"`
	Others   int `json:"others"`
}

// Stats returns arena counters.
func (e *Engine) Stats() Stats {
	s := Stats{Nodes: len(e.nodes), Roots: len(e.roots), Expanded: len(e.expanded)}
	for _, n := range e.nodes {
		s.MaxDepth = max(s.MaxDepth, n.Level)
		if n.IsOther {
			s.Others++
		}
	}
	return s
}

var _ data.Flattener = (*Engine)(nil)
