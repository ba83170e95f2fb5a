package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// MaxRollupDepth is the number of levels displayed beneath the root.
// Trees may be built deeper; Limit cuts them down for display.
const MaxRollupDepth = 3

// Node is one level of a rollup tree.
type Node struct {
	Label string
	Level types.Field
	Value decimal.Decimal
	Count int
	// Percent is the node's share of the root value.
	Percent  decimal.NullDecimal
	Children []*Node
}

// Depth returns the number of levels beneath n.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.Children {
		if cd := c.Depth() + 1; cd > d {
			d = cd
		}
	}
	return d
}

// Limit returns a copy of n showing at most depth levels beneath it.
// Values and counts are unchanged, so every shown node still sums the
// records of its hidden descendants.
func (n *Node) Limit(depth int) *Node {
	out := *n
	out.Children = nil
	if depth <= 0 {
		return &out
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Limit(depth-1))
	}
	return &out
}

// Walk visits n and its descendants depth first. depth is 0 for n.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Rollup builds a tree along path using the default engine.
func Rollup(l *ledger.Ledger, path ...types.Field) (*Node, error) {
	return Default.Rollup(l, path...)
}

// Rollup builds a tree whose root value is the ledger total and whose
// levels follow path (for example partner, category, subcategory, item).
// Every level of path is built; use Limit to show at most MaxRollupDepth
// of them. Siblings are ordered like By orders groups.
func (e Engine) Rollup(l *ledger.Ledger, path ...types.Field) (*Node, error) {
	if err := checkLevels(path); err != nil {
		return nil, err
	}

	root := &Node{Label: "total", Value: decimal.Zero}

	type branch struct {
		node  *Node
		index map[string]*branch
	}
	top := &branch{node: root, index: make(map[string]*branch)}

	l.Each(func(r ledger.Record) {
		root.Value = root.Value.Add(r.Net)
		root.Count++

		cur := top
		for _, f := range path {
			label := r.Value(f)
			next, ok := cur.index[label]
			if !ok {
				next = &branch{
					node:  &Node{Label: label, Level: f, Value: decimal.Zero},
					index: make(map[string]*branch),
				}
				cur.index[label] = next
				cur.node.Children = append(cur.node.Children, next.node)
			}
			next.node.Value = next.node.Value.Add(r.Net)
			next.node.Count++
			cur = next
		}
	})

	total := root.Value
	root.Walk(func(n *Node, _ int) {
		sort.SliceStable(n.Children, func(i, j int) bool {
			return n.Children[i].Value.GreaterThan(n.Children[j].Value)
		})
		n.Percent = e.percent(n.Value, total)
	})

	return root, nil
}
