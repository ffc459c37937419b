package flow

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/unweave/bytecode"
)

// Cause tells why control moves along an edge.
type Cause int

const (
	Fallthrough Cause = iota
	UnconditionalJump
	ConditionalJump
	SwitchCase
)

func (c Cause) String() string {
	switch c {
	case Fallthrough:
		return "next"
	case UnconditionalJump:
		return "goto"
	case ConditionalJump:
		return "conditional"
	case SwitchCase:
		return "switch"
	}
	return fmt.Sprintf("cause(%d)", int(c))
}

// Edge is a control transfer out of a block.
type Edge struct {
	Target bytecode.Label
	Cause  Cause
	// Index is the position of a switch edge: cases 0..N-1, default N. It is
	// zero for every other cause.
	Index int
	// Source is the instruction that created the edge, -1 for fallthrough.
	Source int
}

func (e Edge) String() string {
	if e.Cause == SwitchCase {
		return fmt.Sprintf("%s[%d] -> %s", e.Cause, e.Index, e.Target)
	}
	return fmt.Sprintf("%s -> %s", e.Cause, e.Target)
}

// Block is the run of instructions owned by one label. The label marker
// itself is not part of Instructions.
type Block struct {
	Label        bytecode.Label
	Instructions []int
	Edges        []Edge
}

// Fallthrough returns the block's fallthrough edge, if it has one.
func (b *Block) Fallthrough() (Edge, bool) {
	if n := len(b.Edges); n > 0 && b.Edges[n-1].Cause == Fallthrough {
		return b.Edges[n-1], true
	}
	return Edge{}, false
}

// Graph is the block partition of one method.
type Graph struct {
	method *bytecode.Method
	labels []bytecode.Label
	blocks map[bytecode.Label]*Block
}

func newGraph(m *bytecode.Method) *Graph {
	return &Graph{method: m, blocks: map[bytecode.Label]*Block{}}
}

func (g *Graph) open(l bytecode.Label) *Block {
	b := &Block{Label: l}
	g.labels = append(g.labels, l)
	g.blocks[l] = b
	return b
}

// Method returns the partitioned method.
func (g *Graph) Method() *bytecode.Method {
	return g.method
}

// Labels returns the block labels in declaration order, starting with the
// sentinel.
func (g *Graph) Labels() []bytecode.Label {
	return append([]bytecode.Label(nil), g.labels...)
}

// Block returns the block owned by the given label.
func (g *Graph) Block(l bytecode.Label) (*Block, bool) {
	b, ok := g.blocks[l]
	return b, ok
}

// BlockCount returns the number of blocks, the sentinel included.
func (g *Graph) BlockCount() int {
	return len(g.labels)
}

// BlockOf returns the block containing the given instruction index.
func (g *Graph) BlockOf(index int) *Block {
	return g.blocks[g.method.OwningLabel(index)]
}

// Successors returns the distinct edge targets of a block in edge order.
func (g *Graph) Successors(l bytecode.Label) []bytecode.Label {
	b, ok := g.blocks[l]
	if !ok {
		return nil
	}
	var out []bytecode.Label
	seen := map[bytecode.Label]bool{}
	for _, e := range b.Edges {
		if !seen[e.Target] {
			seen[e.Target] = true
			out = append(out, e.Target)
		}
	}
	return out
}

// Predecessors returns the labels of blocks with an edge into l, in block
// order.
func (g *Graph) Predecessors(l bytecode.Label) []bytecode.Label {
	var out []bytecode.Label
	for _, from := range g.labels {
		for _, e := range g.blocks[from].Edges {
			if e.Target == l {
				out = append(out, from)
				break
			}
		}
	}
	return out
}

func (g *Graph) String() string {
	var b strings.Builder
	for _, l := range g.labels {
		blk := g.blocks[l]
		fmt.Fprintf(&b, "%s: %d instructions", l, len(blk.Instructions))
		for _, e := range blk.Edges {
			fmt.Fprintf(&b, ", %s", e)
		}
		b.WriteString("\n")
	}
	return b.String()
}
