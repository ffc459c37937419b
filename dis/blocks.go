package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/flow"
)

// Block summarizes one block of a partitioned method.
type Block struct {
	Label        string   `yaml:"label"`
	Instructions []int    `yaml:"instructions,flow"`
	Edges        []string `yaml:"edges,omitempty"`
	Handlers     []string `yaml:"handlers,omitempty"`
}

// Blocks returns the blocks of g in declaration order, with the handlers
// active at each block's label.
func Blocks(g *flow.Graph) []Block {
	scopes := flow.Scopes(g.Method())
	var out []Block
	for _, l := range g.Labels() {
		b, _ := g.Block(l)
		row := Block{
			Label:        l.String(),
			Instructions: append([]int{}, b.Instructions...),
		}
		for _, e := range b.Edges {
			row.Edges = append(row.Edges, e.String())
		}
		for _, h := range scopes.Handlers(l) {
			row.Handlers = append(row.Handlers, h.String())
		}
		out = append(out, row)
	}
	return out
}

// PrintBlocks writes a block summary as a table.
func PrintBlocks(blocks []Block, writer io.Writer) {
	table := newTable(writer, "Block", "Range", "Size", "Edges", "Handlers")
	for _, b := range blocks {
		table.Append([]string{
			color.CyanString(b.Label),
			span(b.Instructions),
			fmt.Sprint(len(b.Instructions)),
			strings.Join(b.Edges, ", "),
			strings.Join(b.Handlers, ", "),
		})
	}
	table.Render()
}

// Step is one label visited by a walk.
type Step struct {
	Label        string `yaml:"label"`
	Instructions []int  `yaml:"instructions,flow"`
}

// Region returns the labels of r in visit order.
func Region(r *flow.Region) []Step {
	var out []Step
	for _, l := range r.Labels() {
		out = append(out, Step{Label: l.String(), Instructions: r.Instructions(l)})
	}
	return out
}

// PrintRegion writes a walk region as a table, one row per visited label.
func PrintRegion(steps []Step, m *bytecode.Method, writer io.Writer) {
	table := newTable(writer, "Order", "Label", "Instructions", "Last")
	for i, s := range steps {
		last := ""
		if n := len(s.Instructions); n > 0 {
			last = m.InstructionAt(s.Instructions[n-1]).String()
		}
		table.Append([]string{
			fmt.Sprint(i),
			color.CyanString(s.Label),
			span(s.Instructions),
			last,
		})
	}
	table.Render()
}

// span renders ascending indexes compactly, e.g. "0-3 7".
func span(indexes []int) string {
	var parts []string
	for i := 0; i < len(indexes); {
		j := i
		for j+1 < len(indexes) && indexes[j+1] == indexes[j]+1 {
			j++
		}
		if j == i {
			parts = append(parts, fmt.Sprint(indexes[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", indexes[i], indexes[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, " ")
}
