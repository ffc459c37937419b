package flow

import (
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/op"
)

// Partition splits a method into label-delimited blocks and computes the
// edges between them.
//
// Every instruction belongs to exactly one block: the nearest label at or
// before it, or the sentinel block when no label precedes it. A block that
// is not closed by a goto, switch or return gets a fallthrough edge to the
// next label, and that edge always comes last. jsr and ret are rejected.
func Partition(m *bytecode.Method) (*Graph, error) {
	g := newGraph(m)
	current := g.open(bytecode.Sentinel)
	hit := false
	for i := 0; i < m.InstructionCount(); i++ {
		ins := m.InstructionAt(i)
		kind := ins.Kind()
		switch kind {
		case op.KindSubroutine:
			return nil, errz.AnalysisErrorf(m.Key(), i, "subroutines (%s) are not supported", ins.Op)
		case op.KindLabel:
			if !hit {
				current.Edges = append(current.Edges, Edge{
					Target: ins.Label,
					Cause:  Fallthrough,
					Source: -1,
				})
			}
			hit = false
			current = g.open(ins.Label)
			continue
		case op.KindGoto, op.KindSwitch, op.KindReturn:
			hit = true
		}
		current.Instructions = append(current.Instructions, i)
	}

	for _, l := range g.labels {
		b := g.blocks[l]
		b.Edges = append(b.Edges, transfers(m, b)...)
		// The fallthrough recorded while scanning precedes the transfers;
		// it belongs at the end.
		if len(b.Edges) > 1 && b.Edges[0].Cause == Fallthrough {
			b.Edges = append(b.Edges[1:], b.Edges[0])
		}
	}
	return g, nil
}

// transfers returns the jump and switch edges leaving a block. Conditional
// jumps do not end the scan; the first goto, switch or return does.
func transfers(m *bytecode.Method, b *Block) []Edge {
	var edges []Edge
	for _, i := range b.Instructions {
		ins := m.InstructionAt(i)
		switch ins.Kind() {
		case op.KindGoto:
			return append(edges, Edge{Target: ins.Label, Cause: UnconditionalJump, Source: i})
		case op.KindConditional:
			edges = append(edges, Edge{Target: ins.Label, Cause: ConditionalJump, Source: i})
		case op.KindSwitch:
			for n, target := range ins.Targets {
				edges = append(edges, Edge{Target: target, Cause: SwitchCase, Index: n, Source: i})
			}
			return append(edges, Edge{
				Target: ins.Default,
				Cause:  SwitchCase,
				Index:  len(ins.Targets),
				Source: i,
			})
		case op.KindReturn:
			return edges
		}
	}
	return edges
}
