package dataflow

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/op"
)

// Frame is one executed instruction and the values it is connected to.
type Frame struct {
	// Index is the instruction's position in the method.
	Index int
	Op    op.Code
	// Type is the type of the value the instruction pushed. It has sort
	// void when nothing was pushed.
	Type bytecode.Type
	// Operands are the frames whose values the instruction consumed, in
	// push order. For a load it is the store that defined the slot.
	Operands []*Frame
	// Consumers are the frames that consumed this frame's value.
	Consumers []*Frame

	ins bytecode.Instruction
}

// Instruction returns the executed instruction.
func (f *Frame) Instruction() bytecode.Instruction {
	return f.ins
}

// Pushes reports whether the instruction produced a value.
func (f *Frame) Pushes() bool {
	return f.Type.Sort != bytecode.SortVoid
}

// Unresolved reports whether the frame reads a local variable that was
// not written inside the built range.
func (f *Frame) Unresolved() bool {
	return (isLoad(f.Op) || f.Op == op.Iinc) && len(f.Operands) == 0
}

// Slice returns the ascending instruction indexes needed to recompute the
// frame's value: the frame itself, its operands transitively and, for
// objects created with new, the constructor call made on them.
func (f *Frame) Slice() []int {
	frames := f.closure()
	indexes := make([]int, len(frames))
	for i, x := range frames {
		indexes[i] = x.Index
	}
	return indexes
}

// closure returns the frames of the slice in instruction order.
func (f *Frame) closure() []*Frame {
	seen := mapset.NewThreadUnsafeSet[*Frame]()
	var visit func(x *Frame)
	visit = func(x *Frame) {
		if !seen.Add(x) {
			return
		}
		for _, o := range x.Operands {
			visit(o)
		}
		if x.Op == op.New {
			if ctor, ok := constructorOf(x); ok {
				visit(ctor)
			}
		}
	}
	visit(f)
	frames := seen.ToSlice()
	sort.Slice(frames, func(i, j int) bool { return frames[i].Index < frames[j].Index })
	return frames
}

// constructorOf finds the invokespecial <init> that consumes a copy of a
// new object, in the usual new, dup, args, invokespecial shape.
func constructorOf(n *Frame) (*Frame, bool) {
	for _, c := range n.Consumers {
		if isConstructor(c) && c.Operands[0] == n {
			return c, true
		}
		if c.Op != op.Dup {
			continue
		}
		for _, cc := range c.Consumers {
			if isConstructor(cc) && cc.Operands[0] == c {
				return cc, true
			}
		}
	}
	return nil, false
}

func isConstructor(f *Frame) bool {
	return f.Op == op.Invokespecial && f.ins.Name == "<init>" && len(f.Operands) > 0
}

func (f *Frame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s", f.Index, f.ins)
	if len(f.Operands) > 0 {
		ops := make([]string, len(f.Operands))
		for i, o := range f.Operands {
			ops[i] = fmt.Sprint(o.Index)
		}
		fmt.Fprintf(&b, " <- [%s]", strings.Join(ops, " "))
	}
	return b.String()
}
