package dataflow

import (
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/op"
)

// Flow is the result of building a range of a method.
type Flow struct {
	method  *bytecode.Method
	frames  []*Frame
	byIndex map[int]*Frame
	stack   []*Frame
	stop    int
}

// Method returns the method the flow was built from.
func (fl *Flow) Method() *bytecode.Method {
	return fl.method
}

// Frames returns the frames in execution order.
func (fl *Flow) Frames() []*Frame {
	return fl.frames
}

// At returns the frame of the instruction at index.
func (fl *Flow) At(index int) (*Frame, bool) {
	f, ok := fl.byIndex[index]
	return f, ok
}

// Stack returns the frames whose values were left on the operand stack,
// bottom first.
func (fl *Flow) Stack() []*Frame {
	return fl.stack
}

// Stop returns the index of the control transfer that ended the build, or
// -1 if the whole range was executed.
func (fl *Flow) Stop() int {
	return fl.stop
}

type entry struct {
	frame *Frame
	wide  bool
}

type builder struct {
	method *bytecode.Method
	flow   *Flow
	stack  []entry
	locals map[int]*Frame
}

// Build executes the instructions in [from, to) symbolically, starting
// with an empty operand stack. The build ends early, without error, at the
// first jump, switch, return or throw. Popping a value that was pushed
// before from is an error.
func Build(m *bytecode.Method, from, to int) (*Flow, error) {
	if from < 0 || to > m.InstructionCount() || from > to {
		return nil, errz.AnalysisErrorf(m.Key(), from, "invalid range [%d, %d) for %d instructions",
			from, to, m.InstructionCount())
	}
	b := &builder{
		method: m,
		flow:   &Flow{method: m, byIndex: map[int]*Frame{}, stop: -1},
		locals: map[int]*Frame{},
	}
	for i := from; i < to; i++ {
		ins := m.InstructionAt(i)
		switch ins.Kind() {
		case op.KindLabel:
			continue
		case op.KindGoto, op.KindConditional, op.KindSwitch, op.KindReturn, op.KindThrow, op.KindSubroutine:
			b.flow.stop = i
			return b.finish(), nil
		}
		if err := b.step(i, ins); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

func (b *builder) finish() *Flow {
	b.flow.stack = make([]*Frame, len(b.stack))
	for i, e := range b.stack {
		b.flow.stack[i] = e.frame
	}
	return b.flow
}

func (b *builder) fail(i int, format string, args ...any) error {
	return errz.AnalysisErrorf(b.method.Key(), i, format, args...)
}

func (b *builder) newFrame(i int, ins bytecode.Instruction, typ bytecode.Type, operands []entry) *Frame {
	f := &Frame{Index: i, Op: ins.Op, Type: typ, ins: ins}
	for _, o := range operands {
		f.Operands = append(f.Operands, o.frame)
		o.frame.Consumers = append(o.frame.Consumers, f)
	}
	b.flow.frames = append(b.flow.frames, f)
	b.flow.byIndex[i] = f
	return f
}

func (b *builder) pop(i, n int) ([]entry, error) {
	if n > len(b.stack) {
		return nil, b.fail(i, "stack underflow: %s needs %d values, %d available",
			b.method.InstructionAt(i).Op, n, len(b.stack))
	}
	out := make([]entry, n)
	copy(out, b.stack[len(b.stack)-n:])
	b.stack = b.stack[:len(b.stack)-n]
	return out, nil
}

func (b *builder) push(f *Frame) {
	if f.Pushes() {
		b.stack = append(b.stack, entry{frame: f, wide: f.Type.Size() == 2})
	}
}

func (b *builder) step(i int, ins bytecode.Instruction) error {
	c := ins.Op
	switch {
	case isLoad(c):
		slot, _ := ins.LocalIndex()
		f := b.newFrame(i, ins, loadType(c), nil)
		if def, ok := b.locals[slot]; ok {
			f.Operands = []*Frame{def}
			def.Consumers = append(def.Consumers, f)
		}
		b.push(f)
		return nil
	case isStore(c):
		slot, _ := ins.LocalIndex()
		operands, err := b.pop(i, 1)
		if err != nil {
			return err
		}
		f := b.newFrame(i, ins, voidType, operands)
		b.locals[slot] = f
		if operands[0].wide {
			delete(b.locals, slot+1)
		}
		return nil
	case c == op.Iinc:
		f := b.newFrame(i, ins, voidType, nil)
		if def, ok := b.locals[ins.Int]; ok {
			f.Operands = []*Frame{def}
			def.Consumers = append(def.Consumers, f)
		}
		b.locals[ins.Int] = f
		return nil
	case c >= op.Pop && c <= op.Swap:
		return b.stackOp(i, ins)
	}
	pops, typ, err := effect(ins)
	if err != nil {
		return b.fail(i, "%s", err)
	}
	operands, err := b.pop(i, pops)
	if err != nil {
		return err
	}
	if c == op.Aaload && operands[0].frame.Type.Sort == bytecode.SortArray {
		typ = operands[0].frame.Type.Elem()
	}
	b.push(b.newFrame(i, ins, typ, operands))
	return nil
}

// stackOp handles pop, dup and swap forms. Copies made by dup forms are
// represented by the dup frame itself.
func (b *builder) stackOp(i int, ins bytecode.Instruction) error {
	if ins.Op == op.Swap {
		operands, err := b.pop(i, 2)
		if err != nil {
			return err
		}
		if operands[0].wide || operands[1].wide {
			return b.fail(i, "swap of a long or double value")
		}
		f := b.newFrame(i, ins, operands[1].frame.Type, operands)
		b.stack = append(b.stack, entry{frame: f}, entry{frame: f})
		return nil
	}
	var copyWords, skipWords int
	switch ins.Op {
	case op.Pop:
		copyWords = 1
	case op.Pop2:
		copyWords = 2
	case op.Dup, op.DupX1, op.DupX2:
		copyWords, skipWords = 1, int(ins.Op-op.Dup)
	case op.Dup2, op.Dup2X1, op.Dup2X2:
		copyWords, skipWords = 2, int(ins.Op-op.Dup2)
	}
	top, err := b.takeWords(i, copyWords)
	if err != nil {
		return err
	}
	if ins.Op == op.Pop || ins.Op == op.Pop2 {
		b.newFrame(i, ins, voidType, top)
		return nil
	}
	skipped, err := b.takeWords(i, skipWords)
	if err != nil {
		return err
	}
	f := b.newFrame(i, ins, top[len(top)-1].frame.Type, top)
	for _, e := range top {
		b.stack = append(b.stack, entry{frame: f, wide: e.wide})
	}
	b.stack = append(b.stack, skipped...)
	b.stack = append(b.stack, top...)
	return nil
}

// takeWords pops entries covering exactly n stack words.
func (b *builder) takeWords(i, n int) ([]entry, error) {
	words, count := 0, 0
	for words < n {
		if count == len(b.stack) {
			return nil, b.fail(i, "stack underflow: %s", b.method.InstructionAt(i).Op)
		}
		e := b.stack[len(b.stack)-1-count]
		count++
		words++
		if e.wide {
			words++
		}
	}
	if words != n {
		return nil, b.fail(i, "%s splits a long or double value", b.method.InstructionAt(i).Op)
	}
	return b.pop(i, count)
}
