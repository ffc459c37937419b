package bytecode

import "sort"

// Modifier queues edits against a method and applies them in one step,
// producing a new Method. Indexes always refer to the original method.
type Modifier struct {
	method   *Method
	replaced map[int][]Instruction
	inserted map[int][]Instruction
}

// NewModifier returns a Modifier for the given method.
func NewModifier(m *Method) *Modifier {
	return &Modifier{
		method:   m,
		replaced: map[int][]Instruction{},
		inserted: map[int][]Instruction{},
	}
}

// Replace substitutes the instruction at index with the given sequence.
func (mod *Modifier) Replace(index int, with ...Instruction) *Modifier {
	mod.replaced[index] = copyInstructions(with)
	if mod.replaced[index] == nil {
		mod.replaced[index] = []Instruction{}
	}
	return mod
}

// Remove deletes the instruction at index.
func (mod *Modifier) Remove(index int) *Modifier {
	return mod.Replace(index)
}

// RemoveAll deletes every instruction at the given indexes.
func (mod *Modifier) RemoveAll(indexes ...int) *Modifier {
	for _, i := range indexes {
		mod.Remove(i)
	}
	return mod
}

// InsertBefore places the given instructions before index.
func (mod *Modifier) InsertBefore(index int, ins ...Instruction) *Modifier {
	mod.inserted[index] = append(mod.inserted[index], ins...)
	return mod
}

// Pending reports whether any edit is queued.
func (mod *Modifier) Pending() bool {
	return len(mod.replaced) > 0 || len(mod.inserted) > 0
}

// Apply builds the edited method. Try-catch regions left without any real
// instruction are dropped.
func (mod *Modifier) Apply() (*Method, error) {
	m := mod.method
	out := make([]Instruction, 0, len(m.instructions))
	for i, ins := range m.instructions {
		out = append(out, mod.inserted[i]...)
		if with, ok := mod.replaced[i]; ok {
			out = append(out, with...)
			continue
		}
		out = append(out, ins)
	}
	out = append(out, mod.inserted[len(m.instructions)]...)

	edited, err := NewMethod(MethodParams{
		Owner:        m.owner,
		Name:         m.name,
		Desc:         m.desc,
		Access:       m.access,
		MaxLocals:    m.maxLocals,
		Instructions: out,
		TryCatches:   m.tryCatches,
	})
	if err != nil {
		return nil, err
	}
	return RemoveEmptyTryCatches(edited)
}

// RemoveEmptyTryCatches returns m without the try-catch regions whose start
// and end resolve to the same real instruction. m itself is returned when
// there is nothing to drop.
func RemoveEmptyTryCatches(m *Method) (*Method, error) {
	var kept []TryCatch
	for _, tc := range m.tryCatches {
		start, _ := m.LabelIndex(tc.Start)
		end, _ := m.LabelIndex(tc.End)
		if m.NextReal(start) == m.NextReal(end) {
			continue
		}
		kept = append(kept, tc)
	}
	if len(kept) == len(m.tryCatches) {
		return m, nil
	}
	return NewMethod(MethodParams{
		Owner:        m.owner,
		Name:         m.name,
		Desc:         m.desc,
		Access:       m.access,
		MaxLocals:    m.maxLocals,
		Instructions: m.instructions,
		TryCatches:   kept,
	})
}

// Indexes returns the sorted indexes touched by queued replacements.
func (mod *Modifier) Indexes() []int {
	idx := make([]int, 0, len(mod.replaced))
	for i := range mod.replaced {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
