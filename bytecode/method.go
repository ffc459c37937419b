package bytecode

import (
	"fmt"

	"github.com/cloudcmds/unweave/op"
)

// Access flags for classes, fields and methods.
const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccInterface = 0x0200
	AccAbstract  = 0x0400
)

// Method is an immutable method body. Instructions are addressed by index;
// label markers are part of the instruction stream.
type Method struct {
	owner     string
	name      string
	desc      string
	access    int
	maxLocals int

	instructions []Instruction
	tryCatches   []TryCatch

	labels    map[Label]int
	params    []Type
	returns   Type
	argsSlots int
}

// MethodParams contains parameters for creating a new Method.
type MethodParams struct {
	Owner        string
	Name         string
	Desc         string
	Access       int
	MaxLocals    int
	Instructions []Instruction
	TryCatches   []TryCatch
}

// NewMethod creates a new immutable Method from the given parameters. Input
// slices are copied. Labels must be unique and every jump, switch and
// try-catch reference must name a label defined in the method.
func NewMethod(params MethodParams) (*Method, error) {
	argTypes, ret, err := ParseMethodDescriptor(params.Desc)
	if err != nil {
		return nil, err
	}
	m := &Method{
		owner:        params.Owner,
		name:         params.Name,
		desc:         params.Desc,
		access:       params.Access,
		instructions: copyInstructions(params.Instructions),
		tryCatches:   copyTryCatches(params.TryCatches),
		labels:       map[Label]int{},
		params:       argTypes,
		returns:      ret,
	}
	if !m.IsStatic() {
		m.argsSlots = 1
	}
	for _, t := range argTypes {
		m.argsSlots += t.Size()
	}
	m.maxLocals = params.MaxLocals
	if m.maxLocals < m.argsSlots {
		m.maxLocals = m.argsSlots
	}
	for i, ins := range m.instructions {
		if !ins.IsLabel() {
			continue
		}
		if ins.Label == Sentinel {
			return nil, fmt.Errorf("%s: label at %d uses the reserved sentinel id", m, i)
		}
		if _, dup := m.labels[ins.Label]; dup {
			return nil, fmt.Errorf("%s: duplicate label %s at %d", m, ins.Label, i)
		}
		m.labels[ins.Label] = i
	}
	for i, ins := range m.instructions {
		for _, target := range ins.JumpTargets() {
			if _, ok := m.labels[target]; !ok {
				return nil, fmt.Errorf("%s: instruction %d (%s) targets undefined label %s",
					m, i, ins.Op, target)
			}
		}
		if ins.Op == op.Lookupswitch && len(ins.Keys) != len(ins.Targets) {
			return nil, fmt.Errorf("%s: lookupswitch at %d has %d keys for %d targets",
				m, i, len(ins.Keys), len(ins.Targets))
		}
	}
	for i, tc := range m.tryCatches {
		for _, l := range []Label{tc.Start, tc.End, tc.Handler} {
			if _, ok := m.labels[l]; !ok {
				return nil, fmt.Errorf("%s: try-catch %d references undefined label %s", m, i, l)
			}
		}
	}
	return m, nil
}

// Owner returns the internal name of the declaring class.
func (m *Method) Owner() string {
	return m.owner
}

// Name returns the method name.
func (m *Method) Name() string {
	return m.name
}

// Desc returns the method descriptor.
func (m *Method) Desc() string {
	return m.desc
}

// Access returns the access flags.
func (m *Method) Access() int {
	return m.access
}

// IsStatic reports whether the method has no receiver.
func (m *Method) IsStatic() bool {
	return m.access&AccStatic != 0
}

// MaxLocals returns the number of local variable slots.
func (m *Method) MaxLocals() int {
	return m.maxLocals
}

// ParamTypes returns the declared parameter types.
func (m *Method) ParamTypes() []Type {
	return copyTypes(m.params)
}

// ReturnType returns the declared return type.
func (m *Method) ReturnType() Type {
	return m.returns
}

// ArgSlots returns the number of local slots taken by the receiver and the
// arguments on entry.
func (m *Method) ArgSlots() int {
	return m.argsSlots
}

// InstructionCount returns the number of instructions, labels included.
func (m *Method) InstructionCount() int {
	return len(m.instructions)
}

// InstructionAt returns the instruction at the given index.
func (m *Method) InstructionAt(index int) Instruction {
	return m.instructions[index]
}

// Instructions returns a copy of the instruction stream.
func (m *Method) Instructions() []Instruction {
	return copyInstructions(m.instructions)
}

// TryCatchCount returns the number of try-catch regions.
func (m *Method) TryCatchCount() int {
	return len(m.tryCatches)
}

// TryCatchAt returns the try-catch region at the given index.
func (m *Method) TryCatchAt(index int) TryCatch {
	return m.tryCatches[index]
}

// TryCatches returns a copy of the try-catch table.
func (m *Method) TryCatches() []TryCatch {
	return copyTryCatches(m.tryCatches)
}

// LabelIndex returns the stream position of the given label.
func (m *Method) LabelIndex(l Label) (int, bool) {
	idx, ok := m.labels[l]
	return idx, ok
}

// Labels returns the labels in declaration order.
func (m *Method) Labels() []Label {
	labels := make([]Label, 0, len(m.labels))
	for _, ins := range m.instructions {
		if ins.IsLabel() {
			labels = append(labels, ins.Label)
		}
	}
	return labels
}

// OwningLabel returns the nearest label at or before the given index, or
// Sentinel when no label precedes it.
func (m *Method) OwningLabel(index int) Label {
	for i := index; i >= 0; i-- {
		if m.instructions[i].IsLabel() {
			return m.instructions[i].Label
		}
	}
	return Sentinel
}

// NextReal returns the index of the first non-label instruction at or after
// the given index, or InstructionCount() if there is none.
func (m *Method) NextReal(index int) int {
	for index < len(m.instructions) && m.instructions[index].IsLabel() {
		index++
	}
	return index
}

// Key returns owner.name+desc, which identifies the method within a
// dictionary.
func (m *Method) Key() string {
	return m.owner + "." + m.name + m.desc
}

func (m *Method) String() string {
	return m.Key()
}
