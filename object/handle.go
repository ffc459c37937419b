package object

import (
	"fmt"
	"hash/fnv"

	"github.com/cloudcmds/unweave/bytecode"
)

// Address refers to one instruction of a method. It stands for a call target
// that has not been resolved to a method handle.
type Address struct {
	base
	method *bytecode.Method
	index  int
}

func NewAddress(m *bytecode.Method, index int) *Address {
	return &Address{method: m, index: index}
}

func (a *Address) Type() Type               { return ADDRESS }
func (a *Address) Method() *bytecode.Method { return a.method }
func (a *Address) Index() int               { return a.index }
func (a *Address) Interface() any           { return a.index }
func (a *Address) Copy() Value              { return &Address{method: a.method, index: a.index} }

// Instruction returns the referenced instruction.
func (a *Address) Instruction() bytecode.Instruction {
	return a.method.InstructionAt(a.index)
}

func (a *Address) Inspect() string {
	if a.method == nil {
		return fmt.Sprintf("address(%d)", a.index)
	}
	return fmt.Sprintf("address(%s@%d: %s)", a.method.Key(), a.index, a.Instruction())
}

func (a *Address) String() string { return a.Inspect() }

func (a *Address) Equals(other Value) bool {
	x, ok := other.(*Address)
	return ok && x.method == a.method && x.index == a.index
}

// DispatchKind is how a resolved method is invoked.
type DispatchKind uint8

const (
	InvokeVirtual DispatchKind = iota
	InvokeStatic
	InvokeInterface
	InvokeSpecial
)

func (k DispatchKind) String() string {
	switch k {
	case InvokeStatic:
		return "invokestatic"
	case InvokeInterface:
		return "invokeinterface"
	case InvokeSpecial:
		return "invokespecial"
	default:
		return "invokevirtual"
	}
}

// MethodHandle is the result of resolving a call target: the owner class,
// member name, descriptor and dispatch kind.
type MethodHandle struct {
	base
	Owner    string
	Name     string
	Desc     string
	Dispatch DispatchKind
}

func NewMethodHandle(owner, name, desc string, kind DispatchKind) *MethodHandle {
	return &MethodHandle{Owner: owner, Name: name, Desc: desc, Dispatch: kind}
}

func (h *MethodHandle) Type() Type     { return METHOD_HANDLE }
func (h *MethodHandle) Interface() any { return h.Owner + "." + h.Name + h.Desc }

func (h *MethodHandle) Copy() Value {
	cp := *h
	return &cp
}

func (h *MethodHandle) Inspect() string {
	return fmt.Sprintf("%s %s.%s%s", h.Dispatch, h.Owner, h.Name, h.Desc)
}

func (h *MethodHandle) String() string { return h.Inspect() }

// Equals reports whether both handles name the same member of the same
// declaring class. The dispatch kind does not take part.
func (h *MethodHandle) Equals(other Value) bool {
	x, ok := other.(*MethodHandle)
	return ok && x.Owner == h.Owner && x.Name == h.Name && x.Desc == h.Desc
}

// Hash combines the owner and member name hashes. Handles that are Equal
// hash the same.
func (h *MethodHandle) Hash() uint32 {
	return hashString(h.Owner) ^ hashString(h.Name)
}

// Key returns a string usable as a map key for deduplicating handles.
func (h *MethodHandle) Key() string {
	return h.Owner + "." + h.Name + h.Desc
}

func hashString(s string) uint32 {
	f := fnv.New32a()
	f.Write([]byte(s))
	return f.Sum32()
}
