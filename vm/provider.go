package vm

import (
	"fmt"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/object"
)

// MethodCall describes one method invocation handed to a provider.
type MethodCall struct {
	Owner    string
	Name     string
	Desc     string
	Dispatch object.DispatchKind
	// Receiver is nil for static calls.
	Receiver object.Value
	Args     []object.Value
	// Site is set when the call stands for an invokedynamic call site. The
	// member is then the bootstrap method and Args are the call site
	// arguments.
	Site *CallSite
}

// CallSite describes an invokedynamic call site.
type CallSite struct {
	Name          string
	Desc          string
	BootstrapArgs []any
}

// Is reports whether the call targets owner.name with the given descriptor.
// An empty desc matches any descriptor.
func (c *MethodCall) Is(owner, name, desc string) bool {
	return c.Owner == owner && c.Name == name && (desc == "" || c.Desc == desc)
}

// ReturnType returns the declared return type.
func (c *MethodCall) ReturnType() bytecode.Type {
	_, ret, err := bytecode.ParseMethodDescriptor(c.Desc)
	if err != nil {
		return bytecode.Type{Sort: bytecode.SortVoid, Desc: "V"}
	}
	return ret
}

func (c *MethodCall) String() string {
	return fmt.Sprintf("%s %s.%s%s", c.Dispatch, c.Owner, c.Name, c.Desc)
}

// FieldRef describes a field access handed to a provider.
type FieldRef struct {
	Owner string
	Name  string
	Desc  string
	// Receiver is nil for static fields.
	Receiver object.Value
}

// IsStatic reports whether the access has no receiver.
func (f FieldRef) IsStatic() bool {
	return f.Receiver == nil
}

func (f FieldRef) String() string {
	return f.Owner + "." + f.Name + " " + f.Desc
}

// MethodProvider supplies the semantics of method invocations. Invoke*
// methods are only called after the matching Can* predicate returned true.
// A void method returns a nil Value.
type MethodProvider interface {
	CanInvokeMethod(vc *Context, call *MethodCall) bool
	InvokeMethod(vc *Context, call *MethodCall) (object.Value, error)
}

// FieldProvider supplies the semantics of field reads and writes.
type FieldProvider interface {
	CanGetField(vc *Context, field FieldRef) bool
	GetField(vc *Context, field FieldRef) (object.Value, error)
	CanSetField(vc *Context, field FieldRef, value object.Value) bool
	SetField(vc *Context, field FieldRef, value object.Value) error
}

// ComparisonProvider supplies reference equality and type checks. typ is an
// internal class name or an array descriptor.
type ComparisonProvider interface {
	CanCheckEquality(vc *Context, a, b object.Value) bool
	CheckEquality(vc *Context, a, b object.Value) (bool, error)
	CanCheckInstanceOf(vc *Context, v object.Value, typ string) bool
	CheckInstanceOf(vc *Context, v object.Value, typ string) (bool, error)
	CanCheckcast(vc *Context, v object.Value, typ string) bool
	Checkcast(vc *Context, v object.Value, typ string) (bool, error)
}

// Provider supplies every family of semantics the interpreter delegates.
type Provider interface {
	MethodProvider
	FieldProvider
	ComparisonProvider
}
