package vm

import (
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
)

// DispatchKindOf returns how a call to method should be dispatched: static
// methods are InvokeStatic, methods of interfaces InvokeInterface and every
// other method InvokeVirtual.
func DispatchKindOf(class *bytecode.Class, method *bytecode.Method) object.DispatchKind {
	switch {
	case method.IsStatic():
		return object.InvokeStatic
	case class.IsInterface():
		return object.InvokeInterface
	}
	return object.InvokeVirtual
}

// Resolve returns the method handle naming method of class.
func Resolve(class *bytecode.Class, method *bytecode.Method) *object.MethodHandle {
	return object.NewMethodHandle(class.Name(), method.Name(), method.Desc(), DispatchKindOf(class, method))
}

// Invoke calls owner.name with the given descriptor through the provider
// chain of vc.
//
// Arguments may be Values or raw host values. A raw value whose host type
// is exactly the declared primitive parameter type becomes that primitive;
// every other raw value goes through object.ValueOf. A nil receiver means a
// static call.
func Invoke(vc *Context, owner, name, desc string, receiver any, args ...any) (object.Value, error) {
	call, err := newCall(vc, owner, name, desc, receiver, args)
	if err != nil {
		return nil, err
	}
	return invokeCall(vc, call)
}

// InvokeMethod calls a dictionary method through the provider chain, with
// the dispatch kind given by DispatchKindOf.
func InvokeMethod(vc *Context, class *bytecode.Class, method *bytecode.Method, receiver any, args ...any) (object.Value, error) {
	call, err := newCall(vc, class.Name(), method.Name(), method.Desc(), receiver, args)
	if err != nil {
		return nil, err
	}
	call.Dispatch = DispatchKindOf(class, method)
	return invokeCall(vc, call)
}

func newCall(vc *Context, owner, name, desc string, receiver any, args []any) (*MethodCall, error) {
	params, _, err := bytecode.ParseMethodDescriptor(desc)
	if err != nil {
		return nil, vc.fail(errz.ErrFault, "%s.%s%s", owner, name, desc).WithCause(err)
	}
	if len(args) != len(params) {
		return nil, vc.fail(errz.ErrFault, "%s.%s%s takes %d arguments (%d given)",
			bytecode.DottedName(owner), name, desc, len(params), len(args))
	}
	values := make([]object.Value, len(args))
	for i, raw := range args {
		values[i] = coerce(params[i], raw)
	}
	call := &MethodCall{
		Owner:    owner,
		Name:     name,
		Desc:     desc,
		Dispatch: object.InvokeStatic,
		Args:     values,
	}
	if receiver != nil {
		call.Receiver = object.ValueOf(receiver)
		call.Dispatch = object.InvokeVirtual
	}
	return call, nil
}

func coerce(param bytecode.Type, raw any) object.Value {
	if v, ok := raw.(object.Value); ok {
		return v
	}
	if param.IsPrimitive() {
		if v, ok := object.Box(param.ClassName(), raw); ok {
			return v
		}
	}
	return object.ValueOf(raw)
}

func invokeCall(vc *Context, call *MethodCall) (object.Value, error) {
	p := vc.provider
	if p == nil || !p.CanInvokeMethod(vc, call) {
		return nil, vc.fail(errz.ErrUnsupported, "could not invoke %s %s%s",
			bytecode.DottedName(call.Owner), call.Name, call.Desc)
	}
	v, err := p.InvokeMethod(vc, call)
	if err != nil {
		return nil, errz.Wrap(err, vc.StackTrace(), "%s %s%s failed",
			bytecode.DottedName(call.Owner), call.Name, call.Desc)
	}
	return v, nil
}

func getField(vc *Context, field FieldRef) (object.Value, error) {
	p := vc.provider
	if p == nil || !p.CanGetField(vc, field) {
		return nil, vc.fail(errz.ErrUnsupported, "could not get field %s", field)
	}
	v, err := p.GetField(vc, field)
	if err != nil {
		return nil, errz.Wrap(err, vc.StackTrace(), "get field %s failed", field)
	}
	if v == nil {
		return nil, vc.fail(errz.ErrFault, "get field %s produced no value", field)
	}
	return v, nil
}

func setField(vc *Context, field FieldRef, value object.Value) error {
	p := vc.provider
	if p == nil || !p.CanSetField(vc, field, value) {
		return vc.fail(errz.ErrUnsupported, "could not set field %s", field)
	}
	return errz.Wrap(p.SetField(vc, field, value), vc.StackTrace(), "set field %s failed", field)
}

func checkEquality(vc *Context, a, b object.Value) (bool, error) {
	p := vc.provider
	if p == nil || !p.CanCheckEquality(vc, a, b) {
		return false, vc.fail(errz.ErrUnsupported, "could not compare %s and %s", a.Inspect(), b.Inspect())
	}
	eq, err := p.CheckEquality(vc, a, b)
	return eq, errz.Wrap(err, vc.StackTrace(), "comparison failed")
}

func checkInstanceOf(vc *Context, v object.Value, typ string) (bool, error) {
	p := vc.provider
	if p == nil || !p.CanCheckInstanceOf(vc, v, typ) {
		return false, vc.fail(errz.ErrUnsupported, "could not check %s instanceof %s", v.Inspect(), typ)
	}
	ok, err := p.CheckInstanceOf(vc, v, typ)
	return ok, errz.Wrap(err, vc.StackTrace(), "instanceof %s failed", typ)
}

func checkcast(vc *Context, v object.Value, typ string) (bool, error) {
	p := vc.provider
	if p == nil || !p.CanCheckcast(vc, v, typ) {
		return false, vc.fail(errz.ErrUnsupported, "could not cast %s to %s", v.Inspect(), typ)
	}
	ok, err := p.Checkcast(vc, v, typ)
	return ok, errz.Wrap(err, vc.StackTrace(), "checkcast %s failed", typ)
}
