package provider

import (
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Funcs adapts plain functions to a provider. A request is claimed when both
// the matching Can function and the operation function are set and the Can
// function returns true. A nil Can function with a set operation function
// claims every request of that kind.
type Funcs struct {
	CanInvoke func(vc *vm.Context, call *vm.MethodCall) bool
	Invoke    func(vc *vm.Context, call *vm.MethodCall) (object.Value, error)

	CanGet func(vc *vm.Context, f vm.FieldRef) bool
	Get    func(vc *vm.Context, f vm.FieldRef) (object.Value, error)
	CanSet func(vc *vm.Context, f vm.FieldRef, v object.Value) bool
	Set    func(vc *vm.Context, f vm.FieldRef, v object.Value) error

	Equal      func(vc *vm.Context, a, b object.Value) (bool, error)
	InstanceOf func(vc *vm.Context, v object.Value, typ string) (bool, error)
	Cast       func(vc *vm.Context, v object.Value, typ string) (bool, error)
}

func (p *Funcs) CanInvokeMethod(vc *vm.Context, call *vm.MethodCall) bool {
	return p.Invoke != nil && (p.CanInvoke == nil || p.CanInvoke(vc, call))
}

func (p *Funcs) InvokeMethod(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	if p.Invoke == nil {
		return Base{}.InvokeMethod(vc, call)
	}
	return p.Invoke(vc, call)
}

func (p *Funcs) CanGetField(vc *vm.Context, f vm.FieldRef) bool {
	return p.Get != nil && (p.CanGet == nil || p.CanGet(vc, f))
}

func (p *Funcs) GetField(vc *vm.Context, f vm.FieldRef) (object.Value, error) {
	if p.Get == nil {
		return Base{}.GetField(vc, f)
	}
	return p.Get(vc, f)
}

func (p *Funcs) CanSetField(vc *vm.Context, f vm.FieldRef, v object.Value) bool {
	return p.Set != nil && (p.CanSet == nil || p.CanSet(vc, f, v))
}

func (p *Funcs) SetField(vc *vm.Context, f vm.FieldRef, v object.Value) error {
	if p.Set == nil {
		return Base{}.SetField(vc, f, v)
	}
	return p.Set(vc, f, v)
}

func (p *Funcs) CanCheckEquality(vc *vm.Context, a, b object.Value) bool { return p.Equal != nil }

func (p *Funcs) CheckEquality(vc *vm.Context, a, b object.Value) (bool, error) {
	if p.Equal == nil {
		return Base{}.CheckEquality(vc, a, b)
	}
	return p.Equal(vc, a, b)
}

func (p *Funcs) CanCheckInstanceOf(vc *vm.Context, v object.Value, typ string) bool {
	return p.InstanceOf != nil
}

func (p *Funcs) CheckInstanceOf(vc *vm.Context, v object.Value, typ string) (bool, error) {
	if p.InstanceOf == nil {
		return Base{}.CheckInstanceOf(vc, v, typ)
	}
	return p.InstanceOf(vc, v, typ)
}

func (p *Funcs) CanCheckcast(vc *vm.Context, v object.Value, typ string) bool { return p.Cast != nil }

func (p *Funcs) Checkcast(vc *vm.Context, v object.Value, typ string) (bool, error) {
	if p.Cast == nil {
		return Base{}.Checkcast(vc, v, typ)
	}
	return p.Cast(vc, v, typ)
}

var _ vm.Provider = (*Funcs)(nil)
