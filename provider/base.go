package provider

import (
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Base handles nothing. Embed it to implement only the families a provider
// cares about.
type Base struct{}

func (Base) CanInvokeMethod(vc *vm.Context, call *vm.MethodCall) bool { return false }

func (Base) InvokeMethod(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	return nil, unsupported(vc, "invoke %s", call)
}

func (Base) CanGetField(vc *vm.Context, f vm.FieldRef) bool { return false }

func (Base) GetField(vc *vm.Context, f vm.FieldRef) (object.Value, error) {
	return nil, unsupported(vc, "get %s", f)
}

func (Base) CanSetField(vc *vm.Context, f vm.FieldRef, v object.Value) bool { return false }

func (Base) SetField(vc *vm.Context, f vm.FieldRef, v object.Value) error {
	return unsupported(vc, "set %s", f)
}

func (Base) CanCheckEquality(vc *vm.Context, a, b object.Value) bool { return false }

func (Base) CheckEquality(vc *vm.Context, a, b object.Value) (bool, error) {
	return false, unsupported(vc, "compare %s and %s", a.Inspect(), b.Inspect())
}

func (Base) CanCheckInstanceOf(vc *vm.Context, v object.Value, typ string) bool { return false }

func (Base) CheckInstanceOf(vc *vm.Context, v object.Value, typ string) (bool, error) {
	return false, unsupported(vc, "instanceof %s", typ)
}

func (Base) CanCheckcast(vc *vm.Context, v object.Value, typ string) bool { return false }

func (Base) Checkcast(vc *vm.Context, v object.Value, typ string) (bool, error) {
	return false, unsupported(vc, "checkcast %s", typ)
}

var _ vm.Provider = Base{}
