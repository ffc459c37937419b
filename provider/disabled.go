package provider

import (
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// DisabledFields claims every field access and fails it. Put it in a chain
// to make sure no later provider touches fields.
type DisabledFields struct{ Base }

func (DisabledFields) CanGetField(vc *vm.Context, f vm.FieldRef) bool { return true }

func (DisabledFields) GetField(vc *vm.Context, f vm.FieldRef) (object.Value, error) {
	return nil, fault(vc, "field access is disabled: get %s", f)
}

func (DisabledFields) CanSetField(vc *vm.Context, f vm.FieldRef, v object.Value) bool { return true }

func (DisabledFields) SetField(vc *vm.Context, f vm.FieldRef, v object.Value) error {
	return fault(vc, "field access is disabled: set %s", f)
}

// DisabledMethods claims every method invocation and fails it.
type DisabledMethods struct{ Base }

func (DisabledMethods) CanInvokeMethod(vc *vm.Context, call *vm.MethodCall) bool { return true }

func (DisabledMethods) InvokeMethod(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	return nil, fault(vc, "method invocation is disabled: %s", call)
}
