package provider

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

func constant(n int32) *Funcs {
	return &Funcs{
		Invoke: func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return object.NewInt(n), nil
		},
	}
}

func refusing() *Funcs {
	f := constant(-1)
	f.CanInvoke = func(vc *vm.Context, call *vm.MethodCall) bool { return false }
	return f
}

func TestDelegatingPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		chain    *Delegating
		expected int32
	}{
		{"first refuses", NewDelegating(refusing(), constant(2)), 2},
		{"first wins", NewDelegating(constant(1), constant(2)), 1},
		{"reversed", NewDelegating(constant(2), constant(1)), 2},
		{"prepended", NewDelegating(constant(1)).Prepend(constant(3)), 3},
		{"registered later", NewDelegating(refusing()).Register(constant(4)), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc := vm.NewContext(tt.chain)
			result, err := vm.Invoke(vc, "demo/Any", "f", "()I", nil)
			require.Nil(t, err)
			require.Equal(t, object.NewInt(tt.expected), result)
		})
	}
}

func TestDelegatingUnclaimed(t *testing.T) {
	d := NewDelegating(refusing(), nil)
	require.Len(t, d.Providers(), 1)
	vc := vm.NewContext(d)

	call := &vm.MethodCall{Owner: "demo/Any", Name: "f", Desc: "()I", Dispatch: object.InvokeStatic}
	require.False(t, d.CanInvokeMethod(vc, call))
	_, err := d.InvokeMethod(vc, call)
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrUnsupported, e.Kind)
	require.Equal(t, "unsupported operation: invoke invokestatic demo/Any.f()I", e.Error())

	field := vm.FieldRef{Owner: "demo/Any", Name: "x", Desc: "I"}
	_, err = d.GetField(vc, field)
	require.Error(t, err)
	require.Error(t, d.SetField(vc, field, object.NewInt(1)))
	_, err = d.CheckEquality(vc, object.NewNull(), object.NewNull())
	require.Error(t, err)
	_, err = d.CheckInstanceOf(vc, object.NewNull(), "demo/Any")
	require.Error(t, err)
	_, err = d.Checkcast(vc, object.NewNull(), "demo/Any")
	require.Error(t, err)
}

func TestDisabled(t *testing.T) {
	vc := vm.NewContext(NewDelegating(DisabledFields{}, NewFields()))
	d := vc.Provider()
	field := vm.FieldRef{Owner: "demo/Any", Name: "x", Desc: "I"}
	require.True(t, d.CanGetField(vc, field))
	_, err := d.GetField(vc, field)
	require.ErrorContains(t, err, "field access is disabled")

	vc = vm.NewContext(NewDelegating(DisabledMethods{}, constant(1)))
	_, err = vm.Invoke(vc, "demo/Any", "f", "()I", nil)
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrFault, e.Kind)
	require.Contains(t, e.Message, "method invocation is disabled")

	// a provider ahead of the disabled one still answers
	vc = vm.NewContext(NewDelegating(constant(1), DisabledMethods{}))
	v, err := vm.Invoke(vc, "demo/Any", "f", "()I", nil)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(1), v)

	getter := &Funcs{Get: func(vc *vm.Context, f vm.FieldRef) (object.Value, error) { return object.NewInt(7), nil }}
	vc = vm.NewContext(NewDelegating(getter, DisabledFields{}))
	v, err = vc.Provider().GetField(vc, field)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(7), v)
}

func TestFuncsClaimOnlyWhatIsSet(t *testing.T) {
	vc := vm.NewContext(nil)
	f := &Funcs{
		Equal: func(vc *vm.Context, a, b object.Value) (bool, error) { return true, nil },
	}
	require.False(t, f.CanInvokeMethod(vc, &vm.MethodCall{}))
	require.False(t, f.CanGetField(vc, vm.FieldRef{}))
	require.False(t, f.CanCheckInstanceOf(vc, object.NewNull(), "x"))
	require.True(t, f.CanCheckEquality(vc, object.NewInt(1), object.NewInt(2)))
	eq, err := f.CheckEquality(vc, object.NewInt(1), object.NewInt(2))
	require.Nil(t, err)
	require.True(t, eq)
	_, err = f.GetField(vc, vm.FieldRef{Owner: "a", Name: "b", Desc: "I"})
	require.Error(t, err)
}
