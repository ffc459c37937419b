package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
)

func TestContextFrames(t *testing.T) {
	vc := NewContext(nil)
	require.Equal(t, 0, vc.Size())
	_, ok := vc.Pop()
	require.False(t, ok)

	vc.Push("demo/Outer", "run", 12)
	vc.Push("demo/inner/Helper", "decode", 3)
	require.Equal(t, 2, vc.Size())
	require.Equal(t, errz.StackFrame{Class: "demo.inner.Helper", Method: "decode", Line: 3}, vc.At(0))
	require.Equal(t, errz.StackFrame{Class: "demo.Outer", Method: "run", Line: 12}, vc.At(1))

	require.Equal(t, []errz.StackFrame{
		{Class: "demo.inner.Helper", Method: "decode", Line: -1},
		{Class: "demo.Outer", Method: "run", Line: -1},
	}, vc.StackTrace())

	frame, ok := vc.Pop()
	require.True(t, ok)
	require.Equal(t, "decode", frame.Method)
	require.Equal(t, 1, vc.Size())
}

func TestContextIdentity(t *testing.T) {
	a := NewContext(nil)
	b := NewContext(nil)
	require.NotEqual(t, a.ID(), b.ID())
	require.Len(t, a.ID(), 36)
	require.NotNil(t, a.Dictionary())
	require.Nil(t, a.Provider())
}

func TestInvokeCoercesArguments(t *testing.T) {
	var got []object.Value
	p := newTestProvider().on("demo/Host.echo(IJLjava/lang/Object;)V", func(call *MethodCall) (object.Value, error) {
		got = call.Args
		require.Nil(t, call.Receiver)
		require.Equal(t, object.InvokeStatic, call.Dispatch)
		return nil, nil
	})
	vc := NewContext(p)

	_, err := Invoke(vc, "demo/Host", "echo", "(IJLjava/lang/Object;)V", nil, int32(1), int64(2), int32(3))
	require.Nil(t, err)
	require.Equal(t, object.NewInt(1), got[0])
	require.Equal(t, object.NewLong(2), got[1])
	require.Equal(t, object.NewObject("java/lang/Integer", int32(3)), got[2])

	// Host types that do not match the declared primitive are left alone.
	_, err = Invoke(vc, "demo/Host", "echo", "(IJLjava/lang/Object;)V", nil, int64(1), int32(2), nil)
	require.Nil(t, err)
	require.Equal(t, object.NewObject("java/lang/Long", int64(1)), got[0])
	require.Equal(t, object.NewObject("java/lang/Integer", int32(2)), got[1])
	require.True(t, object.IsNull(got[2]))

	_, err = Invoke(vc, "demo/Host", "echo", "(IJLjava/lang/Object;)V", nil, int32(1))
	require.Error(t, err)
}

func TestInvokeUnclaimed(t *testing.T) {
	vc := NewContext(newTestProvider())
	vc.Push("demo/Caller", "main", 1)
	_, err := Invoke(vc, "demo/Nowhere", "find", "(Ljava/lang/String;)I", nil, "x")
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrUnsupported, e.Kind)
	require.Equal(t, "could not invoke demo.Nowhere find(Ljava/lang/String;)I", e.Message)
	require.Equal(t, []errz.StackFrame{{Class: "demo.Caller", Method: "main", Line: -1}}, e.Stack)
}

func TestInvokeBytecode(t *testing.T) {
	dict, c := load(t, cipherSrc, "demo/Cipher")
	vc := NewContext(cipherProvider(), WithDictionary(dict))
	result, err := InvokeMethod(vc, c, method(t, c, "decrypt", "(I)I"), nil, int32(3))
	require.Nil(t, err)
	require.Equal(t, object.NewInt(6), result)
}

func TestDispatchKindOf(t *testing.T) {
	_, c := load(t, `
.class demo/Impl
.method static s()V
  return
.end method
.method run()V
  return
.end method
.end class
.class interface abstract demo/Api
.method abstract run()V
.end method
.end class
`, "demo/Impl")
	require.Equal(t, object.InvokeStatic, DispatchKindOf(c, method(t, c, "s", "()V")))
	require.Equal(t, object.InvokeVirtual, DispatchKindOf(c, method(t, c, "run", "()V")))

	dict, api := load(t, `
.class interface abstract demo/Api
.method abstract run()V
.end method
.end class
`, "demo/Api")
	require.NotNil(t, dict)
	h := Resolve(api, method(t, api, "run", "()V"))
	require.Equal(t, object.InvokeInterface, h.Dispatch)
	require.Equal(t, "demo/Api", h.Owner)
}
