package vm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/asm"
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/object"
)

// testProvider runs dictionary methods as bytecode, keeps static fields in
// a map and answers everything else from the funcs table.
type testProvider struct {
	statics map[string]object.Value
	funcs   map[string]func(call *MethodCall) (object.Value, error)
}

func newTestProvider() *testProvider {
	return &testProvider{
		statics: map[string]object.Value{},
		funcs:   map[string]func(call *MethodCall) (object.Value, error){},
	}
}

func (p *testProvider) on(key string, fn func(call *MethodCall) (object.Value, error)) *testProvider {
	p.funcs[key] = fn
	return p
}

func (p *testProvider) CanInvokeMethod(vc *Context, call *MethodCall) bool {
	if _, ok := p.funcs[call.Owner+"."+call.Name+call.Desc]; ok {
		return true
	}
	_, ok := bytecode.FindMethod(vc.Dictionary(), call.Owner, call.Name, call.Desc)
	return ok
}

func (p *testProvider) InvokeMethod(vc *Context, call *MethodCall) (object.Value, error) {
	if fn, ok := p.funcs[call.Owner+"."+call.Name+call.Desc]; ok {
		return fn(call)
	}
	m, _ := bytecode.FindMethod(vc.Dictionary(), call.Owner, call.Name, call.Desc)
	class, _ := vc.Dictionary().Lookup(m.Owner())
	return Execute(vc, class, m, call.Receiver, call.Args)
}

func (p *testProvider) CanGetField(vc *Context, f FieldRef) bool { return true }

func (p *testProvider) GetField(vc *Context, f FieldRef) (object.Value, error) {
	if !f.IsStatic() {
		in, _ := f.Receiver.(*object.Object).Instance()
		if v, ok := in.Field(f.Name); ok {
			return v, nil
		}
		return object.Zero(bytecode.MustParseType(f.Desc)), nil
	}
	if v, ok := p.statics[f.Owner+"."+f.Name]; ok {
		return v, nil
	}
	return object.Zero(bytecode.MustParseType(f.Desc)), nil
}

func (p *testProvider) CanSetField(vc *Context, f FieldRef, v object.Value) bool { return true }

func (p *testProvider) SetField(vc *Context, f FieldRef, v object.Value) error {
	if !f.IsStatic() {
		in, ok := f.Receiver.(*object.Object).Instance()
		if !ok {
			return fmt.Errorf("not an instance")
		}
		in.SetField(f.Name, v)
		return nil
	}
	p.statics[f.Owner+"."+f.Name] = v
	return nil
}

func (p *testProvider) CanCheckEquality(vc *Context, a, b object.Value) bool { return true }

func (p *testProvider) CheckEquality(vc *Context, a, b object.Value) (bool, error) {
	return a.Equals(b), nil
}

func (p *testProvider) CanCheckInstanceOf(vc *Context, v object.Value, typ string) bool { return true }

func (p *testProvider) CheckInstanceOf(vc *Context, v object.Value, typ string) (bool, error) {
	o, ok := v.(*object.Object)
	return ok && bytecode.IsSubclass(vc.Dictionary(), o.Class(), typ), nil
}

func (p *testProvider) CanCheckcast(vc *Context, v object.Value, typ string) bool { return true }

func (p *testProvider) Checkcast(vc *Context, v object.Value, typ string) (bool, error) {
	return p.CheckInstanceOf(vc, v, typ)
}

var _ Provider = (*testProvider)(nil)

// load assembles src and returns the dictionary and the named class.
func load(t *testing.T, src, class string) (bytecode.ClassMap, *bytecode.Class) {
	t.Helper()
	dict, err := asm.Dictionary(src)
	require.Nil(t, err)
	c, ok := dict.Lookup(class)
	require.True(t, ok, "class %s not found", class)
	return dict, c
}

func method(t *testing.T, c *bytecode.Class, name, desc string) *bytecode.Method {
	t.Helper()
	m, ok := c.Method(name, desc)
	require.True(t, ok, "method %s%s not found", name, desc)
	return m
}
