package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/asm"
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// standard returns the chain most callers use, with extra providers in
// front of it.
func standard(extra ...vm.Provider) *Delegating {
	d := NewDelegating(extra...)
	return d.Register(NewBytecode(), NewJVM(), NewFields(), NewComparison())
}

func dictionary(t *testing.T, src string) bytecode.ClassMap {
	t.Helper()
	dict, err := asm.Dictionary(src)
	require.Nil(t, err)
	return dict
}

// evaluate runs class.name desc from src with the given chain.
func evaluate(t *testing.T, src, class, name, desc string, p vm.Provider, args ...any) (object.Value, error) {
	t.Helper()
	dict := dictionary(t, src)
	c, ok := dict.Lookup(class)
	require.True(t, ok, "class %s not found", class)
	m, ok := c.Method(name, desc)
	require.True(t, ok, "method %s%s not found", name, desc)
	return vm.Evaluate(context.Background(), c, m, args, p, vm.WithDictionary(dict))
}

func requireString(t *testing.T, expected string, v object.Value) {
	t.Helper()
	s, err := object.AsString(v)
	require.Nil(t, err)
	require.Equal(t, expected, s)
}
