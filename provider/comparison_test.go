package provider

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

func TestComparisonInstanceOf(t *testing.T) {
	dict := dictionary(t, programSrc)
	vc := vm.NewContext(nil, vm.WithDictionary(dict))
	p := NewComparison()

	square := object.NewInstanceRef("demo/Square")
	strings := object.NewArray("[Ljava/lang/String;", nil)
	ints := object.NewArray("[I", nil)
	grid := object.NewArray("[[I", nil)

	tests := []struct {
		name     string
		value    object.Value
		typ      string
		expected bool
	}{
		{"same class", square, "demo/Square", true},
		{"dictionary superclass", square, "demo/Shape", true},
		{"object", square, "java/lang/Object", true},
		{"unrelated", square, "demo/Config", false},
		{"host interface", object.NewString("x"), "java/lang/CharSequence", true},
		{"host superclass", object.NewInstanceRef("java/lang/NumberFormatException"), "java/lang/RuntimeException", true},
		{"covariant array", strings, "[Ljava/lang/Object;", true},
		{"primitive arrays", ints, "[J", false},
		{"array as object", ints, "java/lang/Object", true},
		{"array as cloneable", ints, "java/lang/Cloneable", true},
		{"array as class", ints, "demo/Shape", false},
		{"nested array", grid, "[Ljava/lang/Object;", true},
		{"class as array", square, "[Ldemo/Shape;", false},
		{"null", object.NewNull(), "demo/Shape", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, p.CanCheckInstanceOf(vc, tt.value, tt.typ))
			ok, err := p.CheckInstanceOf(vc, tt.value, tt.typ)
			require.Nil(t, err)
			require.Equal(t, tt.expected, ok)
		})
	}
}

func TestComparisonCheckcast(t *testing.T) {
	vc := vm.NewContext(nil)
	p := NewComparison()
	ok, err := p.Checkcast(vc, object.NewNull(), "demo/Anything")
	require.Nil(t, err)
	require.True(t, ok)

	ok, err = p.Checkcast(vc, object.NewString("x"), "java/lang/Integer")
	require.Nil(t, err)
	require.False(t, ok)

	require.False(t, p.CanCheckcast(vc, object.NewInt(1), "java/lang/Integer"))
}

func TestComparisonEquality(t *testing.T) {
	vc := vm.NewContext(nil)
	p := NewComparison()
	a := object.NewInstanceRef("demo/Shape")
	b := object.NewInstanceRef("demo/Shape")

	eq, _ := p.CheckEquality(vc, a, a.Copy())
	require.True(t, eq)
	eq, _ = p.CheckEquality(vc, a, b)
	require.False(t, eq)
	eq, _ = p.CheckEquality(vc, object.NewNull(), object.NewNull())
	require.True(t, eq)
	eq, _ = p.CheckEquality(vc, object.NewInt(3), object.NewInt(3))
	require.True(t, eq)
}
