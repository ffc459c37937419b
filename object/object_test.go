package object

import (
	"math"
	"testing"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveBasics(t *testing.T) {
	value := NewInt(-3)
	require.Equal(t, INT, value.Type())
	require.Equal(t, int32(-3), value.Value())
	require.Equal(t, "-3", value.Inspect())
	require.Equal(t, int32(-3), value.Interface())

	require.Equal(t, "7L", NewLong(7).Inspect())
	require.Equal(t, "'a'", NewChar('a').Inspect())
	require.Equal(t, "a", NewChar('a').String())
	require.Equal(t, "1.5f", NewFloat(1.5).Inspect())
	require.Equal(t, "2.25d", NewDouble(2.25).Inspect())
	require.Same(t, True, NewBoolean(true))
}

func TestPrimitiveEquals(t *testing.T) {
	tests := []struct {
		first    Value
		second   Value
		expected bool
	}{
		{NewInt(1), NewInt(1), true},
		{NewInt(1), NewInt(2), false},
		{NewInt(1), NewLong(1), false},
		{NewShort(4), NewShort(4), true},
		{NewByte(4), NewShort(4), false},
		{NewDouble(math.NaN()), NewDouble(math.NaN()), true},
		{NewFloat(0), NewFloat(float32(math.Copysign(0, -1))), false},
		{True, NewBoolean(true), true},
	}
	for _, tc := range tests {
		require.Equal(t, tc.expected, tc.first.Equals(tc.second),
			"first: %v, second: %v", tc.first.Inspect(), tc.second.Inspect())
	}
}

func TestCopyPreservesReferenceIdentity(t *testing.T) {
	ref := NewInstanceRef("demo/Box")
	cp := ref.Copy().(*Object)
	require.NotSame(t, ref, cp)
	require.True(t, ref.Equals(cp))
	in, ok := cp.Instance()
	require.True(t, ok)
	in.SetField("x", NewInt(9))
	orig, _ := ref.Instance()
	v, ok := orig.Field("x")
	require.True(t, ok)
	require.Equal(t, int32(9), v.(*Int).Value())

	arr := NewArray("[I", []Value{NewInt(1), NewInt(2)})
	arrCopy := arr.Copy().(*Array)
	require.NotSame(t, arr, arrCopy)
	require.Nil(t, arrCopy.Set(0, NewInt(5)))
	first, err := arr.Get(0)
	require.Nil(t, err)
	require.Equal(t, int32(5), first.(*Int).Value())

	i := NewInt(3)
	ic := i.Copy()
	require.NotSame(t, i, ic)
	require.True(t, i.Equals(ic))
}

func TestReferenceEquality(t *testing.T) {
	a := NewInstanceRef("demo/A")
	b := NewInstanceRef("demo/A")
	require.False(t, a.Equals(b))
	require.True(t, NewNull().Equals(NewNull()))
	require.False(t, NewNull().Equals(a))
	require.True(t, NewString("x").Equals(NewString("x")))
	require.False(t, NewString("x").Equals(NewInt(1)))

	arr := NewArray("[I", nil)
	require.False(t, arr.Equals(NewArray("[I", nil)))
	require.True(t, arr.Equals(arr.Copy()))
}

func TestTextKeepsUnits(t *testing.T) {
	lone := NewText(Text{0xD800, 'x'})
	require.Equal(t, `"\ud800x"`, lone.Inspect())
	require.True(t, lone.Equals(NewText(Text{0xD800, 'x'})))
	require.False(t, lone.Equals(NewString("\uFFFDx")))

	text, err := AsText(lone)
	require.Nil(t, err)
	require.Equal(t, Text{0xD800, 'x'}, text)
	s, err := AsString(lone)
	require.Nil(t, err)
	require.Equal(t, "\uFFFDx", s)

	in := NewInstanceRef(ClassString)
	inst, _ := in.Instance()
	inst.Native = TextOf("h€")
	require.Equal(t, "h€", in.String())
	require.Equal(t, Text{'h', 0x20AC}, TextOf("h€"))
	require.Equal(t, `"a\tb\ue000"`, TextOf("a\tb\uE000").Quote())
	require.Len(t, TextOf("\U0001F600"), 2)
}

func TestArrayBounds(t *testing.T) {
	arr := NewArrayOf(bytecode.MustParseType("J"), 2)
	require.Equal(t, 2, arr.Len())
	require.Equal(t, "[J", arr.Desc())
	require.Equal(t, bytecode.SortLong, arr.ElemType().Sort)
	v, err := arr.Get(1)
	require.Nil(t, err)
	require.True(t, NewLong(0).Equals(v))
	require.Same(t, Zero(bytecode.MustParseType("J")), v)

	_, err = arr.Get(2)
	require.Error(t, err)
	require.Error(t, arr.Set(-1, NewLong(1)))
}

func TestZero(t *testing.T) {
	require.True(t, False.Equals(Zero(bytecode.MustParseType("Z"))))
	require.True(t, NewChar(0).Equals(Zero(bytecode.MustParseType("C"))))
	require.True(t, IsNull(Zero(bytecode.MustParseType("Ljava/lang/String;"))))
	require.True(t, IsNull(Zero(bytecode.MustParseType("[I"))))
}

func TestMethodHandleIdentity(t *testing.T) {
	a := NewMethodHandle("demo/A", "run", "()V", InvokeStatic)
	b := NewMethodHandle("demo/A", "run", "()V", InvokeVirtual)
	c := NewMethodHandle("demo/A", "stop", "()V", InvokeStatic)
	require.True(t, a.Equals(b))
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, a.Key(), b.Key())
	require.False(t, a.Equals(c))
	require.Equal(t, "invokestatic demo/A.run()V", a.Inspect())

	seen := map[string]*MethodHandle{}
	for _, h := range []*MethodHandle{a, b, c} {
		seen[h.Key()] = h
	}
	require.Len(t, seen, 2)
}

func TestAddress(t *testing.T) {
	m, err := bytecode.NewMethod(bytecode.MethodParams{
		Owner: "demo/A", Name: "f", Desc: "()V", Access: bytecode.AccStatic,
		Instructions: []bytecode.Instruction{bytecode.Insn(0xb1)},
	})
	require.Nil(t, err)
	addr := NewAddress(m, 0)
	require.Equal(t, ADDRESS, addr.Type())
	require.True(t, addr.Equals(addr.Copy()))
	require.False(t, addr.Equals(NewAddress(m, 1)))
	require.Equal(t, "address(demo/A.f()V@0: return)", addr.Inspect())
}

func TestIsWide(t *testing.T) {
	require.True(t, IsWide(NewLong(1)))
	require.True(t, IsWide(NewDouble(1)))
	require.False(t, IsWide(NewInt(1)))
	require.False(t, IsWide(NewNull()))
}
