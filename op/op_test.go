package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Tableswitch)
	require.Equal(t, "tableswitch", info.Name)
	require.Equal(t, KindSwitch, info.Kind)
	require.Equal(t, OperandTableSwitch, info.Operand)
	require.Equal(t, Tableswitch, info.Code)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		code Code
		kind Kind
	}{
		{Label, KindLabel},
		{Goto, KindGoto},
		{GotoW, KindGoto},
		{Ifeq, KindConditional},
		{IfAcmpne, KindConditional},
		{Ifnull, KindConditional},
		{Ifnonnull, KindConditional},
		{Tableswitch, KindSwitch},
		{Lookupswitch, KindSwitch},
		{Ireturn, KindReturn},
		{Return, KindReturn},
		{Athrow, KindThrow},
		{Jsr, KindSubroutine},
		{JsrW, KindSubroutine},
		{Ret, KindSubroutine},
		{Iadd, KindOther},
		{Invokestatic, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			require.Equal(t, tt.kind, KindOf(tt.code))
		})
	}
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("if_icmpge")
	require.True(t, ok)
	require.Equal(t, IfIcmpge, c)

	_, ok = Lookup("frobnicate")
	require.False(t, ok)
}

func TestLookupRoundTrip(t *testing.T) {
	for c := Code(0); c <= Label; c++ {
		info := GetInfo(c)
		if info.Name == "" {
			continue
		}
		got, ok := Lookup(info.Name)
		require.True(t, ok, info.Name)
		require.Equal(t, c, got)
	}
}

func TestIsTerminator(t *testing.T) {
	require.True(t, IsTerminator(Goto))
	require.True(t, IsTerminator(Lookupswitch))
	require.True(t, IsTerminator(Areturn))
	require.False(t, IsTerminator(Ifne))
	require.False(t, IsTerminator(Athrow))
	require.False(t, IsTerminator(Label))
}

func TestUnknownOpcode(t *testing.T) {
	require.Equal(t, "unknown", Code(0xc4).String())
	require.Equal(t, KindOther, KindOf(Code(0x3000)))
}
