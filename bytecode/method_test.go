package bytecode

import (
	"testing"

	"github.com/cloudcmds/unweave/op"
	"github.com/stretchr/testify/require"
)

func sampleMethod(t *testing.T) *Method {
	t.Helper()
	m, err := NewMethod(MethodParams{
		Owner:  "demo/Sample",
		Name:   "pick",
		Desc:   "(IJ)I",
		Access: AccStatic,
		Instructions: []Instruction{
			Insn(op.Iconst1),
			LabelInsn(0),
			VarInsn(op.Iload, 0),
			JumpInsn(op.Ifeq, 1),
			Insn(op.Iconst2),
			Insn(op.Ireturn),
			LabelInsn(1),
			Insn(op.Iconst3),
			Insn(op.Ireturn),
		},
		TryCatches: []TryCatch{{Start: 0, End: 1, Handler: 1, Type: "java/lang/Exception"}},
	})
	require.Nil(t, err)
	return m
}

func TestNewMethodImmutability(t *testing.T) {
	instructions := []Instruction{LabelInsn(0), Insn(op.Return)}
	handlers := []TryCatch{{Start: 0, End: 0, Handler: 0}}

	m, err := NewMethod(MethodParams{
		Owner:        "demo/A",
		Name:         "run",
		Desc:         "()V",
		Instructions: instructions,
		TryCatches:   handlers,
	})
	require.Nil(t, err)

	instructions[1] = Insn(op.Nop)
	handlers[0] = TryCatch{Type: "changed"}

	require.Equal(t, op.Return, m.InstructionAt(1).Op)
	require.Equal(t, "", m.TryCatchAt(0).Type)

	copied := m.Instructions()
	copied[0] = Insn(op.Nop)
	require.True(t, m.InstructionAt(0).IsLabel())
}

func TestMethodAccessors(t *testing.T) {
	m := sampleMethod(t)
	require.Equal(t, "demo/Sample", m.Owner())
	require.Equal(t, "pick", m.Name())
	require.Equal(t, "(IJ)I", m.Desc())
	require.True(t, m.IsStatic())
	require.Equal(t, 3, m.ArgSlots())
	require.Equal(t, 3, m.MaxLocals())
	require.Equal(t, SortInt, m.ReturnType().Sort)
	require.Len(t, m.ParamTypes(), 2)
	require.Equal(t, 9, m.InstructionCount())
	require.Equal(t, 1, m.TryCatchCount())
	require.Equal(t, []Label{0, 1}, m.Labels())
	require.Equal(t, "demo/Sample.pick(IJ)I", m.Key())

	idx, ok := m.LabelIndex(1)
	require.True(t, ok)
	require.Equal(t, 6, idx)
	_, ok = m.LabelIndex(7)
	require.False(t, ok)
}

func TestInstanceMethodReservesReceiverSlot(t *testing.T) {
	m, err := NewMethod(MethodParams{
		Owner:        "demo/A",
		Name:         "f",
		Desc:         "(D)V",
		Instructions: []Instruction{Insn(op.Return)},
	})
	require.Nil(t, err)
	require.Equal(t, 3, m.ArgSlots())
}

func TestOwningLabel(t *testing.T) {
	m := sampleMethod(t)
	require.Equal(t, Sentinel, m.OwningLabel(0))
	require.Equal(t, Label(0), m.OwningLabel(1))
	require.Equal(t, Label(0), m.OwningLabel(5))
	require.Equal(t, Label(1), m.OwningLabel(8))
}

func TestNewMethodValidation(t *testing.T) {
	tests := []struct {
		name   string
		params MethodParams
	}{
		{"bad descriptor", MethodParams{Desc: "I"}},
		{"duplicate label", MethodParams{Desc: "()V", Instructions: []Instruction{
			LabelInsn(1), LabelInsn(1), Insn(op.Return),
		}}},
		{"sentinel label", MethodParams{Desc: "()V", Instructions: []Instruction{
			LabelInsn(Sentinel), Insn(op.Return),
		}}},
		{"undefined jump target", MethodParams{Desc: "()V", Instructions: []Instruction{
			JumpInsn(op.Goto, 4),
		}}},
		{"undefined switch default", MethodParams{Desc: "()V", Instructions: []Instruction{
			LabelInsn(0), TableSwitchInsn(0, 9, 0),
		}}},
		{"lookupswitch arity", MethodParams{Desc: "()V", Instructions: []Instruction{
			LabelInsn(0), LookupSwitchInsn(0, []int32{1, 2}, []Label{0}),
		}}},
		{"undefined handler", MethodParams{Desc: "()V",
			Instructions: []Instruction{LabelInsn(0), Insn(op.Return)},
			TryCatches:   []TryCatch{{Start: 0, End: 0, Handler: 3}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMethod(tt.params)
			require.Error(t, err)
		})
	}
}

func TestJumpTargets(t *testing.T) {
	require.Equal(t, []Label{3}, JumpInsn(op.Goto, 3).JumpTargets())
	require.Equal(t, []Label{3}, JumpInsn(op.Ifnull, 3).JumpTargets())
	require.Equal(t, []Label{1, 2, 9}, TableSwitchInsn(0, 9, 1, 2).JumpTargets())
	require.Nil(t, Insn(op.Ireturn).JumpTargets())
	require.Nil(t, VarInsn(op.Ret, 1).JumpTargets())
}

func TestLocalIndex(t *testing.T) {
	idx, ok := VarInsn(op.Astore, 7).LocalIndex()
	require.True(t, ok)
	require.Equal(t, 7, idx)

	idx, ok = Insn(op.Lload2).LocalIndex()
	require.True(t, ok)
	require.Equal(t, 2, idx)

	idx, ok = Insn(op.Astore3).LocalIndex()
	require.True(t, ok)
	require.Equal(t, 3, idx)

	_, ok = Insn(op.Iadd).LocalIndex()
	require.False(t, ok)
}

func TestInstructionString(t *testing.T) {
	require.Equal(t, "L2:", LabelInsn(2).String())
	require.Equal(t, "<entry>", Sentinel.String())
	require.Equal(t, "bipush 12", IntInsn(op.Bipush, 12).String())
	require.Equal(t, `ldc "hi"`, LdcInsn("hi").String())
	require.Equal(t, "goto L4", JumpInsn(op.Goto, 4).String())
	require.Equal(t, "tableswitch 5:L1 6:L2 default:L3", TableSwitchInsn(5, 3, 1, 2).String())
	require.Equal(t, "lookupswitch 10:L1 default:L3",
		LookupSwitchInsn(3, []int32{10}, []Label{1}).String())
	require.Equal(t, "invokestatic a/B.c (I)I", MethodInsn(op.Invokestatic, "a/B", "c", "(I)I").String())
	require.Equal(t, "iinc 1 -1", IincInsn(1, -1).String())
}

func TestLdcPicksWideForm(t *testing.T) {
	require.Equal(t, op.Ldc2W, LdcInsn(int64(1)).Op)
	require.Equal(t, op.Ldc2W, LdcInsn(2.5).Op)
	require.Equal(t, op.Ldc, LdcInsn(int32(1)).Op)
}
