package dataflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/asm"
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/op"
	"github.com/cloudcmds/unweave/provider"
	"github.com/cloudcmds/unweave/vm"
)

const flowSrc = `
.class demo/Flow
.method static arith()I
  .limit locals 2
  iconst_3
  istore_1
  iload_1
  iload_1
  iadd
  bipush 10
  imul
  ireturn
.end method

.method static greet(Ljava/lang/String;)Ljava/lang/String;
  .limit locals 3
  new java/lang/StringBuilder
  dup
  ldc "hi "
  invokespecial java/lang/StringBuilder.<init>(Ljava/lang/String;)V
  astore_1
  iconst_5
  istore_2
  aload_1
  ldc "there"
  invokevirtual java/lang/StringBuilder.append(Ljava/lang/String;)Ljava/lang/StringBuilder;
  invokevirtual java/lang/StringBuilder.toString()Ljava/lang/String;
  areturn
.end method

.method static branch(I)I
  .limit locals 1
  iload_0
  iconst_1
  iadd
  ifeq zero
  iconst_2
  ireturn
zero:
  iconst_0
  ireturn
.end method

.method static counter()I
  .limit locals 1
  iconst_0
  istore_0
  iinc 0 4
  iload_0
  ireturn
.end method

.method static wide()J
  .limit locals 1
  ldc2_w 7
  dup2
  ladd
  lreturn
.end method

.method static swapped()I
  iconst_1
  iconst_2
  swap
  isub
  ireturn
.end method

.method static bad()V
  iadd
  return
.end method
.end class
`

func flowMethod(t *testing.T, name, desc string) (*bytecode.Class, *bytecode.Method) {
	t.Helper()
	classes, err := asm.Parse(flowSrc)
	require.Nil(t, err)
	m, ok := classes[0].Method(name, desc)
	require.True(t, ok)
	return classes[0], m
}

func evaluate(t *testing.T, class *bytecode.Class, m *bytecode.Method) object.Value {
	t.Helper()
	chain := provider.NewDelegating(
		provider.NewBytecode(),
		provider.NewJVM(),
		provider.NewFields(),
		provider.NewComparison(),
	)
	v, err := vm.Evaluate(context.Background(), class, m, nil, chain)
	require.Nil(t, err)
	return v
}

func TestBuildLinksOperands(t *testing.T) {
	_, m := flowMethod(t, "arith", "()I")
	fl, err := Build(m, 0, m.InstructionCount())
	require.Nil(t, err)
	// The build ends at ireturn.
	require.Equal(t, 7, fl.Stop())
	require.Len(t, fl.Frames(), 7)

	store, ok := fl.At(1)
	require.True(t, ok)
	require.Equal(t, op.Istore1, store.Op)
	require.False(t, store.Pushes())
	require.Len(t, store.Consumers, 2)

	add, ok := fl.At(4)
	require.True(t, ok)
	require.Equal(t, bytecode.SortInt, add.Type.Sort)
	require.Len(t, add.Operands, 2)
	require.Equal(t, 2, add.Operands[0].Index)
	require.Equal(t, 3, add.Operands[1].Index)
	require.Equal(t, store, add.Operands[0].Operands[0])
	require.Equal(t, "4: iadd <- [2 3]", add.String())

	mul, _ := fl.At(6)
	require.Equal(t, []*Frame{mul}, add.Consumers)
	require.Equal(t, []*Frame{mul}, fl.Stack())

	_, ok = fl.At(7)
	require.False(t, ok)
}

func TestBuildRangeLeavesStack(t *testing.T) {
	_, m := flowMethod(t, "arith", "()I")
	fl, err := Build(m, 0, 5)
	require.Nil(t, err)
	stack := fl.Stack()
	require.Len(t, stack, 1)
	require.Equal(t, 4, stack[0].Index)
	require.Equal(t, -1, fl.Stop())
	require.Equal(t, m, fl.Method())
}

func TestBuildStopsAtControlFlow(t *testing.T) {
	_, m := flowMethod(t, "branch", "(I)I")
	fl, err := Build(m, 0, m.InstructionCount())
	require.Nil(t, err)
	require.Equal(t, 3, fl.Stop())
	require.Len(t, fl.Frames(), 3)
	require.Len(t, fl.Stack(), 1)

	load, _ := fl.At(0)
	require.True(t, load.Unresolved())
}

func TestBuildStackOps(t *testing.T) {
	_, m := flowMethod(t, "wide", "()J")
	fl, err := Build(m, 0, 3)
	require.Nil(t, err)
	add, _ := fl.At(2)
	require.Len(t, add.Operands, 2)
	dup, _ := fl.At(1)
	require.Equal(t, dup, add.Operands[0])
	require.Equal(t, 0, add.Operands[1].Index)
	require.Equal(t, bytecode.SortLong, dup.Type.Sort)
	require.Equal(t, []int{0, 1, 2}, add.Slice())

	_, m = flowMethod(t, "swapped", "()I")
	fl, err = Build(m, 0, 4)
	require.Nil(t, err)
	sub, _ := fl.At(3)
	swap, _ := fl.At(2)
	require.Equal(t, []*Frame{swap, swap}, sub.Operands)
	require.Equal(t, []int{0, 1, 2, 3}, sub.Slice())
}

func TestBuildErrors(t *testing.T) {
	_, m := flowMethod(t, "bad", "()V")
	_, err := Build(m, 0, m.InstructionCount())
	require.Error(t, err)
	var aerr *errz.AnalysisError
	require.True(t, errors.As(err, &aerr))
	require.Contains(t, err.Error(), "stack underflow")

	_, err = Build(m, 1, 0)
	require.Error(t, err)
	_, err = Build(m, 0, 99)
	require.Error(t, err)
}

func TestSliceFollowsConstructor(t *testing.T) {
	_, m := flowMethod(t, "greet", "(Ljava/lang/String;)Ljava/lang/String;")
	fl, err := Build(m, 0, 11)
	require.Nil(t, err)
	str, ok := fl.At(10)
	require.True(t, ok)
	require.Equal(t, "java/lang/String", str.Type.InternalName())
	// The unrelated iconst_5 and istore_2 are left out.
	require.Equal(t, []int{0, 1, 2, 3, 4, 7, 8, 9, 10}, str.Slice())
}

func TestExtractEvaluates(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		desc     string
		index    int
		expected any
	}{
		{"arith", "arith", "()I", 6, int32(60)},
		{"iinc", "counter", "()I", 3, int32(4)},
		{"wide", "wide", "()J", 2, int64(14)},
		{"swap", "swapped", "()I", 3, int32(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, m := flowMethod(t, tt.method, tt.desc)
			fl, err := Build(m, 0, tt.index+1)
			require.Nil(t, err)
			frame, ok := fl.At(tt.index)
			require.True(t, ok)
			extracted, err := Extract(m, frame, "extracted")
			require.Nil(t, err)
			require.True(t, extracted.IsStatic())
			require.Equal(t, "()"+frame.Type.Desc, extracted.Desc())
			v := evaluate(t, class, extracted)
			require.Equal(t, tt.expected, v.Interface())
		})
	}
}

func TestExtractString(t *testing.T) {
	class, m := flowMethod(t, "greet", "(Ljava/lang/String;)Ljava/lang/String;")
	fl, err := Build(m, 0, 11)
	require.Nil(t, err)
	str, _ := fl.At(10)
	extracted, err := Extract(m, str, "greeting")
	require.Nil(t, err)
	require.Equal(t, "demo/Flow.greeting()Ljava/lang/String;", extracted.Key())
	s, err := object.AsString(evaluate(t, class, extracted))
	require.Nil(t, err)
	require.Equal(t, "hi there", s)
}

func TestExtractUnresolvedLocal(t *testing.T) {
	_, m := flowMethod(t, "branch", "(I)I")
	fl, err := Build(m, 0, 3)
	require.Nil(t, err)
	add, _ := fl.At(2)
	_, err = Extract(m, add, "extracted")
	require.Error(t, err)
	require.Contains(t, err.Error(), "local 0 is read before it is written")
}
