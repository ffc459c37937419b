package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/asm"
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/op"
)

func parseMethod(t *testing.T, body string) *bytecode.Method {
	t.Helper()
	classes, err := asm.Parse(".class demo/T\n" + body + "\n.end class\n")
	require.Nil(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, 1, classes[0].MethodCount())
	return classes[0].MethodAt(0)
}

// 0 iload_0, 1 L1, 2 iload_0, 3 ifeq, 4 iinc, 5 goto, 6 L2, 7 iconst_0,
// 8 L3, 9 iload_0, 10 ireturn
const loopSrc = `
.method static f(I)I
  iload_0
L1:
  iload_0
  ifeq L3
  iinc 0 1
  goto L1
L2:
  iconst_0
L3:
  iload_0
  ireturn
.end method
`

func TestPartition(t *testing.T) {
	m := parseMethod(t, loopSrc)
	g, err := Partition(m)
	require.Nil(t, err)
	require.Equal(t, []bytecode.Label{bytecode.Sentinel, 1, 2, 3}, g.Labels())

	entry, ok := g.Block(bytecode.Sentinel)
	require.True(t, ok)
	require.Equal(t, []int{0}, entry.Instructions)
	require.Equal(t, []Edge{{Target: 1, Cause: Fallthrough, Source: -1}}, entry.Edges)

	loop, ok := g.Block(1)
	require.True(t, ok)
	require.Equal(t, []int{2, 3, 4, 5}, loop.Instructions)
	require.Equal(t, []Edge{
		{Target: 3, Cause: ConditionalJump, Source: 3},
		{Target: 1, Cause: UnconditionalJump, Source: 5},
	}, loop.Edges)
	_, ok = loop.Fallthrough()
	require.False(t, ok)

	dead, _ := g.Block(2)
	require.Equal(t, []int{7}, dead.Instructions)
	require.Equal(t, []Edge{{Target: 3, Cause: Fallthrough, Source: -1}}, dead.Edges)

	exit, _ := g.Block(3)
	require.Equal(t, []int{9, 10}, exit.Instructions)
	require.Empty(t, exit.Edges)

	require.Equal(t, []bytecode.Label{bytecode.Sentinel, 1}, g.Predecessors(1))
	require.Equal(t, []bytecode.Label{3, 1}, g.Successors(1))
	require.Equal(t, loop, g.BlockOf(4))
}

func TestPartitionCompleteness(t *testing.T) {
	m := parseMethod(t, loopSrc)
	g, err := Partition(m)
	require.Nil(t, err)

	owner := map[int]bytecode.Label{}
	for _, l := range g.Labels() {
		b, _ := g.Block(l)
		for _, i := range b.Instructions {
			_, dup := owner[i]
			require.False(t, dup, "instruction %d in two blocks", i)
			owner[i] = l
		}
	}
	for i := 0; i < m.InstructionCount(); i++ {
		if m.InstructionAt(i).IsLabel() {
			continue
		}
		l, ok := owner[i]
		require.True(t, ok, "instruction %d not in any block", i)
		require.Equal(t, m.OwningLabel(i), l)
	}
}

func TestPartitionEdgesAreWellFormed(t *testing.T) {
	m := parseMethod(t, `
.method static s(I)I
  iload_0
  tableswitch 0 L1 L2 default L3
L1:
  iconst_1
  ireturn
L2:
  iload_0
  ifne L3
  iconst_2
L3:
  iconst_3
  ireturn
.end method
`)
	g, err := Partition(m)
	require.Nil(t, err)
	for _, l := range g.Labels() {
		b, _ := g.Block(l)
		fallthroughs := 0
		for n, e := range b.Edges {
			_, ok := g.Block(e.Target)
			require.True(t, ok, "edge to unknown label %s", e.Target)
			if e.Cause == Fallthrough {
				fallthroughs++
				require.Equal(t, len(b.Edges)-1, n, "fallthrough must be last")
				require.Equal(t, -1, e.Source)
			}
			if e.Cause != SwitchCase {
				require.Equal(t, 0, e.Index)
			}
		}
		require.LessOrEqual(t, fallthroughs, 1)
	}

	entry, _ := g.Block(bytecode.Sentinel)
	require.Equal(t, []Edge{
		{Target: 1, Cause: SwitchCase, Index: 0, Source: 1},
		{Target: 2, Cause: SwitchCase, Index: 1, Source: 1},
		{Target: 3, Cause: SwitchCase, Index: 2, Source: 1},
	}, entry.Edges)

	// The conditional is found after the fallthrough was recorded, yet the
	// fallthrough ends up last.
	branch, _ := g.Block(2)
	require.Equal(t, []Edge{
		{Target: 3, Cause: ConditionalJump, Source: 7},
		{Target: 3, Cause: Fallthrough, Source: -1},
	}, branch.Edges)
}

func TestPartitionEmptyEntryFallsThrough(t *testing.T) {
	m := parseMethod(t, `
.method static e()V
L4:
  return
.end method
`)
	g, err := Partition(m)
	require.Nil(t, err)
	entry, ok := g.Block(bytecode.Sentinel)
	require.True(t, ok)
	require.Empty(t, entry.Instructions)
	require.Equal(t, []Edge{{Target: 4, Cause: Fallthrough, Source: -1}}, entry.Edges)
}

func TestAthrowDoesNotCloseBlock(t *testing.T) {
	m := parseMethod(t, `
.method static a()V
  aconst_null
  athrow
L1:
  return
.end method
`)
	g, err := Partition(m)
	require.Nil(t, err)
	entry, _ := g.Block(bytecode.Sentinel)
	require.Equal(t, []Edge{{Target: 1, Cause: Fallthrough, Source: -1}}, entry.Edges)
}

func subroutineMethod(t *testing.T) *bytecode.Method {
	t.Helper()
	m, err := bytecode.NewMethod(bytecode.MethodParams{
		Owner:  "demo/T",
		Name:   "sub",
		Desc:   "()V",
		Access: bytecode.AccStatic,
		Instructions: []bytecode.Instruction{
			bytecode.JumpInsn(op.Jsr, 1),
			bytecode.Insn(op.Return),
			bytecode.LabelInsn(1),
			bytecode.VarInsn(op.Astore, 0),
			bytecode.VarInsn(op.Ret, 0),
		},
	})
	require.Nil(t, err)
	return m
}

func TestSubroutinesAreRejected(t *testing.T) {
	m := subroutineMethod(t)
	_, err := Partition(m)
	require.Error(t, err)
	var aerr *errz.AnalysisError
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, 0, aerr.Index)
	require.Equal(t, "demo/T.sub()V", aerr.Method)

	_, err = Walk(m, 0, nil)
	require.ErrorAs(t, err, &aerr)
}

const scopeSrc = `
.method static g()V
L1:
  nop
L2:
  nop
L3:
  nop
L4:
  return
L5:
  return
  .catch java/lang/Exception from L1 to L2 using L4
  .catch * from L1 to L3 using L5
  .catch * from L2 to L2 using L4
.end method
`

func TestScopes(t *testing.T) {
	m := parseMethod(t, scopeSrc)
	s := Scopes(m)

	require.Empty(t, s.ActiveAt(bytecode.Sentinel))
	require.Equal(t, []bytecode.TryCatch{m.TryCatchAt(0), m.TryCatchAt(1)}, s.ActiveAt(1))
	require.Equal(t, []bytecode.Label{4, 5}, s.Handlers(1))
	// The first region ends at L2 and the empty one is never active.
	require.Equal(t, []int{1}, s.ActiveIndexes(2))
	require.Empty(t, s.ActiveAt(3))
	require.Empty(t, s.ActiveAt(4))
	require.Equal(t, []bytecode.TryCatch{m.TryCatchAt(1)}, s.Covering(3))
}

func TestWalkLoopTerminates(t *testing.T) {
	m := parseMethod(t, loopSrc)
	r, err := Walk(m, 0, nil)
	require.Nil(t, err)
	require.Equal(t, []bytecode.Label{bytecode.Sentinel, 1, 3}, r.Labels())
	require.Equal(t, []int{0}, r.Instructions(bytecode.Sentinel))
	require.Equal(t, []int{2, 3, 4, 5}, r.Instructions(1))
	require.Equal(t, []int{9, 10}, r.Instructions(3))
	require.False(t, r.Contains(7))
	require.Equal(t, []int{0, 2, 3, 4, 5, 9, 10}, r.All())
}

func TestWalkRespectsStopSet(t *testing.T) {
	m := parseMethod(t, loopSrc)
	r, err := Walk(m, 0, []int{3})
	require.Nil(t, err)
	require.Equal(t, []bytecode.Label{bytecode.Sentinel, 1}, r.Labels())
	require.Equal(t, []int{2}, r.Instructions(1))

	// A stop index on a label ends the path before the label opens.
	r, err = Walk(m, 0, []int{1})
	require.Nil(t, err)
	require.Equal(t, []bytecode.Label{bytecode.Sentinel}, r.Labels())
}

func TestWalkEntersHandlersFirst(t *testing.T) {
	m := parseMethod(t, `
.method static h()I
L1:
  iconst_1
  ireturn
L2:
  iconst_2
  ireturn
  .catch * from L1 to L2 using L2
.end method
`)
	r, err := Walk(m, 0, nil)
	require.Nil(t, err)
	require.Equal(t, []bytecode.Label{1, 2}, r.Labels())
	require.Equal(t, []int{1, 2}, r.Instructions(1))
	require.Equal(t, []int{4, 5}, r.Instructions(2))

	// Starting inside the block still visits the handler.
	r, err = Walk(m, 2, nil)
	require.Nil(t, err)
	require.Equal(t, []bytecode.Label{1, 2}, r.Labels())
	require.Equal(t, []int{2}, r.Instructions(1))
}

func TestWalkSwitch(t *testing.T) {
	m := parseMethod(t, `
.method static s(I)I
  iload_0
  lookupswitch 1:L1 2:L2 default L3
L1:
  iconst_1
  ireturn
L2:
  iconst_2
  ireturn
L3:
  iconst_3
  ireturn
L9:
  iconst_4
  ireturn
.end method
`)
	r, err := Walk(m, 0, nil)
	require.Nil(t, err)
	require.Equal(t, []bytecode.Label{bytecode.Sentinel, 1, 2, 3}, r.Labels())
	require.False(t, r.Contains(12))
}

func TestWalkRejectsBadStart(t *testing.T) {
	m := parseMethod(t, loopSrc)
	_, err := Walk(m, m.InstructionCount(), nil)
	require.Error(t, err)
	_, err = Walk(m, -1, nil)
	require.Error(t, err)
}

func TestAnalyzerCaches(t *testing.T) {
	m := parseMethod(t, loopSrc)
	a, err := NewAnalyzer(0)
	require.Nil(t, err)

	g1, err := a.Partition(m)
	require.Nil(t, err)
	g2, err := a.Partition(m)
	require.Nil(t, err)
	require.Same(t, g1, g2)
	require.Equal(t, 1, a.Len())

	s, err := a.Scopes(m)
	require.Nil(t, err)
	require.Empty(t, s.ActiveAt(1))

	r, err := a.Walk(m, 0, nil)
	require.Nil(t, err)
	require.Equal(t, []int{2, 3, 4, 5}, r.Instructions(1))

	a.Purge()
	require.Equal(t, 0, a.Len())

	_, err = a.Partition(subroutineMethod(t))
	require.Error(t, err)
	require.Equal(t, 0, a.Len())
}

func TestPartitionClass(t *testing.T) {
	good := parseMethod(t, loopSrc)
	bad, err := bytecode.NewMethod(bytecode.MethodParams{
		Owner:  "demo/T",
		Name:   "sub",
		Desc:   "()V",
		Access: bytecode.AccStatic,
		Instructions: []bytecode.Instruction{
			bytecode.VarInsn(op.Ret, 0),
		},
	})
	require.Nil(t, err)
	c, err := bytecode.NewClass(bytecode.ClassParams{
		Name:    "demo/T",
		Methods: []*bytecode.Method{good, bad},
	})
	require.Nil(t, err)

	graphs, err := PartitionClass(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 error occurred")
	require.Len(t, graphs, 1)
	require.Contains(t, graphs, "f(I)I")
}
