package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/asm"
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/flow"
)

const loopSrc = `
.class demo/Loop
.method static count(I)I
  .limit locals 2
  iconst_0
  istore_1
L0:
  iload_0
  ifle L1
  iinc 1 1
  iinc 0 -1
  goto L0
L1:
  iload_1
  ireturn
L2:
  pop
  iconst_m1
  ireturn
  .catch java/lang/Exception from L0 to L1 using L2
.end method
.end class
`

func loopMethod(t *testing.T) *bytecode.Method {
	t.Helper()
	classes, err := asm.Parse(loopSrc)
	require.Nil(t, err)
	m, ok := classes[0].Method("count", "(I)I")
	require.True(t, ok)
	return m
}

func noColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func TestDisassemble(t *testing.T) {
	instructions := Disassemble(loopMethod(t))
	require.Len(t, instructions, 12)

	first := instructions[0]
	require.Equal(t, Instruction{Index: 0, Opcode: "iconst_0"}, first)

	load := instructions[2]
	require.Equal(t, 3, load.Index)
	require.Equal(t, "L0", load.Label)
	require.Equal(t, "iload_0", load.Opcode)
	require.Equal(t, "java/lang/Exception -> L2", load.Info)

	inc := instructions[4]
	require.Equal(t, "iinc", inc.Opcode)
	require.Equal(t, "1 1", inc.Operands)

	exit := instructions[7]
	require.Equal(t, 9, exit.Index)
	require.Equal(t, "L1", exit.Label)
	require.Equal(t, "iload_1", exit.Opcode)
	require.Empty(t, exit.Info)
}

func TestPrint(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	Print(Disassemble(loopMethod(t)), &buf)
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Border, header, border, 12 rows, border.
	require.Len(t, lines, 16)
	require.Contains(t, lines[1], "INDEX")
	require.Contains(t, lines[1], "OPCODE")
	require.Contains(t, out, "ifle")
	require.Contains(t, out, "java/lang/Exception -> L2")
}

func TestBlocks(t *testing.T) {
	g, err := flow.Partition(loopMethod(t))
	require.Nil(t, err)
	blocks := Blocks(g)
	require.Len(t, blocks, 4)

	require.Equal(t, "<entry>", blocks[0].Label)
	require.Equal(t, []int{0, 1}, blocks[0].Instructions)
	require.Equal(t, []string{"next -> L0"}, blocks[0].Edges)

	loop := blocks[1]
	require.Equal(t, "L0", loop.Label)
	require.Equal(t, []string{"L2"}, loop.Handlers)
	require.Equal(t, []string{"conditional -> L1", "goto -> L0"}, loop.Edges)

	noColor(t)
	var buf bytes.Buffer
	PrintBlocks(blocks, &buf)
	require.Contains(t, buf.String(), "3-7")
	require.Contains(t, buf.String(), "conditional -> L1, goto -> L0")
}

func TestRegion(t *testing.T) {
	m := loopMethod(t)
	r, err := flow.Walk(m, 0, nil)
	require.Nil(t, err)
	steps := Region(r)
	require.Equal(t, "<entry>", steps[0].Label)

	noColor(t)
	var buf bytes.Buffer
	PrintRegion(steps, m, &buf)
	require.Contains(t, buf.String(), "goto L0")
	require.Contains(t, buf.String(), "ireturn")
}

func TestSpan(t *testing.T) {
	require.Equal(t, "", span(nil))
	require.Equal(t, "4", span([]int{4}))
	require.Equal(t, "0-3 7 9-10", span([]int{0, 1, 2, 3, 7, 9, 10}))
}
