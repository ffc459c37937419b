package dataflow

import (
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
)

// Extract returns a static method named name, owned by m's class, whose
// body is the slice of frame followed by the return instruction for the
// frame's type. The method takes no arguments, so every local the slice
// reads must be written inside it.
func Extract(m *bytecode.Method, frame *Frame, name string) (*bytecode.Method, error) {
	frames := frame.closure()
	instructions := make([]bytecode.Instruction, 0, len(frames)+1)
	for _, f := range frames {
		if f.Unresolved() {
			slot, _ := f.ins.LocalIndex()
			return nil, errz.AnalysisErrorf(m.Key(), f.Index, "local %d is read before it is written", slot)
		}
		instructions = append(instructions, f.ins)
	}
	ret := frame.Type
	instructions = append(instructions, bytecode.Insn(bytecode.ReturnOp(ret)))
	return bytecode.NewMethod(bytecode.MethodParams{
		Owner:        m.Owner(),
		Name:         name,
		Desc:         "()" + ret.Desc,
		Access:       bytecode.AccPrivate | bytecode.AccStatic,
		MaxLocals:    m.MaxLocals(),
		Instructions: instructions,
	})
}
