package vm

import (
	"github.com/cloudcmds/unweave/bytecode"
)

// handler is a try-catch region resolved to instruction indexes.
type handler struct {
	start, end int // [start, end)
	target     int
	typ        string // "" catches everything
}

// code is a method prepared for execution: labels and try-catch regions
// resolved to stream positions.
type code struct {
	*bytecode.Method
	class    *bytecode.Class
	params   []bytecode.Type
	handlers []handler
}

func loadCode(class *bytecode.Class, m *bytecode.Method) *code {
	c := &code{
		Method: m,
		class:  class,
		params: m.ParamTypes(),
	}
	for i := 0; i < m.TryCatchCount(); i++ {
		tc := m.TryCatchAt(i)
		start, _ := m.LabelIndex(tc.Start)
		end, _ := m.LabelIndex(tc.End)
		target, _ := m.LabelIndex(tc.Handler)
		c.handlers = append(c.handlers, handler{start: start, end: end, target: target, typ: tc.Type})
	}
	return c
}

// target returns the stream position of a jump target.
func (c *code) target(l bytecode.Label) int {
	idx, _ := c.LabelIndex(l)
	return idx
}

// code returns the prepared form of m, loading it on first use.
func (vc *Context) code(class *bytecode.Class, m *bytecode.Method) *code {
	if c, ok := vc.loaded[m]; ok {
		return c
	}
	c := loadCode(class, m)
	vc.loaded[m] = c
	return c
}
