package vm

import (
	"errors"
	"fmt"

	"github.com/cloudcmds/unweave/object"
)

var errStackUnderflow = errors.New("operand stack underflow")

// frame is the activation record of one executing method. Long and double
// values occupy a single operand stack entry and two local slots, the second
// of which holds nil.
type frame struct {
	code   *code
	locals []object.Value
	stack  []object.Value
	ip     int
}

func newFrame(c *code) *frame {
	return &frame{
		code:   c,
		locals: make([]object.Value, c.MaxLocals()),
		stack:  make([]object.Value, 0, 8),
	}
}

func (f *frame) push(v object.Value) {
	f.stack = append(f.stack, v)
}

func (f *frame) pop() (object.Value, error) {
	n := len(f.stack)
	if n == 0 {
		return nil, errStackUnderflow
	}
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v, nil
}

// popN pops n values and returns them in push order.
func (f *frame) popN(n int) ([]object.Value, error) {
	if len(f.stack) < n {
		return nil, errStackUnderflow
	}
	vals := make([]object.Value, n)
	copy(vals, f.stack[len(f.stack)-n:])
	f.stack = f.stack[:len(f.stack)-n]
	return vals, nil
}

func (f *frame) peek() (object.Value, error) {
	if len(f.stack) == 0 {
		return nil, errStackUnderflow
	}
	return f.stack[len(f.stack)-1], nil
}

func (f *frame) load(index int) (object.Value, error) {
	if index < 0 || index >= len(f.locals) {
		return nil, fmt.Errorf("local %d out of range (max locals %d)", index, len(f.locals))
	}
	v := f.locals[index]
	if v == nil {
		return nil, fmt.Errorf("local %d is not initialized", index)
	}
	return v, nil
}

func (f *frame) store(index int, v object.Value) error {
	width := 1
	if object.IsWide(v) {
		width = 2
	}
	if index < 0 || index+width > len(f.locals) {
		return fmt.Errorf("local %d out of range (max locals %d)", index, len(f.locals))
	}
	f.locals[index] = v
	if width == 2 {
		f.locals[index+1] = nil
	}
	return nil
}
