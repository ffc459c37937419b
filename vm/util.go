package vm

import (
	"fmt"
	"math"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/op"
)

func checkCallArgs(m *bytecode.Method, receiver object.Value, args []object.Value) error {
	if m.IsStatic() && receiver != nil {
		return fmt.Errorf("args error: static method %q called with a receiver", m.Name())
	}
	if !m.IsStatic() && receiver == nil {
		return fmt.Errorf("args error: method %q called without a receiver", m.Name())
	}
	paramsCount := len(m.ParamTypes())
	if len(args) == paramsCount {
		return nil
	}
	msg := fmt.Sprintf("args error: method %q", m.Name())
	switch paramsCount {
	case 0:
		return fmt.Errorf("%s takes 0 arguments (%d given)", msg, len(args))
	case 1:
		return fmt.Errorf("%s takes 1 argument (%d given)", msg, len(args))
	default:
		return fmt.Errorf("%s takes %d arguments (%d given)", msg, paramsCount, len(args))
	}
}

// constant converts an ldc operand into a Value. Class literals become
// java/lang/Class references to the bytecode.Type and method handles
// java/lang/invoke/MethodHandle references to the bytecode.Handle.
func constant(c any) (object.Value, error) {
	switch c := c.(type) {
	case int32:
		return object.NewInt(c), nil
	case int64:
		return object.NewLong(c), nil
	case float32:
		return object.NewFloat(c), nil
	case float64:
		return object.NewDouble(c), nil
	case string:
		return object.NewString(c), nil
	case bytecode.Type:
		return object.NewObject(object.ClassClass, c), nil
	case bytecode.Handle:
		return object.NewObject("java/lang/invoke/MethodHandle", c), nil
	}
	return nil, fmt.Errorf("unsupported constant %v (%T)", c, c)
}

func popInts(f *frame) (int32, int32, error) {
	vals, err := f.popN(2)
	if err != nil {
		return 0, 0, err
	}
	a, err := object.AsInt(vals[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := object.AsInt(vals[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// popArgs pops the arguments of a call in declaration order, narrowing int
// category values to their declared types.
func popArgs(f *frame, params []bytecode.Type) ([]object.Value, error) {
	args, err := f.popN(len(params))
	if err != nil {
		return nil, err
	}
	for i, p := range params {
		if args[i], err = narrow(p, args[i]); err != nil {
			return nil, err
		}
	}
	return args, nil
}

// popCount pops an array length or dimension.
func popCount(f *frame) (int32, error) {
	v, err := f.pop()
	if err != nil {
		return 0, err
	}
	n, err := object.AsInt(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative array size %d", n)
	}
	return n, nil
}

func isIntCategory(t bytecode.Type) bool {
	switch t.Sort {
	case bytecode.SortBoolean, bytecode.SortByte, bytecode.SortChar, bytecode.SortShort, bytecode.SortInt:
		return true
	}
	return false
}

// narrow converts an int category value to the variant of type t, as a
// store to a narrow field, array element or return value does. Other values
// are returned unchanged.
func narrow(t bytecode.Type, v object.Value) (object.Value, error) {
	if !isIntCategory(t) {
		return v, nil
	}
	if boxed, ok := object.Unbox(v); ok {
		v = boxed
	}
	x, err := object.AsInt(v)
	if err != nil {
		return nil, err
	}
	return object.FromInt(t.Sort.String(), x), nil
}

func narrowDesc(desc string, v object.Value) (object.Value, error) {
	t, err := bytecode.ParseType(desc)
	if err != nil {
		return nil, err
	}
	return narrow(t, v)
}

// widen normalizes a primitive produced outside the interpreter: boxed
// references are unboxed and int category values become ints.
func widen(v object.Value) (object.Value, error) {
	if boxed, ok := object.Unbox(v); ok {
		v = boxed
	}
	switch v.(type) {
	case *object.Boolean, *object.Byte, *object.Char, *object.Short:
		x, err := object.AsInt(v)
		if err != nil {
			return nil, err
		}
		return object.NewInt(x), nil
	}
	return v, nil
}

func negate(v object.Value) (object.Value, error) {
	switch v := v.(type) {
	case *object.Int:
		return object.NewInt(-v.Value()), nil
	case *object.Long:
		return object.NewLong(-v.Value()), nil
	case *object.Float:
		return object.NewFloat(-v.Value()), nil
	case *object.Double:
		return object.NewDouble(-v.Value()), nil
	}
	x, err := object.AsInt(v)
	if err != nil {
		return nil, err
	}
	return object.NewInt(-x), nil
}

func arrayAccess(vc *Context, ref, index object.Value) (*object.Array, int32, error) {
	if object.IsNull(ref) {
		return nil, 0, throwNull(vc, "array access on null reference")
	}
	arr, err := object.AsArray(ref)
	if err != nil {
		return nil, 0, err
	}
	i, err := object.AsInt(index)
	if err != nil {
		return nil, 0, err
	}
	return arr, i, nil
}

func switchTarget(ins bytecode.Instruction, key int32) bytecode.Label {
	if ins.Op == op.Tableswitch {
		i := int(key) - ins.Int
		if i >= 0 && i < len(ins.Targets) {
			return ins.Targets[i]
		}
		return ins.Default
	}
	for i, k := range ins.Keys {
		if k == key {
			return ins.Targets[i]
		}
	}
	return ins.Default
}

var newarrayTypes = map[int]string{
	bytecode.TBoolean: "Z",
	bytecode.TChar:    "C",
	bytecode.TFloat:   "F",
	bytecode.TDouble:  "D",
	bytecode.TByte:    "B",
	bytecode.TShort:   "S",
	bytecode.TInt:     "I",
	bytecode.TLong:    "J",
}

func newarrayType(code int) (bytecode.Type, error) {
	desc, ok := newarrayTypes[code]
	if !ok {
		return bytecode.Type{}, fmt.Errorf("invalid newarray type %d", code)
	}
	return bytecode.ParseType(desc)
}

// typeOperand parses the operand of a type instruction, which is either an
// internal class name or an array descriptor.
func typeOperand(s string) (bytecode.Type, error) {
	if len(s) > 0 && s[0] == '[' {
		return bytecode.ParseType(s)
	}
	return bytecode.ObjectType(s), nil
}

// multiArraySize is the number of element slots multiArray allocates for
// dims, saturating at math.MaxInt64.
func multiArraySize(dims []int32) int64 {
	var total int64
	level := int64(1)
	for _, d := range dims {
		if d == 0 {
			break
		}
		if level > math.MaxInt64/int64(d) {
			return math.MaxInt64
		}
		level *= int64(d)
		if total > math.MaxInt64-level {
			return math.MaxInt64
		}
		total += level
	}
	return total
}

// multiArray allocates nested arrays of type t. Dimensions beyond dims are
// left null.
func multiArray(t bytecode.Type, dims []int32) *object.Array {
	elem := t.Elem()
	if len(dims) == 1 {
		return object.NewArrayOf(elem, int(dims[0]))
	}
	elems := make([]object.Value, dims[0])
	for i := range elems {
		elems[i] = multiArray(elem, dims[1:])
	}
	return object.NewArray(t.Desc, elems)
}

// stackOp performs the type agnostic stack manipulation instructions. Long
// and double values count as two words.
func stackOp(f *frame, code op.Code) error {
	v1, err := f.pop()
	if err != nil {
		return err
	}
	switch code {
	case op.Pop:
		return nil
	case op.Pop2:
		if object.IsWide(v1) {
			return nil
		}
		_, err := f.pop()
		return err
	case op.Dup:
		f.push(v1)
		f.push(v1)
		return nil
	case op.Dup2:
		if object.IsWide(v1) {
			f.push(v1)
			f.push(v1)
			return nil
		}
	}
	v2, err := f.pop()
	if err != nil {
		return err
	}
	switch code {
	case op.Swap:
		f.push(v1)
		f.push(v2)
	case op.DupX1:
		f.push(v1)
		f.push(v2)
		f.push(v1)
	case op.Dup2:
		f.push(v2)
		f.push(v1)
		f.push(v2)
		f.push(v1)
	case op.DupX2:
		if object.IsWide(v2) {
			f.push(v1)
			f.push(v2)
			f.push(v1)
			return nil
		}
		v3, err := f.pop()
		if err != nil {
			return err
		}
		f.push(v1)
		f.push(v3)
		f.push(v2)
		f.push(v1)
	case op.Dup2X1:
		if object.IsWide(v1) {
			f.push(v1)
			f.push(v2)
			f.push(v1)
			return nil
		}
		v3, err := f.pop()
		if err != nil {
			return err
		}
		f.push(v2)
		f.push(v1)
		f.push(v3)
		f.push(v2)
		f.push(v1)
	case op.Dup2X2:
		return dup2x2(f, v1, v2)
	}
	return nil
}

func dup2x2(f *frame, v1, v2 object.Value) error {
	if object.IsWide(v1) {
		if object.IsWide(v2) {
			f.push(v1)
			f.push(v2)
			f.push(v1)
			return nil
		}
		v3, err := f.pop()
		if err != nil {
			return err
		}
		f.push(v1)
		f.push(v3)
		f.push(v2)
		f.push(v1)
		return nil
	}
	v3, err := f.pop()
	if err != nil {
		return err
	}
	if object.IsWide(v3) {
		f.push(v2)
		f.push(v1)
		f.push(v3)
		f.push(v2)
		f.push(v1)
		return nil
	}
	v4, err := f.pop()
	if err != nil {
		return err
	}
	f.push(v2)
	f.push(v1)
	f.push(v4)
	f.push(v3)
	f.push(v2)
	f.push(v1)
	return nil
}
