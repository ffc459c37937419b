package vm

import (
	"errors"
	"fmt"
	"math"

	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/op"
)

var errDivideByZero = errors.New("/ by zero")

func intOp(code op.Code, a, b int32) (int32, error) {
	switch code {
	case op.Iadd:
		return a + b, nil
	case op.Isub:
		return a - b, nil
	case op.Imul:
		return a * b, nil
	case op.Idiv:
		if b == 0 {
			return 0, errDivideByZero
		}
		return a / b, nil
	case op.Irem:
		if b == 0 {
			return 0, errDivideByZero
		}
		return a % b, nil
	case op.Ishl:
		return a << (uint32(b) & 31), nil
	case op.Ishr:
		return a >> (uint32(b) & 31), nil
	case op.Iushr:
		return int32(uint32(a) >> (uint32(b) & 31)), nil
	case op.Iand:
		return a & b, nil
	case op.Ior:
		return a | b, nil
	case op.Ixor:
		return a ^ b, nil
	}
	return 0, fmt.Errorf("%s is not an int operation", code)
}

func longOp(code op.Code, a, b int64) (int64, error) {
	switch code {
	case op.Ladd:
		return a + b, nil
	case op.Lsub:
		return a - b, nil
	case op.Lmul:
		return a * b, nil
	case op.Ldiv:
		if b == 0 {
			return 0, errDivideByZero
		}
		return a / b, nil
	case op.Lrem:
		if b == 0 {
			return 0, errDivideByZero
		}
		return a % b, nil
	case op.Land:
		return a & b, nil
	case op.Lor:
		return a | b, nil
	case op.Lxor:
		return a ^ b, nil
	}
	return 0, fmt.Errorf("%s is not a long operation", code)
}

// longShift applies lshl, lshr or lushr. The shift distance is an int.
func longShift(code op.Code, a int64, dist int32) int64 {
	s := uint64(dist) & 63
	switch code {
	case op.Lshl:
		return a << s
	case op.Lshr:
		return a >> s
	}
	return int64(uint64(a) >> s)
}

func floatOp(code op.Code, a, b float32) float32 {
	switch code {
	case op.Fadd:
		return a + b
	case op.Fsub:
		return a - b
	case op.Fmul:
		return a * b
	case op.Fdiv:
		return a / b
	}
	return float32(math.Mod(float64(a), float64(b)))
}

func doubleOp(code op.Code, a, b float64) float64 {
	switch code {
	case op.Dadd:
		return a + b
	case op.Dsub:
		return a - b
	case op.Dmul:
		return a * b
	case op.Ddiv:
		return a / b
	}
	return math.Mod(a, b)
}

// f2i converts with Java semantics: NaN is 0 and out of range values
// saturate.
func f2i(x float64) int32 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt32:
		return math.MaxInt32
	case x <= math.MinInt32:
		return math.MinInt32
	}
	return int32(x)
}

func f2l(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}

// compare returns -1, 0 or 1. nan is the result when either operand is NaN.
func compare(a, b float64, nan int32) int32 {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return nan
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func lcmp(a, b int64) int32 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// convert applies a primitive conversion instruction.
func convert(code op.Code, v object.Value) (object.Value, error) {
	switch code {
	case op.I2l, op.I2f, op.I2d, op.I2b, op.I2c, op.I2s:
		x, err := object.AsInt(v)
		if err != nil {
			return nil, err
		}
		switch code {
		case op.I2l:
			return object.NewLong(int64(x)), nil
		case op.I2f:
			return object.NewFloat(float32(x)), nil
		case op.I2d:
			return object.NewDouble(float64(x)), nil
		case op.I2b:
			return object.NewInt(int32(int8(x))), nil
		case op.I2c:
			return object.NewInt(int32(uint16(x))), nil
		}
		return object.NewInt(int32(int16(x))), nil
	case op.L2i, op.L2f, op.L2d:
		x, err := object.AsLong(v)
		if err != nil {
			return nil, err
		}
		switch code {
		case op.L2i:
			return object.NewInt(int32(x)), nil
		case op.L2f:
			return object.NewFloat(float32(x)), nil
		}
		return object.NewDouble(float64(x)), nil
	case op.F2i, op.F2l, op.F2d:
		x, err := object.AsFloat(v)
		if err != nil {
			return nil, err
		}
		switch code {
		case op.F2i:
			return object.NewInt(f2i(float64(x))), nil
		case op.F2l:
			return object.NewLong(f2l(float64(x))), nil
		}
		return object.NewDouble(float64(x)), nil
	case op.D2i, op.D2l, op.D2f:
		x, err := object.AsDouble(v)
		if err != nil {
			return nil, err
		}
		switch code {
		case op.D2i:
			return object.NewInt(f2i(x)), nil
		case op.D2l:
			return object.NewLong(f2l(x)), nil
		}
		return object.NewFloat(float32(x)), nil
	}
	return nil, fmt.Errorf("%s is not a conversion", code)
}

// intCondition evaluates the ifXX and if_icmpXX family.
func intCondition(code op.Code, a, b int32) bool {
	switch code {
	case op.Ifeq, op.IfIcmpeq:
		return a == b
	case op.Ifne, op.IfIcmpne:
		return a != b
	case op.Iflt, op.IfIcmplt:
		return a < b
	case op.Ifge, op.IfIcmpge:
		return a >= b
	case op.Ifgt, op.IfIcmpgt:
		return a > b
	}
	return a <= b
}
