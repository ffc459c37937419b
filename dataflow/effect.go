package dataflow

import (
	"fmt"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/op"
)

var (
	voidType   = bytecode.Type{Sort: bytecode.SortVoid, Desc: "V"}
	intType    = bytecode.MustParseType("I")
	longType   = bytecode.MustParseType("J")
	floatType  = bytecode.MustParseType("F")
	doubleType = bytecode.MustParseType("D")
	objectType = bytecode.ObjectType("java/lang/Object")

	// indexed by the i/l/f/d/a prefix order of the opcode tables
	prefixTypes = []bytecode.Type{intType, longType, floatType, doubleType, objectType}
)

var conversions = map[op.Code]bytecode.Type{
	op.I2l: longType, op.I2f: floatType, op.I2d: doubleType,
	op.L2i: intType, op.L2f: floatType, op.L2d: doubleType,
	op.F2i: intType, op.F2l: longType, op.F2d: doubleType,
	op.D2i: intType, op.D2l: longType, op.D2f: floatType,
	op.I2b: intType, op.I2c: intType, op.I2s: intType,
}

var arrayLoads = map[op.Code]bytecode.Type{
	op.Iaload: intType, op.Laload: longType, op.Faload: floatType, op.Daload: doubleType,
	op.Aaload: objectType, op.Baload: intType, op.Caload: intType, op.Saload: intType,
}

var newarrayDescs = map[int]string{
	bytecode.TBoolean: "[Z", bytecode.TChar: "[C", bytecode.TFloat: "[F", bytecode.TDouble: "[D",
	bytecode.TByte: "[B", bytecode.TShort: "[S", bytecode.TInt: "[I", bytecode.TLong: "[J",
}

func isLoad(c op.Code) bool {
	return (c >= op.Iload && c <= op.Aload) || (c >= op.Iload0 && c <= op.Aload3)
}

func isStore(c op.Code) bool {
	return (c >= op.Istore && c <= op.Astore) || (c >= op.Istore0 && c <= op.Astore3)
}

func loadType(c op.Code) bytecode.Type {
	if c <= op.Aload {
		return prefixTypes[c-op.Iload]
	}
	return prefixTypes[(c-op.Iload0)/4]
}

func constType(c any) (bytecode.Type, error) {
	switch c.(type) {
	case int32:
		return intType, nil
	case int64:
		return longType, nil
	case float32:
		return floatType, nil
	case float64:
		return doubleType, nil
	case string:
		return bytecode.ObjectType("java/lang/String"), nil
	case bytecode.Type:
		return bytecode.ObjectType("java/lang/Class"), nil
	case bytecode.Handle, *bytecode.Handle:
		return bytecode.ObjectType("java/lang/invoke/MethodHandle"), nil
	}
	return voidType, fmt.Errorf("unsupported constant %T", c)
}

// effect returns how many stack values an instruction pops and the type of
// the value it pushes. Loads, stores, iinc and the pop/dup/swap forms are
// handled by the builder.
func effect(ins bytecode.Instruction) (int, bytecode.Type, error) {
	c := ins.Op
	switch {
	case c == op.Nop:
		return 0, voidType, nil
	case c == op.AconstNull:
		return 0, objectType, nil
	case c >= op.IconstM1 && c <= op.Iconst5, c == op.Bipush, c == op.Sipush:
		return 0, intType, nil
	case c == op.Lconst0 || c == op.Lconst1:
		return 0, longType, nil
	case c >= op.Fconst0 && c <= op.Fconst2:
		return 0, floatType, nil
	case c == op.Dconst0 || c == op.Dconst1:
		return 0, doubleType, nil
	case c == op.Ldc || c == op.LdcW || c == op.Ldc2W:
		t, err := constType(ins.Const)
		return 0, t, err
	case c >= op.Iaload && c <= op.Saload:
		return 2, arrayLoads[c], nil
	case c >= op.Iastore && c <= op.Sastore:
		return 3, voidType, nil
	case c >= op.Iadd && c <= op.Drem:
		return 2, prefixTypes[(c-op.Iadd)%4], nil
	case c >= op.Ineg && c <= op.Dneg:
		return 1, prefixTypes[c-op.Ineg], nil
	case c >= op.Ishl && c <= op.Lxor:
		// shifts and bitwise ops alternate int and long
		return 2, prefixTypes[(c-op.Ishl)%2], nil
	case c >= op.I2l && c <= op.I2s:
		return 1, conversions[c], nil
	case c >= op.Lcmp && c <= op.Dcmpg:
		return 2, intType, nil
	case c == op.Getstatic:
		t, err := bytecode.ParseType(ins.Desc)
		return 0, t, err
	case c == op.Putstatic:
		return 1, voidType, nil
	case c == op.Getfield:
		t, err := bytecode.ParseType(ins.Desc)
		return 1, t, err
	case c == op.Putfield:
		return 2, voidType, nil
	case c >= op.Invokevirtual && c <= op.Invokedynamic:
		params, ret, err := bytecode.ParseMethodDescriptor(ins.Desc)
		if err != nil {
			return 0, voidType, err
		}
		n := len(params)
		if c != op.Invokestatic && c != op.Invokedynamic {
			n++
		}
		return n, ret, nil
	case c == op.New:
		return 0, bytecode.ObjectType(ins.Owner), nil
	case c == op.Newarray:
		desc, ok := newarrayDescs[ins.Int]
		if !ok {
			return 0, voidType, fmt.Errorf("invalid newarray type %d", ins.Int)
		}
		return 1, bytecode.MustParseType(desc), nil
	case c == op.Anewarray:
		elem := bytecode.ObjectType(ins.Owner)
		return 1, bytecode.MustParseType("[" + elem.Desc), nil
	case c == op.Arraylength, c == op.Instanceof:
		return 1, intType, nil
	case c == op.Checkcast:
		return 1, bytecode.ObjectType(ins.Owner), nil
	case c == op.Monitorenter || c == op.Monitorexit:
		return 1, voidType, nil
	case c == op.Multianewarray:
		return ins.Int, bytecode.ObjectType(ins.Owner), nil
	}
	return 0, voidType, fmt.Errorf("unsupported instruction %s", c)
}
