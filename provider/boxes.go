package provider

import (
	"math"
	"math/bits"
	"strconv"
	"unicode"

	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// boxType describes one wrapper class: its primitive descriptor and the
// name of its unboxing method.
type boxType struct {
	class  string
	desc   string
	unbox  string
	number bool
}

var boxTypes = []boxType{
	{"java/lang/Boolean", "Z", "booleanValue", false},
	{"java/lang/Character", "C", "charValue", false},
	{"java/lang/Byte", "B", "byteValue", true},
	{"java/lang/Short", "S", "shortValue", true},
	{"java/lang/Integer", "I", "intValue", true},
	{"java/lang/Long", "J", "longValue", true},
	{"java/lang/Float", "F", "floatValue", true},
	{"java/lang/Double", "D", "doubleValue", true},
}

// numberConversions are the Number methods every numeric box answers.
var numberConversions = map[string]string{
	"byteValue":   "B",
	"shortValue":  "S",
	"intValue":    "I",
	"longValue":   "J",
	"floatValue":  "F",
	"doubleValue": "D",
}

func unboxReceiver(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	v, ok := object.Unbox(call.Receiver)
	if !ok {
		return nil, fault(vc, "%s: receiver %s is not a boxed primitive", call, call.Receiver.Inspect())
	}
	return v, nil
}

// convertTo applies the primitive widening or narrowing conversion to the
// type with the given descriptor.
func convertTo(v object.Value, desc string) (object.Value, error) {
	var (
		i   int64
		f   float64
		flt bool
	)
	switch x := v.(type) {
	case *object.Long:
		i = x.Value()
	case *object.Float:
		f, flt = float64(x.Value()), true
	case *object.Double:
		f, flt = x.Value(), true
	default:
		n, err := object.AsInt(v)
		if err != nil {
			return nil, err
		}
		i = int64(n)
	}
	switch desc {
	case "F":
		if flt {
			return object.NewFloat(float32(f)), nil
		}
		return object.NewFloat(float32(i)), nil
	case "D":
		if flt {
			return object.NewDouble(f), nil
		}
		return object.NewDouble(float64(i)), nil
	}
	if flt {
		i = saturate(f, desc)
	}
	switch desc {
	case "J":
		return object.NewLong(i), nil
	case "B":
		return object.NewByte(int8(i)), nil
	case "S":
		return object.NewShort(int16(i)), nil
	}
	return object.NewInt(int32(i)), nil
}

// saturate converts a float to an integer the way d2i and d2l do.
func saturate(f float64, desc string) int64 {
	lo, hi := float64(-1<<31), float64(1<<31-1)
	if desc == "J" {
		lo, hi = -1<<63, 1<<63-1
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f <= lo:
		return int64(lo)
	case f >= hi:
		if desc == "J" {
			return 1<<63 - 1
		}
		return int64(hi)
	}
	return int64(f)
}

func boxMethods() map[string]Builtin {
	m := map[string]Builtin{}
	for _, bt := range boxTypes {
		bt := bt
		self := "L" + bt.class + ";"
		m[memberKey(bt.class, "valueOf", "("+bt.desc+")"+self)] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return object.NewObject(bt.class, call.Args[0].Interface()), nil
		}
		m[memberKey(bt.class, "<init>", "("+bt.desc+")V")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return nil, fault(vc, "%s: boxes are immutable values; use valueOf", call)
		}
		m[memberKey(bt.class, bt.unbox, "()"+bt.desc)] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return unboxReceiver(vc, call)
		}
		m[memberKey(bt.class, "toString", "()Ljava/lang/String;")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			v, err := unboxReceiver(vc, call)
			if err != nil {
				return nil, err
			}
			return object.NewText(stringify(v)), nil
		}
		m[memberKey(bt.class, "toString", "("+bt.desc+")Ljava/lang/String;")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return object.NewText(stringify(call.Args[0])), nil
		}
		m[memberKey(bt.class, "equals", "(Ljava/lang/Object;)Z")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			v, err := unboxReceiver(vc, call)
			if err != nil {
				return nil, err
			}
			o, ok := call.Args[0].(*object.Object)
			if !ok || o.Class() != bt.class {
				return object.False, nil
			}
			w, ok := object.Unbox(o)
			return object.NewBoolean(ok && v.Equals(w)), nil
		}
		if !bt.number {
			continue
		}
		for name, desc := range numberConversions {
			desc := desc
			m[memberKey(bt.class, name, "()"+desc)] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
				v, err := unboxReceiver(vc, call)
				if err != nil {
					return nil, err
				}
				return convertTo(v, desc)
			}
		}
	}
	for name, desc := range numberConversions {
		desc := desc
		m[memberKey("java/lang/Number", name, "()"+desc)] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			v, err := unboxReceiver(vc, call)
			if err != nil {
				return nil, err
			}
			return convertTo(v, desc)
		}
	}

	parse := func(vc *vm.Context, call *vm.MethodCall, radix int32, bitSize int) (int64, error) {
		s, err := stringArg(vc, call, 0)
		if err != nil {
			return 0, err
		}
		n, perr := strconv.ParseInt(s, int(radix), bitSize)
		if perr != nil {
			return 0, throwNew(vc, "java/lang/NumberFormatException", "For input string: %q", s)
		}
		return n, nil
	}
	m["java/lang/Integer.parseInt(Ljava/lang/String;)I"] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		n, err := parse(vc, call, 10, 32)
		if err != nil {
			return nil, err
		}
		return object.NewInt(int32(n)), nil
	}
	m["java/lang/Integer.parseInt(Ljava/lang/String;I)I"] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		radix, err := intArg(call, 1)
		if err != nil {
			return nil, err
		}
		n, err := parse(vc, call, radix, 32)
		if err != nil {
			return nil, err
		}
		return object.NewInt(int32(n)), nil
	}
	m["java/lang/Long.parseLong(Ljava/lang/String;)J"] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		n, err := parse(vc, call, 10, 64)
		if err != nil {
			return nil, err
		}
		return object.NewLong(n), nil
	}
	intString := func(name string, format func(x int32) string) {
		m[memberKey("java/lang/Integer", name, "(I)Ljava/lang/String;")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			x, err := intArg(call, 0)
			if err != nil {
				return nil, err
			}
			return object.NewString(format(x)), nil
		}
	}
	intString("toHexString", func(x int32) string { return strconv.FormatUint(uint64(uint32(x)), 16) })
	intString("toBinaryString", func(x int32) string { return strconv.FormatUint(uint64(uint32(x)), 2) })
	intString("toOctalString", func(x int32) string { return strconv.FormatUint(uint64(uint32(x)), 8) })

	intBits := func(name, desc string, fn func(x int32, n int32) int32) {
		m[memberKey("java/lang/Integer", name, desc)] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			x, err := intArg(call, 0)
			if err != nil {
				return nil, err
			}
			var n int32
			if len(call.Args) > 1 {
				if n, err = intArg(call, 1); err != nil {
					return nil, err
				}
			}
			return object.NewInt(fn(x, n)), nil
		}
	}
	intBits("rotateLeft", "(II)I", func(x, n int32) int32 { return int32(bits.RotateLeft32(uint32(x), int(n&31))) })
	intBits("rotateRight", "(II)I", func(x, n int32) int32 { return int32(bits.RotateLeft32(uint32(x), -int(n&31))) })
	intBits("reverse", "(I)I", func(x, _ int32) int32 { return int32(bits.Reverse32(uint32(x))) })
	intBits("reverseBytes", "(I)I", func(x, _ int32) int32 { return int32(bits.ReverseBytes32(uint32(x))) })
	intBits("bitCount", "(I)I", func(x, _ int32) int32 { return int32(bits.OnesCount32(uint32(x))) })

	charTest := func(name string, fn func(r rune) bool) {
		m[memberKey("java/lang/Character", name, "(C)Z")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			c, err := intArg(call, 0)
			if err != nil {
				return nil, err
			}
			return object.NewBoolean(fn(rune(c))), nil
		}
	}
	charTest("isDigit", unicode.IsDigit)
	charTest("isLetter", unicode.IsLetter)
	charTest("isLetterOrDigit", func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
	charTest("isWhitespace", unicode.IsSpace)
	charTest("isUpperCase", unicode.IsUpper)
	charTest("isLowerCase", unicode.IsLower)
	return m
}
