package provider

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Java strings are sequences of UTF-16 code units and are handled here as
// object.Text. Host strings only appear where a value leaves the
// interpreter, such as number parsing.

func receiverText(vc *vm.Context, call *vm.MethodCall) (object.Text, error) {
	t, err := object.AsText(call.Receiver)
	if err != nil {
		return nil, fault(vc, "%s: receiver", call).WithCause(err)
	}
	return t, nil
}

func textArg(vc *vm.Context, call *vm.MethodCall, i int) (object.Text, error) {
	if object.IsNull(call.Args[i]) {
		return nil, throwNew(vc, "java/lang/NullPointerException", "%s: argument %d is null", call.Name, i)
	}
	return object.AsText(call.Args[i])
}

func stringArg(vc *vm.Context, call *vm.MethodCall, i int) (string, error) {
	t, err := textArg(vc, call, i)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// javaHash is String.hashCode.
func javaHash(u []uint16) int32 {
	var h int32
	for _, c := range u {
		h = 31*h + int32(c)
	}
	return h
}

func charArray(u []uint16) *object.Array {
	elems := make([]object.Value, len(u))
	for i, c := range u {
		elems[i] = object.NewChar(c)
	}
	return object.NewArray("[C", elems)
}

func charsOf(vc *vm.Context, v object.Value) ([]uint16, error) {
	a, ok := v.(*object.Array)
	if !ok {
		return nil, throwNew(vc, "java/lang/NullPointerException", "char array is null")
	}
	u := make([]uint16, a.Len())
	for i := range u {
		e, _ := a.Get(i)
		c, err := object.AsInt(e)
		if err != nil {
			return nil, err
		}
		u[i] = uint16(c)
	}
	return u, nil
}

func bytesOf(vc *vm.Context, v object.Value) ([]byte, error) {
	a, ok := v.(*object.Array)
	if !ok {
		return nil, throwNew(vc, "java/lang/NullPointerException", "byte array is null")
	}
	b := make([]byte, a.Len())
	for i := range b {
		e, _ := a.Get(i)
		x, err := object.AsInt(e)
		if err != nil {
			return nil, err
		}
		b[i] = byte(x)
	}
	return b, nil
}

// utf8Bytes encodes t as UTF-8. Unpaired surrogates become '?'.
func utf8Bytes(t object.Text) []byte {
	var b []byte
	t.Runes(func(r rune, paired bool) {
		if !paired {
			b = append(b, '?')
			return
		}
		b = utf8.AppendRune(b, r)
	})
	return b
}

// mapRunes applies fn to every code point and leaves unpaired surrogates
// alone.
func mapRunes(t object.Text, fn func(rune) rune) object.Text {
	out := make(object.Text, 0, len(t))
	t.Runes(func(r rune, paired bool) {
		if !paired {
			out = append(out, uint16(r))
			return
		}
		out = utf16.AppendRune(out, fn(r))
	})
	return out
}

func indexText(t, sub object.Text) int {
	for i := 0; i+len(sub) <= len(t); i++ {
		if t[i:i+len(sub)].Equal(sub) {
			return i
		}
	}
	return -1
}

func outOfBounds(vc *vm.Context, index, length int) error {
	return throwNew(vc, "java/lang/StringIndexOutOfBoundsException",
		"index %d out of bounds for length %d", index, length)
}

// stringify renders a value as String.valueOf does.
func stringify(v object.Value) object.Text {
	switch v := v.(type) {
	case *object.Char:
		return object.Text{v.Value()}
	case *object.Object:
		if v.IsNull() {
			return object.TextOf("null")
		}
		if t, ok := v.Text(); ok {
			return t
		}
		if b, ok := object.Unbox(v); ok {
			return stringify(b)
		}
		if in, ok := v.Instance(); ok {
			if sb, ok := in.Native.(*stringBuilder); ok {
				return sb.units
			}
		}
	case *object.Float:
		return object.TextOf(formatFloat(float64(v.Value()), 32))
	case *object.Double:
		return object.TextOf(formatFloat(v.Value(), 64))
	}
	return object.TextOf(v.Inspect())
}

// formatFloat approximates Double.toString for common values: integral
// values keep a trailing ".0".
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func setString(vc *vm.Context, call *vm.MethodCall, t object.Text) (object.Value, error) {
	in, ok := instance(call.Receiver)
	if !ok {
		return nil, fault(vc, "%s: receiver is not a new string", call)
	}
	in.Native = append(object.Text{}, t...)
	return nil, nil
}

func stringMethods() map[string]Builtin {
	const owner = "java/lang/String"
	m := map[string]Builtin{}
	def := func(name, desc string, fn Builtin) {
		m[memberKey(owner, name, desc)] = fn
	}
	// unary helper: receiver text in, value out
	str := func(name, desc string, fn func(t object.Text) object.Value) {
		def(name, desc, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			t, err := receiverText(vc, call)
			if err != nil {
				return nil, err
			}
			return fn(t), nil
		})
	}
	// binary helper: receiver and string argument in, value out
	pair := func(name, desc string, fn func(t, arg object.Text) object.Value) {
		def(name, desc, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			t, err := receiverText(vc, call)
			if err != nil {
				return nil, err
			}
			arg, err := textArg(vc, call, 0)
			if err != nil {
				return nil, err
			}
			return fn(t, arg), nil
		})
	}

	def("<init>", "()V", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		return setString(vc, call, nil)
	})
	def("<init>", "(Ljava/lang/String;)V", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		t, err := textArg(vc, call, 0)
		if err != nil {
			return nil, err
		}
		return setString(vc, call, t)
	})
	def("<init>", "([C)V", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		u, err := charsOf(vc, call.Args[0])
		if err != nil {
			return nil, err
		}
		return setString(vc, call, u)
	})
	def("<init>", "([CII)V", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		u, err := charsOf(vc, call.Args[0])
		if err != nil {
			return nil, err
		}
		off, err := intArg(call, 1)
		if err != nil {
			return nil, err
		}
		n, err := intArg(call, 2)
		if err != nil {
			return nil, err
		}
		if off < 0 || n < 0 || int(off+n) > len(u) {
			return nil, outOfBounds(vc, int(off+n), len(u))
		}
		return setString(vc, call, u[off:off+n])
	})
	def("<init>", "([B)V", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		b, err := bytesOf(vc, call.Args[0])
		if err != nil {
			return nil, err
		}
		return setString(vc, call, object.TextOf(strings.ToValidUTF8(string(b), "\uFFFD")))
	})

	str("length", "()I", func(t object.Text) object.Value { return object.NewInt(int32(len(t))) })
	str("isEmpty", "()Z", func(t object.Text) object.Value { return object.NewBoolean(len(t) == 0) })
	str("hashCode", "()I", func(t object.Text) object.Value { return object.NewInt(javaHash(t)) })
	str("intern", "()Ljava/lang/String;", func(t object.Text) object.Value { return object.NewText(t) })
	str("trim", "()Ljava/lang/String;", func(t object.Text) object.Value {
		begin, end := 0, len(t)
		for begin < end && t[begin] <= ' ' {
			begin++
		}
		for end > begin && t[end-1] <= ' ' {
			end--
		}
		return object.NewText(t[begin:end])
	})
	str("toUpperCase", "()Ljava/lang/String;", func(t object.Text) object.Value {
		return object.NewText(mapRunes(t, unicode.ToUpper))
	})
	str("toLowerCase", "()Ljava/lang/String;", func(t object.Text) object.Value {
		return object.NewText(mapRunes(t, unicode.ToLower))
	})
	str("toCharArray", "()[C", func(t object.Text) object.Value { return charArray(t) })
	str("getBytes", "()[B", func(t object.Text) object.Value {
		b := utf8Bytes(t)
		out := make([]int8, len(b))
		for i, x := range b {
			out[i] = int8(x)
		}
		return object.ValueOf(out)
	})
	def("toString", "()Ljava/lang/String;", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		if _, err := receiverText(vc, call); err != nil {
			return nil, err
		}
		return call.Receiver, nil
	})

	def("charAt", "(I)C", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		t, err := receiverText(vc, call)
		if err != nil {
			return nil, err
		}
		i, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= len(t) {
			return nil, outOfBounds(vc, int(i), len(t))
		}
		return object.NewChar(t[i]), nil
	})
	def("equals", "(Ljava/lang/Object;)Z", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		t, err := receiverText(vc, call)
		if err != nil {
			return nil, err
		}
		o, ok := call.Args[0].(*object.Object)
		if !ok {
			return object.False, nil
		}
		other, ok := o.Text()
		return object.NewBoolean(ok && other.Equal(t)), nil
	})
	substring := func(vc *vm.Context, begin, end int32, t object.Text) (object.Value, error) {
		if begin < 0 || end > int32(len(t)) || begin > end {
			return nil, outOfBounds(vc, int(begin), len(t))
		}
		return object.NewText(t[begin:end]), nil
	}
	def("substring", "(I)Ljava/lang/String;", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		t, err := receiverText(vc, call)
		if err != nil {
			return nil, err
		}
		begin, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		return substring(vc, begin, int32(len(t)), t)
	})
	def("substring", "(II)Ljava/lang/String;", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		t, err := receiverText(vc, call)
		if err != nil {
			return nil, err
		}
		begin, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		end, err := intArg(call, 1)
		if err != nil {
			return nil, err
		}
		return substring(vc, begin, end, t)
	})
	def("indexOf", "(I)I", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		t, err := receiverText(vc, call)
		if err != nil {
			return nil, err
		}
		c, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		if c < 0 || c > unicode.MaxRune {
			return object.NewInt(-1), nil
		}
		return object.NewInt(int32(indexText(t, utf16.AppendRune(nil, rune(c))))), nil
	})
	pair("indexOf", "(Ljava/lang/String;)I", func(t, sub object.Text) object.Value {
		return object.NewInt(int32(indexText(t, sub)))
	})
	pair("concat", "(Ljava/lang/String;)Ljava/lang/String;", func(t, other object.Text) object.Value {
		return object.NewText(append(slices.Clip(t), other...))
	})
	pair("startsWith", "(Ljava/lang/String;)Z", func(t, prefix object.Text) object.Value {
		return object.NewBoolean(len(prefix) <= len(t) && t[:len(prefix)].Equal(prefix))
	})
	pair("endsWith", "(Ljava/lang/String;)Z", func(t, suffix object.Text) object.Value {
		return object.NewBoolean(len(suffix) <= len(t) && t[len(t)-len(suffix):].Equal(suffix))
	})
	pair("contains", "(Ljava/lang/CharSequence;)Z", func(t, sub object.Text) object.Value {
		return object.NewBoolean(indexText(t, sub) >= 0)
	})
	def("replace", "(CC)Ljava/lang/String;", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		t, err := receiverText(vc, call)
		if err != nil {
			return nil, err
		}
		from, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		to, err := intArg(call, 1)
		if err != nil {
			return nil, err
		}
		u := slices.Clone(t)
		for i, c := range u {
			if c == uint16(from) {
				u[i] = uint16(to)
			}
		}
		return object.NewText(u), nil
	})

	// String.valueOf overloads
	valueOf := func(desc string) {
		def("valueOf", desc, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return object.NewText(stringify(call.Args[0])), nil
		})
	}
	for _, desc := range []string{
		"(I)Ljava/lang/String;",
		"(J)Ljava/lang/String;",
		"(Z)Ljava/lang/String;",
		"(C)Ljava/lang/String;",
		"(F)Ljava/lang/String;",
		"(D)Ljava/lang/String;",
		"(Ljava/lang/Object;)Ljava/lang/String;",
	} {
		valueOf(desc)
	}
	def("valueOf", "([C)Ljava/lang/String;", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		u, err := charsOf(vc, call.Args[0])
		if err != nil {
			return nil, err
		}
		return object.NewText(u), nil
	})
	return m
}
