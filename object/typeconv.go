package object

import "fmt"

// Boxed class names for host primitives.
var boxClasses = map[string]string{
	"boolean": "java/lang/Boolean",
	"byte":    "java/lang/Byte",
	"char":    "java/lang/Character",
	"short":   "java/lang/Short",
	"int":     "java/lang/Integer",
	"long":    "java/lang/Long",
	"float":   "java/lang/Float",
	"double":  "java/lang/Double",
}

// BoxClass returns the wrapper class for a primitive name, e.g.
// "java/lang/Integer" for "int".
func BoxClass(primitive string) (string, bool) {
	c, ok := boxClasses[primitive]
	return c, ok
}

// HostTypeName returns the primitive name a raw host value unwraps to, or a
// descriptive name for anything else.
func HostTypeName(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int8:
		return "byte"
	case uint16:
		return "char"
	case int16:
		return "short"
	case int32:
		return "int"
	case int64:
		return "long"
	case float32:
		return "float"
	case float64:
		return "double"
	case string, Text:
		return "java.lang.String"
	case int, uint, uint8, uint32, uint64:
		return "go." + fmt.Sprintf("%T", raw)
	}
	return fmt.Sprintf("%T", raw)
}

// Box wraps a raw host value into the primitive variant for the declared
// primitive name. It only does so when HostTypeName(raw) equals declared;
// otherwise it reports false and the caller keeps the raw value.
func Box(declared string, raw any) (Value, bool) {
	if HostTypeName(raw) != declared {
		return nil, false
	}
	switch v := raw.(type) {
	case bool:
		return NewBoolean(v), true
	case int8:
		return NewByte(v), true
	case uint16:
		return NewChar(v), true
	case int16:
		return NewShort(v), true
	case int32:
		return NewInt(v), true
	case int64:
		return NewLong(v), true
	case float32:
		return NewFloat(v), true
	case float64:
		return NewDouble(v), true
	}
	return nil, false
}

// ValueOf converts any host value into a Value. Values pass through
// unchanged, nil becomes a null reference, strings become string references
// and slices become arrays. Host primitives become references to their boxed
// form, as they would when passed where an Object is expected; use Box to get
// a primitive variant. Anything else becomes an opaque object reference.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case Value:
		return v
	case nil:
		return NewNull()
	case string:
		return NewString(v)
	case Text:
		return NewText(v)
	case []Value:
		return NewArray("[Ljava/lang/Object;", v)
	case []bool:
		return sliceArray("[Z", v, func(x bool) Value { return NewBoolean(x) })
	case []int8:
		return sliceArray("[B", v, func(x int8) Value { return NewByte(x) })
	case []uint16:
		return sliceArray("[C", v, func(x uint16) Value { return NewChar(x) })
	case []int16:
		return sliceArray("[S", v, func(x int16) Value { return NewShort(x) })
	case []int32:
		return sliceArray("[I", v, func(x int32) Value { return NewInt(x) })
	case []int64:
		return sliceArray("[J", v, func(x int64) Value { return NewLong(x) })
	case []float32:
		return sliceArray("[F", v, func(x float32) Value { return NewFloat(x) })
	case []float64:
		return sliceArray("[D", v, func(x float64) Value { return NewDouble(x) })
	case []string:
		return sliceArray("[Ljava/lang/String;", v, func(x string) Value { return NewString(x) })
	case []any:
		return sliceArray("[Ljava/lang/Object;", v, ValueOf)
	}
	if class, ok := boxClasses[HostTypeName(raw)]; ok {
		return NewObject(class, raw)
	}
	return NewObject(ClassObject, raw)
}

func sliceArray[T any](desc string, src []T, conv func(T) Value) *Array {
	elems := make([]Value, len(src))
	for i, x := range src {
		elems[i] = conv(x)
	}
	return NewArray(desc, elems)
}

// Unbox returns the primitive variant carried by a boxed reference, e.g. the
// Int inside a java/lang/Integer object.
func Unbox(v Value) (Value, bool) {
	o, ok := v.(*Object)
	if !ok || o.IsNull() {
		return nil, false
	}
	if p, ok := o.ref.(Value); ok {
		return p, true
	}
	return Box(HostTypeName(o.ref), o.ref)
}

// *****************************************************************************
// Type assertion helpers
// *****************************************************************************

// AsInt returns the value of any int-category variant (boolean, byte, char,
// short, int) as an int32.
func AsInt(v Value) (int32, error) {
	switch v := v.(type) {
	case *Int:
		return v.value, nil
	case *Boolean:
		if v.value {
			return 1, nil
		}
		return 0, nil
	case *Byte:
		return int32(v.value), nil
	case *Char:
		return int32(v.value), nil
	case *Short:
		return int32(v.value), nil
	}
	return 0, typeMismatch("an int", v)
}

func AsLong(v Value) (int64, error) {
	if l, ok := v.(*Long); ok {
		return l.value, nil
	}
	return 0, typeMismatch("a long", v)
}

func AsFloat(v Value) (float32, error) {
	if f, ok := v.(*Float); ok {
		return f.value, nil
	}
	return 0, typeMismatch("a float", v)
}

func AsDouble(v Value) (float64, error) {
	if d, ok := v.(*Double); ok {
		return d.value, nil
	}
	return 0, typeMismatch("a double", v)
}

func AsObject(v Value) (*Object, error) {
	if o, ok := v.(*Object); ok {
		return o, nil
	}
	return nil, typeMismatch("an object reference", v)
}

func AsArray(v Value) (*Array, error) {
	if a, ok := v.(*Array); ok {
		return a, nil
	}
	return nil, typeMismatch("an array reference", v)
}

// AsString returns a string reference decoded to a host string.
func AsString(v Value) (string, error) {
	t, err := AsText(v)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// AsText returns the units behind a string reference.
func AsText(v Value) (Text, error) {
	if o, ok := v.(*Object); ok {
		if t, ok := o.Text(); ok {
			return t, nil
		}
	}
	return nil, typeMismatch("a string", v)
}

// IsReference reports whether v is an object or array reference.
func IsReference(v Value) bool {
	switch v.(type) {
	case *Object, *Array:
		return true
	}
	return false
}

// IsNull reports whether v is the null reference.
func IsNull(v Value) bool {
	o, ok := v.(*Object)
	return ok && o.IsNull()
}

// FromInt converts an int32 result back into the variant for the given
// primitive type, truncating as the JVM does on stores to narrow types.
func FromInt(sort string, x int32) Value {
	switch sort {
	case "boolean":
		return NewBoolean(x&1 != 0)
	case "byte":
		return NewByte(int8(x))
	case "char":
		return NewChar(uint16(x))
	case "short":
		return NewShort(int16(x))
	}
	return NewInt(x)
}

func typeMismatch(expected string, v Value) error {
	if v == nil {
		return fmt.Errorf("type error: expected %s (nothing given)", expected)
	}
	return fmt.Errorf("type error: expected %s (%s given)", expected, v.Type())
}
