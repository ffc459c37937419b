package bytecode

import (
	"fmt"
	"strings"
)

// Sort is the category of a descriptor type.
type Sort uint8

const (
	SortVoid Sort = iota
	SortBoolean
	SortChar
	SortByte
	SortShort
	SortInt
	SortFloat
	SortLong
	SortDouble
	SortArray
	SortObject
)

var sortNames = map[Sort]string{
	SortVoid:    "void",
	SortBoolean: "boolean",
	SortChar:    "char",
	SortByte:    "byte",
	SortShort:   "short",
	SortInt:     "int",
	SortFloat:   "float",
	SortLong:    "long",
	SortDouble:  "double",
	SortArray:   "array",
	SortObject:  "object",
}

func (s Sort) String() string {
	return sortNames[s]
}

// Type is a parsed field descriptor, or the return part of a method
// descriptor.
type Type struct {
	Sort Sort
	// Desc is the raw descriptor, e.g. "I", "[J" or "Ljava/lang/String;".
	Desc string
}

var primitives = map[byte]Sort{
	'V': SortVoid,
	'Z': SortBoolean,
	'C': SortChar,
	'B': SortByte,
	'S': SortShort,
	'I': SortInt,
	'F': SortFloat,
	'J': SortLong,
	'D': SortDouble,
}

// ParseType parses a single field descriptor.
func ParseType(desc string) (Type, error) {
	t, n, err := parseType(desc, 0)
	if err != nil {
		return Type{}, err
	}
	if n != len(desc) {
		return Type{}, fmt.Errorf("invalid descriptor %q: trailing characters", desc)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on malformed input.
func MustParseType(desc string) Type {
	t, err := ParseType(desc)
	if err != nil {
		panic(err)
	}
	return t
}

func parseType(desc string, pos int) (Type, int, error) {
	if pos >= len(desc) {
		return Type{}, pos, fmt.Errorf("invalid descriptor %q: unexpected end", desc)
	}
	start := pos
	for pos < len(desc) && desc[pos] == '[' {
		pos++
	}
	if pos >= len(desc) {
		return Type{}, pos, fmt.Errorf("invalid descriptor %q: unexpected end", desc)
	}
	var sort Sort
	switch c := desc[pos]; c {
	case 'L':
		end := strings.IndexByte(desc[pos:], ';')
		if end < 2 {
			return Type{}, pos, fmt.Errorf("invalid descriptor %q: unterminated class name", desc)
		}
		pos += end + 1
		sort = SortObject
	default:
		s, ok := primitives[c]
		if !ok {
			return Type{}, pos, fmt.Errorf("invalid descriptor %q: unknown type %q", desc, c)
		}
		if s == SortVoid && pos != start {
			return Type{}, pos, fmt.Errorf("invalid descriptor %q: array of void", desc)
		}
		pos++
		sort = s
	}
	if desc[start] == '[' {
		sort = SortArray
	}
	return Type{Sort: sort, Desc: desc[start:pos]}, pos, nil
}

// ParseMethodDescriptor splits a method descriptor into its parameter types
// and return type.
func ParseMethodDescriptor(desc string) ([]Type, Type, error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, Type{}, fmt.Errorf("invalid method descriptor %q", desc)
	}
	var params []Type
	pos := 1
	for pos < len(desc) && desc[pos] != ')' {
		t, next, err := parseType(desc, pos)
		if err != nil {
			return nil, Type{}, err
		}
		if t.Sort == SortVoid {
			return nil, Type{}, fmt.Errorf("invalid method descriptor %q: void parameter", desc)
		}
		params = append(params, t)
		pos = next
	}
	if pos >= len(desc) {
		return nil, Type{}, fmt.Errorf("invalid method descriptor %q: missing ')'", desc)
	}
	ret, err := ParseType(desc[pos+1:])
	if err != nil {
		return nil, Type{}, err
	}
	return params, ret, nil
}

// Size returns the number of local/stack slots a value of this type takes.
func (t Type) Size() int {
	switch t.Sort {
	case SortVoid:
		return 0
	case SortLong, SortDouble:
		return 2
	}
	return 1
}

// IsPrimitive reports whether the type is neither an array nor an object.
func (t Type) IsPrimitive() bool {
	return t.Sort != SortArray && t.Sort != SortObject
}

// InternalName returns the internal name for object types ("java/lang/String")
// and the descriptor itself for arrays and primitives.
func (t Type) InternalName() string {
	if t.Sort == SortObject {
		return t.Desc[1 : len(t.Desc)-1]
	}
	return t.Desc
}

// ClassName returns the dotted, source-level name: "int", "int[]",
// "java.lang.String".
func (t Type) ClassName() string {
	switch t.Sort {
	case SortObject:
		return strings.ReplaceAll(t.InternalName(), "/", ".")
	case SortArray:
		return t.Elem().ClassName() + "[]"
	}
	return t.Sort.String()
}

// Elem returns the component type of an array type.
func (t Type) Elem() Type {
	if t.Sort != SortArray {
		return t
	}
	elem, _ := ParseType(t.Desc[1:])
	return elem
}

// Dimensions returns the array depth of the type.
func (t Type) Dimensions() int {
	n := 0
	for n < len(t.Desc) && t.Desc[n] == '[' {
		n++
	}
	return n
}

func (t Type) String() string {
	return t.Desc
}

// ObjectType returns the descriptor type for an internal class name. Names
// that already look like array descriptors are parsed as such.
func ObjectType(internalName string) Type {
	if strings.HasPrefix(internalName, "[") {
		if t, err := ParseType(internalName); err == nil {
			return t
		}
	}
	return Type{Sort: SortObject, Desc: "L" + internalName + ";"}
}

// DottedName converts an internal name ("a/b/C") to its dotted form.
func DottedName(internalName string) string {
	return strings.ReplaceAll(internalName, "/", ".")
}

// InternalName converts a dotted class name to its internal form.
func InternalName(className string) string {
	return strings.ReplaceAll(className, ".", "/")
}
