// Package object provides the closed set of values visible to the
// interpreter.
//
// Callers usually type switch on the Value interface to get at a specific
// variant:
//
//	switch v := v.(type) {
//	case *object.Int:
//		// do something with v.Value()
//	case *object.Object:
//		// do something with v.Ref()
//	}
//
// The Type() method of each value may also be used to get a string name of
// the variant, such as "int" or "array".
//
// Values are copyable descriptors. Copy duplicates the wrapper; reference
// variants (objects and arrays) keep pointing at the same underlying data.
package object

// Type of a value as a string.
type Type string

// Type constants
const (
	BOOLEAN       Type = "boolean"
	BYTE          Type = "byte"
	CHAR          Type = "char"
	SHORT         Type = "short"
	INT           Type = "int"
	LONG          Type = "long"
	FLOAT         Type = "float"
	DOUBLE        Type = "double"
	OBJECT        Type = "object"
	ARRAY         Type = "array"
	ADDRESS       Type = "address"
	METHOD_HANDLE Type = "method_handle"
)

// Value is the interface implemented by every interpreter value. The set of
// implementations is closed to this package.
type Value interface {
	// Type of the value.
	Type() Type

	// Inspect returns a string representation of the value.
	Inspect() string

	// Interface converts the value to a native Go value.
	Interface() any

	// Equals reports whether other is the same kind of value with the same
	// content. References compare by identity.
	Equals(other Value) bool

	// Copy duplicates the wrapper. Reference identity is preserved.
	Copy() Value

	sealed()
}

type base struct{}

func (base) sealed() {}

// IsWide reports whether the value takes two slots in the operand stack and
// the local variable table.
func IsWide(v Value) bool {
	switch v.(type) {
	case *Long, *Double:
		return true
	}
	return false
}
