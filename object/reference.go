package object

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/cloudcmds/unweave/bytecode"
)

// Well-known class names.
const (
	ClassObject    = "java/lang/Object"
	ClassString    = "java/lang/String"
	ClassClass     = "java/lang/Class"
	ClassThrowable = "java/lang/Throwable"
)

// Instance is an object created by the interpreter with the new opcode. Its
// pointer is its identity.
type Instance struct {
	Class  string
	Fields map[string]Value
	// Native is host state a provider attached when it constructed the
	// instance, such as the Text of a java/lang/String built from a char
	// array.
	Native any

	id uint64
}

var instanceIDs atomic.Uint64

// NewInstance allocates an instance of the given class with no fields set.
func NewInstance(class string) *Instance {
	return &Instance{Class: class, Fields: map[string]Value{}, id: instanceIDs.Add(1)}
}

// Field returns the value stored under name.
func (in *Instance) Field(name string) (Value, bool) {
	v, ok := in.Fields[name]
	return v, ok
}

// SetField stores a value under name.
func (in *Instance) SetField(name string, v Value) {
	in.Fields[name] = v
}

// Object is a reference to an object, or null. The referent is an *Instance,
// a Text, or any other host value a provider chose to hand back.
type Object struct {
	base
	class string
	ref   any
}

// NewNull returns a null reference.
func NewNull() *Object {
	return &Object{}
}

// NewObject returns a reference to ref, typed as the given internal class
// name.
func NewObject(class string, ref any) *Object {
	if ref == nil {
		return NewNull()
	}
	return &Object{class: class, ref: ref}
}

// NewString returns a reference to a string with the content of s.
func NewString(s string) *Object {
	return &Object{class: ClassString, ref: TextOf(s)}
}

// NewText returns a reference to a string holding a copy of t.
func NewText(t Text) *Object {
	return &Object{class: ClassString, ref: append(Text{}, t...)}
}

// NewInstanceRef allocates a new instance and returns a reference to it.
func NewInstanceRef(class string) *Object {
	return &Object{class: class, ref: NewInstance(class)}
}

func (o *Object) Type() Type { return OBJECT }

// IsNull reports whether the reference is null.
func (o *Object) IsNull() bool { return o.ref == nil }

// Class returns the internal name of the referent's class, or "" for null.
func (o *Object) Class() string { return o.class }

// Ref returns the referent.
func (o *Object) Ref() any { return o.ref }

// Instance returns the referent as an interpreter instance.
func (o *Object) Instance() (*Instance, bool) {
	in, ok := o.ref.(*Instance)
	return in, ok
}

// Text returns the units of a string referent. Instances whose Native
// state is a Text count as strings. The result must not be modified.
func (o *Object) Text() (Text, bool) {
	switch ref := o.ref.(type) {
	case Text:
		return ref, true
	case *Instance:
		t, ok := ref.Native.(Text)
		return t, ok
	}
	return nil, false
}

// Str returns a string referent decoded to a host string.
func (o *Object) Str() (string, bool) {
	t, ok := o.Text()
	if !ok {
		return "", false
	}
	return t.String(), true
}

func (o *Object) Interface() any {
	if t, ok := o.ref.(Text); ok {
		return t.String()
	}
	return o.ref
}

func (o *Object) Copy() Value { return &Object{class: o.class, ref: o.ref} }

func (o *Object) Inspect() string {
	switch ref := o.ref.(type) {
	case nil:
		return "null"
	case Text:
		return ref.Quote()
	case *Instance:
		return fmt.Sprintf("%s@%d", bytecode.DottedName(ref.Class), ref.id)
	}
	return fmt.Sprintf("%s(%v)", bytecode.DottedName(o.class), o.ref)
}

func (o *Object) String() string {
	if s, ok := o.Str(); ok {
		return s
	}
	return o.Inspect()
}

// Equals reports reference identity. Strings compare by content, as if
// interned.
func (o *Object) Equals(other Value) bool {
	x, ok := other.(*Object)
	if !ok {
		return false
	}
	return SameRef(o.ref, x.ref)
}

// SameRef reports whether two referents are the same object.
func SameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(Text); ok {
		tb, ok := b.(Text)
		return ok && ta.Equal(tb)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if ta.Comparable() {
		return a == b
	}
	return false
}

// ArrayData is the shared storage behind array references.
type ArrayData struct {
	Desc  string
	Elems []Value
}

// Array is a reference to array storage.
type Array struct {
	base
	data *ArrayData
}

// NewArray returns a reference to new storage holding elems. desc is the
// array descriptor, e.g. "[I".
func NewArray(desc string, elems []Value) *Array {
	return &Array{data: &ArrayData{Desc: desc, Elems: elems}}
}

// NewArrayOf allocates an array of length n filled with the zero value of
// the element type. Callers bound n.
func NewArrayOf(elem bytecode.Type, n int) *Array {
	elems := make([]Value, n)
	zero := Zero(elem)
	for i := range elems {
		elems[i] = zero
	}
	return NewArray("["+elem.Desc, elems)
}

func (a *Array) Type() Type { return ARRAY }

// Data returns the shared storage.
func (a *Array) Data() *ArrayData { return a.data }

// Desc returns the array descriptor.
func (a *Array) Desc() string { return a.data.Desc }

// ElemType returns the component type.
func (a *Array) ElemType() bytecode.Type {
	t, err := bytecode.ParseType(a.data.Desc)
	if err != nil {
		return bytecode.ObjectType(ClassObject)
	}
	return t.Elem()
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.data.Elems) }

// Get returns the element at index i.
func (a *Array) Get(i int) (Value, error) {
	if i < 0 || i >= len(a.data.Elems) {
		return nil, fmt.Errorf("array index %d out of bounds for length %d", i, len(a.data.Elems))
	}
	return a.data.Elems[i], nil
}

// Set stores v at index i.
func (a *Array) Set(i int, v Value) error {
	if i < 0 || i >= len(a.data.Elems) {
		return fmt.Errorf("array index %d out of bounds for length %d", i, len(a.data.Elems))
	}
	a.data.Elems[i] = v
	return nil
}

func (a *Array) Interface() any {
	out := make([]any, len(a.data.Elems))
	for i, e := range a.data.Elems {
		out[i] = e.Interface()
	}
	return out
}

func (a *Array) Copy() Value { return &Array{data: a.data} }

func (a *Array) Inspect() string {
	parts := make([]string, len(a.data.Elems))
	for i, e := range a.data.Elems {
		parts[i] = e.Inspect()
	}
	return fmt.Sprintf("%s{%s}", a.data.Desc, strings.Join(parts, ", "))
}

func (a *Array) String() string { return a.Inspect() }

// Equals reports whether both references share storage.
func (a *Array) Equals(other Value) bool {
	x, ok := other.(*Array)
	return ok && x.data == a.data
}

var (
	zeroByte   = NewByte(0)
	zeroChar   = NewChar(0)
	zeroShort  = NewShort(0)
	zeroInt    = NewInt(0)
	zeroLong   = NewLong(0)
	zeroFloat  = NewFloat(0)
	zeroDouble = NewDouble(0)
	null       = NewNull()
)

// Zero returns the default value for a field or array element of type t.
// Values are immutable, so the same zero is returned on every call.
func Zero(t bytecode.Type) Value {
	switch t.Sort {
	case bytecode.SortBoolean:
		return False
	case bytecode.SortByte:
		return zeroByte
	case bytecode.SortChar:
		return zeroChar
	case bytecode.SortShort:
		return zeroShort
	case bytecode.SortInt:
		return zeroInt
	case bytecode.SortLong:
		return zeroLong
	case bytecode.SortFloat:
		return zeroFloat
	case bytecode.SortDouble:
		return zeroDouble
	}
	return null
}
