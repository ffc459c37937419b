package bytecode

import (
	"fmt"
	"sort"
)

// Field is a declared field of a class.
type Field struct {
	Name   string
	Desc   string
	Access int
	// Value is the ConstantValue attribute of a static final field, if any.
	Value any
}

// IsStatic reports whether the field belongs to the class rather than to
// instances.
func (f Field) IsStatic() bool {
	return f.Access&AccStatic != 0
}

// Class is an immutable set of methods and fields under one internal name.
type Class struct {
	name       string
	superName  string
	interfaces []string
	access     int
	fields     []Field
	methods    []*Method
}

// ClassParams contains parameters for creating a new Class.
type ClassParams struct {
	Name       string
	SuperName  string
	Interfaces []string
	Access     int
	Fields     []Field
	Methods    []*Method
}

// NewClass creates a new immutable Class. Every method must be owned by the
// class and method keys must be unique.
func NewClass(params ClassParams) (*Class, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("class name is required")
	}
	seen := map[string]bool{}
	for _, m := range params.Methods {
		if m.Owner() != params.Name {
			return nil, fmt.Errorf("method %s does not belong to class %s", m, params.Name)
		}
		if seen[m.Key()] {
			return nil, fmt.Errorf("duplicate method %s", m)
		}
		seen[m.Key()] = true
	}
	methods := make([]*Method, len(params.Methods))
	copy(methods, params.Methods)
	fields := make([]Field, len(params.Fields))
	copy(fields, params.Fields)
	return &Class{
		name:       params.Name,
		superName:  params.SuperName,
		interfaces: copyStrings(params.Interfaces),
		access:     params.Access,
		fields:     fields,
		methods:    methods,
	}, nil
}

// Name returns the internal name of the class.
func (c *Class) Name() string {
	return c.name
}

// SuperName returns the internal name of the superclass, or "" for
// java/lang/Object itself.
func (c *Class) SuperName() string {
	return c.superName
}

// Interfaces returns the internal names of the implemented interfaces.
func (c *Class) Interfaces() []string {
	return copyStrings(c.interfaces)
}

// Access returns the access flags.
func (c *Class) Access() int {
	return c.access
}

// IsInterface reports whether the class is an interface.
func (c *Class) IsInterface() bool {
	return c.access&AccInterface != 0
}

// MethodCount returns the number of declared methods.
func (c *Class) MethodCount() int {
	return len(c.methods)
}

// MethodAt returns the method at the given index.
func (c *Class) MethodAt(index int) *Method {
	return c.methods[index]
}

// Method returns the declared method with the given name and descriptor.
func (c *Class) Method(name, desc string) (*Method, bool) {
	for _, m := range c.methods {
		if m.name == name && m.desc == desc {
			return m, true
		}
	}
	return nil, false
}

// Clinit returns the static initialiser, if the class has one.
func (c *Class) Clinit() (*Method, bool) {
	return c.Method("<clinit>", "()V")
}

// FieldCount returns the number of declared fields.
func (c *Class) FieldCount() int {
	return len(c.fields)
}

// FieldAt returns the field at the given index.
func (c *Class) FieldAt(index int) Field {
	return c.fields[index]
}

// Field returns the declared field with the given name and descriptor.
func (c *Class) Field(name, desc string) (Field, bool) {
	for _, f := range c.fields {
		if f.Name == name && f.Desc == desc {
			return f, true
		}
	}
	return Field{}, false
}

func (c *Class) String() string {
	return c.name
}

// Dictionary resolves internal class names to classes. Implementations must
// be safe to read concurrently.
type Dictionary interface {
	Lookup(name string) (*Class, bool)
}

// ClassMap is a Dictionary backed by a map keyed by internal name.
type ClassMap map[string]*Class

// NewClassMap builds a ClassMap from the given classes. Later classes with a
// duplicate name replace earlier ones.
func NewClassMap(classes ...*Class) ClassMap {
	m := make(ClassMap, len(classes))
	for _, c := range classes {
		m[c.Name()] = c
	}
	return m
}

// Lookup implements Dictionary.
func (m ClassMap) Lookup(name string) (*Class, bool) {
	c, ok := m[name]
	return c, ok
}

// Names returns the class names in sorted order.
func (m ClassMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSubclass reports whether class sub equals super or inherits from it,
// walking superclasses and interfaces known to the dictionary. Classes
// missing from the dictionary end the walk.
func IsSubclass(dict Dictionary, sub, super string) bool {
	if sub == super || super == "java/lang/Object" {
		return true
	}
	if dict == nil {
		return false
	}
	seen := map[string]bool{}
	queue := []string{sub}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if name == super {
			return true
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		c, ok := dict.Lookup(name)
		if !ok {
			continue
		}
		if c.superName != "" {
			queue = append(queue, c.superName)
		}
		queue = append(queue, c.interfaces...)
	}
	return false
}
