package provider

import (
	"strings"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// hostSupers lists the supertypes of the runtime classes the interpreter
// and the JVM provider create, which are never in a dictionary.
var hostSupers = map[string][]string{
	"java/lang/String":        {"java/lang/CharSequence", "java/lang/Comparable", "java/io/Serializable"},
	"java/lang/StringBuilder": {"java/lang/CharSequence", "java/lang/Appendable", "java/io/Serializable"},
	"java/lang/StringBuffer":  {"java/lang/CharSequence", "java/lang/Appendable", "java/io/Serializable"},
	"java/lang/Integer":       {"java/lang/Number", "java/lang/Comparable"},
	"java/lang/Long":          {"java/lang/Number", "java/lang/Comparable"},
	"java/lang/Short":         {"java/lang/Number", "java/lang/Comparable"},
	"java/lang/Byte":          {"java/lang/Number", "java/lang/Comparable"},
	"java/lang/Float":         {"java/lang/Number", "java/lang/Comparable"},
	"java/lang/Double":        {"java/lang/Number", "java/lang/Comparable"},
	"java/lang/Character":     {"java/lang/Comparable", "java/io/Serializable"},
	"java/lang/Boolean":       {"java/lang/Comparable", "java/io/Serializable"},
	"java/lang/Number":        {"java/io/Serializable"},
}

// Comparison answers equality by reference identity, and primitive
// equality for primitives. Type checks use the dictionary's class
// hierarchy, a small table of host runtime classes and the array
// assignability rules.
type Comparison struct {
	Base
}

// NewComparison returns the baseline comparison provider.
func NewComparison() *Comparison {
	return &Comparison{}
}

func (p *Comparison) CanCheckEquality(vc *vm.Context, a, b object.Value) bool { return true }

func (p *Comparison) CheckEquality(vc *vm.Context, a, b object.Value) (bool, error) {
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}
	return a.Equals(b), nil
}

func (p *Comparison) CanCheckInstanceOf(vc *vm.Context, v object.Value, typ string) bool {
	return object.IsReference(v)
}

func (p *Comparison) CheckInstanceOf(vc *vm.Context, v object.Value, typ string) (bool, error) {
	if object.IsNull(v) {
		return false, nil
	}
	return p.assignable(vc.Dictionary(), runtimeType(v), typ), nil
}

func (p *Comparison) CanCheckcast(vc *vm.Context, v object.Value, typ string) bool {
	return object.IsReference(v)
}

func (p *Comparison) Checkcast(vc *vm.Context, v object.Value, typ string) (bool, error) {
	if object.IsNull(v) {
		return true, nil
	}
	return p.assignable(vc.Dictionary(), runtimeType(v), typ), nil
}

// runtimeType returns the internal name or array descriptor of a non-null
// reference.
func runtimeType(v object.Value) string {
	if a, ok := v.(*object.Array); ok {
		return a.Desc()
	}
	return v.(*object.Object).Class()
}

// assignable reports whether a value of runtime type from can be stored in
// a variable of type to. Both are internal names or array descriptors.
func (p *Comparison) assignable(dict bytecode.Dictionary, from, to string) bool {
	if from == to || to == object.ClassObject {
		return true
	}
	fromArray := strings.HasPrefix(from, "[")
	toArray := strings.HasPrefix(to, "[")
	switch {
	case fromArray && toArray:
		fe, te := from[1:], to[1:]
		if len(fe) == 1 || len(te) == 1 {
			// primitive element types must match exactly
			return fe == te
		}
		return p.assignable(dict, elemName(fe), elemName(te))
	case fromArray:
		return to == "java/lang/Cloneable" || to == "java/io/Serializable"
	case toArray:
		return false
	}
	if bytecode.IsSubclass(dict, from, to) {
		return true
	}
	return p.hostSubclass(dict, from, to, map[string]bool{})
}

func (p *Comparison) hostSubclass(dict bytecode.Dictionary, from, to string, seen map[string]bool) bool {
	if from == to {
		return true
	}
	if seen[from] {
		return false
	}
	seen[from] = true
	supers := hostSupers[from]
	if c, ok := dict.Lookup(from); ok {
		supers = append([]string{c.SuperName()}, c.Interfaces()...)
	}
	for _, s := range supers {
		if s != "" && p.hostSubclass(dict, s, to, seen) {
			return true
		}
	}
	return false
}

// elemName turns an array element descriptor into the form assignable
// expects: nested arrays stay descriptors, classes become internal names.
func elemName(desc string) string {
	if strings.HasPrefix(desc, "L") && strings.HasSuffix(desc, ";") {
		return desc[1 : len(desc)-1]
	}
	return desc
}
