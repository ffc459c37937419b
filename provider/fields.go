package provider

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Fields stores static fields in memory and instance fields on the
// interpreter's instances. A static field that was never written reads as
// the constant value declared in the dictionary, or else as the zero value
// of its descriptor.
type Fields struct {
	Base
	mu      sync.Mutex
	classes mapset.Set[string]
	statics map[string]object.Value
}

// NewFields returns a field store. With no classes it claims the static
// fields of every class; otherwise only those of the named classes.
// Instance fields are always claimed when the receiver is an interpreter
// instance.
func NewFields(classes ...string) *Fields {
	return &Fields{
		classes: mapset.NewSet[string](classes...),
		statics: map[string]object.Value{},
	}
}

func staticKey(f vm.FieldRef) string {
	return f.Owner + "." + f.Name
}

func (p *Fields) claims(f vm.FieldRef) bool {
	if f.IsStatic() {
		return p.classes.Cardinality() == 0 || p.classes.Contains(f.Owner)
	}
	o, ok := f.Receiver.(*object.Object)
	if !ok {
		return false
	}
	if o.IsNull() {
		return true
	}
	_, ok = o.Instance()
	return ok
}

func (p *Fields) CanGetField(vc *vm.Context, f vm.FieldRef) bool { return p.claims(f) }

func (p *Fields) CanSetField(vc *vm.Context, f vm.FieldRef, v object.Value) bool {
	return p.claims(f)
}

func (p *Fields) GetField(vc *vm.Context, f vm.FieldRef) (object.Value, error) {
	typ, err := bytecode.ParseType(f.Desc)
	if err != nil {
		return nil, fault(vc, "get %s", f).WithCause(err)
	}
	if !f.IsStatic() {
		in, err := instanceOf(vc, f)
		if err != nil {
			return nil, err
		}
		if v, ok := in.Field(f.Name); ok {
			return v, nil
		}
		return object.Zero(typ), nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.statics[staticKey(f)]; ok {
		return v, nil
	}
	v := initialValue(vc.Dictionary(), f, typ)
	p.statics[staticKey(f)] = v
	return v, nil
}

func (p *Fields) SetField(vc *vm.Context, f vm.FieldRef, v object.Value) error {
	if !f.IsStatic() {
		in, err := instanceOf(vc, f)
		if err != nil {
			return err
		}
		in.SetField(f.Name, v)
		return nil
	}
	p.mu.Lock()
	p.statics[staticKey(f)] = v
	p.mu.Unlock()
	return nil
}

// Static returns the stored value of a static field, if it was read or
// written.
func (p *Fields) Static(owner, name string) (object.Value, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.statics[owner+"."+name]
	return v, ok
}

// Reset forgets every stored static value.
func (p *Fields) Reset() {
	p.mu.Lock()
	p.statics = map[string]object.Value{}
	p.mu.Unlock()
}

func instanceOf(vc *vm.Context, f vm.FieldRef) (*object.Instance, error) {
	o, _ := f.Receiver.(*object.Object)
	if o == nil || o.IsNull() {
		return nil, fault(vc, "null receiver for %s", f)
	}
	in, _ := o.Instance()
	return in, nil
}

// initialValue resolves the declared constant of a static field, looking
// through the superclass chain as field resolution does.
func initialValue(dict bytecode.Dictionary, f vm.FieldRef, typ bytecode.Type) object.Value {
	seen := map[string]bool{}
	for owner := f.Owner; owner != "" && !seen[owner]; {
		seen[owner] = true
		c, ok := dict.Lookup(owner)
		if !ok {
			break
		}
		if field, ok := c.Field(f.Name, f.Desc); ok {
			if field.Value == nil {
				break
			}
			return constantValue(typ, field.Value)
		}
		owner = c.SuperName()
	}
	return object.Zero(typ)
}

func constantValue(typ bytecode.Type, raw any) object.Value {
	if x, ok := raw.(int32); ok && typ.Sort >= bytecode.SortBoolean && typ.Sort <= bytecode.SortInt {
		return object.FromInt(typ.ClassName(), x)
	}
	if v, ok := object.Box(typ.ClassName(), raw); ok {
		return v
	}
	return object.ValueOf(raw)
}
