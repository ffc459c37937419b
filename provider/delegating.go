package provider

import (
	"fmt"

	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Delegating forwards every request to the first provider, in registration
// order, that claims it. A request nobody claims fails with an
// unsupported operation error.
type Delegating struct {
	providers []vm.Provider
}

// NewDelegating returns a chain over the given providers.
func NewDelegating(providers ...vm.Provider) *Delegating {
	d := &Delegating{}
	return d.Register(providers...)
}

// Register appends providers to the end of the chain.
func (d *Delegating) Register(providers ...vm.Provider) *Delegating {
	for _, p := range providers {
		if p != nil {
			d.providers = append(d.providers, p)
		}
	}
	return d
}

// Prepend inserts providers at the front of the chain, ahead of every
// provider already registered.
func (d *Delegating) Prepend(providers ...vm.Provider) *Delegating {
	front := make([]vm.Provider, 0, len(providers)+len(d.providers))
	for _, p := range providers {
		if p != nil {
			front = append(front, p)
		}
	}
	d.providers = append(front, d.providers...)
	return d
}

// Providers returns the chain in order.
func (d *Delegating) Providers() []vm.Provider {
	out := make([]vm.Provider, len(d.providers))
	copy(out, d.providers)
	return out
}

func (d *Delegating) find(vc *vm.Context, claims func(vm.Provider) bool) (vm.Provider, bool) {
	for _, p := range d.providers {
		if claims(p) {
			vc.Logger().Trace().Str("provider", fmt.Sprintf("%T", p)).Msg("claimed")
			return p, true
		}
	}
	return nil, false
}

func (d *Delegating) CanInvokeMethod(vc *vm.Context, call *vm.MethodCall) bool {
	_, ok := d.find(vc, func(p vm.Provider) bool { return p.CanInvokeMethod(vc, call) })
	return ok
}

func (d *Delegating) InvokeMethod(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	p, ok := d.find(vc, func(p vm.Provider) bool { return p.CanInvokeMethod(vc, call) })
	if !ok {
		return nil, unsupported(vc, "invoke %s", call)
	}
	return p.InvokeMethod(vc, call)
}

func (d *Delegating) CanGetField(vc *vm.Context, f vm.FieldRef) bool {
	_, ok := d.find(vc, func(p vm.Provider) bool { return p.CanGetField(vc, f) })
	return ok
}

func (d *Delegating) GetField(vc *vm.Context, f vm.FieldRef) (object.Value, error) {
	p, ok := d.find(vc, func(p vm.Provider) bool { return p.CanGetField(vc, f) })
	if !ok {
		return nil, unsupported(vc, "get %s", f)
	}
	return p.GetField(vc, f)
}

func (d *Delegating) CanSetField(vc *vm.Context, f vm.FieldRef, v object.Value) bool {
	_, ok := d.find(vc, func(p vm.Provider) bool { return p.CanSetField(vc, f, v) })
	return ok
}

func (d *Delegating) SetField(vc *vm.Context, f vm.FieldRef, v object.Value) error {
	p, ok := d.find(vc, func(p vm.Provider) bool { return p.CanSetField(vc, f, v) })
	if !ok {
		return unsupported(vc, "set %s", f)
	}
	return p.SetField(vc, f, v)
}

func (d *Delegating) CanCheckEquality(vc *vm.Context, a, b object.Value) bool {
	_, ok := d.find(vc, func(p vm.Provider) bool { return p.CanCheckEquality(vc, a, b) })
	return ok
}

func (d *Delegating) CheckEquality(vc *vm.Context, a, b object.Value) (bool, error) {
	p, ok := d.find(vc, func(p vm.Provider) bool { return p.CanCheckEquality(vc, a, b) })
	if !ok {
		return false, unsupported(vc, "compare %s and %s", a.Inspect(), b.Inspect())
	}
	return p.CheckEquality(vc, a, b)
}

func (d *Delegating) CanCheckInstanceOf(vc *vm.Context, v object.Value, typ string) bool {
	_, ok := d.find(vc, func(p vm.Provider) bool { return p.CanCheckInstanceOf(vc, v, typ) })
	return ok
}

func (d *Delegating) CheckInstanceOf(vc *vm.Context, v object.Value, typ string) (bool, error) {
	p, ok := d.find(vc, func(p vm.Provider) bool { return p.CanCheckInstanceOf(vc, v, typ) })
	if !ok {
		return false, unsupported(vc, "instanceof %s", typ)
	}
	return p.CheckInstanceOf(vc, v, typ)
}

func (d *Delegating) CanCheckcast(vc *vm.Context, v object.Value, typ string) bool {
	_, ok := d.find(vc, func(p vm.Provider) bool { return p.CanCheckcast(vc, v, typ) })
	return ok
}

func (d *Delegating) Checkcast(vc *vm.Context, v object.Value, typ string) (bool, error) {
	p, ok := d.find(vc, func(p vm.Provider) bool { return p.CanCheckcast(vc, v, typ) })
	if !ok {
		return false, unsupported(vc, "checkcast %s", typ)
	}
	return p.Checkcast(vc, v, typ)
}

var _ vm.Provider = (*Delegating)(nil)
