package provider

import (
	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Bytecode runs methods found in the context's dictionary with the
// interpreter, in the same context. Virtual and interface calls on an
// interpreter instance are resolved from the instance's class first.
// Invokedynamic call sites are not claimed.
type Bytecode struct {
	Base
	// Skip lists owners that are never run even when present in the
	// dictionary.
	Skip []string
}

// NewBytecode returns a provider that runs dictionary methods.
func NewBytecode(skip ...string) *Bytecode {
	return &Bytecode{Skip: skip}
}

func (p *Bytecode) resolve(vc *vm.Context, call *vm.MethodCall) (*bytecode.Class, *bytecode.Method, bool) {
	if call.Site != nil {
		// bootstrap methods expect a lookup object the interpreter cannot make
		return nil, nil, false
	}
	owner := call.Owner
	if call.Dispatch == object.InvokeVirtual || call.Dispatch == object.InvokeInterface {
		if o, ok := call.Receiver.(*object.Object); ok {
			if in, ok := o.Instance(); ok {
				owner = in.Class
			}
		}
	}
	m, ok := bytecode.FindMethod(vc.Dictionary(), owner, call.Name, call.Desc)
	if !ok && owner != call.Owner {
		m, ok = bytecode.FindMethod(vc.Dictionary(), call.Owner, call.Name, call.Desc)
	}
	if !ok || m.Access()&bytecode.AccAbstract != 0 || m.InstructionCount() == 0 {
		return nil, nil, false
	}
	for _, skip := range p.Skip {
		if m.Owner() == skip {
			return nil, nil, false
		}
	}
	class, ok := vc.Dictionary().Lookup(m.Owner())
	return class, m, ok
}

func (p *Bytecode) CanInvokeMethod(vc *vm.Context, call *vm.MethodCall) bool {
	_, _, ok := p.resolve(vc, call)
	return ok
}

func (p *Bytecode) InvokeMethod(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	class, m, ok := p.resolve(vc, call)
	if !ok {
		return nil, unsupported(vc, "invoke %s", call)
	}
	var receiver object.Value
	if !m.IsStatic() {
		receiver = call.Receiver
	}
	return vm.Execute(vc, class, m, receiver, call.Args)
}
