package provider

import (
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Capture claims calls to a single member. It hands each call to its
// callback and, unless the callback returns an error, stops the whole
// evaluation with an errz.AbortSignal carrying the callback's result.
//
// This is how a caller extracts an intermediate value, such as the
// decrypted string passed to a sink method, without running the rest of
// the program.
type Capture struct {
	Base
	Owner string
	Name  string
	// Desc may be empty to match every overload.
	Desc string
	Fn   func(vc *vm.Context, call *vm.MethodCall) (any, error)
}

// NewCapture returns a Capture for owner.name with the given descriptor.
// A nil fn captures the call's arguments.
func NewCapture(owner, name, desc string, fn func(vc *vm.Context, call *vm.MethodCall) (any, error)) *Capture {
	if fn == nil {
		fn = func(vc *vm.Context, call *vm.MethodCall) (any, error) {
			return call.Args, nil
		}
	}
	return &Capture{Owner: owner, Name: name, Desc: desc, Fn: fn}
}

func (c *Capture) CanInvokeMethod(vc *vm.Context, call *vm.MethodCall) bool {
	return call.Is(c.Owner, c.Name, c.Desc)
}

func (c *Capture) InvokeMethod(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	v, err := c.Fn(vc, call)
	if err != nil {
		return nil, err
	}
	vc.Logger().Debug().Str("call", call.String()).Msg("captured")
	return nil, errz.Abort(v)
}
