package vm

import (
	"context"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
)

// Evaluate runs a static method of class in a new Context and returns its
// result. Arguments follow the coercion rules of Invoke. Pass
// WithDictionary to make other classes resolvable.
//
// An error is either an *errz.ExecutionError or, when a provider stopped
// the evaluation early on purpose, an *errz.AbortSignal.
func Evaluate(
	ctx context.Context,
	class *bytecode.Class,
	method *bytecode.Method,
	args []any,
	provider Provider,
	options ...Option,
) (object.Value, error) {
	vc := NewContext(provider, options...)
	vc.ctx = ctx
	return Run(vc, class, method, nil, args...)
}

// Run executes method on an existing Context. Raw arguments are coerced as
// by Invoke; a nil receiver is required for static methods.
func Run(vc *Context, class *bytecode.Class, method *bytecode.Method, receiver any, args ...any) (object.Value, error) {
	params := method.ParamTypes()
	if len(args) != len(params) {
		return nil, vc.fail(errz.ErrFault, "%s takes %d arguments (%d given)", method, len(params), len(args))
	}
	values := make([]object.Value, len(args))
	for i, raw := range args {
		values[i] = coerce(params[i], raw)
	}
	var recv object.Value
	if receiver != nil {
		recv = object.ValueOf(receiver)
	}
	result, err := Execute(vc, class, method, recv, values)
	if err != nil {
		vc.logger.Debug().Err(err).Str("method", method.Key()).Msg("evaluation failed")
		return nil, err
	}
	return result, nil
}
