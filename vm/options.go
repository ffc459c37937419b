package vm

import (
	"github.com/rs/zerolog"

	"github.com/cloudcmds/unweave/bytecode"
)

const (
	// DefaultMaxDepth is the default bound on nested method evaluation.
	DefaultMaxDepth = 64

	// DefaultMaxSteps is the default bound on instructions executed per
	// request.
	DefaultMaxSteps = 1_000_000

	// DefaultMaxArrayElements is the default bound on array elements
	// allocated per request.
	DefaultMaxArrayElements = 1 << 20

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// Option is a configuration function for a Context.
type Option func(*Context)

// WithMaxDepth bounds the number of nested method frames. Exceeding it is
// an execution error of kind ErrLimit. A value of 0 or less disables the
// bound.
func WithMaxDepth(depth int) Option {
	return func(vc *Context) {
		vc.maxDepth = depth
	}
}

// WithMaxSteps bounds the number of instructions executed over the whole
// request, nested calls included. A value of 0 or less disables the bound.
func WithMaxSteps(steps int) Option {
	return func(vc *Context) {
		vc.maxSteps = steps
	}
}

// WithMaxArrayElements bounds the number of array elements allocated over
// the whole request. The bound is checked before an array is allocated;
// exceeding it is an execution error of kind ErrLimit. A value of 0 or less
// disables the bound.
func WithMaxArrayElements(n int) Option {
	return func(vc *Context) {
		vc.maxArrayElements = n
	}
}

// WithContextCheckInterval sets how often the interpreter checks ctx.Done()
// during execution, in instructions. A value of 0 disables the check.
func WithContextCheckInterval(interval int) Option {
	return func(vc *Context) {
		vc.contextCheckInterval = interval
	}
}

// WithLogger sets the logger used for the request. The request id is added
// to it as the "request" field.
func WithLogger(logger zerolog.Logger) Option {
	return func(vc *Context) {
		vc.logger = logger
	}
}

// WithObserver sets an observer for execution events.
//
// Observer methods are called synchronously during execution. Returning
// false from any observer method halts execution with an error.
func WithObserver(observer Observer) Option {
	return func(vc *Context) {
		vc.observer = observer
	}
}

// WithInitialized marks classes whose static initializer must never run.
func WithInitialized(classes ...string) Option {
	return func(vc *Context) {
		for _, c := range classes {
			vc.initialized.Add(c)
		}
	}
}

// WithDictionary sets the classes available for symbolic resolution.
func WithDictionary(dict bytecode.Dictionary) Option {
	return func(vc *Context) {
		if dict != nil {
			vc.dict = dict
		}
	}
}
