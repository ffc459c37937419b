package vm

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
)

// Context is the bookkeeping for one evaluation request: the call stack,
// the classes whose static initializer already ran, and the provider and
// class dictionary used to resolve operations. A Context must not be shared
// between goroutines; independent requests use independent contexts.
type Context struct {
	id          uuid.UUID
	frames      []errz.StackFrame // innermost first
	initialized mapset.Set[string]
	provider    Provider
	dict        bytecode.Dictionary
	logger      zerolog.Logger
	loaded      map[*bytecode.Method]*code

	ctx                  context.Context
	maxDepth             int
	maxSteps             int
	steps                int
	maxArrayElements     int
	arrayElements        int64
	contextCheckInterval int
	observer             Observer
}

// NewContext creates a Context bound to the given provider. Without
// WithDictionary no classes are loaded.
func NewContext(provider Provider, options ...Option) *Context {
	vc := &Context{
		id:                   uuid.Must(uuid.NewV4()),
		initialized:          mapset.NewThreadUnsafeSet[string](),
		provider:             provider,
		dict:                 bytecode.ClassMap{},
		logger:               zerolog.Nop(),
		loaded:               map[*bytecode.Method]*code{},
		ctx:                  context.Background(),
		maxDepth:             DefaultMaxDepth,
		maxSteps:             DefaultMaxSteps,
		maxArrayElements:     DefaultMaxArrayElements,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vc)
	}
	vc.logger = vc.logger.With().Str("request", vc.id.String()).Logger()
	return vc
}

// ID returns the request identifier, which is also attached to every log
// entry written through Logger.
func (vc *Context) ID() string {
	return vc.id.String()
}

// Logger returns the request scoped logger.
func (vc *Context) Logger() *zerolog.Logger {
	return &vc.logger
}

// Provider returns the provider chain.
func (vc *Context) Provider() Provider {
	return vc.provider
}

// Dictionary returns the loaded classes.
func (vc *Context) Dictionary() bytecode.Dictionary {
	return vc.dict
}

// Push adds a new innermost frame. Class names may be given in internal
// form; they are stored dotted.
func (vc *Context) Push(class, method string, size int) {
	frame := errz.StackFrame{Class: bytecode.DottedName(class), Method: method, Line: size}
	vc.frames = append([]errz.StackFrame{frame}, vc.frames...)
}

// Pop removes and returns the innermost frame.
func (vc *Context) Pop() (errz.StackFrame, bool) {
	if len(vc.frames) == 0 {
		return errz.StackFrame{}, false
	}
	frame := vc.frames[0]
	vc.frames = vc.frames[1:]
	return frame, true
}

// At returns the frame at position i, 0 being the innermost.
func (vc *Context) At(i int) errz.StackFrame {
	return vc.frames[i]
}

// Size returns the number of live frames.
func (vc *Context) Size() int {
	return len(vc.frames)
}

// StackTrace returns the live frames, innermost first, without the internal
// size metric.
func (vc *Context) StackTrace() []errz.StackFrame {
	trace := make([]errz.StackFrame, len(vc.frames))
	for i, f := range vc.frames {
		trace[i] = errz.StackFrame{Class: f.Class, Method: f.Method, Line: -1}
	}
	return trace
}

// IsInitialized reports whether the static initializer of class has run.
func (vc *Context) IsInitialized(class string) bool {
	return vc.initialized.Contains(class)
}

// MarkInitialized records that the static initializer of class has run, or
// must not run.
func (vc *Context) MarkInitialized(class string) {
	vc.initialized.Add(class)
}

// Steps returns the number of instructions executed so far.
func (vc *Context) Steps() int {
	return vc.steps
}

// reserve accounts for n array elements about to be allocated.
func (vc *Context) reserve(n int64) error {
	if vc.maxArrayElements <= 0 {
		return nil
	}
	if n > int64(vc.maxArrayElements)-vc.arrayElements {
		return vc.fail(errz.ErrLimit, "maximum of %d array elements exceeded", vc.maxArrayElements)
	}
	vc.arrayElements += n
	return nil
}

func (vc *Context) fail(kind errz.ErrorKind, format string, args ...any) *errz.ExecutionError {
	return errz.ExecutionErrorf(kind, vc.StackTrace(), format, args...)
}
