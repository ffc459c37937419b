package provider

import (
	"fmt"

	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// hostThrowables are the exception classes the JVM provider can construct,
// with their superclass.
var hostThrowables = map[string]string{
	"java/lang/Throwable":                       "java/lang/Object",
	"java/lang/Exception":                       "java/lang/Throwable",
	"java/lang/Error":                           "java/lang/Throwable",
	"java/lang/RuntimeException":                "java/lang/Exception",
	"java/lang/IllegalArgumentException":        "java/lang/RuntimeException",
	"java/lang/IllegalStateException":           "java/lang/RuntimeException",
	"java/lang/NumberFormatException":           "java/lang/IllegalArgumentException",
	"java/lang/NullPointerException":            "java/lang/RuntimeException",
	"java/lang/ArithmeticException":             "java/lang/RuntimeException",
	"java/lang/ClassCastException":              "java/lang/RuntimeException",
	"java/lang/ArrayStoreException":             "java/lang/RuntimeException",
	"java/lang/UnsupportedOperationException":   "java/lang/RuntimeException",
	"java/lang/IndexOutOfBoundsException":       "java/lang/RuntimeException",
	"java/lang/ArrayIndexOutOfBoundsException":  "java/lang/IndexOutOfBoundsException",
	"java/lang/StringIndexOutOfBoundsException": "java/lang/IndexOutOfBoundsException",
}

func init() {
	for class, super := range hostThrowables {
		hostSupers[class] = []string{super}
	}
	hostSupers["java/lang/Throwable"] = []string{"java/io/Serializable"}
}

// throwable is the Native state of a host exception instance. The stack
// trace is taken when the instance is constructed.
type throwable struct {
	message    object.Text
	hasMessage bool
	trace      []errz.StackFrame
}

func newThrowable(vc *vm.Context, message object.Text, hasMessage bool) *throwable {
	return &throwable{message: message, hasMessage: hasMessage, trace: vc.StackTrace()}
}

func formatMessage(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func throwableOf(vc *vm.Context, v object.Value) (*throwable, error) {
	in, ok := instance(v)
	if !ok {
		return nil, fault(vc, "%s is not an exception", v.Inspect())
	}
	t, ok := in.Native.(*throwable)
	if !ok {
		// raised by the interpreter, or constructed by a dictionary
		// subclass that never reached a host constructor
		t = &throwable{}
		if msg, ok := in.Field("detailMessage"); ok {
			if text, err := object.AsText(msg); err == nil {
				t.message, t.hasMessage = text, true
			}
		}
		in.Native = t
	}
	return t, nil
}

func instance(v object.Value) (*object.Instance, bool) {
	o, ok := v.(*object.Object)
	if !ok {
		return nil, false
	}
	return o.Instance()
}

// stackTrace turns frames into a java/lang/StackTraceElement array.
func stackTrace(frames []errz.StackFrame) *object.Array {
	elems := make([]object.Value, len(frames))
	for i, f := range frames {
		elems[i] = object.NewObject("java/lang/StackTraceElement", f)
	}
	return object.NewArray("[Ljava/lang/StackTraceElement;", elems)
}

func stackElementOf(vc *vm.Context, v object.Value) (errz.StackFrame, error) {
	if o, ok := v.(*object.Object); ok {
		if f, ok := o.Ref().(errz.StackFrame); ok {
			return f, nil
		}
	}
	return errz.StackFrame{}, fault(vc, "%s is not a stack trace element", v.Inspect())
}

func throwableMethods() map[string]Builtin {
	methods := map[string]Builtin{}
	for class := range hostThrowables {
		methods[memberKey(class, "<init>", "()V")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			in, ok := instance(call.Receiver)
			if !ok {
				return nil, fault(vc, "%s is not an exception", call.Receiver.Inspect())
			}
			in.Native = newThrowable(vc, nil, false)
			return nil, nil
		}
		methods[memberKey(class, "<init>", "(Ljava/lang/String;)V")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			in, ok := instance(call.Receiver)
			if !ok {
				return nil, fault(vc, "%s is not an exception", call.Receiver.Inspect())
			}
			if object.IsNull(call.Args[0]) {
				in.Native = newThrowable(vc, nil, false)
				return nil, nil
			}
			msg, err := object.AsText(call.Args[0])
			if err != nil {
				return nil, err
			}
			in.Native = newThrowable(vc, msg, true)
			return nil, nil
		}
		methods[memberKey(class, "getMessage", "()Ljava/lang/String;")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			t, err := throwableOf(vc, call.Receiver)
			if err != nil {
				return nil, err
			}
			if !t.hasMessage {
				return object.NewNull(), nil
			}
			return object.NewText(t.message), nil
		}
		methods[memberKey(class, "getStackTrace", "()[Ljava/lang/StackTraceElement;")] = func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			t, err := throwableOf(vc, call.Receiver)
			if err != nil {
				return nil, err
			}
			return stackTrace(t.trace), nil
		}
	}
	return methods
}
