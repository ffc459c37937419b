package provider

import (
	"sort"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// Builtin implements one host runtime method.
type Builtin func(vc *vm.Context, call *vm.MethodCall) (object.Value, error)

// JVM is an allow-list of host runtime methods the interpreter may call:
// strings and string builders, the boxing types, Math, Object, System,
// Thread and Throwable. Stack traces are synthesized from the context.
type JVM struct {
	Base
	methods map[string]Builtin
}

// NewJVM returns the baseline host runtime provider.
func NewJVM() *JVM {
	p := &JVM{methods: map[string]Builtin{}}
	for _, group := range []map[string]Builtin{
		langMethods(),
		stringMethods(),
		builderMethods(),
		boxMethods(),
		mathMethods(),
		throwableMethods(),
	} {
		for key, fn := range group {
			p.methods[key] = fn
		}
	}
	return p
}

func memberKey(owner, name, desc string) string {
	return owner + "." + name + desc
}

// Register adds or replaces the implementation of owner.name desc.
func (p *JVM) Register(owner, name, desc string, fn Builtin) *JVM {
	p.methods[memberKey(owner, name, desc)] = fn
	return p
}

// Supports reports whether owner.name desc is on the allow-list.
func (p *JVM) Supports(owner, name, desc string) bool {
	_, ok := p.methods[memberKey(owner, name, desc)]
	return ok
}

// Methods returns the sorted keys of the allow-list.
func (p *JVM) Methods() []string {
	keys := make([]string, 0, len(p.methods))
	for key := range p.methods {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// lookup finds the builtin for a call, trying the superclasses of the
// owner when it is a dictionary class extending a host class.
func (p *JVM) lookup(vc *vm.Context, call *vm.MethodCall) (Builtin, bool) {
	seen := map[string]bool{}
	for owner := call.Owner; owner != "" && !seen[owner]; {
		seen[owner] = true
		if fn, ok := p.methods[memberKey(owner, call.Name, call.Desc)]; ok {
			return fn, true
		}
		if call.Name == "<init>" || call.Dispatch == object.InvokeStatic {
			return nil, false
		}
		if c, ok := vc.Dictionary().Lookup(owner); ok {
			owner = c.SuperName()
		} else {
			owner = hostThrowables[owner]
		}
	}
	return nil, false
}

func (p *JVM) CanInvokeMethod(vc *vm.Context, call *vm.MethodCall) bool {
	if call.Site != nil {
		return false
	}
	_, ok := p.lookup(vc, call)
	return ok
}

func (p *JVM) InvokeMethod(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	fn, ok := p.lookup(vc, call)
	if !ok {
		return nil, unsupported(vc, "invoke %s", call)
	}
	if call.Dispatch != object.InvokeStatic && object.IsNull(call.Receiver) {
		return nil, throwNew(vc, "java/lang/NullPointerException",
			"cannot invoke %s.%s on null", bytecode.DottedName(call.Owner), call.Name)
	}
	return fn(vc, call)
}

func langMethods() map[string]Builtin {
	return map[string]Builtin{
		"java/lang/Object.<init>()V": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return nil, nil
		},
		"java/lang/Object.getClass()Ljava/lang/Class;": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return classOf(runtimeType(call.Receiver)), nil
		},
		"java/lang/Object.equals(Ljava/lang/Object;)Z": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return object.NewBoolean(call.Receiver.Equals(call.Args[0])), nil
		},
		"java/lang/Class.getName()Ljava/lang/String;": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			t, ok := call.Receiver.(*object.Object).Ref().(bytecode.Type)
			if !ok {
				return nil, fault(vc, "%s is not a class literal", call.Receiver.Inspect())
			}
			if t.Sort == bytecode.SortArray {
				return object.NewString(bytecode.DottedName(t.Desc)), nil
			}
			return object.NewString(t.ClassName()), nil
		},
		"java/lang/System.arraycopy(Ljava/lang/Object;ILjava/lang/Object;II)V": arraycopy,
		"java/lang/Thread.currentThread()Ljava/lang/Thread;": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			return object.NewObject("java/lang/Thread", "main"), nil
		},
		"java/lang/Thread.getStackTrace()[Ljava/lang/StackTraceElement;": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			// the running JVM reports getStackTrace itself as the top frame
			return stackTrace(append([]errz.StackFrame{{Class: "java.lang.Thread", Method: "getStackTrace", Line: -1}},
				vc.StackTrace()...)), nil
		},
		"java/lang/StackTraceElement.getClassName()Ljava/lang/String;": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			e, err := stackElementOf(vc, call.Receiver)
			if err != nil {
				return nil, err
			}
			return object.NewString(e.Class), nil
		},
		"java/lang/StackTraceElement.getMethodName()Ljava/lang/String;": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			e, err := stackElementOf(vc, call.Receiver)
			if err != nil {
				return nil, err
			}
			return object.NewString(e.Method), nil
		},
		"java/lang/StackTraceElement.getLineNumber()I": func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			if _, err := stackElementOf(vc, call.Receiver); err != nil {
				return nil, err
			}
			return object.NewInt(-1), nil
		},
	}
}

func classOf(typ string) *object.Object {
	if len(typ) > 0 && typ[0] == '[' {
		return object.NewObject(object.ClassClass, bytecode.MustParseType(typ))
	}
	return object.NewObject(object.ClassClass, bytecode.ObjectType(typ))
}

func arraycopy(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
	src, srcOK := call.Args[0].(*object.Array)
	dst, dstOK := call.Args[2].(*object.Array)
	if object.IsNull(call.Args[0]) || object.IsNull(call.Args[2]) {
		return nil, throwNew(vc, "java/lang/NullPointerException", "arraycopy of null")
	}
	if !srcOK || !dstOK {
		return nil, throwNew(vc, "java/lang/ArrayStoreException", "arraycopy: argument is not an array")
	}
	srcPos, err := intArg(call, 1)
	if err != nil {
		return nil, err
	}
	dstPos, err := intArg(call, 3)
	if err != nil {
		return nil, err
	}
	n, err := intArg(call, 4)
	if err != nil {
		return nil, err
	}
	if srcPos < 0 || dstPos < 0 || n < 0 || int(srcPos+n) > src.Len() || int(dstPos+n) > dst.Len() {
		return nil, throwNew(vc, "java/lang/ArrayIndexOutOfBoundsException",
			"arraycopy: last source index %d out of bounds for length %d", srcPos+n, src.Len())
	}
	// copy handles overlapping ranges of the same array
	copy(dst.Data().Elems[dstPos:dstPos+n], src.Data().Elems[srcPos:srcPos+n])
	return nil, nil
}

func intArg(call *vm.MethodCall, i int) (int32, error) {
	return object.AsInt(call.Args[i])
}

func longArg(call *vm.MethodCall, i int) (int64, error) {
	return object.AsLong(call.Args[i])
}

func doubleArg(call *vm.MethodCall, i int) (float64, error) {
	return object.AsDouble(call.Args[i])
}

func floatArg(call *vm.MethodCall, i int) (float32, error) {
	return object.AsFloat(call.Args[i])
}

// throwNew raises a host exception of the given class inside the
// evaluation.
func throwNew(vc *vm.Context, class, format string, args ...any) error {
	exc := object.NewInstanceRef(class)
	in, _ := exc.Instance()
	in.Native = newThrowable(vc, object.TextOf(formatMessage(format, args...)), true)
	return vm.Throw(vc, exc)
}
