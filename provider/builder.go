package provider

import (
	"slices"

	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

// stringBuilder is the Native state of a java/lang/StringBuilder.
type stringBuilder struct {
	units []uint16
}

func builderOf(vc *vm.Context, call *vm.MethodCall) (*stringBuilder, error) {
	in, ok := instance(call.Receiver)
	if !ok {
		return nil, fault(vc, "%s: receiver is not a string builder", call)
	}
	sb, ok := in.Native.(*stringBuilder)
	if !ok {
		return nil, fault(vc, "%s: string builder was not constructed", call)
	}
	return sb, nil
}

func builderMethods() map[string]Builtin {
	m := map[string]Builtin{}
	for _, owner := range []string{"java/lang/StringBuilder", "java/lang/StringBuffer"} {
		addBuilderMethods(m, owner)
	}
	return m
}

func addBuilderMethods(m map[string]Builtin, owner string) {
	self := "L" + owner + ";"
	def := func(name, desc string, fn Builtin) {
		m[memberKey(owner, name, desc)] = fn
	}
	ctor := func(desc string, initial func(vc *vm.Context, call *vm.MethodCall) ([]uint16, error)) {
		def("<init>", desc, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			in, ok := instance(call.Receiver)
			if !ok {
				return nil, fault(vc, "%s: receiver is not a new string builder", call)
			}
			u, err := initial(vc, call)
			if err != nil {
				return nil, err
			}
			in.Native = &stringBuilder{units: u}
			return nil, nil
		})
	}
	ctor("()V", func(vc *vm.Context, call *vm.MethodCall) ([]uint16, error) { return nil, nil })
	ctor("(I)V", func(vc *vm.Context, call *vm.MethodCall) ([]uint16, error) { return nil, nil })
	ctor("(Ljava/lang/String;)V", func(vc *vm.Context, call *vm.MethodCall) ([]uint16, error) {
		t, err := textArg(vc, call, 0)
		if err != nil {
			return nil, err
		}
		return slices.Clone(t), nil
	})

	appendValue := func(desc string) {
		def("append", desc, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			sb, err := builderOf(vc, call)
			if err != nil {
				return nil, err
			}
			sb.units = append(sb.units, stringify(call.Args[0])...)
			return call.Receiver, nil
		})
	}
	for _, arg := range []string{"I", "J", "Z", "C", "F", "D", "Ljava/lang/String;", "Ljava/lang/Object;", "Ljava/lang/CharSequence;"} {
		appendValue("(" + arg + ")" + self)
	}
	def("append", "([C)"+self, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		u, err := charsOf(vc, call.Args[0])
		if err != nil {
			return nil, err
		}
		sb.units = append(sb.units, u...)
		return call.Receiver, nil
	})
	def("toString", "()Ljava/lang/String;", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		return object.NewText(sb.units), nil
	})
	def("length", "()I", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		return object.NewInt(int32(len(sb.units))), nil
	})
	def("charAt", "(I)C", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		i, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= len(sb.units) {
			return nil, outOfBounds(vc, int(i), len(sb.units))
		}
		return object.NewChar(sb.units[i]), nil
	})
	def("setCharAt", "(IC)V", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		i, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		c, err := intArg(call, 1)
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= len(sb.units) {
			return nil, outOfBounds(vc, int(i), len(sb.units))
		}
		sb.units[i] = uint16(c)
		return nil, nil
	})
	def("setLength", "(I)V", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		n, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, outOfBounds(vc, int(n), len(sb.units))
		}
		for len(sb.units) < int(n) {
			sb.units = append(sb.units, 0)
		}
		sb.units = sb.units[:n]
		return nil, nil
	})
	def("deleteCharAt", "(I)"+self, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		i, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= len(sb.units) {
			return nil, outOfBounds(vc, int(i), len(sb.units))
		}
		sb.units = append(sb.units[:i], sb.units[i+1:]...)
		return call.Receiver, nil
	})
	def("insert", "(IC)"+self, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		i, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		c, err := intArg(call, 1)
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) > len(sb.units) {
			return nil, outOfBounds(vc, int(i), len(sb.units))
		}
		sb.units = append(sb.units[:i], append([]uint16{uint16(c)}, sb.units[i:]...)...)
		return call.Receiver, nil
	})
	def("reverse", "()"+self, func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		sb, err := builderOf(vc, call)
		if err != nil {
			return nil, err
		}
		slices.Reverse(sb.units)
		// surrogate pairs keep their order
		for i := 0; i+1 < len(sb.units); i++ {
			lo, hi := sb.units[i], sb.units[i+1]
			if lo >= 0xDC00 && lo <= 0xDFFF && hi >= 0xD800 && hi <= 0xDBFF {
				sb.units[i], sb.units[i+1] = sb.units[i+1], sb.units[i]
				i++
			}
		}
		return call.Receiver, nil
	})
}
