package provider

import (
	"math"

	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

func mathMethods() map[string]Builtin {
	m := map[string]Builtin{}
	def := func(name, desc string, fn Builtin) {
		m[memberKey("java/lang/Math", name, desc)] = fn
		m[memberKey("java/lang/StrictMath", name, desc)] = fn
	}
	ints := func(name string, fn func(a, b int32) int32) {
		def(name, "(II)I", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			a, err := intArg(call, 0)
			if err != nil {
				return nil, err
			}
			b, err := intArg(call, 1)
			if err != nil {
				return nil, err
			}
			return object.NewInt(fn(a, b)), nil
		})
	}
	longs := func(name string, fn func(a, b int64) int64) {
		def(name, "(JJ)J", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			a, err := longArg(call, 0)
			if err != nil {
				return nil, err
			}
			b, err := longArg(call, 1)
			if err != nil {
				return nil, err
			}
			return object.NewLong(fn(a, b)), nil
		})
	}
	doubles := func(name string, fn func(a, b float64) float64) {
		def(name, "(DD)D", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			a, err := doubleArg(call, 0)
			if err != nil {
				return nil, err
			}
			b, err := doubleArg(call, 1)
			if err != nil {
				return nil, err
			}
			return object.NewDouble(fn(a, b)), nil
		})
	}
	double := func(name string, fn func(a float64) float64) {
		def(name, "(D)D", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
			a, err := doubleArg(call, 0)
			if err != nil {
				return nil, err
			}
			return object.NewDouble(fn(a)), nil
		})
	}

	def("abs", "(I)I", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		a, err := intArg(call, 0)
		if err != nil {
			return nil, err
		}
		if a < 0 {
			a = -a // MinInt32 stays negative
		}
		return object.NewInt(a), nil
	})
	def("abs", "(J)J", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		a, err := longArg(call, 0)
		if err != nil {
			return nil, err
		}
		if a < 0 {
			a = -a
		}
		return object.NewLong(a), nil
	})
	def("abs", "(F)F", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		a, err := floatArg(call, 0)
		if err != nil {
			return nil, err
		}
		return object.NewFloat(float32(math.Abs(float64(a)))), nil
	})
	double("abs", math.Abs)
	ints("max", func(a, b int32) int32 { return max(a, b) })
	ints("min", func(a, b int32) int32 { return min(a, b) })
	ints("floorMod", func(a, b int32) int32 {
		if b == 0 {
			return 0
		}
		return ((a % b) + b) % b
	})
	longs("max", func(a, b int64) int64 { return max(a, b) })
	longs("min", func(a, b int64) int64 { return min(a, b) })
	doubles("max", math.Max)
	doubles("min", math.Min)
	doubles("pow", math.Pow)
	doubles("atan2", math.Atan2)
	double("sqrt", math.Sqrt)
	double("cbrt", math.Cbrt)
	double("floor", math.Floor)
	double("ceil", math.Ceil)
	double("sin", math.Sin)
	double("cos", math.Cos)
	double("tan", math.Tan)
	double("log", math.Log)
	double("exp", math.Exp)
	def("round", "(D)J", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		a, err := doubleArg(call, 0)
		if err != nil {
			return nil, err
		}
		return object.NewLong(saturate(math.Floor(a+0.5), "J")), nil
	})
	def("round", "(F)I", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		a, err := floatArg(call, 0)
		if err != nil {
			return nil, err
		}
		return object.NewInt(int32(saturate(math.Floor(float64(a)+0.5), "I"))), nil
	})
	return m
}
