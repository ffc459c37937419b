// Package vm statically executes methods against a pluggable semantic model.
//
// The interpreter covers the arithmetic, stack, local variable, array and
// control flow instructions itself. Everything that depends on the world
// outside the method, such as calls, field access and type checks, is
// delegated to a Provider.
package vm

import (
	"errors"
	"fmt"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/op"
)

// Execute runs method of class to completion and returns its result, or nil
// for a void method. receiver must be nil for static methods. The call is
// recorded as a frame of vc for its whole duration.
func Execute(vc *Context, class *bytecode.Class, method *bytecode.Method, receiver object.Value, args []object.Value) (object.Value, error) {
	if vc.maxDepth > 0 && vc.Size() >= vc.maxDepth {
		return nil, vc.fail(errz.ErrLimit, "maximum call depth of %d exceeded", vc.maxDepth)
	}
	if method.InstructionCount() == 0 {
		return nil, vc.fail(errz.ErrUnsupported, "%s has no code", method)
	}
	c := vc.code(class, method)
	f := newFrame(c)
	if err := checkCallArgs(method, receiver, args); err != nil {
		return nil, vc.fail(errz.ErrFault, "%s", err)
	}
	slot := 0
	if !method.IsStatic() {
		f.locals[0] = receiver
		slot = 1
	}
	for i, arg := range args {
		f.locals[slot] = arg
		slot += c.params[i].Size()
	}

	vc.Push(class.Name(), method.Name(), method.InstructionCount())
	defer vc.Pop()
	vc.logger.Debug().Str("method", method.Key()).Int("depth", vc.Size()).Msg("execute")

	if vc.observer != nil && vc.observer.Config().ObserveCalls {
		if !vc.observer.OnCall(CallEvent{Method: method, ArgCount: len(args), FrameDepth: vc.Size()}) {
			return nil, vc.fail(errz.ErrFault, "execution halted by observer")
		}
	}
	result, err := vc.eval(f)
	if err != nil {
		return nil, err
	}
	if vc.observer != nil && vc.observer.Config().ObserveReturns {
		if !vc.observer.OnReturn(ReturnEvent{Method: method, FrameDepth: vc.Size()}) {
			return nil, vc.fail(errz.ErrFault, "execution halted by observer")
		}
	}
	return result, nil
}

// Throw returns the error that raises value as an exception. Handlers in
// executing methods may catch it; if none does, it surfaces as an
// ExecutionError of kind ErrThrown.
func Throw(vc *Context, value *object.Object) error {
	e := vc.fail(errz.ErrThrown, "%s", bytecode.DottedName(value.Class()))
	e.Thrown = value
	return e
}

// ClassNullPointer is the exception the interpreter raises for a null
// receiver or array.
const ClassNullPointer = "java/lang/NullPointerException"

// throwNull raises a ClassNullPointer instance. The message is stored in the
// instance's detailMessage field.
func throwNull(vc *Context, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	exc := object.NewInstanceRef(ClassNullPointer)
	in, _ := exc.Instance()
	in.SetField("detailMessage", object.NewString(msg))
	e := vc.fail(errz.ErrThrown, "%s: %s", bytecode.DottedName(ClassNullPointer), msg)
	e.Thrown = exc
	return e
}

// thrown returns the exception carried by err, if it is one.
func thrown(err error) (*object.Object, bool) {
	e, ok := errz.AsExecution(err)
	if !ok || e.Kind != errz.ErrThrown {
		return nil, false
	}
	v, ok := e.Thrown.(*object.Object)
	return v, ok
}

// eval runs the frame until it returns.
func (vc *Context) eval(f *frame) (object.Value, error) {
	c := f.code
	var cfg ObserverConfig
	if vc.observer != nil {
		cfg = NormalizeConfig(vc.observer.Config())
	}
	doneChan := vc.ctx.Done()
	entered := true
	for {
		if f.ip >= c.InstructionCount() {
			return nil, vc.fail(errz.ErrFault, "execution fell off the end of %s", c.Method)
		}
		idx := f.ip
		ins := c.InstructionAt(idx)
		if ins.IsLabel() {
			f.ip++
			entered = true
			continue
		}

		vc.steps++
		if vc.maxSteps > 0 && vc.steps > vc.maxSteps {
			return nil, vc.fail(errz.ErrLimit, "maximum of %d steps exceeded", vc.maxSteps)
		}
		if doneChan != nil && vc.contextCheckInterval > 0 && vc.steps%vc.contextCheckInterval == 0 {
			select {
			case <-doneChan:
				return nil, vc.fail(errz.ErrLimit, "evaluation cancelled").WithCause(vc.ctx.Err())
			default:
			}
		}
		if vc.observer != nil && vc.shouldStep(cfg, entered) {
			event := StepEvent{
				Method:     c.Method,
				Index:      idx,
				Opcode:     ins.Op,
				StackDepth: len(f.stack),
				FrameDepth: vc.Size(),
			}
			if !vc.observer.OnStep(event) {
				return nil, vc.fail(errz.ErrFault, "execution halted by observer")
			}
		}

		f.ip++
		result, done, err := vc.step(f, ins)
		if err != nil {
			if exc, ok := thrown(err); ok {
				if target, ok := vc.findHandler(c, idx, exc); ok {
					f.stack = f.stack[:0]
					f.push(exc)
					f.ip = target
					entered = true
					continue
				}
			}
			return nil, vc.fault(err, c, idx, ins)
		}
		if done {
			return result, nil
		}
		entered = f.ip != idx+1
	}
}

func (vc *Context) shouldStep(cfg ObserverConfig, entered bool) bool {
	switch cfg.StepMode {
	case StepAll:
		return true
	case StepSampled:
		return vc.steps%cfg.SampleInterval == 0
	case StepOnBlock:
		return entered
	}
	return false
}

// fault turns a failed step into an ExecutionError carrying the stack.
func (vc *Context) fault(err error, c *code, idx int, ins bytecode.Instruction) error {
	if errz.IsAbort(err) {
		return err
	}
	if _, ok := errz.AsExecution(err); ok {
		return err
	}
	if errors.Is(err, errDivideByZero) {
		return vc.fail(errz.ErrArithmetic, "%s at %d (%s)", c.Method, idx, ins.Op).WithCause(err)
	}
	return vc.fail(errz.ErrFault, "%s at %d (%s)", c.Method, idx, ins.Op).WithCause(err)
}

// findHandler returns the handler position for an exception raised at idx.
// Regions are tried in table order.
func (vc *Context) findHandler(c *code, idx int, exc *object.Object) (int, bool) {
	for _, h := range c.handlers {
		if idx < h.start || idx >= h.end {
			continue
		}
		if h.typ == "" || h.typ == exc.Class() || bytecode.IsSubclass(vc.dict, exc.Class(), h.typ) {
			return h.target, true
		}
		// host exception classes are not in the dictionary
		if vc.provider != nil && vc.provider.CanCheckInstanceOf(vc, exc, h.typ) {
			if ok, err := vc.provider.CheckInstanceOf(vc, exc, h.typ); err == nil && ok {
				return h.target, true
			}
		}
	}
	return 0, false
}

// initialize runs the static initializer of a dictionary class the first
// time one of its static members is touched. Superclasses go first.
func (vc *Context) initialize(owner string) error {
	if vc.IsInitialized(owner) {
		return nil
	}
	class, ok := vc.dict.Lookup(owner)
	if !ok {
		return nil
	}
	vc.MarkInitialized(owner)
	if super := class.SuperName(); super != "" {
		if err := vc.initialize(super); err != nil {
			return err
		}
	}
	clinit, ok := class.Clinit()
	if !ok {
		return nil
	}
	vc.logger.Debug().Str("class", owner).Msg("static initializer")
	_, err := Execute(vc, class, clinit, nil, nil)
	return err
}

// step executes one instruction. done is set when the method returns.
func (vc *Context) step(f *frame, ins bytecode.Instruction) (result object.Value, done bool, err error) {
	cd := f.code
	switch opcode := ins.Op; opcode {
	case op.Nop:

	case op.AconstNull:
		f.push(object.NewNull())
	case op.IconstM1, op.Iconst0, op.Iconst1, op.Iconst2, op.Iconst3, op.Iconst4, op.Iconst5:
		f.push(object.NewInt(int32(opcode) - int32(op.Iconst0)))
	case op.Lconst0, op.Lconst1:
		f.push(object.NewLong(int64(opcode - op.Lconst0)))
	case op.Fconst0, op.Fconst1, op.Fconst2:
		f.push(object.NewFloat(float32(opcode - op.Fconst0)))
	case op.Dconst0, op.Dconst1:
		f.push(object.NewDouble(float64(opcode - op.Dconst0)))
	case op.Bipush, op.Sipush:
		f.push(object.NewInt(int32(ins.Int)))
	case op.Ldc, op.LdcW, op.Ldc2W:
		v, err := constant(ins.Const)
		if err != nil {
			return nil, false, err
		}
		f.push(v)

	case op.Iload, op.Lload, op.Fload, op.Dload, op.Aload,
		op.Iload0, op.Iload1, op.Iload2, op.Iload3,
		op.Lload0, op.Lload1, op.Lload2, op.Lload3,
		op.Fload0, op.Fload1, op.Fload2, op.Fload3,
		op.Dload0, op.Dload1, op.Dload2, op.Dload3,
		op.Aload0, op.Aload1, op.Aload2, op.Aload3:
		slot, _ := ins.LocalIndex()
		v, err := f.load(slot)
		if err != nil {
			return nil, false, err
		}
		f.push(v)
	case op.Istore, op.Lstore, op.Fstore, op.Dstore, op.Astore,
		op.Istore0, op.Istore1, op.Istore2, op.Istore3,
		op.Lstore0, op.Lstore1, op.Lstore2, op.Lstore3,
		op.Fstore0, op.Fstore1, op.Fstore2, op.Fstore3,
		op.Dstore0, op.Dstore1, op.Dstore2, op.Dstore3,
		op.Astore0, op.Astore1, op.Astore2, op.Astore3:
		slot, _ := ins.LocalIndex()
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		if err := f.store(slot, v); err != nil {
			return nil, false, err
		}
	case op.Iinc:
		v, err := f.load(ins.Int)
		if err != nil {
			return nil, false, err
		}
		x, err := object.AsInt(v)
		if err != nil {
			return nil, false, err
		}
		if err := f.store(ins.Int, object.NewInt(x+int32(ins.Incr))); err != nil {
			return nil, false, err
		}

	case op.Iaload, op.Laload, op.Faload, op.Daload, op.Aaload, op.Baload, op.Caload, op.Saload:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		arr, i, err := arrayAccess(vc, vals[0], vals[1])
		if err != nil {
			return nil, false, err
		}
		v, err := arr.Get(int(i))
		if err != nil {
			return nil, false, err
		}
		switch opcode {
		case op.Iaload, op.Baload, op.Caload, op.Saload:
			x, err := object.AsInt(v)
			if err != nil {
				return nil, false, err
			}
			v = object.NewInt(x)
		}
		f.push(v)
	case op.Iastore, op.Lastore, op.Fastore, op.Dastore, op.Aastore, op.Bastore, op.Castore, op.Sastore:
		vals, err := f.popN(3)
		if err != nil {
			return nil, false, err
		}
		arr, i, err := arrayAccess(vc, vals[0], vals[1])
		if err != nil {
			return nil, false, err
		}
		v, err := narrow(arr.ElemType(), vals[2])
		if err != nil {
			return nil, false, err
		}
		if err := arr.Set(int(i), v); err != nil {
			return nil, false, err
		}

	case op.Pop, op.Pop2, op.Dup, op.DupX1, op.DupX2, op.Dup2, op.Dup2X1, op.Dup2X2, op.Swap:
		if err := stackOp(f, opcode); err != nil {
			return nil, false, err
		}

	case op.Iadd, op.Isub, op.Imul, op.Idiv, op.Irem, op.Ishl, op.Ishr, op.Iushr, op.Iand, op.Ior, op.Ixor:
		a, b, err := popInts(f)
		if err != nil {
			return nil, false, err
		}
		x, err := intOp(opcode, a, b)
		if err != nil {
			return nil, false, err
		}
		f.push(object.NewInt(x))
	case op.Ladd, op.Lsub, op.Lmul, op.Ldiv, op.Lrem, op.Land, op.Lor, op.Lxor:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		a, err := object.AsLong(vals[0])
		if err != nil {
			return nil, false, err
		}
		b, err := object.AsLong(vals[1])
		if err != nil {
			return nil, false, err
		}
		x, err := longOp(opcode, a, b)
		if err != nil {
			return nil, false, err
		}
		f.push(object.NewLong(x))
	case op.Lshl, op.Lshr, op.Lushr:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		a, err := object.AsLong(vals[0])
		if err != nil {
			return nil, false, err
		}
		dist, err := object.AsInt(vals[1])
		if err != nil {
			return nil, false, err
		}
		f.push(object.NewLong(longShift(opcode, a, dist)))
	case op.Fadd, op.Fsub, op.Fmul, op.Fdiv, op.Frem:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		a, err := object.AsFloat(vals[0])
		if err != nil {
			return nil, false, err
		}
		b, err := object.AsFloat(vals[1])
		if err != nil {
			return nil, false, err
		}
		f.push(object.NewFloat(floatOp(opcode, a, b)))
	case op.Dadd, op.Dsub, op.Dmul, op.Ddiv, op.Drem:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		a, err := object.AsDouble(vals[0])
		if err != nil {
			return nil, false, err
		}
		b, err := object.AsDouble(vals[1])
		if err != nil {
			return nil, false, err
		}
		f.push(object.NewDouble(doubleOp(opcode, a, b)))
	case op.Ineg, op.Lneg, op.Fneg, op.Dneg:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		neg, err := negate(v)
		if err != nil {
			return nil, false, err
		}
		f.push(neg)
	case op.I2l, op.I2f, op.I2d, op.L2i, op.L2f, op.L2d, op.F2i, op.F2l, op.F2d,
		op.D2i, op.D2l, op.D2f, op.I2b, op.I2c, op.I2s:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		conv, err := convert(opcode, v)
		if err != nil {
			return nil, false, err
		}
		f.push(conv)
	case op.Lcmp:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		a, err := object.AsLong(vals[0])
		if err != nil {
			return nil, false, err
		}
		b, err := object.AsLong(vals[1])
		if err != nil {
			return nil, false, err
		}
		f.push(object.NewInt(lcmp(a, b)))
	case op.Fcmpl, op.Fcmpg:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		a, err := object.AsFloat(vals[0])
		if err != nil {
			return nil, false, err
		}
		b, err := object.AsFloat(vals[1])
		if err != nil {
			return nil, false, err
		}
		nan := int32(-1)
		if opcode == op.Fcmpg {
			nan = 1
		}
		f.push(object.NewInt(compare(float64(a), float64(b), nan)))
	case op.Dcmpl, op.Dcmpg:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		a, err := object.AsDouble(vals[0])
		if err != nil {
			return nil, false, err
		}
		b, err := object.AsDouble(vals[1])
		if err != nil {
			return nil, false, err
		}
		nan := int32(-1)
		if opcode == op.Dcmpg {
			nan = 1
		}
		f.push(object.NewInt(compare(a, b, nan)))

	case op.Ifeq, op.Ifne, op.Iflt, op.Ifge, op.Ifgt, op.Ifle:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		x, err := object.AsInt(v)
		if err != nil {
			return nil, false, err
		}
		if intCondition(opcode, x, 0) {
			f.ip = cd.target(ins.Label)
		}
	case op.IfIcmpeq, op.IfIcmpne, op.IfIcmplt, op.IfIcmpge, op.IfIcmpgt, op.IfIcmple:
		a, b, err := popInts(f)
		if err != nil {
			return nil, false, err
		}
		if intCondition(opcode, a, b) {
			f.ip = cd.target(ins.Label)
		}
	case op.IfAcmpeq, op.IfAcmpne:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		eq, err := checkEquality(vc, vals[0], vals[1])
		if err != nil {
			return nil, false, err
		}
		if eq == (opcode == op.IfAcmpeq) {
			f.ip = cd.target(ins.Label)
		}
	case op.Ifnull, op.Ifnonnull:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		if object.IsNull(v) == (opcode == op.Ifnull) {
			f.ip = cd.target(ins.Label)
		}
	case op.Goto, op.GotoW:
		f.ip = cd.target(ins.Label)
	case op.Tableswitch, op.Lookupswitch:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		key, err := object.AsInt(v)
		if err != nil {
			return nil, false, err
		}
		f.ip = cd.target(switchTarget(ins, key))
	case op.Jsr, op.JsrW, op.Ret:
		return nil, false, vc.fail(errz.ErrUnsupported, "subroutines (%s) are not supported", opcode)

	case op.Ireturn, op.Lreturn, op.Freturn, op.Dreturn, op.Areturn:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		v, err = narrow(cd.ReturnType(), v)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case op.Return:
		return nil, true, nil

	case op.Getstatic:
		if err := vc.initialize(ins.Owner); err != nil {
			return nil, false, err
		}
		v, err := getField(vc, FieldRef{Owner: ins.Owner, Name: ins.Name, Desc: ins.Desc})
		if err != nil {
			return nil, false, err
		}
		f.push(v)
	case op.Putstatic:
		if err := vc.initialize(ins.Owner); err != nil {
			return nil, false, err
		}
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		if v, err = narrowDesc(ins.Desc, v); err != nil {
			return nil, false, err
		}
		if err := setField(vc, FieldRef{Owner: ins.Owner, Name: ins.Name, Desc: ins.Desc}, v); err != nil {
			return nil, false, err
		}
	case op.Getfield:
		recv, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		if object.IsNull(recv) {
			return nil, false, throwNull(vc, "getfield %s.%s on null reference", ins.Owner, ins.Name)
		}
		v, err := getField(vc, FieldRef{Owner: ins.Owner, Name: ins.Name, Desc: ins.Desc, Receiver: recv})
		if err != nil {
			return nil, false, err
		}
		f.push(v)
	case op.Putfield:
		vals, err := f.popN(2)
		if err != nil {
			return nil, false, err
		}
		recv := vals[0]
		if object.IsNull(recv) {
			return nil, false, throwNull(vc, "putfield %s.%s on null reference", ins.Owner, ins.Name)
		}
		v, err := narrowDesc(ins.Desc, vals[1])
		if err != nil {
			return nil, false, err
		}
		if err := setField(vc, FieldRef{Owner: ins.Owner, Name: ins.Name, Desc: ins.Desc, Receiver: recv}, v); err != nil {
			return nil, false, err
		}

	case op.Invokevirtual, op.Invokespecial, op.Invokestatic, op.Invokeinterface:
		if err := vc.invoke(f, ins); err != nil {
			return nil, false, err
		}
	case op.Invokedynamic:
		if err := vc.invokeDynamic(f, ins); err != nil {
			return nil, false, err
		}

	case op.New:
		if err := vc.initialize(ins.Owner); err != nil {
			return nil, false, err
		}
		f.push(object.NewInstanceRef(ins.Owner))
	case op.Newarray:
		n, err := popCount(f)
		if err != nil {
			return nil, false, err
		}
		elem, err := newarrayType(ins.Int)
		if err != nil {
			return nil, false, err
		}
		if err := vc.reserve(int64(n)); err != nil {
			return nil, false, err
		}
		f.push(object.NewArrayOf(elem, int(n)))
	case op.Anewarray:
		n, err := popCount(f)
		if err != nil {
			return nil, false, err
		}
		elem, err := typeOperand(ins.Owner)
		if err != nil {
			return nil, false, err
		}
		if err := vc.reserve(int64(n)); err != nil {
			return nil, false, err
		}
		f.push(object.NewArrayOf(elem, int(n)))
	case op.Multianewarray:
		dims := make([]int32, ins.Int)
		for i := ins.Int - 1; i >= 0; i-- {
			n, err := popCount(f)
			if err != nil {
				return nil, false, err
			}
			dims[i] = n
		}
		t, err := bytecode.ParseType(ins.Owner)
		if err != nil {
			return nil, false, err
		}
		if err := vc.reserve(multiArraySize(dims)); err != nil {
			return nil, false, err
		}
		f.push(multiArray(t, dims))
	case op.Arraylength:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		if object.IsNull(v) {
			return nil, false, throwNull(vc, "arraylength of null reference")
		}
		arr, err := object.AsArray(v)
		if err != nil {
			return nil, false, err
		}
		f.push(object.NewInt(int32(arr.Len())))

	case op.Athrow:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		exc, err := object.AsObject(v)
		if err != nil {
			return nil, false, err
		}
		if exc.IsNull() {
			return nil, false, throwNull(vc, "athrow of null reference")
		}
		return nil, false, Throw(vc, exc)
	case op.Checkcast:
		v, err := f.peek()
		if err != nil {
			return nil, false, err
		}
		if object.IsNull(v) {
			break
		}
		ok, err := checkcast(vc, v, ins.Owner)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, fmt.Errorf("%s cannot be cast to %s", v.Inspect(), bytecode.DottedName(ins.Owner))
		}
	case op.Instanceof:
		v, err := f.pop()
		if err != nil {
			return nil, false, err
		}
		if object.IsNull(v) {
			f.push(object.NewInt(0))
			break
		}
		ok, err := checkInstanceOf(vc, v, ins.Owner)
		if err != nil {
			return nil, false, err
		}
		if ok {
			f.push(object.NewInt(1))
		} else {
			f.push(object.NewInt(0))
		}
	case op.Monitorenter, op.Monitorexit:
		if _, err := f.pop(); err != nil {
			return nil, false, err
		}

	default:
		return nil, false, vc.fail(errz.ErrUnsupported, "unsupported instruction %s", opcode)
	}
	return nil, false, nil
}

// invoke pops the arguments and receiver of a method instruction and hands
// the call to the provider chain.
func (vc *Context) invoke(f *frame, ins bytecode.Instruction) error {
	params, ret, err := bytecode.ParseMethodDescriptor(ins.Desc)
	if err != nil {
		return err
	}
	args, err := popArgs(f, params)
	if err != nil {
		return err
	}
	call := &MethodCall{Owner: ins.Owner, Name: ins.Name, Desc: ins.Desc, Args: args}
	switch ins.Op {
	case op.Invokestatic:
		call.Dispatch = object.InvokeStatic
		if err := vc.initialize(ins.Owner); err != nil {
			return err
		}
	case op.Invokespecial:
		call.Dispatch = object.InvokeSpecial
	case op.Invokeinterface:
		call.Dispatch = object.InvokeInterface
	default:
		call.Dispatch = object.InvokeVirtual
	}
	if ins.Op != op.Invokestatic {
		recv, err := f.pop()
		if err != nil {
			return err
		}
		if object.IsNull(recv) {
			return throwNull(vc, "%s %s.%s on null reference", ins.Op, ins.Owner, ins.Name)
		}
		call.Receiver = recv
	}
	return vc.complete(f, call, ret)
}

func (vc *Context) invokeDynamic(f *frame, ins bytecode.Instruction) error {
	params, ret, err := bytecode.ParseMethodDescriptor(ins.Desc)
	if err != nil {
		return err
	}
	args, err := popArgs(f, params)
	if err != nil {
		return err
	}
	bsm := ins.Bootstrap
	if bsm == nil {
		return errors.New("invokedynamic without bootstrap method")
	}
	call := &MethodCall{
		Owner:    bsm.Owner,
		Name:     bsm.Name,
		Desc:     bsm.Desc,
		Dispatch: object.InvokeStatic,
		Args:     args,
		Site:     &CallSite{Name: ins.Name, Desc: ins.Desc, BootstrapArgs: ins.BootstrapArgs},
	}
	return vc.complete(f, call, ret)
}

// complete dispatches call and pushes its result unless ret is void.
func (vc *Context) complete(f *frame, call *MethodCall, ret bytecode.Type) error {
	v, err := invokeCall(vc, call)
	if err != nil {
		return err
	}
	if ret.Sort == bytecode.SortVoid {
		return nil
	}
	if v == nil {
		return vc.fail(errz.ErrFault, "%s returned no value", call)
	}
	if ret.IsPrimitive() {
		if v, err = widen(v); err != nil {
			return err
		}
	}
	f.push(v)
	return nil
}
