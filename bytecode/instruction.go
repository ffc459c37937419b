package bytecode

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/unweave/op"
)

// Label identifies a join point within one method.
type Label int

// Sentinel stands for the code that precedes the first declared label.
const Sentinel Label = -1

// String returns a short name for the label.
func (l Label) String() string {
	if l == Sentinel {
		return "<entry>"
	}
	return fmt.Sprintf("L%d", int(l))
}

// Primitive array element type codes used by newarray.
const (
	TBoolean = 4
	TChar    = 5
	TFloat   = 6
	TDouble  = 7
	TByte    = 8
	TShort   = 9
	TInt     = 10
	TLong    = 11
)

// Handle is a method or field handle constant, as used by invokedynamic
// bootstrap methods.
type Handle struct {
	Tag       int
	Owner     string
	Name      string
	Desc      string
	Interface bool
}

// String returns the handle in owner.name:desc form.
func (h Handle) String() string {
	return fmt.Sprintf("%s.%s:%s", h.Owner, h.Name, h.Desc)
}

// Instruction is one unit of the instruction stream. Which operand fields are
// meaningful depends on op.GetInfo(Op).Operand.
type Instruction struct {
	Op op.Code

	// Label is the label defined by an op.Label marker, or the target of a
	// jump instruction.
	Label Label

	// Int holds the bipush/sipush value, the local variable index, the
	// newarray element type, the multianewarray dimensions or the low key of
	// a tableswitch.
	Int int

	// Incr is the iinc increment.
	Incr int

	// Const is the ldc constant: int32, int64, float32, float64, string,
	// Type (class literal) or Handle.
	Const any

	// Targets are the switch case targets, in table order.
	Targets []Label

	// Keys are the lookupswitch keys, parallel to Targets.
	Keys []int32

	// Default is the switch default target.
	Default Label

	// Owner, Name and Desc describe the referenced member. For type
	// instructions (new, checkcast, ...) Owner holds the internal name or
	// array descriptor.
	Owner     string
	Name      string
	Desc      string
	Interface bool

	// Bootstrap and BootstrapArgs describe an invokedynamic call site.
	Bootstrap     *Handle
	BootstrapArgs []any
}

// Insn returns an instruction without operands.
func Insn(code op.Code) Instruction {
	return Instruction{Op: code}
}

// LabelInsn returns the marker instruction for the given label.
func LabelInsn(l Label) Instruction {
	return Instruction{Op: op.Label, Label: l}
}

// IntInsn returns a bipush, sipush or newarray instruction.
func IntInsn(code op.Code, value int) Instruction {
	return Instruction{Op: code, Int: value}
}

// VarInsn returns a local variable load or store.
func VarInsn(code op.Code, index int) Instruction {
	return Instruction{Op: code, Int: index}
}

// IincInsn returns an iinc instruction.
func IincInsn(index, incr int) Instruction {
	return Instruction{Op: op.Iinc, Int: index, Incr: incr}
}

// JumpInsn returns a jump to the given label.
func JumpInsn(code op.Code, target Label) Instruction {
	return Instruction{Op: code, Label: target}
}

// LdcInsn returns an ldc instruction pushing the given constant.
func LdcInsn(value any) Instruction {
	code := op.Ldc
	switch value.(type) {
	case int64, float64:
		code = op.Ldc2W
	}
	return Instruction{Op: code, Const: value}
}

// TypeInsn returns new, anewarray, checkcast or instanceof.
func TypeInsn(code op.Code, typ string) Instruction {
	return Instruction{Op: code, Owner: typ}
}

// FieldInsn returns a field access instruction.
func FieldInsn(code op.Code, owner, name, desc string) Instruction {
	return Instruction{Op: code, Owner: owner, Name: name, Desc: desc}
}

// MethodInsn returns a method invocation instruction.
func MethodInsn(code op.Code, owner, name, desc string) Instruction {
	return Instruction{
		Op:        code,
		Owner:     owner,
		Name:      name,
		Desc:      desc,
		Interface: code == op.Invokeinterface,
	}
}

// InvokeDynamicInsn returns an invokedynamic call site.
func InvokeDynamicInsn(name, desc string, bsm Handle, args ...any) Instruction {
	return Instruction{
		Op:            op.Invokedynamic,
		Name:          name,
		Desc:          desc,
		Bootstrap:     &bsm,
		BootstrapArgs: args,
	}
}

// TableSwitchInsn returns a tableswitch covering keys low..low+len(targets)-1.
func TableSwitchInsn(low int, dflt Label, targets ...Label) Instruction {
	return Instruction{Op: op.Tableswitch, Int: low, Default: dflt, Targets: targets}
}

// LookupSwitchInsn returns a lookupswitch. keys and targets must be parallel.
func LookupSwitchInsn(dflt Label, keys []int32, targets []Label) Instruction {
	return Instruction{Op: op.Lookupswitch, Default: dflt, Keys: keys, Targets: targets}
}

// MultiANewArrayInsn returns a multianewarray instruction.
func MultiANewArrayInsn(desc string, dims int) Instruction {
	return Instruction{Op: op.Multianewarray, Owner: desc, Int: dims}
}

// Kind returns the control-flow classification of the instruction.
func (ins Instruction) Kind() op.Kind {
	return op.KindOf(ins.Op)
}

// IsLabel reports whether the instruction is a label marker.
func (ins Instruction) IsLabel() bool {
	return ins.Op == op.Label
}

// JumpTargets returns every label the instruction may transfer control to.
// For switches the case targets come first, in table order, followed by the
// default target.
func (ins Instruction) JumpTargets() []Label {
	switch ins.Kind() {
	case op.KindGoto, op.KindConditional:
		return []Label{ins.Label}
	case op.KindSubroutine:
		if ins.Op == op.Ret {
			return nil
		}
		return []Label{ins.Label}
	case op.KindSwitch:
		targets := make([]Label, 0, len(ins.Targets)+1)
		targets = append(targets, ins.Targets...)
		return append(targets, ins.Default)
	}
	return nil
}

// LocalIndex returns the local variable slot referenced by a load, store or
// iinc instruction, including the xload_N / xstore_N short forms.
func (ins Instruction) LocalIndex() (int, bool) {
	switch c := ins.Op; {
	case c >= op.Iload && c <= op.Aload, c >= op.Istore && c <= op.Astore,
		c == op.Iinc, c == op.Ret:
		return ins.Int, true
	case c >= op.Iload0 && c <= op.Aload3:
		return int(c-op.Iload0) % 4, true
	case c >= op.Istore0 && c <= op.Astore3:
		return int(c-op.Istore0) % 4, true
	}
	return 0, false
}

// String returns a one-line textual form of the instruction.
func (ins Instruction) String() string {
	info := op.GetInfo(ins.Op)
	switch info.Operand {
	case op.OperandLabel:
		return ins.Label.String() + ":"
	case op.OperandInt, op.OperandLocal, op.OperandNewArray:
		return fmt.Sprintf("%s %d", info.Name, ins.Int)
	case op.OperandIinc:
		return fmt.Sprintf("%s %d %d", info.Name, ins.Int, ins.Incr)
	case op.OperandConst:
		if s, ok := ins.Const.(string); ok {
			return fmt.Sprintf("%s %q", info.Name, s)
		}
		return fmt.Sprintf("%s %v", info.Name, ins.Const)
	case op.OperandJump:
		return fmt.Sprintf("%s %s", info.Name, ins.Label)
	case op.OperandTableSwitch, op.OperandLookupSwitch:
		var parts []string
		for i, t := range ins.Targets {
			key := ins.Int + i
			if ins.Op == op.Lookupswitch {
				key = int(ins.Keys[i])
			}
			parts = append(parts, fmt.Sprintf("%d:%s", key, t))
		}
		parts = append(parts, "default:"+ins.Default.String())
		return fmt.Sprintf("%s %s", info.Name, strings.Join(parts, " "))
	case op.OperandType:
		return fmt.Sprintf("%s %s", info.Name, ins.Owner)
	case op.OperandMultiArray:
		return fmt.Sprintf("%s %s %d", info.Name, ins.Owner, ins.Int)
	case op.OperandField, op.OperandMethod:
		return fmt.Sprintf("%s %s.%s %s", info.Name, ins.Owner, ins.Name, ins.Desc)
	case op.OperandDynamic:
		return fmt.Sprintf("%s %s %s %s", info.Name, ins.Name, ins.Desc, ins.Bootstrap)
	}
	return info.Name
}
