// Package op defines the JVM opcodes understood by the flow analyzer and the
// interpreter, together with their control-flow classification.
package op

// Code is an opcode. Values below 256 are real JVM opcodes; Label is a
// pseudo-opcode marking a join point in the instruction stream.
type Code uint16

const (
	Nop             Code = 0x00
	AconstNull      Code = 0x01
	IconstM1        Code = 0x02
	Iconst0         Code = 0x03
	Iconst1         Code = 0x04
	Iconst2         Code = 0x05
	Iconst3         Code = 0x06
	Iconst4         Code = 0x07
	Iconst5         Code = 0x08
	Lconst0         Code = 0x09
	Lconst1         Code = 0x0a
	Fconst0         Code = 0x0b
	Fconst1         Code = 0x0c
	Fconst2         Code = 0x0d
	Dconst0         Code = 0x0e
	Dconst1         Code = 0x0f
	Bipush          Code = 0x10
	Sipush          Code = 0x11
	Ldc             Code = 0x12
	LdcW            Code = 0x13
	Ldc2W           Code = 0x14
	Iload           Code = 0x15
	Lload           Code = 0x16
	Fload           Code = 0x17
	Dload           Code = 0x18
	Aload           Code = 0x19
	Iload0          Code = 0x1a
	Iload1          Code = 0x1b
	Iload2          Code = 0x1c
	Iload3          Code = 0x1d
	Lload0          Code = 0x1e
	Lload1          Code = 0x1f
	Lload2          Code = 0x20
	Lload3          Code = 0x21
	Fload0          Code = 0x22
	Fload1          Code = 0x23
	Fload2          Code = 0x24
	Fload3          Code = 0x25
	Dload0          Code = 0x26
	Dload1          Code = 0x27
	Dload2          Code = 0x28
	Dload3          Code = 0x29
	Aload0          Code = 0x2a
	Aload1          Code = 0x2b
	Aload2          Code = 0x2c
	Aload3          Code = 0x2d
	Iaload          Code = 0x2e
	Laload          Code = 0x2f
	Faload          Code = 0x30
	Daload          Code = 0x31
	Aaload          Code = 0x32
	Baload          Code = 0x33
	Caload          Code = 0x34
	Saload          Code = 0x35
	Istore          Code = 0x36
	Lstore          Code = 0x37
	Fstore          Code = 0x38
	Dstore          Code = 0x39
	Astore          Code = 0x3a
	Istore0         Code = 0x3b
	Istore1         Code = 0x3c
	Istore2         Code = 0x3d
	Istore3         Code = 0x3e
	Lstore0         Code = 0x3f
	Lstore1         Code = 0x40
	Lstore2         Code = 0x41
	Lstore3         Code = 0x42
	Fstore0         Code = 0x43
	Fstore1         Code = 0x44
	Fstore2         Code = 0x45
	Fstore3         Code = 0x46
	Dstore0         Code = 0x47
	Dstore1         Code = 0x48
	Dstore2         Code = 0x49
	Dstore3         Code = 0x4a
	Astore0         Code = 0x4b
	Astore1         Code = 0x4c
	Astore2         Code = 0x4d
	Astore3         Code = 0x4e
	Iastore         Code = 0x4f
	Lastore         Code = 0x50
	Fastore         Code = 0x51
	Dastore         Code = 0x52
	Aastore         Code = 0x53
	Bastore         Code = 0x54
	Castore         Code = 0x55
	Sastore         Code = 0x56
	Pop             Code = 0x57
	Pop2            Code = 0x58
	Dup             Code = 0x59
	DupX1           Code = 0x5a
	DupX2           Code = 0x5b
	Dup2            Code = 0x5c
	Dup2X1          Code = 0x5d
	Dup2X2          Code = 0x5e
	Swap            Code = 0x5f
	Iadd            Code = 0x60
	Ladd            Code = 0x61
	Fadd            Code = 0x62
	Dadd            Code = 0x63
	Isub            Code = 0x64
	Lsub            Code = 0x65
	Fsub            Code = 0x66
	Dsub            Code = 0x67
	Imul            Code = 0x68
	Lmul            Code = 0x69
	Fmul            Code = 0x6a
	Dmul            Code = 0x6b
	Idiv            Code = 0x6c
	Ldiv            Code = 0x6d
	Fdiv            Code = 0x6e
	Ddiv            Code = 0x6f
	Irem            Code = 0x70
	Lrem            Code = 0x71
	Frem            Code = 0x72
	Drem            Code = 0x73
	Ineg            Code = 0x74
	Lneg            Code = 0x75
	Fneg            Code = 0x76
	Dneg            Code = 0x77
	Ishl            Code = 0x78
	Lshl            Code = 0x79
	Ishr            Code = 0x7a
	Lshr            Code = 0x7b
	Iushr           Code = 0x7c
	Lushr           Code = 0x7d
	Iand            Code = 0x7e
	Land            Code = 0x7f
	Ior             Code = 0x80
	Lor             Code = 0x81
	Ixor            Code = 0x82
	Lxor            Code = 0x83
	Iinc            Code = 0x84
	I2l             Code = 0x85
	I2f             Code = 0x86
	I2d             Code = 0x87
	L2i             Code = 0x88
	L2f             Code = 0x89
	L2d             Code = 0x8a
	F2i             Code = 0x8b
	F2l             Code = 0x8c
	F2d             Code = 0x8d
	D2i             Code = 0x8e
	D2l             Code = 0x8f
	D2f             Code = 0x90
	I2b             Code = 0x91
	I2c             Code = 0x92
	I2s             Code = 0x93
	Lcmp            Code = 0x94
	Fcmpl           Code = 0x95
	Fcmpg           Code = 0x96
	Dcmpl           Code = 0x97
	Dcmpg           Code = 0x98
	Ifeq            Code = 0x99
	Ifne            Code = 0x9a
	Iflt            Code = 0x9b
	Ifge            Code = 0x9c
	Ifgt            Code = 0x9d
	Ifle            Code = 0x9e
	IfIcmpeq        Code = 0x9f
	IfIcmpne        Code = 0xa0
	IfIcmplt        Code = 0xa1
	IfIcmpge        Code = 0xa2
	IfIcmpgt        Code = 0xa3
	IfIcmple        Code = 0xa4
	IfAcmpeq        Code = 0xa5
	IfAcmpne        Code = 0xa6
	Goto            Code = 0xa7
	Jsr             Code = 0xa8
	Ret             Code = 0xa9
	Tableswitch     Code = 0xaa
	Lookupswitch    Code = 0xab
	Ireturn         Code = 0xac
	Lreturn         Code = 0xad
	Freturn         Code = 0xae
	Dreturn         Code = 0xaf
	Areturn         Code = 0xb0
	Return          Code = 0xb1
	Getstatic       Code = 0xb2
	Putstatic       Code = 0xb3
	Getfield        Code = 0xb4
	Putfield        Code = 0xb5
	Invokevirtual   Code = 0xb6
	Invokespecial   Code = 0xb7
	Invokestatic    Code = 0xb8
	Invokeinterface Code = 0xb9
	Invokedynamic   Code = 0xba
	New             Code = 0xbb
	Newarray        Code = 0xbc
	Anewarray       Code = 0xbd
	Arraylength     Code = 0xbe
	Athrow          Code = 0xbf
	Checkcast       Code = 0xc0
	Instanceof      Code = 0xc1
	Monitorenter    Code = 0xc2
	Monitorexit     Code = 0xc3
	Multianewarray  Code = 0xc5
	Ifnull          Code = 0xc6
	Ifnonnull       Code = 0xc7
	GotoW           Code = 0xc8
	JsrW            Code = 0xc9

	// Label marks a join point. It is never executed.
	Label Code = 0x100
)

// Kind classifies an opcode by its effect on control flow.
type Kind uint8

const (
	KindOther Kind = iota
	KindLabel
	KindGoto
	KindConditional
	KindSwitch
	KindReturn
	KindThrow
	KindSubroutine
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindGoto:
		return "goto"
	case KindConditional:
		return "conditional"
	case KindSwitch:
		return "switch"
	case KindReturn:
		return "return"
	case KindThrow:
		return "throw"
	case KindSubroutine:
		return "subroutine"
	default:
		return "other"
	}
}

// Operand describes the shape of an instruction's operands.
type Operand uint8

const (
	OperandNone         Operand = iota // no operands
	OperandInt                         // bipush, sipush
	OperandLocal                       // xload, xstore, ret
	OperandIinc                        // local index + increment
	OperandConst                       // ldc family
	OperandJump                        // single label target
	OperandTableSwitch                 // low + targets + default
	OperandLookupSwitch                // keys + targets + default
	OperandType                        // new, anewarray, checkcast, instanceof
	OperandNewArray                    // primitive array element type
	OperandMultiArray                  // array descriptor + dimensions
	OperandField                       // owner, name, descriptor
	OperandMethod                      // owner, name, descriptor
	OperandDynamic                     // name, descriptor, bootstrap handle and args
	OperandLabel                       // the label itself
)

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Kind    Kind
	Operand Operand
}

var (
	infos  = make([]Info, int(Label)+1)
	byName = map[string]Code{}
)

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand Operand
	}
	ops := []opInfo{
		{Nop, "nop", OperandNone},
		{AconstNull, "aconst_null", OperandNone},
		{IconstM1, "iconst_m1", OperandNone},
		{Iconst0, "iconst_0", OperandNone},
		{Iconst1, "iconst_1", OperandNone},
		{Iconst2, "iconst_2", OperandNone},
		{Iconst3, "iconst_3", OperandNone},
		{Iconst4, "iconst_4", OperandNone},
		{Iconst5, "iconst_5", OperandNone},
		{Lconst0, "lconst_0", OperandNone},
		{Lconst1, "lconst_1", OperandNone},
		{Fconst0, "fconst_0", OperandNone},
		{Fconst1, "fconst_1", OperandNone},
		{Fconst2, "fconst_2", OperandNone},
		{Dconst0, "dconst_0", OperandNone},
		{Dconst1, "dconst_1", OperandNone},
		{Bipush, "bipush", OperandInt},
		{Sipush, "sipush", OperandInt},
		{Ldc, "ldc", OperandConst},
		{LdcW, "ldc_w", OperandConst},
		{Ldc2W, "ldc2_w", OperandConst},
		{Iload, "iload", OperandLocal},
		{Lload, "lload", OperandLocal},
		{Fload, "fload", OperandLocal},
		{Dload, "dload", OperandLocal},
		{Aload, "aload", OperandLocal},
		{Iload0, "iload_0", OperandNone},
		{Iload1, "iload_1", OperandNone},
		{Iload2, "iload_2", OperandNone},
		{Iload3, "iload_3", OperandNone},
		{Lload0, "lload_0", OperandNone},
		{Lload1, "lload_1", OperandNone},
		{Lload2, "lload_2", OperandNone},
		{Lload3, "lload_3", OperandNone},
		{Fload0, "fload_0", OperandNone},
		{Fload1, "fload_1", OperandNone},
		{Fload2, "fload_2", OperandNone},
		{Fload3, "fload_3", OperandNone},
		{Dload0, "dload_0", OperandNone},
		{Dload1, "dload_1", OperandNone},
		{Dload2, "dload_2", OperandNone},
		{Dload3, "dload_3", OperandNone},
		{Aload0, "aload_0", OperandNone},
		{Aload1, "aload_1", OperandNone},
		{Aload2, "aload_2", OperandNone},
		{Aload3, "aload_3", OperandNone},
		{Iaload, "iaload", OperandNone},
		{Laload, "laload", OperandNone},
		{Faload, "faload", OperandNone},
		{Daload, "daload", OperandNone},
		{Aaload, "aaload", OperandNone},
		{Baload, "baload", OperandNone},
		{Caload, "caload", OperandNone},
		{Saload, "saload", OperandNone},
		{Istore, "istore", OperandLocal},
		{Lstore, "lstore", OperandLocal},
		{Fstore, "fstore", OperandLocal},
		{Dstore, "dstore", OperandLocal},
		{Astore, "astore", OperandLocal},
		{Istore0, "istore_0", OperandNone},
		{Istore1, "istore_1", OperandNone},
		{Istore2, "istore_2", OperandNone},
		{Istore3, "istore_3", OperandNone},
		{Lstore0, "lstore_0", OperandNone},
		{Lstore1, "lstore_1", OperandNone},
		{Lstore2, "lstore_2", OperandNone},
		{Lstore3, "lstore_3", OperandNone},
		{Fstore0, "fstore_0", OperandNone},
		{Fstore1, "fstore_1", OperandNone},
		{Fstore2, "fstore_2", OperandNone},
		{Fstore3, "fstore_3", OperandNone},
		{Dstore0, "dstore_0", OperandNone},
		{Dstore1, "dstore_1", OperandNone},
		{Dstore2, "dstore_2", OperandNone},
		{Dstore3, "dstore_3", OperandNone},
		{Astore0, "astore_0", OperandNone},
		{Astore1, "astore_1", OperandNone},
		{Astore2, "astore_2", OperandNone},
		{Astore3, "astore_3", OperandNone},
		{Iastore, "iastore", OperandNone},
		{Lastore, "lastore", OperandNone},
		{Fastore, "fastore", OperandNone},
		{Dastore, "dastore", OperandNone},
		{Aastore, "aastore", OperandNone},
		{Bastore, "bastore", OperandNone},
		{Castore, "castore", OperandNone},
		{Sastore, "sastore", OperandNone},
		{Pop, "pop", OperandNone},
		{Pop2, "pop2", OperandNone},
		{Dup, "dup", OperandNone},
		{DupX1, "dup_x1", OperandNone},
		{DupX2, "dup_x2", OperandNone},
		{Dup2, "dup2", OperandNone},
		{Dup2X1, "dup2_x1", OperandNone},
		{Dup2X2, "dup2_x2", OperandNone},
		{Swap, "swap", OperandNone},
		{Iadd, "iadd", OperandNone},
		{Ladd, "ladd", OperandNone},
		{Fadd, "fadd", OperandNone},
		{Dadd, "dadd", OperandNone},
		{Isub, "isub", OperandNone},
		{Lsub, "lsub", OperandNone},
		{Fsub, "fsub", OperandNone},
		{Dsub, "dsub", OperandNone},
		{Imul, "imul", OperandNone},
		{Lmul, "lmul", OperandNone},
		{Fmul, "fmul", OperandNone},
		{Dmul, "dmul", OperandNone},
		{Idiv, "idiv", OperandNone},
		{Ldiv, "ldiv", OperandNone},
		{Fdiv, "fdiv", OperandNone},
		{Ddiv, "ddiv", OperandNone},
		{Irem, "irem", OperandNone},
		{Lrem, "lrem", OperandNone},
		{Frem, "frem", OperandNone},
		{Drem, "drem", OperandNone},
		{Ineg, "ineg", OperandNone},
		{Lneg, "lneg", OperandNone},
		{Fneg, "fneg", OperandNone},
		{Dneg, "dneg", OperandNone},
		{Ishl, "ishl", OperandNone},
		{Lshl, "lshl", OperandNone},
		{Ishr, "ishr", OperandNone},
		{Lshr, "lshr", OperandNone},
		{Iushr, "iushr", OperandNone},
		{Lushr, "lushr", OperandNone},
		{Iand, "iand", OperandNone},
		{Land, "land", OperandNone},
		{Ior, "ior", OperandNone},
		{Lor, "lor", OperandNone},
		{Ixor, "ixor", OperandNone},
		{Lxor, "lxor", OperandNone},
		{Iinc, "iinc", OperandIinc},
		{I2l, "i2l", OperandNone},
		{I2f, "i2f", OperandNone},
		{I2d, "i2d", OperandNone},
		{L2i, "l2i", OperandNone},
		{L2f, "l2f", OperandNone},
		{L2d, "l2d", OperandNone},
		{F2i, "f2i", OperandNone},
		{F2l, "f2l", OperandNone},
		{F2d, "f2d", OperandNone},
		{D2i, "d2i", OperandNone},
		{D2l, "d2l", OperandNone},
		{D2f, "d2f", OperandNone},
		{I2b, "i2b", OperandNone},
		{I2c, "i2c", OperandNone},
		{I2s, "i2s", OperandNone},
		{Lcmp, "lcmp", OperandNone},
		{Fcmpl, "fcmpl", OperandNone},
		{Fcmpg, "fcmpg", OperandNone},
		{Dcmpl, "dcmpl", OperandNone},
		{Dcmpg, "dcmpg", OperandNone},
		{Ifeq, "ifeq", OperandJump},
		{Ifne, "ifne", OperandJump},
		{Iflt, "iflt", OperandJump},
		{Ifge, "ifge", OperandJump},
		{Ifgt, "ifgt", OperandJump},
		{Ifle, "ifle", OperandJump},
		{IfIcmpeq, "if_icmpeq", OperandJump},
		{IfIcmpne, "if_icmpne", OperandJump},
		{IfIcmplt, "if_icmplt", OperandJump},
		{IfIcmpge, "if_icmpge", OperandJump},
		{IfIcmpgt, "if_icmpgt", OperandJump},
		{IfIcmple, "if_icmple", OperandJump},
		{IfAcmpeq, "if_acmpeq", OperandJump},
		{IfAcmpne, "if_acmpne", OperandJump},
		{Goto, "goto", OperandJump},
		{Jsr, "jsr", OperandJump},
		{Ret, "ret", OperandLocal},
		{Tableswitch, "tableswitch", OperandTableSwitch},
		{Lookupswitch, "lookupswitch", OperandLookupSwitch},
		{Ireturn, "ireturn", OperandNone},
		{Lreturn, "lreturn", OperandNone},
		{Freturn, "freturn", OperandNone},
		{Dreturn, "dreturn", OperandNone},
		{Areturn, "areturn", OperandNone},
		{Return, "return", OperandNone},
		{Getstatic, "getstatic", OperandField},
		{Putstatic, "putstatic", OperandField},
		{Getfield, "getfield", OperandField},
		{Putfield, "putfield", OperandField},
		{Invokevirtual, "invokevirtual", OperandMethod},
		{Invokespecial, "invokespecial", OperandMethod},
		{Invokestatic, "invokestatic", OperandMethod},
		{Invokeinterface, "invokeinterface", OperandMethod},
		{Invokedynamic, "invokedynamic", OperandDynamic},
		{New, "new", OperandType},
		{Newarray, "newarray", OperandNewArray},
		{Anewarray, "anewarray", OperandType},
		{Arraylength, "arraylength", OperandNone},
		{Athrow, "athrow", OperandNone},
		{Checkcast, "checkcast", OperandType},
		{Instanceof, "instanceof", OperandType},
		{Monitorenter, "monitorenter", OperandNone},
		{Monitorexit, "monitorexit", OperandNone},
		{Multianewarray, "multianewarray", OperandMultiArray},
		{Ifnull, "ifnull", OperandJump},
		{Ifnonnull, "ifnonnull", OperandJump},
		{GotoW, "goto_w", OperandJump},
		{JsrW, "jsr_w", OperandJump},
		{Label, "label", OperandLabel},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Kind:    classify(o.op),
			Operand: o.operand,
		}
		byName[o.name] = o.op
	}
}

func classify(c Code) Kind {
	switch {
	case c == Label:
		return KindLabel
	case c == Goto || c == GotoW:
		return KindGoto
	case c == Jsr || c == JsrW || c == Ret:
		return KindSubroutine
	case c == Tableswitch || c == Lookupswitch:
		return KindSwitch
	case c >= Ireturn && c <= Return:
		return KindReturn
	case c == Athrow:
		return KindThrow
	case c >= Ifeq && c <= IfAcmpne, c == Ifnull, c == Ifnonnull:
		return KindConditional
	default:
		return KindOther
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty name.
func GetInfo(c Code) Info {
	if int(c) >= len(infos) {
		return Info{Code: c}
	}
	return infos[c]
}

// KindOf returns the control-flow classification of the given opcode.
func KindOf(c Code) Kind {
	return GetInfo(c).Kind
}

// Lookup returns the opcode with the given mnemonic.
func Lookup(name string) (Code, bool) {
	c, ok := byName[name]
	return c, ok
}

// IsTerminator reports whether the opcode ends a block without falling
// through: an unconditional jump, a switch or a return-family instruction.
func IsTerminator(c Code) bool {
	switch KindOf(c) {
	case KindGoto, KindSwitch, KindReturn:
		return true
	}
	return false
}

// String returns the mnemonic of the opcode.
func (c Code) String() string {
	if name := GetInfo(c).Name; name != "" {
		return name
	}
	return "unknown"
}
