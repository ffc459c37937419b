package bytecode

import "github.com/cloudcmds/unweave/op"

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

func copyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	copy(dst, src)
	return dst
}

func copyTryCatches(src []TryCatch) []TryCatch {
	if src == nil {
		return nil
	}
	dst := make([]TryCatch, len(src))
	copy(dst, src)
	return dst
}

func copyTypes(src []Type) []Type {
	if src == nil {
		return nil
	}
	dst := make([]Type, len(src))
	copy(dst, src)
	return dst
}

// Zero returns the instruction that pushes the zero value of the given type.
func Zero(t Type) Instruction {
	switch t.Sort {
	case SortBoolean, SortChar, SortByte, SortShort, SortInt:
		return Insn(op.Iconst0)
	case SortLong:
		return Insn(op.Lconst0)
	case SortFloat:
		return Insn(op.Fconst0)
	case SortDouble:
		return Insn(op.Dconst0)
	}
	return Insn(op.AconstNull)
}

// ReturnOp returns the return instruction matching the given type.
func ReturnOp(t Type) op.Code {
	switch t.Sort {
	case SortVoid:
		return op.Return
	case SortBoolean, SortChar, SortByte, SortShort, SortInt:
		return op.Ireturn
	case SortLong:
		return op.Lreturn
	case SortFloat:
		return op.Freturn
	case SortDouble:
		return op.Dreturn
	}
	return op.Areturn
}

// FindMethod looks up a method by owner, name and descriptor, walking the
// superclass chain of the owner.
func FindMethod(dict Dictionary, owner, name, desc string) (*Method, bool) {
	seen := map[string]bool{}
	for owner != "" && !seen[owner] {
		seen[owner] = true
		c, ok := dict.Lookup(owner)
		if !ok {
			return nil, false
		}
		if m, ok := c.Method(name, desc); ok {
			return m, true
		}
		owner = c.SuperName()
	}
	return nil, false
}

// ContainsInvoke reports whether the method calls owner.name with the given
// descriptor. An empty desc matches any descriptor.
func ContainsInvoke(m *Method, owner, name, desc string) bool {
	for _, ins := range m.instructions {
		if op.GetInfo(ins.Op).Operand != op.OperandMethod {
			continue
		}
		if ins.Owner == owner && ins.Name == name && (desc == "" || ins.Desc == desc) {
			return true
		}
	}
	return false
}
