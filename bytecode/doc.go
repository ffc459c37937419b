// Package bytecode provides immutable representations of loaded JVM methods
// and classes.
//
// A method is an arena of instructions addressed by index. Labels are
// instructions too (op.Label) and are referred to everywhere by their
// [Label] id, never by pointer. This keeps identity checks in the analyses
// built on top of this package as plain integer comparisons.
//
// # Key Types
//
//   - [Instruction]: a single instruction, including label markers
//   - [Method]: an immutable instruction arena plus its try-catch table
//   - [TryCatch]: a protected region and its handler (value type)
//   - [Class]: a named set of methods and fields
//   - [Dictionary]: read-only name to class lookup
//   - [Type]: a parsed field or method descriptor component
//
// # Immutability Guarantees
//
// Methods and classes are immutable after construction. Constructors copy
// input slices and validate label references, so a *Method that exists is
// well formed. Edits are expressed with a [Modifier], which produces a new
// method rather than changing the existing one.
//
// Index-based access is used for all collections:
//
//	m.InstructionAt(0)
//	m.TryCatchAt(i)
//	m.LabelIndex(label)
package bytecode
