// Package provider contains the implementations of the vm provider families.
//
// An evaluation is configured with a single vm.Provider, usually a Delegating
// chain built at setup:
//
//	chain := provider.NewDelegating(
//		provider.NewCapture("demo/Sink", "take", "", onCapture),
//		provider.NewBytecode(),
//		provider.NewJVM(),
//		provider.NewFields(dict),
//		provider.NewComparison(),
//	)
//
// Each request goes to the first provider in registration order whose Can*
// predicate accepts it.
//
// Key Types
//
//   - Delegating: ordered chain of providers
//   - Base: embeddable provider that claims nothing
//   - DisabledFields, DisabledMethods: claim a whole family and fail it
//   - JVM: allow-list of host runtime methods
//   - Comparison: equality, instanceof and checkcast
//   - Fields: in-memory field store
//   - Bytecode: runs dictionary methods with the interpreter
//   - Capture: stops the evaluation when one member is called
//   - Funcs: optional function fields for one-off overrides
package provider
