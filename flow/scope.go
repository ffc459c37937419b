package flow

import "github.com/cloudcmds/unweave/bytecode"

// ScopeMap records which try-catch regions are active at each label.
type ScopeMap struct {
	method *bytecode.Method
	active map[bytecode.Label][]int
}

// Scopes resolves the active try-catch regions for every label of m.
//
// At a label, regions starting there become active first and regions ending
// there are then removed, so a region whose start and end coincide is never
// active. The active list keeps activation order.
func Scopes(m *bytecode.Method) *ScopeMap {
	s := &ScopeMap{method: m, active: map[bytecode.Label][]int{}}
	var open []int
	for i := 0; i < m.InstructionCount(); i++ {
		ins := m.InstructionAt(i)
		if !ins.IsLabel() {
			continue
		}
		for n := 0; n < m.TryCatchCount(); n++ {
			if m.TryCatchAt(n).Start == ins.Label {
				open = append(open, n)
			}
		}
		kept := open[:0:0]
		for _, n := range open {
			if m.TryCatchAt(n).End != ins.Label {
				kept = append(kept, n)
			}
		}
		open = kept
		s.active[ins.Label] = append([]int(nil), open...)
	}
	return s
}

// ActiveAt returns the try-catch regions active at the given label. The
// sentinel and unknown labels have none.
func (s *ScopeMap) ActiveAt(l bytecode.Label) []bytecode.TryCatch {
	idx := s.active[l]
	out := make([]bytecode.TryCatch, 0, len(idx))
	for _, n := range idx {
		out = append(out, s.method.TryCatchAt(n))
	}
	return out
}

// ActiveIndexes returns the try-catch table positions of the regions active
// at the given label.
func (s *ScopeMap) ActiveIndexes(l bytecode.Label) []int {
	return append([]int(nil), s.active[l]...)
}

// Handlers returns the handler labels of the regions active at l, in
// activation order.
func (s *ScopeMap) Handlers(l bytecode.Label) []bytecode.Label {
	idx := s.active[l]
	out := make([]bytecode.Label, 0, len(idx))
	for _, n := range idx {
		out = append(out, s.method.TryCatchAt(n).Handler)
	}
	return out
}

// Covering returns the regions active for the instruction at index, that is
// the regions active at its owning label.
func (s *ScopeMap) Covering(index int) []bytecode.TryCatch {
	return s.ActiveAt(s.method.OwningLabel(index))
}
