package flow

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/op"
)

// Region is the set of instructions reachable from a walk's starting point,
// grouped by owning label.
type Region struct {
	labels []bytecode.Label
	insns  map[bytecode.Label][]int
}

func newRegion() *Region {
	return &Region{insns: map[bytecode.Label][]int{}}
}

func (r *Region) has(l bytecode.Label) bool {
	_, ok := r.insns[l]
	return ok
}

// reset starts (or restarts) the bucket for l.
func (r *Region) reset(l bytecode.Label) {
	if !r.has(l) {
		r.labels = append(r.labels, l)
	}
	r.insns[l] = []int{}
}

// Labels returns the visited labels in first-visit order.
func (r *Region) Labels() []bytecode.Label {
	return append([]bytecode.Label(nil), r.labels...)
}

// Instructions returns the instructions collected under label l, in the
// order they were visited.
func (r *Region) Instructions(l bytecode.Label) []int {
	return append([]int(nil), r.insns[l]...)
}

// Contains reports whether the instruction at index was reached.
func (r *Region) Contains(index int) bool {
	for _, idx := range r.insns {
		for _, i := range idx {
			if i == index {
				return true
			}
		}
	}
	return false
}

// All returns every reached instruction index in ascending order.
func (r *Region) All() []int {
	var out []int
	for _, idx := range r.insns {
		out = append(out, idx...)
	}
	sort.Ints(out)
	return out
}

type walker struct {
	method *bytecode.Method
	scopes *ScopeMap
	stop   mapset.Set[int]
	region *Region
}

// Walk collects the instructions reachable from start without passing
// through any index in stop.
//
// Branch targets, switch cases and the handlers of the try-catch regions
// active at each newly entered label are all followed. A path ends at a
// stop index, at a label that was already visited, after a goto or a switch
// once its targets have been walked, or at a return. Every path writes into
// the same Region, so the result is the union of all reachable code.
func Walk(m *bytecode.Method, start int, stop []int) (*Region, error) {
	return walkWith(m, Scopes(m), start, stop)
}

func walkWith(m *bytecode.Method, scopes *ScopeMap, start int, stop []int) (*Region, error) {
	if start < 0 || start >= m.InstructionCount() {
		return nil, errz.AnalysisErrorf(m.Key(), start, "start index out of range [0, %d)", m.InstructionCount())
	}
	w := &walker{
		method: m,
		scopes: scopes,
		stop:   mapset.NewThreadUnsafeSet[int](stop...),
		region: newRegion(),
	}
	current := m.OwningLabel(start)
	if start != w.labelIndex(current) {
		w.region.reset(current)
		for _, h := range scopes.Handlers(current) {
			if err := w.walkLabel(h); err != nil {
				return nil, err
			}
		}
	}
	if err := w.walk(start, current); err != nil {
		return nil, err
	}
	return w.region, nil
}

// labelIndex returns the stream position of l, -1 for the sentinel.
func (w *walker) labelIndex(l bytecode.Label) int {
	if idx, ok := w.method.LabelIndex(l); ok {
		return idx
	}
	return -1
}

func (w *walker) walkLabel(l bytecode.Label) error {
	return w.walk(w.labelIndex(l), l)
}

func (w *walker) walk(i int, current bytecode.Label) error {
	m := w.method
	for ; i < m.InstructionCount(); i++ {
		if w.stop.Contains(i) {
			return nil
		}
		ins := m.InstructionAt(i)
		switch ins.Kind() {
		case op.KindLabel:
			if w.region.has(ins.Label) {
				return nil
			}
			current = ins.Label
			w.region.reset(current)
			for _, h := range w.scopes.Handlers(current) {
				if err := w.walkLabel(h); err != nil {
					return err
				}
			}
			continue
		case op.KindSubroutine:
			return errz.AnalysisErrorf(m.Key(), i, "subroutines (%s) are not supported", ins.Op)
		}
		w.region.insns[current] = append(w.region.insns[current], i)
		switch ins.Kind() {
		case op.KindGoto:
			return w.walkLabel(ins.Label)
		case op.KindConditional:
			if err := w.walkLabel(ins.Label); err != nil {
				return err
			}
		case op.KindSwitch:
			for _, target := range ins.JumpTargets() {
				if err := w.walkLabel(target); err != nil {
					return err
				}
			}
			return nil
		case op.KindReturn:
			return nil
		}
	}
	return nil
}
