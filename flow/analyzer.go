package flow

import (
	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru"

	"github.com/cloudcmds/unweave/bytecode"
)

// DefaultCacheSize is the number of methods an Analyzer remembers when no
// size is given.
const DefaultCacheSize = 256

type analysis struct {
	graph  *Graph
	scopes *ScopeMap
}

// Analyzer memoizes partitions and scope maps per method. Methods are
// immutable, so a cached result stays valid for as long as the method is
// reachable. An Analyzer is safe for concurrent use.
type Analyzer struct {
	cache *lru.Cache
}

// NewAnalyzer returns an Analyzer holding up to size methods. A size of zero
// or less selects DefaultCacheSize.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Analyzer{cache: cache}, nil
}

func (a *Analyzer) analyze(m *bytecode.Method) (*analysis, error) {
	if cached, ok := a.cache.Get(m); ok {
		return cached.(*analysis), nil
	}
	g, err := Partition(m)
	if err != nil {
		return nil, err
	}
	result := &analysis{graph: g, scopes: Scopes(m)}
	a.cache.Add(m, result)
	return result, nil
}

// Partition returns the cached partition of m, computing it on first use.
func (a *Analyzer) Partition(m *bytecode.Method) (*Graph, error) {
	result, err := a.analyze(m)
	if err != nil {
		return nil, err
	}
	return result.graph, nil
}

// Scopes returns the cached scope map of m.
func (a *Analyzer) Scopes(m *bytecode.Method) (*ScopeMap, error) {
	result, err := a.analyze(m)
	if err != nil {
		return nil, err
	}
	return result.scopes, nil
}

// Walk is like the package level Walk but reuses the cached scope map.
func (a *Analyzer) Walk(m *bytecode.Method, start int, stop []int) (*Region, error) {
	result, err := a.analyze(m)
	if err != nil {
		return nil, err
	}
	return walkWith(m, result.scopes, start, stop)
}

// Len returns the number of cached methods.
func (a *Analyzer) Len() int {
	return a.cache.Len()
}

// Purge drops every cached result.
func (a *Analyzer) Purge() {
	a.cache.Purge()
}

// PartitionClass partitions every method of c. Methods that fail are left
// out of the result and their errors are returned together.
func PartitionClass(c *bytecode.Class) (map[string]*Graph, error) {
	var errs *multierror.Error
	graphs := make(map[string]*Graph, c.MethodCount())
	for i := 0; i < c.MethodCount(); i++ {
		m := c.MethodAt(i)
		g, err := Partition(m)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		graphs[m.Name()+m.Desc()] = g
	}
	return graphs, errs.ErrorOrNil()
}
