package filterfx

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/deckfx/filterfx/drawing"
)

// Well-known input sources. A spec's In/In2 may name one of these instead
// of a prior result binding.
const (
	// SourceGraphic is the filtered element as rendered.
	SourceGraphic = "SourceGraphic"
	// SourceAlpha is the alpha channel of the filtered element.
	SourceAlpha = "SourceAlpha"
	// BackgroundImage is the accumulated backdrop behind the element.
	BackgroundImage = "BackgroundImage"
)

// IsWellKnownSource reports whether name is one of the predefined input
// sources.
func IsWellKnownSource(name string) bool {
	switch name {
	case SourceGraphic, SourceAlpha, BackgroundImage:
		return true
	}
	return false
}

// PrimitiveSpec describes one primitive instance in a filter graph.
// The upstream parser produces specs with typed, unit-normalized
// parameters and validated references; specs are immutable once the graph
// is built.
type PrimitiveSpec struct {
	// ID uniquely identifies the spec within its graph.
	ID string
	// Kind is the primitive kind.
	Kind Kind
	// Params holds the primitive's parameters.
	Params Params
	// In names the primary input: a prior result binding or a well-known
	// source. Empty means the previous primitive's result (SourceGraphic
	// for the first primitive).
	In string
	// In2 names the secondary input for two-input primitives.
	In2 string
	// Result is the name this primitive's output is bound to.
	// Empty results can only be consumed implicitly by the next primitive.
	Result string
	// Region is the effect region of the primitive in device units.
	Region drawing.Rect
}

// Graph is an ordered collection of primitive specs forming a DAG via
// result-name references. A Graph is built once per filtered element and
// is immutable afterwards.
type Graph struct {
	specs []PrimitiveSpec
}

// NewGraph builds a graph from an ordered spec list.
// It validates spec ids for uniqueness; reference resolution and cycle
// detection happen when a chain resolves the graph, so that structural
// errors surface through the chain's documented error taxonomy.
func NewGraph(specs []PrimitiveSpec) (*Graph, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("filterfx: graph needs at least one primitive")
	}
	seen := make(map[string]struct{}, len(specs))
	for i := range specs {
		if specs[i].ID == "" {
			return nil, fmt.Errorf("filterfx: spec %d has an empty id", i)
		}
		if _, dup := seen[specs[i].ID]; dup {
			return nil, fmt.Errorf("filterfx: duplicate spec id %q", specs[i].ID)
		}
		seen[specs[i].ID] = struct{}{}
	}
	g := &Graph{specs: make([]PrimitiveSpec, len(specs))}
	copy(g.specs, specs)
	return g, nil
}

// Len returns the number of primitives in the graph.
func (g *Graph) Len() int { return len(g.specs) }

// Specs returns the specs in construction order.
// The returned slice is shared; callers must not modify it.
func (g *Graph) Specs() []PrimitiveSpec { return g.specs }

// StructuralHash returns a hash of the graph's structure: the kinds and
// the input wiring, but not the parameter values. Combined with the
// parameter hash and the input fingerprint it forms the cache key.
func (g *Graph) StructuralHash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := range g.specs {
		s := &g.specs[i]
		_, _ = h.Write([]byte{byte(s.Kind)})
		_, _ = h.Write([]byte(s.In))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(s.In2))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(s.Result))
		_, _ = h.Write([]byte{0})
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(len(g.specs)))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// ParamsHash returns a hash of all parameter values across the graph, in
// spec order. Parameter map iteration order does not affect the result.
func (g *Graph) ParamsHash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := range g.specs {
		binary.LittleEndian.PutUint64(buf[:], g.specs[i].Params.Hash())
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// node is a resolved graph node: the spec plus its predecessor indices and
// resolved filter implementation.
type node struct {
	index  int
	spec   *PrimitiveSpec
	filter Filter
	// in and in2 are predecessor node indices, or -1 when the input is a
	// well-known source (the source name is kept alongside).
	in, in2         int
	inName, in2Name string
}

// resolve validates references, resolves filters through the registry and
// topologically sorts the nodes into dependency levels.
//
// Reference semantics: an input name binds to the nearest preceding
// producer of that result name. If only later producers exist the edge
// points forward, which is how reference cycles enter the graph; Kahn's
// algorithm then reports them as a CyclicGraphError.
func (g *Graph) resolve(registry *Registry) ([][]*node, error) {
	n := len(g.specs)
	nodes := make([]*node, n)

	for i := range g.specs {
		spec := &g.specs[i]
		filter, err := registry.Resolve(spec.Kind)
		if err != nil {
			return nil, err
		}
		nodes[i] = &node{index: i, spec: spec, filter: filter, in: -1, in2: -1}
	}

	wire := func(nd *node, name string, slot *int, slotName *string) error {
		if IsWellKnownSource(name) {
			*slotName = name
			return nil
		}
		j, err := g.producerOf(name, nd.index)
		if err != nil {
			return &UnresolvedReferenceError{Node: nd.spec.ID, Reference: name}
		}
		*slot = j
		return nil
	}

	for i, nd := range nodes {
		switch in := nd.spec.In; {
		case in == "" && i == 0:
			// Implicit input of the first primitive is the source graphic.
			nd.inName = SourceGraphic
		case in == "":
			// Implicit input: the previous primitive's result.
			nd.in = i - 1
		default:
			if err := wire(nd, in, &nd.in, &nd.inName); err != nil {
				return nil, err
			}
		}
		if in2 := nd.spec.In2; in2 != "" {
			if err := wire(nd, in2, &nd.in2, &nd.in2Name); err != nil {
				return nil, err
			}
		}
	}

	return levelSort(nodes)
}

// producerOf finds the node index a result-name reference binds to, seen
// from the node at position from: the nearest preceding producer, or the
// earliest following one when no producer precedes (a forward reference).
func (g *Graph) producerOf(result string, from int) (int, error) {
	for i := from - 1; i >= 0; i-- {
		if g.specs[i].Result == result {
			return i, nil
		}
	}
	for i := from; i < len(g.specs); i++ {
		if g.specs[i].Result == result {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no producer for %q", result)
}

// levelSort groups nodes into dependency levels with Kahn's algorithm.
// Nodes within one level have no data relationship and may run
// concurrently; a node's predecessors always sit in earlier levels.
func levelSort(nodes []*node) ([][]*node, error) {
	n := len(nodes)
	indegree := make([]int, n)
	successors := make([][]int, n)

	addEdge := func(from, to int) {
		if from >= 0 && from != to {
			successors[from] = append(successors[from], to)
			indegree[to]++
		}
	}
	for i, nd := range nodes {
		addEdge(nd.in, i)
		addEdge(nd.in2, i)
		// A self-reference is the smallest possible cycle.
		if nd.in == i || nd.in2 == i {
			return nil, &CyclicGraphError{Nodes: []string{nd.spec.ID}}
		}
	}

	var levels [][]*node
	frontier := make([]int, 0, n)
	for i, d := range indegree {
		if d == 0 {
			frontier = append(frontier, i)
		}
	}

	placed := 0
	for len(frontier) > 0 {
		level := make([]*node, 0, len(frontier))
		next := frontier[:0:0]
		for _, i := range frontier {
			level = append(level, nodes[i])
			placed++
			for _, succ := range successors[i] {
				indegree[succ]--
				if indegree[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		levels = append(levels, level)
		frontier = next
	}

	if placed != n {
		var cyclic []string
		for i, d := range indegree {
			if d > 0 {
				cyclic = append(cyclic, nodes[i].spec.ID)
			}
		}
		return nil, &CyclicGraphError{Nodes: cyclic}
	}
	return levels, nil
}
