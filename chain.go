package filterfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/deckfx/filterfx/cache"
	"github.com/deckfx/filterfx/drawing"
	"github.com/deckfx/filterfx/emf"
	"github.com/deckfx/filterfx/internal/parallel"
	"github.com/deckfx/filterfx/internal/raster"
)

// DefaultPrimitiveTimeout bounds a single primitive's execution unless
// overridden with WithTimeout.
const DefaultPrimitiveTimeout = 5 * time.Second

// Chain lifecycle states.
const (
	chainPending uint32 = iota
	chainResolving
	chainExecuting
	chainCompleted
	chainFailed
)

// Chain executes one filter graph against one source content.
//
// A chain is single-use: it resolves its graph, runs every primitive
// once and produces one ExecutionResult. Calling Execute or Stream a
// second time returns ErrChainReused. The configured collaborators
// (registry, policy, cache, pool) are shared and long-lived; the chain
// itself is cheap to construct per filtered element.
type Chain struct {
	graph    *Graph
	registry *Registry
	policy   Policy

	mode       Mode
	failFast   bool
	timeout    time.Duration
	emfSizeCap int
	cache      *cache.Manager[*ExecutionResult]
	pool       *parallel.Pool
	observer   Observer
	logger     *slog.Logger

	state atomic.Uint32
}

// NewChain creates a chain for the given graph. The registry supplies
// primitive implementations at resolve time and the policy picks each
// node's strategy; both are required.
func NewChain(graph *Graph, registry *Registry, policy Policy, opts ...Option) (*Chain, error) {
	if graph == nil {
		return nil, fmt.Errorf("filterfx: chain needs a graph")
	}
	if registry == nil {
		return nil, fmt.Errorf("filterfx: chain needs a registry")
	}
	if policy == nil {
		return nil, fmt.Errorf("filterfx: chain needs a policy")
	}
	c := &Chain{
		graph:      graph,
		registry:   registry,
		policy:     policy,
		timeout:    DefaultPrimitiveTimeout,
		emfSizeCap: emf.DefaultSizeCap,
		observer:   nopObserver{},
		logger:     Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CacheKey computes the cache key for a graph applied to a source:
// graph structure, parameter values and source fingerprint combined.
// Exported so embedders can invalidate entries without a chain.
func CacheKey(g *Graph, source *SourceContent) uint64 {
	return g.StructuralHash() ^ g.ParamsHash() ^ source.fingerprint()
}

// Execute runs the chain to completion and returns its result.
//
// Structural errors (unknown kinds, unresolved references, cycles)
// surface here before any primitive runs. Node failures are isolated as
// identity pass-throughs with a diagnostic unless fail-fast is enabled,
// in which case the first failure aborts with a ChainError.
func (c *Chain) Execute(ctx context.Context, source *SourceContent) (*ExecutionResult, error) {
	if !c.state.CompareAndSwap(chainPending, chainResolving) {
		return nil, ErrChainReused
	}
	start := time.Now()
	if source == nil {
		source = &SourceContent{}
	}
	key := CacheKey(c.graph, source)

	if c.cache != nil {
		if res, ok := c.cache.Get(key); ok {
			c.observer.ObserveCache(true)
			c.state.Store(chainCompleted)
			c.observer.ObserveChain("cached", time.Since(start))
			cached := *res
			cached.Cached = true
			return &cached, nil
		}
		c.observer.ObserveCache(false)
	}

	levels, err := c.graph.resolve(c.registry)
	if err != nil {
		c.state.Store(chainFailed)
		c.observer.ObserveChain("failed", time.Since(start))
		return nil, err
	}

	c.state.Store(chainExecuting)
	res, err := c.run(ctx, levels, source, nil)
	if err != nil {
		c.state.Store(chainFailed)
		c.observer.ObserveChain("failed", time.Since(start))
		return nil, err
	}
	res.Key = key

	c.state.Store(chainCompleted)
	c.observer.ObserveChain("ok", time.Since(start))
	if c.cache != nil {
		c.cache.Put(key, res, res.SizeEstimate())
	}
	return res, nil
}

// run executes resolved levels in order. emit, when non-nil, receives
// each level's results as soon as the level's barrier is passed.
func (c *Chain) run(ctx context.Context, levels [][]*node, source *SourceContent, emit func(int, []NodeResult)) (*ExecutionResult, error) {
	execID := uuid.NewString()
	n := c.graph.Len()
	outputs := make([]*Output, n)
	results := make([]NodeResult, n)

	st := &runState{}

	pool := c.pool
	if c.mode == Parallel && pool == nil {
		pool = parallel.NewPool(0)
		defer pool.Close()
	}

	for li, level := range levels {
		if err := ctx.Err(); err != nil {
			return nil, &ChainError{Err: err}
		}

		if c.mode == Parallel && len(level) > 1 {
			var wg sync.WaitGroup
			for _, nd := range level {
				nd := nd
				wg.Add(1)
				task := func() {
					defer wg.Done()
					c.runNode(ctx, nd, source, outputs, results, st)
				}
				if err := pool.Submit(ctx, task); err != nil {
					wg.Done()
					st.fail(err)
				}
			}
			wg.Wait()
		} else {
			for _, nd := range level {
				c.runNode(ctx, nd, source, outputs, results, st)
				if st.failed() != nil {
					break
				}
			}
		}

		if err := st.failed(); err != nil {
			return nil, &ChainError{Err: err}
		}
		if emit != nil {
			lr := make([]NodeResult, 0, len(level))
			for _, nd := range level {
				lr = append(lr, results[nd.index])
			}
			emit(li, lr)
		}
	}

	return &ExecutionResult{
		ExecutionID: execID,
		Nodes:       results,
		Final:       results[n-1],
		Diagnostics: st.diags,
	}, nil
}

// runState holds the shared mutable execution state: diagnostics and
// the first fail-fast error. Node outputs and results live in
// per-index slots and need no locking.
type runState struct {
	mu    sync.Mutex
	diags []Diagnostic
	abort error
}

func (s *runState) fail(err error) {
	s.mu.Lock()
	if s.abort == nil {
		s.abort = err
	}
	s.mu.Unlock()
}

func (s *runState) failed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abort
}

func (s *runState) diagnose(d Diagnostic) {
	s.mu.Lock()
	s.diags = append(s.diags, d)
	s.mu.Unlock()
}

// runNode executes one node: strategy decision, primitive application,
// payload encoding and, on failure, isolation or abort.
func (c *Chain) runNode(ctx context.Context, nd *node, source *SourceContent, outputs []*Output, results []NodeResult, st *runState) {
	start := time.Now()
	spec := nd.spec
	kind := spec.Kind.String()

	strategy := c.policy.Decide(spec.Kind, spec.Params, nd.filter.Complexity(spec.Params))
	c.observer.ObserveDecision(kind, strategy.String())

	in := c.input(nd.in, nd.inName, source, outputs)
	var in2 *Output
	if nd.in2 >= 0 || nd.in2Name != "" {
		in2 = c.input(nd.in2, nd.in2Name, source, outputs)
	}

	out, nr, diag, err := c.applyNode(ctx, nd, strategy, in, in2)
	if err != nil {
		c.observer.ObserveNode(kind, "failed", time.Since(start))
		perr := &PrimitiveError{Node: spec.ID, Kind: spec.Kind, Err: err}
		if c.failFast {
			st.fail(perr)
			return
		}

		// Isolation: the node becomes an identity pass-through of its
		// primary input, and the failure is demoted to a diagnostic.
		c.logger.Warn("node failure isolated",
			"node", spec.ID, "kind", kind, "error", err)
		st.diagnose(Diagnostic{
			ID:      uuid.NewString(),
			Node:    spec.ID,
			Message: fmt.Sprintf("isolated failure, input passed through: %v", err),
		})
		outputs[nd.index] = in.Clone()
		results[nd.index] = NodeResult{
			ID:          spec.ID,
			Kind:        spec.Kind,
			Strategy:    strategy,
			Bounds:      in.Bounds,
			Passthrough: true,
		}
		return
	}

	if diag != nil {
		st.diagnose(*diag)
	}
	outputs[nd.index] = out
	results[nd.index] = nr
	c.observer.ObserveNode(kind, "ok", time.Since(start))
}

// applyNode runs the primitive and shapes its payload for the chosen
// strategy. A metafile encode that exceeds the size cap escalates to
// the raster path, reported through the returned diagnostic.
func (c *Chain) applyNode(ctx context.Context, nd *node, strategy Strategy, in, in2 *Output) (*Output, NodeResult, *Diagnostic, error) {
	spec := nd.spec

	actx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := nd.filter.Apply(actx, &Request{
		Spec:     *spec,
		Strategy: strategy,
		In:       in,
		In2:      in2,
	})
	if err != nil {
		return nil, NodeResult{}, nil, err
	}

	nr := NodeResult{ID: spec.ID, Kind: spec.Kind, Strategy: strategy, Bounds: out.Bounds}
	var diag *Diagnostic

	switch strategy {
	case NativeEffect, VectorApprox:
		nr.Fragment = out.Fragment

	case EMFFallback:
		if out.Raster != nil {
			// The primitive had to compose pixels directly; no metafile
			// form exists for its output.
			nr.Blob = out.Raster
			nr.Strategy = RasterFallback
			diag = c.escalation(spec, "no metafile form for output, rasterized")
			break
		}
		doc, encErr := emf.Encode(out.Commands, out.Bounds, emf.Options{SizeCap: c.emfSizeCap})
		switch {
		case encErr == nil:
			nr.Blob = doc.Bytes()
		case errors.Is(encErr, emf.ErrSizeExceeded):
			blob, rerr := raster.Render(out.Commands, out.Bounds)
			if rerr != nil {
				return nil, NodeResult{}, nil, rerr
			}
			nr.Blob = blob
			nr.Strategy = RasterFallback
			diag = c.escalation(spec, fmt.Sprintf("metafile exceeded size cap, rasterized: %v", encErr))
		default:
			return nil, NodeResult{}, nil, encErr
		}
	}

	return out, nr, diag, nil
}

// escalation records a metafile-to-raster escalation for a node.
func (c *Chain) escalation(spec *PrimitiveSpec, msg string) *Diagnostic {
	c.observer.ObserveEscalation(spec.Kind.String())
	c.logger.Info("metafile fallback escalated to raster",
		"node", spec.ID, "kind", spec.Kind.String())
	return &Diagnostic{ID: uuid.NewString(), Node: spec.ID, Message: msg}
}

// input resolves a node input slot: a predecessor's output or one of
// the well-known sources derived from the source content.
func (c *Chain) input(idx int, name string, source *SourceContent, outputs []*Output) *Output {
	if idx >= 0 {
		return outputs[idx]
	}
	switch name {
	case SourceAlpha:
		return &Output{Commands: alphaCommands(source.Commands), Bounds: source.Bounds}
	case BackgroundImage:
		// The embedder supplies no backdrop; the background is empty.
		return &Output{Bounds: source.Bounds}
	default:
		return &Output{Commands: source.Commands, Bounds: source.Bounds}
	}
}

// alphaCommands reduces commands to their alpha channel: geometry is
// kept, every color collapses to black at its original opacity.
func alphaCommands(cmds []drawing.Command) []drawing.Command {
	out := make([]drawing.Command, len(cmds))
	for i, cmd := range cmds {
		switch cmd := cmd.(type) {
		case drawing.PolygonCommand:
			cmd.Fill = alphaFill(cmd.Fill)
			out[i] = cmd
		case drawing.PolylineCommand:
			cmd.Color = drawing.RGBA{A: cmd.Color.A}
			out[i] = cmd
		case drawing.FillRectCommand:
			cmd.Fill = alphaFill(cmd.Fill)
			out[i] = cmd
		case drawing.TextCommand:
			cmd.Color = drawing.RGBA{A: cmd.Color.A}
			out[i] = cmd
		default:
			out[i] = cmd
		}
	}
	return out
}

func alphaFill(f drawing.Fill) drawing.Fill {
	switch fill := f.(type) {
	case drawing.SolidFill:
		fill.Color = drawing.RGBA{A: fill.Color.A}
		return fill
	case drawing.PatternFill:
		fill.Color = drawing.RGBA{A: fill.Color.A}
		return fill
	}
	return f
}
