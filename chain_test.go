package filterfx

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deckfx/filterfx/cache"
	"github.com/deckfx/filterfx/drawing"
	"github.com/deckfx/filterfx/internal/parallel"
)

// stubFilter is a scriptable Filter for engine tests. The real primitive
// implementations live one package down and would close an import cycle
// if used here.
type stubFilter struct {
	kind  Kind
	tag   string
	apply func(ctx context.Context, req *Request) (*Output, error)
}

func (f stubFilter) Kind() Kind { return f.kind }

func (f stubFilter) Apply(ctx context.Context, req *Request) (*Output, error) {
	if f.apply != nil {
		return f.apply(ctx, req)
	}
	return &Output{
		Fragment: fmt.Sprintf("<a:%s/>", f.kind),
		Commands: req.In.Commands,
		Bounds:   req.In.Bounds,
	}, nil
}

func (f stubFilter) Complexity(Params) float64 { return 1 }

// stubPolicy always answers with one fixed strategy.
type stubPolicy struct{ strategy Strategy }

func (p stubPolicy) Decide(Kind, Params, float64) Strategy { return p.strategy }

func newStubRegistry(kinds ...Kind) *Registry {
	r := NewRegistry()
	for _, k := range kinds {
		kind := k
		r.Register(kind, func() Filter { return stubFilter{kind: kind} })
	}
	return r
}

func testSource() *SourceContent {
	return &SourceContent{
		Commands: []drawing.Command{
			drawing.PolygonCommand{
				Points: []drawing.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 20, Y: 30}},
				Fill:   drawing.SolidFill{Color: drawing.RGBA{R: 200, A: 255}},
			},
		},
		Bounds: drawing.Rect{MaxX: 40, MaxY: 30},
	}
}

func mustGraph(t *testing.T, specs []PrimitiveSpec) *Graph {
	t.Helper()
	g, err := NewGraph(specs)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func TestNewChainValidation(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur}})
	reg := newStubRegistry(KindBlur)
	pol := stubPolicy{}

	if _, err := NewChain(nil, reg, pol); err == nil {
		t.Error("nil graph accepted")
	}
	if _, err := NewChain(g, nil, pol); err == nil {
		t.Error("nil registry accepted")
	}
	if _, err := NewChain(g, reg, nil); err == nil {
		t.Error("nil policy accepted")
	}
}

func TestExecuteSequential(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{
		{ID: "a", Kind: KindBlur},
		{ID: "b", Kind: KindOffset},
	})
	c, err := NewChain(g, newStubRegistry(KindBlur, KindOffset), stubPolicy{strategy: NativeEffect})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	src := testSource()
	res, err := c.Execute(context.Background(), src)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.ExecutionID == "" {
		t.Error("missing execution id")
	}
	if res.Key != CacheKey(g, src) {
		t.Error("result key does not match the cache key")
	}
	if len(res.Nodes) != 2 {
		t.Fatalf("Nodes = %d, want 2", len(res.Nodes))
	}
	if res.Final.ID != "b" || res.Final.Fragment != "<a:offset/>" {
		t.Errorf("Final = %+v, want the last node's fragment", res.Final)
	}
	if res.Final.Strategy != NativeEffect {
		t.Errorf("Final strategy = %v, want native", res.Final.Strategy)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.Cached {
		t.Error("fresh execution reported as cached")
	}
}

func TestExecuteChainReused(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur}})
	c, err := NewChain(g, newStubRegistry(KindBlur), stubPolicy{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Execute(context.Background(), testSource()); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if _, err := c.Execute(context.Background(), testSource()); !errors.Is(err, ErrChainReused) {
		t.Errorf("second Execute = %v, want ErrChainReused", err)
	}
}

func TestExecuteIsolatesNodeFailure(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry()
	reg.Register(KindBlur, func() Filter {
		return stubFilter{kind: KindBlur, apply: func(context.Context, *Request) (*Output, error) {
			return nil, boom
		}}
	})
	reg.Register(KindOffset, func() Filter { return stubFilter{kind: KindOffset} })

	g := mustGraph(t, []PrimitiveSpec{
		{ID: "a", Kind: KindBlur},
		{ID: "b", Kind: KindOffset},
	})
	c, err := NewChain(g, reg, stubPolicy{strategy: NativeEffect})
	if err != nil {
		t.Fatal(err)
	}

	src := testSource()
	res, err := c.Execute(context.Background(), src)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	a := res.Nodes[0]
	if !a.Passthrough {
		t.Error("failed node not marked as pass-through")
	}
	if a.Bounds != src.Bounds {
		t.Errorf("pass-through bounds = %v, want the input bounds", a.Bounds)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %d, want 1", len(res.Diagnostics))
	}
	d := res.Diagnostics[0]
	if d.Node != "a" || !strings.Contains(d.Message, "isolated failure") {
		t.Errorf("diagnostic = %+v", d)
	}
	// The downstream node sees the untouched input.
	if res.Final.ID != "b" || res.Final.Passthrough {
		t.Errorf("Final = %+v, want a normal result for b", res.Final)
	}
}

func TestExecuteFailFast(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry()
	reg.Register(KindBlur, func() Filter {
		return stubFilter{kind: KindBlur, apply: func(context.Context, *Request) (*Output, error) {
			return nil, boom
		}}
	})

	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur}})
	c, err := NewChain(g, reg, stubPolicy{}, WithFailFast(true))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Execute(context.Background(), testSource())
	var cerr *ChainError
	if !errors.As(err, &cerr) {
		t.Fatalf("Execute error = %v, want ChainError", err)
	}
	var perr *PrimitiveError
	if !errors.As(err, &perr) {
		t.Fatalf("ChainError does not wrap a PrimitiveError: %v", err)
	}
	if perr.Node != "a" || perr.Kind != KindBlur {
		t.Errorf("PrimitiveError = %+v", perr)
	}
	if !errors.Is(err, boom) {
		t.Error("root cause lost through the wrapping")
	}
}

func TestExecuteStructuralErrors(t *testing.T) {
	pol := stubPolicy{}

	t.Run("unregistered kind", func(t *testing.T) {
		g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindTile}})
		c, _ := NewChain(g, newStubRegistry(KindBlur), pol)
		_, err := c.Execute(context.Background(), testSource())
		var nerr *NotFoundError
		if !errors.As(err, &nerr) {
			t.Errorf("error = %v, want NotFoundError", err)
		}
	})

	t.Run("unresolved reference", func(t *testing.T) {
		g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur, In: "ghost"}})
		c, _ := NewChain(g, newStubRegistry(KindBlur), pol)
		_, err := c.Execute(context.Background(), testSource())
		var uerr *UnresolvedReferenceError
		if !errors.As(err, &uerr) {
			t.Errorf("error = %v, want UnresolvedReferenceError", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		g := mustGraph(t, []PrimitiveSpec{
			{ID: "a", Kind: KindBlur, In: "B", Result: "A"},
			{ID: "b", Kind: KindBlur, In: "A", Result: "B"},
		})
		c, _ := NewChain(g, newStubRegistry(KindBlur), pol)
		_, err := c.Execute(context.Background(), testSource())
		var cerr *CyclicGraphError
		if !errors.As(err, &cerr) {
			t.Errorf("error = %v, want CyclicGraphError", err)
		}
	})
}

func TestExecuteEMFBlob(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindTile}})
	c, err := NewChain(g, newStubRegistry(KindTile), stubPolicy{strategy: EMFFallback})
	if err != nil {
		t.Fatal(err)
	}

	res, err := c.Execute(context.Background(), testSource())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	blob := res.Final.Blob
	if len(blob) < 88 {
		t.Fatalf("blob length %d, want a full metafile header", len(blob))
	}
	if sig := binary.LittleEndian.Uint32(blob[40:]); sig != 0x464D4520 {
		t.Errorf("metafile signature = %#x", sig)
	}
	if res.Final.Strategy != EMFFallback {
		t.Errorf("strategy = %v, want emf", res.Final.Strategy)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestExecuteSizeCapEscalation(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindTile}})
	c, err := NewChain(g, newStubRegistry(KindTile), stubPolicy{strategy: EMFFallback},
		WithEMFSizeCap(50))
	if err != nil {
		t.Fatal(err)
	}

	res, err := c.Execute(context.Background(), testSource())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Final.Strategy != RasterFallback {
		t.Errorf("strategy = %v, want raster after escalation", res.Final.Strategy)
	}
	if !bytes.HasPrefix(res.Final.Blob, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("escalated blob is not PNG")
	}
	if len(res.Diagnostics) != 1 || !strings.Contains(res.Diagnostics[0].Message, "size cap") {
		t.Errorf("Diagnostics = %v, want one size-cap escalation", res.Diagnostics)
	}
}

func TestExecuteRasterOutputEscalates(t *testing.T) {
	pixels := []byte{1, 2, 3, 4}
	reg := NewRegistry()
	reg.Register(KindComposite, func() Filter {
		return stubFilter{kind: KindComposite, apply: func(_ context.Context, req *Request) (*Output, error) {
			return &Output{Raster: pixels, Bounds: req.In.Bounds}, nil
		}}
	})

	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindComposite}})
	c, err := NewChain(g, reg, stubPolicy{strategy: EMFFallback})
	if err != nil {
		t.Fatal(err)
	}

	res, err := c.Execute(context.Background(), testSource())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Final.Strategy != RasterFallback {
		t.Errorf("strategy = %v, want raster", res.Final.Strategy)
	}
	if !bytes.Equal(res.Final.Blob, pixels) {
		t.Error("raster payload not carried through")
	}
	if len(res.Diagnostics) != 1 || !strings.Contains(res.Diagnostics[0].Message, "no metafile form") {
		t.Errorf("Diagnostics = %v", res.Diagnostics)
	}
}

func TestExecuteCacheHit(t *testing.T) {
	mgr := cache.NewManager[*ExecutionResult](cache.Options[*ExecutionResult]{
		SweepInterval: -1,
	})
	defer mgr.Close()

	reg := newStubRegistry(KindBlur)
	pol := stubPolicy{strategy: NativeEffect}
	src := testSource()
	specs := []PrimitiveSpec{{ID: "a", Kind: KindBlur}}

	first, err := NewChain(mustGraph(t, specs), reg, pol, WithCache(mgr))
	if err != nil {
		t.Fatal(err)
	}
	got, err := first.Execute(context.Background(), src)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	second, err := NewChain(mustGraph(t, specs), reg, pol, WithCache(mgr))
	if err != nil {
		t.Fatal(err)
	}
	cached, err := second.Execute(context.Background(), src)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if !cached.Cached {
		t.Error("second execution not served from the cache")
	}
	if cached.ExecutionID != got.ExecutionID {
		t.Error("cached result is not the stored execution")
	}
	if stats := mgr.Stats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want one hit and one miss", stats)
	}

	// A different source geometry misses.
	other := &SourceContent{Bounds: drawing.Rect{MaxX: 1, MaxY: 1}}
	third, err := NewChain(mustGraph(t, specs), reg, pol, WithCache(mgr))
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := third.Execute(context.Background(), other)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if fresh.Cached {
		t.Error("different source geometry hit the cache")
	}
}

func TestExecuteTimeout(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindBlur, func() Filter {
		return stubFilter{kind: KindBlur, apply: func(ctx context.Context, _ *Request) (*Output, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
	})

	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur}})
	c, err := NewChain(g, reg, stubPolicy{}, WithFailFast(true), WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Execute(context.Background(), testSource())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute error = %v, want a deadline failure", err)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur}})
	c, err := NewChain(g, newStubRegistry(KindBlur), stubPolicy{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Execute(ctx, testSource()); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute error = %v, want context.Canceled", err)
	}
}

func TestExecuteParallelDiamond(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(id string) {
		mu.Lock()
		order = append(order, id)
		mu.Unlock()
	}

	reg := NewRegistry()
	for _, k := range []Kind{KindBlur, KindOffset, KindMorphology, KindComposite} {
		kind := k
		reg.Register(kind, func() Filter {
			return stubFilter{kind: kind, apply: func(_ context.Context, req *Request) (*Output, error) {
				record(req.Spec.ID)
				return &Output{Fragment: "<a:" + req.Spec.ID + "/>", Bounds: req.In.Bounds}, nil
			}}
		})
	}

	g := mustGraph(t, []PrimitiveSpec{
		{ID: "a", Kind: KindBlur, Result: "A"},
		{ID: "b", Kind: KindOffset, In: "A", Result: "B"},
		{ID: "c", Kind: KindMorphology, In: "A", Result: "C"},
		{ID: "d", Kind: KindComposite, In: "B", In2: "C"},
	})

	pool := parallel.NewPool(2)
	defer pool.Close()
	c, err := NewChain(g, reg, stubPolicy{strategy: NativeEffect},
		WithMode(Parallel), WithPool(pool))
	if err != nil {
		t.Fatal(err)
	}

	res, err := c.Execute(context.Background(), testSource())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Final.Fragment != "<a:d/>" {
		t.Errorf("Final = %+v, want d's fragment", res.Final)
	}
	if len(order) != 4 || order[0] != "a" || order[3] != "d" {
		t.Errorf("execution order = %v, want a first and d last", order)
	}
}

func TestExecuteParallelWithoutPool(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{
		{ID: "a", Kind: KindBlur, Result: "A"},
		{ID: "b", Kind: KindOffset, In: "A", Result: "B"},
		{ID: "c", Kind: KindMorphology, In: "A", Result: "C"},
		{ID: "d", Kind: KindComposite, In: "B", In2: "C"},
	})
	c, err := NewChain(g, newStubRegistry(KindBlur, KindOffset, KindMorphology, KindComposite),
		stubPolicy{strategy: NativeEffect}, WithMode(Parallel))
	if err != nil {
		t.Fatal(err)
	}

	res, err := c.Execute(context.Background(), testSource())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Nodes) != 4 || res.Final.ID != "d" {
		t.Errorf("result = %+v, want all four nodes with d final", res.Nodes)
	}
}

func TestExecuteSourceAlpha(t *testing.T) {
	var seen *Output
	reg := NewRegistry()
	reg.Register(KindBlur, func() Filter {
		return stubFilter{kind: KindBlur, apply: func(_ context.Context, req *Request) (*Output, error) {
			seen = req.In
			return &Output{Bounds: req.In.Bounds}, nil
		}}
	})

	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur, In: SourceAlpha}})
	c, err := NewChain(g, reg, stubPolicy{})
	if err != nil {
		t.Fatal(err)
	}

	src := testSource()
	if _, err := c.Execute(context.Background(), src); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if seen == nil || len(seen.Commands) != 1 {
		t.Fatalf("alpha input = %+v, want the source geometry", seen)
	}
	poly, ok := seen.Commands[0].(drawing.PolygonCommand)
	if !ok {
		t.Fatalf("alpha command = %T, want a polygon", seen.Commands[0])
	}
	fill, ok := poly.Fill.(drawing.SolidFill)
	if !ok {
		t.Fatalf("alpha fill = %T", poly.Fill)
	}
	if fill.Color != (drawing.RGBA{A: 255}) {
		t.Errorf("alpha color = %+v, want black at the original opacity", fill.Color)
	}
}

func TestExecuteNilSource(t *testing.T) {
	g := mustGraph(t, []PrimitiveSpec{{ID: "a", Kind: KindBlur}})
	c, err := NewChain(g, newStubRegistry(KindBlur), stubPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Execute(context.Background(), nil); err != nil {
		t.Errorf("Execute with nil source: %v", err)
	}
}

// recordingObserver counts observer callbacks for assertions.
type recordingObserver struct {
	mu          sync.Mutex
	decisions   int
	nodes       int
	chains      []string
	cacheHits   int
	cacheMisses int
	escalations int
}

func (o *recordingObserver) ObserveDecision(string, string) {
	o.mu.Lock()
	o.decisions++
	o.mu.Unlock()
}

func (o *recordingObserver) ObserveNode(string, string, time.Duration) {
	o.mu.Lock()
	o.nodes++
	o.mu.Unlock()
}

func (o *recordingObserver) ObserveChain(status string, _ time.Duration) {
	o.mu.Lock()
	o.chains = append(o.chains, status)
	o.mu.Unlock()
}

func (o *recordingObserver) ObserveCache(hit bool) {
	o.mu.Lock()
	if hit {
		o.cacheHits++
	} else {
		o.cacheMisses++
	}
	o.mu.Unlock()
}

func (o *recordingObserver) ObserveEscalation(string) {
	o.mu.Lock()
	o.escalations++
	o.mu.Unlock()
}

func TestExecuteObserver(t *testing.T) {
	obs := &recordingObserver{}
	g := mustGraph(t, []PrimitiveSpec{
		{ID: "a", Kind: KindBlur},
		{ID: "b", Kind: KindOffset},
	})
	c, err := NewChain(g, newStubRegistry(KindBlur, KindOffset),
		stubPolicy{strategy: EMFFallback}, WithObserver(obs), WithEMFSizeCap(50))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Execute(context.Background(), testSource()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if obs.decisions != 2 || obs.nodes != 2 {
		t.Errorf("decisions/nodes = %d/%d, want 2/2", obs.decisions, obs.nodes)
	}
	if len(obs.chains) != 1 || obs.chains[0] != "ok" {
		t.Errorf("chain observations = %v, want [ok]", obs.chains)
	}
	if obs.escalations != 2 {
		t.Errorf("escalations = %d, want one per capped node", obs.escalations)
	}
}
