package filterfx

import (
	"context"
	"time"
)

// StreamEvent is one message on a streaming execution channel. Level
// events carry the results of one dependency level; the final event
// carries either the full result or the terminal error.
type StreamEvent struct {
	// Level is the dependency level the Nodes belong to.
	Level int
	// Nodes are the level's node results, in level order.
	Nodes []NodeResult
	// Result is set on the final event of a successful execution.
	Result *ExecutionResult
	// Err is set on the final event of a failed execution.
	Err error
}

// Stream executes the chain level by level, delivering each level's
// results as soon as its barrier is passed. The channel is closed after
// the final event. Structural errors surface from Stream itself, before
// the channel exists.
//
// A cache hit short-circuits streaming: the channel carries a single
// final event with the cached result.
func (c *Chain) Stream(ctx context.Context, source *SourceContent) (<-chan StreamEvent, error) {
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
			ch := make(chan StreamEvent, 1)
			ch <- StreamEvent{Level: -1, Result: &cached}
			close(ch)
			return ch, nil
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
	ch := make(chan StreamEvent)
	go func() {
		defer close(ch)

		res, err := c.run(ctx, levels, source, func(level int, nodes []NodeResult) {
			select {
			case ch <- StreamEvent{Level: level, Nodes: nodes}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			c.state.Store(chainFailed)
			c.observer.ObserveChain("failed", time.Since(start))
			select {
			case ch <- StreamEvent{Level: -1, Err: err}:
			case <-ctx.Done():
			}
			return
		}
		res.Key = key

		c.state.Store(chainCompleted)
		c.observer.ObserveChain("ok", time.Since(start))
		if c.cache != nil {
			c.cache.Put(key, res, res.SizeEstimate())
		}
		select {
		case ch <- StreamEvent{Level: -1, Result: res}:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}
