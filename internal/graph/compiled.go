package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// NodeFunc executes one step of the workflow. It receives the current state
// and returns the next state. A returned error aborts the run; the state
// returned alongside the error is handed back to the caller as-is.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// RouterFunc inspects the state after a node completes and returns a
// routing key. The key is resolved against the target table registered
// with AddConditionalEdge.
type RouterFunc[S any] func(state S) string

// StepObserver is invoked after each node completes successfully, with the
// node name and the state it produced. Observers run synchronously on the
// run loop; keep them cheap.
type StepObserver[S any] func(node string, state S)

// Option configures a compiled graph.
type Option[S any] func(*Compiled[S])

// WithLogger sets the structured logger for run progress.
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(c *Compiled[S]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer enables OpenTelemetry spans for runs and individual nodes.
func WithTracer[S any](tracer trace.Tracer) Option[S] {
	return func(c *Compiled[S]) {
		c.tracer = tracer
	}
}

// WithNodeTimeout bounds each node execution with a deadline. Zero or
// negative disables the bound.
func WithNodeTimeout[S any](timeout time.Duration) Option[S] {
	return func(c *Compiled[S]) {
		c.nodeTimeout = timeout
	}
}

// WithStepObserver registers a callback fired after every completed node.
func WithStepObserver[S any](observer StepObserver[S]) Option[S] {
	return func(c *Compiled[S]) {
		c.observer = observer
	}
}

// Compiled is a validated, executable graph. It is immutable after Compile
// and safe for concurrent Run calls; all per-run state lives on the stack.
type Compiled[S any] struct {
	nodes        map[string]NodeFunc[S]
	edges        map[string]string
	conditionals map[string]conditionalEdge[S]
	entry        string

	logger      *slog.Logger
	tracer      trace.Tracer
	nodeTimeout time.Duration
	observer    StepObserver[S]
}

func (c *Compiled[S]) applyDefaults() {
	c.logger = slog.Default()
}

// Entry returns the name of the node runs start at.
func (c *Compiled[S]) Entry() string {
	return c.entry
}

// Nodes returns the number of registered nodes.
func (c *Compiled[S]) Nodes() int {
	return len(c.nodes)
}

// Run executes the graph from its entry point until an edge reaches End,
// a node fails, or the context is canceled. There is no built-in step
// bound: termination is the responsibility of the graph's routing and the
// caller's context.
func (c *Compiled[S]) Run(ctx context.Context, state S) (S, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "graph.run",
			trace.WithAttributes(
				attribute.String("graph.entry", c.entry),
				attribute.Int("graph.nodes", len(c.nodes)),
			))
		defer span.End()
	}

	c.logger.InfoContext(ctx, "Starting graph run",
		"entry", c.entry,
		"nodes", len(c.nodes))

	started := time.Now()
	current := c.entry
	steps := 0

	for {
		select {
		case <-ctx.Done():
			c.logger.WarnContext(ctx, "Graph run canceled",
				"node", current,
				"steps", steps)
			return state, types.WrapError(ErrCodeRunCanceled,
				fmt.Sprintf("run canceled at node %q after %d step(s)", current, steps), ctx.Err())
		default:
		}

		next, err := c.executeNode(ctx, current, steps+1, state)
		state = next
		if err != nil {
			c.logger.ErrorContext(ctx, "Graph node failed",
				"node", current,
				"step", steps+1,
				"error", err)
			return state, err
		}

		steps++
		c.logger.DebugContext(ctx, "Graph node completed",
			"node", current,
			"step", steps)
		if c.observer != nil {
			c.observer(current, state)
		}

		target, err := c.route(current, state)
		if err != nil {
			return state, err
		}
		if target == End {
			c.logger.InfoContext(ctx, "Graph run completed",
				"steps", steps,
				"duration", time.Since(started))
			return state, nil
		}
		current = target
	}
}

// executeNode runs a single node under the configured timeout and span.
func (c *Compiled[S]) executeNode(ctx context.Context, name string, step int, state S) (S, error) {
	if c.nodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.nodeTimeout)
		defer cancel()
	}
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "graph.node",
			trace.WithAttributes(
				attribute.String("node.name", name),
				attribute.Int("node.step", step),
			))
		defer span.End()
	}
	return c.nodes[name](ctx, state)
}

// route resolves the outgoing edge of from against the current state.
func (c *Compiled[S]) route(from string, state S) (string, error) {
	if to, ok := c.edges[from]; ok {
		return to, nil
	}
	ce, ok := c.conditionals[from]
	if !ok {
		// Compile guarantees every node has a route; reaching here means
		// the compiled graph was corrupted.
		return "", types.NewError(ErrCodeConfigInvalid,
			fmt.Sprintf("node %q has no outgoing route", from))
	}
	key := ce.router(state)
	target, ok := ce.targets[key]
	if !ok {
		return "", types.NewError(ErrCodeRouteInvalid,
			fmt.Sprintf("router for node %q returned unregistered key %q", from, key))
	}
	return target, nil
}
