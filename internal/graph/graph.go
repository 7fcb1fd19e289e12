// Package graph provides a small state-machine engine for agent workflows.
// A graph is a set of named nodes connected by fixed or conditional edges.
// Each node transforms a state value; routing decisions read the state the
// node produced. Cycles are legal and expected: an agent loop revisits its
// reasoning node until a router sends the run to End.
package graph

import (
	"fmt"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// End is the terminal routing target. An edge pointing at End finishes the
// run and returns the current state to the caller. End is reserved and
// cannot be used as a node name.
const End = "__end__"

// conditionalEdge pairs a router with its key-to-target table. The router
// returns a key, never a node name; the table maps keys to registered nodes
// or End.
type conditionalEdge[S any] struct {
	router  RouterFunc[S]
	targets map[string]string
}

// Graph accumulates nodes and edges before compilation. Methods record
// configuration errors instead of returning them so that wiring reads as a
// fluent chain; Compile reports everything at once.
type Graph[S any] struct {
	nodes        map[string]NodeFunc[S]
	nodeOrder    []string
	edges        map[string]string
	conditionals map[string]conditionalEdge[S]
	entry        string
	entrySet     bool
	errs         []error
}

// New creates an empty graph for the given state type.
func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:        make(map[string]NodeFunc[S]),
		edges:        make(map[string]string),
		conditionals: make(map[string]conditionalEdge[S]),
	}
}

// AddNode registers a named node. Names must be unique and non-empty, and
// End is reserved.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	if name == "" {
		g.errs = append(g.errs, fmt.Errorf("node name cannot be empty"))
		return g
	}
	if name == End {
		g.errs = append(g.errs, fmt.Errorf("node name %q is reserved", End))
		return g
	}
	if fn == nil {
		g.errs = append(g.errs, fmt.Errorf("node %q has a nil function", name))
		return g
	}
	if _, exists := g.nodes[name]; exists {
		g.errs = append(g.errs, fmt.Errorf("node %q is already registered", name))
		return g
	}
	g.nodes[name] = fn
	g.nodeOrder = append(g.nodeOrder, name)
	return g
}

// AddEdge registers a fixed transition: after from completes, the run moves
// to to. The target may be End. A node can hold at most one outgoing route,
// fixed or conditional.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	if from == "" || to == "" {
		g.errs = append(g.errs, fmt.Errorf("edge endpoints cannot be empty (from=%q, to=%q)", from, to))
		return g
	}
	if from == End {
		g.errs = append(g.errs, fmt.Errorf("cannot add an edge out of %q", End))
		return g
	}
	if g.hasRoute(from) {
		g.errs = append(g.errs, fmt.Errorf("node %q already has an outgoing route", from))
		return g
	}
	g.edges[from] = to
	return g
}

// AddConditionalEdge registers a routed transition: after from completes,
// router inspects the state and returns a key, which is resolved against
// targets. Target values may be registered nodes or End. A key the router
// returns at runtime that is absent from targets fails the run with
// ErrCodeRouteInvalid.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S], targets map[string]string) *Graph[S] {
	if from == "" {
		g.errs = append(g.errs, fmt.Errorf("conditional edge source cannot be empty"))
		return g
	}
	if router == nil {
		g.errs = append(g.errs, fmt.Errorf("conditional edge from %q has a nil router", from))
		return g
	}
	if len(targets) == 0 {
		g.errs = append(g.errs, fmt.Errorf("conditional edge from %q has no targets", from))
		return g
	}
	if g.hasRoute(from) {
		g.errs = append(g.errs, fmt.Errorf("node %q already has an outgoing route", from))
		return g
	}
	copied := make(map[string]string, len(targets))
	for key, target := range targets {
		if key == "" {
			g.errs = append(g.errs, fmt.Errorf("conditional edge from %q has an empty routing key", from))
			continue
		}
		if target == "" {
			g.errs = append(g.errs, fmt.Errorf("conditional edge from %q maps key %q to an empty target", from, key))
			continue
		}
		copied[key] = target
	}
	g.conditionals[from] = conditionalEdge[S]{router: router, targets: copied}
	return g
}

// SetEntry names the node the run starts at.
func (g *Graph[S]) SetEntry(name string) *Graph[S] {
	if name == "" {
		g.errs = append(g.errs, fmt.Errorf("entry point cannot be empty"))
		return g
	}
	g.entry = name
	g.entrySet = true
	return g
}

// hasRoute reports whether from already has an outgoing edge of either kind.
func (g *Graph[S]) hasRoute(from string) bool {
	if _, ok := g.edges[from]; ok {
		return true
	}
	_, ok := g.conditionals[from]
	return ok
}

// Compile validates the accumulated wiring and returns an executable graph.
// All configuration errors are reported together under ErrCodeConfigInvalid.
func (g *Graph[S]) Compile(opts ...Option[S]) (*Compiled[S], error) {
	errs := make([]error, len(g.errs))
	copy(errs, g.errs)

	if len(g.nodes) == 0 {
		errs = append(errs, fmt.Errorf("graph has no nodes"))
	}
	if !g.entrySet {
		errs = append(errs, fmt.Errorf("entry point is not set"))
	} else if _, ok := g.nodes[g.entry]; !ok {
		errs = append(errs, fmt.Errorf("entry point %q is not a registered node", g.entry))
	}

	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("edge source %q is not a registered node", from))
		}
		if to != End {
			if _, ok := g.nodes[to]; !ok {
				errs = append(errs, fmt.Errorf("edge %q -> %q targets an unregistered node", from, to))
			}
		}
	}
	for from, ce := range g.conditionals {
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("conditional edge source %q is not a registered node", from))
		}
		for key, target := range ce.targets {
			if target == End {
				continue
			}
			if _, ok := g.nodes[target]; !ok {
				errs = append(errs, fmt.Errorf("conditional edge from %q maps key %q to unregistered node %q", from, key, target))
			}
		}
	}

	// Every node needs a way out. A node the run can reach but not leave
	// would hang the loop, so it is rejected here rather than at runtime.
	for _, name := range g.nodeOrder {
		if !g.hasRoute(name) {
			errs = append(errs, fmt.Errorf("node %q has no outgoing route", name))
		}
	}

	if len(errs) > 0 {
		return nil, types.NewError(ErrCodeConfigInvalid,
			fmt.Sprintf("graph validation failed with %d error(s): %v", len(errs), errs))
	}

	c := &Compiled[S]{
		nodes:        make(map[string]NodeFunc[S], len(g.nodes)),
		edges:        make(map[string]string, len(g.edges)),
		conditionals: make(map[string]conditionalEdge[S], len(g.conditionals)),
		entry:        g.entry,
	}
	for name, fn := range g.nodes {
		c.nodes[name] = fn
	}
	for from, to := range g.edges {
		c.edges[from] = to
	}
	for from, ce := range g.conditionals {
		targets := make(map[string]string, len(ce.targets))
		for key, target := range ce.targets {
			targets[key] = target
		}
		c.conditionals[from] = conditionalEdge[S]{router: ce.router, targets: targets}
	}
	c.applyDefaults()
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
