package nav

import (
	errs "github.com/vango-dev/waypoint/internal/errors"
)

// ParseFunc turns a canonical location string into a route, or nil
// when the location is not recognized.
type ParseFunc func(location string) *Route

// Module is a unit contributing route-parsing logic and optional
// paths to an aggregating coordinator. A Coordinator is itself a
// Module, so coordinators compose arbitrarily deep.
type Module interface {
	// Parse returns the route for a location, or nil when this module
	// does not recognize it.
	Parse(location string) *Route

	// Paths returns the paths this module contributes, so Replace can
	// reset them.
	Paths() []Path
}

// moduleFunc is the plain module: a parser plus its paths.
type moduleFunc struct {
	parse ParseFunc
	paths []Path
}

// NewModule wraps a parser and its paths into a Module.
func NewModule(parse ParseFunc, paths ...Path) Module {
	return &moduleFunc{parse: parse, paths: paths}
}

func (m *moduleFunc) Parse(location string) *Route {
	if m.parse == nil {
		return nil
	}
	return m.parse(location)
}

func (m *moduleFunc) Paths() []Path {
	out := make([]Path, len(m.paths))
	copy(out, m.paths)
	return out
}

// Aggregator composes an ordered collection of modules. Parsing tries
// each module in registration order; the first non-nil result wins.
// The fallback produces the mandatory "not found" route for unmatched
// locations and is required at construction.
type Aggregator struct {
	modules  []Module
	fallback ParseFunc
}

// NewAggregator builds an aggregator. A nil fallback is a
// configuration error (N200), surfaced here rather than at the first
// unmatched location.
func NewAggregator(fallback ParseFunc, modules ...Module) (*Aggregator, error) {
	if fallback == nil {
		return nil, errs.New("N200")
	}
	return &Aggregator{modules: modules, fallback: fallback}, nil
}

// Add appends a module to the parse order.
func (a *Aggregator) Add(m Module) {
	a.modules = append(a.modules, m)
}

// Parse resolves a location through the modules, falling back to the
// "not found" route. Never returns nil unless the fallback does.
func (a *Aggregator) Parse(location string) *Route {
	if r := a.parseModules(location); r != nil {
		return r
	}
	return a.fallback(location)
}

// parseModules is Parse without the fallback, used when the aggregator
// itself acts as a module inside a parent.
func (a *Aggregator) parseModules(location string) *Route {
	for _, m := range a.modules {
		if r := m.Parse(location); r != nil {
			return r
		}
	}
	return nil
}

// Paths returns every module's paths in registration order.
func (a *Aggregator) Paths() []Path {
	var out []Path
	for _, m := range a.modules {
		out = append(out, m.Paths()...)
	}
	return out
}

// =============================================================================
// Coordinator as a module
// =============================================================================

// SetModules attaches the aggregator the coordinator parses external
// locations through.
func (c *Coordinator) SetModules(a *Aggregator) {
	c.agg = a
}

// Modules returns the coordinator's aggregator, or nil.
func (c *Coordinator) Modules() *Aggregator {
	return c.agg
}

// Parse implements Module: locations are tried against the
// coordinator's own modules, without the fallback, so a parent
// aggregator can fall through to its other modules.
func (c *Coordinator) Parse(location string) *Route {
	if c.agg == nil {
		return nil
	}
	return c.agg.parseModules(location)
}

// Paths implements Module: the coordinator's registered paths.
func (c *Coordinator) Paths() []Path {
	out := make([]Path, len(c.paths))
	copy(out, c.paths)
	return out
}

// Adopt composes a child coordinator into this one. The child's root
// becomes an alias of the parent's root — one real root per standalone
// tree — and, when the parent has an aggregator, the child joins the
// parse order as a module. The child keeps a handle to its parent; the
// parent owns the child registry.
//
// Adoption must happen before the child navigates: a child with a
// non-empty root is a configuration error.
func (c *Coordinator) Adopt(child *Coordinator) {
	if child.root.Len() > 0 {
		panic(errs.Newf(errs.CategoryConfig, "coordinator %q cannot adopt %q: child root is not empty", c.label, child.label))
	}
	child.root = c.root
	child.paths[0] = c.root
	child.parent = c
	c.children = append(c.children, child)
	if c.agg != nil {
		c.agg.Add(child)
	}
}

// Parent returns the adopting coordinator, or nil for a standalone
// one.
func (c *Coordinator) Parent() *Coordinator {
	return c.parent
}

// Children returns the adopted child coordinators.
func (c *Coordinator) Children() []*Coordinator {
	out := make([]*Coordinator, len(c.children))
	copy(out, c.children)
	return out
}
