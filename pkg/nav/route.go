package nav

import "context"

// GuardFunc is consulted before a route is removed from a stack by
// user or back navigation. Returning false vetoes the removal and
// aborts the whole containing operation. Guards may block on ctx.
type GuardFunc func(ctx context.Context) bool

// RedirectFunc substitutes a route before it is accepted into any
// stack. It returns the receiver's replacement: the same route means
// no redirect, a different route is a single-hop substitute (it is not
// re-resolved), and nil silently abandons the whole operation.
type RedirectFunc func(ctx context.Context) *Route

// DeepLinkStrategy selects how an externally supplied location is
// applied to the stacks.
type DeepLinkStrategy string

const (
	// DeepLinkReplace clears every stack and activates the route.
	// Routes without deep-link capability default to this.
	DeepLinkReplace DeepLinkStrategy = "replace"

	// DeepLinkNavigate pops to an existing equal route or pushes.
	DeepLinkNavigate DeepLinkStrategy = "navigate"

	// DeepLinkPush pushes unconditionally.
	DeepLinkPush DeepLinkStrategy = "push"

	// DeepLinkCustom delegates entirely to the route's handler; the
	// dispatcher performs no stack mutation itself.
	DeepLinkCustom DeepLinkStrategy = "custom"
)

func (s DeepLinkStrategy) normalize() DeepLinkStrategy {
	switch s {
	case DeepLinkNavigate, DeepLinkPush, DeepLinkCustom:
		return s
	default:
		return DeepLinkReplace
	}
}

// String returns the normalized strategy name.
func (s DeepLinkStrategy) String() string {
	return string(s.normalize())
}

// DeepLinkHandler is invoked for DeepLinkCustom routes.
type DeepLinkHandler func(ctx context.Context, c *Coordinator, r *Route) error

// DeepLinkSpec declares a route's deep-link behavior.
type DeepLinkSpec struct {
	Strategy DeepLinkStrategy

	// Handler is required when Strategy is DeepLinkCustom.
	Handler DeepLinkHandler
}

// Route is one navigation destination. Identity is Name plus Detail;
// Params is the mutable payload merged when an equal route is
// de-duplicated. Capabilities are optional fields, all nil/zero by
// default.
type Route struct {
	// Name is the opaque, path-like identifier (e.g. "/users").
	Name string

	// Detail discriminates instances of the same Name (e.g. an item
	// id). Two routes are equal iff Name and Detail both match.
	Detail string

	// Location, when set, is the external location this route reports
	// when it is the visible top. Parsers producing a Name distinct
	// from the parsed path (detail routes) set it so a resync emits a
	// location they can re-parse. Empty means Name.
	Location string

	// Params is the mutable, query-like payload. On de-duplication the
	// incoming instance's Params are merged into the retained one.
	Params map[string]string

	// LayoutKey names the shell this route lives under, if any.
	LayoutKey LayoutKey

	// StackName targets a specific registered stack when the route has
	// no layout. Empty means the coordinator's root.
	StackName string

	// Guard, if set, can veto removal of this route (see GuardFunc).
	Guard GuardFunc

	// Redirect, if set, substitutes this route before acceptance.
	Redirect RedirectFunc

	// RedirectRules, if non-empty, take precedence over Redirect and
	// are evaluated as an ordered chain (see RedirectRule).
	RedirectRules []RedirectRule

	// DeepLink declares how external locations reach this route.
	DeepLink *DeepLinkSpec

	owner         Path
	pending       *Pending
	poppedByStack bool
}

// NewRoute creates a route with the given identifier.
func NewRoute(name string) *Route {
	return &Route{Name: name}
}

// WithDetail sets the discriminating payload and returns the route.
func (r *Route) WithDetail(detail string) *Route {
	r.Detail = detail
	return r
}

// WithLocation sets the external location override and returns the
// route.
func (r *Route) WithLocation(location string) *Route {
	r.Location = location
	return r
}

// WithParams sets the mutable payload and returns the route.
func (r *Route) WithParams(params map[string]string) *Route {
	r.Params = params
	return r
}

// Equal reports whether two routes denote the same destination.
func (r *Route) Equal(o *Route) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Name == o.Name && r.Detail == o.Detail
}

// Identity returns the stable identity string used for restoration
// keys: the Name, plus "#Detail" when a detail is set.
func (r *Route) Identity() string {
	if r.Detail == "" {
		return r.Name
	}
	return r.Name + "#" + r.Detail
}

// Owner returns the stack currently holding this route, or nil.
func (r *Route) Owner() Path {
	return r.owner
}

// Pending returns the completion future for the current stack entry,
// or nil if the route has never been pushed.
func (r *Route) Pending() *Pending {
	return r.pending
}

// PoppedByStack reports whether the route left its last stack via a
// pop (as opposed to removal or reset).
func (r *Route) PoppedByStack() bool {
	return r.poppedByStack
}

// mergeFrom merges the mutable payload of a discarded duplicate into
// the retained instance.
func (r *Route) mergeFrom(o *Route) {
	if o == nil || o == r || len(o.Params) == 0 {
		return
	}
	if r.Params == nil {
		r.Params = make(map[string]string, len(o.Params))
	}
	for k, v := range o.Params {
		r.Params[k] = v
	}
}

// Pending is the future completed when a pushed route later leaves its
// stack: a pop delivers the pop result, a removal or reset delivers
// nil.
type Pending struct {
	done      chan struct{}
	completed bool
	value     any
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Await blocks until the route is popped or removed, returning the
// delivered result, or until ctx is done.
func (p *Pending) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Completed reports whether a result has been delivered.
func (p *Pending) Completed() bool {
	return p.completed
}

// Value returns the delivered result; nil until completed.
func (p *Pending) Value() any {
	return p.value
}

func (p *Pending) complete(v any) {
	if p == nil || p.completed {
		return
	}
	p.completed = true
	p.value = v
	close(p.done)
}
