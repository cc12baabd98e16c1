package nav

import (
	"context"
	"log/slog"
	"net/url"

	errs "github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/navpath"
)

// Coordinator orchestrates the navigation state machine: it owns the
// root stack, the layout factory registry, the module aggregator, and
// the middleware chain, and exposes the public navigation operations.
//
// Every operation follows the same skeleton: resolve the redirect,
// resolve the layout chain, select the target path, apply the stack
// operation, notify. Per-call outcomes (vetoed guard, aborted
// redirect) are return values; misconfiguration (unregistered layout
// key) panics with a coded error.
type Coordinator struct {
	label     string
	logger    *slog.Logger
	root      *Stack
	factories map[LayoutKey]LayoutFactory
	active    []*Layout
	paths     []Path
	agg       *Aggregator
	parent    *Coordinator
	children  []*Coordinator
	mw        []Middleware

	onChange   map[int]func()
	nextChange int
	onResync   map[int]func()
	nextResync int

	pruning bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMiddleware installs operation middleware, run around every
// public coordinator operation in order.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Coordinator) {
		c.mw = append(c.mw, mw...)
	}
}

// New creates a standalone coordinator with an empty root stack
// labeled "root".
func New(label string, opts ...Option) *Coordinator {
	c := &Coordinator{
		label:     label,
		logger:    slog.Default(),
		factories: make(map[LayoutKey]LayoutFactory),
		onChange:  make(map[int]func()),
		onResync:  make(map[int]func()),
	}
	c.root = newStack(c, "root", true)
	c.paths = []Path{c.root}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Label returns the coordinator's debug label.
func (c *Coordinator) Label() string { return c.label }

// Root returns the root stack.
func (c *Coordinator) Root() *Stack { return c.root }

// Logger returns the coordinator's logger.
func (c *Coordinator) Logger() *slog.Logger { return c.logger }

// Use appends operation middleware.
func (c *Coordinator) Use(mw ...Middleware) {
	c.mw = append(c.mw, mw...)
}

// RegisterLayout registers the factory for a layout key. Keys must be
// registered before any route naming them is navigated to.
func (c *Coordinator) RegisterLayout(key LayoutKey, factory LayoutFactory) {
	c.factories[key] = factory
}

// AddPath registers an additional path (beyond the root) so that
// Replace resets it and routes can target it by StackName.
func (c *Coordinator) AddPath(p Path) {
	c.paths = append(c.paths, p)
}

// PathByLabel returns the registered path with the given label, or nil.
func (c *Coordinator) PathByLabel(label string) Path {
	for _, p := range c.paths {
		if p.Label() == label {
			return p
		}
	}
	return nil
}

// ActiveLayouts returns the live layout instances, outermost first for
// each activated chain.
func (c *Coordinator) ActiveLayouts() []*Layout {
	out := make([]*Layout, len(c.active))
	copy(out, c.active)
	return out
}

// OnChange registers a listener fired synchronously after any path
// owned by this coordinator mutates. Returns the cancel function.
func (c *Coordinator) OnChange(fn func()) func() {
	id := c.nextChange
	c.nextChange++
	c.onChange[id] = fn
	return func() { delete(c.onChange, id) }
}

// OnResync registers a listener for the location resync signal: fired
// when an externally requested navigation is rejected by a guard, so
// the host can revert an optimistic external-location change.
func (c *Coordinator) OnResync(fn func()) func() {
	id := c.nextResync
	c.nextResync++
	c.onResync[id] = fn
	return func() { delete(c.onResync, id) }
}

// =============================================================================
// Navigation operations
// =============================================================================

// Push resolves the route's redirect and layout chain and appends it
// to its target path (or activates it, for an indexed path). The
// returned future completes when the route is popped or removed; nil
// when the redirect aborted the operation or the target is indexed.
func (c *Coordinator) Push(ctx context.Context, r *Route) *Pending {
	var p *Pending
	op := &Op{Kind: OpPush, Route: r, Coordinator: c}
	c.run(op, func() error {
		p, op.Status = c.applyPush(ctx, r)
		return nil
	})
	return p
}

// PushOrMoveToTop is Push with de-duplication on the target path.
func (c *Coordinator) PushOrMoveToTop(ctx context.Context, r *Route) *Pending {
	var p *Pending
	op := &Op{Kind: OpPushOrMoveToTop, Route: r, Coordinator: c}
	c.run(op, func() error {
		target := resolveRedirect(ctx, r)
		if target == nil {
			op.Status = StatusAborted
			return nil
		}
		dest := c.destination(target, chainPushToTop)
		switch d := dest.(type) {
		case *Stack:
			p = d.pushOrMoveToTop(target)
		case *IndexedStack:
			d.mustActivate(target)
		}
		op.Status = StatusApplied
		return nil
	})
	return p
}

// Replace resets every registered path, discards all active layouts,
// and activates the route in its freshly resolved chain. The root ends
// up holding exactly one entity.
func (c *Coordinator) Replace(ctx context.Context, r *Route) {
	op := &Op{Kind: OpReplace, Route: r, Coordinator: c}
	c.run(op, func() error {
		op.Status = c.applyReplace(ctx, r)
		return nil
	})
}

// Pop pops the innermost eligible sequential path — one with something
// below its top — walking outward to the root until one succeeds. A
// guard veto stops the walk. Returns PopUnavailable when every path is
// at its floor.
func (c *Coordinator) Pop(ctx context.Context, result any) PopStatus {
	status := PopUnavailable
	op := &Op{Kind: OpPop, Coordinator: c}
	c.run(op, func() error {
		status = c.popInnermost(ctx, result)
		switch status {
		case Popped:
			op.Status = StatusApplied
		case PopVetoed:
			op.Status = StatusVetoed
		default:
			op.Status = StatusUnavailable
		}
		return nil
	})
	return status
}

// TryPop is Pop reduced to a boolean: true only when something was
// actually popped.
func (c *Coordinator) TryPop(ctx context.Context, result any) bool {
	return c.Pop(ctx, result).Ok()
}

// Navigate resolves the route, reuses its layout chain, and on the
// target path either pops down to an existing equal route or pushes
// it. Returns nil when the redirect aborted or a guard vetoed the
// descent.
func (c *Coordinator) Navigate(ctx context.Context, r *Route) *Pending {
	return c.navigate(ctx, r, false)
}

// PushReplacement swaps the target path's top for the route, subject
// to the top's guard on multi-entry stacks. Returns nil when the
// redirect aborted or the guard vetoed.
func (c *Coordinator) PushReplacement(ctx context.Context, r *Route, result any) *Pending {
	var p *Pending
	op := &Op{Kind: OpPushReplacement, Route: r, Coordinator: c}
	c.run(op, func() error {
		target := resolveRedirect(ctx, r)
		if target == nil {
			op.Status = StatusAborted
			return nil
		}
		dest := c.destination(target, chainPushToTop)
		switch d := dest.(type) {
		case *Stack:
			p = d.pushReplacement(ctx, target, result)
			if p == nil {
				op.Status = StatusVetoed
				return nil
			}
		case *IndexedStack:
			d.mustActivate(target)
		}
		op.Status = StatusApplied
		return nil
	})
	return p
}

// Recover applies an externally supplied location: canonicalize, parse
// through the module aggregator (falling back to the mandatory "not
// found" route), merge the query into the route's params, and dispatch
// per the route's deep-link strategy. A guard rejecting the resulting
// navigation fires the resync signal. Middleware sees a single recover
// op carrying the dispatched outcome; the inner stack mutation is not
// re-wrapped.
func (c *Coordinator) Recover(ctx context.Context, location string) error {
	op := &Op{Kind: OpRecover, Location: location, Coordinator: c}
	return c.run(op, func() error {
		canon, err := navpath.CanonicalizeExternal(location)
		if err != nil {
			op.Status = StatusAborted
			return errs.New("N201").WithDetail("location %q", location).Wrap(err)
		}
		if c.agg == nil {
			op.Status = StatusAborted
			return errs.New("N102").WithDetail("coordinator %q received location %q", c.label, canon)
		}
		r := c.agg.Parse(canon)
		if r == nil {
			op.Status = StatusAborted
			return errs.New("N200").WithDetail("fallback returned nil for location %q", canon)
		}
		_, query := navpath.SplitQuery(canon)
		if params := navpath.ParseQuery(query); params != nil {
			incoming := &Route{Name: r.Name, Detail: r.Detail, Params: params}
			r.mergeFrom(incoming)
		}

		strategy := DeepLinkReplace
		if r.DeepLink != nil {
			strategy = r.DeepLink.Strategy.normalize()
		}
		c.logger.Debug("deep link dispatch", "coordinator", c.label, "location", canon, "route", r.Identity(), "strategy", string(strategy))

		switch strategy {
		case DeepLinkNavigate:
			_, op.Status = c.applyNavigate(ctx, r, true)
		case DeepLinkPush:
			_, op.Status = c.applyPush(ctx, r)
		case DeepLinkCustom:
			op.Status = StatusApplied
			return r.DeepLink.Handler(ctx, c, r)
		default:
			op.Status = c.applyReplace(ctx, r)
		}
		return nil
	})
}

// =============================================================================
// Internals
// =============================================================================

// navigate carries the external flag so guard vetoes on deep links can
// fire the resync signal.
func (c *Coordinator) navigate(ctx context.Context, r *Route, external bool) *Pending {
	var p *Pending
	op := &Op{Kind: OpNavigate, Route: r, Coordinator: c}
	c.run(op, func() error {
		p, op.Status = c.applyNavigate(ctx, r, external)
		return nil
	})
	return p
}

// applyPush, applyReplace, and applyNavigate are the unwrapped bodies
// of the corresponding operations: redirect resolution, layout chain,
// target path, mutation. The public operations wrap them in the
// middleware chain; Recover dispatches to them directly so a deep link
// runs the chain once.

func (c *Coordinator) applyPush(ctx context.Context, r *Route) (*Pending, OpStatus) {
	target := resolveRedirect(ctx, r)
	if target == nil {
		return nil, StatusAborted
	}
	dest := c.destination(target, chainPushToTop)
	switch d := dest.(type) {
	case *Stack:
		return d.push(target), StatusApplied
	case *IndexedStack:
		d.mustActivate(target)
	}
	return nil, StatusApplied
}

func (c *Coordinator) applyReplace(ctx context.Context, r *Route) OpStatus {
	target := resolveRedirect(ctx, r)
	if target == nil {
		return StatusAborted
	}
	c.resetAll()
	dest := c.destination(target, chainOverride)
	switch d := dest.(type) {
	case *Stack:
		d.override(target)
	case *IndexedStack:
		d.mustActivate(target)
	}
	return StatusApplied
}

// applyNavigate returns a nil future on a guard veto: the operation
// stopped partway down the stack and the requested route never became
// the visible top.
func (c *Coordinator) applyNavigate(ctx context.Context, r *Route, external bool) (*Pending, OpStatus) {
	target := resolveRedirect(ctx, r)
	if target == nil {
		return nil, StatusAborted
	}
	dest := c.destination(target, chainPushToTop)
	switch d := dest.(type) {
	case *Stack:
		p, vetoed := d.navigate(ctx, target)
		if vetoed {
			if external {
				c.fireResync()
			}
			return nil, StatusVetoed
		}
		return p, StatusApplied
	case *IndexedStack:
		d.mustActivate(target)
	}
	return nil, StatusApplied
}

// destination resolves and applies the layout chain for a route and
// returns the path the route itself belongs in.
func (c *Coordinator) destination(r *Route, strategy chainStrategy) Path {
	chain := c.resolveLayoutChain(r)
	if len(chain) > 0 {
		return c.applyLayoutChain(chain, strategy)
	}
	if r.StackName != "" {
		p := c.PathByLabel(r.StackName)
		if p == nil {
			panic(errs.Newf(errs.CategoryConfig, "route %q targets unknown stack %q", r.Identity(), r.StackName))
		}
		return p
	}
	return c.root
}

// popInnermost walks the active layout chain inner to outer, then the
// root, popping the first sequential path that has anything to reveal.
func (c *Coordinator) popInnermost(ctx context.Context, result any) PopStatus {
	for i := len(c.active) - 1; i >= 0; i-- {
		s, ok := c.active[i].path.(*Stack)
		if !ok || s.Len() < 2 {
			continue
		}
		return s.pop(ctx, result, true)
	}
	if c.root.Len() >= 2 {
		return c.root.pop(ctx, result, true)
	}
	return PopUnavailable
}

// resetAll clears every registered path, every module path, and every
// active layout. Shared (aliased) paths reset once.
func (c *Coordinator) resetAll() {
	seen := make(map[Path]bool)
	reset := func(p Path) {
		if p == nil || seen[p] {
			return
		}
		seen[p] = true
		p.Reset()
	}
	for _, p := range c.paths {
		reset(p)
	}
	if c.agg != nil {
		for _, p := range c.agg.Paths() {
			reset(p)
		}
	}
	for _, l := range c.active {
		reset(l.path)
	}
	c.active = nil
}

func (c *Coordinator) run(op *Op, body func() error) error {
	err := ComposeMiddleware(op, c.mw, body)
	if err != nil {
		c.logger.Debug("nav op failed", "coordinator", c.label, "op", string(op.Kind), "error", err)
		return err
	}
	attrs := []any{"coordinator", c.label, "op", string(op.Kind), "status", string(op.Status)}
	if op.Route != nil {
		attrs = append(attrs, "route", op.Route.Identity())
	}
	c.logger.Debug("nav op", attrs...)
	return nil
}

// pathChanged is invoked by every path notification: prune discarded
// layouts, then fan out to coordinator-level listeners.
func (c *Coordinator) pathChanged(Path) {
	c.pruneLayouts()
	for _, fn := range c.onChange {
		fn()
	}
	for a := c.parent; a != nil; a = a.parent {
		for _, fn := range a.onChange {
			fn()
		}
	}
}

func (c *Coordinator) fireResync() {
	c.logger.Debug("resync signal", "coordinator", c.label, "location", c.Location())
	for _, fn := range c.onResync {
		fn()
	}
}

// Location derives the current externally observable location: the
// innermost visible route's location override (or its name), with its
// params as a query string.
func (c *Coordinator) Location() string {
	top := c.visibleTop()
	if top == nil {
		return "/"
	}
	loc := top.Location
	if loc == "" {
		loc = top.Name
	}
	if loc == "" {
		loc = "/"
	}
	if len(top.Params) > 0 {
		values := url.Values{}
		for k, v := range top.Params {
			values.Set(k, v)
		}
		loc += "?" + values.Encode()
	}
	return loc
}

// visibleTop returns the route the user currently sees: the top of the
// innermost active layout's path, or of the root.
func (c *Coordinator) visibleTop() *Route {
	for i := len(c.active) - 1; i >= 0; i-- {
		if top := c.active[i].path.Top(); top != nil {
			return top
		}
	}
	return c.root.Top()
}

// PathState is a render-adapter snapshot of one path: ordered route
// identities plus the active index for indexed paths (-1 for
// sequential ones).
type PathState struct {
	Label  string   `json:"label"`
	Kind   string   `json:"kind"`
	Routes []string `json:"routes"`
	Active int      `json:"active"`
}

// State snapshots every registered and active-layout path, in
// outer-to-inner order, for render adapters and sync bridges.
func (c *Coordinator) State() []PathState {
	var out []PathState
	seen := make(map[Path]bool)
	add := func(p Path) {
		if p == nil || seen[p] {
			return
		}
		seen[p] = true
		st := PathState{Label: p.Label(), Kind: "stack", Active: -1}
		for _, r := range p.Routes() {
			st.Routes = append(st.Routes, r.Identity())
		}
		if idx, ok := p.(*IndexedStack); ok {
			st.Kind = "indexed"
			st.Active = idx.ActiveIndex()
		}
		out = append(out, st)
	}
	for _, p := range c.paths {
		add(p)
	}
	for _, l := range c.active {
		add(l.path)
	}
	return out
}
