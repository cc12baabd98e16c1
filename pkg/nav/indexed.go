package nav

import (
	errs "github.com/vango-dev/waypoint/internal/errors"
)

// IndexedStack is the fixed-size path: N predeclared routes, of which
// exactly one is active. Mutation is index activation, never a length
// change.
type IndexedStack struct {
	label   string
	coord   *Coordinator
	layout  *Layout
	routes  []*Route
	active  int
	subs    map[int]func()
	nextSub int
}

// NewIndexedStack creates an indexed stack over a fixed, non-empty
// route list. The first route starts active. The routes are owned by
// the stack for its whole lifetime.
func NewIndexedStack(c *Coordinator, label string, routes ...*Route) *IndexedStack {
	if len(routes) == 0 {
		panic(errs.Newf(errs.CategoryConfig, "indexed stack %q needs at least one route", label))
	}
	s := &IndexedStack{label: label, coord: c, routes: routes}
	for _, r := range routes {
		r.owner = s
	}
	return s
}

// Label returns the stack's debug label.
func (s *IndexedStack) Label() string { return s.label }

// Len returns the fixed number of routes.
func (s *IndexedStack) Len() int { return len(s.routes) }

// Coordinator returns the owning coordinator.
func (s *IndexedStack) Coordinator() *Coordinator { return s.coord }

// Top returns the active route.
func (s *IndexedStack) Top() *Route { return s.routes[s.active] }

// Active returns the active route. Alias of Top for indexed callers.
func (s *IndexedStack) Active() *Route { return s.routes[s.active] }

// ActiveIndex returns the active index.
func (s *IndexedStack) ActiveIndex() int { return s.active }

// Routes returns a copy of the fixed route list.
func (s *IndexedStack) Routes() []*Route {
	out := make([]*Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// Subscribe registers a change listener.
func (s *IndexedStack) Subscribe(fn func()) func() {
	if s.subs == nil {
		s.subs = make(map[int]func())
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// ActivateRoute sets the active index to the position of a route equal
// to r, merging r's params into the retained instance. It is an error
// if no equal route is predeclared.
func (s *IndexedStack) ActivateRoute(r *Route) error {
	for i, candidate := range s.routes {
		if candidate.Equal(r) {
			candidate.mergeFrom(r)
			s.goTo(i)
			return nil
		}
	}
	return errs.Newf(errs.CategoryNavigation, "route %q is not declared in indexed stack %q", r.Identity(), s.label)
}

// GoToIndex switches the active index directly.
func (s *IndexedStack) GoToIndex(i int) error {
	if i < 0 || i >= len(s.routes) {
		return errs.Newf(errs.CategoryNavigation, "index %d out of range for indexed stack %q (len %d)", i, s.label, len(s.routes))
	}
	s.goTo(i)
	return nil
}

// Reset returns the active index to 0. Length never changes.
func (s *IndexedStack) Reset() {
	s.goTo(0)
}

func (s *IndexedStack) goTo(i int) {
	if s.active == i {
		return
	}
	s.active = i
	s.notify()
}

func (s *IndexedStack) layoutOwner() *Layout { return s.layout }

func (s *IndexedStack) setLayoutOwner(l *Layout) { s.layout = l }

// evict would break the fixed-membership contract; a route declared in
// an indexed stack cannot be moved to another path.
func (s *IndexedStack) evict(r *Route) {
	panic(errs.Newf(errs.CategoryConfig, "route %q is fixed in indexed stack %q and cannot move to another path", r.Identity(), s.label))
}

func (s *IndexedStack) pushToTop(r *Route) {
	s.mustActivate(r)
}

func (s *IndexedStack) override(r *Route) {
	s.mustActivate(r)
}

// mustActivate is the layout-application primitive: a layout chain
// naming a route that an indexed shell does not declare is a
// configuration error.
func (s *IndexedStack) mustActivate(r *Route) {
	if err := s.ActivateRoute(r); err != nil {
		panic(err)
	}
}

func (s *IndexedStack) notify() {
	for _, fn := range s.subs {
		fn()
	}
	if s.coord != nil {
		s.coord.pathChanged(s)
	}
}
