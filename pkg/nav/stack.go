package nav

import "context"

// PopStatus is the tri-state outcome of a pop attempt.
type PopStatus string

const (
	// Popped means the top route was removed and its result delivered.
	Popped PopStatus = "popped"

	// PopVetoed means the top route's guard rejected the removal; the
	// stack is unchanged.
	PopVetoed PopStatus = "vetoed"

	// PopUnavailable means there is nothing below the top to reveal;
	// the stack is unchanged.
	PopUnavailable PopStatus = "unavailable"
)

// Ok reports whether the pop actually happened.
func (s PopStatus) Ok() bool {
	return s == Popped
}

// Path is the contract shared by Stack and IndexedStack: an ordered
// container of active routes with a stable debug label and a
// back-reference to the owning coordinator. Only this package
// implements it.
type Path interface {
	// Label is the stable debug label, used to build restoration keys.
	Label() string

	// Len returns the number of contained routes.
	Len() int

	// Top returns the visible route: the last entry of a Stack, the
	// active entry of an IndexedStack. Nil when empty.
	Top() *Route

	// Routes returns the contained routes in order. The slice is a
	// copy; mutating it does not affect the path.
	Routes() []*Route

	// Coordinator returns the owning coordinator.
	Coordinator() *Coordinator

	// Subscribe registers a change listener and returns its cancel
	// function. Listeners run synchronously, once per logical
	// mutation.
	Subscribe(fn func()) (cancel func())

	// Reset discards all state without guard checks.
	Reset()

	layoutOwner() *Layout
	setLayoutOwner(l *Layout)
	evict(r *Route)
	pushToTop(r *Route)
	override(r *Route)
}

// Stack is the sequential (LIFO) path: arbitrary length, supporting
// push, pop, remove, navigate, and reset.
type Stack struct {
	label    string
	coord    *Coordinator
	layout   *Layout
	rootLike bool
	routes   []*Route
	subs     map[int]func()
	nextSub  int
}

// NewStack creates a free-standing sequential stack. Free stacks may
// pop to empty; the coordinator's root and layout-owned stacks refuse
// to pop their last entry.
func NewStack(c *Coordinator, label string) *Stack {
	return newStack(c, label, false)
}

func newStack(c *Coordinator, label string, rootLike bool) *Stack {
	return &Stack{label: label, coord: c, rootLike: rootLike}
}

// Label returns the stack's debug label.
func (s *Stack) Label() string { return s.label }

// Len returns the number of routes on the stack.
func (s *Stack) Len() int { return len(s.routes) }

// Coordinator returns the owning coordinator.
func (s *Stack) Coordinator() *Coordinator { return s.coord }

// Top returns the topmost route, or nil when empty.
func (s *Stack) Top() *Route {
	if len(s.routes) == 0 {
		return nil
	}
	return s.routes[len(s.routes)-1]
}

// Routes returns a copy of the stack contents, bottom first.
func (s *Stack) Routes() []*Route {
	out := make([]*Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// Subscribe registers a change listener.
func (s *Stack) Subscribe(fn func()) func() {
	if s.subs == nil {
		s.subs = make(map[int]func())
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// Push resolves the route's redirect and appends it to the stack. The
// returned future completes when the route is later popped or removed.
// A redirect resolving to nil makes the whole call a silent no-op and
// Push returns nil.
func (s *Stack) Push(ctx context.Context, r *Route) *Pending {
	target := resolveRedirect(ctx, r)
	if target == nil {
		return nil
	}
	return s.push(target)
}

// PushOrMoveToTop is Push with de-duplication: if an equal route is
// already anywhere on the stack it is moved to the top and the
// incoming instance's params are merged into it; no new ownership
// record is created.
func (s *Stack) PushOrMoveToTop(ctx context.Context, r *Route) *Pending {
	target := resolveRedirect(ctx, r)
	if target == nil {
		return nil
	}
	return s.pushOrMoveToTop(target)
}

// Pop consults the top route's guard and, if allowed, removes it,
// delivering result to its pending future. Root and layout stacks
// refuse (PopUnavailable) when there is nothing below to reveal.
func (s *Stack) Pop(ctx context.Context, result any) PopStatus {
	return s.pop(ctx, result, true)
}

// Remove unconditionally removes a specific route regardless of
// position, bypassing guard checks. Its pending future completes with
// nil. Returns false if the route is not on this stack.
func (s *Stack) Remove(r *Route) bool {
	i := s.indexOfInstance(r)
	if i < 0 {
		return false
	}
	s.routes = append(s.routes[:i], s.routes[i+1:]...)
	r.owner = nil
	r.pending.complete(nil)
	s.notify()
	return true
}

// Navigate resolves the route's redirect, then either pops down to an
// existing equal route or pushes it. A guard vetoing the descent stops
// the operation partway and Navigate returns nil.
func (s *Stack) Navigate(ctx context.Context, r *Route) *Pending {
	target := resolveRedirect(ctx, r)
	if target == nil {
		return nil
	}
	p, vetoed := s.navigate(ctx, target)
	if vetoed {
		return nil
	}
	return p
}

// PopUntil pops routes from the top, honoring guards, until the top
// satisfies pred or the stack cannot pop further. Popped routes'
// futures complete with nil. Returns Popped when at least one route
// was removed and the descent finished, PopVetoed when a guard stopped
// it, PopUnavailable when nothing could be removed.
func (s *Stack) PopUntil(ctx context.Context, pred func(*Route) bool) PopStatus {
	status := PopUnavailable
	changed := false
	for {
		top := s.Top()
		if top == nil || pred(top) {
			break
		}
		st := s.pop(ctx, nil, false)
		if st != Popped {
			status = st
			break
		}
		changed = true
		status = Popped
	}
	if changed {
		s.notify()
	}
	return status
}

// PushReplacement replaces the current top with the route. On a
// one-entry stack the sole entry is swapped out without a guard check;
// on a longer stack the top is popped first, subject to its guard — a
// veto fails the whole operation and PushReplacement returns nil. The
// replaced route's future completes with result.
func (s *Stack) PushReplacement(ctx context.Context, r *Route, result any) *Pending {
	target := resolveRedirect(ctx, r)
	if target == nil {
		return nil
	}
	return s.pushReplacement(ctx, target, result)
}

// Reset clears the entire stack without guard checks. Discarded
// routes' futures complete with nil.
func (s *Stack) Reset() {
	if len(s.routes) == 0 {
		return
	}
	for _, r := range s.routes {
		r.owner = nil
		r.pending.complete(nil)
	}
	s.routes = nil
	s.notify()
}

// =============================================================================
// Internal mutation primitives
// =============================================================================
//
// The exported operations resolve redirects and then delegate here;
// the coordinator calls these directly with already-resolved routes.
// Each primitive notifies each affected stack exactly once.

func (s *Stack) push(r *Route) *Pending {
	s.adopt(r)
	s.routes = append(s.routes, r)
	s.notify()
	return r.pending
}

func (s *Stack) pushOrMoveToTop(r *Route) *Pending {
	i := s.indexOfEqual(r)
	if i < 0 {
		return s.push(r)
	}
	existing := s.routes[i]
	existing.mergeFrom(r)
	if i != len(s.routes)-1 {
		copy(s.routes[i:], s.routes[i+1:])
		s.routes[len(s.routes)-1] = existing
	}
	s.notify()
	return existing.pending
}

func (s *Stack) pop(ctx context.Context, result any, notify bool) PopStatus {
	if len(s.routes) == 0 {
		return PopUnavailable
	}
	if len(s.routes) < 2 && s.rootLike {
		return PopUnavailable
	}
	top := s.routes[len(s.routes)-1]
	if top.Guard != nil && !top.Guard(ctx) {
		return PopVetoed
	}
	s.routes = s.routes[:len(s.routes)-1]
	top.owner = nil
	top.poppedByStack = true
	top.pending.complete(result)
	if notify {
		s.notify()
	}
	return Popped
}

// navigate reports the pending future of the reached route and whether
// an intermediate guard vetoed the descent.
func (s *Stack) navigate(ctx context.Context, r *Route) (*Pending, bool) {
	i := s.indexOfEqual(r)
	if i < 0 {
		return s.push(r), false
	}
	existing := s.routes[i]
	changed := false
	for s.routes[len(s.routes)-1] != existing {
		status := s.pop(ctx, nil, false)
		if status == Popped {
			changed = true
			continue
		}
		// Guard veto (or an unpoppable root) ends the operation early.
		if changed {
			s.notify()
		}
		return existing.pending, status == PopVetoed
	}
	existing.mergeFrom(r)
	s.notify()
	return existing.pending, false
}

func (s *Stack) pushReplacement(ctx context.Context, r *Route, result any) *Pending {
	n := len(s.routes)
	if n == 0 {
		return s.push(r)
	}
	if n == 1 {
		sole := s.routes[0]
		s.routes = s.routes[:0]
		sole.owner = nil
		sole.pending.complete(result)
		s.adopt(r)
		s.routes = append(s.routes, r)
		s.notify()
		return r.pending
	}
	top := s.routes[n-1]
	if top.Guard != nil && !top.Guard(ctx) {
		return nil
	}
	s.routes = s.routes[:n-1]
	top.owner = nil
	top.poppedByStack = true
	top.pending.complete(result)
	s.adopt(r)
	s.routes = append(s.routes, r)
	s.notify()
	return r.pending
}

// adopt takes ownership of a route, evicting it from any previous
// owner and arming a fresh pending future.
func (s *Stack) adopt(r *Route) {
	if r.owner != nil {
		r.owner.evict(r)
	}
	r.owner = s
	r.poppedByStack = false
	if r.pending == nil || r.pending.completed {
		r.pending = newPending()
	}
}

// evict drops the route without completing its future. The evicted
// stack's observers see the change.
func (s *Stack) evict(r *Route) {
	i := s.indexOfInstance(r)
	if i < 0 {
		return
	}
	s.routes = append(s.routes[:i], s.routes[i+1:]...)
	r.owner = nil
	s.notify()
}

func (s *Stack) pushToTop(r *Route) {
	s.pushOrMoveToTop(r)
}

// override places the route as the sole entry, discarding whatever the
// stack held. Used by replace and deep-link recovery after a global
// reset, so it normally finds the stack empty.
func (s *Stack) override(r *Route) {
	for _, old := range s.routes {
		if old == r {
			continue
		}
		old.owner = nil
		old.pending.complete(nil)
	}
	s.routes = s.routes[:0]
	s.adopt(r)
	s.routes = append(s.routes, r)
	s.notify()
}

func (s *Stack) layoutOwner() *Layout { return s.layout }

func (s *Stack) setLayoutOwner(l *Layout) {
	s.layout = l
	s.rootLike = true
}

func (s *Stack) indexOfInstance(r *Route) int {
	for i, candidate := range s.routes {
		if candidate == r {
			return i
		}
	}
	return -1
}

func (s *Stack) indexOfEqual(r *Route) int {
	for i, candidate := range s.routes {
		if candidate.Equal(r) {
			return i
		}
	}
	return -1
}

func (s *Stack) notify() {
	for _, fn := range s.subs {
		fn()
	}
	if s.coord != nil {
		s.coord.pathChanged(s)
	}
}
