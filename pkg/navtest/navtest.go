package navtest

import (
	"context"
	"testing"

	"github.com/vango-dev/waypoint/pkg/nav"
)

// RouteBuilder allows fluent construction of test routes.
type RouteBuilder struct {
	route *nav.Route
}

// Route creates a new route builder.
//
// Example:
//
//	r := navtest.Route("/detail").
//	    Detail("42").
//	    Param("tab", "info").
//	    Build()
func Route(name string) *RouteBuilder {
	return &RouteBuilder{route: nav.NewRoute(name)}
}

// Detail sets the discriminating payload.
func (b *RouteBuilder) Detail(detail string) *RouteBuilder {
	b.route.Detail = detail
	return b
}

// Param sets one mutable param.
func (b *RouteBuilder) Param(key, value string) *RouteBuilder {
	if b.route.Params == nil {
		b.route.Params = make(map[string]string)
	}
	b.route.Params[key] = value
	return b
}

// Guarded installs a guard with a fixed verdict.
//
// Example:
//
//	blocked := navtest.Route("/form").Guarded(false).Build()
func (b *RouteBuilder) Guarded(allow bool) *RouteBuilder {
	b.route.Guard = func(context.Context) bool { return allow }
	return b
}

// RedirectsTo installs a single-hop redirect to the target.
func (b *RouteBuilder) RedirectsTo(target *nav.Route) *RouteBuilder {
	b.route.Redirect = func(context.Context) *nav.Route { return target }
	return b
}

// Aborts installs a redirect that abandons every operation on the
// route.
func (b *RouteBuilder) Aborts() *RouteBuilder {
	b.route.Redirect = func(context.Context) *nav.Route { return nil }
	return b
}

// InLayout sets the route's layout key.
func (b *RouteBuilder) InLayout(key nav.LayoutKey) *RouteBuilder {
	b.route.LayoutKey = key
	return b
}

// OnStack targets a named registered stack.
func (b *RouteBuilder) OnStack(name string) *RouteBuilder {
	b.route.StackName = name
	return b
}

// DeepLink sets the route's deep-link strategy.
func (b *RouteBuilder) DeepLink(strategy nav.DeepLinkStrategy) *RouteBuilder {
	b.route.DeepLink = &nav.DeepLinkSpec{Strategy: strategy}
	return b
}

// Build returns the final route.
func (b *RouteBuilder) Build() *nav.Route {
	return b.route
}

// ExpectStack asserts a path's contents by identity, bottom first.
//
// Example:
//
//	navtest.ExpectStack(t, c.Root(), "/home", "/settings")
func ExpectStack(t *testing.T, p nav.Path, want ...string) {
	t.Helper()
	routes := p.Routes()
	got := make([]string, len(routes))
	for i, r := range routes {
		got[i] = r.Identity()
	}
	if len(got) != len(want) {
		t.Errorf("stack %q = %v, want %v", p.Label(), got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stack %q = %v, want %v", p.Label(), got, want)
			return
		}
	}
}

// ExpectTop asserts the visible route of a path.
func ExpectTop(t *testing.T, p nav.Path, identity string) {
	t.Helper()
	top := p.Top()
	if top == nil {
		t.Errorf("stack %q is empty, want top %q", p.Label(), identity)
		return
	}
	if top.Identity() != identity {
		t.Errorf("stack %q top = %q, want %q", p.Label(), top.Identity(), identity)
	}
}

// ExpectLocation asserts the coordinator's externally observable
// location.
func ExpectLocation(t *testing.T, c *nav.Coordinator, want string) {
	t.Helper()
	if got := c.Location(); got != want {
		t.Errorf("location = %q, want %q", got, want)
	}
}

// ExpectActiveIndex asserts an indexed stack's active index.
func ExpectActiveIndex(t *testing.T, s *nav.IndexedStack, want int) {
	t.Helper()
	if got := s.ActiveIndex(); got != want {
		t.Errorf("stack %q active index = %d, want %d", s.Label(), got, want)
	}
}

// Recorder is middleware that records every coordinator operation as
// "kind:status" strings, for asserting on operation flow.
//
// Example:
//
//	rec := navtest.NewRecorder()
//	c := nav.New("test", nav.WithMiddleware(rec.Middleware()))
//	...
//	rec.Expect(t, "push:applied", "pop:vetoed")
type Recorder struct {
	ops []string
}

// NewRecorder creates an operation recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Middleware returns the recording middleware.
func (r *Recorder) Middleware() nav.Middleware {
	return nav.MiddlewareFunc(func(op *nav.Op, next func() error) error {
		err := next()
		r.ops = append(r.ops, string(op.Kind)+":"+string(op.Status))
		return err
	})
}

// Ops returns the recorded operations in order.
func (r *Recorder) Ops() []string {
	out := make([]string, len(r.ops))
	copy(out, r.ops)
	return out
}

// Reset clears the recorded operations.
func (r *Recorder) Reset() {
	r.ops = nil
}

// Expect asserts the exact recorded operation sequence.
func (r *Recorder) Expect(t *testing.T, want ...string) {
	t.Helper()
	if len(r.ops) != len(want) {
		t.Errorf("ops = %v, want %v", r.ops, want)
		return
	}
	for i := range want {
		if r.ops[i] != want[i] {
			t.Errorf("ops = %v, want %v", r.ops, want)
			return
		}
	}
}
