package nav

import (
	"context"
	"testing"
)

// names returns the stack contents as identifiers, bottom first.
func names(p Path) []string {
	var out []string
	for _, r := range p.Routes() {
		out = append(out, r.Identity())
	}
	return out
}

func expectNames(t *testing.T, p Path, want ...string) {
	t.Helper()
	got := names(p)
	if len(got) != len(want) {
		t.Fatalf("stack %q = %v, want %v", p.Label(), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stack %q = %v, want %v", p.Label(), got, want)
		}
	}
}

func TestPushAppends(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	root.Push(ctx, NewRoute("/settings"))

	expectNames(t, root, "/home", "/settings")
}

func TestPushReturnsPendingCompletedByPop(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	pending := root.Push(ctx, NewRoute("/detail"))
	if pending == nil {
		t.Fatal("Push returned nil pending")
	}
	if pending.Completed() {
		t.Fatal("pending completed before pop")
	}

	if status := root.Pop(ctx, "saved"); status != Popped {
		t.Fatalf("Pop = %v, want %v", status, Popped)
	}
	if !pending.Completed() {
		t.Fatal("pending not completed by pop")
	}
	if got, err := pending.Await(ctx); err != nil || got != "saved" {
		t.Fatalf("Await = (%v, %v), want (saved, nil)", got, err)
	}
}

func TestPushOrMoveToTopMovesExisting(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	home := NewRoute("/home")
	root.Push(ctx, home)
	root.Push(ctx, NewRoute("/settings"))

	// Equal identity, fresh instance carrying new params.
	incoming := NewRoute("/home").WithParams(map[string]string{"tab": "recent"})
	root.PushOrMoveToTop(ctx, incoming)

	expectNames(t, root, "/settings", "/home")
	if root.Top() != home {
		t.Error("existing instance should be reused, not the incoming one")
	}
	if home.Params["tab"] != "recent" {
		t.Errorf("params not merged: %v", home.Params)
	}
}

func TestPushOrMoveToTopIdempotent(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	root.PushOrMoveToTop(ctx, NewRoute("/about"))
	root.PushOrMoveToTop(ctx, NewRoute("/about").WithParams(map[string]string{"v": "2"}))

	if root.Len() != 2 {
		t.Fatalf("Len = %d, want 2", root.Len())
	}
	if root.Top().Params["v"] != "2" {
		t.Errorf("second call's params not merged: %v", root.Top().Params)
	}
}

func TestPopGuardVeto(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	guarded := NewRoute("/form")
	guarded.Guard = func(context.Context) bool { return false }
	root.Push(ctx, guarded)

	if status := root.Pop(ctx, nil); status != PopVetoed {
		t.Fatalf("Pop = %v, want %v", status, PopVetoed)
	}
	expectNames(t, root, "/home", "/form")
}

func TestPopRefusesOnRootFloor(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	if status := root.Pop(ctx, nil); status != PopUnavailable {
		t.Fatalf("Pop on single-entry root = %v, want %v", status, PopUnavailable)
	}
	expectNames(t, root, "/home")
}

func TestFreeStackMayPopToEmpty(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	free := NewStack(c, "side")

	free.Push(ctx, NewRoute("/panel"))
	if status := free.Pop(ctx, nil); status != Popped {
		t.Fatalf("Pop = %v, want %v", status, Popped)
	}
	if free.Len() != 0 {
		t.Fatalf("Len = %d, want 0", free.Len())
	}
}

func TestRemoveBypassesGuard(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	guarded := NewRoute("/form")
	guarded.Guard = func(context.Context) bool { return false }
	pending := root.Push(ctx, guarded)
	root.Push(ctx, NewRoute("/top"))

	if !root.Remove(guarded) {
		t.Fatal("Remove returned false")
	}
	expectNames(t, root, "/home", "/top")
	if guarded.Owner() != nil {
		t.Error("removed route still has an owner")
	}
	if !pending.Completed() || pending.Value() != nil {
		t.Errorf("removed route's future should complete with nil, got %v", pending.Value())
	}
	if guarded.PoppedByStack() {
		t.Error("removal must not set the popped-by-container marker")
	}
}

func TestNavigatePopsToExisting(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	home := NewRoute("/home")
	root.Push(ctx, home)
	root.Push(ctx, NewRoute("/a"))
	root.Push(ctx, NewRoute("/b"))

	root.Navigate(ctx, NewRoute("/home").WithParams(map[string]string{"from": "b"}))

	expectNames(t, root, "/home")
	if root.Top() != home {
		t.Error("navigate should reuse the existing instance")
	}
	if home.Params["from"] != "b" {
		t.Errorf("navigate should merge params, got %v", home.Params)
	}
}

func TestNavigateStopsAtVetoingGuard(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	guarded := NewRoute("/form")
	guarded.Guard = func(context.Context) bool { return false }
	root.Push(ctx, guarded)
	root.Push(ctx, NewRoute("/top"))

	p := root.Navigate(ctx, NewRoute("/home"))

	// /top pops, then /form's guard vetoes and the descent stops. The
	// requested route was never reached, so no future is reported.
	expectNames(t, root, "/home", "/form")
	if p != nil {
		t.Error("a vetoed navigate should return nil")
	}
}

func TestNavigatePushesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	root.Navigate(ctx, NewRoute("/new"))
	expectNames(t, root, "/home", "/new")
}

func TestPushReplacementSingleEntry(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	old := NewRoute("/old")
	pending := root.Push(ctx, old)
	got := root.PushReplacement(ctx, NewRoute("/new"), "bye")

	if got == nil {
		t.Fatal("PushReplacement returned nil")
	}
	expectNames(t, root, "/new")
	if !pending.Completed() || pending.Value() != "bye" {
		t.Errorf("replaced route's future = %v, want bye", pending.Value())
	}
	if old.Owner() != nil {
		t.Error("replaced route still owned")
	}
}

func TestPushReplacementGuardVeto(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	guarded := NewRoute("/form")
	guarded.Guard = func(context.Context) bool { return false }
	root.Push(ctx, guarded)

	if got := root.PushReplacement(ctx, NewRoute("/new"), nil); got != nil {
		t.Fatal("vetoed PushReplacement should return nil")
	}
	expectNames(t, root, "/home", "/form")
}

func TestResetDiscardsWithoutGuards(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	guarded := NewRoute("/form")
	guarded.Guard = func(context.Context) bool { return false }
	root.Push(ctx, NewRoute("/home"))
	pending := root.Push(ctx, guarded)

	root.Reset()

	if root.Len() != 0 {
		t.Fatalf("Len = %d, want 0", root.Len())
	}
	if !pending.Completed() || pending.Value() != nil {
		t.Error("reset should complete futures with nil")
	}
	if guarded.PoppedByStack() {
		t.Error("reset must not set the popped-by-container marker")
	}
}

func TestOwnershipMovesBetweenStacks(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()
	side := NewStack(c, "side")

	r := NewRoute("/shared")
	root.Push(ctx, r)
	if r.Owner() != Path(root) {
		t.Fatal("route should be owned by root")
	}

	side.Push(ctx, r)
	if r.Owner() != Path(side) {
		t.Fatal("route should move to side")
	}
	if root.Len() != 0 {
		t.Error("route should be evicted from its previous owner")
	}
}

func TestRedirectShortCircuitNoMutationNoNotify(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()
	root.Push(ctx, NewRoute("/home"))

	notified := 0
	cancel := root.Subscribe(func() { notified++ })
	defer cancel()

	aborting := NewRoute("/blocked")
	aborting.Redirect = func(context.Context) *Route { return nil }

	if got := root.Push(ctx, aborting); got != nil {
		t.Fatal("aborted push should return nil")
	}
	expectNames(t, root, "/home")
	if notified != 0 {
		t.Errorf("aborted push fired %d notifications, want 0", notified)
	}
}

func TestRedirectSubstitutesSingleHop(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	login := NewRoute("/login")
	// The substitute itself redirects; single-hop means it is not
	// re-resolved.
	login.Redirect = func(context.Context) *Route { return NewRoute("/unused") }

	locked := NewRoute("/account")
	locked.Redirect = func(context.Context) *Route { return login }

	root.Push(ctx, locked)
	expectNames(t, root, "/login")
}

func TestPopUntil(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	root.Push(ctx, NewRoute("/a"))
	root.Push(ctx, NewRoute("/b"))

	notified := 0
	cancel := root.Subscribe(func() { notified++ })
	defer cancel()

	status := root.PopUntil(ctx, func(r *Route) bool { return r.Name == "/home" })
	if status != Popped {
		t.Fatalf("PopUntil = %v, want %v", status, Popped)
	}
	expectNames(t, root, "/home")
	if notified != 1 {
		t.Errorf("PopUntil fired %d notifications, want 1", notified)
	}
}

func TestPopUntilVeto(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	root.Push(ctx, NewRoute("/home"))
	guarded := NewRoute("/form")
	guarded.Guard = func(context.Context) bool { return false }
	root.Push(ctx, guarded)
	root.Push(ctx, NewRoute("/top"))

	status := root.PopUntil(ctx, func(r *Route) bool { return r.Name == "/home" })
	if status != PopVetoed {
		t.Fatalf("PopUntil = %v, want %v", status, PopVetoed)
	}
	expectNames(t, root, "/home", "/form")
}

func TestPopUntilAlreadySatisfied(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()
	root.Push(ctx, NewRoute("/home"))

	status := root.PopUntil(ctx, func(*Route) bool { return true })
	if status != PopUnavailable {
		t.Fatalf("PopUntil = %v, want %v", status, PopUnavailable)
	}
	expectNames(t, root, "/home")
}

func TestNotifyOncePerLogicalOperation(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	root := c.Root()

	home := NewRoute("/home")
	root.Push(ctx, home)
	root.Push(ctx, NewRoute("/a"))
	root.Push(ctx, NewRoute("/b"))

	notified := 0
	cancel := root.Subscribe(func() { notified++ })
	defer cancel()

	// Two internal pops plus the merge: still one notification.
	root.Navigate(ctx, NewRoute("/home"))
	if notified != 1 {
		t.Errorf("navigate fired %d notifications, want 1", notified)
	}
}
