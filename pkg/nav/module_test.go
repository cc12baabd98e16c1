package nav

import (
	"context"
	"testing"
)

func TestAggregatorRequiresFallback(t *testing.T) {
	if _, err := NewAggregator(nil); err == nil {
		t.Fatal("nil fallback should be rejected at construction")
	}
}

func TestAggregatorParseOrder(t *testing.T) {
	first := prefixModule("/shared", func() *Route { return NewRoute("/from-first") })
	second := prefixModule("/shared", func() *Route { return NewRoute("/from-second") })

	agg, err := NewAggregator(notFoundFallback, first, second)
	if err != nil {
		t.Fatal(err)
	}

	if got := agg.Parse("/shared/thing"); got.Name != "/from-first" {
		t.Fatalf("Parse = %q, want the first registered module to win", got.Name)
	}
}

func TestAggregatorFallsBack(t *testing.T) {
	agg, err := NewAggregator(notFoundFallback,
		prefixModule("/known", func() *Route { return NewRoute("/known") }))
	if err != nil {
		t.Fatal(err)
	}

	got := agg.Parse("/mystery")
	if got == nil || got.Name != "/not-found" {
		t.Fatalf("Parse = %v, want the fallback route", got)
	}
	if got.Params["from"] != "/mystery" {
		t.Errorf("fallback should see the unmatched location, got %v", got.Params)
	}
}

func TestAggregatorCollectsModulePaths(t *testing.T) {
	c := New("test")
	side := NewStack(c, "side")
	other := NewStack(c, "other")

	agg, err := NewAggregator(notFoundFallback,
		NewModule(nil, side),
		NewModule(nil, other))
	if err != nil {
		t.Fatal(err)
	}

	paths := agg.Paths()
	if len(paths) != 2 || paths[0] != Path(side) || paths[1] != Path(other) {
		t.Fatalf("Paths = %v, want [side other] in registration order", paths)
	}
}

func TestAdoptAliasesChildRoot(t *testing.T) {
	ctx := context.Background()
	parent := New("parent")
	child := New("child")

	parent.Adopt(child)

	if child.Root() != parent.Root() {
		t.Fatal("adopted child must share the parent's root")
	}
	if child.Parent() != parent {
		t.Error("child should keep a handle to its parent")
	}
	if len(parent.Children()) != 1 || parent.Children()[0] != child {
		t.Error("parent should register the child")
	}

	child.Root().Push(ctx, NewRoute("/via-child"))
	expectNames(t, parent.Root(), "/via-child")
}

func TestAdoptNonEmptyChildPanics(t *testing.T) {
	ctx := context.Background()
	parent := New("parent")
	child := New("child")
	child.Root().Push(ctx, NewRoute("/early"))

	defer func() {
		if recover() == nil {
			t.Fatal("adopting a child that already navigated should panic")
		}
	}()
	parent.Adopt(child)
}

func TestAdoptedChildJoinsParentParseOrder(t *testing.T) {
	ctx := context.Background()
	parent := New("parent")
	agg, err := NewAggregator(notFoundFallback,
		prefixModule("/parent", func() *Route { return NewRoute("/parent-page") }))
	if err != nil {
		t.Fatal(err)
	}
	parent.SetModules(agg)

	child := New("child")
	childAgg, err := NewAggregator(notFoundFallback,
		prefixModule("/child", func() *Route { return NewRoute("/child-page") }))
	if err != nil {
		t.Fatal(err)
	}
	child.SetModules(childAgg)
	parent.Adopt(child)

	if err := parent.Recover(ctx, "/child/settings"); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	expectNames(t, parent.Root(), "/child-page")

	// A location neither owns still lands on the parent's fallback, not
	// the child's.
	if err := parent.Recover(ctx, "/neither"); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	expectNames(t, parent.Root(), "/not-found")
}

func TestChildChangeNotifiesParent(t *testing.T) {
	ctx := context.Background()
	parent := New("parent")
	child := New("child")
	parent.Adopt(child)

	side := NewStack(child, "child-side")
	child.AddPath(side)

	parentChanges := 0
	cancel := parent.OnChange(func() { parentChanges++ })
	defer cancel()

	side.Push(ctx, NewRoute("/panel"))
	if parentChanges != 1 {
		t.Fatalf("parent saw %d changes, want 1", parentChanges)
	}
}
