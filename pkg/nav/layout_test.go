package nav

import (
	"context"
	"testing"
)

// registerStackShell registers a factory producing a shell route that
// owns a fresh sequential stack.
func registerStackShell(c *Coordinator, key LayoutKey, parent LayoutKey) {
	c.RegisterLayout(key, func(c *Coordinator) *Layout {
		shell := NewRoute("/" + string(key))
		shell.LayoutKey = parent
		return NewLayout(key, shell, NewStack(c, string(key)+"-stack"))
	})
}

func TestLayoutActivatedOnFirstPush(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	registerStackShell(c, "main", "")

	detail := NewRoute("/detail")
	detail.LayoutKey = "main"
	c.Push(ctx, detail)

	expectNames(t, c.Root(), "/main")
	layouts := c.ActiveLayouts()
	if len(layouts) != 1 {
		t.Fatalf("active layouts = %d, want 1", len(layouts))
	}
	expectNames(t, layouts[0].Path(), "/detail")
}

func TestLayoutSingletonWhileActive(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	registerStackShell(c, "main", "")

	a := NewRoute("/a")
	a.LayoutKey = "main"
	b := NewRoute("/b")
	b.LayoutKey = "main"

	c.Push(ctx, a)
	first := c.ActiveLayouts()[0]
	c.Push(ctx, b)
	second := c.ActiveLayouts()[0]

	if first != second {
		t.Fatal("second push must reuse the live layout instance")
	}
	expectNames(t, first.Path(), "/a", "/b")
	expectNames(t, c.Root(), "/main")
}

func TestLayoutFreshInstanceAfterDiscard(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	registerStackShell(c, "main", "")

	a := NewRoute("/a")
	a.LayoutKey = "main"
	c.Push(ctx, a)
	first := c.ActiveLayouts()[0]

	// Replace discards every layout; the shell route loses its owner.
	c.Replace(ctx, NewRoute("/standalone"))
	if len(c.ActiveLayouts()) != 0 {
		t.Fatal("replace should discard active layouts")
	}

	b := NewRoute("/b")
	b.LayoutKey = "main"
	c.Push(ctx, b)
	second := c.ActiveLayouts()[0]

	if first == second {
		t.Fatal("a discarded key must be rebuilt by its factory")
	}
	expectNames(t, second.Path(), "/b")
}

func TestLayoutNestedChainOuterFirst(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	registerStackShell(c, "outer", "")
	registerStackShell(c, "inner", "outer")

	r := NewRoute("/deep")
	r.LayoutKey = "inner"
	c.Push(ctx, r)

	layouts := c.ActiveLayouts()
	if len(layouts) != 2 {
		t.Fatalf("active layouts = %d, want 2", len(layouts))
	}
	if layouts[0].Key() != "outer" || layouts[1].Key() != "inner" {
		t.Fatalf("chain order = [%s %s], want [outer inner]", layouts[0].Key(), layouts[1].Key())
	}
	expectNames(t, c.Root(), "/outer")
	expectNames(t, layouts[0].Path(), "/inner")
	expectNames(t, layouts[1].Path(), "/deep")
}

func TestLayoutUnregisteredKeyPanics(t *testing.T) {
	ctx := context.Background()
	c := New("test")

	defer func() {
		if recover() == nil {
			t.Fatal("unregistered layout key should panic")
		}
	}()
	r := NewRoute("/lost")
	r.LayoutKey = "nowhere"
	c.Push(ctx, r)
}

func TestLayoutParentKeyCyclePanics(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	registerStackShell(c, "a", "b")
	registerStackShell(c, "b", "a")

	defer func() {
		if recover() == nil {
			t.Fatal("a parent-key cycle should exhaust the depth bound and panic")
		}
	}()
	r := NewRoute("/spin")
	r.LayoutKey = "a"
	c.Push(ctx, r)
}

func TestLayoutOwnedStackRefusesLastPop(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	registerStackShell(c, "main", "")

	r := NewRoute("/only")
	r.LayoutKey = "main"
	c.Push(ctx, r)

	inner := c.ActiveLayouts()[0].Path().(*Stack)
	if status := inner.Pop(ctx, nil); status != PopUnavailable {
		t.Fatalf("Pop on single-entry layout stack = %v, want %v", status, PopUnavailable)
	}
}

func TestLayoutDiscardReleasesNestedRoutes(t *testing.T) {
	ctx := context.Background()
	c := New("test")
	registerStackShell(c, "outer", "")
	registerStackShell(c, "inner", "outer")

	r := NewRoute("/deep")
	r.LayoutKey = "inner"
	c.Push(ctx, r)

	c.Replace(ctx, NewRoute("/flat"))

	if len(c.ActiveLayouts()) != 0 {
		t.Fatal("both layouts should be discarded")
	}
	if r.Owner() != nil {
		t.Error("nested route should be released when its shell is discarded")
	}
	expectNames(t, c.Root(), "/flat")
}
