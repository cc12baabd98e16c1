package navtest

import (
	"context"
	"testing"

	"github.com/vango-dev/waypoint/pkg/nav"
)

func TestRouteBuilder(t *testing.T) {
	r := Route("/detail").
		Detail("42").
		Param("tab", "info").
		InLayout("main").
		Build()

	if r.Identity() != "/detail#42" {
		t.Errorf("identity = %q, want /detail#42", r.Identity())
	}
	if r.Params["tab"] != "info" {
		t.Errorf("params = %v", r.Params)
	}
	if r.LayoutKey != "main" {
		t.Errorf("layout key = %q, want main", r.LayoutKey)
	}
}

func TestGuardedBuilder(t *testing.T) {
	ctx := context.Background()
	c := nav.New("test")
	c.Root().Push(ctx, Route("/home").Build())
	c.Root().Push(ctx, Route("/form").Guarded(false).Build())

	if status := c.Root().Pop(ctx, nil); status != nav.PopVetoed {
		t.Fatalf("Pop = %v, want vetoed", status)
	}
	ExpectStack(t, c.Root(), "/home", "/form")
	ExpectTop(t, c.Root(), "/form")
}

func TestAbortsBuilder(t *testing.T) {
	ctx := context.Background()
	c := nav.New("test")
	c.Root().Push(ctx, Route("/home").Build())

	if p := c.Root().Push(ctx, Route("/blocked").Aborts().Build()); p != nil {
		t.Fatal("aborted push should return nil")
	}
	ExpectStack(t, c.Root(), "/home")
}

func TestRedirectsToBuilder(t *testing.T) {
	ctx := context.Background()
	c := nav.New("test")
	login := Route("/login").Build()
	c.Root().Push(ctx, Route("/account").RedirectsTo(login).Build())
	ExpectStack(t, c.Root(), "/login")
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	c := nav.New("test", nav.WithMiddleware(rec.Middleware()))

	c.Push(ctx, Route("/home").Build())
	c.Pop(ctx, nil)

	rec.Expect(t, "push:applied", "pop:unavailable")
	rec.Reset()
	if len(rec.Ops()) != 0 {
		t.Error("reset should clear ops")
	}
}

func TestExpectLocation(t *testing.T) {
	ctx := context.Background()
	c := nav.New("test")
	c.Root().Push(ctx, Route("/detail").Param("id", "9").Build())
	ExpectLocation(t, c, "/detail?id=9")
}
