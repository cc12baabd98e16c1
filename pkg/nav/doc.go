// Package nav implements the navigation state machine: ordered stacks
// of routes, nested layout (shell) resolution, redirect and guard
// dispatch, deep-link strategies, and multi-module route parsing.
//
// The model is a tree of stacks. A Coordinator owns one root Stack and
// a registry of layout factories. Routes carry optional capabilities
// (guard, redirect, deep link, layout membership) as plain fields;
// there is no subtyping. Navigating to a route resolves its redirect,
// activates the chain of layouts it lives under (outermost first), and
// applies the stack operation to the innermost path.
//
// # Concurrency
//
// The state machine is built for a single cooperative scheduler: the
// host UI event loop. Nothing here takes a lock. Guards, redirects,
// and custom deep-link handlers accept a context.Context and may
// block; a second navigation call issued while the first is awaiting
// one of these runs its synchronous portion to completion first. A
// stale resolution that completes after the stacks have changed is
// applied to current state as-is (last synchronous mutation wins);
// callers who need serialization must provide it themselves.
//
// # Usage
//
//	c := nav.New("app")
//	c.RegisterLayout("shell", func(c *nav.Coordinator) *nav.Layout {
//	    shell := nav.NewRoute("/shell")
//	    return nav.NewLayout("shell", shell, nav.NewStack(c, "shell"))
//	})
//
//	home := nav.NewRoute("/home")
//	home.LayoutKey = "shell"
//	pending := c.Push(ctx, home)
//	result, _ := pending.Await(ctx) // completes when /home is popped
package nav
