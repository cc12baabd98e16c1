// Package navtest provides fluent helpers for testing navigation
// flows: a route builder, stack assertions, and an operation recorder.
//
// Example:
//
//	c := nav.New("test")
//	c.Root().Push(ctx, navtest.Route("/home").Build())
//	c.Root().Push(ctx, navtest.Route("/detail").Param("id", "7").Build())
//	navtest.ExpectStack(t, c.Root(), "/home", "/detail")
//	navtest.ExpectLocation(t, c, "/detail?id=7")
package navtest
