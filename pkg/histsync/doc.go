// Package histsync bridges a navigation coordinator to a host history
// surface (browser address bar, embedder shell) over WebSocket.
//
// The bridge pushes a state frame to every connected client after each
// logical navigation mutation and a resync frame when an external
// navigation is vetoed, so the host can revert an optimistic location
// change. Inbound frames drive the coordinator: "navigate" recovers a
// location, "back" pops.
//
//	b := histsync.NewBridge(coordinator)
//	r := chi.NewRouter()
//	r.Mount("/nav", b.Routes())
package histsync
