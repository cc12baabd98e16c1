// Package navpath normalizes and matches externally supplied location
// strings before they enter the navigation core.
//
// Canonicalize rejects hostile input (backslashes, NUL bytes, segments
// escaping the root) and normalizes the rest, so inbound parsers only
// ever see clean "/a/b?x=y" locations. Pattern provides the segment
// matching ("/users/:id", "/files/*rest") that route-parsing modules
// build their parsers from.
package navpath
