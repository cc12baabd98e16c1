// Package errors provides structured, coded errors for waypoint.
//
// Every fatal misconfiguration has a registered code (N100, N200, ...)
// with a category, a message, and a suggestion on how to fix it.
// Per-navigation outcomes (a vetoed pop, an aborted redirect) are NOT
// errors; they are ordinary return values in pkg/nav.
package errors
