package navpath

import (
	"errors"
	"net/url"
	"strings"
)

// Result contains the outcome of location canonicalization.
type Result struct {
	// Path is the canonicalized path (without query string).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Location canonicalization errors.
var (
	ErrInvalidLocation       = errors.New("invalid location")
	ErrBackslashInPath       = errors.New("location contains backslash")
	ErrNullByteInPath        = errors.New("location contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("location escapes root via ..")
)

// Canonicalize normalizes a location string:
//   - ensure a leading "/" (empty input becomes "/")
//   - collapse repeated slashes
//   - drop "." segments and resolve ".." segments
//   - strip the trailing slash (except for root)
//
// Inputs containing a backslash, a NUL byte (literal or %00), an
// invalid percent-escape, or a ".." that would climb above root are
// rejected. A query string is split off and preserved verbatim.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")

	// SECURITY: Reject backslash.
	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslashInPath
	}

	// SECURITY: Reject NUL byte (both literal and encoded).
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}

	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Result{}, err
		}
	}

	original := path

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	segments := strings.Split(path, "/")
	var kept []string

	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(kept) > 0 {
				kept = kept[:len(kept)-1]
			} else {
				// SECURITY: ".." escapes root.
				return Result{}, ErrPathEscapesRoot
			}
		default:
			kept = append(kept, seg)
		}
	}

	path = "/" + strings.Join(kept, "/")

	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	return Result{
		Path:    path,
		Query:   query,
		Changed: path != original,
	}, nil
}

// CanonicalizeExternal canonicalizes and validates a location arriving
// from outside the process (deep link, address bar).
//
// Absolute URLs are rejected to close open-redirect holes: the input
// must start with "/" and must not start with "http://", "https://",
// or "//". Returns the canonical path with the query reattached.
func CanonicalizeExternal(location string) (string, error) {
	if strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "//") {
		return "", ErrInvalidLocation
	}
	if !strings.HasPrefix(location, "/") {
		return "", ErrInvalidLocation
	}

	result, err := Canonicalize(location)
	if err != nil {
		return "", err
	}

	if result.Query != "" {
		return result.Path + "?" + result.Query, nil
	}
	return result.Path, nil
}

// SplitQuery splits a location into path and query components.
// The query is returned without the leading "?".
func SplitQuery(location string) (path, query string) {
	path, query, _ = strings.Cut(location, "?")
	return path, query
}

// ParseQuery decodes a query string into a flat string map. Repeated
// keys keep the first value; a malformed query yields an empty map
// rather than an error, since query payloads are advisory.
func ParseQuery(query string) map[string]string {
	if query == "" {
		return nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil
	}
	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// validatePercentEscapes checks that all percent-escapes are valid.
// Valid escapes are %XX where X is a hex digit (0-9, a-f, A-F).
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] == '%' {
			if i+2 >= len(path) {
				return ErrInvalidPercentEscape
			}
			if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			i += 3
		} else {
			i++
		}
	}
	return nil
}

// isHexDigit returns true if c is a valid hex digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
