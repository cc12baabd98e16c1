package navpath

import (
	"net/url"
	"strings"
)

// Pattern is a compiled location pattern for a single route shape.
//
// Segments starting with ":" capture one path segment, a trailing
// segment starting with "*" captures the remainder (slashes included):
//
//	p := navpath.MustPattern("/users/:id")
//	params, ok := p.Match("/users/42")   // params["id"] == "42"
//
// Patterns are what route-parsing modules are built from; an aggregator
// tries each module's patterns in order.
type Pattern struct {
	raw      string
	segments []patternSegment
}

// patternSegment is one compiled segment of a pattern.
type patternSegment struct {
	literal    string
	paramName  string
	isParam    bool
	isCatchAll bool
}

// NewPattern compiles a location pattern. The pattern must start with
// "/"; a "*" segment is only valid in the final position.
func NewPattern(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, ErrInvalidLocation
	}

	p := &Pattern{raw: pattern}
	segs := splitSegments(pattern)
	for i, seg := range segs {
		switch {
		case strings.HasPrefix(seg, "*"):
			if i != len(segs)-1 {
				return nil, ErrInvalidLocation
			}
			p.segments = append(p.segments, patternSegment{paramName: seg[1:], isCatchAll: true})
		case strings.HasPrefix(seg, ":"):
			p.segments = append(p.segments, patternSegment{paramName: seg[1:], isParam: true})
		default:
			p.segments = append(p.segments, patternSegment{literal: seg})
		}
	}
	return p, nil
}

// MustPattern compiles a pattern and panics on a malformed one.
// Patterns are almost always literals known at compile time.
func MustPattern(pattern string) *Pattern {
	p, err := NewPattern(pattern)
	if err != nil {
		panic("navpath: bad pattern " + pattern + ": " + err.Error())
	}
	return p
}

// String returns the original pattern text.
func (p *Pattern) String() string {
	return p.raw
}

// Match tests a canonical location path against the pattern and
// extracts captured parameters. Query strings are ignored; strip them
// with SplitQuery first or pass the full location and the query is cut
// off here. Captured segments are percent-decoded.
func (p *Pattern) Match(location string) (map[string]string, bool) {
	path, _ := SplitQuery(location)
	segs := splitSegments(path)

	params := make(map[string]string)
	i := 0
	for _, ps := range p.segments {
		if ps.isCatchAll {
			if i >= len(segs) {
				return nil, false
			}
			rest := strings.Join(segs[i:], "/")
			params[ps.paramName] = rest
			return params, true
		}
		if i >= len(segs) {
			return nil, false
		}
		seg := segs[i]
		if ps.isParam {
			decoded, err := url.PathUnescape(seg)
			if err != nil {
				return nil, false
			}
			params[ps.paramName] = decoded
		} else if ps.literal != seg {
			return nil, false
		}
		i++
	}

	if i != len(segs) {
		return nil, false
	}
	return params, true
}

// splitSegments splits a path into segments, dropping the empty ones
// produced by leading/trailing slashes.
func splitSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
