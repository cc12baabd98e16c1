package nav

import (
	"strings"

	errs "github.com/vango-dev/waypoint/internal/errors"
)

// RestorationID derives the stable restoration key for a route:
// each ancestor path's label, outermost first, then the route's own
// identity, joined with "/". Identical navigation states produce
// identical keys; distinct states produce distinct keys as long as
// stack labels and route identities are themselves distinct.
func (c *Coordinator) RestorationID(r *Route) string {
	var labels []string
	for p := r.Owner(); p != nil; {
		labels = append([]string{p.Label()}, labels...)
		if l := p.layoutOwner(); l != nil {
			p = l.Route().Owner()
		} else {
			p = nil
		}
	}
	return strings.Join(append(labels, r.Identity()), "/")
}

// CheckRestorationIDs verifies that every active route produces a
// unique restoration key, scanning the registered paths, the module
// aggregator's paths, and the active layout paths. Two distinct routes
// colliding is a caller error (duplicate stack labels or route
// identities) and is reported loudly as N300 rather than silently
// overwriting restored state.
func (c *Coordinator) CheckRestorationIDs() error {
	seen := make(map[string]*Route)
	check := func(p Path) error {
		for _, r := range p.Routes() {
			id := c.RestorationID(r)
			if prev, ok := seen[id]; ok && prev != r {
				return errs.New("N300").WithDetail("routes %q and %q both restore as %q", prev.Identity(), r.Identity(), id)
			}
			seen[id] = r
		}
		return nil
	}

	visited := make(map[Path]bool)
	paths := make([]Path, 0, len(c.paths)+len(c.active))
	paths = append(paths, c.paths...)
	if c.agg != nil {
		paths = append(paths, c.agg.Paths()...)
	}
	for _, l := range c.active {
		paths = append(paths, l.path)
	}
	for _, p := range paths {
		if visited[p] {
			continue
		}
		visited[p] = true
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}
