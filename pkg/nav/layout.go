package nav

import (
	errs "github.com/vango-dev/waypoint/internal/errors"
)

// LayoutKey identifies a shell (tab bar, sidebar, wrapper) that routes
// can declare membership in. Keys are resolved through the
// coordinator's factory registry.
type LayoutKey string

// Layout is a route that also owns a nested path: the shell case. The
// layout's own route may itself carry a LayoutKey, nesting shells
// arbitrarily deep.
type Layout struct {
	key   LayoutKey
	route *Route
	path  Path
}

// LayoutFactory constructs a layout when its key is first activated.
// Exactly one live instance per key exists while the layout is active;
// once discarded, the factory runs again on the next activation.
type LayoutFactory func(c *Coordinator) *Layout

// NewLayout binds a shell route to the path it owns. The path becomes
// layout-owned: a sequential path additionally refuses to pop its last
// entry, like the root.
func NewLayout(key LayoutKey, route *Route, path Path) *Layout {
	l := &Layout{key: key, route: route, path: path}
	path.setLayoutOwner(l)
	return l
}

// Key returns the layout's registry key.
func (l *Layout) Key() LayoutKey { return l.key }

// Route returns the shell's own navigation entity.
func (l *Layout) Route() *Route { return l.route }

// Path returns the nested path the shell owns.
func (l *Layout) Path() Path { return l.path }

// ParentKey returns the key of the layout this shell itself lives
// under, or "" for a top-level shell.
func (l *Layout) ParentKey() LayoutKey { return l.route.LayoutKey }

// maxLayoutDepth bounds ancestor-chain resolution. A chain this deep
// means the factories form a parent-key cycle.
const maxLayoutDepth = 32

// chainStrategy selects how a resolved layout chain is applied.
type chainStrategy int

const (
	// chainPushToTop reuses shells already on their parent paths
	// (push-or-move-to-top). Used by push and navigate.
	chainPushToTop chainStrategy = iota

	// chainOverride directly activates each shell, replacing parent
	// path contents. Used by replace and deep-link recovery.
	chainOverride
)

// resolveLayoutChain computes the ancestor chain of layouts the route
// must appear under, outermost first. Active layouts are reused
// (singleton-while-active); missing ones are constructed through the
// registry. An unregistered key is a programming error and panics with
// a coded error.
func (c *Coordinator) resolveLayoutChain(r *Route) []*Layout {
	var chain []*Layout
	key := r.LayoutKey
	for key != "" {
		l := c.activeLayout(key)
		if l == nil {
			l = c.constructedLayout(chain, key)
		}
		if l == nil {
			factory, ok := c.factories[key]
			if !ok {
				panic(errs.New("N100").WithDetail("layout key %q requested by route %q", key, r.Identity()))
			}
			l = factory(c)
		}
		chain = append(chain, l)
		if len(chain) > maxLayoutDepth {
			panic(errs.New("N101").WithDetail("resolving layouts for route %q exceeded depth %d", r.Identity(), maxLayoutDepth))
		}
		key = l.ParentKey()
	}
	// Collected innermost-out; the callers want outermost first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// constructedLayout finds a not-yet-activated instance already built
// earlier in this resolution, so one resolution never constructs the
// same key twice.
func (c *Coordinator) constructedLayout(chain []*Layout, key LayoutKey) *Layout {
	for _, l := range chain {
		if l.key == key {
			return l
		}
	}
	return nil
}

// applyLayoutChain activates the chain outer to inner and returns the
// innermost path, where the target route itself belongs. An inner
// shell is never mutated before its outer shell is in place, so
// observers cannot see a dangling inner stack.
func (c *Coordinator) applyLayoutChain(chain []*Layout, strategy chainStrategy) Path {
	parent := Path(c.root)
	for _, l := range chain {
		switch strategy {
		case chainOverride:
			parent.override(l.route)
		default:
			parent.pushToTop(l.route)
		}
		c.markActive(l)
		parent = l.path
	}
	return parent
}

// activeLayout returns the live instance for a key, or nil.
func (c *Coordinator) activeLayout(key LayoutKey) *Layout {
	for _, l := range c.active {
		if l.key == key {
			return l
		}
	}
	return nil
}

func (c *Coordinator) markActive(l *Layout) {
	for _, existing := range c.active {
		if existing == l {
			return
		}
	}
	c.active = append(c.active, l)
}

// pruneLayouts discards layouts whose shell route has left every path.
// A discarded layout's nested path is reset so its routes are released
// too; the next activation of the key constructs a fresh instance.
func (c *Coordinator) pruneLayouts() {
	if c.pruning {
		return
	}
	c.pruning = true
	defer func() { c.pruning = false }()

	// Resetting a discarded shell's path can orphan an inner shell, so
	// scan until stable.
	for {
		kept := c.active[:0]
		var discarded []*Layout
		for _, l := range c.active {
			if l.route.Owner() != nil {
				kept = append(kept, l)
			} else {
				discarded = append(discarded, l)
			}
		}
		c.active = kept
		if len(discarded) == 0 {
			return
		}
		for _, l := range discarded {
			l.path.Reset()
		}
	}
}
