package nav

import "context"

// RedirectRule is one link in a composable redirect chain. Rules are
// evaluated in order; the first non-Continue decision wins. A Stop
// abandons the operation, RedirectTo substitutes another route — and
// if that route carries rules of its own, evaluation continues there.
//
// Chained RedirectTo results are followed with no cycle detection: a
// redirect cycle (A→B→A) loops forever. This matches the simple
// single-hop RedirectFunc being the safe default; rule chains are for
// callers who own the full rule set and can rule cycles out.
type RedirectRule func(ctx context.Context, r *Route) RedirectDecision

// RedirectDecision is the outcome of one redirect rule.
type RedirectDecision struct {
	kind   redirectKind
	target *Route
}

type redirectKind int

const (
	redirectContinue redirectKind = iota
	redirectStop
	redirectSubstitute
)

// Continue passes evaluation to the next rule.
func Continue() RedirectDecision {
	return RedirectDecision{kind: redirectContinue}
}

// Stop abandons the whole requested operation, like a RedirectFunc
// returning nil.
func Stop() RedirectDecision {
	return RedirectDecision{kind: redirectStop}
}

// RedirectTo substitutes another route for the requested one.
func RedirectTo(r *Route) RedirectDecision {
	return RedirectDecision{kind: redirectSubstitute, target: r}
}

// resolveRedirect runs a route's redirect capability and returns the
// route to actually use, or nil when the operation must be silently
// abandoned. Routes without redirect capability pass through.
func resolveRedirect(ctx context.Context, r *Route) *Route {
	if r == nil {
		return nil
	}
	if len(r.RedirectRules) > 0 {
		return resolveRedirectRules(ctx, r)
	}
	if r.Redirect == nil {
		return r
	}
	// Single hop: the substitute is not re-resolved.
	return r.Redirect(ctx)
}

// resolveRedirectRules evaluates a rule chain, following RedirectTo
// substitutions into the target's own rules.
func resolveRedirectRules(ctx context.Context, r *Route) *Route {
	cur := r
	for {
		decision := Continue()
		for _, rule := range cur.RedirectRules {
			decision = rule(ctx, cur)
			if decision.kind != redirectContinue {
				break
			}
		}
		switch decision.kind {
		case redirectContinue:
			// Every rule passed: keep the current route.
			return cur
		case redirectStop:
			return nil
		case redirectSubstitute:
			if decision.target == nil {
				return nil
			}
			if decision.target == cur {
				return cur
			}
			cur = decision.target
			if len(cur.RedirectRules) == 0 {
				return cur
			}
		}
	}
}
