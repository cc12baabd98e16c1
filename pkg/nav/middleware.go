package nav

// OpKind names a coordinator operation for middleware and logging.
type OpKind string

const (
	OpPush             OpKind = "push"
	OpPushOrMoveToTop  OpKind = "push_or_move_to_top"
	OpReplace          OpKind = "replace"
	OpPop              OpKind = "pop"
	OpNavigate         OpKind = "navigate"
	OpPushReplacement  OpKind = "push_replacement"

	// OpRecover is a deep-link dispatch. It is a single op: the stack
	// mutation it chooses runs inside it, not as a nested op, and its
	// Status is the mutation's outcome.
	OpRecover OpKind = "recover"
)

// OpStatus is the observable outcome of a coordinator operation.
type OpStatus string

const (
	// StatusApplied means the operation mutated state.
	StatusApplied OpStatus = "applied"

	// StatusAborted means a redirect resolved to nothing; no state
	// changed and nothing was notified.
	StatusAborted OpStatus = "aborted"

	// StatusVetoed means a guard rejected a removal.
	StatusVetoed OpStatus = "vetoed"

	// StatusUnavailable means no eligible path could satisfy the
	// operation (e.g. nothing to pop).
	StatusUnavailable OpStatus = "unavailable"
)

// Op describes one coordinator operation as it flows through the
// middleware chain. Status is populated by the time next() returns.
type Op struct {
	Kind        OpKind
	Route       *Route
	Location    string
	Coordinator *Coordinator
	Status      OpStatus
}

// Middleware wraps coordinator operations. Call next to run the rest
// of the chain and the operation itself; skip it to suppress the
// operation entirely.
type Middleware interface {
	Handle(op *Op, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(op *Op, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(op *Op, next func() error) error {
	return f(op, next)
}

// ComposeMiddleware builds a handler chain from middleware and a final
// handler. Middleware is executed in order (first to last), with the
// handler at the end.
func ComposeMiddleware(op *Op, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	// Build chain from end to start
	var chain func() error
	chain = handler

	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(op, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(op *Op, next func() error) error {
		return ComposeMiddleware(op, middleware, next)
	})
}
