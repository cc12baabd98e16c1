package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (N100-N199)
	// ============================================

	"N100": {
		Category:   CategoryConfig,
		Message:    "Layout key has no registered factory",
		Suggestion: "Register a factory with Coordinator.RegisterLayout before navigating to routes that use this layout key.",
		DocURL:     "https://waypoint.vango.dev/docs/errors/N100",
	},
	"N101": {
		Category:   CategoryConfig,
		Message:    "Layout parent chain is too deep",
		Suggestion: "Check the layout factories for a parent-key cycle; a layout must not be its own ancestor.",
		DocURL:     "https://waypoint.vango.dev/docs/errors/N101",
	},
	"N102": {
		Category:   CategoryConfig,
		Message:    "Coordinator has no module aggregator",
		Suggestion: "Attach modules with Coordinator.SetModules before dispatching external locations.",
		DocURL:     "https://waypoint.vango.dev/docs/errors/N102",
	},

	// ============================================
	// Module Errors (N200-N299)
	// ============================================

	"N200": {
		Category:   CategoryConfig,
		Message:    "Module aggregator constructed without a fallback",
		Suggestion: "Pass a non-nil fallback parser to NewAggregator; unmatched locations must resolve to a \"not found\" route.",
		DocURL:     "https://waypoint.vango.dev/docs/errors/N200",
	},
	"N201": {
		Category:   CategoryNavigation,
		Message:    "Location did not canonicalize",
		Suggestion: "External locations must be relative paths without backslashes, NUL bytes, or segments escaping the root.",
		DocURL:     "https://waypoint.vango.dev/docs/errors/N201",
	},

	// ============================================
	// Restoration Errors (N300-N399)
	// ============================================

	"N300": {
		Category:   CategoryRestoration,
		Message:    "Duplicate restoration identifier",
		Suggestion: "Give each stack a distinct label and each route a distinct identity; restoration keys must be unique across the active hierarchy.",
		DocURL:     "https://waypoint.vango.dev/docs/errors/N300",
	},

	// ============================================
	// Protocol Errors (N400-N499)
	// ============================================

	"N400": {
		Category:   CategoryProtocol,
		Message:    "Malformed inbound sync frame",
		Suggestion: "Inbound frames must be JSON objects with a \"type\" field of \"navigate\", \"back\", or \"ping\".",
		DocURL:     "https://waypoint.vango.dev/docs/errors/N400",
	},
}

// Lookup returns the template for a code, if registered.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
