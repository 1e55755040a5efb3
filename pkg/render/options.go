package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Action is the submission target used by HTML renderers.
	Action string
	// Method overrides the submission method (POST by default).
	Method string
	// Values pre-populates controls keyed by field label.
	Values map[string]string
	// Errors surfaces validation feedback keyed by field label.
	Errors map[string][]string
	// FormErrors carries messages not tied to a single field.
	FormErrors []string
	// Hidden adds hidden inputs (template id, csrf tokens) to HTML output.
	Hidden map[string]string
}
