package sanitize

import "html"

// EscapeString HTML-escapes a single string value. Applying it twice
// escapes the ampersands produced by the first pass, so callers must
// escape exactly once per trust boundary.
func EscapeString(value string) string {
	return html.EscapeString(value)
}

// EscapeHTML returns a copy of a decoded value tree with every string
// leaf HTML-escaped. The input tree is never mutated; containers are
// rebuilt, non-string leaves are carried through unchanged.
func EscapeHTML(tree interface{}) interface{} {
	switch v := tree.(type) {
	case string:
		return html.EscapeString(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, child := range v {
			out[k] = EscapeHTML(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = EscapeHTML(child)
		}
		return out
	default:
		return tree
	}
}

// EscapeValues returns an escaped copy of flat multi-value string maps
// (query parameters, form values).
func EscapeValues(values map[string][]string) map[string][]string {
	out := make(map[string][]string, len(values))
	for k, vs := range values {
		escaped := make([]string, len(vs))
		for i, v := range vs {
			escaped[i] = html.EscapeString(v)
		}
		out[k] = escaped
	}
	return out
}
