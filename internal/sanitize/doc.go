// Package sanitize provides pure transforms over decoded request value
// trees (the map[string]any / []any / scalar shapes produced by
// encoding/json and url.Values).
//
// Both passes are functions from input tree to output: ScanSQL walks and
// reports, EscapeHTML builds a new tree and never mutates its input. The
// SQL keyword scan is a heuristic denylist, not a parser; parameterized
// queries at the data layer remain the real injection defense and this
// filter is an additional, intentionally coarse layer.
package sanitize
