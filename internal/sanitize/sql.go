package sanitize

import "regexp"

// sqlPattern matches SQL-shaped keywords on word boundaries, so
// "SELECT * FROM users" trips it while "selection" does not. Known
// false positive: standalone words like "union" or "script" in
// legitimate prose are rejected too.
var sqlPattern = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|UNION|SCRIPT)\b`)

// MatchesSQL reports whether a single string value trips the keyword
// denylist.
func MatchesSQL(value string) bool {
	return sqlPattern.MatchString(value)
}

// ScanSQL recursively walks a decoded value tree and returns the first
// string leaf that matches the SQL keyword denylist, or false when the
// tree is clean. The input is never modified.
func ScanSQL(tree interface{}) (string, bool) {
	switch v := tree.(type) {
	case string:
		if MatchesSQL(v) {
			return v, true
		}
	case map[string]interface{}:
		for _, child := range v {
			if hit, ok := ScanSQL(child); ok {
				return hit, ok
			}
		}
	case []interface{}:
		for _, child := range v {
			if hit, ok := ScanSQL(child); ok {
				return hit, ok
			}
		}
	}
	return "", false
}

// ScanSQLValues applies the denylist to flat multi-value string maps
// (query parameters, form values).
func ScanSQLValues(values map[string][]string) (string, bool) {
	for _, vs := range values {
		for _, v := range vs {
			if MatchesSQL(v) {
				return v, true
			}
		}
	}
	return "", false
}
