package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	goGate "github.com/hirewire/goGate"
	"github.com/hirewire/goGate/internal/sanitize"
)

// HardenInput filters request values before handlers run: query
// parameters and JSON body values are scanned for SQL-shaped keywords
// (any match rejects the request) and then HTML-escaped. The handler
// sees a rebuilt request carrying the escaped values; the transforms
// never touch the original decoded trees.
func HardenInput(gate *goGate.Gate) func(http.Handler) http.Handler {
	cfg := gate.Config().Sanitize

	return func(next http.Handler) http.Handler {
		if !cfg.RejectSQLPatterns && !cfg.EscapeHTML {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = withClientContext(r)

			query := r.URL.Query()
			if cfg.RejectSQLPatterns {
				if _, hit := sanitize.ScanSQLValues(query); hit {
					gate.ReportInputRejected(r.Context(), r.URL.Path)
					rejected(w, goGate.ErrMalformedInput)
					return
				}
			}

			body, ok, err := readJSONBody(r, cfg.MaxBodyBytes)
			if err != nil {
				rejected(w, goGate.ErrMalformedInput)
				return
			}
			if ok && cfg.RejectSQLPatterns {
				if _, hit := sanitize.ScanSQL(body); hit {
					gate.ReportInputRejected(r.Context(), r.URL.Path)
					rejected(w, goGate.ErrMalformedInput)
					return
				}
			}

			if cfg.EscapeHTML {
				escaped := sanitize.EscapeValues(query)
				r.URL.RawQuery = url.Values(escaped).Encode()

				if ok {
					if err := replaceBody(r, sanitize.EscapeHTML(body)); err != nil {
						rejected(w, goGate.ErrMalformedInput)
						return
					}
				}

				gate.ReportInputSanitized(r.Context(), r.URL.Path)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// readJSONBody decodes a JSON request body into a value tree. It returns
// ok=false for requests without a JSON body. The raw bytes are restored
// on r.Body so downstream readers still work when escaping is off.
func readJSONBody(r *http.Request, limit int64) (interface{}, bool, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false, nil
	}
	ct := r.Header.Get("Content-Type")
	if !hasJSONContentType(ct) {
		return nil, false, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, limit))
	if err != nil {
		return nil, false, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false, nil
	}

	var tree interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, false, err
	}

	return tree, true, nil
}

func replaceBody(r *http.Request, tree interface{}) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return err
	}

	r.Body = io.NopCloser(bytes.NewReader(data))
	r.ContentLength = int64(len(data))

	return nil
}

func hasJSONContentType(ct string) bool {
	// Content-Type may carry parameters ("application/json; charset=utf-8").
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct) == "application/json"
}
