package middleware

import (
	"crypto/subtle"
	"net/http"
)

// CSRFHeader is the header clients echo the per-session CSRF token in.
const CSRFHeader = "X-CSRF-Token"

// WithCSRF validates the anti-forgery token on state-mutating methods before
// any handler code runs. It must sit inside WithSession/RequireAuth: the
// reference value lives on the resolved session.
func WithCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			next.ServeHTTP(w, r)
			return
		}

		sess, ok := GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		got := r.Header.Get(CSRFHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(sess.CSRFToken)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"csrf token invalid"}` + "\n"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
