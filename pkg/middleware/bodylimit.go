package middleware

import "net/http"

// MaxBody returns middleware that caps request body size at limit bytes.
// Reads past the limit fail, which surfaces as a decode error in handlers.
func MaxBody(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
