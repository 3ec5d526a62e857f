package middleware

import (
	"net/http"
)

// DefaultMaxBodyBytes is the default maximum request body size (256 KiB).
// The largest body this API accepts is a full schedule, which is small.
const DefaultMaxBodyBytes = 256 << 10

// MaxBytes limits the request body size. Bodies over maxBytes get
// 413 Request Entity Too Large.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
