package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
)

// APIKeyAuth guards mutating access to the register. The expected key is
// configured, not stored: a single-operator deployment has exactly one.
// Both sides are HMAC'd with the pepper before the constant-time compare so
// key length leaks nothing.
func APIKeyAuth(key, pepper string) func(http.Handler) http.Handler {
	mac := func(value string) []byte {
		m := hmac.New(sha256.New, []byte(pepper))
		m.Write([]byte(value))
		return m.Sum(nil)
	}
	want := mac(key)

	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := mac(r.Header.Get("api_key"))
			if !hmac.Equal(got, want) {
				respond(w, r, http.StatusUnauthorized, errorBody{
					Code:    http.StatusUnauthorized,
					Message: "unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
