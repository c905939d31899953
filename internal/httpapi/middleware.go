package httpapi

import (
	"net/http"
	"time"

	"ceeify/internal/authtoken"
)

// RequireAuth returns middleware that rejects requests lacking a valid
// bearer token, grounded on server/middle.RequireAuth's
// AuthHandler.ServeHTTP shape (extract token, validate, delay then
// respond on failure).
func RequireAuth(iss *authtoken.Issuer, unauthDelay time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, err := authtoken.FromHeader(req)
			if err != nil {
				time.Sleep(unauthDelay)
				Unauthorized(err.Error()).WriteResponse(w, req)
				return
			}
			if err := iss.Validate(tok); err != nil {
				time.Sleep(unauthDelay)
				Unauthorized(err.Error()).WriteResponse(w, req)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// Recoverer returns middleware that converts a panicking handler into an
// HTTP-500, grounded on server/middle.DontPanic.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				ServerError("panic in handler").WriteResponse(w, req)
			}
		}()
		next.ServeHTTP(w, req)
	})
}
