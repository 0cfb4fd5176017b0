package middleware

import (
	"net/http"
	"time"

	"hublens-backend/pkg/auth"
	"hublens-backend/pkg/common"
)

// Credentials extracts the elevated-scope bearer credential from request
// cookies and attaches it to the context. Requests without a live credential
// are rejected; expiry is never handled here. Refresh is the auth handler's
// job and the client is expected to call it first.
func Credentials() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := auth.ReadCredentials(r)
			if cred.IsZero() {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not signed in")
				return
			}
			if cred.Expired(time.Now()) {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "credential expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithCredentials(r.Context(), cred)))
		})
	}
}
