package middleware

import (
	"net/http"

	"hublens-backend/pkg/auth"
)

// Session resolves the browser session from its cookie, creating both when
// absent, and attaches the session to the request context.
func Session(store *auth.SessionStore, secure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
				id = cookie.Value
			} else {
				id = store.NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     auth.SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			session := store.GetOrCreate(id)
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}
