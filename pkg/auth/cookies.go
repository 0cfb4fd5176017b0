package auth

import (
	"net/http"
	"strconv"
	"time"

	"hublens-backend/domain/core/valueobjects"
)

// Cookie names. Tokens live exclusively in HttpOnly cookies; the server
// reads them per request and never stores them.
const (
	SessionCookie      = "hublens_session"
	AccessTokenCookie  = "hublens_token"
	AccessExpiryCookie = "hublens_token_exp"
	RefreshTokenCookie = "hublens_refresh"
	PublicTokenCookie  = "hublens_public_token"
	PublicExpiryCookie = "hublens_public_token_exp"
)

// WriteCredentialCookies stores a credential pair on the response
func WriteCredentialCookies(w http.ResponseWriter, secure bool, accessToken, refreshToken string, expiresAt time.Time) {
	setCookie(w, AccessTokenCookie, accessToken, expiresAt, secure)
	setCookie(w, AccessExpiryCookie, strconv.FormatInt(expiresAt.Unix(), 10), expiresAt, secure)
	if refreshToken != "" {
		// Refresh tokens outlive the access token; cap at 14 days.
		setCookie(w, RefreshTokenCookie, refreshToken, time.Now().Add(14*24*time.Hour), secure)
	}
}

// WritePublicTokenCookies stores the restricted-scope token used by the
// front-end viewer
func WritePublicTokenCookies(w http.ResponseWriter, secure bool, token string, expiresAt time.Time) {
	setCookie(w, PublicTokenCookie, token, expiresAt, secure)
	setCookie(w, PublicExpiryCookie, strconv.FormatInt(expiresAt.Unix(), 10), expiresAt, secure)
}

// ClearCredentialCookies removes every token cookie
func ClearCredentialCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{
		AccessTokenCookie, AccessExpiryCookie, RefreshTokenCookie,
		PublicTokenCookie, PublicExpiryCookie,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ReadCredentials extracts the elevated-scope credential from request
// cookies; the zero value means no credential is present.
func ReadCredentials(r *http.Request) valueobjects.Credentials {
	return readPair(r, AccessTokenCookie, AccessExpiryCookie)
}

// ReadRefreshToken extracts the refresh token, if any
func ReadRefreshToken(r *http.Request) string {
	c, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// ReadPublicCredentials extracts the restricted-scope credential
func ReadPublicCredentials(r *http.Request) valueobjects.Credentials {
	return readPair(r, PublicTokenCookie, PublicExpiryCookie)
}

func readPair(r *http.Request, tokenName, expiryName string) valueobjects.Credentials {
	tokenCookie, err := r.Cookie(tokenName)
	if err != nil || tokenCookie.Value == "" {
		return valueobjects.Credentials{}
	}

	var expiresAt time.Time
	if expiryCookie, err := r.Cookie(expiryName); err == nil {
		if unix, err := strconv.ParseInt(expiryCookie.Value, 10, 64); err == nil {
			expiresAt = time.Unix(unix, 0)
		}
	}

	return valueobjects.NewCredentials(tokenCookie.Value, expiresAt)
}

func setCookie(w http.ResponseWriter, name, value string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
