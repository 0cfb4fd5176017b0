package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"hublens-backend/pkg/auth"
	"hublens-backend/pkg/common"
	pkgerrors "hublens-backend/pkg/errors"
)

// AuthHandler relays APS OAuth tokens through cookies. The server signs the
// state parameter, exchanges the authorization code, and hands tokens to
// the browser as HttpOnly cookies; it keeps nothing.
type AuthHandler struct {
	oauthConfig  *oauth2.Config
	publicConfig *clientcredentials.Config
	signer       *auth.StateSigner
	store        *auth.SessionStore
	secure       bool
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	oauthConfig *oauth2.Config,
	publicConfig *clientcredentials.Config,
	signer *auth.StateSigner,
	store *auth.SessionStore,
	secure bool,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		oauthConfig:  oauthConfig,
		publicConfig: publicConfig,
		signer:       signer,
		store:        store,
		secure:       secure,
		errorHandler: pkgerrors.NewErrorHandler(logger),
		logger:       logger,
	}
}

// Login handles GET /api/auth/login: redirect to the APS authorize page
// with a signed state parameter
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := h.signer.Sign()
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /api/auth/callback: verify state, exchange the code,
// store tokens as cookies, and send the browser back to the app
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if err := h.signer.Verify(r.URL.Query().Get("state")); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("missing authorization code"))
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		h.errorHandler.Handle(w, r,
			pkgerrors.NewUnauthorizedError("authorization code exchange failed").WithCause(err))
		return
	}

	auth.WriteCredentialCookies(w, h.secure, token.AccessToken, token.RefreshToken, token.Expiry)
	h.logger.Info("User signed in")

	http.Redirect(w, r, "/", http.StatusFound)
}

// Refresh handles POST /api/auth/refresh: trade the refresh token for a new
// access token and reset the cookies
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := auth.ReadRefreshToken(r)
	if refreshToken == "" {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("no refresh token"))
		return
	}

	source := h.oauthConfig.TokenSource(r.Context(), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		h.errorHandler.Handle(w, r,
			pkgerrors.NewUnauthorizedError("token refresh failed").WithCause(err))
		return
	}

	auth.WriteCredentialCookies(w, h.secure, token.AccessToken, token.RefreshToken, token.Expiry)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"expiresAt": token.Expiry.Unix(),
	})
}

// PublicToken handles GET /api/auth/token: return the restricted-scope
// token the front-end viewer embeds, minting a fresh one when the cookie
// copy has expired
func (h *AuthHandler) PublicToken(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	if cred := auth.ReadPublicCredentials(r); !cred.IsZero() && !cred.Expired(now.Add(time.Minute)) {
		common.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"accessToken": cred.AccessToken,
			"expiresIn":   int(cred.ExpiresAt.Sub(now).Seconds()),
		})
		return
	}

	token, err := h.publicConfig.Token(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r,
			pkgerrors.NewTransportError("public_token", 0, err))
		return
	}

	auth.WritePublicTokenCookies(w, h.secure, token.AccessToken, token.Expiry)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": token.AccessToken,
		"expiresIn":   int(token.Expiry.Sub(now).Seconds()),
	})
}

// Logout handles POST /api/auth/logout: drop every token cookie and the
// session's navigation state
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCredentialCookies(w, h.secure)

	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		h.store.Delete(cookie.Value)
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"signedOut": true})
}

// Status handles GET /api/auth/status: report whether an elevated
// credential is present and live
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	cred := auth.ReadCredentials(r)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"signedIn": !cred.IsZero() && !cred.Expired(time.Now()),
	})
}
