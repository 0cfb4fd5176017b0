package auth

import (
	"context"

	"hublens-backend/domain/core/valueobjects"
	pkgerrors "hublens-backend/pkg/errors"
)

type contextKey string

const (
	sessionContextKey     contextKey = "hublens_session"
	credentialsContextKey contextKey = "hublens_credentials"
)

// WithSession attaches a session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext extracts the session placed by the session middleware
func SessionFromContext(ctx context.Context) (*Session, error) {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok || session == nil {
		return nil, pkgerrors.NewInternalError("no session in request context")
	}
	return session, nil
}

// WithCredentials attaches the request's credential to the context
func WithCredentials(ctx context.Context, cred valueobjects.Credentials) context.Context {
	return context.WithValue(ctx, credentialsContextKey, cred)
}

// CredentialsFromContext extracts the credential placed by the credential
// middleware
func CredentialsFromContext(ctx context.Context) (valueobjects.Credentials, error) {
	cred, ok := ctx.Value(credentialsContextKey).(valueobjects.Credentials)
	if !ok || cred.IsZero() {
		return valueobjects.Credentials{}, pkgerrors.NewUnauthorizedError("no credential in request context")
	}
	return cred, nil
}
