package aps

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth endpoints of the APS authentication v2 service
const (
	authURL  = DefaultBaseURL + "/authentication/v2/authorize"
	tokenURL = DefaultBaseURL + "/authentication/v2/token"
)

// Scopes: the elevated credential browses the data hierarchy; the public
// credential is handed to the front-end viewer and can only read viewables.
var (
	internalScopes = []string{"data:read"}
	publicScopes   = []string{"viewables:read"}
)

// NewOAuthConfig builds the three-legged authorization-code configuration
// used for the login redirect and the callback exchange
func NewOAuthConfig(clientID, clientSecret, callbackURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       internalScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// NewPublicTokenConfig builds the two-legged client-credentials
// configuration that issues restricted-scope tokens for the viewer
func NewPublicTokenConfig(clientID, clientSecret string) *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       publicScopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
}
