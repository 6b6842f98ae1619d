// Package auth manages the OAuth2 credential lifecycle for the YouTube
// Data API: persistence, refresh, and the interactive authorization flow.
package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// expiryLeeway is subtracted from the recorded expiry when deciding
// whether a token is still usable, so a token is refreshed slightly
// before the remote server rejects it.
const expiryLeeway = 30 * time.Second

// Credential is the persisted OAuth2 token bundle.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// Valid reports whether the access token can still be used.
func (c *Credential) Valid() bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return true
	}
	return time.Now().Before(c.Expiry.Add(-expiryLeeway))
}

// CanRefresh reports whether an expired credential holds a refresh token.
func (c *Credential) CanRefresh() bool {
	return c != nil && c.RefreshToken != ""
}

// Token converts the credential to an oauth2.Token for use with token sources.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// fromToken builds a Credential from an exchanged or refreshed oauth2.Token.
// A refresh response may omit the refresh token; the previous one is kept.
func fromToken(tok *oauth2.Token, scopes []string, prevRefresh string) *Credential {
	cred := &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
		Scopes:       scopes,
	}
	if cred.RefreshToken == "" {
		cred.RefreshToken = prevRefresh
	}
	return cred
}
