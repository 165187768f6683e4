package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// ErrOIDCDisabled is returned when the Entra login is disabled via configuration.
var ErrOIDCDisabled = errors.New("entra authentication is disabled")

// OIDCConfig holds the Entra ID (OpenID Connect) settings for authentication.
type OIDCConfig struct {
	// Enabled indicates if Entra authentication is enabled.
	Enabled bool
	// ProviderURL is the OIDC discovery URL
	// (e.g. "https://login.microsoftonline.com/<tenant>/v2.0").
	ProviderURL string
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// RedirectURL is the OAuth2 callback URL.
	RedirectURL string
	// Scopes are the OAuth2 scopes to request (default: ["openid", "profile", "email"]).
	Scopes []string
	// GroupsClaim is the ID token claim carrying group memberships
	// (default "groups").
	GroupsClaim string
}

// OIDCProvider handles the Entra ID authentication flow.
type OIDCProvider struct {
	config   *OIDCConfig
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
}

// NewOIDCProvider creates a new Entra ID provider.
func NewOIDCProvider(ctx context.Context, config *OIDCConfig) (*OIDCProvider, error) {
	if !config.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, config.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.ClientID,
	})

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	oauth2Config := oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}

	return &OIDCProvider{
		config:   config,
		provider: provider,
		verifier: verifier,
		oauth2:   oauth2Config,
	}, nil
}

// GetAuthURL returns the authorization URL with the given state token.
func (p *OIDCProvider) GetAuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, verifies the ID token and
// returns the identity claims plus the group display names. Group membership
// and identity are the only outputs consumed here; session issuance and
// permission resolution are the caller's concern.
func (p *OIDCProvider) HandleCallback(ctx context.Context, code string) (UserInfo, []string, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return UserInfo{}, nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return UserInfo{}, nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return UserInfo{}, nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		PreferredUsername string   `json:"preferred_username"`
		Email             string   `json:"email"`
		Name              string   `json:"name"`
		Groups            []string `json:"groups"`
	}

	if err = idToken.Claims(&claims); err != nil {
		return UserInfo{}, nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	info := UserInfo{
		PreferredUsername: claims.PreferredUsername,
		Mail:              claims.Email,
	}

	groups := p.groupsFromToken(idToken, claims.Groups)

	return info, groups, nil
}

// VerifyToken verifies the signature and claims of an ID token.
func (p *OIDCProvider) VerifyToken(ctx context.Context, rawToken string) (*oidc.IDToken, error) {
	return p.verifier.Verify(ctx, rawToken)
}

// groupsFromToken determines the user's groups using the configured claim.
// Entra delivers either plain name strings or membership objects with a
// displayName field; both forms are normalized to name strings here so the
// pipeline never branches on claim shape.
func (p *OIDCProvider) groupsFromToken(idToken *oidc.IDToken, defaultGroups []string) []string {
	gc := p.config.GroupsClaim
	if gc == "" || gc == "groups" {
		return defaultGroups
	}

	var allClaims map[string]interface{}
	if err := idToken.Claims(&allClaims); err != nil {
		return defaultGroups
	}

	v, ok := allClaims[gc]
	if !ok {
		return defaultGroups
	}

	raw, ok := v.([]interface{})
	if !ok {
		return defaultGroups
	}

	names := make([]string, 0, len(raw))

	for _, g := range raw {
		switch gv := g.(type) {
		case string:
			names = append(names, gv)
		case map[string]interface{}:
			if name, ok := gv["displayName"].(string); ok {
				names = append(names, name)
			}
		}
	}

	return names
}

// GetLogoutURL constructs the provider's logout URL if supported. Returns an
// empty string if the provider has no end_session_endpoint.
func (p *OIDCProvider) GetLogoutURL(idToken, postLogoutRedirectURI string) string {
	var claims struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}

	if err := p.provider.Claims(&claims); err != nil || claims.EndSessionEndpoint == "" {
		return ""
	}

	return fmt.Sprintf("%s?id_token_hint=%s&post_logout_redirect_uri=%s",
		claims.EndSessionEndpoint,
		idToken,
		postLogoutRedirectURI,
	)
}
