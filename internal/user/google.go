package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrGoogleExchange = errors.New("google code exchange failed")

type GoogleIdentity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	RefreshToken  string `json:"-"`
}

// IdentityProvider turns an OAuth authorization code into a verified Google identity.
type IdentityProvider interface {
	Identify(ctx context.Context, code string) (*GoogleIdentity, error)
}

type googleProvider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(oauthConfig *oauth2.Config) IdentityProvider {
	return &googleProvider{oauthConfig: oauthConfig, userInfoURL: googleUserInfoURL}
}

func NewGoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

func (p *googleProvider) Identify(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch google userinfo: status %d", resp.StatusCode)
	}

	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode google userinfo: %w", err)
	}
	identity.RefreshToken = token.RefreshToken
	return &identity, nil
}
