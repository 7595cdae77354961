// Package oauth handles third-party login: authorization-code exchange
// and profile fetch against a configured provider.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"zhilfond/server/internal/apperrors"
)

// Profile is the subset of the provider's userinfo we need to provision
// an account.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Provider struct {
	config     *oauth2.Config
	profileURL string
	logger     *logrus.Logger
}

func NewProvider(clientID, clientSecret, redirectURL, authURL, tokenURL, profileURL string, logger *logrus.Logger) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		profileURL: profileURL,
		logger:     logger,
	}
}

// Enabled reports whether provider credentials are configured.
func (p *Provider) Enabled() bool {
	return p.config.ClientID != ""
}

// AuthURL returns the provider page to redirect the browser to.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange swaps the authorization code for an access token and fetches
// the user's profile. Any provider failure maps to an upstream error;
// the handler redirects back to the login page with an error code.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		p.logger.WithError(err).Error("OAuth code exchange failed")
		return nil, fmt.Errorf("code exchange: %w", apperrors.ErrUpstream)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(p.profileURL)
	if err != nil {
		p.logger.WithError(err).Error("OAuth profile fetch failed")
		return nil, fmt.Errorf("profile fetch: %w", apperrors.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch returned %d: %w", resp.StatusCode, apperrors.ErrUpstream)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("profile decode: %w", apperrors.ErrUpstream)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("incomplete profile: %w", apperrors.ErrUpstream)
	}
	return &profile, nil
}
