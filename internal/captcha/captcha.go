// Package captcha verifies challenge tokens against the provider before
// registration is accepted.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"zhilfond/server/internal/apperrors"
)

type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
	logger    *logrus.Logger
}

func NewVerifier(secret, verifyURL string, logger *logrus.Logger) *Verifier {
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether a provider secret is configured. With no
// secret the check is skipped entirely (local development).
func (v *Verifier) Enabled() bool {
	return v.secret != ""
}

// Verify posts the challenge token to the provider. Returns nil when the
// challenge passed, a validation error when it failed, and an upstream
// error when the provider itself is unreachable.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Enabled() {
		return nil
	}
	if token == "" {
		return apperrors.NewValidation("captcha_token", "required")
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("token", token)
	form.Set("ip", remoteIP)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("captcha request: %w", apperrors.ErrUpstream)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.WithError(err).Error("Captcha provider unreachable")
		return fmt.Errorf("captcha verify: %w", apperrors.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha provider returned %d: %w", resp.StatusCode, apperrors.ErrUpstream)
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("captcha response decode: %w", apperrors.ErrUpstream)
	}
	if result.Status != "ok" {
		return apperrors.NewValidation("captcha_token", "challenge failed")
	}
	return nil
}
