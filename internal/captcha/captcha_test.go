package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhilfond/server/internal/apperrors"
)

func providerStub(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.Form.Get("secret"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestVerify_Passed(t *testing.T) {
	server := providerStub(t, http.StatusOK, `{"status":"ok"}`)
	defer server.Close()

	v := NewVerifier("test-secret", server.URL, logrus.New())
	assert.NoError(t, v.Verify(context.Background(), "challenge-token", "127.0.0.1"))
}

func TestVerify_ChallengeFailed(t *testing.T) {
	server := providerStub(t, http.StatusOK, `{"status":"failed","message":"robot"}`)
	defer server.Close()

	v := NewVerifier("test-secret", server.URL, logrus.New())
	err := v.Verify(context.Background(), "challenge-token", "127.0.0.1")

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "captcha_token", ve.Field)
}

func TestVerify_MissingToken(t *testing.T) {
	v := NewVerifier("test-secret", "http://unused", logrus.New())
	err := v.Verify(context.Background(), "", "127.0.0.1")

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestVerify_ProviderError(t *testing.T) {
	server := providerStub(t, http.StatusInternalServerError, "")
	defer server.Close()

	v := NewVerifier("test-secret", server.URL, logrus.New())
	err := v.Verify(context.Background(), "challenge-token", "127.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestVerify_ProviderUnreachable(t *testing.T) {
	server := providerStub(t, http.StatusOK, `{"status":"ok"}`)
	server.Close() // nothing listens anymore

	v := NewVerifier("test-secret", server.URL, logrus.New())
	err := v.Verify(context.Background(), "challenge-token", "127.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestVerify_Disabled(t *testing.T) {
	v := NewVerifier("", "http://unused", logrus.New())
	assert.False(t, v.Enabled())
	// Without a secret the check is skipped, token or not.
	assert.NoError(t, v.Verify(context.Background(), "", "127.0.0.1"))
}
