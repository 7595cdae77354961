package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/auth"
	"zhilfond/server/internal/models"
)

const oauthStateCookie = "oauth_state"

type registerRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account after the CAPTCHA check and logs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if h.captcha != nil {
		if err := h.captcha.Verify(c.Request.Context(), req.CaptchaToken, c.ClientIP()); err != nil {
			h.respondError(c, err)
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := h.db.CreateUser(user); err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("User registered")
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies the password and mints a token. Verification only; no
// stored credential is ever mutated here.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.db.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.respondError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until its natural expiry.
func (h *Handler) Logout(c *gin.Context) {
	authCtx := auth.FromContext(c)

	if h.revoked != nil {
		if err := h.revoked.Revoke(c.Request.Context(), authCtx.JTI, authCtx.ExpiresAt); err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the caller's account.
func (h *Handler) Me(c *gin.Context) {
	authCtx := auth.FromContext(c)

	user, err := h.db.GetUserByID(authCtx.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// OAuthLogin redirects the browser to the provider's consent page.
func (h *Handler) OAuthLogin(c *gin.Context) {
	if h.oauth == nil || !h.oauth.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "OAuth login is not configured"})
		return
	}

	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, h.oauth.AuthURL(state))
}

// OAuthCallback finishes the authorization-code flow. Provider failures
// send the browser back to the login page with an error code; a user is
// provisioned on first login and the token always carries the numeric id.
func (h *Handler) OAuthCallback(c *gin.Context) {
	if h.oauth == nil || !h.oauth.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "OAuth login is not configured"})
		return
	}

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.Redirect(http.StatusFound, h.loginPage+"?error=oauth_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.loginPage+"?error=oauth_denied")
		return
	}

	profile, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.WithError(err).Error("OAuth login failed")
		c.Redirect(http.StatusFound, h.loginPage+"?error=oauth_failed")
		return
	}

	user, err := h.resolveOAuthUser(profile.ID, profile.Email, profile.Name)
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve OAuth user")
		c.Redirect(http.StatusFound, h.loginPage+"?error=oauth_failed")
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		c.Redirect(http.StatusFound, h.loginPage+"?error=oauth_failed")
		return
	}

	c.Redirect(http.StatusFound, h.loginPage+"?token="+token)
}

func (h *Handler) resolveOAuthUser(oauthID, email, name string) (*models.User, error) {
	user, err := h.db.GetUserByOAuthID(oauthID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Link an existing password account with the same address.
	user, err = h.db.GetUserByEmail(email)
	if err == nil {
		user.OAuthID = oauthID
		if err := h.db.UpdateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Email:   email,
		Name:    name,
		Role:    models.RoleUser,
		OAuthID: oauthID,
	}
	if err := h.db.CreateUser(user); err != nil {
		return nil, err
	}
	h.logger.WithField("user_id", user.ID).Info("Provisioned user from OAuth profile")
	return user, nil
}
