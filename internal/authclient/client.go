// Package authclient holds the only code paths that call the backend's
// authentication endpoints: login, password-reset request/confirm, and reset
// token validation. Logout is local-only (session.Store.Clear) and has no
// endpoint here.
package authclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/api"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/session"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/logger"
)

// Client performs the auth exchanges. None of the operations retries.
type Client struct {
	api *api.Client
}

func New(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetRequest is the confirm-reset payload. The caller must have verified
// the password confirmation locally before building one.
type ResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Login exchanges credentials for a full session payload. The caller is
// responsible for committing the returned session to the store. A rejected
// pair surfaces as ErrInvalidCredentials carrying the server's message.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var out session.Session
	err := c.api.JSON(ctx, http.MethodPost, "/user/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset asks the backend to mail reset instructions. Returns
// the backend's confirmation text.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return c.api.Text(ctx, http.MethodPost, "/password/password-reset-request/"+url.PathEscape(email), nil)
}

// ValidateResetToken reports whether a reset token is still usable. A missing
// token, a transport failure, and a server-side rejection all come back as
// false; the caller renders the same "invalid link" state for each.
func (c *Client) ValidateResetToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	var valid bool
	if err := c.api.JSON(ctx, http.MethodGet, "/password/is-token-valid/"+url.PathEscape(token), nil, &valid); err != nil {
		logger.Debugf("reset token validation failed: %v", err)
		return false
	}
	return valid
}

// ConfirmPasswordReset submits the new password for the given token and
// returns the backend's confirmation text.
func (c *Client) ConfirmPasswordReset(ctx context.Context, req ResetRequest) (string, error) {
	msg, err := c.api.Text(ctx, http.MethodPost, "/password/password-reset/", req)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return "", fmt.Errorf("%w: %s", ErrTokenInvalid, apiErr.Message)
		}
		return "", err
	}
	return msg, nil
}

// ResetPassword is the full confirm flow: the local confirmation check runs
// first, and on mismatch no request is built at all.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) (string, error) {
	if err := CheckPasswordConfirmation(newPassword, confirmPassword); err != nil {
		return "", err
	}
	return c.ConfirmPasswordReset(ctx, ResetRequest{Token: token, NewPassword: newPassword})
}

// CheckPasswordConfirmation verifies the "new password" / "confirm password"
// pair. Mismatch is a local validation error, never a backend round-trip.
func CheckPasswordConfirmation(newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}
