package rest

import (
	"context"
	"net/http"
)

// SessionInfo describes the authenticated session, if any.
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

// LoginResult reports whether the credentials were accepted outright or a
// second factor is still required.
type LoginResult struct {
	MFARequired bool `json:"mfaRequired"`
}

// Login starts a session. When the account has MFA enabled the session is
// not usable until VerifyMFA succeeds.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// VerifyMFA completes a login that answered with MFARequired.
func (c *Client) VerifyMFA(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/verify", map[string]string{"code": code}, nil)
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Session(ctx context.Context) (SessionInfo, error) {
	var out SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out); err != nil {
		return SessionInfo{}, err
	}
	return out, nil
}

// RequestMagicLink asks the API to mail a one-time login link.
func (c *Client) RequestMagicLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/magic-link", map[string]string{"email": email}, nil)
}
