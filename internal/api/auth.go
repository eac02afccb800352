package api

import (
	"context"
	"errors"
	"net/http"
)

// Login authenticates with email and password. The backend sets a session
// cookie on success, which the client's jar carries on later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]string{"email": email, "password": password}
	var user User
	if err := c.postJSON(ctx, "login", "/Login/login", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the server session.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "logout", "/Login/logout", nil, nil)
}

// Session returns the account behind the current session cookie, or an
// *APIError with status 401 when there is none.
func (c *Client) Session(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "session", "/Login/session", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.postJSON(ctx, "register", "/user/regi", req, nil)
}

// CheckEmail reports whether the address is free to register.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	payload := map[string]string{"email": email}
	var resp struct {
		Available bool `json:"available"`
	}
	err := c.postJSON(ctx, "check_email", "/user/checkemail", payload, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return false, nil
		}
		return false, err
	}
	return resp.Available, nil
}

// SendCode mails a verification code to the address.
func (c *Client) SendCode(ctx context.Context, email string) error {
	return c.postJSON(ctx, "send_code", "/user/sendcode", map[string]string{"email": email}, nil)
}

// VerifyCode checks a verification code previously mailed by SendCode.
func (c *Client) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	payload := map[string]string{"email": email, "code": code}
	var resp struct {
		Verified bool `json:"verified"`
	}
	err := c.postJSON(ctx, "verify_code", "/user/verifycode", payload, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return false, nil
		}
		return false, err
	}
	return resp.Verified, nil
}

// PasswordReset asks the backend to mail a reset link. A 404 means the
// address is unknown and maps to ErrEmailNotFound.
func (c *Client) PasswordReset(ctx context.Context, email string) error {
	err := c.postJSON(ctx, "password_reset", "/auth/password-reset", map[string]string{"email": email}, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return ErrEmailNotFound
		}
		return err
	}
	return nil
}
