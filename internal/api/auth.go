package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"taskflow/tui/internal/session"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges credentials for a bearer token and stores the
// resulting session. Auth endpoints are the only unauthenticated calls
// the client makes, so they bypass do.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	var tok tokenResponse
	err := c.post(ctx, "/api/auth/token", credentials{Email: email, Password: password}, &tok)
	if err != nil {
		return nil, err
	}

	sess := &session.Session{
		UserID: tok.User.ID,
		Name:   tok.User.Name,
		Email:  tok.User.Email,
		Token:  tok.AccessToken,
	}
	if err := c.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	c.log.Info("signed in", "user_id", sess.UserID)
	return sess, nil
}

// SignUp registers the account and then signs in, so a successful
// sign-up always yields an established session.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*session.Session, error) {
	err := c.post(ctx, "/api/auth/register", credentials{Name: name, Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	return c.SignIn(ctx, email, password)
}

// SignOut discards the stored session. The backend keeps no server-side
// session state to revoke.
func (c *Client) SignOut() error {
	c.log.Info("signed out")
	return c.sessions.Clear()
}

// post issues an unauthenticated JSON POST, used by the auth endpoints
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", "path", path, "error", err)
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
