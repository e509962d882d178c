package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"taskflow/tui/internal/session"
)

// ErrUnauthenticated indicates that no usable session exists: either
// none was stored, or the backend rejected the token with a 401. The
// stored session is cleared before this error is returned, so the
// caller only has to decide where to navigate.
var ErrUnauthenticated = errors.New("not authenticated")

// APIError carries a non-2xx backend response. Detail is the backend's
// human-readable explanation when one was provided.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client talks to the TaskFlow backend. All task and chat calls go
// through do, which injects the bearer token and normalizes failures.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
	log      *slog.Logger
}

// NewClient creates a backend client. The session store is required;
// logger may be nil.
func NewClient(baseURL string, sessions *session.Store, log *slog.Logger, timeout time.Duration) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
		log:      log,
	}
}

// do issues one authenticated request. The session is checked before
// any network I/O; an absent session fails immediately. A 401 response
// clears the stored session. Navigation is left entirely to the caller.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	sess, err := c.sessions.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return ErrUnauthenticated
		}
		return err
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	// Auth and content-type headers are set last so nothing upstream
	// can shadow them.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode == http.StatusUnauthorized {
		c.log.Warn("session rejected by backend", "path", path)
		_ = c.sessions.Clear()
		return ErrUnauthenticated
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := decodeError(res)
		c.log.Warn("request rejected", "method", method, "path", path, "status", res.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	c.log.Debug("request completed", "method", method, "path", path, "status", res.StatusCode)
	return nil
}

// decodeError pulls the backend's {"detail": ...} message out of an
// error response, falling back to the bare status code.
func decodeError(res *http.Response) *APIError {
	apiErr := &APIError{StatusCode: res.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
