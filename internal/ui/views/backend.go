package views

import (
	"context"
	"errors"

	"taskflow/tui/internal/api"
	"taskflow/tui/internal/models"
	"taskflow/tui/internal/session"
)

// Backend is the slice of the API client the views depend on. Keeping
// it an interface lets view-model behavior be tested without a network.
type Backend interface {
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignUp(ctx context.Context, name, email, password string) (*session.Session, error)

	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, fields models.TaskFields) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, fields models.TaskFields) (*models.Task, error)
	ToggleComplete(ctx context.Context, id string) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	SendChat(ctx context.Context, message string, conversationID *string) (*models.ChatReply, error)
}

// Navigation messages bubbled up to the root app model. The request
// layer never navigates on its own; these are the only way a view
// changes what is on screen.

// SignedIn signals a successfully established session
type SignedIn struct {
	Session *session.Session
}

// SessionExpired signals that a request found no usable session.
// The root model responds by showing the sign-in screen.
type SessionExpired struct{}

// ShowSignUp switches to the sign-up screen
type ShowSignUp struct{}

// ShowSignIn switches to the sign-in screen
type ShowSignIn struct{}

// OpenChat switches to the assistant chat screen
type OpenChat struct{}

// OpenDashboard switches back to the task dashboard
type OpenDashboard struct{}

// SignOutRequested asks the root model to discard the session
type SignOutRequested struct{}

// genericErrorText is shown when the backend gave no usable detail
const genericErrorText = "Something went wrong. Please try again."

// errText converts a request error into the inline message shown to the
// user. Unauthenticated errors never reach here; callers surface
// SessionExpired for those instead.
func errText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return genericErrorText
}
