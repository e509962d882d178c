package ui

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/tui/internal/session"
	"taskflow/tui/internal/ui/views"
)

const sessionExpiredNotice = "Your session has expired. Please sign in again."

// App is the root model. It owns the session and decides which screen
// is shown; child views only emit navigation messages.
type App struct {
	backend  views.Backend
	sessions *session.Store
	log      *slog.Logger

	current tea.Model
	session *session.Session

	width  int
	height int
}

// NewApp creates the root model. The starting screen depends on whether
// a stored session already exists.
func NewApp(backend views.Backend, sessions *session.Store, log *slog.Logger) *App {
	app := &App{
		backend:  backend,
		sessions: sessions,
		log:      log,
	}

	sess, err := sessions.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			log.Warn("failed to load session", "error", err)
		}
		app.current = views.NewSignInView(backend, "")
		return app
	}

	app.session = sess
	app.current = views.NewDashboardView(backend, sess)
	return app
}

func (a *App) Init() tea.Cmd {
	return a.current.Init()
}

// switchTo replaces the current screen and replays the window size so
// the new view renders at the right dimensions immediately.
func (a *App) switchTo(next tea.Model) tea.Cmd {
	a.current = next
	cmd := next.Init()
	if a.width > 0 {
		a.current, _ = a.current.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return cmd
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case views.SignedIn:
		a.session = msg.Session
		return a, a.switchTo(views.NewDashboardView(a.backend, msg.Session))

	case views.SessionExpired:
		a.log.Info("session expired")
		a.session = nil
		return a, a.switchTo(views.NewSignInView(a.backend, sessionExpiredNotice))

	case views.ShowSignUp:
		return a, a.switchTo(views.NewSignUpView(a.backend))

	case views.ShowSignIn:
		return a, a.switchTo(views.NewSignInView(a.backend, ""))

	case views.OpenChat:
		return a, a.switchTo(views.NewChatView(a.backend))

	case views.OpenDashboard:
		return a, a.switchTo(views.NewDashboardView(a.backend, a.session))

	case views.SignOutRequested:
		if err := a.sessions.Clear(); err != nil {
			a.log.Warn("failed to clear session", "error", err)
		}
		a.session = nil
		return a, a.switchTo(views.NewSignInView(a.backend, ""))
	}

	var cmd tea.Cmd
	a.current, cmd = a.current.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.current.View()
}
