package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/tui/internal/api"
	"taskflow/tui/internal/ui/keys"
	"taskflow/tui/internal/ui/styles"
)

// SignInView is the email/password sign-in form
type SignInView struct {
	backend Backend
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=submit

	errMsg  string
	notice  string
	loading bool
}

// NewSignInView creates the sign-in form. notice is an optional banner
// shown above the form (e.g. after a session expiry).
func NewSignInView(backend Backend, notice string) *SignInView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &SignInView{
		backend:  backend,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
		notice:   notice,
	}
}

func (v *SignInView) Init() tea.Cmd {
	return textinput.Blink
}

type signInFailedMsg struct {
	err error
}

func (v *SignInView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()

	if email == "" || password == "" {
		v.errMsg = "Email and password are required"
		return nil
	}

	v.errMsg = ""
	v.loading = true
	return func() tea.Msg {
		sess, err := v.backend.SignIn(context.Background(), email, password)
		if err != nil {
			return signInFailedMsg{err: err}
		}
		return SignedIn{Session: sess}
	}
}

func (v *SignInView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case signInFailedMsg:
		v.loading = false
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			v.errMsg = "Invalid email or password"
		} else {
			v.errMsg = errText(msg.err)
		}
		return v, nil

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, textinput.Blink

		case msg.String() == "shift+tab":
			v.cycleFocus(-1)
			return v, textinput.Blink

		case msg.String() == "ctrl+n":
			return v, func() tea.Msg { return ShowSignUp{} }

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.cycleFocus(1)
				return v, textinput.Blink
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *SignInView) cycleFocus(dir int) {
	v.focusIdx = (v.focusIdx + dir + 3) % 3
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *SignInView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	emailStyle := s.Input
	passwordStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passwordStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	btnLabel := " Sign In "
	if v.loading {
		btnLabel = " Signing in... "
	}

	parts := []string{
		s.Title.Render("TaskFlow"),
		s.TitleMuted.Render("Sign in to continue to your dashboard"),
		"",
	}
	if v.notice != "" {
		parts = append(parts, s.TitleMuted.Render(v.notice), "")
	}
	if v.errMsg != "" {
		parts = append(parts, s.ErrorText.Render(v.errMsg), "")
	}
	parts = append(parts,
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		passwordStyle.Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(btnLabel),
		"",
		s.Help.Render(
			s.HelpKey.Render("tab")+" next • "+
				s.HelpKey.Render("↵")+" submit • "+
				s.HelpKey.Render("ctrl+n")+" create account",
		),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
