package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/tui/internal/ui/keys"
	"taskflow/tui/internal/ui/styles"
)

// SignUpView is the account creation form
type SignUpView struct {
	backend Backend
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=name, 1=email, 2=password, 3=submit

	errMsg  string
	loading bool
}

func NewSignUpView(backend Backend) *SignUpView {
	name := textinput.New()
	name.Placeholder = "Jane Doe"
	name.CharLimit = 100
	name.Focus()

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "At least 8 characters"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &SignUpView{
		backend:  backend,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		name:     name,
		email:    email,
		password: password,
	}
}

func (v *SignUpView) Init() tea.Cmd {
	return textinput.Blink
}

type signUpFailedMsg struct {
	err error
}

// submit validates locally before touching the network. Validation
// failures never issue a request.
func (v *SignUpView) submit() tea.Cmd {
	name := strings.TrimSpace(v.name.Value())
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()

	if name == "" {
		v.errMsg = "Name is required"
		return nil
	}
	if !strings.Contains(email, "@") {
		v.errMsg = "Please enter a valid email address"
		return nil
	}
	if len(password) < 8 {
		v.errMsg = "Password must be at least 8 characters"
		return nil
	}

	v.errMsg = ""
	v.loading = true
	return func() tea.Msg {
		sess, err := v.backend.SignUp(context.Background(), name, email, password)
		if err != nil {
			return signUpFailedMsg{err: err}
		}
		return SignedIn{Session: sess}
	}
}

func (v *SignUpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case signUpFailedMsg:
		v.loading = false
		v.errMsg = errText(msg.err)
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

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return ShowSignIn{} }

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 3 {
				v.cycleFocus(1)
				return v, textinput.Blink
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.name, cmd = v.name.Update(msg)
	case 1:
		v.email, cmd = v.email.Update(msg)
	case 2:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *SignUpView) cycleFocus(dir int) {
	v.focusIdx = (v.focusIdx + dir + 4) % 4
	v.name.Blur()
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.name.Focus()
	case 1:
		v.email.Focus()
	case 2:
		v.password.Focus()
	}
}

func (v *SignUpView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	nameStyle := s.Input
	emailStyle := s.Input
	passwordStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		emailStyle = s.InputFocused
	case 2:
		passwordStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	btnLabel := " Create Account "
	if v.loading {
		btnLabel = " Creating... "
	}

	parts := []string{
		s.Title.Render("Create your account"),
		s.TitleMuted.Render("Get started with TaskFlow in seconds"),
		"",
	}
	if v.errMsg != "" {
		parts = append(parts, s.ErrorText.Render(v.errMsg), "")
	}
	parts = append(parts,
		"Full name:",
		nameStyle.Width(inputWidth).Render(v.name.View()),
		"",
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
				s.HelpKey.Render("esc")+" back to sign in",
		),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
