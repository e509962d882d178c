package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"taskflow/tui/internal/api"
	"taskflow/tui/internal/models"
	"taskflow/tui/internal/ui/keys"
	"taskflow/tui/internal/ui/styles"
)

// chatSuggestions seed an empty conversation
var chatSuggestions = []string{
	"What should I work on first?",
	"Summarize my pending tasks",
	"Help me break a task into steps",
}

// ChatView is the assistant conversation screen. The transcript is
// append-only and lives only as long as the view does.
type ChatView struct {
	backend Backend
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	messages       []models.ChatMessage
	conversationID *string
	input          textinput.Model
	typing         bool
	spin           spinner.Model
	scrollY        int
}

// NewChatView creates a fresh conversation
func NewChatView(backend Backend) *ChatView {
	input := textinput.New()
	input.Placeholder = "Ask the assistant anything..."
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)

	return &ChatView{
		backend: backend,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		input:   input,
		spin:    sp,
	}
}

func (v *ChatView) Init() tea.Cmd {
	return textinput.Blink
}

type chatReplyMsg struct {
	reply *models.ChatReply
}

type chatFailedMsg struct {
	err error
}

// send appends the user's message locally and issues the request. Only
// one request may be in flight; send is never called while typing.
func (v *ChatView) send() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return nil
	}

	now := time.Now()
	v.messages = append(v.messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: &now,
	})
	v.input.Reset()
	v.typing = true
	v.scrollToBottom()

	convID := v.conversationID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		reply, err := v.backend.SendChat(context.Background(), text, convID)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		return chatReplyMsg{reply: reply}
	})
}

func (v *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		if v.typing {
			var cmd tea.Cmd
			v.spin, cmd = v.spin.Update(msg)
			return v, cmd
		}
		return v, nil

	case chatReplyMsg:
		v.typing = false
		v.conversationID = &msg.reply.ConversationID
		v.messages = append(v.messages, msg.reply.Message)
		v.scrollToBottom()
		return v, nil

	case chatFailedMsg:
		v.typing = false
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			return v, func() tea.Msg { return SessionExpired{} }
		}
		// Surface the failure inside the transcript so the
		// conversation history stays coherent. The backend's detail
		// text is used when it sent one.
		now := time.Now()
		v.messages = append(v.messages, models.ChatMessage{
			ID:        uuid.NewString(),
			Role:      models.RoleAssistant,
			Content:   errText(msg.err),
			CreatedAt: &now,
		})
		v.scrollToBottom()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return OpenDashboard{} }

		case key.Matches(msg, v.keys.Enter):
			if v.typing {
				return v, nil
			}
			return v, v.send()

		// The input stays focused, so scrolling binds to the bare
		// arrow and page keys only; letter runes like j and k must
		// fall through to the text input.
		case msg.String() == "up", msg.String() == "pgup":
			if v.scrollY > 0 {
				v.scrollY--
			}
			return v, nil

		case msg.String() == "down", msg.String() == "pgdown":
			if v.scrollY < v.maxScroll() {
				v.scrollY++
			}
			return v, nil
		}

		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *ChatView) transcriptHeight() int {
	h := v.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (v *ChatView) transcriptLines() []string {
	contentWidth := styles.ContentWidth(v.width)
	bubbleWidth := clamp(contentWidth-10, 20, 60)

	var lines []string
	for _, m := range v.messages {
		var bubble string
		if m.Role == models.RoleUser {
			bubble = v.styles.ChatUser.MaxWidth(bubbleWidth).Render(m.Content)
			bubble = lipgloss.PlaceHorizontal(contentWidth-4, lipgloss.Right, bubble)
		} else {
			bubble = v.styles.ChatAssistant.MaxWidth(bubbleWidth).Render(m.Content)
		}
		lines = append(lines, strings.Split(bubble, "\n")...)
		lines = append(lines, "")
	}
	if v.typing {
		lines = append(lines, v.styles.TitleMuted.Render(v.spin.View()+" Assistant is typing..."))
	}
	return lines
}

func (v *ChatView) maxScroll() int {
	overflow := len(v.transcriptLines()) - v.transcriptHeight()
	if overflow < 0 {
		return 0
	}
	return overflow
}

func (v *ChatView) scrollToBottom() {
	v.scrollY = v.maxScroll()
}

func (v *ChatView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var b strings.Builder
	b.WriteString(s.Title.Render("Assistant"))
	b.WriteString("\n\n")

	if len(v.messages) == 0 && !v.typing {
		b.WriteString(s.TitleMuted.Render("Ask the assistant about your tasks. Try:"))
		b.WriteString("\n\n")
		for _, suggestion := range chatSuggestions {
			b.WriteString(s.ListItem.Render("• " + suggestion))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	} else {
		lines := v.transcriptLines()
		height := v.transcriptHeight()
		start := clamp(v.scrollY, 0, max(0, len(lines)-1))
		end := min(start+height, len(lines))
		b.WriteString(strings.Join(lines[start:end], "\n"))
		b.WriteString("\n\n")
	}

	inputStyle := s.InputFocused
	if v.typing {
		inputStyle = s.Input
	}
	b.WriteString(inputStyle.Width(clamp(contentWidth-4, 20, 70)).Render(v.input.View()))
	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		s.HelpKey.Render("↵") + " send • " +
			s.HelpKey.Render("↑↓") + " scroll • " +
			s.HelpKey.Render("esc") + " back",
	))

	return styles.CenterView(b.String(), v.width, v.height)
}
