package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Cursor      lipgloss.Color
}

// Mocha is the default palette, after Catppuccin Mocha
var Mocha = Theme{
	Name: "Mocha",

	Background:    lipgloss.Color("#1e1e2e"),
	Foreground:    lipgloss.Color("#cdd6f4"),
	ForegroundDim: lipgloss.Color("#6c7086"),

	Primary:   lipgloss.Color("#89b4fa"),
	Secondary: lipgloss.Color("#cba6f7"),
	Accent:    lipgloss.Color("#89dceb"),

	Success: lipgloss.Color("#a6e3a1"),
	Warning: lipgloss.Color("#f9e2af"),
	Error:   lipgloss.Color("#f38ba8"),
	Info:    lipgloss.Color("#89b4fa"),

	Border:      lipgloss.Color("#45475a"),
	BorderFocus: lipgloss.Color("#89b4fa"),
	Selection:   lipgloss.Color("#585b70"),
	Cursor:      lipgloss.Color("#f5e0dc"),
}

// Current holds the active theme
var Current = Mocha

// MaxWidth caps content width so lines stay readable on wide terminals
const MaxWidth = 80

// ContentWidth returns the terminal width capped at MaxWidth
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView centers content horizontally on terminals wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style
	ButtonDanger  lipgloss.Style

	// Status badges
	BadgePending    lipgloss.Style
	BadgeInProgress lipgloss.Style
	BadgeCompleted  lipgloss.Style

	// Priority badges
	BadgeLow    lipgloss.Style
	BadgeMedium lipgloss.Style
	BadgeHigh   lipgloss.Style

	// Counts row
	CountLabel lipgloss.Style
	CountValue lipgloss.Style

	// Chat bubbles
	ChatUser      lipgloss.Style
	ChatAssistant lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Inline errors
	ErrorText lipgloss.Style

	// Modal container
	Modal lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Completed task title
	Strikethrough lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		ButtonDanger: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 2).
			Bold(true),

		BadgePending:    badge.Foreground(t.Warning),
		BadgeInProgress: badge.Foreground(t.Info),
		BadgeCompleted:  badge.Foreground(t.Success),

		BadgeLow:    badge.Foreground(t.ForegroundDim),
		BadgeMedium: badge.Foreground(t.Accent),
		BadgeHigh:   badge.Foreground(t.Error),

		CountLabel: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		CountValue: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		ChatUser: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 1),

		ChatAssistant: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		ErrorText: lipgloss.NewStyle().
			Foreground(t.Error),

		Modal: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Strikethrough: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),
	}
}

// BadgeForStatus picks the status badge style, falling back to pending
func (s *Styles) BadgeForStatus(status string) lipgloss.Style {
	switch status {
	case "in_progress":
		return s.BadgeInProgress
	case "completed":
		return s.BadgeCompleted
	}
	return s.BadgePending
}

// BadgeForPriority picks the priority badge style, falling back to medium
func (s *Styles) BadgeForPriority(priority string) lipgloss.Style {
	switch priority {
	case "low":
		return s.BadgeLow
	case "high":
		return s.BadgeHigh
	}
	return s.BadgeMedium
}
