package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/tui/internal/api"
	"taskflow/tui/internal/models"
	"taskflow/tui/internal/session"
	"taskflow/tui/internal/ui/keys"
	"taskflow/tui/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// DashboardView shows the signed-in user's tasks with per-status counts
type DashboardView struct {
	backend Backend
	session *session.Session
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	tasks   []models.Task
	loaded  bool
	spin    spinner.Model
	cursor  int
	scrollY int
	listErr string

	// Task creation/editing
	editing      bool
	editingNew   bool
	editTaskID   string
	editTitle    textinput.Model
	editDesc     textarea.Model
	statusIdx    int
	priorityIdx  int
	editFocusIdx int // 0=title, 1=desc, 2=status, 3=priority, 4=save
	formErr      string
	submitting   bool

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Task
	deleteInFlight   bool
	deleteErr        string
}

// NewDashboardView creates the dashboard for the given session
func NewDashboardView(backend Backend, sess *session.Session) *DashboardView {
	s := styles.NewStyles()

	editTitle := textinput.New()
	editTitle.Placeholder = "What needs to be done?"
	editTitle.CharLimit = 255

	editDesc := textarea.New()
	editDesc.Placeholder = "Add more details about this task..."
	editDesc.CharLimit = 2000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)

	return &DashboardView{
		backend:   backend,
		session:   sess,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		spin:      sp,
		editTitle: editTitle,
		editDesc:  editDesc,
	}
}

// Init kicks off the initial task fetch
func (v *DashboardView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.spin.Tick)
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type taskSavedMsg struct{}

type taskSaveFailedMsg struct {
	err error
}

type taskToggleFailedMsg struct {
	err error
}

type taskDeletedMsg struct{}

type taskDeleteFailedMsg struct {
	err error
}

// loadTasks fetches the full list. Failures other than an expired
// session degrade to an empty list so the dashboard stays usable.
func (v *DashboardView) loadTasks() tea.Msg {
	tasks, err := v.backend.ListTasks(context.Background())
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return SessionExpired{}
		}
		return tasksLoadedMsg{tasks: nil}
	}
	return tasksLoadedMsg{tasks: tasks}
}

// Update handles messages
func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case spinner.TickMsg:
		if !v.loaded || v.submitting || v.deleteInFlight {
			var cmd tea.Cmd
			v.spin, cmd = v.spin.Update(msg)
			return v, cmd
		}
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.loaded = true
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		return v, nil

	case taskSavedMsg:
		v.submitting = false
		v.editing = false
		return v, v.loadTasks

	case taskSaveFailedMsg:
		v.submitting = false
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			return v, func() tea.Msg { return SessionExpired{} }
		}
		v.formErr = errText(msg.err)
		return v, nil

	case taskToggleFailedMsg:
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			return v, func() tea.Msg { return SessionExpired{} }
		}
		v.listErr = errText(msg.err)
		return v, nil

	case taskDeletedMsg:
		v.confirmingDelete = false
		v.deleteInFlight = false
		v.deleteErr = ""
		return v, v.loadTasks

	case taskDeleteFailedMsg:
		v.deleteInFlight = false
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			return v, func() tea.Msg { return SessionExpired{} }
		}
		// Leave the confirmation open for retry or cancel
		v.deleteErr = errText(msg.err)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *DashboardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if len(v.tasks) > 0 {
			v.startEditTask(v.tasks[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(v.tasks) > 0 {
			v.confirmingDelete = true
			v.deleteTarget = v.tasks[v.cursor]
			v.deleteErr = ""
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if len(v.tasks) > 0 {
			v.listErr = ""
			return v, v.toggleTask(v.tasks[v.cursor].ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		v.listErr = ""
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Chat):
		return v, func() tea.Msg { return OpenChat{} }

	case key.Matches(msg, v.keys.SignOut):
		return v, func() tea.Msg { return SignOutRequested{} }
	}

	return v, nil
}

// toggleTask issues the completion toggle and refreshes on success
func (v *DashboardView) toggleTask(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := v.backend.ToggleComplete(context.Background(), id); err != nil {
			return taskToggleFailedMsg{err: err}
		}
		return v.loadTasks()
	}
}

func (v *DashboardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A delete in flight disables the confirmation controls so the
	// request cannot be duplicated.
	if v.deleteInFlight {
		return v, nil
	}

	switch msg.String() {
	case "y", "Y", "enter":
		v.deleteInFlight = true
		v.deleteErr = ""
		id := v.deleteTarget.ID
		return v, tea.Batch(v.spin.Tick, func() tea.Msg {
			if err := v.backend.DeleteTask(context.Background(), id); err != nil {
				return taskDeleteFailedMsg{err: err}
			}
			return taskDeletedMsg{}
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
		v.deleteErr = ""
		return v, nil
	}
	return v, nil
}

func (v *DashboardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.submitting {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 5
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 4) % 5
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter on title moves on; enter on save submits. The
		// description textarea keeps enter for newlines.
		if v.editFocusIdx == 0 || v.editFocusIdx == 2 || v.editFocusIdx == 3 {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
		if v.editFocusIdx == 4 {
			return v, v.saveTask()
		}

	case key.Matches(msg, v.keys.Up), msg.String() == "left":
		if v.editFocusIdx == 2 {
			v.statusIdx = (v.statusIdx + len(models.Statuses) - 1) % len(models.Statuses)
			return v, nil
		}
		if v.editFocusIdx == 3 {
			v.priorityIdx = (v.priorityIdx + len(models.Priorities) - 1) % len(models.Priorities)
			return v, nil
		}

	case key.Matches(msg, v.keys.Down), msg.String() == "right":
		if v.editFocusIdx == 2 {
			v.statusIdx = (v.statusIdx + 1) % len(models.Statuses)
			return v, nil
		}
		if v.editFocusIdx == 3 {
			v.priorityIdx = (v.priorityIdx + 1) % len(models.Priorities)
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	}
	return v, cmd
}

func (v *DashboardView) ensureVisible() {
	// Each task item is 2 lines + 1 margin = 3 lines
	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *DashboardView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTaskID = ""
	v.editFocusIdx = 0
	v.formErr = ""
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.statusIdx = 0
	v.priorityIdx = 1 // medium
	v.updateEditFocus()
}

func (v *DashboardView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTaskID = task.ID
	v.editFocusIdx = 0
	v.formErr = ""
	v.editTitle.SetValue(task.Title)
	if task.Description != nil {
		v.editDesc.SetValue(*task.Description)
	} else {
		v.editDesc.Reset()
	}
	v.statusIdx = indexOfStatus(task.Status.Normalize())
	v.priorityIdx = indexOfPriority(task.Priority.Normalize())
	v.updateEditFocus()
}

func indexOfStatus(s models.TaskStatus) int {
	for i, status := range models.Statuses {
		if status == s {
			return i
		}
	}
	return 0
}

func indexOfPriority(p models.TaskPriority) int {
	for i, priority := range models.Priorities {
		if priority == p {
			return i
		}
	}
	return 1
}

func (v *DashboardView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	}
}

// saveTask validates and submits the form. An empty title is rejected
// locally; no request is made.
func (v *DashboardView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.formErr = "Title is required"
		return nil
	}

	fields := models.TaskFields{
		Title:    title,
		Status:   models.Statuses[v.statusIdx],
		Priority: models.Priorities[v.priorityIdx],
	}
	if desc := strings.TrimSpace(v.editDesc.Value()); desc != "" {
		fields.Description = &desc
	}

	v.formErr = ""
	v.submitting = true

	isNew := v.editingNew
	taskID := v.editTaskID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		var err error
		if isNew {
			_, err = v.backend.CreateTask(context.Background(), fields)
		} else {
			_, err = v.backend.UpdateTask(context.Background(), taskID, fields)
		}
		if err != nil {
			return taskSaveFailedMsg{err: err}
		}
		return taskSavedMsg{}
	})
}

// View renders the view
func (v *DashboardView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if !v.loaded {
		return styles.CenterView(
			v.styles.TitleMuted.Render(v.spin.View()+" Loading tasks..."),
			v.width, v.height,
		)
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DashboardView) renderHeader() string {
	s := v.styles

	counts := models.CountByStatus(v.tasks)
	countsRow := lipgloss.JoinHorizontal(lipgloss.Center,
		s.CountLabel.Render("Pending "),
		s.CountValue.Render(fmt.Sprintf("%d", counts.Pending)),
		s.CountLabel.Render("  In Progress "),
		s.CountValue.Render(fmt.Sprintf("%d", counts.InProgress)),
		s.CountLabel.Render("  Completed "),
		s.CountValue.Render(fmt.Sprintf("%d", counts.Completed)),
	)

	title := s.Title.Render("TaskFlow") + "  " + s.TitleMuted.Render(v.session.DisplayName())

	parts := []string{title, countsRow}
	if v.listErr != "" {
		parts = append(parts, s.ErrorText.Render(v.listErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *DashboardView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks yet. Press 'n' to create your first task!")
	}

	// Each task item is 2 lines (title + badges) + 1 margin = 3 lines
	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	var items []string
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *DashboardView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	check := "[ ] "
	titleText := task.Title
	if task.Completed() {
		check = "[x] "
		titleText = s.Strikethrough.Render(task.Title)
	}

	badges := lipgloss.JoinHorizontal(lipgloss.Center,
		s.BadgeForStatus(string(task.Status)).Render(task.Status.Label()),
		" ",
		s.BadgeForPriority(string(task.Priority)).Render(task.Priority.Label()),
		" ",
		s.TitleMuted.Render(task.DescriptionText()),
	)

	var titleStyle, badgeStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		badgeStyle = s.ListSelected.Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		badgeStyle = s.ListItem.Width(width)
	}

	title := titleStyle.Render(check + titleText)
	meta := badgeStyle.Render(badges)

	return lipgloss.JoinVertical(lipgloss.Left, title, meta) + "\n"
}

func (v *DashboardView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "Create New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	statusStyle := s.Input
	priorityStyle := s.Input
	btnStyle := s.Button
	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		statusStyle = s.InputFocused
	case 3:
		priorityStyle = s.InputFocused
	case 4:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	btnLabel := " Save "
	if v.submitting {
		btnLabel = " " + v.spin.View() + " Saving... "
	}

	parts := []string{
		s.Title.Render(formTitle),
		"",
	}
	if v.formErr != "" {
		parts = append(parts, s.ErrorText.Render(v.formErr), "")
	}
	parts = append(parts,
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		"Status:",
		statusStyle.Width(inputWidth).Render(v.renderStatusSelector()),
		"",
		"Priority:",
		priorityStyle.Width(inputWidth).Render(v.renderPrioritySelector()),
		"",
		btnStyle.Render(btnLabel),
		"",
		s.TitleMuted.Render("Tab: next • ←→: select • Ctrl+S: save • Esc: cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DashboardView) renderStatusSelector() string {
	var parts []string
	for i, status := range models.Statuses {
		label := status.Label()
		if i == v.statusIdx {
			parts = append(parts, v.styles.BadgeForStatus(string(status)).Render("● "+label))
		} else {
			parts = append(parts, v.styles.TitleMuted.Render("○ "+label))
		}
	}
	return strings.Join(parts, "  ")
}

func (v *DashboardView) renderPrioritySelector() string {
	var parts []string
	for i, priority := range models.Priorities {
		label := priority.Label()
		if i == v.priorityIdx {
			parts = append(parts, v.styles.BadgeForPriority(string(priority)).Render("● "+label))
		} else {
			parts = append(parts, v.styles.TitleMuted.Render("○ "+label))
		}
	}
	return strings.Join(parts, "  ")
}

func (v *DashboardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	confirmBtn := s.ButtonDanger.Render(" Y - Delete ")
	cancelBtn := s.Button.Render(" N - Cancel ")
	if v.deleteInFlight {
		confirmBtn = s.Button.Render(" " + v.spin.View() + " Deleting... ")
		cancelBtn = s.TitleMuted.Render("")
	}

	parts := []string{
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be gone for good.", v.deleteTarget.Title)),
		"",
	}
	if v.deleteErr != "" {
		parts = append(parts, s.ErrorText.Render(v.deleteErr), "")
	}
	parts = append(parts,
		lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn),
	)

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DashboardView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s toggle • %s new • %s edit • %s del • %s refresh • %s chat • %s sign out • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("ctrl+o"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
