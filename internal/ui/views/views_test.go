package views

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/tui/internal/api"
	"taskflow/tui/internal/models"
	"taskflow/tui/internal/session"
)

type fakeBackend struct {
	tasks []models.Task

	listErr   error
	createErr error
	updateErr error
	toggleErr error
	deleteErr error
	chatErr   error
	signInErr error
	signUpErr error

	listCalls   int
	createCalls int
	updateCalls int
	toggleCalls int
	deleteCalls int
	chatCalls   int
	signInCalls int
	signUpCalls int

	chatConvIDs []*string
	lastFields  models.TaskFields
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &session.Session{UserID: "u-1", Name: "Jane", Email: email, Token: "tok"}, nil
}

func (f *fakeBackend) SignUp(ctx context.Context, name, email, password string) (*session.Session, error) {
	f.signUpCalls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &session.Session{UserID: "u-1", Name: name, Email: email, Token: "tok"}, nil
}

func (f *fakeBackend) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks, nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, fields models.TaskFields) (*models.Task, error) {
	f.createCalls++
	f.lastFields = fields
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Task{ID: "t-new", Title: fields.Title}, nil
}

func (f *fakeBackend) UpdateTask(ctx context.Context, id string, fields models.TaskFields) (*models.Task, error) {
	f.updateCalls++
	f.lastFields = fields
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Task{ID: id, Title: fields.Title}, nil
}

func (f *fakeBackend) ToggleComplete(ctx context.Context, id string) (*models.Task, error) {
	f.toggleCalls++
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}
	return &models.Task{ID: id, Status: models.StatusCompleted}, nil
}

func (f *fakeBackend) DeleteTask(ctx context.Context, id string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeBackend) SendChat(ctx context.Context, message string, conversationID *string) (*models.ChatReply, error) {
	f.chatCalls++
	if conversationID == nil {
		f.chatConvIDs = append(f.chatConvIDs, nil)
	} else {
		id := *conversationID
		f.chatConvIDs = append(f.chatConvIDs, &id)
	}
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &models.ChatReply{
		ConversationID: "conv-1",
		Message:        models.ChatMessage{ID: "m-1", Role: models.RoleAssistant, Content: "hello"},
	}, nil
}

// collectMsgs executes a command tree and flattens the messages it
// produces. Batched commands run inline, which is enough for tests.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if typed, ok := m.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("no %T among %v", zero, msgs)
	return zero
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func loadedDashboard(backend *fakeBackend, tasks []models.Task) *DashboardView {
	v := NewDashboardView(backend, &session.Session{Name: "Jane", Email: "jane@example.com"})
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	v.Update(tasksLoadedMsg{tasks: tasks})
	return v
}

func TestDashboardLoadFailureShowsEmptyList(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("backend down")}
	v := NewDashboardView(backend, &session.Session{Name: "Jane"})

	msg := v.loadTasks()
	loaded, ok := msg.(tasksLoadedMsg)
	if !ok {
		t.Fatalf("expected tasksLoadedMsg, got %T", msg)
	}
	if loaded.tasks != nil {
		t.Fatalf("expected degraded empty list, got %v", loaded.tasks)
	}
}

func TestDashboardLoadUnauthenticatedSignalsExpiry(t *testing.T) {
	backend := &fakeBackend{listErr: api.ErrUnauthenticated}
	v := NewDashboardView(backend, &session.Session{Name: "Jane"})

	if _, ok := v.loadTasks().(SessionExpired); !ok {
		t.Fatal("expected SessionExpired")
	}
}

func TestDashboardEmptyTitleRejectedLocally(t *testing.T) {
	backend := &fakeBackend{}
	v := loadedDashboard(backend, nil)

	v.Update(keyRune('n'))
	if !v.editing {
		t.Fatal("expected edit form to open")
	}

	if cmd := v.saveTask(); cmd != nil {
		t.Fatal("expected no command for an empty title")
	}
	if v.formErr != "Title is required" {
		t.Fatalf("unexpected form error %q", v.formErr)
	}
	if backend.createCalls != 0 {
		t.Fatalf("expected zero create calls, got %d", backend.createCalls)
	}
	if !v.editing {
		t.Fatal("form must stay open after a validation failure")
	}
}

func TestDashboardCreateThenRefresh(t *testing.T) {
	backend := &fakeBackend{}
	v := loadedDashboard(backend, nil)

	v.Update(keyRune('n'))
	v.editTitle.SetValue("Buy milk")
	v.editDesc.SetValue("  ")

	msgs := collectMsgs(v.saveTask())
	findMsg[taskSavedMsg](t, msgs)

	if backend.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", backend.createCalls)
	}
	if backend.lastFields.Title != "Buy milk" {
		t.Fatalf("unexpected payload %+v", backend.lastFields)
	}
	if backend.lastFields.Description != nil {
		t.Fatal("blank description must be sent as null")
	}

	_, cmd := v.Update(taskSavedMsg{})
	if v.editing {
		t.Fatal("form should close after a successful save")
	}
	collectMsgs(cmd)
	if backend.listCalls != 1 {
		t.Fatalf("expected a refetch after create, got %d list calls", backend.listCalls)
	}
}

func TestDashboardEditSendsUpdate(t *testing.T) {
	desc := "old"
	backend := &fakeBackend{}
	v := loadedDashboard(backend, []models.Task{
		{ID: "t-1", Title: "Old title", Description: &desc, Status: models.StatusInProgress, Priority: models.PriorityHigh},
	})

	v.Update(keyRune('e'))
	if !v.editing || v.editingNew {
		t.Fatal("expected edit mode for existing task")
	}
	if v.editTitle.Value() != "Old title" || v.editDesc.Value() != "old" {
		t.Fatal("form must be prefilled from the task")
	}
	if models.Statuses[v.statusIdx] != models.StatusInProgress {
		t.Fatalf("status selector not prefilled, idx %d", v.statusIdx)
	}
	if models.Priorities[v.priorityIdx] != models.PriorityHigh {
		t.Fatalf("priority selector not prefilled, idx %d", v.priorityIdx)
	}

	v.editTitle.SetValue("New title")
	msgs := collectMsgs(v.saveTask())
	findMsg[taskSavedMsg](t, msgs)

	if backend.updateCalls != 1 || backend.createCalls != 0 {
		t.Fatalf("expected one update call, got update=%d create=%d", backend.updateCalls, backend.createCalls)
	}
}

func TestDashboardDeleteRequiresConfirmation(t *testing.T) {
	backend := &fakeBackend{}
	v := loadedDashboard(backend, []models.Task{{ID: "t-1", Title: "Doomed"}})

	v.Update(keyRune('d'))
	if !v.confirmingDelete {
		t.Fatal("expected confirmation prompt")
	}
	if backend.deleteCalls != 0 {
		t.Fatal("delete must not fire before confirmation")
	}

	_, cmd := v.Update(keyRune('y'))
	msgs := collectMsgs(cmd)
	findMsg[taskDeletedMsg](t, msgs)
	if backend.deleteCalls != 1 {
		t.Fatalf("expected one delete call, got %d", backend.deleteCalls)
	}

	_, cmd = v.Update(taskDeletedMsg{})
	if v.confirmingDelete {
		t.Fatal("confirmation should close after deletion")
	}
	collectMsgs(cmd)
	if backend.listCalls != 1 {
		t.Fatalf("expected a refetch after delete, got %d list calls", backend.listCalls)
	}
}

func TestDashboardDeleteCancel(t *testing.T) {
	backend := &fakeBackend{}
	v := loadedDashboard(backend, []models.Task{{ID: "t-1", Title: "Spared"}})

	v.Update(keyRune('d'))
	v.Update(keyRune('n'))
	if v.confirmingDelete {
		t.Fatal("expected confirmation to close")
	}
	if backend.deleteCalls != 0 {
		t.Fatalf("cancel must not delete, got %d calls", backend.deleteCalls)
	}
}

func TestDashboardDeleteInFlightIgnoresKeys(t *testing.T) {
	backend := &fakeBackend{}
	v := loadedDashboard(backend, []models.Task{{ID: "t-1", Title: "Doomed"}})

	v.Update(keyRune('d'))
	_, first := v.Update(keyRune('y'))
	if !v.deleteInFlight {
		t.Fatal("expected delete to be marked in flight")
	}

	_, second := v.Update(keyRune('y'))
	if second != nil {
		t.Fatal("a confirm while in flight must be ignored")
	}

	collectMsgs(first)
	if backend.deleteCalls != 1 {
		t.Fatalf("expected exactly one delete call, got %d", backend.deleteCalls)
	}
}

func TestDashboardDeleteFailureKeepsPromptOpen(t *testing.T) {
	backend := &fakeBackend{deleteErr: &api.APIError{StatusCode: 500, Detail: "boom"}}
	v := loadedDashboard(backend, []models.Task{{ID: "t-1", Title: "Sticky"}})

	v.Update(keyRune('d'))
	_, cmd := v.Update(keyRune('y'))
	msgs := collectMsgs(cmd)
	failed := findMsg[taskDeleteFailedMsg](t, msgs)

	v.Update(failed)
	if !v.confirmingDelete {
		t.Fatal("prompt must stay open for retry or cancel")
	}
	if v.deleteInFlight {
		t.Fatal("in-flight flag must reset after a failure")
	}
	if v.deleteErr != "boom" {
		t.Fatalf("expected backend detail inline, got %q", v.deleteErr)
	}
}

func TestDashboardToggleRefetches(t *testing.T) {
	backend := &fakeBackend{}
	v := loadedDashboard(backend, []models.Task{{ID: "t-1", Title: "Flip me"}})

	_, cmd := v.Update(keyRune('x'))
	collectMsgs(cmd)
	if backend.toggleCalls != 1 {
		t.Fatalf("expected one toggle call, got %d", backend.toggleCalls)
	}
	if backend.listCalls != 1 {
		t.Fatalf("expected a refetch after toggle, got %d list calls", backend.listCalls)
	}
}

func TestChatSendIsSingleFlight(t *testing.T) {
	backend := &fakeBackend{}
	v := NewChatView(backend)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	v.input.SetValue("hello there")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !v.typing {
		t.Fatal("expected typing state after send")
	}
	if len(v.messages) != 1 || v.messages[0].Role != models.RoleUser {
		t.Fatalf("expected the user message appended immediately, got %v", v.messages)
	}

	// A second enter while the reply is pending must do nothing.
	v.input.SetValue("impatient follow-up")
	_, second := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if second != nil {
		t.Fatal("send while in flight must be ignored")
	}
	if len(v.messages) != 1 {
		t.Fatalf("expected no second message, got %d", len(v.messages))
	}

	msgs := collectMsgs(cmd)
	reply := findMsg[chatReplyMsg](t, msgs)
	v.Update(reply)

	if backend.chatCalls != 1 {
		t.Fatalf("expected exactly one request, got %d", backend.chatCalls)
	}
	if v.typing {
		t.Fatal("typing state must clear once the reply lands")
	}
	if len(v.messages) != 2 || v.messages[1].Role != models.RoleAssistant {
		t.Fatalf("expected assistant reply appended, got %v", v.messages)
	}
}

func TestChatAdoptsConversationID(t *testing.T) {
	backend := &fakeBackend{}
	v := NewChatView(backend)

	v.input.SetValue("first")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(findMsg[chatReplyMsg](t, collectMsgs(cmd)))

	v.input.SetValue("second")
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(findMsg[chatReplyMsg](t, collectMsgs(cmd)))

	if len(backend.chatConvIDs) != 2 {
		t.Fatalf("expected two requests, got %d", len(backend.chatConvIDs))
	}
	if backend.chatConvIDs[0] != nil {
		t.Fatal("first request must carry no conversation id")
	}
	if backend.chatConvIDs[1] == nil || *backend.chatConvIDs[1] != "conv-1" {
		t.Fatalf("second request must echo conv-1, got %v", backend.chatConvIDs[1])
	}
}

func TestChatFailureSynthesizesAssistantMessage(t *testing.T) {
	backend := &fakeBackend{chatErr: &api.APIError{StatusCode: 422, Detail: "I don't understand that command"}}
	v := NewChatView(backend)

	v.input.SetValue("hello")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	failed := findMsg[chatFailedMsg](t, collectMsgs(cmd))
	v.Update(failed)

	if v.typing {
		t.Fatal("typing state must clear after a failure")
	}
	if len(v.messages) != 2 {
		t.Fatalf("expected synthesized assistant message, got %d messages", len(v.messages))
	}
	if v.messages[1].Role != models.RoleAssistant {
		t.Fatalf("failure notice must come from the assistant, got %q", v.messages[1].Role)
	}
	if v.messages[1].Content != "I don't understand that command" {
		t.Fatalf("expected the backend detail carried into the transcript, got %q", v.messages[1].Content)
	}
}

func TestChatFailureWithoutDetailFallsBackToGeneric(t *testing.T) {
	backend := &fakeBackend{chatErr: errors.New("backend down")}
	v := NewChatView(backend)

	v.input.SetValue("hello")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(findMsg[chatFailedMsg](t, collectMsgs(cmd)))

	if v.messages[1].Content != genericErrorText {
		t.Fatalf("expected the generic fallback, got %q", v.messages[1].Content)
	}
}

func TestChatTypingLetterRunesReachesInput(t *testing.T) {
	backend := &fakeBackend{}
	v := NewChatView(backend)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	for _, r := range "task jk" {
		v.Update(keyRune(r))
	}
	if got := v.input.Value(); got != "task jk" {
		t.Fatalf("expected every rune to reach the input, got %q", got)
	}

	// The bare arrow keys still scroll instead of editing the input.
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := v.input.Value(); got != "task jk" {
		t.Fatalf("arrow keys must not edit the input, got %q", got)
	}
}

func TestChatIgnoresEmptyInput(t *testing.T) {
	backend := &fakeBackend{}
	v := NewChatView(backend)

	v.input.SetValue("   ")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for blank input")
	}
	if v.typing || len(v.messages) != 0 {
		t.Fatal("blank input must not touch the transcript")
	}
	if backend.chatCalls != 0 {
		t.Fatalf("expected zero requests, got %d", backend.chatCalls)
	}
}

func TestSignInValidatesBeforeRequest(t *testing.T) {
	backend := &fakeBackend{}
	v := NewSignInView(backend, "")

	if cmd := v.submit(); cmd != nil {
		t.Fatal("expected no command for empty credentials")
	}
	if v.errMsg != "Email and password are required" {
		t.Fatalf("unexpected error %q", v.errMsg)
	}
	if backend.signInCalls != 0 {
		t.Fatalf("expected zero sign-in calls, got %d", backend.signInCalls)
	}
}

func TestSignInSuccessEmitsSignedIn(t *testing.T) {
	backend := &fakeBackend{}
	v := NewSignInView(backend, "")
	v.email.SetValue("jane@example.com")
	v.password.SetValue("hunter22")

	msgs := collectMsgs(v.submit())
	signedIn := findMsg[SignedIn](t, msgs)
	if signedIn.Session == nil || signedIn.Session.Email != "jane@example.com" {
		t.Fatalf("unexpected session %+v", signedIn.Session)
	}
}

func TestSignInInvalidCredentials(t *testing.T) {
	backend := &fakeBackend{signInErr: api.ErrUnauthenticated}
	v := NewSignInView(backend, "")
	v.email.SetValue("jane@example.com")
	v.password.SetValue("wrong")

	failed := findMsg[signInFailedMsg](t, collectMsgs(v.submit()))
	v.Update(failed)
	if v.errMsg != "Invalid email or password" {
		t.Fatalf("unexpected error %q", v.errMsg)
	}
	if v.loading {
		t.Fatal("loading state must clear after a failure")
	}
}

func TestSignUpValidation(t *testing.T) {
	backend := &fakeBackend{}
	v := NewSignUpView(backend)

	if cmd := v.submit(); cmd != nil {
		t.Fatal("expected no command without a name")
	}
	if v.errMsg != "Name is required" {
		t.Fatalf("unexpected error %q", v.errMsg)
	}

	v.name.SetValue("Jane")
	v.email.SetValue("not-an-email")
	if v.submit() != nil {
		t.Fatal("expected no command for a bad email")
	}
	if v.errMsg != "Please enter a valid email address" {
		t.Fatalf("unexpected error %q", v.errMsg)
	}

	v.email.SetValue("jane@example.com")
	v.password.SetValue("short")
	if v.submit() != nil {
		t.Fatal("expected no command for a short password")
	}
	if v.errMsg != "Password must be at least 8 characters" {
		t.Fatalf("unexpected error %q", v.errMsg)
	}

	if backend.signUpCalls != 0 {
		t.Fatalf("validation failures must not reach the backend, got %d calls", backend.signUpCalls)
	}
}

func TestSignUpSuccessEmitsSignedIn(t *testing.T) {
	backend := &fakeBackend{}
	v := NewSignUpView(backend)
	v.name.SetValue("Jane")
	v.email.SetValue("jane@example.com")
	v.password.SetValue("hunter22!")

	signedIn := findMsg[SignedIn](t, collectMsgs(v.submit()))
	if signedIn.Session == nil || signedIn.Session.Name != "Jane" {
		t.Fatalf("unexpected session %+v", signedIn.Session)
	}
	if backend.signUpCalls != 1 {
		t.Fatalf("expected one sign-up call, got %d", backend.signUpCalls)
	}
}

func TestErrTextPrefersBackendDetail(t *testing.T) {
	if got := errText(&api.APIError{StatusCode: 422, Detail: "Title too long"}); got != "Title too long" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := errText(errors.New("dial tcp: refused")); got != genericErrorText {
		t.Fatalf("unexpected text %q", got)
	}
	if got := errText(&api.APIError{StatusCode: 500}); got != genericErrorText {
		t.Fatalf("unexpected text %q", got)
	}
}
