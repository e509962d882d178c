package models

import "time"

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Statuses lists the selectable statuses in display order
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Normalize maps unknown statuses to the default rendering bucket
func (s TaskStatus) Normalize() TaskStatus {
	if s.Valid() {
		return s
	}
	return StatusPending
}

// Label returns the display name for the status
func (s TaskStatus) Label() string {
	switch s.Normalize() {
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return "Pending"
}

// TaskPriority is the urgency of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Priorities lists the selectable priorities in display order
var Priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p TaskPriority) Normalize() TaskPriority {
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

func (p TaskPriority) Label() string {
	switch p.Normalize() {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	}
	return "Medium"
}

// Task represents a single task. Tasks are owned by the backend; the
// client only holds a transient read copy fetched on demand.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	UserID      string       `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// DescriptionText returns the description or a placeholder when unset
func (t Task) DescriptionText() string {
	if t.Description == nil || *t.Description == "" {
		return "No description"
	}
	return *t.Description
}

// Completed reports whether the task is in the completed state
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// TaskFields is the payload for creating or updating a task
type TaskFields struct {
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
}

// StatusCounts are the per-status totals shown on the dashboard
type StatusCounts struct {
	Pending    int
	InProgress int
	Completed  int
}

// Total returns the number of tasks across all buckets
func (c StatusCounts) Total() int {
	return c.Pending + c.InProgress + c.Completed
}

// CountByStatus recomputes per-status counts from the task list. Unknown
// statuses bucket into pending so the totals always sum to len(tasks).
func CountByStatus(tasks []Task) StatusCounts {
	var c StatusCounts
	for _, t := range tasks {
		switch t.Status.Normalize() {
		case StatusInProgress:
			c.InProgress++
		case StatusCompleted:
			c.Completed++
		default:
			c.Pending++
		}
	}
	return c
}

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in the assistant conversation transcript.
// The transcript is append-only and lives only as long as the chat view.
type ChatMessage struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ChatReply is the assistant backend's response to one sent message
type ChatReply struct {
	ConversationID string      `json:"conversation_id"`
	Message        ChatMessage `json:"message"`
}
