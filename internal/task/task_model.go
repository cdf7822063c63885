package task

import (
	"time"

	"gorm.io/gorm"
)

// Subtask status values.
const (
	StatusAvailable = "available"
	StatusAssigned  = "assigned"
	StatusTaken     = "taken"
	StatusCompleted = "completed"
)

// Subtask progress values.
const (
	ProgressNotStarted = "not_started"
	ProgressAssigned   = "assigned"
	ProgressInProgress = "in_progress"
	ProgressTesting    = "testing"
	ProgressCompleted  = "completed"
)

// Task list filters.
const (
	FilterActive    = "active"
	FilterCompleted = "completed"
)

// Task is a named unit of work owned by a team.
type Task struct {
	gorm.Model
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	TeamCode    string    `json:"team_code" gorm:"size:6;index;not null"`
	CreatedBy   uint      `json:"created_by" gorm:"index;not null"`
	Status      string    `json:"status" gorm:"default:'active'"`
	Subtasks    []Subtask `json:"subtasks" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// Subtask is an assignable unit within a task. AssignedTo is a non-owning
// reference: deleting the user releases the subtask instead of cascading.
type Subtask struct {
	gorm.Model
	TaskID      uint       `json:"task_id" gorm:"index;not null"`
	Task        *Task      `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	AssignedTo  *uint      `json:"assigned_to" gorm:"index"`
	Status      string     `json:"status" gorm:"not null;default:'available';index"`
	Progress    string     `json:"progress" gorm:"not null;default:'not_started'"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// ValidProgress reports whether p is one of the accepted progress values.
func ValidProgress(p string) bool {
	switch p {
	case ProgressNotStarted, ProgressAssigned, ProgressInProgress, ProgressTesting, ProgressCompleted:
		return true
	}
	return false
}

// NextStatus is the single place the progress field drives the status field.
// completed always completes the subtask; in_progress promotes an assigned
// subtask to taken; every other progress value leaves the status untouched.
func NextStatus(current, progress string) string {
	switch {
	case progress == ProgressCompleted:
		return StatusCompleted
	case progress == ProgressInProgress && current == StatusAssigned:
		return StatusTaken
	default:
		return current
	}
}

// InitialState returns the status/progress pair a subtask starts in. The same
// pair is reapplied whenever an edit changes the assignee, discarding any
// prior progress.
func InitialState(assigned bool) (status, progress string) {
	if assigned {
		return StatusAssigned, ProgressAssigned
	}
	return StatusAvailable, ProgressNotStarted
}

// IsCompleted classifies a task for the active/completed listings: it must
// have at least one subtask and all of them completed. A task with zero
// subtasks counts as active.
func (t *Task) IsCompleted() bool {
	if len(t.Subtasks) == 0 {
		return false
	}
	for _, st := range t.Subtasks {
		if st.Status != StatusCompleted {
			return false
		}
	}
	return true
}
