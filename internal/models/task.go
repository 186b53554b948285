package models

import (
	"strings"
	"time"
)

const (
	StatusToDo       = "TO_DO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

const DateLayout = "2006-01-02"

type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null;check:chk_tasks_title,title <> ''"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" gorm:"type:date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status" gorm:"not null;default:'TO_DO'"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsNew reports whether the task has not been persisted yet.
func (t *Task) IsNew() bool {
	return t.ID == 0
}

func (t *Task) HasTitle() bool {
	return strings.TrimSpace(t.Title) != ""
}

// ApplyDefaultStatus sets TO_DO when no status was given.
func (t *Task) ApplyDefaultStatus() {
	if strings.TrimSpace(t.Status) == "" {
		t.Status = StatusToDo
	}
}

// ParseDueDate parses a calendar date; an empty string means no date.
func ParseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
