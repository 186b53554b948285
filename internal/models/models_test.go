package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"tasktracker/internal/models"
)

func TestTask_ApplyDefaultStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"", models.StatusToDo},
		{"   ", models.StatusToDo},
		{models.StatusDone, models.StatusDone},
		{"BLOCKED", "BLOCKED"},
	}

	for _, tt := range tests {
		task := models.Task{Title: "t", Status: tt.status}
		task.ApplyDefaultStatus()
		if task.Status != tt.expected {
			t.Errorf("status %q: expected %q, got %q", tt.status, tt.expected, task.Status)
		}
	}
}

func TestTask_HasTitle(t *testing.T) {
	tests := map[string]bool{
		"Buy milk": true,
		"  x  ":    true,
		"":         false,
		" \t\n":    false,
	}

	for title, expected := range tests {
		task := models.Task{Title: title}
		if task.HasTitle() != expected {
			t.Errorf("title %q: expected HasTitle=%v", title, expected)
		}
	}
}

func TestTask_IsNew(t *testing.T) {
	if !(&models.Task{}).IsNew() {
		t.Error("Expected task without id to be new")
	}
	if (&models.Task{ID: 3}).IsNew() {
		t.Error("Expected task with id not to be new")
	}
}

func TestParseDueDate(t *testing.T) {
	d, err := models.ParseDueDate("2026-02-28")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !d.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date %v", d)
	}

	d, err = models.ParseDueDate("  ")
	if err != nil || d != nil {
		t.Errorf("Expected nil date for blank input, got %v, %v", d, err)
	}

	if _, err := models.ParseDueDate("2026-02-30"); err == nil {
		t.Error("Expected error for invalid date")
	}
}

func TestUser_Authority(t *testing.T) {
	if got := (&models.User{}).Authority(); got != models.RoleUser {
		t.Errorf("Expected default authority %q, got %q", models.RoleUser, got)
	}
	if got := (&models.User{Role: "ROLE_ADMIN"}).Authority(); got != "ROLE_ADMIN" {
		t.Errorf("Expected ROLE_ADMIN, got %q", got)
	}
}

func TestUser_AddAndRemoveTask(t *testing.T) {
	user := models.User{ID: 9}
	user.AddTask(models.Task{ID: 1, Title: "a", UserID: 4})
	user.AddTask(models.Task{ID: 2, Title: "b"})

	for _, task := range user.Tasks {
		if task.UserID != 9 {
			t.Errorf("Expected task %d to be owned by 9, got %d", task.ID, task.UserID)
		}
	}

	if !user.RemoveTask(1) {
		t.Fatal("Expected task 1 to be removed")
	}
	if user.RemoveTask(1) {
		t.Error("Expected second removal to report false")
	}
	if len(user.Tasks) != 1 || user.Tasks[0].ID != 2 {
		t.Errorf("Unexpected remaining tasks: %+v", user.Tasks)
	}
}

func TestUser_PasswordNotSerialized(t *testing.T) {
	data, err := json.Marshal(models.User{Username: "alice", Password: "$2a$10$hash"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := out["password"]; ok {
		t.Error("Password must not be serialized")
	}
}
