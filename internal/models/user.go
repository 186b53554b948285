package models

import (
	"time"
)

const RoleUser = "ROLE_USER"

// User owns its Tasks. The store never cascades on its own; the
// repository detaches and deletes children explicitly.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email     string    `json:"email" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:'ROLE_USER'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// Authority is the single granted authority derived from the role.
func (u *User) Authority() string {
	if u.Role == "" {
		return RoleUser
	}
	return u.Role
}

// RemoveTask detaches a task from the in-memory collection. The row is
// deleted the next time the user aggregate is saved.
func (u *User) RemoveTask(taskID uint) bool {
	for i, task := range u.Tasks {
		if task.ID == taskID {
			u.Tasks = append(u.Tasks[:i], u.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (u *User) AddTask(task Task) {
	task.UserID = u.ID
	u.Tasks = append(u.Tasks, task)
}
