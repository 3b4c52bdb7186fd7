package models

import "time"

type User struct {
	ID             string    `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

type Tag struct {
	ID     string `json:"tag_id"`
	UserID string `json:"-"`
	Name   string `json:"tag_name"`
}

type Todo struct {
	ID             string     `json:"todo_id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Deadline       time.Time  `json:"deadline"`
	IsCompleted    bool       `json:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt time.Time  `json:"last_modified_at"`
	Tags           []Tag      `json:"tags"`
}

const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type TodoFilter struct {
	Status string
	TagID  string
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateTodoRequest struct {
	Title       string   `json:"title" validate:"max=200"`
	Content     string   `json:"content" validate:"omitempty,max=5000"`
	Deadline    string   `json:"deadline"`
	IsCompleted bool     `json:"is_completed"`
	Tags        []string `json:"tags"`
}

type UpdateTodoRequest struct {
	TodoID      string   `json:"todo_id" validate:"required"`
	Title       string   `json:"title" validate:"max=200"`
	Content     string   `json:"content" validate:"omitempty,max=5000"`
	Deadline    string   `json:"deadline"`
	IsCompleted bool     `json:"is_completed"`
	Tags        []string `json:"tags"`
}

type CreateTagRequest struct {
	TagName string `json:"tag_name" validate:"max=100"`
}
