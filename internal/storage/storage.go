package storage

import (
	"context"
	"errors"

	"github.com/rafaelduarte/taskapi/internal/models"
)

var (
	ErrEmailExists  = errors.New("user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
)

// UserStore holds credential records. CreateUser must enforce email uniqueness
// atomically; emails are expected pre-normalized (lowercased) by the caller.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TaskStore holds tasks keyed by id. UpdateTask runs apply as an atomic
// read-modify-write: no concurrent writer can interleave between the read and
// the write, which is what makes concurrent mutation lose-free. If apply
// returns an error the task is left unchanged and the error is passed through.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error)
	ListAllTasks(ctx context.Context) ([]*models.Task, error)
	UpdateTask(ctx context.Context, id string, apply func(*models.Task) error) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
