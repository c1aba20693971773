package storage

import (
	"context"
	"sync"

	"github.com/rafaelduarte/taskapi/internal/models"
)

// MemoryUserStore is the in-memory UserStore. The email index and the id map
// are kept under one lock so the duplicate-email check and the insert are a
// single atomic step.
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return ErrEmailExists
	}

	stored := *user
	s.users[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, nil
	}

	user := *s.users[id]
	return &user, nil
}

func (s *MemoryUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, nil
	}

	copied := *user
	return &copied, nil
}

// MemoryTaskStore is the in-memory TaskStore. Values are copied on the way in
// and out so callers never alias store-owned structs.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[string]*models.Task),
	}
}

func (s *MemoryTaskStore) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *MemoryTaskStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, nil
	}

	copied := *task
	return &copied, nil
}

func (s *MemoryTaskStore) ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}

	return tasks, nil
}

func (s *MemoryTaskStore) ListAllTasks(ctx context.Context) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		copied := *task
		tasks = append(tasks, &copied)
	}

	return tasks, nil
}

// UpdateTask applies apply to the stored task under the write lock. The
// closure sees (and may reject) the current state; nothing can interleave.
func (s *MemoryTaskStore) UpdateTask(ctx context.Context, id string, apply func(*models.Task) error) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, ErrTaskNotFound
	}

	working := *task
	if err := apply(&working); err != nil {
		return nil, err
	}

	s.tasks[id] = &working
	result := working
	return &result, nil
}

func (s *MemoryTaskStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return ErrTaskNotFound
	}

	delete(s.tasks, id)
	return nil
}
