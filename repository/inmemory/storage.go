package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"todoapp/internal/domain/errors"
	"todoapp/internal/domain/models"

	"github.com/google/uuid"
)

// Storage хранит всё в памяти и служит запасным хранилищем, когда база
// данных недоступна. Карты общие для всех запросов, поэтому mutex.
type Storage struct {
	mu       sync.RWMutex
	users    map[string]models.User
	todos    map[string]models.Todo
	tags     map[string]models.Tag
	todoTags map[string]map[string]bool
	todoSeq  map[string]int
	nextSeq  int
}

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[string]models.User),
		todos:    make(map[string]models.Todo),
		tags:     make(map[string]models.Tag),
		todoTags: make(map[string]map[string]bool),
		todoSeq:  make(map[string]int),
	}
}

func (s *Storage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return errors.ErrEmailTaken
		}
	}

	user.ID = uuid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.LastModifiedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *Storage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) CreateTodo(_ context.Context, todo *models.Todo, tagIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tagID := range tagIDs {
		if _, exists := s.tags[tagID]; !exists {
			return errors.ErrTagNotFound
		}
	}

	todo.ID = uuid.New().String()
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.LastModifiedAt = now

	set := make(map[string]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		set[tagID] = true
	}
	s.todoTags[todo.ID] = set
	s.nextSeq++
	s.todoSeq[todo.ID] = s.nextSeq

	todo.Tags = s.resolveTags(todo.ID)
	s.todos[todo.ID] = *todo
	return nil
}

func (s *Storage) GetTodos(_ context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := []models.Todo{}
	for _, todo := range s.todos {
		if todo.UserID != userID {
			continue
		}
		switch filter.Status {
		case models.StatusCompleted:
			if !todo.IsCompleted {
				continue
			}
		case models.StatusPending:
			if todo.IsCompleted {
				continue
			}
		}
		if filter.TagID != "" && !s.todoTags[todo.ID][filter.TagID] {
			continue
		}
		todo.Tags = s.resolveTags(todo.ID)
		todos = append(todos, todo)
	}

	sort.Slice(todos, func(i, j int) bool {
		if todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return s.todoSeq[todos[i].ID] > s.todoSeq[todos[j].ID]
		}
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (s *Storage) UpdateTodo(_ context.Context, userID string, todo *models.Todo, tagIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.todos[todo.ID]
	if !exists || stored.UserID != userID {
		return errors.ErrTodoNotFound
	}
	for _, tagID := range tagIDs {
		if _, ok := s.tags[tagID]; !ok {
			return errors.ErrTagNotFound
		}
	}

	now := time.Now().UTC()
	stored.Title = todo.Title
	stored.Content = todo.Content
	stored.Deadline = todo.Deadline
	stored.LastModifiedAt = now
	switch {
	case todo.IsCompleted && stored.CompletedAt == nil:
		stamp := now
		stored.CompletedAt = &stamp
	case !todo.IsCompleted:
		stored.CompletedAt = nil
	}
	stored.IsCompleted = todo.IsCompleted

	set := make(map[string]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		set[tagID] = true
	}
	s.todoTags[stored.ID] = set

	stored.Tags = s.resolveTags(stored.ID)
	s.todos[stored.ID] = stored
	*todo = stored
	return nil
}

func (s *Storage) DeleteTodo(_ context.Context, userID, todoID string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.todos[todoID]
	if !exists || stored.UserID != userID {
		return nil, errors.ErrTodoNotFound
	}

	stored.Tags = []models.Tag{}
	delete(s.todos, todoID)
	delete(s.todoTags, todoID)
	delete(s.todoSeq, todoID)
	return &stored, nil
}

func (s *Storage) CreateTag(_ context.Context, tag *models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return errors.ErrTagExists
		}
	}

	tag.ID = uuid.New().String()
	s.tags[tag.ID] = *tag
	return nil
}

func (s *Storage) GetTags(_ context.Context, userID string) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := []models.Tag{}
	for _, tag := range s.tags {
		if tag.UserID == userID {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (s *Storage) DeleteTag(_ context.Context, userID, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag, exists := s.tags[tagID]
	if !exists || tag.UserID != userID {
		return errors.ErrTagNotFound
	}

	delete(s.tags, tagID)
	for _, set := range s.todoTags {
		delete(set, tagID)
	}
	return nil
}

// Вызывается только под блокировкой.
func (s *Storage) resolveTags(todoID string) []models.Tag {
	tags := []models.Tag{}
	for tagID := range s.todoTags[todoID] {
		if tag, exists := s.tags[tagID]; exists {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}
