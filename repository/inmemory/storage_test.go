package storage

import (
	"context"
	"testing"
	"time"

	"todoapp/internal/domain/errors"
	"todoapp/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func newTestUser(t *testing.T, s *Storage, email string) *models.User {
	t.Helper()
	user := &models.User{Username: "nat", Email: email, PasswordHash: "hash"}
	assert.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func newTestTag(t *testing.T, s *Storage, userID, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{UserID: userID, Name: name}
	assert.NoError(t, s.CreateTag(context.Background(), tag))
	return tag
}

func newTestTodo(t *testing.T, s *Storage, userID, title string, tagIDs []string) *models.Todo {
	t.Helper()
	todo := &models.Todo{
		UserID:   userID,
		Title:    title,
		Deadline: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, s.CreateTodo(context.Background(), todo, tagIDs))
	return todo
}

func tagIDSet(tags []models.Tag) map[string]bool {
	set := map[string]bool{}
	for _, tag := range tags {
		set[tag.ID] = true
	}
	return set
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	first := newTestUser(t, s, "a@b.com")
	assert.NotEmpty(t, first.ID)

	second := &models.User{Username: "other", Email: "a@b.com", PasswordHash: "hash2"}
	assert.Equal(t, errors.ErrEmailTaken, s.CreateUser(ctx, second))

	found, err := s.GetUserByEmail(ctx, "a@b.com")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = s.GetUserByEmail(ctx, "ghost@b.com")
	assert.Equal(t, errors.ErrUserNotFound, err)
}

func TestTodoTagRoundTrip(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	user := newTestUser(t, s, "a@b.com")

	tag1 := newTestTag(t, s, user.ID, "дом")
	tag2 := newTestTag(t, s, user.ID, "работа")
	tag3 := newTestTag(t, s, user.ID, "покупки")

	todo := newTestTodo(t, s, user.ID, "Buy milk", []string{tag1.ID, tag2.ID})
	assert.Equal(t, map[string]bool{tag1.ID: true, tag2.ID: true}, tagIDSet(todo.Tags))

	update := &models.Todo{
		ID:       todo.ID,
		UserID:   user.ID,
		Title:    "Buy milk",
		Deadline: todo.Deadline,
	}
	assert.NoError(t, s.UpdateTodo(ctx, user.ID, update, []string{tag2.ID, tag3.ID}))
	assert.Equal(t, map[string]bool{tag2.ID: true, tag3.ID: true}, tagIDSet(update.Tags))

	todos, err := s.GetTodos(ctx, user.ID, models.TodoFilter{})
	assert.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.Equal(t, map[string]bool{tag2.ID: true, tag3.ID: true}, tagIDSet(todos[0].Tags))
}

func TestCompletionTransition(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	user := newTestUser(t, s, "a@b.com")
	todo := newTestTodo(t, s, user.ID, "Buy milk", nil)
	assert.Nil(t, todo.CompletedAt)

	complete := func() *models.Todo {
		update := &models.Todo{
			ID:          todo.ID,
			UserID:      user.ID,
			Title:       todo.Title,
			Deadline:    todo.Deadline,
			IsCompleted: true,
		}
		assert.NoError(t, s.UpdateTodo(ctx, user.ID, update, nil))
		return update
	}

	first := complete()
	assert.NotNil(t, first.CompletedAt)
	stamp := *first.CompletedAt

	// Повторное завершение не должно сдвигать отметку.
	second := complete()
	assert.NotNil(t, second.CompletedAt)
	assert.True(t, stamp.Equal(*second.CompletedAt))

	reopen := &models.Todo{
		ID:       todo.ID,
		UserID:   user.ID,
		Title:    todo.Title,
		Deadline: todo.Deadline,
	}
	assert.NoError(t, s.UpdateTodo(ctx, user.ID, reopen, nil))
	assert.Nil(t, reopen.CompletedAt)
	assert.False(t, reopen.IsCompleted)
}

func TestOwnershipIsolation(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	alice := newTestUser(t, s, "alice@b.com")
	bob := newTestUser(t, s, "bob@b.com")

	todo := newTestTodo(t, s, alice.ID, "Alice's todo", nil)

	todos, err := s.GetTodos(ctx, bob.ID, models.TodoFilter{})
	assert.NoError(t, err)
	assert.Empty(t, todos)

	update := &models.Todo{ID: todo.ID, UserID: bob.ID, Title: "hijack", Deadline: todo.Deadline}
	assert.Equal(t, errors.ErrTodoNotFound, s.UpdateTodo(ctx, bob.ID, update, nil))

	_, err = s.DeleteTodo(ctx, bob.ID, todo.ID)
	assert.Equal(t, errors.ErrTodoNotFound, err)

	tag := newTestTag(t, s, alice.ID, "работа")
	assert.Equal(t, errors.ErrTagNotFound, s.DeleteTag(ctx, bob.ID, tag.ID))

	todos, err = s.GetTodos(ctx, alice.ID, models.TodoFilter{})
	assert.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestGetTodosFiltersAndOrder(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	user := newTestUser(t, s, "a@b.com")
	tag := newTestTag(t, s, user.ID, "работа")

	first := newTestTodo(t, s, user.ID, "first", nil)
	second := newTestTodo(t, s, user.ID, "second", []string{tag.ID})
	third := newTestTodo(t, s, user.ID, "third", nil)

	done := &models.Todo{ID: second.ID, UserID: user.ID, Title: second.Title, Deadline: second.Deadline, IsCompleted: true}
	assert.NoError(t, s.UpdateTodo(ctx, user.ID, done, []string{tag.ID}))

	all, err := s.GetTodos(ctx, user.ID, models.TodoFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, first.ID, all[2].ID)

	pending, err := s.GetTodos(ctx, user.ID, models.TodoFilter{Status: models.StatusPending})
	assert.NoError(t, err)
	assert.Len(t, pending, 2)
	for _, todo := range pending {
		assert.False(t, todo.IsCompleted)
	}

	completed, err := s.GetTodos(ctx, user.ID, models.TodoFilter{Status: models.StatusCompleted})
	assert.NoError(t, err)
	assert.Len(t, completed, 1)
	assert.Equal(t, second.ID, completed[0].ID)

	tagged, err := s.GetTodos(ctx, user.ID, models.TodoFilter{TagID: tag.ID})
	assert.NoError(t, err)
	assert.Len(t, tagged, 1)
	assert.Equal(t, second.ID, tagged[0].ID)

	// Неизвестный статус трактуется как all.
	unknown, err := s.GetTodos(ctx, user.ID, models.TodoFilter{Status: "bogus"})
	assert.NoError(t, err)
	assert.Len(t, unknown, 3)
}

func TestDeleteTodoReturnsPriorContent(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	user := newTestUser(t, s, "a@b.com")
	todo := newTestTodo(t, s, user.ID, "Buy milk", nil)

	deleted, err := s.DeleteTodo(ctx, user.ID, todo.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Buy milk", deleted.Title)

	todos, err := s.GetTodos(ctx, user.ID, models.TodoFilter{})
	assert.NoError(t, err)
	assert.Empty(t, todos)

	_, err = s.DeleteTodo(ctx, user.ID, todo.ID)
	assert.Equal(t, errors.ErrTodoNotFound, err)
}

func TestTagLifecycle(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	user := newTestUser(t, s, "a@b.com")

	newTestTag(t, s, user.ID, "работа")
	newTestTag(t, s, user.ID, "дом")

	dup := &models.Tag{UserID: user.ID, Name: "работа"}
	assert.Equal(t, errors.ErrTagExists, s.CreateTag(ctx, dup))

	// Одинаковое имя у другого владельца допустимо.
	other := newTestUser(t, s, "other@b.com")
	otherTag := &models.Tag{UserID: other.ID, Name: "работа"}
	assert.NoError(t, s.CreateTag(ctx, otherTag))

	tags, err := s.GetTags(ctx, user.ID)
	assert.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Equal(t, "дом", tags[0].Name)
	assert.Equal(t, "работа", tags[1].Name)
}

func TestDeleteTagCascade(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()
	user := newTestUser(t, s, "a@b.com")
	tag := newTestTag(t, s, user.ID, "работа")
	todo := newTestTodo(t, s, user.ID, "Buy milk", []string{tag.ID})
	assert.Len(t, todo.Tags, 1)

	assert.NoError(t, s.DeleteTag(ctx, user.ID, tag.ID))

	todos, err := s.GetTodos(ctx, user.ID, models.TodoFilter{})
	assert.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.Equal(t, []models.Tag{}, todos[0].Tags)

	assert.Equal(t, errors.ErrTagNotFound, s.DeleteTag(ctx, user.ID, tag.ID))
}

func TestCreateTodoWithUnknownTag(t *testing.T) {
	s := NewStorage()
	user := newTestUser(t, s, "a@b.com")

	todo := &models.Todo{
		UserID:   user.ID,
		Title:    "Buy milk",
		Deadline: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	err := s.CreateTodo(context.Background(), todo, []string{"ghost-tag"})
	assert.Error(t, err)

	todos, listErr := s.GetTodos(context.Background(), user.ID, models.TodoFilter{})
	assert.NoError(t, listErr)
	assert.Empty(t, todos)
}
