package db

import (
	"context"
	"errors"
	"log"
	"time"

	domerr "todoapp/internal/domain/errors"
	"todoapp/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	queryTimeout        = 15 * time.Second
	uniqueViolationCode = "23505"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(connStr string) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Println("[ERROR] Не удалось подключиться к базе данных:", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		log.Println("[ERROR] База данных недоступна:", err)
		pool.Close()
		return nil, err
	}

	log.Println("[SUCCESS] Соединение с базой данных установлено успешно")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user.ID = uuid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.LastModifiedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, username, email, password_hash, created_at, last_modified_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		user.ID, user.Username, user.Email, user.PasswordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			log.Println("[ERROR] Email уже зарегистрирован:", user.Email)
			return domerr.ErrEmailTaken
		}
		log.Println("[ERROR] Не удалось создать пользователя:", err)
		return err
	}

	log.Println("[SUCCESS] Пользователь успешно создан:", user.ID)
	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, created_at, last_modified_at
		 FROM users WHERE email = $1`, email)

	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastModifiedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domerr.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, created_at, last_modified_at
		 FROM users WHERE user_id = $1`, id)

	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastModifiedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domerr.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

// CreateTodo вставляет задачу, привязывает метки и перечитывает их
// в одной транзакции: либо сохраняется всё, либо ничего.
func (s *Storage) CreateTodo(ctx context.Context, todo *models.Todo, tagIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	todo.ID = uuid.New().String()
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.LastModifiedAt = now
	todo.Tags = []models.Tag{}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO todo (todo_id, user_id, title, content, deadline, is_completed, created_at, last_modified_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			todo.ID, todo.UserID, todo.Title, todo.Content, todo.Deadline, todo.IsCompleted, now)
		if err != nil {
			return err
		}

		if err := insertTodoTags(ctx, tx, todo.ID, tagIDs); err != nil {
			return err
		}

		tags, err := readTodoTags(ctx, tx, todo.ID)
		if err != nil {
			return err
		}
		todo.Tags = tags
		return nil
	})
	if err != nil {
		log.Println("[ERROR] Не удалось создать задачу:", err)
		return err
	}

	log.Println("[SUCCESS] Задача успешно создана:", todo.ID)
	return nil
}

func (s *Storage) GetTodos(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	builder := psql.
		Select("todo_id", "user_id", "title", "content", "deadline", "is_completed", "completed_at", "created_at", "last_modified_at").
		From("todo").
		Where(sq.Eq{"user_id": userID})

	switch filter.Status {
	case models.StatusCompleted:
		builder = builder.Where(sq.Eq{"is_completed": true})
	case models.StatusPending:
		builder = builder.Where(sq.Eq{"is_completed": false})
	}
	if filter.TagID != "" {
		builder = builder.Where("todo_id IN (SELECT todo_id FROM todo_tags WHERE tag_id = ?)", filter.TagID)
	}
	builder = builder.OrderBy("created_at DESC")

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		log.Println("[ERROR] Не удалось собрать запрос списка задач:", err)
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	ids := []string{}
	for rows.Next() {
		todo := models.Todo{Tags: []models.Tag{}}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Content, &todo.Deadline,
			&todo.IsCompleted, &todo.CompletedAt, &todo.CreatedAt, &todo.LastModifiedAt); err != nil {
			log.Println("[ERROR] Ошибка при чтении задач:", err)
			return nil, err
		}
		todos = append(todos, todo)
		ids = append(ids, todo.ID)
	}
	if err := rows.Err(); err != nil {
		log.Println("[ERROR] Ошибка при чтении задач:", err)
		return nil, err
	}

	if len(ids) > 0 {
		tagRows, err := s.pool.Query(ctx,
			`SELECT todo_id, tag_id, tag_name
			 FROM todo_tags JOIN tag USING (tag_id)
			 WHERE todo_id = ANY($1)`, ids)
		if err != nil {
			log.Println("[ERROR] Не удалось получить метки задач:", err)
			return nil, err
		}
		defer tagRows.Close()

		tagsByTodo := map[string][]models.Tag{}
		for tagRows.Next() {
			var todoID string
			tag := models.Tag{}
			if err := tagRows.Scan(&todoID, &tag.ID, &tag.Name); err != nil {
				log.Println("[ERROR] Ошибка при чтении меток:", err)
				return nil, err
			}
			tagsByTodo[todoID] = append(tagsByTodo[todoID], tag)
		}
		if err := tagRows.Err(); err != nil {
			log.Println("[ERROR] Ошибка при чтении меток:", err)
			return nil, err
		}

		for i := range todos {
			if tags, ok := tagsByTodo[todos[i].ID]; ok {
				todos[i].Tags = tags
			}
		}
	}

	log.Println("[SUCCESS] Получено задач:", len(todos))
	return todos, nil
}

// UpdateTodo выполняет полную замену полей и набора меток. Отметка
// completed_at ставится только на переходе в выполненное состояние и
// снимается при возврате в невыполненное.
func (s *Storage) UpdateTodo(ctx context.Context, userID string, todo *models.Todo, tagIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE todo
			 SET title = $1, content = $2, deadline = $3, is_completed = $4,
			     last_modified_at = $5,
			     completed_at = CASE
			         WHEN $4 = true AND completed_at IS NULL THEN $5
			         WHEN $4 = false THEN NULL
			         ELSE completed_at
			     END
			 WHERE todo_id = $6 AND user_id = $7
			 RETURNING todo_id, user_id, title, content, deadline, is_completed, completed_at, created_at, last_modified_at`,
			todo.Title, todo.Content, todo.Deadline, todo.IsCompleted, now, todo.ID, userID)

		if err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Content, &todo.Deadline,
			&todo.IsCompleted, &todo.CompletedAt, &todo.CreatedAt, &todo.LastModifiedAt); err != nil {
			if err == pgx.ErrNoRows {
				return domerr.ErrTodoNotFound
			}
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM todo_tags WHERE todo_id = $1`, todo.ID); err != nil {
			return err
		}
		if err := insertTodoTags(ctx, tx, todo.ID, tagIDs); err != nil {
			return err
		}

		tags, err := readTodoTags(ctx, tx, todo.ID)
		if err != nil {
			return err
		}
		todo.Tags = tags
		return nil
	})
	if err != nil {
		if err == domerr.ErrTodoNotFound {
			log.Println("[ERROR] Задача для обновления не найдена:", todo.ID)
			return err
		}
		log.Println("[ERROR] Не удалось обновить задачу:", err)
		return err
	}

	log.Println("[SUCCESS] Задача успешно обновлена:", todo.ID)
	return nil
}

func (s *Storage) DeleteTodo(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`DELETE FROM todo WHERE todo_id = $1 AND user_id = $2
		 RETURNING todo_id, user_id, title, content, deadline, is_completed, completed_at, created_at, last_modified_at`,
		todoID, userID)

	todo := &models.Todo{Tags: []models.Tag{}}
	if err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Content, &todo.Deadline,
		&todo.IsCompleted, &todo.CompletedAt, &todo.CreatedAt, &todo.LastModifiedAt); err != nil {
		if err == pgx.ErrNoRows {
			log.Println("[ERROR] Задача для удаления не найдена:", todoID)
			return nil, domerr.ErrTodoNotFound
		}
		log.Println("[ERROR] Не удалось удалить задачу:", err)
		return nil, err
	}

	log.Println("[SUCCESS] Задача удалена:", todoID)
	return todo, nil
}

func (s *Storage) CreateTag(ctx context.Context, tag *models.Tag) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag.ID = uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tag (tag_id, user_id, tag_name) VALUES ($1, $2, $3)`,
		tag.ID, tag.UserID, tag.Name)
	if err != nil {
		if isUniqueViolation(err) {
			log.Println("[ERROR] Метка уже существует:", tag.Name)
			return domerr.ErrTagExists
		}
		log.Println("[ERROR] Не удалось создать метку:", err)
		return err
	}

	log.Println("[SUCCESS] Метка успешно создана:", tag.ID)
	return nil
}

func (s *Storage) GetTags(ctx context.Context, userID string) ([]models.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT tag_id, user_id, tag_name FROM tag WHERE user_id = $1 ORDER BY tag_name ASC`, userID)
	if err != nil {
		log.Println("[ERROR] Не удалось получить метки:", err)
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		tag := models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			log.Println("[ERROR] Ошибка при чтении меток:", err)
			return nil, err
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		log.Println("[ERROR] Ошибка при чтении меток:", err)
		return nil, err
	}
	return tags, nil
}

// Строки todo_tags метки удаляются каскадом на уровне схемы, сами задачи
// не затрагиваются.
func (s *Storage) DeleteTag(ctx context.Context, userID, tagID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx,
		`DELETE FROM tag WHERE tag_id = $1 AND user_id = $2`, tagID, userID)
	if err != nil {
		log.Println("[ERROR] Не удалось удалить метку:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		log.Println("[ERROR] Метка для удаления не найдена:", tagID)
		return domerr.ErrTagNotFound
	}

	log.Println("[SUCCESS] Метка удалена:", tagID)
	return nil
}

func insertTodoTags(ctx context.Context, tx pgx.Tx, todoID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	builder := psql.Insert("todo_tags").Columns("todo_id", "tag_id")
	for _, tagID := range tagIDs {
		builder = builder.Values(todoID, tagID)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sqlStr, args...)
	return err
}

func readTodoTags(ctx context.Context, tx pgx.Tx, todoID string) ([]models.Tag, error) {
	rows, err := tx.Query(ctx,
		`SELECT tag_id, tag_name FROM todo_tags JOIN tag USING (tag_id) WHERE todo_id = $1`, todoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		tag := models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
