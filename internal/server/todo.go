package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"todoapp/internal/domain/errors"
	"todoapp/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

// Фронтенд присылает значение поля datetime-local без зоны, но принимаем
// и полноценный RFC 3339, и голую дату.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDeadline(raw string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.ErrInvalidDeadline
}

func (api *TodoAPI) createTodo(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	var req models.CreateTodoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrValidationFailed.Error()})
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrEmptyTitle.Error()})
		return
	}
	if req.Deadline == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrEmptyDeadline.Error()})
		return
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrInvalidDeadline.Error()})
		return
	}

	todo := models.Todo{
		UserID:      claims.UserID,
		Title:       req.Title,
		Content:     req.Content,
		Deadline:    deadline,
		IsCompleted: req.IsCompleted,
	}

	if err := api.todos.CreateTodo(ctx.Request.Context(), &todo, req.Tags); err != nil {
		log.Println("[ERROR] Не удалось создать задачу:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "задача создана", "todo": todo})
}

func (api *TodoAPI) getTodos(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	filter := models.TodoFilter{
		Status: ctx.Query("status"),
		TagID:  ctx.Query("tag_id"),
	}

	todos, err := api.todos.GetTodos(ctx.Request.Context(), claims.UserID, filter)
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (api *TodoAPI) updateTodo(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	var req models.UpdateTodoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrValidationFailed.Error()})
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrEmptyTitle.Error()})
		return
	}
	if req.Deadline == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrEmptyDeadline.Error()})
		return
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrInvalidDeadline.Error()})
		return
	}

	todo := models.Todo{
		ID:          req.TodoID,
		UserID:      claims.UserID,
		Title:       req.Title,
		Content:     req.Content,
		Deadline:    deadline,
		IsCompleted: req.IsCompleted,
	}

	if err := api.todos.UpdateTodo(ctx.Request.Context(), claims.UserID, &todo, req.Tags); err != nil {
		if err == errors.ErrTodoNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"message": errors.ErrTodoNotFound.Error()})
			return
		}
		log.Println("[ERROR] Не удалось обновить задачу:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "задача обновлена", "todo": todo})
}

func (api *TodoAPI) deleteTodo(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	todoID := ctx.Param("todoID")
	deleted, err := api.todos.DeleteTodo(ctx.Request.Context(), claims.UserID, todoID)
	if err != nil {
		if err == errors.ErrTodoNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"message": errors.ErrTodoNotFound.Error()})
			return
		}
		log.Println("[ERROR] Не удалось удалить задачу:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "задача удалена", "deletedTodo": deleted})
}
