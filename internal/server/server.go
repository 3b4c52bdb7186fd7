package server

import (
	"context"
	"fmt"
	"net/http"

	"todoapp/internal/domain/errors"
	"todoapp/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *models.Todo, tagIDs []string) error
	GetTodos(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, userID string, todo *models.Todo, tagIDs []string) error
	DeleteTodo(ctx context.Context, userID, todoID string) (*models.Todo, error)
}

type TagRepository interface {
	CreateTag(ctx context.Context, tag *models.Tag) error
	GetTags(ctx context.Context, userID string) ([]models.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID string) error
}

type TodoAPI struct {
	httpSrv *http.Server
	users   UserRepository
	todos   TodoRepository
	tags    TagRepository
	tokens  *TokenCodec
}

func NewTodoAPI(users UserRepository, todos TodoRepository, tags TagRepository, cfg *Config) *TodoAPI {
	if users == nil || todos == nil || tags == nil || cfg == nil || cfg.Secret == "" {
		return nil
	}

	httpSrv := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port),
	}

	api := TodoAPI{
		httpSrv: &httpSrv,
		users:   users,
		todos:   todos,
		tags:    tags,
		tokens:  NewTokenCodec(cfg.Secret),
	}

	api.configRoutes()

	return &api
}

func (api *TodoAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}

	if api.httpSrv.Addr == "" {
		api.httpSrv.Addr = ":8080"
	}

	return api.httpSrv.ListenAndServe()
}

func (api *TodoAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TodoAPI) configRoutes() {
	router := gin.Default()

	router.Use(CORS())

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"message": "использован некорректный HTTP-метод"})
	})

	router.POST("/register", api.register)
	router.POST("/login", api.login)

	authorized := router.Group("", AuthRequired(api.tokens))
	{
		authorized.GET("/me", api.me)

		todo := authorized.Group("/todo")
		{
			todo.POST("", api.createTodo)
			todo.GET("", api.getTodos)
			todo.PUT("", api.updateTodo)
			todo.DELETE("/:todoID", api.deleteTodo)
		}

		tag := authorized.Group("/tag")
		{
			tag.GET("", api.getTags)
			tag.POST("", api.createTag)
			tag.DELETE("/:tagID", api.deleteTag)
		}
	}

	api.httpSrv.Handler = router
}
