package server

import (
	"log"
	"net/http"
	"strings"

	"todoapp/internal/domain/errors"
	"todoapp/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

func (api *TodoAPI) register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrValidationFailed.Error()})
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrEmptyUsername.Error()})
		return
	}
	if !IsValidEmail(req.Email) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrInvalidEmail.Error()})
		return
	}
	if !IsStrongPassword(req.Password) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrWeakPassword.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Println("[ERROR] Не удалось захешировать пароль:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := api.users.CreateUser(ctx.Request.Context(), &user); err != nil {
		if err == errors.ErrEmailTaken {
			ctx.JSON(http.StatusConflict, gin.H{"message": errors.ErrEmailTaken.Error()})
			return
		}
		log.Println("[ERROR] Не удалось создать пользователя:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "регистрация завершена"})
}

func (api *TodoAPI) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrBadRequest.Error()})
		return
	}

	// Ответ одинаков для всех причин отказа, чтобы по нему нельзя было
	// перебирать зарегистрированные адреса.
	if req.Email == "" || req.Password == "" || !IsValidEmail(req.Email) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrInvalidCredentials.Error()})
		return
	}

	user, err := api.users.GetUserByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		if err == errors.ErrUserNotFound {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrInvalidCredentials.Error()})
			return
		}
		log.Println("[ERROR] Не удалось получить пользователя при входе:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrInvalidCredentials.Error()})
		return
	}

	token, err := api.tokens.Issue(user)
	if err != nil {
		log.Println("[ERROR] Не удалось выпустить токен:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "вход выполнен успешно",
		"token":   token,
		"user": gin.H{
			"user_id":  user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func (api *TodoAPI) me(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	// Токен самодостаточен, но аккаунт мог исчезнуть после его выпуска.
	user, err := api.users.GetUserByEmail(ctx.Request.Context(), claims.Email)
	if err != nil {
		if err == errors.ErrUserNotFound {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrInvalidToken.Error()})
			return
		}
		log.Println("[ERROR] Не удалось проверить сессию:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "сессия действительна",
		"user": gin.H{
			"user_id":  user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
