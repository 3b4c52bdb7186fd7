package server

import (
	"log"
	"net/http"
	"strings"

	"todoapp/internal/domain/errors"
	"todoapp/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

func (api *TodoAPI) getTags(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	tags, err := api.tags.GetTags(ctx.Request.Context(), claims.UserID)
	if err != nil {
		log.Println("[ERROR] Не удалось получить метки:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	ctx.JSON(http.StatusOK, tags)
}

func (api *TodoAPI) createTag(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	var req models.CreateTagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrValidationFailed.Error()})
		return
	}

	if strings.TrimSpace(req.TagName) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errors.ErrEmptyTagName.Error()})
		return
	}

	tag := models.Tag{
		UserID: claims.UserID,
		Name:   req.TagName,
	}

	if err := api.tags.CreateTag(ctx.Request.Context(), &tag); err != nil {
		if err == errors.ErrTagExists {
			ctx.JSON(http.StatusConflict, gin.H{"message": errors.ErrTagExists.Error()})
			return
		}
		log.Println("[ERROR] Не удалось создать метку:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, tag)
}

func (api *TodoAPI) deleteTag(ctx *gin.Context) {
	claims, ok := identityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
		return
	}

	tagID := ctx.Param("tagID")
	if err := api.tags.DeleteTag(ctx.Request.Context(), claims.UserID, tagID); err != nil {
		if err == errors.ErrTagNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"message": errors.ErrTagNotFound.Error()})
			return
		}
		log.Println("[ERROR] Не удалось удалить метку:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "метка удалена, связи с задачами сняты"})
}
