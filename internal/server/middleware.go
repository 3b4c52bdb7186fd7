package server

import (
	"net/http"
	"strings"

	"todoapp/internal/domain/errors"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthRequired извлекает bearer-токен из заголовка Authorization, проверяет
// подпись и срок действия и кладёт утверждения в контекст запроса. Обработчики
// получают личность только отсюда и никогда из тела запроса.
func AuthRequired(tokens *TokenCodec) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errors.ErrMissingToken.Error()})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": errors.ErrInvalidToken.Error()})
			return
		}

		ctx.Set(identityKey, claims)
		ctx.Next()
	}
}

func identityFromContext(ctx *gin.Context) (*SessionClaims, bool) {
	value, exists := ctx.Get(identityKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*SessionClaims)
	return claims, ok
}

func CORS() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
