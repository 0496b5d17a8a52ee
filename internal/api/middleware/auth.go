package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-LodgingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDHeader заголовок с идентификатором пользователя, проставляемый шлюзом
const UserIDHeader = "X-User-ID"

const msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"

// Auth извлекает ID пользователя из заголовка X-User-ID и кладёт его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(UserIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUserID возвращает контекст с ID пользователя
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID получает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
