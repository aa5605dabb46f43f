package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/t4n15hq/luminari-be/internal/utils"
)

// Recover converts handler panics into a 500 JSON body so a bad request
// never takes the process down. Detail stays in the server log.
func Recover(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
