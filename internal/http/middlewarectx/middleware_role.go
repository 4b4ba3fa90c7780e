package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// RequireAdmin создает middleware, пропускающий только администраторов.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return requireRole(log, func(user *models.User) bool {
		return user.Role.IsAdmin()
	})
}

// RequireOperative создает middleware, пропускающий операторов и администраторов.
func RequireOperative(log *slog.Logger) func(http.Handler) http.Handler {
	return requireRole(log, func(user *models.User) bool {
		return user.Role.IsOperativeOrAdmin()
	})
}

func requireRole(log *slog.Logger, allowed func(*models.User) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}
			if !allowed(user) {
				log.Error("access denied", slog.String("role", string(user.Role)))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
