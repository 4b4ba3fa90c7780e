// Package activeids реализует HTTP-обработчик списка идентификаторов
// продуктов, на которые у текущего пользователя есть активная подписка.
// Список кэшируется сервисом в Redis.
package activeids

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
)

// Handler управляет HTTP-запросами на получение активных подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения активных подписок.
type Service interface {
	ListActiveProductIDs(ctx context.Context, userID int64) ([]int64, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Активные подписки пользователя
// @Description Возвращает идентификаторы продуктов, на которые у текущего пользователя есть активная подписка.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список идентификаторов продуктов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.activeids"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	ids, err := h.service.ListActiveProductIDs(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list active subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list active subscriptions"))
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product_ids": ids,
	}))
}
