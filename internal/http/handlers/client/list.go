package client

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
)

// ListHandler управляет HTTP-запросами на чтение списка клиентов.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler с переданными логгером и сервисом.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список клиентов
// @Description Возвращает учетные записи с ролями CLIENT и OPERATIVE. Доступно только администраторам.
// @Tags Clients
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} Item "Список учетных записей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list clients"))
		return
	}

	items := make([]Item, 0, len(users))
	for _, u := range users {
		items = append(items, convertItem(u))
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}
