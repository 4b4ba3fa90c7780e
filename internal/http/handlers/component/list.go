package component

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
)

// ListHandler управляет HTTP-запросами на чтение списка компонентов.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler с переданными логгером и сервисом.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список компонентов
// @Description Возвращает все компоненты каталога. Доступно операторам и администраторам.
// @Tags Components
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} Item "Список компонентов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /components [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.component.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	components, err := h.service.ListComponents(r.Context())
	if err != nil {
		log.Error("failed to list components", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list components"))
		return
	}

	items := make([]Item, 0, len(components))
	for _, c := range components {
		items = append(items, convertItem(c))
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}
