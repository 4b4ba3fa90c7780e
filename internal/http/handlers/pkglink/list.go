package pkglink

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
)

// ListHandler управляет HTTP-запросами на чтение списка связей.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler с переданными логгером и сервисом.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список связей компонент-продукт
// @Description Возвращает все связи с названиями продуктов и компонентов. Доступно операторам и администраторам.
// @Tags Packages
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} Item "Список связей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /packages [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pkglink.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	links, err := h.service.ListLinks(r.Context())
	if err != nil {
		log.Error("failed to list package links", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list package links"))
		return
	}

	items := make([]Item, 0, len(links))
	for _, link := range links {
		items = append(items, convertItem(link))
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}
