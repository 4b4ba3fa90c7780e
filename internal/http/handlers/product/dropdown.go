package product

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
)

// DropDownHandler управляет HTTP-запросами выпадающего списка активных
// продуктов. Список кэшируется сервисом в Redis.
type DropDownHandler struct {
	log     *slog.Logger
	service Service
}

// NewDropDown создает новый DropDownHandler с переданными логгером и сервисом.
func NewDropDown(log *slog.Logger, service Service) *DropDownHandler {
	return &DropDownHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выпадающий список продуктов
// @Description Возвращает идентификаторы и названия активных продуктов для форм выбора.
// @Tags Products
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.ProductOption "Активные продукты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/drop_down [get]
func (h *DropDownHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.dropdown"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	options, err := h.service.ListProductOptions(r.Context())
	if err != nil {
		log.Error("failed to list product options", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list product options"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(options))
}
