package product

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/catalog"
)

// RemoveHandler управляет HTTP-запросами на удаление продуктов.
type RemoveHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemove создает новый RemoveHandler с переданными логгером и сервисом.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить продукт
// @Description Удаляет продукт, если на него не ссылаются подписки. Доступно операторам и администраторам.
// @Tags Products
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор продукта"
// @Success 200 {object} map[string]any "Продукт удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Failure 409 {object} response.ErrorResponse "Продукт используется подписками"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id} [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			log.Error("product not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
		case errors.Is(err, services.ErrProductInUse):
			log.Error("product is referenced by subscriptions", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("product is referenced by subscriptions"))
		default:
			log.Error("failed to delete product", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete product"))
		}
		return
	}

	log.Info("product deleted", slog.Int64("id", productID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id_product": productID,
	}))
}
