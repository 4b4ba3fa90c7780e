package pkglink

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

// RemoveHandler управляет HTTP-запросами на удаление связей.
type RemoveHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemove создает новый RemoveHandler с переданными логгером и сервисом.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить связь компонент-продукт
// @Description Убирает компонент из состава продукта. Доступно операторам и администраторам.
// @Tags Packages
// @Produce  json
// @Security BearerAuth
// @Param product_id path int true "Идентификатор продукта"
// @Param component_id path int true "Идентификатор компонента"
// @Success 200 {object} map[string]any "Связь удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректные идентификаторы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Связь не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /packages/{product_id}/{component_id} [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pkglink.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil {
		log.Error("invalid product id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
		return
	}
	componentID, err := strconv.ParseInt(chi.URLParam(r, "component_id"), 10, 64)
	if err != nil {
		log.Error("invalid component id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid component id"))
		return
	}

	if err := h.service.DeleteLink(r.Context(), productID, componentID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Error("package link not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("package link not found"))
			return
		}
		log.Error("failed to delete package link", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete package link"))
		return
	}

	log.Info("package link deleted",
		slog.Int64("id_product", productID),
		slog.Int64("id_component", componentID),
	)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id_product":   productID,
		"id_component": componentID,
	}))
}
