package component

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

// RemoveHandler управляет HTTP-запросами на удаление компонентов.
type RemoveHandler struct {
	log     *slog.Logger
	service Service
}

// NewRemove создает новый RemoveHandler с переданными логгером и сервисом.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить компонент
// @Description Удаляет компонент; его связи с продуктами удаляются каскадно. Доступно операторам и администраторам.
// @Tags Components
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор компонента"
// @Success 200 {object} map[string]any "Компонент удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Компонент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /components/{id} [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.component.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	componentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.DeleteComponent(r.Context(), componentID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Error("component not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("component not found"))
			return
		}
		log.Error("failed to delete component", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete component"))
		return
	}

	log.Info("component deleted", slog.Int64("id", componentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id_component": componentID,
	}))
}
