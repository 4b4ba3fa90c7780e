// Package listall реализует HTTP-обработчик списка всех кампаний.
// Маршрут закрыт middleware ролей: доступен операторам и администраторам.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/campaign/listmy"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// Handler управляет HTTP-запросами на чтение всех кампаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения всех кампаний.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Campaign, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Все кампании
// @Description Возвращает кампании всех пользователей с названиями продуктов. Доступно операторам и администраторам.
// @Tags Campaigns
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} listmy.Item "Список кампаний"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /campaigns/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	campaigns, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list campaigns", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list campaigns"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(listmy.ConvertItems(campaigns)))
}
