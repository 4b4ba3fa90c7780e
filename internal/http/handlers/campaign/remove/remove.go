// Package remove реализует HTTP-обработчик удаления кампании.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
)

// Handler управляет HTTP-запросами на удаление кампаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления кампании.
type Service interface {
	Delete(ctx context.Context, campaignID int64) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить кампанию
// @Description Удаляет кампанию по идентификатору.
// @Tags Campaigns
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор кампании"
// @Success 200 {object} map[string]any "Кампания удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Кампания не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /campaigns/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	campaignID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.Delete(r.Context(), campaignID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Error("campaign not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("campaign not found"))
			return
		}
		log.Error("failed to delete campaign", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete campaign"))
		return
	}

	log.Info("campaign deleted", slog.Int64("id", campaignID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id_campaign": campaignID,
	}))
}
