// Package update реализует HTTP-обработчик частичного обновления кампании.
//
// Изменяются только поля, присутствующие в запросе. Статус принимается
// в обоих написаниях удержания ("On Hold" и "On_Hold"); итоговый диапазон
// дат перепроверяется сервисом после применения патча.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/campaign/listmy"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
)

// dateLayout формат дат кампании во входных данных.
const dateLayout = "2006-01-02"

// Request — частичное обновление кампании; все поля опциональны.
type Request struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Handler управляет HTTP-запросами на обновление кампаний.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления кампании.
type Service interface {
	Update(ctx context.Context, campaignID int64, patch models.CampaignPatch) (*models.Campaign, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить кампанию
// @Description Применяет частичное обновление кампании. Смена статуса публикует событие уведомления.
// @Tags Campaigns
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор кампании"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} listmy.Item "Обновленная кампания"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, статус или диапазон дат"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Кампания не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /campaigns/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.update"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	var patch models.CampaignPatch
	patch.Name = req.Name
	if req.Status != nil {
		status, err := models.ParseCampaignStatus(*req.Status)
		if err != nil {
			log.Error("unknown campaign status", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown campaign status"))
			return
		}
		patch.Status = &status
	}
	if req.StartDate != nil {
		startDate, _ := time.Parse(dateLayout, *req.StartDate)
		patch.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, _ := time.Parse(dateLayout, *req.EndDate)
		patch.EndDate = &endDate
	}

	campaign, err := h.service.Update(r.Context(), campaignID, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			log.Error("campaign not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("campaign not found"))
		case errors.Is(err, services.ErrInvalidDateRange):
			log.Error("invalid date range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("start date must not be after end date"))
		default:
			log.Error("failed to update campaign", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update campaign"))
		}
		return
	}

	log.Info("campaign updated", slog.Int64("id", campaign.ID))
	render.JSON(w, r, response.StatusOKWithData(listmy.Item{
		ID:             campaign.ID,
		SubscriptionID: campaign.SubscriptionID,
		Name:           campaign.Name,
		Status:         string(campaign.Status),
		StartDate:      campaign.StartDate,
		EndDate:        campaign.EndDate,
		ProductName:    campaign.ProductName,
	}))
}
