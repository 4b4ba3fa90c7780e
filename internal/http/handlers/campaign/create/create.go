// Package create реализует HTTP-обработчик создания рекламной кампании.
//
// Кампания создается только против активной подписки текущего пользователя
// на продукт; создание без подписки отклоняется со статусом 404.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
)

// dateLayout формат дат кампании во входных данных.
const dateLayout = "2006-01-02"

// Request — входные данные для создания кампании.
type Request struct {
	ProductID int64  `json:"id_product" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// Response — созданная кампания.
type Response struct {
	ID             int64     `json:"id_campaign"`
	SubscriptionID int64     `json:"id_subscription"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

// Handler управляет HTTP-запросами на создание кампаний.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания кампании.
type Service interface {
	Create(ctx context.Context, userID, productID int64, name string, startDate, endDate time.Time) (*models.Campaign, error)
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
// @Summary Создать кампанию
// @Description Создает кампанию со статусом Pending против активной подписки текущего пользователя на продукт.
// @Tags Campaigns
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Данные новой кампании"
// @Success 200 {object} Response "Созданная кампания"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или диапазон дат"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Нет активной подписки на продукт"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /campaigns [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	startDate, _ := time.Parse(dateLayout, req.StartDate)
	endDate, _ := time.Parse(dateLayout, req.EndDate)

	campaign, err := h.service.Create(r.Context(), user.ID, req.ProductID, req.Name, startDate, endDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveSubscription):
			log.Error("no active subscription for product", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active subscription for this product"))
		case errors.Is(err, services.ErrInvalidDateRange):
			log.Error("invalid date range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("start date must not be after end date"))
		default:
			log.Error("failed to create campaign", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create campaign"))
		}
		return
	}

	log.Info("campaign created", slog.Int64("id", campaign.ID))
	render.JSON(w, r, response.StatusOKWithData(Response{
		ID:             campaign.ID,
		SubscriptionID: campaign.SubscriptionID,
		Name:           campaign.Name,
		Status:         string(campaign.Status),
		StartDate:      campaign.StartDate,
		EndDate:        campaign.EndDate,
	}))
}
