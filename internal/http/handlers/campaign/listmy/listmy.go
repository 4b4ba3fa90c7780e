// Package listmy реализует HTTP-обработчик списка кампаний текущего
// пользователя. Каждая запись дополняется названием продукта подписки.
package listmy

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// Item — кампания в списке.
type Item struct {
	ID             int64     `json:"id_campaign"`
	SubscriptionID int64     `json:"id_subscription"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	ProductName    string    `json:"product_name"`
}

// Handler управляет HTTP-запросами на чтение кампаний пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения кампаний пользователя.
type Service interface {
	ListForUser(ctx context.Context, userID int64) ([]*models.Campaign, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ConvertItems преобразует кампании в элементы ответа.
func ConvertItems(campaigns []*models.Campaign) []Item {
	items := make([]Item, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, Item{
			ID:             c.ID,
			SubscriptionID: c.SubscriptionID,
			Name:           c.Name,
			Status:         string(c.Status),
			StartDate:      c.StartDate,
			EndDate:        c.EndDate,
			ProductName:    c.ProductName,
		})
	}
	return items
}

// ServeHTTP godoc
// @Summary Кампании текущего пользователя
// @Description Возвращает кампании текущего пользователя с названиями продуктов.
// @Tags Campaigns
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} Item "Список кампаний"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /campaigns [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.listmy"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	campaigns, err := h.service.ListForUser(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list campaigns", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list campaigns"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(ConvertItems(campaigns)))
}
