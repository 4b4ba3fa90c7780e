package pkglink

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/catalog"
)

// CreateRequest — входные данные для создания связи компонент-продукт.
type CreateRequest struct {
	ProductID   int64 `json:"id_product" validate:"required,gt=0"`
	ComponentID int64 `json:"id_component" validate:"required,gt=0"`
	Quantity    int   `json:"quantity" validate:"required,gt=0"`
}

// CreateHandler управляет HTTP-запросами на создание связей.
type CreateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreate создает новый CreateHandler с переданными логгером и сервисом.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать связь компонент-продукт
// @Description Добавляет компонент в состав продукта с количеством. Пара продукт-компонент уникальна. Доступно операторам и администраторам.
// @Tags Packages
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body CreateRequest true "Данные новой связи"
// @Success 200 {object} Item "Созданная связь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Продукт или компонент не найден"
// @Failure 409 {object} response.ErrorResponse "Связь уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /packages [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pkglink.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req CreateRequest
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

	link, err := h.service.CreateLink(r.Context(), models.ProductComponent{
		ProductID:   req.ProductID,
		ComponentID: req.ComponentID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLinkExists):
			log.Error("package link already exists", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("package link already exists"))
		case errors.Is(err, services.ErrNotFound):
			log.Error("product or component not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product or component not found"))
		default:
			log.Error("failed to create package link", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create package link"))
		}
		return
	}

	log.Info("package link created",
		slog.Int64("id_product", link.ProductID),
		slog.Int64("id_component", link.ComponentID),
	)
	render.JSON(w, r, response.StatusOKWithData(convertItem(link)))
}
