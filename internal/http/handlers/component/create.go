package component

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// CreateRequest — входные данные для создания компонента.
type CreateRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=200"`
	ComponentType string  `json:"component_type" validate:"required,min=1,max=100"`
	UnitCost      float64 `json:"unit_cost" validate:"required,gte=0"`
	Description   *string `json:"description,omitempty"`
}

// CreateHandler управляет HTTP-запросами на создание компонентов.
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
// @Summary Создать компонент
// @Description Создает компонент каталога. Доступно операторам и администраторам.
// @Tags Components
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body CreateRequest true "Данные нового компонента"
// @Success 200 {object} Item "Созданный компонент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /components [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.component.create"

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

	component, err := h.service.CreateComponent(r.Context(), models.Component{
		Name:          req.Name,
		ComponentType: req.ComponentType,
		UnitCost:      req.UnitCost,
		Description:   req.Description,
	})
	if err != nil {
		log.Error("failed to create component", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create component"))
		return
	}

	log.Info("component created", slog.Int64("id", component.ID))
	render.JSON(w, r, response.StatusOKWithData(convertItem(component)))
}
