package component

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/response"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/catalog"
)

// UpdateRequest — частичное обновление компонента; все поля опциональны.
type UpdateRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ComponentType *string  `json:"component_type,omitempty" validate:"omitempty,min=1,max=100"`
	UnitCost      *float64 `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	Description   *string  `json:"description,omitempty"`
}

// UpdateHandler управляет HTTP-запросами на обновление компонентов.
type UpdateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewUpdate создает новый UpdateHandler с переданными логгером и сервисом.
func NewUpdate(log *slog.Logger, service Service) *UpdateHandler {
	return &UpdateHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить компонент
// @Description Применяет частичное обновление компонента. Доступно операторам и администраторам.
// @Tags Components
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор компонента"
// @Param request body UpdateRequest true "Изменяемые поля"
// @Success 200 {object} Item "Обновленный компонент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Компонент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /components/{id} [patch]
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.component.update"

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

	var req UpdateRequest
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

	component, err := h.service.UpdateComponent(r.Context(), componentID, models.ComponentPatch{
		Name:          req.Name,
		ComponentType: req.ComponentType,
		UnitCost:      req.UnitCost,
		Description:   req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Error("component not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("component not found"))
			return
		}
		log.Error("failed to update component", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update component"))
		return
	}

	log.Info("component updated", slog.Int64("id", component.ID))
	render.JSON(w, r, response.StatusOKWithData(convertItem(component)))
}
