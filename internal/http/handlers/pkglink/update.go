package pkglink

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
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/catalog"
)

// UpdateRequest — новое количество компонента в составе продукта.
type UpdateRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// UpdateHandler управляет HTTP-запросами на обновление количества в связи.
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
// @Summary Обновить количество в связи
// @Description Меняет количество компонента в составе продукта. Доступно операторам и администраторам.
// @Tags Packages
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param product_id path int true "Идентификатор продукта"
// @Param component_id path int true "Идентификатор компонента"
// @Param request body UpdateRequest true "Новое количество"
// @Success 200 {object} Item "Обновленная связь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или идентификаторы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Связь не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /packages/{product_id}/{component_id} [patch]
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pkglink.update"

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

	link, err := h.service.UpdateLink(r.Context(), productID, componentID, req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Error("package link not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("package link not found"))
			return
		}
		log.Error("failed to update package link", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update package link"))
		return
	}

	log.Info("package link updated",
		slog.Int64("id_product", link.ProductID),
		slog.Int64("id_component", link.ComponentID),
	)
	render.JSON(w, r, response.StatusOKWithData(convertItem(link)))
}
