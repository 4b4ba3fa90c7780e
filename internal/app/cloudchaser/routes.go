// Package cloudchaser предоставляет маршруты основного приложения.
package cloudchaser

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/auth/register"
	campaigncreate "github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/campaign/create"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/campaign/listall"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/campaign/listmy"
	campaignremove "github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/campaign/remove"
	campaignupdate "github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/campaign/update"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/client"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/component"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/pkglink"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/product"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/subscription/activeids"
	subscriptioncreate "github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/handlers/user/me"
	"github.com/magabrotheeeer/cloud-chaser/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/cloud-chaser/internal/services/auth"
	campaignservice "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
	catalogservice "github.com/magabrotheeeer/cloud-chaser/internal/services/catalog"
	clientservice "github.com/magabrotheeeer/cloud-chaser/internal/services/client"
	subscriptionservice "github.com/magabrotheeeer/cloud-chaser/internal/services/subscription"
)

// Services собирает сервисы, которыми пользуются обработчики.
type Services struct {
	Auth         *authservice.AuthService
	Subscription *subscriptionservice.SubscriptionService
	Campaign     *campaignservice.CampaignService
	Catalog      *catalogservice.CatalogService
	Client       *clientservice.ClientService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))

			r.Get("/users/me", me.New(logger).ServeHTTP)

			r.Post("/subscriptions", subscriptioncreate.New(logger, svc.Subscription).ServeHTTP)
			r.Get("/subscriptions/active", activeids.New(logger, svc.Subscription).ServeHTTP)

			r.Post("/campaigns", campaigncreate.New(logger, svc.Campaign).ServeHTTP)
			r.Get("/campaigns", listmy.New(logger, svc.Campaign).ServeHTTP)

			r.Get("/products/drop_down", product.NewDropDown(logger, svc.Catalog).ServeHTTP)

			// Маршруты операторов и администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireOperative(logger))

				r.Get("/components", component.NewList(logger, svc.Catalog).ServeHTTP)
				r.Post("/components", component.NewCreate(logger, svc.Catalog).ServeHTTP)
				r.Patch("/components/{id}", component.NewUpdate(logger, svc.Catalog).ServeHTTP)
				r.Delete("/components/{id}", component.NewRemove(logger, svc.Catalog).ServeHTTP)

				r.Get("/products", product.NewList(logger, svc.Catalog).ServeHTTP)
				r.Post("/products", product.NewCreate(logger, svc.Catalog).ServeHTTP)
				r.Patch("/products/{id}", product.NewUpdate(logger, svc.Catalog).ServeHTTP)
				r.Delete("/products/{id}", product.NewRemove(logger, svc.Catalog).ServeHTTP)

				r.Get("/packages", pkglink.NewList(logger, svc.Catalog).ServeHTTP)
				r.Post("/packages", pkglink.NewCreate(logger, svc.Catalog).ServeHTTP)
				r.Patch("/packages/{product_id}/{component_id}", pkglink.NewUpdate(logger, svc.Catalog).ServeHTTP)
				r.Delete("/packages/{product_id}/{component_id}", pkglink.NewRemove(logger, svc.Catalog).ServeHTTP)
			})

			// Маршруты администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))

				r.Get("/campaigns/all", listall.New(logger, svc.Campaign).ServeHTTP)
				r.Patch("/campaigns/{id}", campaignupdate.New(logger, svc.Campaign).ServeHTTP)
				r.Delete("/campaigns/{id}", campaignremove.New(logger, svc.Campaign).ServeHTTP)

				r.Get("/clients", client.NewList(logger, svc.Client).ServeHTTP)
				r.Post("/clients", client.NewCreate(logger, svc.Client).ServeHTTP)
				r.Patch("/clients/{id}", client.NewUpdate(logger, svc.Client).ServeHTTP)
				r.Delete("/clients/{id}", client.NewRemove(logger, svc.Client).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
