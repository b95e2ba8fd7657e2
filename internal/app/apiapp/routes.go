package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/config"
	adminauth "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/adminauth"
	creatoropssvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/creatorops"
	modqueuesvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/modqueue"
	policysvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/policy"
	reportssvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/reports"
	trustsvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/trust"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *adminauth.Service
	QueueService      *modqueuesvc.Service
	PolicyService     *policysvc.Service
	TrustService      *trustsvc.Service
	ReportsService    *reportssvc.Service
	CreatorOpsService *creatoropssvc.Service
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	queueHandler := handlers.NewQueueHandler(deps.QueueService)
	policyHandler := handlers.NewPolicyHandler(deps.PolicyService)
	trustHandler := handlers.NewTrustHandler(deps.TrustService)
	reportsHandler := handlers.NewReportsHandler(deps.ReportsService)
	creatorsHandler := handlers.NewCreatorsHandler(deps.CreatorOpsService)

	authMW := AdminAuthMiddleware(deps.AuthService, deps.Logger)
	adminOnlyMW := RequireRole(adminauth.RoleAdmin)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/session", authHandler.CreateSession)
			r.With(authMW).Post("/logout", authHandler.Logout)
		})

		r.Post("/reports", reportsHandler.Submit)
		r.Get("/reports/mine", reportsHandler.ListMine)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMW)

			r.Get("/moderation/queue", queueHandler.List)
			r.With(adminOnlyMW).Post("/moderation/bulk", queueHandler.BulkModerate)
			r.Post("/moderation/{kind}/{id}", queueHandler.Moderate)
			r.Post("/moderation/{kind}/{id}/fast-hide", queueHandler.FastHide)
			r.Get("/moderation/{kind}/{id}/history", queueHandler.History)
			r.Get("/moderation/{kind}/{id}/policy", policyHandler.Evaluate)

			r.Post("/creators/trust-scores", trustHandler.ScoreCreators)
			r.Get("/creators/{id}/controls", creatorsHandler.GetControls)
			r.With(adminOnlyMW).Post("/creators/{id}/controls", creatorsHandler.ApplyControl)
		})
	})
}
