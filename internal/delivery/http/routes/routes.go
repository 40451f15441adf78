package routes

import (
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/usecase"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	JWT      jwt.Service
	Store    handler.Pinger
	Cache    handler.Pinger
	Recs     usecase.RecommendationUsecase
	Feedback usecase.FeedbackUsecase
	Admin    usecase.MatchingAdminUsecase
	Hub      *ws.Hub
}

type Registry struct {
	auth   *middleware.AuthMiddleware
	health *handler.HealthHandler
	recs   *handler.RecommendationHandler
	admin  *handler.AdminMatchingHandler
	users  *handler.AdminUserHandler
	ws     *ws.Handler
}

func NewRegistry(d Deps) *Registry {
	return &Registry{
		auth:   middleware.NewAuthMiddleware(d.JWT),
		health: handler.NewHealthHandler(d.Store, d.Cache),
		recs:   handler.NewRecommendationHandler(d.Recs, d.Feedback),
		admin:  handler.NewAdminMatchingHandler(d.Admin),
		users:  handler.NewAdminUserHandler(d.Recs, d.Feedback),
		ws:     ws.NewHandler(d.Hub),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.ws.RegisterRoutes(app, r.auth.QueryTokenMiddleware())
	r.registerAPI(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api/v1", r.auth.Middleware())
	r.recs.RegisterRoutes(v1)

	admin := v1.Group("/admin", middleware.RequireRole(jwt.RoleAdmin))
	r.admin.RegisterRoutes(admin)
	r.users.RegisterRoutes(admin)
}
