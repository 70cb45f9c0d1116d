package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/gymdesk_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/auth"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/member"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/receipt"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/settlement"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/user"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/gymdesk_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg           *config.Config
	Auth          authorize.IAuthorization
	PasetoMgr     *pasetotoken.Manager
	AuthSvc       auth.Service
	UserSvc       user.Service
	StaffSvc      staff.Service
	MemberSvc     member.Service
	ReceiptSvc    receipt.Service
	CommissionSvc commission.Service
	SettlementSvc settlement.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

type permFunc func(authorize.Resource, authorize.Action) fiber.Handler

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.AuthSvc)
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, handler.NewAuthHandler(r.p.AuthSvc), authRequired)
	r.registerUserRoutes(api, handler.NewUserHandler(r.p.UserSvc), authRequired, requirePerm)
	r.registerStaffRoutes(api, handler.NewStaffHandler(r.p.StaffSvc), authRequired, requirePerm)
	r.registerMemberRoutes(api, handler.NewMemberHandler(r.p.MemberSvc), authRequired, requirePerm)
	r.registerReceiptRoutes(api, handler.NewReceiptHandler(r.p.ReceiptSvc), authRequired, requirePerm)
	r.registerCommissionRoutes(api, handler.NewCommissionHandler(r.p.CommissionSvc), authRequired, requirePerm)
	r.registerSettlementRoutes(api, handler.NewSettlementHandler(r.p.SettlementSvc), authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
