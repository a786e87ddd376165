package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marisolvega/skinroutine-backend/api/controllers"
	"github.com/marisolvega/skinroutine-backend/api/middleware"
	"github.com/marisolvega/skinroutine-backend/internal/auth"
	"github.com/marisolvega/skinroutine-backend/internal/steps"
	"github.com/marisolvega/skinroutine-backend/internal/users"
	"github.com/marisolvega/skinroutine-backend/pkg/auth/session"
	"github.com/marisolvega/skinroutine-backend/pkg/config"
	"github.com/marisolvega/skinroutine-backend/pkg/db"
	"github.com/marisolvega/skinroutine-backend/pkg/logger"
	"github.com/marisolvega/skinroutine-backend/pkg/metrics"
	redisclient "github.com/marisolvega/skinroutine-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisPinger     db.Pinger
	RateLimiter     *redisclient.Client
	SessionChecker  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer

	AuthService     auth.Service
	RegisterService auth.RegisterService
	UsersService    users.Service
	StepsService    steps.Service
}

// NewRouter assembles the chi router with the full middleware chain.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Logging(logg, p.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore(p.RateLimiter), logg)).
			Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, limiterStore(p.RateLimiter), logg)).
			Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Get("/", controllers.UsersList(p.UsersService, logg))

		r.Route("/{username}", func(r chi.Router) {
			r.Use(middleware.RequireSelf(logg))

			r.Get("/", controllers.UserDetail(p.UsersService, logg))
			r.Patch("/", controllers.UserUpdate(p.UsersService, logg))
			r.Delete("/", controllers.UserDelete(p.UsersService, logg))

			r.Route("/steps", func(r chi.Router) {
				r.Get("/", controllers.StepRoutineView(p.StepsService, logg))
				r.Post("/", controllers.StepCreate(p.StepsService, logg))

				r.Route("/{stepID}", func(r chi.Router) {
					r.Get("/", controllers.StepDetail(p.StepsService, logg))
					r.Patch("/", controllers.StepUpdate(p.StepsService, logg))
					r.Delete("/", controllers.StepDelete(p.StepsService, logg))
				})
			})
		})
	})

	return r
}

// limiterStore avoids handing a typed nil pointer to the rate limiter.
func limiterStore(client *redisclient.Client) middleware.RateLimiterStore {
	if client == nil {
		return nil
	}
	return client
}
