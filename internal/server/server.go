package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inspirationparticle/utro/internal/auth"
	authdomain "github.com/inspirationparticle/utro/internal/auth/domain"
	"github.com/inspirationparticle/utro/internal/authorization"
	"github.com/inspirationparticle/utro/internal/config"
	"github.com/inspirationparticle/utro/internal/observability"
	obsmiddleware "github.com/inspirationparticle/utro/internal/observability/logger"
	obsmetrics "github.com/inspirationparticle/utro/internal/observability/metrics"
	obstracing "github.com/inspirationparticle/utro/internal/observability/tracing"
	"github.com/inspirationparticle/utro/internal/offer"
	offerdomain "github.com/inspirationparticle/utro/internal/offer/domain"
	"github.com/inspirationparticle/utro/internal/organisation"
	orgdomain "github.com/inspirationparticle/utro/internal/organisation/domain"
	"github.com/inspirationparticle/utro/internal/providers/email"
	"github.com/inspirationparticle/utro/internal/ratelimit"
	"github.com/inspirationparticle/utro/internal/therapist"
	therapistdomain "github.com/inspirationparticle/utro/internal/therapist/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	email.Module,
	organisation.Module,
	therapist.Module,
	offer.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine            *gin.Engine
	cfg               config.Config
	authsvc           authdomain.Service
	authzSvc          authorization.Service
	organisationSvc   orgdomain.Service
	membershipSvc     orgdomain.MembershipService
	invitationSvc     orgdomain.InvitationService
	therapistSvc      therapistdomain.Service
	specializationSvc therapistdomain.SpecializationService
	offerSvc          offerdomain.Service
	loginLimiter      *ratelimit.LoginLimiter
}

type ServerParams struct {
	fx.In

	Gin               *gin.Engine
	Cfg               config.Config
	Authsvc           authdomain.Service
	AuthzSvc          authorization.Service
	OrganisationSvc   orgdomain.Service
	MembershipSvc     orgdomain.MembershipService
	InvitationSvc     orgdomain.InvitationService
	TherapistSvc      therapistdomain.Service
	SpecializationSvc therapistdomain.SpecializationService
	OfferSvc          offerdomain.Service
	LoginLimiter      *ratelimit.LoginLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:            p.Gin,
		cfg:               p.Cfg,
		authsvc:           p.Authsvc,
		authzSvc:          p.AuthzSvc,
		organisationSvc:   p.OrganisationSvc,
		membershipSvc:     p.MembershipSvc,
		invitationSvc:     p.InvitationSvc,
		therapistSvc:      p.TherapistSvc,
		specializationSvc: p.SpecializationSvc,
		offerSvc:          p.OfferSvc,
		loginLimiter:      p.LoginLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerOrganisationRoutes()
	svc.registerTherapistRoutes()
	svc.registerSpecializationRoutes()
	svc.registerOfferRoutes()

	return svc
}
