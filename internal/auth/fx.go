package auth

import (
	"github.com/inspirationparticle/utro/internal/auth/repository"
	"github.com/inspirationparticle/utro/internal/auth/service"
	"github.com/inspirationparticle/utro/internal/auth/token"
	"github.com/inspirationparticle/utro/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(newTokenManager),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)

func newTokenManager(cfg config.Config) *token.Manager {
	return token.NewManager(cfg.AuthJWTSecret, cfg.AuthTokenTTL)
}
