package offer

import (
	"github.com/inspirationparticle/utro/internal/offer/repository"
	"github.com/inspirationparticle/utro/internal/offer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("offer.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
