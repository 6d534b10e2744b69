package therapist

import (
	"github.com/inspirationparticle/utro/internal/therapist/repository"
	"github.com/inspirationparticle/utro/internal/therapist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("therapist.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(repository.NewSpecializationRepository),
	fx.Provide(service.NewService),
	fx.Provide(service.NewSpecializationService),
)
