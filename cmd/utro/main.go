package main

import (
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/config"
	"github.com/inspirationparticle/utro/internal/migration"
	"github.com/inspirationparticle/utro/internal/observability"
	"github.com/inspirationparticle/utro/internal/server"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
		clock.Module,
		fx.Provide(uuidv7.New),
		server.Module,
	).Run()
}
