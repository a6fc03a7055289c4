package objects

import (
	"go.uber.org/fx"

	"github.com/strata-studio/strata/domain/models"
)

// Module provides objects domain dependencies. The service doubles as the
// models domain's template seeder; the wiring runs as an invoke so neither
// package constructs the other.
var Module = fx.Module("objects",
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(func(modelsSvc *models.Service, svc *Service) {
		modelsSvc.SetTemplateSeeder(svc)
	}),
)
