package relationships

import (
	"go.uber.org/fx"

	"github.com/strata-studio/strata/domain/objects"
)

// Module provides relationships domain dependencies. The service feeds
// relationship counts into the object lake; the wiring runs as an invoke
// so neither package constructs the other.
var Module = fx.Module("relationships",
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(func(objectsSvc *objects.Service, svc *Service) {
		objectsSvc.SetRelationshipSource(svc)
	}),
)
