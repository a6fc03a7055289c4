package capabilities

import (
	"go.uber.org/fx"
)

// Module provides capabilities domain dependencies.
var Module = fx.Module("capabilities",
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
