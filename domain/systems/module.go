package systems

import (
	"go.uber.org/fx"
)

// Module provides systems domain dependencies.
var Module = fx.Module("systems",
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
