package taxonomy

import (
	"go.uber.org/fx"
)

// Module provides taxonomy domain dependencies.
var Module = fx.Module("taxonomy",
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
