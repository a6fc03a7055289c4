package models

import (
	"go.uber.org/fx"
)

// Module provides models domain dependencies.
var Module = fx.Module("models",
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
