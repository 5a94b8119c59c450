package bootstrap

import "go.uber.org/fx"

// Module wires the API process.
var Module = fx.Options(
	ConfigModule,
	InfraModule,
	UseCaseModule,
	HTTPModule,
)
