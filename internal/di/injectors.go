//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"meshagotchi/internal"
	"meshagotchi/internal/ai"
	"meshagotchi/internal/controllers"
	"meshagotchi/internal/game"
	"meshagotchi/internal/providers"
	"meshagotchi/internal/services"
	"meshagotchi/internal/structures"
	"meshagotchi/internal/transport"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,

		wire.FieldsOf(new(*structures.Config), "Game"),

		game.NewZstdCompressor,
		game.NewOpsLock,
		services.NewPetStore,
		game.NewSimulator,
		game.NewChatterRand,
		game.NewNotifier,
		ai.NewOllamaClient,
		game.NewEngine,
		game.NewFileManager,
		transport.NewMeshCliTransport,
		game.NewScheduler,
		controllers.NewHealthController,
		internal.NewApp,
	)

	return nil, nil
}
