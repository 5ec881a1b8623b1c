package fx

import (
	"lol-denylist/internal/config"
	"lol-denylist/internal/database"
	"lol-denylist/internal/denylist"
	"lol-denylist/internal/identitycache"
	"lol-denylist/internal/logger"
	"lol-denylist/internal/repository"
	"lol-denylist/internal/riot"
	"lol-denylist/internal/server"
	"lol-denylist/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func provideIdentityCache(cfg *config.Config, log zerolog.Logger) *identitycache.Cache {
	return identitycache.New(cfg.PuuidCachePath, log)
}

func provideDenylist(cfg *config.Config, log zerolog.Logger) (*denylist.Store, error) {
	return denylist.Open(cfg.DenylistPath, log)
}

func provideSettings(cfg *config.Config) *config.Settings {
	return config.NewSettings(cfg.SettingsPath)
}

var Module = fx.Options(
	logger.Module,
	fx.Provide(config.Load),
	fx.Provide(provideSettings),
	fx.Provide(database.New),
	// stores
	fx.Provide(provideIdentityCache),
	fx.Provide(provideDenylist),
	fx.Provide(repository.NewMatchRepository),
	// api client
	fx.Provide(riot.NewClient),
	// svc
	fx.Provide(service.NewIdentityService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewManager),
	// server
	fx.Provide(server.New),
)
