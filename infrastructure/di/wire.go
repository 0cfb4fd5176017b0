//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideAPSClient,
	ProvideClock,
	ProvidePoller,
	ProvideNavigationService,
	ProvideModelService,
	ProvideSessionStore,
	ProvideStateSigner,
	ProvideOAuthConfig,
	ProvidePublicTokenConfig,
	wire.Struct(new(Container), "*"),
)
