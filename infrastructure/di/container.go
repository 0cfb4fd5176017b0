package di

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"hublens-backend/application/services"
	"hublens-backend/infrastructure/aps"
	"hublens-backend/infrastructure/config"
	"hublens-backend/pkg/auth"
	"hublens-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *zap.Logger
	Metrics           *observability.Collector
	APSClient         *aps.Client
	Poller            *services.Poller
	NavigationService *services.NavigationService
	ModelService      *services.ModelService
	SessionStore      *auth.SessionStore
	StateSigner       *auth.StateSigner
	OAuthConfig       *oauth2.Config
	PublicTokenConfig *clientcredentials.Config
}

// InitializeContainer creates a fully wired container. Kept in lockstep
// with the wire provider set in wire.go.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	metrics := ProvideMetrics(cfg)

	apsClient, err := ProvideAPSClient(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	clock := ProvideClock()
	poller := ProvidePoller(cfg, apsClient, clock, logger, metrics)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Metrics:           metrics,
		APSClient:         apsClient,
		Poller:            poller,
		NavigationService: ProvideNavigationService(apsClient, logger),
		ModelService:      ProvideModelService(poller, logger),
		SessionStore:      ProvideSessionStore(cfg, metrics),
		StateSigner:       ProvideStateSigner(cfg),
		OAuthConfig:       ProvideOAuthConfig(cfg),
		PublicTokenConfig: ProvidePublicTokenConfig(cfg),
	}, nil
}

// Close releases container-owned resources
func (c *Container) Close() {
	if c.SessionStore != nil {
		c.SessionStore.Close()
	}
}
