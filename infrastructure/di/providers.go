package di

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"hublens-backend/application/ports"
	"hublens-backend/application/services"
	"hublens-backend/domain/core/valueobjects"
	"hublens-backend/infrastructure/aps"
	"hublens-backend/infrastructure/config"
	"hublens-backend/pkg/auth"
	"hublens-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("hublens")
}

// ProvideAPSClient creates the gateway to Autodesk Platform Services
func ProvideAPSClient(cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) (*aps.Client, error) {
	region, err := valueobjects.NewRegion(cfg.APSRegion)
	if err != nil {
		return nil, err
	}
	return aps.NewClient(aps.DefaultBaseURL, region, logger, metrics), nil
}

// ProvideClock creates the production clock
func ProvideClock() ports.Clock {
	return services.SystemClock{}
}

// ProvidePoller creates the derivative readiness poller
func ProvidePoller(cfg *config.Config, client *aps.Client, clock ports.Clock, logger *zap.Logger, metrics *observability.Collector) *services.Poller {
	return services.NewPoller(client, clock, cfg.PollInterval, cfg.PollMaxAttempts, logger, metrics)
}

// ProvideNavigationService creates the lazy navigation tree service
func ProvideNavigationService(client *aps.Client, logger *zap.Logger) *services.NavigationService {
	return services.NewNavigationService(client, client, logger)
}

// ProvideModelService creates the selection pipeline service
func ProvideModelService(poller *services.Poller, logger *zap.Logger) *services.ModelService {
	return services.NewModelService(poller, logger)
}

// ProvideSessionStore creates the in-memory session registry
func ProvideSessionStore(cfg *config.Config, metrics *observability.Collector) *auth.SessionStore {
	store := auth.NewSessionStore(cfg.SessionTTL)
	if metrics != nil {
		store.OnCountChange(metrics.SetActiveSessions)
	}
	return store
}

// ProvideStateSigner creates the OAuth state signer
func ProvideStateSigner(cfg *config.Config) *auth.StateSigner {
	secret := cfg.StateSecret
	if secret == "" {
		// Development fallback; production requires an explicit secret.
		secret = cfg.APSClientSecret
	}
	return auth.NewStateSigner(secret, "hublens-backend")
}

// ProvideOAuthConfig creates the three-legged OAuth configuration
func ProvideOAuthConfig(cfg *config.Config) *oauth2.Config {
	return aps.NewOAuthConfig(cfg.APSClientID, cfg.APSClientSecret, cfg.APSCallbackURL)
}

// ProvidePublicTokenConfig creates the two-legged OAuth configuration
func ProvidePublicTokenConfig(cfg *config.Config) *clientcredentials.Config {
	return aps.NewPublicTokenConfig(cfg.APSClientID, cfg.APSClientSecret)
}
