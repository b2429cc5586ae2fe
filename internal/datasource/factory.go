package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-odds/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// APISportsSourceType reads fixtures from the API-Sports football API
	APISportsSourceType SourceType = "api_sports"
	// CSVSourceType reads fixtures from a local file
	CSVSourceType SourceType = "csv"
)

// Factory creates MatchSupplier implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config config.DataSourceConfig
}

// NewFactory creates a new data source factory
func NewFactory(cfg config.DataSourceConfig, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// Create builds the configured supplier wrapped in a cache
func (f *Factory) Create() (*CachedSupplier, error) {
	supplier, err := f.NewSupplier(SourceType(f.config.Type))
	if err != nil {
		return nil, err
	}
	return NewCachedSupplier(supplier, f.config.CacheTTL(), f.config.CacheMaxSize, f.logger), nil
}

// NewSupplier builds an uncached supplier of the given type
func (f *Factory) NewSupplier(sourceType SourceType) (MatchSupplier, error) {
	switch sourceType {
	case APISportsSourceType:
		apiCfg := f.config.APISports
		if apiCfg.APIKey == "" {
			return nil, fmt.Errorf("API-Sports API key is required")
		}

		httpCfg := DefaultHTTPClientConfig()
		if apiCfg.TimeoutSeconds > 0 {
			httpCfg.Timeout = apiCfg.Timeout()
		}
		if apiCfg.RateLimit > 0 {
			httpCfg.RateLimit = float64(apiCfg.RateLimit)
		}
		httpCfg.MaxRetries = apiCfg.MaxRetries

		return NewAPISportsClient(NewRateLimitedHTTPClient(httpCfg, f.logger), APISportsOptions{
			BaseURL:     apiCfg.BaseURL,
			APIKey:      apiCfg.APIKey,
			LeagueID:    apiCfg.LeagueID,
			Season:      apiCfg.Season,
			LastMatches: apiCfg.LastMatches,
		}, f.logger), nil

	case CSVSourceType:
		return NewCSVSupplier(f.config.CSV.MatchesPath, f.config.CSV.Separator, f.logger)

	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}
