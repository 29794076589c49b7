package cache

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the cache settings that can come from the environment.
type Config struct {
	TTL             time.Duration `env:"LEXICON_CACHE_TTL" envDefault:"5m"`
	MaxEntries      int           `env:"LEXICON_CACHE_MAX_ENTRIES" envDefault:"1024"`
	CleanupInterval time.Duration `env:"LEXICON_CACHE_CLEANUP_INTERVAL" envDefault:"1m"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

// Options converts cfg to provider options.
func (cfg Config) Options() []Option {
	return []Option{
		WithTTL(cfg.TTL),
		WithMaxEntries(cfg.MaxEntries),
		WithCleanupInterval(cfg.CleanupInterval),
	}
}
