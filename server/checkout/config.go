package checkout

import (
	"fmt"
	"strings"

	"github.com/clubsphere/clubsphere/internal/xtime"
)

type Config struct {
	// SecretKey authenticates against the checkout provider.
	SecretKey string `toml:"secret_key"`
	// BaseURL is the provider API root. Overridable for tests.
	BaseURL string `toml:"base_url"`
	// SiteURL is the frontend origin the hosted checkout page redirects back to.
	SiteURL string `toml:"site_url"`
	// Currency for all checkout sessions, lowercase ISO code.
	Currency string `toml:"currency"`

	Every      xtime.Duration `toml:"every"`
	Burst      int            `toml:"burst"`
	MaxRetries int            `toml:"max_retries"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n SecretKey: %s\n BaseURL: %s\n SiteURL: %s\n Currency: %s\n Every: %s\n Burst: %d\n MaxRetries: %d",
		strings.Repeat("*", len(c.SecretKey)),
		c.BaseURL,
		c.SiteURL,
		c.Currency,
		c.Every,
		c.Burst,
		c.MaxRetries,
	)
}
