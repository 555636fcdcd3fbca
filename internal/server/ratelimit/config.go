package ratelimit

import "time"

// EndpointConfig overrides the default limit for one route.
type EndpointConfig struct {
	Path   string  // exact path, or a prefix when it ends in "/"
	Method string  // HTTP method
	Rate   float64 // requests per second
	Burst  int     // bucket capacity; defaults to 1
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// DefaultRate and DefaultBurst apply to routes without an EndpointConfig.
	DefaultRate     float64
	DefaultBurst    int
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig limits the search routes to perSecond requests per client with the
// given burst. A non-positive perSecond disables limiting.
func NewConfig(perSecond float64, burst int) *Config {
	if perSecond <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultRate:     perSecond * 10,
		DefaultBurst:    burst * 10,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: SearchEndpointConfigs(perSecond, burst),
	}
}

// SearchEndpointConfigs applies the tighter limit to every route that fans
// out to the job boards.
func SearchEndpointConfigs(perSecond float64, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/recommend", Method: "POST", Rate: perSecond, Burst: burst},
		{Path: "/api/submit-profile", Method: "POST", Rate: perSecond, Burst: burst},
		{Path: "/profile", Method: "POST", Rate: perSecond, Burst: burst},
	}
}
