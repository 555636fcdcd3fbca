package ratelimit

import "strings"

// unlimited marks routes that are never limited.
var unlimited = &EndpointConfig{}

// MatchEndpoint finds the configuration for a request. Exact paths win over
// prefixes; nil means the default applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return unlimited
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
