package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for requests that never consume tokens.
var unlimited = EndpointConfig{Limit: 0}

// MatchEndpoint returns the configuration for method and path, or nil to use the
// default limit. Health checks and CORS preflights are unlimited. Exact paths win
// over prefix paths.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (path == "/health" && method == http.MethodGet) {
		match := unlimited
		return &match
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
