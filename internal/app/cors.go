package app

import (
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"

	"github.com/feedfolio/core/internal/config"
)

// corsConfig builds the CORS policy. Development (or an empty origin list)
// allows everything; production checks each origin host against the
// configured patterns.
func corsConfig(cfg *config.AppConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "x-feedfolio-cache"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) == 0 || cfg.IsDev() {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
		return corsCfg
	}

	patterns := cfg.AllowedOrigins
	corsCfg.AllowOriginFunc = func(origin string) bool {
		host := originHost(origin)
		for _, pattern := range patterns {
			if originMatches(pattern, host) {
				return true
			}
		}
		return false
	}
	return corsCfg
}

// originHost strips the scheme from an origin, leaving "host[:port]".
func originHost(origin string) string {
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		return u.Host
	}
	return origin
}

// originMatches reports whether host satisfies pattern. A leading "*."
// matches any subdomain of the remainder; a trailing ":*" matches any port.
func originMatches(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	default:
		return false
	}
}
