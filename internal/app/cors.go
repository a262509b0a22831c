package app

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/mx-space/sitecms/internal/config"
)

// originRule is one parsed allowed_origins entry. An empty scheme matches
// both http and https.
type originRule struct {
	scheme string
	host   string
}

// parseOriginRule accepts "https://cms.example.com", "*.example.org",
// "localhost:*" and "*".
func parseOriginRule(raw string) originRule {
	raw = strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), "/"))
	if scheme, rest, ok := strings.Cut(raw, "://"); ok {
		return originRule{scheme: scheme, host: rest}
	}
	return originRule{host: raw}
}

func (r originRule) allows(scheme, host string) bool {
	if r.scheme != "" && r.scheme != scheme {
		return false
	}
	switch {
	case r.host == "*" || r.host == host:
		return true
	case strings.HasPrefix(r.host, "*."):
		return strings.HasSuffix(host, r.host[1:])
	case strings.HasSuffix(r.host, ":*"):
		return strings.HasPrefix(host, r.host[:len(r.host)-1])
	}
	return false
}

// originMatcher returns the predicate used for the CORS Allow-Origin check.
// Origins that are not absolute http(s) URLs never match.
func originMatcher(patterns []string) func(string) bool {
	rules := make([]originRule, 0, len(patterns))
	for _, p := range patterns {
		if r := parseOriginRule(p); r.host != "" {
			rules = append(rules, r)
		}
	}
	return func(origin string) bool {
		u, err := url.Parse(strings.ToLower(origin))
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return false
		}
		for _, r := range rules {
			if r.allows(u.Scheme, u.Host) {
				return true
			}
		}
		return false
	}
}

// corsConfig allows the configured front-end origins. Development mode, or
// an empty origin list, lets any origin through.
func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || cfg.IsDev() {
		c.AllowOriginFunc = func(string) bool { return true }
		return c
	}
	c.AllowOriginFunc = originMatcher(cfg.AllowedOrigins)
	return c
}
