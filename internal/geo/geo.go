// Package geo resolves client IP addresses to a coarse human-readable
// location for audit records. Lookups go to a free external service, so
// results are cached, the call is bounded by a short timeout, and every
// failure degrades to "no location" instead of an error.
package geo

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/storage/memory"
	"github.com/rs/zerolog/log"

	"github.com/leadengine/leadengine/internal/config"
)

// defaultEndpoint is the lookup service. Free tier, no key, 45 req/min.
const defaultEndpoint = "http://ip-api.com/json"

type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// Resolver caches IP-to-location lookups with a TTL. The zero value is
// not usable; construct with NewResolver.
type Resolver struct {
	endpoint string
	client   *http.Client
	cache    *memory.Storage
	ttl      time.Duration
}

// NewResolver builds a Resolver from the geo configuration. Returns nil
// when lookups are disabled; a nil *Resolver is safe to pass around and
// resolves nothing.
func NewResolver(cfg config.Geo) *Resolver {
	if !cfg.Enabled {
		return nil
	}

	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &Resolver{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: cfg.Timeout},
		cache:    memory.New(memory.Config{GCInterval: 10 * time.Minute}),
		ttl:      cfg.CacheTTL,
	}
}

// Locate resolves an IP address to "City, Country" (or just "Country").
// Nil means no location: disabled resolver, non-routable address, cache
// miss with a failed lookup, or an unparseable answer. Locate never
// returns an error; audit records are written with or without it.
func (r *Resolver) Locate(ip string) *string {
	if r == nil || ip == "" {
		return nil
	}

	if !routable(ip) {
		return nil
	}

	if cached, err := r.cache.Get(ip); err == nil && len(cached) > 0 {
		location := string(cached)

		return &location
	}

	location := r.fetch(ip)
	if location == "" {
		return nil
	}

	if err := r.cache.Set(ip, []byte(location), r.ttl); err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("failed to cache location")
	}

	return &location
}

func (r *Resolver) fetch(ip string) string {
	url := fmt.Sprintf("%s/%s?fields=status,country,countryCode,region,city", r.endpoint, ip)

	resp, err := r.client.Get(url)
	if err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("location lookup failed")

		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ""
	}

	if parsed.Status != "success" {
		return ""
	}

	parts := make([]string, 0, 2)
	if parsed.City != "" {
		parts = append(parts, parsed.City)
	}
	if parsed.Country != "" {
		parts = append(parts, parsed.Country)
	}

	return strings.Join(parts, ", ")
}

// routable reports whether an address is worth a lookup. Loopback,
// private-range and link-local addresses have no public location.
func routable(raw string) bool {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return false
	}

	return !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsLinkLocalUnicast() && !ip.IsUnspecified()
}
