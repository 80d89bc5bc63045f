package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/auction-appraiser/internal/analysis"
)

// SiteForURL returns the key and profile of the site whose domain matches the URL host.
func (c *Config) SiteForURL(rawURL string) (string, Site, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", Site{}, fmt.Errorf("invalid auction URL: %s", rawURL)
	}
	host := strings.ToLower(parsed.Hostname())

	// Sorted keys keep lookups deterministic when domains nest
	keys := make([]string, 0, len(c.Sites))
	for key := range c.Sites {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		site := c.Sites[key]
		domain := strings.ToLower(site.Domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return key, site, nil
		}
	}

	return "", Site{}, fmt.Errorf("URL does not match a known auction site: %s", rawURL)
}

// Site returns the profile registered under key.
func (c *Config) Site(key string) (Site, error) {
	site, ok := c.Sites[key]
	if !ok {
		known := make([]string, 0, len(c.Sites))
		for k := range c.Sites {
			known = append(known, k)
		}
		sort.Strings(known)
		return Site{}, fmt.Errorf("unknown site %q (known: %s)", key, strings.Join(known, ", "))
	}
	return site, nil
}

// AnalysisConfig converts the file settings into the value the orchestrator runs with.
func (c *Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		Models:     append([]string(nil), c.Models...),
		MaxRetries: c.MaxRetries,
		RetryDelay: seconds(c.RetryDelaySeconds),
		BatchSize:  c.BatchSize,
		BatchDelay: seconds(c.BatchDelaySeconds),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
