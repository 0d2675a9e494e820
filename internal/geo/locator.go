// Package geo turns a client IP into a coarse Indian region label used as a
// prompt hint.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const maxCachedIPs = 1024

// Config configures the lookup endpoint.
type Config struct {
	APIURL        string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Locator resolves and caches region labels per client IP.
type Locator struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group

	mu    sync.Mutex
	cache map[string]string
}

// NewLocator creates a Locator. With no APIURL every label is DefaultLabel.
func NewLocator(cfg Config) *Locator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Locator{
		apiURL:     strings.TrimSpace(cfg.APIURL),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		cache:      make(map[string]string),
	}
}

// Label returns the region label for ip. It never fails: any lookup problem
// yields DefaultLabel.
func (l *Locator) Label(ctx context.Context, ip string) string {
	ip = firstAddress(ip)
	if l == nil || l.apiURL == "" || ip == "" {
		return DefaultLabel
	}
	if label, ok := l.cached(ip); ok {
		return label
	}

	v, err, _ := l.group.Do(ip, func() (interface{}, error) {
		label, err := l.lookup(ctx, ip)
		if err != nil {
			return "", err
		}
		l.store(ip, label)
		return label, nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("geo lookup failed; using default label")
		return DefaultLabel
	}
	return v.(string)
}

func (l *Locator) lookup(ctx context.Context, ip string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(l.apiURL)
	if err != nil {
		return "", fmt.Errorf("parse geo api url: %w", err)
	}
	q := u.Query()
	q.Set("ip", ip)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if l.apiKey != "" {
		req.Header.Set("X-API-Key", l.apiKey)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A definite answer from the provider; remember the default.
		return DefaultLabel, nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = string(body)
	}
	return FormatLabel(ParsePayload(payload)), nil
}

func (l *Locator) cached(ip string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	label, ok := l.cache[ip]
	return label, ok
}

func (l *Locator) store(ip, label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.cache) >= maxCachedIPs {
		l.cache = make(map[string]string)
	}
	l.cache[ip] = label
}

func firstAddress(ip string) string {
	if i := strings.IndexByte(ip, ','); i >= 0 {
		ip = ip[:i]
	}
	return strings.TrimSpace(ip)
}
