// Package vocab supplies the product and employee vocabularies used for
// fuzzy field matching.
package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Provider supplies matching vocabularies. Implementations degrade to
// empty lists on failure; parsing works without vocabularies, it just
// matches fewer fields.
type Provider interface {
	Products(ctx context.Context) []string
	Employees(ctx context.Context) []string
}

// StaticProvider serves fixed vocabularies.
type StaticProvider struct {
	ProductNames  []string
	EmployeeNames []string
}

// Products implements Provider.
func (s StaticProvider) Products(context.Context) []string { return s.ProductNames }

// Employees implements Provider.
func (s StaticProvider) Employees(context.Context) []string { return s.EmployeeNames }

// Config holds remote vocabulary settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns vocabulary defaults (no remote source).
func DefaultConfig() Config {
	return Config{Timeout: 10 * time.Second}
}

// HTTPProvider fetches vocabularies from the management backend, which
// serves JSON arrays of objects carrying a "name" field.
type HTTPProvider struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewHTTPProvider creates a provider backed by the management backend.
func NewHTTPProvider(cfg Config, logger *slog.Logger) *HTTPProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "vocab"),
	}
}

// Products implements Provider.
func (p *HTTPProvider) Products(ctx context.Context) []string {
	return p.fetchNames(ctx, "/products")
}

// Employees implements Provider.
func (p *HTTPProvider) Employees(ctx context.Context) []string {
	return p.fetchNames(ctx, "/employees")
}

func (p *HTTPProvider) fetchNames(ctx context.Context, path string) []string {
	names, err := p.get(ctx, path)
	if err != nil {
		p.logger.Warn("vocabulary fetch failed", "path", path, "error", err)
		return nil
	}
	return names
}

func (p *HTTPProvider) get(ctx context.Context, path string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build vocabulary request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vocabulary request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vocabulary endpoint returned status %d", resp.StatusCode)
	}

	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary response: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// NewFromConfig returns an HTTP provider when a base URL is configured and
// an empty static provider otherwise.
func NewFromConfig(cfg Config, logger *slog.Logger) Provider {
	if cfg.BaseURL == "" {
		return StaticProvider{}
	}
	return NewHTTPProvider(cfg, logger)
}
