// Package config holds the tunable constants of the trust pipeline.
// Every threshold, weight, and allowlist lives here so the decision logic
// stays free of scattered magic numbers. Defaults match the values the
// product shipped with; a YAML file can override them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Thresholds are the gating values for the consistency checks.
type Thresholds struct {
	// TitleDescription is the minimum title/description overlap.
	TitleDescription float64 `yaml:"title_description"`
	// CaptureForm gates capture-vs-form overlap when capture text is sufficient.
	CaptureForm float64 `yaml:"capture_form"`
	// CombinedForm gates the combined-text fallback when capture is absent or thin.
	CombinedForm float64 `yaml:"combined_form"`
	// CategoryRatio and CategoryHits gate category alignment (either passes).
	CategoryRatio float64 `yaml:"category_ratio"`
	CategoryHits  int     `yaml:"category_hits"`
	// CaptureMinChars is the cleaned-length floor for treating capture text
	// as a hard signal.
	CaptureMinChars int `yaml:"capture_min_chars"`
}

// Weights blend the individual signals into the consistency score.
// They sum to 1.0; the score is clamped to [0,1] regardless.
type Weights struct {
	TitleDescription float64 `yaml:"title_description"`
	CoreSimilarity   float64 `yaml:"core_similarity"`
	Category         float64 `yaml:"category"`
	ModelAssist      float64 `yaml:"model_assist"`
}

// AssistConfig configures the model-assist capability provider.
type AssistConfig struct {
	Provider string `yaml:"provider"` // gemini, openai, none
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	// Timeout bounds each Ask/Summarize call, in seconds. A timed-out call
	// is treated the same as a failed one: no signal.
	Timeout int `yaml:"timeout"`
}

// TimeoutDuration returns the per-call bound, defaulting when unset.
func (a AssistConfig) TimeoutDuration() time.Duration {
	if a.Timeout <= 0 {
		return 20 * time.Second
	}
	return time.Duration(a.Timeout) * time.Second
}

// Config is the full pipeline configuration.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds"`
	Weights    Weights    `yaml:"weights"`

	// AmountTolerance is the relative tolerance for the goal-amount
	// cross-check (0.25 = amounts within 25% are considered equal).
	AmountTolerance float64 `yaml:"amount_tolerance"`

	// AllowHosts is the donation-platform allowlist. Matching is exact
	// against the URL host, so apex and www forms are listed separately.
	AllowHosts []string `yaml:"allow_hosts"`
	// NGOHosts is the curated non-profit subset of AllowHosts; a link on
	// one of these earns the NGO-Verified tier.
	NGOHosts []string `yaml:"ngo_hosts"`

	// CueWords can override a failing similarity gate when one appears on
	// both sides of a comparison. Product owners know this is a generous
	// escape hatch; do not tighten it silently.
	CueWords []string `yaml:"cue_words"`

	Assist AssistConfig `yaml:"assist"`
}

// Default returns the shipped configuration.
func Default() *Config {
	return &Config{
		Thresholds: Thresholds{
			TitleDescription: 0.50,
			CaptureForm:      0.55,
			CombinedForm:     0.60,
			CategoryRatio:    0.35,
			CategoryHits:     2,
			CaptureMinChars:  40,
		},
		Weights: Weights{
			TitleDescription: 0.15,
			CoreSimilarity:   0.45,
			Category:         0.20,
			ModelAssist:      0.20,
		},
		AmountTolerance: 0.25,
		AllowHosts: []string{
			"gofundme.com", "www.gofundme.com",
			"justgiving.com", "www.justgiving.com",
			"give.asia", "www.give.asia",
			"giving.sg", "www.giving.sg",
			"globalgiving.org", "www.globalgiving.org",
		},
		NGOHosts: []string{
			"globalgiving.org", "www.globalgiving.org",
			"giving.sg", "www.giving.sg",
		},
		CueWords: []string{
			"surgery", "emergency", "help", "gofundme", "donate",
			"fundraiser", "vet", "medical", "pyometra",
		},
		Assist: AssistConfig{
			Provider: "none",
			Timeout:  20,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills the assist API key from the environment when the file
// didn't set one. Env vars win only for secrets.
func (c *Config) applyEnv() {
	if c.Assist.APIKey != "" {
		return
	}
	switch c.Assist.Provider {
	case "gemini":
		c.Assist.APIKey = os.Getenv("GEMINI_API_KEY")
	case "openai":
		c.Assist.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// HostAllowed reports whether host is on the donation-platform allowlist.
func (c *Config) HostAllowed(host string) bool {
	for _, h := range c.AllowHosts {
		if h == host {
			return true
		}
	}
	return false
}

// HostNGO reports whether host is in the curated non-profit subset.
func (c *Config) HostNGO(host string) bool {
	for _, h := range c.NGOHosts {
		if h == host {
			return true
		}
	}
	return false
}
