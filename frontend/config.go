package frontend

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/keymash/dropfilter/filter"
	"github.com/keymash/dropfilter/store"
)

var ErrInvalidConfig = errors.New("invalid hook configuration")

// HookConfig describes one hook attachment: its entry-point name, the
// threshold store it reads, the store's sharing scope, and the fallback
// threshold applied while the store is unset.
type HookConfig struct {
	Name     string
	Store    string
	Scope    store.Scope
	Fallback uint32
}

// Config is a validated set of hook attachments.
type Config struct {
	Hooks []*HookConfig
}

type hookTOML struct {
	Name            string   `toml:"name"`
	Store           string   `toml:"store"`
	Scope           string   `toml:"scope"`
	Fallback        *uint32  `toml:"fallback"`
	FallbackPercent *float64 `toml:"fallback-percent"`
}

type configTOML struct {
	Hooks []hookTOML `toml:"hooks"`
}

// ParseTOMLConfig reads and validates a hook configuration file.
//
// Every hook must carry exactly one of fallback (a raw u32 numerator
// out of 2^32) or fallback-percent. There is no implicit default: which
// policy applies while a store is unset is a per-deployment decision.
func ParseTOMLConfig(filepath string) (*Config, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var parsed configTOML

	if _, err := toml.NewDecoder(file).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if len(parsed.Hooks) == 0 {
		return nil, fmt.Errorf("%w: no hooks configured", ErrInvalidConfig)
	}

	cfg := &Config{}

	for i, h := range parsed.Hooks {
		hc, err := validateHook(&h)
		if err != nil {
			return nil, fmt.Errorf("hook %d: %w", i, err)
		}

		cfg.Hooks = append(cfg.Hooks, hc)
	}

	return cfg, nil
}

func validateHook(h *hookTOML) (*HookConfig, error) {
	if h.Name == "" {
		return nil, fmt.Errorf("%w: hook name is required", ErrInvalidConfig)
	}

	if h.Store == "" {
		return nil, fmt.Errorf("%w: hook %q names no store", ErrInvalidConfig, h.Name)
	}

	scope, err := store.ParseScope(h.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: hook %q scope %q: %w", ErrInvalidConfig, h.Name, h.Scope, err)
	}

	if (h.Fallback == nil) == (h.FallbackPercent == nil) {
		return nil, fmt.Errorf(
			"%w: hook %q must set exactly one of fallback and fallback-percent",
			ErrInvalidConfig, h.Name,
		)
	}

	fallback := uint32(0)

	if h.Fallback != nil {
		fallback = *h.Fallback
	} else {
		fallback, err = filter.ThresholdFromPercent(*h.FallbackPercent)
		if err != nil {
			return nil, fmt.Errorf("%w: hook %q: %w", ErrInvalidConfig, h.Name, err)
		}
	}

	return &HookConfig{
		Name:     h.Name,
		Store:    h.Store,
		Scope:    scope,
		Fallback: fallback,
	}, nil
}
