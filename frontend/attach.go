package frontend

import (
	"fmt"

	"github.com/keymash/dropfilter/filter"
	"github.com/keymash/dropfilter/store"
	"go.uber.org/zap"
)

// Attachment is a set of installed hooks and the registers they read.
type Attachment struct {
	logger *zap.SugaredLogger
	hooks  []*filter.Hook
	byName map[string]*filter.Hook
}

// Attach resolves every configured hook's register and installs the
// hooks. The first store that fails to resolve aborts the whole
// attachment, reporting which hook and which store failed; nothing is
// left half-installed, and no hook is ever installed with a guessed
// policy.
func Attach(logger *zap.SugaredLogger, resolver *store.Resolver, cfg *Config, src filter.RandSource) (*Attachment, error) {
	a := &Attachment{
		logger: logger,
		byName: make(map[string]*filter.Hook),
	}

	for _, hc := range cfg.Hooks {
		reg, err := resolver.Resolve(hc.Store, hc.Scope)
		if err != nil {
			return nil, fmt.Errorf("failed to attach hook %q: store %q: %w", hc.Name, hc.Store, err)
		}

		h, err := filter.NewHook(logger, hc.Name, reg, hc.Fallback, src)
		if err != nil {
			return nil, fmt.Errorf("failed to attach hook %q: %w", hc.Name, err)
		}

		a.hooks = append(a.hooks, h)
		a.byName[hc.Name] = h
	}

	return a, nil
}

// Hook returns the installed hook with the given name.
func (a *Attachment) Hook(name string) (*filter.Hook, bool) {
	h, ok := a.byName[name]

	return h, ok
}

// Hooks returns every installed hook in configuration order.
func (a *Attachment) Hooks() []*filter.Hook {
	return a.hooks
}

// LogStats writes each hook's counters to the attachment's logger.
func (a *Attachment) LogStats() {
	for _, h := range a.hooks {
		s := h.ReadStats()

		a.logger.Infow("hook stats",
			"hook", h.Name(),
			"seen", s.Seen,
			"passed", s.Passed,
			"dropped", s.Dropped,
			"fallback_reads", s.FallbackHits,
			"rand_failures", s.RandFailures,
		)
	}
}
