package config

import "sync/atomic"

// Provider holds the active configuration. Any goroutine may read it; only a
// Manager replaces it, and the Manager is driven from the apply thread.
// Each read observes one complete Config, either the old or the new one.
type Provider struct {
	current atomic.Pointer[Config]
}

// NewProvider returns a Provider holding Defaults().
func NewProvider() *Provider {
	p := &Provider{}
	p.current.Store(Defaults())
	return p
}

// Current returns the active configuration. Callers must treat it as read-only.
func (p *Provider) Current() *Config {
	return p.current.Load()
}

// replace swaps in cfg and returns the configuration it replaced.
func (p *Provider) replace(cfg *Config) *Config {
	return p.current.Swap(cfg)
}
