package historyx

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RouteHandler receives each committed fragment; its result is propagated
// back as the navigation's result.
type RouteHandler func(fragment string) bool

// Options configure activation. The zero value means: root "/", no
// push-state, hash fallback on, non-silent, no route handler.
type Options struct {
	// Root is the app's mount point. Normalized to carry a leading and a
	// trailing slash; defaults to "/".
	Root string `yaml:"root"`
	// PushState requests path-based navigation. It only takes effect when
	// the platform's history store supports it.
	PushState bool `yaml:"pushState"`
	// DisableHashChange opts out of the "#fragment" fallback. With both
	// mechanisms off, navigation degrades to full page loads.
	DisableHashChange bool `yaml:"disableHashChange"`
	// Silent skips the initial route dispatch after activation.
	Silent bool `yaml:"silent"`
	// RouteHandler handles committed fragments. Not loadable from YAML.
	RouteHandler RouteHandler `yaml:"-"`
}

// LoadOptions reads activation options from a YAML file. The route handler
// is code, not configuration, and must be set by the caller afterwards.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read %s: %w", path, err)
	}
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return opts, nil
}

// Option applies construction-time configuration to an Engine via the
// functional options pattern.
type Option func(*Engine)

// WithAnnouncer wires the publish channel navigation announcements go out
// on.
func WithAnnouncer(a Announcer) Option {
	return func(e *Engine) {
		e.announcer = a
	}
}

// WithLogger replaces the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NavOptions is the per-call navigation request. Transient, never persisted.
type NavOptions struct {
	// Trigger dispatches the route handler after committing. Defaults to
	// true.
	Trigger bool `json:"trigger" yaml:"trigger"`
	// Replace rewrites the current history entry instead of pushing a new
	// one.
	Replace bool `json:"replace" yaml:"replace"`
}

// NavOption tweaks a single Navigate call.
type NavOption func(*NavOptions)

// WithReplace replaces the current history entry instead of pushing one.
func WithReplace() NavOption {
	return func(o *NavOptions) {
		o.Replace = true
	}
}

// WithoutTrigger commits the fragment and native state without dispatching
// the route handler.
func WithoutTrigger() NavOption {
	return func(o *NavOptions) {
		o.Trigger = false
	}
}
