// Package historyx unifies path-based and hash-based browser history behind
// one logical "current location" (the fragment) and intercepts in-page link
// clicks so they route through it instead of causing full page loads.
//
// The engine is platform-agnostic: callers inject the native location,
// history store, document and window event surfaces (see Platform). Package
// memdom ships an in-memory browser implementing all of them.
package historyx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Engine owns the committed fragment, the active history mode, and the
// algorithms for activating, normalizing URLs, and performing navigations.
//
// All operations run to completion on the calling goroutine; the platform
// delivers URL-change and click events one at a time, so the engine needs no
// locking beyond the activation flag. The fragment is always committed
// before the route handler observes it.
type Engine struct {
	p Platform

	log       *zap.Logger
	announcer Announcer

	active atomic.Bool

	// Fixed at activation.
	root      string
	wantsHash bool
	hasPush   bool
	mode      Mode
	handler   RouteHandler

	fragment string

	interceptor *LinkInterceptor
}

// New builds an inactive engine over the given platform surfaces.
func New(p Platform, opts ...Option) (*Engine, error) {
	switch {
	case p.Location == nil:
		return nil, fmt.Errorf("location: %w", ErrMissingSurface)
	case p.History == nil:
		return nil, fmt.Errorf("history: %w", ErrMissingSurface)
	case p.Window == nil:
		return nil, fmt.Errorf("window: %w", ErrMissingSurface)
	}
	e := &Engine{
		p:   p,
		log: zap.NewNop(),
	}
	e.interceptor = newLinkInterceptor(p.Window, e)
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ActivateResult reports how activation ended.
type ActivateResult int

const (
	// Activated means the engine is active and no initial dispatch ran
	// (silent activation).
	Activated ActivateResult = iota
	// ActivatedRouted means the engine is active and the route handler took
	// the initial fragment.
	ActivatedRouted
	// ActivatedUnrouted means the engine is active but no handler took the
	// initial fragment.
	ActivatedUnrouted
	// Redirected means activation replaced the location to switch history
	// modes; a full reload is pending and no further activation work ran.
	Redirected
)

func (r ActivateResult) String() string {
	switch r {
	case ActivatedRouted:
		return "routed"
	case ActivatedUnrouted:
		return "unrouted"
	case Redirected:
		return "redirected"
	default:
		return "activated"
	}
}

// Activate transitions the engine from Inactive to Active: it fixes the
// history mode from opts and platform capability, wires the single
// URL-change listener and the link interceptor, performs the one-time
// cross-mode redirect when needed, and unless opts.Silent dispatches the
// initial route.
//
// Activating an already-active engine fails with ErrActive and mutates
// nothing.
func (e *Engine) Activate(opts Options) (ActivateResult, error) {
	if !e.active.CompareAndSwap(false, true) {
		return 0, ErrActive
	}

	e.root = normalizeRoot(opts.Root)
	e.handler = opts.RouteHandler
	e.wantsHash = !opts.DisableHashChange
	e.hasPush = opts.PushState && e.p.History.SupportsPushState()

	switch {
	case e.hasPush:
		e.mode = ModePushState
	case e.wantsHash:
		e.mode = ModeHashChange
	default:
		e.mode = ModeDisabled
	}

	// Exactly one URL-change subscription, chosen by mode.
	switch e.mode {
	case ModePushState:
		e.p.Window.Bind(EventPopState, e.CheckURL)
	case ModeHashChange:
		e.p.Window.Bind(EventHashChange, e.CheckURL)
	}

	// One-time mode-transition redirect. Only relevant when the app wants
	// push-state but must tolerate a session that started in the other
	// mode.
	fragSet := false
	if e.wantsHash && opts.PushState {
		switch {
		case !e.hasPush && !e.atRoot():
			// Arrived on a push-state URL in a browser without push-state
			// support: reload at the hash-based equivalent.
			frag := e.computeFragment("", true)
			rootPath := strings.TrimSuffix(e.root, "/")
			if rootPath == "" {
				rootPath = "/"
			}
			e.log.Info("history mode redirect",
				zap.String("root", e.root),
				zap.String("fragment", frag))
			e.p.Location.Replace(rootPath + "#" + frag)
			return Redirected, nil
		case e.hasPush && e.atRoot() && e.p.Location.Hash() != "":
			// Arrived on a hash URL in a push-state capable session:
			// upgrade the entry in place, no reload.
			frag := NormalizeFragment(e.p.Location.Hash())
			e.fragment = frag
			fragSet = true
			e.p.History.ReplaceState(State{}, e.title(), e.composeURL(frag))
		}
	}

	if !fragSet {
		e.fragment = e.computeFragment("", false)
	}

	e.interceptor.activate(e.mode == ModePushState)
	e.log.Info("engine active",
		zap.Stringer("mode", e.mode),
		zap.String("root", e.root),
		zap.String("fragment", e.fragment))

	if opts.Silent {
		return Activated, nil
	}
	if e.loadFragment(e.fragment) {
		return ActivatedRouted, nil
	}
	return ActivatedUnrouted, nil
}

// Deactivate unwires both possible URL-change listeners and the link
// interceptor and returns the engine to Inactive. Idempotent.
func (e *Engine) Deactivate() {
	e.p.Window.Unbind(EventPopState)
	e.p.Window.Unbind(EventHashChange)
	e.interceptor.deactivate()
	e.active.Store(false)
}

// IsActive reports whether Activate has run without a matching Deactivate.
func (e *Engine) IsActive() bool {
	return e.active.Load()
}

// Fragment returns the committed logical location.
func (e *Engine) Fragment() string {
	return e.fragment
}

// Root returns the normalized mount point; "/" before activation.
func (e *Engine) Root() string {
	if e.root == "" {
		return "/"
	}
	return e.root
}

// Mode returns the active history mode. Fixed at activation.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Navigate transitions to url and reports whether any navigation side
// effect occurred. Outbound URLs cause a real page load and return true
// without touching the fragment. Duplicate navigations to the committed
// fragment (without WithReplace) and navigations on an inactive engine
// return false.
func (e *Engine) Navigate(url string, opts ...NavOption) bool {
	req := NavOptions{Trigger: true}
	for _, opt := range opts {
		opt(&req)
	}

	if e.outbound(url) {
		e.announce(Announcement{URL: url, IsOutbound: true, Options: req})
		e.log.Debug("outbound navigation", zap.String("url", url))
		e.p.Location.SetHref(url)
		return true
	}

	if !e.active.Load() {
		return false
	}

	frag := NormalizeFragment(url)
	if frag == e.fragment && !req.Replace {
		return false
	}
	e.fragment = frag

	outward := e.composeURL(frag)
	e.announce(Announcement{URL: outward, Options: req})
	e.log.Debug("navigate",
		zap.String("fragment", frag),
		zap.String("url", outward),
		zap.Bool("replace", req.Replace))

	switch e.mode {
	case ModePushState:
		if req.Replace {
			e.p.History.ReplaceState(State{}, e.title(), outward)
		} else {
			e.p.History.PushState(State{}, e.title(), outward)
		}
	case ModeHashChange:
		e.updateHash(frag, req.Replace)
	default:
		// No history mechanism at all: the URL can only change through a
		// real page load, regardless of Trigger.
		e.p.Location.Assign(outward)
		return true
	}

	if req.Trigger {
		return e.loadFragment(frag)
	}
	return true
}

// NavigateBack delegates to the native history stack, which is
// authoritative; no back/forward state is tracked locally.
func (e *Engine) NavigateBack() {
	e.p.History.Back()
}

// LoadURL recommits the fragment from native state and dispatches it to the
// route handler. Returns the handler's result, or false without a handler.
func (e *Engine) LoadURL() bool {
	return e.loadFragment(e.computeFragment("", false))
}

// CheckURL is the URL-change listener callback: it recomputes the fragment
// from native state and performs a URL load when it moved. Back/forward
// buttons re-enter the engine here.
func (e *Engine) CheckURL() {
	current := e.computeFragment("", false)
	if current == e.fragment {
		return
	}
	e.log.Debug("url changed", zap.String("fragment", current))
	e.loadFragment(current)
}

// computeFragment resolves a fragment. A non-empty raw value is used as the
// unprocessed fragment. Otherwise it derives from native state: path+query
// when push-state is active, hash fallback is off, or forcePath is set;
// the hash portion otherwise. Path-derived values get the root prefix
// stripped. The result is always canonical.
func (e *Engine) computeFragment(raw string, forcePath bool) string {
	if raw != "" {
		return NormalizeFragment(raw)
	}
	if e.hasPush || !e.wantsHash || forcePath {
		path := e.p.Location.Pathname() + e.p.Location.Search()
		return NormalizeFragment(stripRoot(path, e.root))
	}
	return NormalizeFragment(e.p.Location.Hash())
}

// loadFragment commits frag and invokes the route handler. The fragment is
// committed before the handler runs, so handlers never observe a stale one.
func (e *Engine) loadFragment(frag string) bool {
	e.fragment = NormalizeFragment(frag)
	if e.handler == nil {
		return false
	}
	return e.handler(e.fragment)
}

// outbound reports whether url leaves the app entirely: absolute URLs
// always do; in push-state mode so does an absolute path outside the mount
// point.
func (e *Engine) outbound(url string) bool {
	if url == "" {
		return false
	}
	if isAbsoluteURL(url) {
		return true
	}
	return e.hasPush && strings.HasPrefix(url, "/") && !strings.HasPrefix(url, e.root)
}

// composeURL builds the outward URL for a committed fragment.
func (e *Engine) composeURL(frag string) string {
	if !e.hasPush {
		return frag
	}
	// root carries the trailing slash; drop the fragment's leading one so
	// the join keeps a single slash.
	url := e.root + strings.TrimPrefix(frag, "/")
	if frag == "/" && url != "/" {
		url = strings.TrimSuffix(url, "/")
	}
	return url
}

// updateHash writes frag into the location hash. Replacing rewrites href in
// full so no new entry appears.
func (e *Engine) updateHash(frag string, replace bool) {
	if replace {
		href := e.p.Location.Href()
		if i := strings.IndexByte(href, '#'); i >= 0 {
			href = href[:i]
		}
		e.p.Location.Replace(href + "#" + frag)
	} else {
		e.p.Location.SetHash("#" + frag)
	}
}

// atRoot reports whether the current native path, with a guaranteed
// trailing slash, equals root.
func (e *Engine) atRoot() bool {
	path := e.p.Location.Pathname()
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path == e.root
}

func (e *Engine) announce(a Announcement) {
	if e.announcer == nil {
		return
	}
	if err := e.announcer.Publish(context.Background(), TopicNavigate, a); err != nil {
		e.log.Debug("announcement dropped", zap.Error(err))
	}
}
