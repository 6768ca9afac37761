// Package memdom provides a deterministic in-memory browser implementing the
// historyx platform surfaces: a real history stack with per-entry state,
// synthetic popstate/hashchange dispatch, and click delivery through the
// bound capturing handler.
//
// It backs the package tests and the demo binary, and works for any embedder
// that wants engine semantics without a real browser.
package memdom

import (
	"net/url"
	"strings"

	"github.com/avelaine/historyx"
)

type entry struct {
	href  string
	state historyx.State
}

// Browser is an in-memory window/location/history/document. Not safe for
// concurrent use; like the platform it stands in for, it delivers events one
// at a time on the caller's goroutine.
type Browser struct {
	name        string
	pushStateOK bool
	title       string

	stack []entry
	idx   int

	handlers     map[string]func()
	clickHandler historyx.ClickHandler

	loads    int
	replaces int
}

// New creates a browser sitting at href with push-state support enabled and
// an unnamed window.
func New(href string) *Browser {
	return &Browser{
		pushStateOK: true,
		stack:       []entry{{href: href}},
		handlers:    make(map[string]func()),
	}
}

// DisablePushState simulates a browser without a push-state capable history
// store.
func (b *Browser) DisablePushState() {
	b.pushStateOK = false
}

// SetName names the browsing context, as window.name would.
func (b *Browser) SetName(name string) {
	b.name = name
}

// Loads returns how many full page loads happened (href writes, assigns,
// degraded-mode navigations, unsuppressed link clicks).
func (b *Browser) Loads() int {
	return b.loads
}

// Replaces returns how many location replacements happened.
func (b *Browser) Replaces() int {
	return b.replaces
}

// Depth returns the number of entries on the history stack.
func (b *Browser) Depth() int {
	return len(b.stack)
}

func (b *Browser) current() *entry {
	return &b.stack[b.idx]
}

func (b *Browser) parsed() *url.URL {
	u, err := url.Parse(b.current().href)
	if err != nil {
		return &url.URL{Path: "/"}
	}
	return u
}

// resolve interprets ref against the current document URL.
func (b *Browser) resolve(ref string) string {
	base, err := url.Parse(b.current().href)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}

// push drops any forward entries and appends a new one.
func (b *Browser) push(e entry) {
	b.stack = append(b.stack[:b.idx+1], e)
	b.idx = len(b.stack) - 1
}

func (b *Browser) fire(event string) {
	if fn, ok := b.handlers[event]; ok {
		fn()
	}
}

//
// historyx.Location
//

func (b *Browser) Pathname() string {
	p := b.parsed().Path
	if p == "" {
		return "/"
	}
	return p
}

func (b *Browser) Search() string {
	if q := b.parsed().RawQuery; q != "" {
		return "?" + q
	}
	return ""
}

func (b *Browser) Hash() string {
	if f := b.parsed().Fragment; f != "" {
		return "#" + f
	}
	return ""
}

func (b *Browser) Href() string {
	return b.current().href
}

// SetHref loads url like a plain link click would: a new entry and a full
// page load. Bindings survive so callers can keep observing; the load is
// counted instead.
func (b *Browser) SetHref(u string) {
	b.push(entry{href: b.resolve(u)})
	b.loads++
}

func (b *Browser) Assign(u string) {
	b.SetHref(u)
}

// Replace swaps the current entry without creating a new one.
func (b *Browser) Replace(u string) {
	b.current().href = b.resolve(u)
	b.current().state = nil
	b.replaces++
}

// SetHash writes the location hash, pushing a same-document entry and firing
// hashchange. The leading "#" is optional; writing the identical hash is a
// no-op, as in a real browser.
func (b *Browser) SetHash(hash string) {
	frag := strings.TrimPrefix(hash, "#")
	if b.parsed().Fragment == frag {
		return
	}
	u := b.parsed()
	u.Fragment = frag
	// A hash push creates a fresh entry; its state starts out null.
	b.push(entry{href: u.String()})
	b.fire(historyx.EventHashChange)
}

//
// historyx.History
//

func (b *Browser) PushState(state historyx.State, title, u string) {
	b.push(entry{href: b.resolve(u), state: state.Clone()})
	b.title = title
}

func (b *Browser) ReplaceState(state historyx.State, title, u string) {
	b.current().href = b.resolve(u)
	b.current().state = state.Clone()
	b.title = title
}

// Back moves one entry back and fires popstate, plus hashchange when the
// hash moved. No-op at the bottom of the stack.
func (b *Browser) Back() {
	b.step(-1)
}

// Forward moves one entry forward, firing the same events as Back.
func (b *Browser) Forward() {
	b.step(+1)
}

func (b *Browser) step(delta int) {
	next := b.idx + delta
	if next < 0 || next >= len(b.stack) {
		return
	}
	before := b.Hash()
	b.idx = next
	b.fire(historyx.EventPopState)
	if b.Hash() != before {
		b.fire(historyx.EventHashChange)
	}
}

func (b *Browser) State() historyx.State {
	return b.current().state
}

func (b *Browser) SupportsPushState() bool {
	return b.pushStateOK
}

//
// historyx.Document
//

func (b *Browser) Title() string {
	return b.title
}

func (b *Browser) SetTitle(title string) {
	b.title = title
}

//
// historyx.Window
//

func (b *Browser) Name() string {
	return b.name
}

func (b *Browser) Bind(event string, fn func()) {
	b.handlers[event] = fn
}

func (b *Browser) Unbind(event string) {
	delete(b.handlers, event)
}

func (b *Browser) BindClicks(fn historyx.ClickHandler) {
	b.clickHandler = fn
}

func (b *Browser) UnbindClicks() {
	b.clickHandler = nil
}

// DispatchClick delivers a synthetic click through the capturing handler and
// reports whether default handling was suppressed. Unsuppressed clicks on an
// anchor with an href run the default navigation: a full page load.
func (b *Browser) DispatchClick(ev *historyx.Click) bool {
	if b.clickHandler != nil && b.clickHandler(ev) {
		return true
	}
	for el := ev.Target; el != nil; el = el.Parent {
		if href, ok := el.Attr("href"); ok {
			b.SetHref(href)
			break
		}
	}
	return false
}

// Platform bundles this browser into the engine's injection struct.
func (b *Browser) Platform() historyx.Platform {
	return historyx.Platform{
		Location: b,
		History:  b,
		Document: b,
		Window:   b,
	}
}
