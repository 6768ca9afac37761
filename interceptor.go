package historyx

import "strings"

// Marker attributes that exclude an anchor from interception.
const (
	attrDownload     = "download"
	attrRouterIgnore = "router-ignore"
)

// Classification is the interception verdict for one click.
type Classification struct {
	Handle bool
	Href   string
}

// Classify decides whether a click should be treated as in-app navigation.
// windowName is the current browsing context's name; anchors targeting a
// different context keep default behavior. The walk starts at the click's
// target and climbs ancestors until an anchor is found.
//
// A click is handled only when all of these hold: an anchor exists, it has
// neither download nor router-ignore markers, no modifier key was held, the
// anchor targets the current window, the primary button was used, and the
// href is relative (no leading "#", no URI scheme).
func Classify(ev *Click, windowName string) Classification {
	a := ev.Target
	for a != nil && !strings.EqualFold(a.Tag, "a") {
		a = a.Parent
	}
	if a == nil {
		return Classification{}
	}
	if a.HasAttr(attrDownload) || a.HasAttr(attrRouterIgnore) {
		return Classification{}
	}
	// Modifier keys signal intent to open in a new context.
	if ev.Alt || ev.Ctrl || ev.Meta || ev.Shift {
		return Classification{}
	}
	if target, ok := a.Attr("target"); ok && !sameWindow(target, windowName) {
		return Classification{}
	}
	href, ok := a.Attr("href")
	if !ok {
		return Classification{}
	}
	handle := ev.Button == PrimaryButton &&
		!strings.HasPrefix(href, "#") &&
		!hasScheme(href)
	return Classification{Handle: handle, Href: href}
}

func sameWindow(target, windowName string) bool {
	return target == "" || target == "_self" || target == windowName
}

// LinkInterceptor hijacks in-app anchor clicks and funnels them into the
// engine. It binds a single capturing click listener on the document, and
// only in push-state mode; hash-mode and disabled-mode pages keep default
// link behavior.
type LinkInterceptor struct {
	win    Window
	engine *Engine
	bound  bool
}

func newLinkInterceptor(win Window, e *Engine) *LinkInterceptor {
	return &LinkInterceptor{win: win, engine: e}
}

// activate binds the click listener when enabled. Safe to call repeatedly.
func (li *LinkInterceptor) activate(enabled bool) {
	if !enabled || li.bound {
		return
	}
	li.win.BindClicks(li.handle)
	li.bound = true
}

// deactivate unbinds the click listener. Idempotent.
func (li *LinkInterceptor) deactivate() {
	if !li.bound {
		return
	}
	li.win.UnbindClicks()
	li.bound = false
}

// handle classifies one click; on acceptance the default navigation is
// suppressed and the href goes to the engine.
func (li *LinkInterceptor) handle(ev *Click) bool {
	c := Classify(ev, li.win.Name())
	if !c.Handle {
		return false
	}
	li.engine.Navigate(c.Href)
	return true
}
