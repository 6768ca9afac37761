package historyx_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/avelaine/historyx"
	"github.com/avelaine/historyx/memdom"
)

// recorder collects announcements synchronously.
type recorder struct {
	events []Announcement
}

func (r *recorder) Publish(_ context.Context, _ string, a Announcement) error {
	r.events = append(r.events, a)
	return nil
}

// routed is a route handler that remembers every fragment it saw.
type routed struct {
	fragments []string
}

func (r *routed) handle(fragment string) bool {
	r.fragments = append(r.fragments, fragment)
	return true
}

func newEngine(t *testing.T, href string) (*Engine, *memdom.Browser, *recorder) {
	t.Helper()
	b := memdom.New(href)
	rec := &recorder{}
	e, err := New(b.Platform(), WithAnnouncer(rec))
	if err != nil {
		t.Fatal(err)
	}
	return e, b, rec
}

func TestNewRequiresPlatformSurfaces(t *testing.T) {
	b := memdom.New("https://example.com/")
	cases := []Platform{
		{History: b, Window: b},
		{Location: b, Window: b},
		{Location: b, History: b},
	}
	for i, p := range cases {
		if _, err := New(p); !errors.Is(err, ErrMissingSurface) {
			t.Errorf("case %d: expected ErrMissingSurface, got %v", i, err)
		}
	}
}

func TestActivateTwiceFails(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/")
	if _, err := e.Activate(Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Activate(Options{}); !errors.Is(err, ErrActive) {
		t.Errorf("expected ErrActive, got %v", err)
	}
}

func TestActivatePushStateDispatchesInitialRoute(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/about")
	r := &routed{}

	res, err := e.Activate(Options{PushState: true, RouteHandler: r.handle})
	if err != nil {
		t.Fatal(err)
	}
	if res != ActivatedRouted {
		t.Errorf("expected ActivatedRouted, got %v", res)
	}
	if e.Mode() != ModePushState {
		t.Errorf("expected pushstate mode, got %v", e.Mode())
	}
	if len(r.fragments) != 1 || r.fragments[0] != "/about" {
		t.Errorf("expected initial dispatch of /about, got %v", r.fragments)
	}
}

func TestActivateSilentSkipsDispatch(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/about")
	r := &routed{}

	res, err := e.Activate(Options{PushState: true, Silent: true, RouteHandler: r.handle})
	if err != nil {
		t.Fatal(err)
	}
	if res != Activated {
		t.Errorf("expected Activated, got %v", res)
	}
	if len(r.fragments) != 0 {
		t.Errorf("expected no dispatch, got %v", r.fragments)
	}
	if e.Fragment() != "/about" {
		t.Errorf("expected fragment committed anyway, got %q", e.Fragment())
	}
}

func TestFragmentStripsRootPrefix(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/app/about")
	if _, err := e.Activate(Options{Root: "/app/", PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}
	if e.Fragment() != "/about" {
		t.Errorf("expected /about, got %q", e.Fragment())
	}
}

func TestRootNormalization(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/app/x")
	if _, err := e.Activate(Options{Root: "app", PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}
	if e.Root() != "/app/" {
		t.Errorf("expected root /app/, got %q", e.Root())
	}
}

func TestNavigateDeduplicates(t *testing.T) {
	e, b, rec := newEngine(t, "https://example.com/")
	r := &routed{}
	if _, err := e.Activate(Options{PushState: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}

	if !e.Navigate("/about") {
		t.Fatal("first navigation should succeed")
	}
	depth := b.Depth()
	announced := len(rec.events)

	if e.Navigate("/about") {
		t.Error("duplicate navigation should report false")
	}
	if b.Depth() != depth {
		t.Error("duplicate navigation should not add a history entry")
	}
	if len(rec.events) != announced {
		t.Error("duplicate navigation should not publish an announcement")
	}
	if len(r.fragments) != 1 {
		t.Errorf("expected one dispatch, got %v", r.fragments)
	}
}

func TestNavigateReplace(t *testing.T) {
	e, b, rec := newEngine(t, "https://example.com/")
	r := &routed{}
	if _, err := e.Activate(Options{PushState: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}

	e.Navigate("/about")
	depth := b.Depth()

	if !e.Navigate("/about", WithReplace()) {
		t.Error("replace navigation to the same fragment should proceed")
	}
	if len(r.fragments) != 2 {
		t.Errorf("expected the replace navigation to dispatch, got %v", r.fragments)
	}
	if b.Depth() != depth {
		t.Error("replace should rewrite the current entry, not push")
	}

	last := rec.events[len(rec.events)-1]
	if !last.Options.Replace {
		t.Error("expected the announcement to carry replace=true")
	}
}

func TestNavigateComposesURLUnderRoot(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/app/")
	if _, err := e.Activate(Options{Root: "/app/", PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}

	e.Navigate("about")
	if got := b.Pathname(); got != "/app/about" {
		t.Errorf("expected native path /app/about, got %q", got)
	}
	if e.Fragment() != "/about" {
		t.Errorf("expected fragment /about, got %q", e.Fragment())
	}
}

func TestNavigateEmptyFragmentDropsTrailingSlash(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/app/about")
	if _, err := e.Activate(Options{Root: "/app/", PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}

	e.Navigate("")
	if got := b.Pathname(); got != "/app" {
		t.Errorf("expected native path /app, got %q", got)
	}
}

func TestNavigateOutboundAbsoluteURL(t *testing.T) {
	e, b, rec := newEngine(t, "https://example.com/about")
	r := &routed{}
	if _, err := e.Activate(Options{PushState: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}
	committed := e.Fragment()

	if !e.Navigate("https://elsewhere.example.org/") {
		t.Error("outbound navigation should report true")
	}
	if b.Loads() != 1 {
		t.Errorf("expected one full page load, got %d", b.Loads())
	}
	if e.Fragment() != committed {
		t.Error("outbound navigation must not touch the committed fragment")
	}
	if len(rec.events) != 1 || !rec.events[0].IsOutbound {
		t.Errorf("expected one outbound announcement, got %+v", rec.events)
	}
	if len(r.fragments) != 0 {
		t.Error("outbound navigation must not dispatch the route handler")
	}
}

func TestNavigatePathOutsideRootIsOutbound(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/app/")
	if _, err := e.Activate(Options{Root: "/app/", PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}

	if !e.Navigate("/legacy/admin") {
		t.Error("absolute path outside the mount point should be outbound")
	}
	if b.Loads() != 1 {
		t.Errorf("expected a full page load, got %d", b.Loads())
	}
}

func TestNavigateInactiveIsNoop(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/")
	if e.Navigate("/about") {
		t.Error("navigation on an inactive engine should report false")
	}
	if b.Depth() != 1 {
		t.Error("inactive navigation should not touch native state")
	}
}

func TestNavigateWithoutTriggerSkipsHandler(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/")
	r := &routed{}
	if _, err := e.Activate(Options{PushState: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}

	if !e.Navigate("/about", WithoutTrigger()) {
		t.Error("silent navigation should still report true")
	}
	if len(r.fragments) != 0 {
		t.Errorf("expected no dispatch, got %v", r.fragments)
	}
	if e.Fragment() != "/about" {
		t.Errorf("expected fragment committed, got %q", e.Fragment())
	}
}

func TestBackReentersEngine(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/")
	r := &routed{}
	if _, err := e.Activate(Options{PushState: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}

	e.Navigate("/a")
	e.Navigate("/b")
	e.NavigateBack()

	if e.Fragment() != "/a" {
		t.Errorf("expected fragment /a after back, got %q", e.Fragment())
	}
	if b.Depth() != 3 {
		t.Errorf("back must not add or drop entries, depth %d", b.Depth())
	}
	if got := b.Pathname(); got != "/a" {
		t.Errorf("expected native path /a after back, got %q", got)
	}
	want := []string{"/a", "/b", "/a"}
	if len(r.fragments) != len(want) {
		t.Fatalf("expected dispatches %v, got %v", want, r.fragments)
	}
	for i := range want {
		if r.fragments[i] != want[i] {
			t.Errorf("dispatch %d: expected %q, got %q", i, want[i], r.fragments[i])
		}
	}
}

func TestHashModeNavigation(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/#/home")
	r := &routed{}
	if _, err := e.Activate(Options{RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}
	if e.Mode() != ModeHashChange {
		t.Fatalf("expected hashchange mode, got %v", e.Mode())
	}
	if e.Fragment() != "/home" {
		t.Errorf("expected initial fragment /home, got %q", e.Fragment())
	}

	e.Navigate("/settings")
	if got := b.Hash(); got != "#/settings" {
		t.Errorf("expected native hash #/settings, got %q", got)
	}

	e.NavigateBack()
	if e.Fragment() != "/home" {
		t.Errorf("expected fragment /home after back, got %q", e.Fragment())
	}
}

func TestHashModeReplaceKeepsDepth(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/#/home")
	if _, err := e.Activate(Options{Silent: true}); err != nil {
		t.Fatal(err)
	}

	depth := b.Depth()
	e.Navigate("/settings", WithReplace())
	if b.Depth() != depth {
		t.Error("replace in hash mode should not add an entry")
	}
	if got := b.Hash(); got != "#/settings" {
		t.Errorf("expected native hash #/settings, got %q", got)
	}
}

func TestDegradedModeAssigns(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/x")
	r := &routed{}
	if _, err := e.Activate(Options{DisableHashChange: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}
	if e.Mode() != ModeDisabled {
		t.Fatalf("expected disabled mode, got %v", e.Mode())
	}

	if !e.Navigate("/y") {
		t.Error("degraded navigation should report true")
	}
	if b.Loads() != 1 {
		t.Errorf("expected a full page load, got %d", b.Loads())
	}
	if len(r.fragments) != 0 {
		t.Error("degraded navigation must not dispatch the handler")
	}
}

func TestModeRedirectToHashURL(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/app/about")
	b.DisablePushState()

	res, err := e.Activate(Options{Root: "/app/", PushState: true})
	if err != nil {
		t.Fatal(err)
	}
	if res != Redirected {
		t.Fatalf("expected Redirected, got %v", res)
	}
	if b.Replaces() != 1 {
		t.Errorf("expected exactly one location replacement, got %d", b.Replaces())
	}
	if got := b.Href(); got != "https://example.com/app#/about" {
		t.Errorf("unexpected redirect target %q", got)
	}
}

func TestModeUpgradeFromHashURL(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/app/#/settings")
	r := &routed{}

	if _, err := e.Activate(Options{Root: "/app/", PushState: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}
	if e.Fragment() != "/settings" {
		t.Errorf("expected fragment /settings, got %q", e.Fragment())
	}
	if got := b.Pathname(); got != "/app/settings" {
		t.Errorf("expected rewritten path /app/settings, got %q", got)
	}
	if b.Loads() != 0 {
		t.Error("hash upgrade must not reload the page")
	}
	if got := b.Hash(); got != "" {
		t.Errorf("expected hash cleared, got %q", got)
	}
}

func TestClickInterception(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/app/")
	r := &routed{}
	if _, err := e.Activate(Options{Root: "/app/", PushState: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}

	a := &Element{Tag: "a", Attrs: map[string]string{"href": "about"}}
	suppressed := b.DispatchClick(&Click{Target: a, Button: PrimaryButton})

	if !suppressed {
		t.Fatal("expected default navigation to be suppressed")
	}
	if b.Loads() != 0 {
		t.Error("intercepted click must not cause a page load")
	}
	if e.Fragment() != "/about" {
		t.Errorf("expected fragment /about, got %q", e.Fragment())
	}
	if got := b.Pathname(); got != "/app/about" {
		t.Errorf("expected native path /app/about, got %q", got)
	}
}

func TestModifierClickFallsThrough(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/")
	if _, err := e.Activate(Options{PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}

	a := &Element{Tag: "a", Attrs: map[string]string{"href": "about"}}
	if b.DispatchClick(&Click{Target: a, Ctrl: true}) {
		t.Error("modifier click should keep default handling")
	}
	if b.Loads() != 1 {
		t.Errorf("expected the default full load, got %d", b.Loads())
	}
}

func TestInterceptorInactiveOutsidePushState(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/#/home")
	if _, err := e.Activate(Options{Silent: true}); err != nil {
		t.Fatal(err)
	}

	a := &Element{Tag: "a", Attrs: map[string]string{"href": "about"}}
	if b.DispatchClick(&Click{Target: a, Button: PrimaryButton}) {
		t.Error("hash-mode pages keep default link behavior")
	}
	if b.Loads() != 1 {
		t.Errorf("expected the default full load, got %d", b.Loads())
	}
}

func TestSetStateMergesKeys(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/")
	if _, err := e.Activate(Options{PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}

	e.SetState("k", 1)
	e.SetState("j", 2)

	if got := e.GetState("k"); got != 1 {
		t.Errorf("expected k=1, got %v", got)
	}
	if got := e.GetState("j"); got != 2 {
		t.Errorf("expected j=2, got %v", got)
	}
	if got := e.GetState("missing"); got != nil {
		t.Errorf("expected nil for absent key, got %v", got)
	}
}

func TestSetStateKeepsURL(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/")
	if _, err := e.Activate(Options{PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}
	e.Navigate("/about")
	depth := b.Depth()
	href := b.Href()

	e.SetState("scroll", 120)

	if b.Depth() != depth {
		t.Error("SetState must not add a history entry")
	}
	if b.Href() != href {
		t.Errorf("SetState must keep the URL, got %q", b.Href())
	}
}

func TestDeactivateUnbinds(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/")
	r := &routed{}
	if _, err := e.Activate(Options{PushState: true, Silent: true, RouteHandler: r.handle}); err != nil {
		t.Fatal(err)
	}
	e.Navigate("/a")
	e.Deactivate()
	e.Deactivate() // idempotent

	if e.IsActive() {
		t.Error("expected engine inactive")
	}
	b.Back()
	if len(r.fragments) != 1 {
		t.Errorf("expected no dispatch after deactivation, got %v", r.fragments)
	}
	if e.Navigate("/b") {
		t.Error("navigation after deactivation should report false")
	}
}

func TestLoadURLWithoutHandler(t *testing.T) {
	e, _, _ := newEngine(t, "https://example.com/about")
	if _, err := e.Activate(Options{PushState: true, Silent: true}); err != nil {
		t.Fatal(err)
	}
	if e.LoadURL() {
		t.Error("LoadURL without a handler should report false")
	}
}

func TestSetTitle(t *testing.T) {
	e, b, _ := newEngine(t, "https://example.com/")
	e.SetTitle("Docs")
	if b.Title() != "Docs" {
		t.Errorf("expected title Docs, got %q", b.Title())
	}
}
