package historyx

// Native platform surfaces. The engine never talks to a real browser
// directly; callers inject implementations of these interfaces (a real
// binding, or the in-memory browser in package memdom).

// Names of the URL-change events the engine subscribes to on the Window
// surface. Each fires with no payload; the engine just re-checks the URL.
const (
	EventPopState   = "popstate"
	EventHashChange = "hashchange"
)

// Location mirrors the native location object: read access to the current
// URL's parts, plus the ways of leaving the current document.
type Location interface {
	Pathname() string
	// Search returns the query including its leading "?", or "".
	Search() string
	// Hash returns the fragment including its leading "#", or "".
	Hash() string
	Href() string
	// SetHref writes href, loading url like a plain link would.
	SetHref(url string)
	// SetHash writes the hash, creating a same-document history entry.
	SetHash(hash string)
	Assign(url string)
	// Replace swaps the current entry for url without adding a new one.
	Replace(url string)
}

// History mirrors the native history store.
type History interface {
	PushState(state State, title, url string)
	ReplaceState(state State, title, url string)
	Back()
	State() State
	SupportsPushState() bool
}

// Document carries the title passthrough.
type Document interface {
	Title() string
	SetTitle(title string)
}

// ClickHandler receives a click before default handling runs. Returning true
// suppresses the default navigation.
type ClickHandler func(*Click) bool

// Window is the platform event surface: named URL-change events plus a
// single capturing click stream delivered in document order.
type Window interface {
	// Name is the current browsing context's name ("" for an unnamed
	// window).
	Name() string
	Bind(event string, fn func())
	Unbind(event string)
	BindClicks(fn ClickHandler)
	UnbindClicks()
}

// Platform bundles the native surfaces the engine drives. Location, History
// and Window are required; Document may be nil when the host has no title.
type Platform struct {
	Location Location
	History  History
	Document Document
	Window   Window
}

// Element is a minimal DOM node view: enough to walk ancestors and read
// attributes off an anchor.
type Element struct {
	Tag    string
	Attrs  map[string]string
	Parent *Element
}

// Attr returns an attribute's value and whether it is present.
func (el *Element) Attr(name string) (string, bool) {
	v, ok := el.Attrs[name]
	return v, ok
}

// HasAttr reports attribute presence regardless of value.
func (el *Element) HasAttr(name string) bool {
	_, ok := el.Attrs[name]
	return ok
}

// PrimaryButton is the main pointer button in DOM numbering.
const PrimaryButton = 0

// Click is a pointer click as delivered by the platform.
type Click struct {
	Target *Element
	Button int
	Alt    bool
	Ctrl   bool
	Meta   bool
	Shift  bool
}
