package historyx

import "strings"

// Fragment normalization. A canonical fragment always begins with a single
// "/", carries no leading "#", and has no surrounding whitespace. The
// functions here are pure: a value goes in, a new value comes out.

// NormalizeFragment canonicalizes a raw fragment: surrounding whitespace is
// trimmed, any leading run of "#" and "/" characters is dropped, and a single
// "/" is prefixed. Applying it twice yields the same result.
func NormalizeFragment(raw string) string {
	f := strings.TrimSpace(raw)
	f = strings.TrimLeft(f, "#/")
	return "/" + f
}

// normalizeRoot guarantees a leading and trailing slash on the app mount
// point. An empty root becomes "/".
func normalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return "/"
	}
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root
}

// stripRoot removes a leading occurrence of root, with its own trailing
// slash removed, from the front of path.
func stripRoot(path, root string) string {
	r := strings.TrimSuffix(root, "/")
	if r != "" && strings.HasPrefix(path, r) {
		return path[len(r):]
	}
	return path
}

// isAbsoluteURL reports whether url names a target outside the current
// origin's path space: a scheme prefix ("https://host", "mailto:x") or the
// scheme-relative "//host" form.
func isAbsoluteURL(url string) bool {
	return strings.HasPrefix(url, "//") || hasScheme(url)
}

// hasScheme reports whether s begins with a URI scheme per RFC 3986:
// ALPHA *(ALPHA / DIGIT / "+" / "-" / ".") followed by ":".
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':':
			return i > 0
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return false
}
