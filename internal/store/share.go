package store

import (
	"net/url"
	"strings"
)

// ShareURL appends token to base as a URL fragment. Any existing fragment on
// base is replaced.
func ShareURL(base, token string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + token
}

// TokenFromURL extracts the share token from a share link. A value without a
// '#' is treated as a bare token unless it looks like a URL, in which case
// there is nothing to import and "" is returned.
func TokenFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	i := strings.IndexByte(raw, '#')
	if i < 0 {
		if strings.Contains(raw, "://") {
			return ""
		}
		return raw
	}
	frag := raw[i+1:]
	if unescaped, err := url.PathUnescape(frag); err == nil {
		frag = unescaped
	}
	return frag
}
