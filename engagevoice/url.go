package engagevoice

import (
	"net/url"
	"strings"
)

// ResolveURL turns target into an absolute URL.
//
// Targets with a hostname are returned unchanged. Relative targets are joined
// to server, with apiPrefix inserted unless the target already starts with it
// ("voice/calls" and "/voice/calls" both resolve to {server}/voice/calls).
func ResolveURL(server, apiPrefix, target string) string {
	if u, err := url.Parse(target); err == nil && u.Hostname() != "" {
		return target
	}

	prefix := strings.Trim(apiPrefix, "/")
	if prefix == "" || hasPathPrefix(strings.TrimLeft(target, "/"), prefix) {
		return joinURL(server, target)
	}
	return joinURL(server, prefix, target)
}

// hasPathPrefix reports whether p starts with the path segment prefix
func hasPathPrefix(p, prefix string) bool {
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	if len(p) == len(prefix) {
		return true
	}
	switch p[len(prefix)] {
	case '/', '?', '#':
		return true
	}
	return false
}

// joinURL joins segments with exactly one "/" between them.
// A trailing "/" on the last segment is kept; empty segments are skipped.
func joinURL(segments ...string) string {
	var b strings.Builder
	last := len(segments) - 1
	for i, seg := range segments {
		if i > 0 {
			seg = strings.TrimLeft(seg, "/")
		}
		if i < last {
			seg = strings.TrimRight(seg, "/")
		}
		if seg == "" {
			continue
		}
		if b.Len() > 0 && !strings.HasPrefix(seg, "?") && !strings.HasPrefix(seg, "#") {
			b.WriteByte('/')
		}
		b.WriteString(seg)
	}
	return b.String()
}
