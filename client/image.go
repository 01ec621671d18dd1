package client

import "strings"

// ResolveImageURL turns a stored image reference into a browser URL.
// Windows-style separators are normalised and absolute URLs kept as is.
func ResolveImageURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	ref = strings.ReplaceAll(ref, `\`, "/")
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
