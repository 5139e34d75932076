package i18n

import "strings"

// Split separates a leading locale segment from p. rest always starts with
// "/". ok is false when the first segment is not a supported locale.
func Split(p string) (l Locale, rest string, ok bool) {
	trimmed := strings.TrimPrefix(p, "/")
	first, remainder, found := strings.Cut(trimmed, "/")
	l, ok = Parse(first)
	if !ok || Locale(first) != l {
		return "", ensureSlash(p), false
	}
	if !found {
		return l, "/", true
	}
	return l, ensureSlash(remainder), true
}

// Strip removes a leading locale segment from p.
func Strip(p string) string {
	_, rest, _ := Split(ensureSlash(p))
	return rest
}

// Path prefixes p with l, replacing any locale already present.
//
//	Path(Arabic, "/")      == "/ar"
//	Path(English, "about") == "/en/about"
func Path(l Locale, p string) string {
	clean := Strip(strings.TrimSpace(p))
	if clean == "/" {
		return "/" + string(l)
	}
	return "/" + string(l) + clean
}

func ensureSlash(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
