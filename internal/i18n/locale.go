// Package i18n holds the two site locales, their text direction, locale-prefixed
// paths and the localized value types used by the content tables.
package i18n

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported site language.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Supported lists every site locale. English comes first and is the fallback
// for localized values with a missing entry.
var Supported = []Locale{English, Arabic}

// Direction is the text direction of a locale.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Parse accepts a supported locale code, ignoring case and surrounding space.
func Parse(s string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, true
	case Arabic:
		return Arabic, true
	}
	return "", false
}

// Resolve returns the locale named by s, or fallback when s is not supported.
func Resolve(s string, fallback Locale) Locale {
	if l, ok := Parse(s); ok {
		return l
	}
	return fallback
}

// Valid reports whether l is a supported locale.
func (l Locale) Valid() bool {
	return l == English || l == Arabic
}

func (l Locale) String() string { return string(l) }

// Dir returns the text direction used when rendering l.
func (l Locale) Dir() Direction {
	if l == Arabic {
		return RTL
	}
	return LTR
}

// OpenGraph returns the og:locale value for l.
func (l Locale) OpenGraph() string {
	if l == Arabic {
		return "ar_EG"
	}
	return "en_US"
}

// Other returns the alternate site locale.
func (l Locale) Other() Locale {
	if l == Arabic {
		return English
	}
	return Arabic
}

// Tag returns the BCP 47 tag of l.
func (l Locale) Tag() language.Tag {
	if l == Arabic {
		return language.Arabic
	}
	return language.English
}

var tagShape = regexp.MustCompile(`^[A-Za-z]{2,3}([-_][A-Za-z0-9]{2,8})*$`)

// LooksLikeTag reports whether s has the shape of a language tag such as
// "fr", "EN" or "ar-EG". It does not check that the language exists.
func LooksLikeTag(s string) bool {
	return tagShape.MatchString(s)
}

// IsLanguage reports whether s is a well-formed tag naming a known language,
// supported by the site or not.
func IsLanguage(s string) bool {
	if !LooksLikeTag(s) {
		return false
	}
	_, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	return err == nil
}

// FromTag maps a language tag to a supported locale by its base language.
// Unknown tags and unsupported languages report false.
func FromTag(s string) (Locale, bool) {
	if !LooksLikeTag(s) {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	return Parse(base.String())
}
