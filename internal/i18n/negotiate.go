package i18n

import "golang.org/x/text/language"

// maxAcceptLanguageLength bounds the header we hand to the parser.
const maxAcceptLanguageLength = 4096

// Matcher picks a site locale from an Accept-Language header.
type Matcher struct {
	matcher language.Matcher
	locales []Locale
}

// NewMatcher builds a Matcher over the supported locales. preferred is listed
// first so it wins ties.
func NewMatcher(preferred Locale) *Matcher {
	locales := []Locale{preferred, preferred.Other()}
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.Tag()
	}
	return &Matcher{matcher: language.NewMatcher(tags), locales: locales}
}

// Negotiate returns the best locale for header, or fallback when the header is
// empty, malformed, or matches nothing with confidence.
func (m *Matcher) Negotiate(header string, fallback Locale) Locale {
	if header == "" {
		return fallback
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := m.matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return m.locales[index]
}
