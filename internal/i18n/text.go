package i18n

// Text is a string with one entry per locale.
type Text struct {
	EN string `yaml:"en" json:"en"`
	AR string `yaml:"ar" json:"ar"`
}

// In returns the entry for l, falling back to the other locale when it is
// empty.
func (t Text) In(l Locale) string {
	if v := t.get(l); v != "" {
		return v
	}
	return t.get(l.Other())
}

// Missing lists the locales whose entry is empty.
func (t Text) Missing() []Locale {
	var out []Locale
	for _, l := range Supported {
		if t.get(l) == "" {
			out = append(out, l)
		}
	}
	return out
}

// IsZero reports whether both entries are empty.
func (t Text) IsZero() bool { return t.EN == "" && t.AR == "" }

func (t Text) get(l Locale) string {
	if l == Arabic {
		return t.AR
	}
	return t.EN
}

// Texts is a string list with one entry per locale.
type Texts struct {
	EN []string `yaml:"en" json:"en"`
	AR []string `yaml:"ar" json:"ar"`
}

// In returns the list for l, falling back to the other locale when it is
// empty.
func (t Texts) In(l Locale) []string {
	if v := t.get(l); len(v) > 0 {
		return v
	}
	return t.get(l.Other())
}

// Missing lists the locales whose list is empty or holds an empty string.
func (t Texts) Missing() []Locale {
	var out []Locale
	for _, l := range Supported {
		items := t.get(l)
		if len(items) == 0 {
			out = append(out, l)
			continue
		}
		for _, item := range items {
			if item == "" {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// IsZero reports whether both lists are empty.
func (t Texts) IsZero() bool { return len(t.EN) == 0 && len(t.AR) == 0 }

func (t Texts) get(l Locale) []string {
	if l == Arabic {
		return t.AR
	}
	return t.EN
}
