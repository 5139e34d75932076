package content

import "testing"

func TestNormalizeSlug(t *testing.T) {
	tests := map[string]string{
		"Main Page":       "main-page",
		"Quantum_Flux":    "quantum-flux",
		"  spaced out  ":  "spaced-out",
		"Café Menu":       "cafe-menu",
		"Emoji😀Test":      "emojitest",
		"Next.js Guide":   "next-js-guide",
		"core-web-vitals": "core-web-vitals",
	}

	for input, want := range tests {
		got, err := NormalizeSlug(input)
		if err != nil {
			t.Fatalf("NormalizeSlug(%q) unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeSlugInvalid(t *testing.T) {
	inputs := []string{"", "---", "../etc/passwd", "white space?", "Привет", "صفحة"}
	for _, input := range inputs {
		if _, err := NormalizeSlug(input); err == nil {
			t.Fatalf("NormalizeSlug(%q) expected error", input)
		}
	}
}

func TestSlugTitle(t *testing.T) {
	if got, want := SlugTitle("landing-page"), "Landing Page"; got != want {
		t.Fatalf("SlugTitle() = %q, want %q", got, want)
	}
	if got, want := SlugTitle("core-web-vitals-quick-wins"), "Core Web Vitals Quick Wins"; got != want {
		t.Fatalf("SlugTitle() = %q, want %q", got, want)
	}
}
