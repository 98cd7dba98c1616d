package config

import (
	"strings"

	"golang.org/x/text/language"
)

// DisplayConfig controls how amounts and dates are rendered.
type DisplayConfig struct {
	// Locale is a BCP 47 tag such as "en", "fr-FR" or "es-MX".
	Locale string `env:"POS_LOCALE" envDefault:"en"`
}

// Sanitize canonicalises the locale, falling back to English.
func (c *DisplayConfig) Sanitize() {
	tag, err := language.Parse(strings.TrimSpace(c.Locale))
	if err != nil || tag == language.Und {
		tag = language.English
	}
	c.Locale = tag.String()
}

// Tag returns the configured locale.
func (c DisplayConfig) Tag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
