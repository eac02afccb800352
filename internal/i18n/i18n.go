package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used at startup and as the fallback for missing keys.
const DefaultLocale = "ko"

// SupportedLocales lists the bundled catalogs.
var SupportedLocales = []string{"ko", "en", "ja", "zh"}

// Translator resolves message keys against one locale's catalog, falling
// back to Korean and finally to the key itself.
type Translator struct {
	locale   string
	catalog  map[string]string
	fallback map[string]string
}

// New loads the catalog for the given locale. Unknown locales fall back to
// the default.
func New(locale string) (*Translator, error) {
	if !Supported(locale) {
		locale = DefaultLocale
	}

	catalog, err := loadCatalog(locale)
	if err != nil {
		return nil, err
	}

	fallback := catalog
	if locale != DefaultLocale {
		fallback, err = loadCatalog(DefaultLocale)
		if err != nil {
			return nil, err
		}
	}

	return &Translator{locale: locale, catalog: catalog, fallback: fallback}, nil
}

// Supported reports whether a catalog is bundled for the locale.
func Supported(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// Locale returns the active locale code.
func (t *Translator) Locale() string { return t.locale }

// T resolves a message key.
func (t *Translator) T(key string) string {
	if msg, ok := t.catalog[key]; ok {
		return msg
	}
	if msg, ok := t.fallback[key]; ok {
		return msg
	}
	return key
}

// Tf resolves a key and substitutes {name} placeholders from args.
func (t *Translator) Tf(key string, args map[string]string) string {
	msg := t.T(key)
	for name, value := range args {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}

func loadCatalog(locale string) (map[string]string, error) {
	data, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.json", locale))
	if err != nil {
		return nil, fmt.Errorf("failed to read locale %s: %w", locale, err)
	}
	var catalog map[string]string
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse locale %s: %w", locale, err)
	}
	return catalog, nil
}
