package i18n

import (
	"context"
	"strings"
)

// Locale represents a language code (ISO 639-1)
type Locale string

const (
	LocaleKo Locale = "ko"
	LocaleEn Locale = "en"
	LocaleJa Locale = "ja"
	LocaleFr Locale = "fr"
	LocaleDe Locale = "de"
)

var defaultLocale = LocaleEn

// languageTitles human readable names, used in admin representations
var languageTitles = map[Locale]string{
	LocaleKo: "Korean",
	LocaleEn: "English",
	LocaleJa: "Japanese",
	LocaleFr: "French",
	LocaleDe: "German",
}

// SetDefault changes the locale returned when nothing else matches
func SetDefault(locale Locale) {
	if locale != "" {
		defaultLocale = locale
	}
}

// Default returns the configured default locale
func Default() Locale {
	return defaultLocale
}

// IsSupported reports whether a locale has a known title
func IsSupported(locale Locale) bool {
	_, ok := languageTitles[locale]
	return ok
}

// LanguageTitle returns the display name of a language code.
// Unknown codes are returned as-is.
func LanguageTitle(code string) string {
	if title, ok := languageTitles[Normalize(code)]; ok {
		return title
	}
	return code
}

// Normalize reduces a tag like "fr-CA" or "FR_ca" to its primary subtag
func Normalize(tag string) Locale {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return Locale(tag)
}

// ParseAcceptLanguage parses the Accept-Language header and returns the best matching locale
func ParseAcceptLanguage(header string) Locale {
	if header == "" {
		return defaultLocale
	}

	// Simple parsing: first supported language tag wins
	for _, part := range strings.Split(header, ",") {
		lang := Normalize(strings.SplitN(part, ";", 2)[0])
		if IsSupported(lang) {
			return lang
		}
	}

	return defaultLocale
}

type localeKey struct{}

// WithLocale stores the active locale in ctx
func WithLocale(ctx context.Context, locale Locale) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// FromContext returns the active locale stored in ctx, if any
func FromContext(ctx context.Context) (Locale, bool) {
	locale, ok := ctx.Value(localeKey{}).(Locale)
	return locale, ok && locale != ""
}
