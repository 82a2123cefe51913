package middleware

import (
	"github.com/damoang/angple-contents/pkg/i18n"
	"github.com/gin-gonic/gin"
)

const localeKey = "locale"

// I18n middleware detects the client's preferred language from the ?lang query
// or the Accept-Language header, and stores it in both the gin context and the
// request context so owner resolvers see the active language.
func I18n() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.Normalize(c.Query("lang"))
		if !i18n.IsSupported(locale) {
			locale = i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		c.Set(localeKey, locale)
		c.Request = c.Request.WithContext(i18n.WithLocale(c.Request.Context(), locale))
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}

// GetLocale returns the locale from the gin context (set by I18n middleware)
func GetLocale(c *gin.Context) i18n.Locale {
	if v, exists := c.Get(localeKey); exists {
		if locale, ok := v.(i18n.Locale); ok {
			return locale
		}
	}
	return i18n.Default()
}
