package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gagovictor/task-manager-sub000/pkg/translator"
)

const langContextKey = "lang"

// LanguageMiddleware picks the response language from the Accept-Language
// header. Only the primary tag is honored; anything unrecognized falls back
// to English when the message is looked up.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if idx := strings.IndexAny(lang, ",;"); idx >= 0 {
			lang = lang[:idx]
		}
		lang = strings.TrimSpace(lang)
		if lang == "" {
			lang = translator.LanguageEn
		}
		c.Set(langContextKey, lang)
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langContextKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}
