// Package i18n holds the panel's message catalogues and language detection.
package i18n

import (
	"context"
	"strings"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "es"

var catalogues = map[string]map[string]string{
	"es": es,
	"en": en,
}

// Supported reports whether a catalogue exists for lang.
func Supported(lang string) bool {
	_, ok := catalogues[lang]
	return ok
}

// DetectLanguage picks the first supported language from an Accept-Language
// header value, falling back to DefaultLang.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

// T translates code for lang. Unknown languages use the default catalogue;
// unknown codes are returned unchanged.
func T(lang, code string) string {
	if cat, ok := catalogues[lang]; ok {
		if s, ok := cat[code]; ok {
			return s
		}
	}
	if s, ok := catalogues[DefaultLang][code]; ok {
		return s
	}
	return code
}

type langKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}
