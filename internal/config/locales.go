package config

import (
	"log/slog"
	"strings"

	"golang.org/x/text/language"
)

const (
	LangEN = "en"
	LangES = "es"
)

var supportedLanguages = map[string]struct{}{
	LangEN: {},
	LangES: {},
}

// NormalizeLanguage reduces a locale such as "es-AR" or "en_US" to the base
// language used for prompts and messages. Unknown languages fall back to
// English.
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return LangEN
	}

	tag, err := language.Parse(lang)
	if err != nil {
		slog.Warn("invalid language, falling back to English", "language", lang)
		return LangEN
	}

	base, _ := tag.Base()
	if _, ok := supportedLanguages[base.String()]; !ok {
		slog.Warn("unsupported language, falling back to English", "language", lang)
		return LangEN
	}
	return base.String()
}
