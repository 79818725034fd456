package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

type Translations struct {
	bundle   *i18n.Bundle
	matcher  language.Matcher
	localize *i18n.Localizer
	lang     string
}

func NewTranslations(defaultLang string) (*Translations, error) {
	if defaultLang == "" {
		return nil, fmt.Errorf("language must not be empty")
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	t := &Translations{
		bundle:  bundle,
		matcher: language.NewMatcher(bundle.LanguageTags()),
	}
	if err := t.SetLanguage(defaultLang); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			t.lang = lang
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

// Language returns the active language tag.
func (t *Translations) Language() string {
	return t.lang
}

// MatchLanguage picks the best supported language for an Accept-Language
// header. Unparseable or unsupported headers yield the active language.
func (t *Translations) MatchLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.lang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.lang
	}
	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.lang
	}
	return t.bundle.LanguageTags()[index].String()
}

// ForLanguage returns a copy of t localized to lang, or t itself when lang
// is not supported. The receiver is left untouched, so it is safe to call
// from concurrent requests.
func (t *Translations) ForLanguage(lang string) *Translations {
	if lang == t.lang {
		return t
	}
	clone := *t
	if err := clone.SetLanguage(lang); err != nil {
		return t
	}
	return &clone
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

// HasMessage reports whether messageID exists in the active language.
func (t *Translations) HasMessage(messageID string) bool {
	_, err := t.localize.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	return err == nil
}
