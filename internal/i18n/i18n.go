package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations loads the embedded message files and selects lang.
func NewTranslations(lang string) (*Translations, error) {
	if lang == "" {
		return nil, errors.New("language cannot be empty")
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

	t := &Translations{bundle: bundle}
	if err := t.SetLanguage(lang); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}
