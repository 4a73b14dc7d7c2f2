package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Supported content languages.
const (
	LangUz = "uz"
	LangEn = "en"
	LangRu = "ru"
)

// I18n is a text value keyed by language code.
type I18n struct {
	Uz string `json:"uz"`
	En string `json:"en"`
	Ru string `json:"ru"`
}

// Same returns an I18n carrying text in every language.
func Same(text string) I18n {
	return I18n{Uz: text, En: text, Ru: text}
}

// Complete reports whether every language has non-blank text.
func (t I18n) Complete() bool {
	return strings.TrimSpace(t.Uz) != "" && strings.TrimSpace(t.En) != "" && strings.TrimSpace(t.Ru) != ""
}

// Missing lists the languages with blank text, in uz, en, ru order.
func (t I18n) Missing() []string {
	var langs []string
	if strings.TrimSpace(t.Uz) == "" {
		langs = append(langs, LangUz)
	}
	if strings.TrimSpace(t.En) == "" {
		langs = append(langs, LangEn)
	}
	if strings.TrimSpace(t.Ru) == "" {
		langs = append(langs, LangRu)
	}
	return langs
}

// Trimmed returns a copy with surrounding whitespace removed from each language.
func (t I18n) Trimmed() I18n {
	return I18n{Uz: strings.TrimSpace(t.Uz), En: strings.TrimSpace(t.En), Ru: strings.TrimSpace(t.Ru)}
}

// I18nList is a list of strings keyed by language code.
type I18nList struct {
	Uz []string `json:"uz"`
	En []string `json:"en"`
	Ru []string `json:"ru"`
}

var errLocalizedShape = errors.New("must be a string or an object with uz, en and ru keys")

// LocalizedText accepts either a legacy plain string or a language-keyed object on input.
// Exactly one of Legacy or Localized is set after a successful decode.
type LocalizedText struct {
	Legacy    *string
	Localized *I18n
}

func (l *LocalizedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = LocalizedText{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = LocalizedText{Legacy: &s}
		return nil
	case '{':
		var t I18n
		if err := json.Unmarshal(data, &t); err != nil {
			return errLocalizedShape
		}
		*l = LocalizedText{Localized: &t}
		return nil
	default:
		return errLocalizedShape
	}
}

func (l LocalizedText) MarshalJSON() ([]byte, error) {
	if l.Legacy == nil && l.Localized == nil {
		return []byte("null"), nil
	}
	return json.Marshal(l.Normalize())
}

// IsSet reports whether a value was supplied.
func (l LocalizedText) IsSet() bool {
	return l.Legacy != nil || l.Localized != nil
}

// Normalize returns the canonical language-keyed form. A legacy string fills every language.
func (l LocalizedText) Normalize() I18n {
	switch {
	case l.Localized != nil:
		return l.Localized.Trimmed()
	case l.Legacy != nil:
		return Same(strings.TrimSpace(*l.Legacy))
	default:
		return I18n{}
	}
}
