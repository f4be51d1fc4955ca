package render

import (
	"fmt"
	"strings"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// FuncName customises the translator helper name (defaults to "translate").
	FuncName string
	// OnMissing controls the string returned when a translation is missing.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers for injection into template engines:
//
//	translate(locale, key, ...args) string
//	current_locale(locale) string
//
// locale may be a string or a map carrying a "locale" entry, which is what a
// PageView looks like once it reaches the template context.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := localeOf(localeSrc)
			if t == nil {
				return onMissing(locale, key, params, ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": func(localeSrc any) string {
			return localeOf(localeSrc)
		},
	}
}

func localeOf(src any) string {
	switch v := src.(type) {
	case nil:
		return ""
	case string:
		return v
	case PageView:
		return v.Locale
	case *PageView:
		if v == nil {
			return ""
		}
		return v.Locale
	case map[string]string:
		return v["locale"]
	case map[string]any:
		if raw, ok := v["locale"]; ok && raw != nil {
			return strings.TrimSpace(fmt.Sprint(raw))
		}
	}
	return ""
}
