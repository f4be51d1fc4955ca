package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLocale is used when a request does not name one.
const DefaultLocale = "ko"

var (
	// ErrMissingTranslator signals that no translator was configured.
	ErrMissingTranslator = errors.New("render: translator is not configured")
	// ErrMissingTranslation signals that a key has no message for the locale.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// Translator resolves a message key for a locale. Args are applied as
// fmt.Sprintf operands when the message carries verbs.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// resolved. err is ErrMissingTranslator, ErrMissingTranslation or whatever the
// translator returned.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Translate resolves key through t, falling back to fallback (or the key) when
// the translator is missing or has no usable message. Args only apply to the
// translated message; fallback is used verbatim.
func Translate(t Translator, onMissing MissingTranslationHandler, locale, key, fallback string, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	withDefault := func(err error) string {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}

	if t == nil {
		return withDefault(ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if err == nil {
		err = ErrMissingTranslation
	}
	return withDefault(err)
}

// Catalog is an in-memory Translator keyed by locale. Lookups try the exact
// locale, then its base language, then the fallback locale.
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	messages map[string]map[string]string
}

// NewCatalog creates an empty catalog. An empty fallback uses DefaultLocale.
func NewCatalog(fallback string) *Catalog {
	fallback = normalizeLocale(fallback)
	if fallback == "" {
		fallback = DefaultLocale
	}
	return &Catalog{
		fallback: fallback,
		messages: make(map[string]map[string]string),
	}
}

// Add merges messages into locale. Later calls win on key collisions.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = normalizeLocale(locale)
	if locale == "" || len(messages) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.messages[locale]
	if bucket == nil {
		bucket = make(map[string]string, len(messages))
		c.messages[locale] = bucket
	}
	for key, msg := range messages {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			bucket[trimmed] = msg
		}
	}
}

// Locales lists the locales with at least one message, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil {
		return "", ErrMissingTranslator
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range c.candidates(locale) {
		if msg, ok := c.messages[candidate][key]; ok {
			return format(msg, args), nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

func (c *Catalog) candidates(locale string) []string {
	out := make([]string, 0, 3)
	if normalized := normalizeLocale(locale); normalized != "" {
		out = append(out, normalized)
		if base := baseLanguage(normalized); base != normalized {
			out = append(out, base)
		}
	}
	return append(out, c.fallback)
}

// ResolveLocale returns a well-formed BCP 47 tag for raw, or DefaultLocale.
func ResolveLocale(raw string) string {
	if normalized := normalizeLocale(raw); normalized != "" {
		return normalized
	}
	return DefaultLocale
}

func normalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	return tag.String()
}

func baseLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	base, _ := tag.Base()
	return base.String()
}

func format(msg string, args []any) string {
	if len(args) == 0 || !strings.Contains(msg, "%") {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
