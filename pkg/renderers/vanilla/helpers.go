package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-bookform/pkg/book"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription keeps basic inline formatting in free-text book
// descriptions and strips everything else.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(descriptionSanitizer().Sanitize(trimmed))
}

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "p", "ul", "ol", "li")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}

func controlID(fieldID string) string {
	trimmed := strings.TrimSpace(fieldID)
	if trimmed == "" {
		return ""
	}
	return "bf-" + trimmed
}

func inputType(kind string) string {
	switch book.FieldKind(kind) {
	case book.FieldKindNumber, book.FieldKindInteger:
		return "number"
	case book.FieldKindDate:
		return "date"
	case book.FieldKindTextArea:
		return "textarea"
	default:
		return "text"
	}
}

func inputStep(kind string) string {
	switch book.FieldKind(kind) {
	case book.FieldKindNumber:
		return "any"
	case book.FieldKindInteger:
		return "1"
	default:
		return ""
	}
}
