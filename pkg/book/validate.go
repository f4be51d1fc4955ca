package book

import (
	"errors"
	"math"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Message keys used by validation failures. Front-ends translate them through
// their message catalog; Message carries the Korean default.
const (
	KeyTitleRequired     = "validation.title_required"
	KeyAuthorRequired    = "validation.author_required"
	KeyISBNRequired      = "validation.isbn_required"
	KeyPricePositive     = "validation.price_positive"
	KeyPublishDateFormat = "validation.publish_date_format"
)

var publishDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DefaultMessages maps validation keys to the messages shown when no
// translation is configured.
var DefaultMessages = map[string]string{
	KeyTitleRequired:     "제목은 필수입니다.",
	KeyAuthorRequired:    "저자는 필수입니다.",
	KeyISBNRequired:      "ISBN은 필수입니다.",
	KeyPricePositive:     "가격은 0보다 큰 숫자여야 합니다.",
	KeyPublishDateFormat: "출판일 형식이 올바르지 않습니다. (예: 2025-05-07)",
}

// ValidationError reports the first rule a candidate failed.
type ValidationError struct {
	Field   string
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

type check struct {
	field string
	key   string
	value any
	rules []validation.Rule
}

// Validate applies the candidate rules in their fixed order and stops at the
// first failure: title, author, isbn, price, publish date. Detail fields are
// never inspected.
func Validate(candidate Payload) error {
	checks := []check{
		{field: "title", key: KeyTitleRequired, value: strings.TrimSpace(candidate.Title), rules: []validation.Rule{validation.Required}},
		{field: "author", key: KeyAuthorRequired, value: strings.TrimSpace(candidate.Author), rules: []validation.Rule{validation.Required}},
		{field: "isbn", key: KeyISBNRequired, value: strings.TrimSpace(candidate.ISBN), rules: []validation.Rule{validation.Required}},
		{field: "price", key: KeyPricePositive, value: candidate.Price, rules: []validation.Rule{validation.By(positiveFinite)}},
		{field: "publishDate", key: KeyPublishDateFormat, value: publishDateOf(candidate), rules: []validation.Rule{validation.Match(publishDatePattern)}},
	}

	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			return &ValidationError{
				Field:   c.field,
				Key:     c.key,
				Message: DefaultMessages[c.key],
			}
		}
	}
	return nil
}

func positiveFinite(value any) error {
	price, ok := value.(float64)
	if !ok {
		return errors.New("must be a number")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return errors.New("must be a positive number")
	}
	return nil
}

func publishDateOf(candidate Payload) string {
	if candidate.PublishDate == nil {
		return ""
	}
	return strings.TrimSpace(*candidate.PublishDate)
}
