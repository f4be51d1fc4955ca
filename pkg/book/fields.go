package book

import (
	"math"
	"strconv"
	"strings"
)

// FieldKind hints how a front-end should present a form control.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindNumber   FieldKind = "number"
	FieldKindInteger  FieldKind = "integer"
	FieldKindDate     FieldKind = "date"
	FieldKindTextArea FieldKind = "textarea"
)

// Field binds one form control identifier to a record field. The binding table
// is the only place that knows how raw form strings map onto Payload and how a
// fetched Record maps back onto form strings.
type Field struct {
	ID       string
	Path     string
	Label    string
	Kind     FieldKind
	Required bool

	read  func(Record) string
	write func(*Payload, string)
}

// Fields lists every form control in display order.
var Fields = []Field{
	{
		ID: "title", Path: "title", Label: "제목", Kind: FieldKindText, Required: true,
		read:  func(r Record) string { return r.Title },
		write: func(p *Payload, v string) { p.Title = strings.TrimSpace(v) },
	},
	{
		ID: "author", Path: "author", Label: "저자", Kind: FieldKindText, Required: true,
		read:  func(r Record) string { return r.Author },
		write: func(p *Payload, v string) { p.Author = strings.TrimSpace(v) },
	},
	{
		ID: "isbn", Path: "isbn", Label: "ISBN", Kind: FieldKindText, Required: true,
		read:  func(r Record) string { return r.ISBN },
		write: func(p *Payload, v string) { p.ISBN = strings.TrimSpace(v) },
	},
	{
		ID: "price", Path: "price", Label: "가격", Kind: FieldKindNumber, Required: true,
		read:  func(r Record) string { return strconv.FormatFloat(r.Price, 'f', -1, 64) },
		write: func(p *Payload, v string) { p.Price = parsePrice(v) },
	},
	{
		ID: "publishDate", Path: "publishDate", Label: "출판일", Kind: FieldKindDate,
		read: func(r Record) string { return r.PublishDateValue() },
		write: func(p *Payload, v string) {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				p.PublishDate = &trimmed
			}
		},
	},
	detailField("publisher", "출판사", FieldKindText,
		func(d Detail) string { return d.Publisher },
		func(d *Detail, v string) { d.Publisher = strings.TrimSpace(v) }),
	detailField("language", "언어", FieldKindText,
		func(d Detail) string { return d.Language },
		func(d *Detail, v string) { d.Language = strings.TrimSpace(v) }),
	detailField("edition", "판", FieldKindText,
		func(d Detail) string { return d.Edition },
		func(d *Detail, v string) { d.Edition = strings.TrimSpace(v) }),
	detailField("pageCount", "쪽수", FieldKindInteger,
		func(d Detail) string {
			if d.PageCount == nil {
				return ""
			}
			return strconv.Itoa(*d.PageCount)
		},
		func(d *Detail, v string) {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				d.PageCount = &n
			}
		}),
	detailField("coverImageUrl", "표지 URL", FieldKindText,
		func(d Detail) string { return d.CoverImageURL },
		func(d *Detail, v string) { d.CoverImageURL = strings.TrimSpace(v) }),
	detailField("description", "설명", FieldKindTextArea,
		func(d Detail) string { return d.Description },
		func(d *Detail, v string) { d.Description = strings.TrimSpace(v) }),
}

func detailField(id, label string, kind FieldKind, get func(Detail) string, set func(*Detail, string)) Field {
	return Field{
		ID:    id,
		Path:  "detail." + id,
		Label: label,
		Kind:  kind,
		read: func(r Record) string {
			if r.Detail == nil {
				return ""
			}
			return get(*r.Detail)
		},
		write: func(p *Payload, v string) {
			if p.Detail == nil {
				p.Detail = &Detail{}
			}
			set(p.Detail, v)
		},
	}
}

// FieldByID looks a binding up by its form identifier.
func FieldByID(id string) (Field, bool) {
	for _, field := range Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Values holds raw form control contents keyed by field identifier.
type Values map[string]string

// EmptyValues returns a value set with every known field present and blank.
func EmptyValues() Values {
	out := make(Values, len(Fields))
	for _, field := range Fields {
		out[field.ID] = ""
	}
	return out
}

// Get returns the raw value for id, or an empty string.
func (v Values) Get(id string) string {
	if v == nil {
		return ""
	}
	return v[id]
}

// Clone copies the value set; unknown identifiers are dropped.
func (v Values) Clone() Values {
	out := EmptyValues()
	for _, field := range Fields {
		out[field.ID] = v.Get(field.ID)
	}
	return out
}

// PayloadFromValues builds the candidate request body from a form snapshot:
// text is trimmed, price is coerced to a number (NaN when unparseable), an
// empty date becomes nil and the detail object is always present.
func PayloadFromValues(values Values) Payload {
	payload := Payload{Detail: &Detail{}}
	for _, field := range Fields {
		field.write(&payload, values.Get(field.ID))
	}
	return payload
}

// ValuesFromRecord populates every form field from a fetched record. Missing
// nested fields populate as empty strings.
func ValuesFromRecord(rec Record) Values {
	out := make(Values, len(Fields))
	for _, field := range Fields {
		out[field.ID] = field.read(rec)
	}
	return out
}

func parsePrice(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}
