package book

import (
	"strconv"
	"strings"
)

// ID is the server-assigned identifier of a record.
type ID int64

// String renders the identifier as used in resource paths.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID converts a path segment or form value into an ID.
func ParseID(raw string) (ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(value), nil
}

// Detail carries the optional extended metadata attached to a record. None of
// the fields are validated; whatever the form holds is forwarded.
type Detail struct {
	Publisher     string `json:"publisher"`
	Language      string `json:"language"`
	Edition       string `json:"edition"`
	CoverImageURL string `json:"coverImageUrl"`
	Description   string `json:"description"`
	PageCount     *int   `json:"pageCount,omitempty"`
}

// Record is the canonical book resource returned by the backend.
type Record struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	Price       float64 `json:"price"`
	PublishDate *string `json:"publishDate"`
	Detail      *Detail `json:"detail,omitempty"`
}

// Publisher returns the nested publisher or an empty string when the record
// has no detail.
func (r Record) Publisher() string {
	if r.Detail == nil {
		return ""
	}
	return r.Detail.Publisher
}

// PublishDateValue returns the publish date or an empty string when unset.
func (r Record) PublishDateValue() string {
	if r.PublishDate == nil {
		return ""
	}
	return *r.PublishDate
}

// Payload is the request body for create and update. PublishDate is encoded as
// JSON null when absent, never as an empty string.
type Payload struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	Price       float64 `json:"price"`
	PublishDate *string `json:"publishDate"`
	Detail      *Detail `json:"detail,omitempty"`
}

// Record projects the payload into a record carrying the provided id. The
// in-memory backend double uses it to materialise stored entries.
func (p Payload) Record(id ID) Record {
	rec := Record{
		ID:          id,
		Title:       p.Title,
		Author:      p.Author,
		ISBN:        p.ISBN,
		Price:       p.Price,
		PublishDate: cloneString(p.PublishDate),
	}
	if p.Detail != nil {
		detail := *p.Detail
		detail.PageCount = cloneInt(p.Detail.PageCount)
		rec.Detail = &detail
	}
	return rec
}

func cloneString(in *string) *string {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func cloneInt(in *int) *int {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}
