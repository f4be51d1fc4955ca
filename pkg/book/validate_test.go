package book_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bookform/pkg/book"
)

func validPayload() book.Payload {
	date := "2025-05-07"
	return book.Payload{
		Title:       "T",
		Author:      "A",
		ISBN:        "1",
		Price:       10,
		PublishDate: &date,
	}
}

func TestValidate_PriorityOrder(t *testing.T) {
	badDate := "2025/05/07"
	tests := []struct {
		name    string
		mutate  func(*book.Payload)
		wantKey string
	}{
		{"blank title", func(p *book.Payload) { p.Title = "   " }, book.KeyTitleRequired},
		{"title beats author", func(p *book.Payload) { p.Title = ""; p.Author = "" }, book.KeyTitleRequired},
		{"blank author", func(p *book.Payload) { p.Author = "\t" }, book.KeyAuthorRequired},
		{"author beats isbn", func(p *book.Payload) { p.Author = ""; p.ISBN = "" }, book.KeyAuthorRequired},
		{"blank isbn", func(p *book.Payload) { p.ISBN = "" }, book.KeyISBNRequired},
		{"isbn beats price", func(p *book.Payload) { p.ISBN = ""; p.Price = -1 }, book.KeyISBNRequired},
		{"price beats date", func(p *book.Payload) { p.Price = 0; p.PublishDate = &badDate }, book.KeyPricePositive},
		{"bad date", func(p *book.Payload) { p.PublishDate = &badDate }, book.KeyPublishDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validPayload()
			tt.mutate(&candidate)

			err := book.Validate(candidate)
			var verr *book.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Key != tt.wantKey {
				t.Fatalf("key mismatch: want %s, got %s", tt.wantKey, verr.Key)
			}
			if verr.Message != book.DefaultMessages[tt.wantKey] {
				t.Fatalf("message mismatch: %q", verr.Message)
			}
		})
	}
}

func TestValidate_PriceRejectsNonPositiveAndNonFinite(t *testing.T) {
	for _, price := range []float64{0, -5, -0.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		candidate := validPayload()
		candidate.Price = price

		err := book.Validate(candidate)
		var verr *book.ValidationError
		if !errors.As(err, &verr) || verr.Key != book.KeyPricePositive {
			t.Fatalf("price %v: expected price error, got %v", price, err)
		}
	}
}

func TestValidate_AcceptsWellFormedCandidates(t *testing.T) {
	empty := ""
	page := -3
	candidates := []book.Payload{
		validPayload(),
		{Title: "T", Author: "A", ISBN: "1", Price: 0.5},
		{Title: "T", Author: "A", ISBN: "1", Price: 15000, PublishDate: &empty},
		{Title: "T", Author: "A", ISBN: "1", Price: 1, Detail: &book.Detail{Publisher: "", PageCount: &page, CoverImageURL: "not a url"}},
	}
	for i, candidate := range candidates {
		if err := book.Validate(candidate); err != nil {
			t.Fatalf("candidate %d: unexpected error %v", i, err)
		}
	}
}

func TestValidate_MessageFromScenario(t *testing.T) {
	candidate := book.PayloadFromValues(book.Values{"title": "", "author": "A", "isbn": "1", "price": "10"})

	err := book.Validate(candidate)
	if diff := cmp.Diff("제목은 필수입니다.", err.Error()); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
	if !book.IsValidationError(err) {
		t.Fatalf("expected IsValidationError to match")
	}
}
