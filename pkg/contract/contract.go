// Package contract publishes the books REST contract as an OpenAPI document and
// checks payloads and records against its schemas.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-bookform/pkg/book"
)

//go:embed books.yaml
var booksDocument []byte

const (
	payloadSchema = "BookPayload"
	recordSchema  = "Book"
)

// ErrSchemaMissing is returned when the document lacks a schema the validator
// depends on.
var ErrSchemaMissing = errors.New("contract: schema missing")

// Violation wraps a schema failure with the schema it was checked against.
type Violation struct {
	Schema string
	Err    error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("contract: %s: %v", v.Schema, v.Err)
}

func (v *Violation) Unwrap() error {
	return v.Err
}

// Validator checks values against the books contract.
type Validator struct {
	doc     *openapi3.T
	payload *openapi3.Schema
	record  *openapi3.Schema
}

// Document returns the embedded OpenAPI source.
func Document() []byte {
	out := make([]byte, len(booksDocument))
	copy(out, booksDocument)
	return out
}

// Load builds a validator from the embedded document.
func Load(ctx context.Context) (*Validator, error) {
	return LoadData(ctx, booksDocument)
}

// LoadData builds a validator from an OpenAPI document that declares the
// BookPayload and Book schemas.
func LoadData(ctx context.Context, data []byte) (*Validator, error) {
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}

	payload, err := lookupSchema(doc, payloadSchema)
	if err != nil {
		return nil, err
	}
	record, err := lookupSchema(doc, recordSchema)
	if err != nil {
		return nil, err
	}

	return &Validator{doc: doc, payload: payload, record: record}, nil
}

// Spec exposes the parsed document.
func (v *Validator) Spec() *openapi3.T {
	if v == nil {
		return nil
	}
	return v.doc
}

// ValidatePayload checks a create/update body before it is sent.
func (v *Validator) ValidatePayload(payload book.Payload) error {
	if v == nil {
		return nil
	}
	return visit(v.payload, payloadSchema, payload)
}

// ValidateRecord checks a record decoded from the backend.
func (v *Validator) ValidateRecord(rec book.Record) error {
	if v == nil {
		return nil
	}
	return visit(v.record, recordSchema, rec)
}

func lookupSchema(doc *openapi3.T, name string) (*openapi3.Schema, error) {
	if doc.Components == nil {
		return nil, fmt.Errorf("%w: %s", ErrSchemaMissing, name)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrSchemaMissing, name)
	}
	return ref.Value, nil
}

func visit(schema *openapi3.Schema, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &Violation{Schema: name, Err: err}
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return &Violation{Schema: name, Err: err}
	}
	if err := schema.VisitJSON(generic); err != nil {
		return &Violation{Schema: name, Err: err}
	}
	return nil
}
