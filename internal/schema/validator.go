// Package schema checks JSON documents against JSON schemas before they are decoded.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/xeipuuv/gojsonschema"
)

// QuoteCollection is the shape of an export/import document.
var QuoteCollection = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []string{"text", "category"},
		"properties": map[string]any{
			"text":     map[string]any{"type": "string"},
			"category": map[string]any{"type": "string"},
		},
	},
}

// RemoteItems is the shape of a pull response. Only title is read.
var RemoteItems = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []string{"title"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
		},
	},
}

const maxReported = 3

// Validator caches compiled schemas keyed by their JSON form.
type Validator struct {
	cache sync.Map // map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks doc against schemaData. doc must already be valid JSON.
// A mismatch is reported as a ShapeError attributed to source.
func (v *Validator) Validate(source string, schemaData any, doc []byte) error {
	compiled, err := v.compiled(schemaData)
	if err != nil {
		return fmt.Errorf("invalid schema definition: %w", err)
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return errors.NewParseError(source, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return errors.NewShapeError(source, summarize(msgs))
}

func (v *Validator) compiled(schemaData any) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(schemaData)
	if err != nil {
		return nil, err
	}
	key := string(raw)

	if cached, ok := v.cache.Load(key); ok {
		return cached.(*gojsonschema.Schema), nil
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	v.cache.Store(key, compiled)
	return compiled, nil
}

// summarize keeps the first few violations so one bad document cannot flood the log.
func summarize(msgs []string) string {
	if len(msgs) <= maxReported {
		return strings.Join(msgs, "; ")
	}
	return fmt.Sprintf("%s; and %d more", strings.Join(msgs[:maxReported], "; "), len(msgs)-maxReported)
}
