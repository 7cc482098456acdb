// Package codec turns the collection into a portable JSON document and back.
package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/bassista/go_quotes/internal/schema"
	"github.com/bassista/go_quotes/internal/store"
)

// Filename is the suggested name for an exported document.
const Filename = "quotes.json"

const importSource = "import"

// Result summarizes an import.
type Result struct {
	Added   int `json:"added"`
	Ignored int `json:"ignored"`
	Total   int `json:"total"`
}

type Codec struct {
	store     store.Merger
	validator *schema.Validator
}

func New(s store.Merger, v *schema.Validator) *Codec {
	if v == nil {
		v = schema.NewValidator()
	}
	return &Codec{store: s, validator: v}
}

// Export renders the full collection as an indented JSON array.
func (c *Codec) Export() ([]byte, error) {
	data, err := json.MarshalIndent(c.store.All(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// Read drains r, giving up when ctx is done.
func (c *Codec) Read(ctx context.Context, r io.Reader) ([]byte, error) {
	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(r)
		done <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}

// Decode parses and shape-checks an import document without touching the store.
func (c *Codec) Decode(data []byte) ([]repository.Quote, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, errors.NewImportError(errors.NewParseError(importSource, err))
	}
	if err := c.validator.Validate(importSource, schema.QuoteCollection, data); err != nil {
		return nil, errors.NewImportError(err)
	}

	var quotes []repository.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, errors.NewImportError(errors.NewParseError(importSource, err))
	}
	for i, q := range quotes {
		if err := repository.ValidateQuote(q.Trimmed()); err != nil {
			return nil, errors.NewImportError(errors.NewShapeError(importSource, fmt.Sprintf("record %d: %v", i, err)))
		}
	}
	return quotes, nil
}

// Import reads a document and merges it additively. On any parse or shape
// failure the store is left unchanged and an ImportError is returned.
func (c *Codec) Import(ctx context.Context, r io.Reader) (Result, error) {
	log := logger.WithComponent("codec")

	data, err := c.Read(ctx, r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("read import: %w", ctxErr)
		}
		return Result{}, errors.NewImportError(err)
	}
	quotes, err := c.Decode(data)
	if err != nil {
		log.Warnf("import rejected: %v", err)
		return Result{}, err
	}

	added, err := c.store.Merge(ctx, events.ReasonImport, quotes)
	if err != nil {
		return Result{}, err
	}

	res := Result{Added: len(added), Ignored: len(quotes) - len(added), Total: c.store.Len()}
	log.Infof("import finished: %d added, %d ignored", res.Added, res.Ignored)
	return res, nil
}
