// Package display picks the quote to show and remembers the last one for the session.
package display

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
)

// View is the filtered collection the picker draws from.
type View interface {
	Filtered() []repository.Quote
}

// Picker draws random quotes from a View.
type Picker struct {
	view    View
	session repository.Storage
	key     string

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rnd *rand.Rand
}

// NewPicker builds a picker. A zero seed draws one from the clock.
func NewPicker(view View, session repository.Storage, key string, seed int64) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Picker{
		view:    view,
		session: session,
		key:     key,
		rnd:     rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1))),
	}
}

// Next picks a quote from the current view and records it as the last shown.
func (p *Picker) Next(ctx context.Context) (repository.Quote, error) {
	quotes := p.view.Filtered()
	if len(quotes) == 0 {
		return repository.Quote{}, errors.ErrNoQuotes
	}

	p.mu.Lock()
	q := quotes[p.rnd.IntN(len(quotes))]
	p.mu.Unlock()

	payload, err := json.Marshal(q)
	if err != nil {
		return repository.Quote{}, fmt.Errorf("marshal last quote: %w", err)
	}
	if err := p.session.Set(ctx, p.key, payload); err != nil {
		return repository.Quote{}, fmt.Errorf("remember last quote: %w", err)
	}
	return q, nil
}

// Last returns the quote shown most recently in this session, if any.
// Unreadable session data is logged and treated as absent.
func (p *Picker) Last(ctx context.Context) (repository.Quote, bool, error) {
	data, ok, err := p.session.Get(ctx, p.key)
	if err != nil {
		return repository.Quote{}, false, fmt.Errorf("read last quote: %w", err)
	}
	if !ok {
		return repository.Quote{}, false, nil
	}

	var q repository.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		logger.WithComponent("display").Warnf("ignoring last quote: %v", errors.NewParseError(p.key, err))
		return repository.Quote{}, false, nil
	}
	if repository.ValidateQuote(q) != nil {
		logger.WithComponent("display").Warnf("ignoring incomplete last quote")
		return repository.Quote{}, false, nil
	}
	return q, true, nil
}
