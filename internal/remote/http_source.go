package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/bassista/go_quotes/internal/schema"
)

// maxResponseBytes bounds how much of a pull response is read.
const maxResponseBytes = 4 << 20

// HTTPSource pushes with POST and pulls with GET against JSON endpoints.
type HTTPSource struct {
	PullURL   string
	PushURL   string
	PullLimit int // 0 keeps every item
	Client    *http.Client

	validator *schema.Validator
}

// Compile-time interface check.
var _ Source = (*HTTPSource)(nil)

func NewHTTPSource(pullURL, pushURL string, pullLimit int, timeout time.Duration) *HTTPSource {
	if pushURL == "" {
		pushURL = pullURL
	}
	return &HTTPSource{
		PullURL:   pullURL,
		PushURL:   pushURL,
		PullLimit: pullLimit,
		Client:    &http.Client{Timeout: timeout},
		validator: schema.NewValidator(),
	}
}

func (s *HTTPSource) Push(ctx context.Context, quotes []repository.Quote) error {
	payload, err := json.Marshal(repository.CloneQuotes(quotes))
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.PushURL, bytes.NewReader(payload))
	if err != nil {
		return errors.NewNetworkError("POST", s.PushURL, 0, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := s.Client.Do(req)
	if err != nil {
		return errors.NewNetworkError("POST", s.PushURL, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewNetworkError("POST", s.PushURL, resp.StatusCode, nil)
	}
	logger.WithComponent("remote").Debugf("pushed %d quotes to %s", len(quotes), s.PushURL)
	return nil
}

func (s *HTTPSource) Pull(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.PullURL, nil)
	if err != nil {
		return nil, errors.NewNetworkError("GET", s.PullURL, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError("GET", s.PullURL, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewNetworkError("GET", s.PullURL, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewNetworkError("GET", s.PullURL, resp.StatusCode, err)
	}
	return s.decode(body)
}

// decode truncates the payload to PullLimit before any item is checked, so
// records past the limit can neither fail nor feed the pull.
func (s *HTTPSource) decode(body []byte) ([]Item, error) {
	if !json.Valid(body) {
		return nil, errors.NewParseError("pull", errors.New("response is not valid JSON"))
	}
	var raw []json.RawMessage
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) || json.Unmarshal(body, &raw) != nil {
		return nil, errors.NewShapeError("pull", "response is not an array")
	}
	if s.PullLimit > 0 && len(raw) > s.PullLimit {
		raw = raw[:s.PullLimit]
	}

	kept, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.NewParseError("pull", err)
	}
	if err := s.validator.Validate("pull", schema.RemoteItems, kept); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	if err := json.Unmarshal(kept, &items); err != nil {
		return nil, errors.NewParseError("pull", err)
	}
	logger.WithComponent("remote").Debugf("pulled %d items from %s", len(items), s.PullURL)
	return items, nil
}
