package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/bassista/go_quotes/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedStore(t *testing.T, quotes []repository.Quote) (*store.QuoteStore, *repository.MemoryStorage) {
	t.Helper()
	mem := repository.NewMemoryStorage()
	data, err := json.Marshal(quotes)
	require.NoError(t, err)
	require.NoError(t, mem.Set(context.Background(), "quotes", data))
	s := store.NewQuoteStore(mem, "quotes", nil)
	require.NoError(t, s.Load(context.Background()))
	return s, mem
}

func TestExport_Indented(t *testing.T) {
	s, _ := newLoadedStore(t, []repository.Quote{{Text: "Hi", Category: "A"}})
	c := New(s, nil)

	data, err := c.Export()

	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"text\": \"Hi\",\n    \"category\": \"A\"\n  }\n]", string(data))
}

func TestExport_EmptyIsArray(t *testing.T) {
	s, _ := newLoadedStore(t, []repository.Quote{})
	data, err := New(s, nil).Export()

	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRoundTrip(t *testing.T) {
	src, _ := newLoadedStore(t, repository.SeedQuotes())
	data, err := New(src, nil).Export()
	require.NoError(t, err)

	dst, _ := newLoadedStore(t, []repository.Quote{})
	res, err := New(dst, nil).Import(context.Background(), bytes.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, Result{Added: 3, Ignored: 0, Total: 3}, res)
	assert.Equal(t, src.All(), dst.All())
}

func TestImport_SkipsExistingText(t *testing.T) {
	s, _ := newLoadedStore(t, []repository.Quote{{Text: "Hi", Category: "A"}})

	res, err := New(s, nil).Import(context.Background(), strings.NewReader(
		`[{"text":"Hi","category":"Other"},{"text":"Bye","category":"B"}]`))

	require.NoError(t, err)
	assert.Equal(t, Result{Added: 1, Ignored: 1, Total: 2}, res)
	assert.Equal(t, []repository.Quote{{Text: "Hi", Category: "A"}, {Text: "Bye", Category: "B"}}, s.All())
}

func TestImport_Rejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"object", `{"text":"a","category":"b"}`, errors.ErrShape},
		{"not json", `[{"text":`, errors.ErrParse},
		{"missing field", `[{"text":"a"}]`, errors.ErrShape},
		{"blank text", `[{"text":"  ","category":"b"}]`, errors.ErrShape},
		{"empty input", ``, errors.ErrParse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			initial := []repository.Quote{{Text: "Hi", Category: "A"}}
			s, mem := newLoadedStore(t, initial)
			before, _, _ := mem.Get(context.Background(), "quotes")

			_, err := New(s, nil).Import(context.Background(), strings.NewReader(tc.doc))

			require.Error(t, err)
			assert.True(t, errors.IsImport(err))
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, initial, s.All())
			after, _, _ := mem.Get(context.Background(), "quotes")
			assert.Equal(t, before, after)
		})
	}
}

type blockingReader struct{ release chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.release
	return 0, io.EOF
}

func TestRead_ContextCancelled(t *testing.T) {
	s, _ := newLoadedStore(t, []repository.Quote{})
	r := blockingReader{release: make(chan struct{})}
	defer close(r.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(s, nil).Read(ctx, r)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestImport_DeadlineIsNotImportError(t *testing.T) {
	s, _ := newLoadedStore(t, []repository.Quote{{Text: "a", Category: "b"}})
	r := blockingReader{release: make(chan struct{})}
	defer close(r.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(s, nil).Import(ctx, r)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.IsImport(err))
	assert.Equal(t, 1, s.Len())
}
