package category

import (
	"context"
	"testing"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const filterKey = "lastCategoryFilter"

type filterRecorder struct {
	selected []string
}

func (r *filterRecorder) PublishQuotesChanged(events.QuotesChangedEvent) {}

func (r *filterRecorder) PublishFilterChanged(ev events.FilterChangedEvent) {
	r.selected = append(r.selected, ev.Selected)
}

func sampleQuotes() []repository.Quote {
	return []repository.Quote{
		{Text: "one", Category: "Life"},
		{Text: "two", Category: "Work"},
		{Text: "three", Category: "Life"},
		{Text: "four", Category: "Fun"},
	}
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	idx := NewIndex(repository.NewMemoryStorage(), filterKey, nil)
	assert.Equal(t, []string{All}, idx.Categories())

	idx.Refresh(sampleQuotes())

	assert.Equal(t, []string{All, "Life", "Work", "Fun"}, idx.Categories())
}

func TestByCategory(t *testing.T) {
	idx := NewIndex(repository.NewMemoryStorage(), filterKey, nil)
	idx.Refresh(sampleQuotes())

	assert.Equal(t, sampleQuotes(), idx.ByCategory(All))
	assert.Equal(t, []repository.Quote{
		{Text: "one", Category: "Life"},
		{Text: "three", Category: "Life"},
	}, idx.ByCategory("Life"))
	assert.Empty(t, idx.ByCategory("Missing"))

	for _, c := range idx.Categories() {
		for _, q := range idx.ByCategory(c) {
			if c != All {
				assert.Equal(t, c, q.Category)
			}
		}
	}
}

func TestSelect_PersistsAndPublishes(t *testing.T) {
	mem := repository.NewMemoryStorage()
	pub := &filterRecorder{}
	idx := NewIndex(mem, filterKey, pub)
	idx.Refresh(sampleQuotes())

	require.NoError(t, idx.Select(context.Background(), "Work"))

	assert.Equal(t, "Work", idx.Selected())
	assert.Equal(t, []repository.Quote{{Text: "two", Category: "Work"}}, idx.Filtered())
	data, ok, err := mem.Get(context.Background(), filterKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `"Work"`, string(data))
	assert.Equal(t, []string{"Work"}, pub.selected)
}

func TestSelect_UnknownCategory(t *testing.T) {
	idx := NewIndex(repository.NewMemoryStorage(), filterKey, nil)
	idx.Refresh(sampleQuotes())

	err := idx.Select(context.Background(), "Nope")

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, All, idx.Selected())
}

func TestRestore(t *testing.T) {
	cases := []struct {
		name   string
		stored string
		want   string
	}{
		{"absent", "", All},
		{"member", `"Fun"`, "Fun"},
		{"stale", `"Gone"`, All},
		{"malformed", `{`, All},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mem := repository.NewMemoryStorage()
			if tc.stored != "" {
				require.NoError(t, mem.Set(context.Background(), filterKey, []byte(tc.stored)))
			}
			idx := NewIndex(mem, filterKey, nil)
			idx.Refresh(sampleQuotes())

			got, err := idx.Restore(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, idx.Selected())
		})
	}
}

func TestRefresh_DroppedSelectionFallsBack(t *testing.T) {
	idx := NewIndex(repository.NewMemoryStorage(), filterKey, nil)
	idx.Refresh(sampleQuotes())
	require.NoError(t, idx.Select(context.Background(), "Fun"))

	idx.Refresh(sampleQuotes()[:2])

	assert.Equal(t, All, idx.Selected())
}

func TestRefresh_KeepsSurvivingSelection(t *testing.T) {
	idx := NewIndex(repository.NewMemoryStorage(), filterKey, nil)
	idx.Refresh(sampleQuotes())
	require.NoError(t, idx.Select(context.Background(), "Life"))

	idx.Refresh(append(sampleQuotes(), repository.Quote{Text: "five", Category: "Server"}))

	assert.Equal(t, "Life", idx.Selected())
	assert.Contains(t, idx.Categories(), "Server")
}
