package normalize

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/core/filter"
)

func TestProcess(t *testing.T) {
	t.Run("Should normalize allowed entries only", func(t *testing.T) {
		previous := "kept as is"
		entries := []core.Entry{
			{ID: 1, EntryOriginal: "<p>Plan:</p><p>Rest.</p>", DocumentType: "Clinical Notes"},
			{ID: 2, EntryOriginal: "<p>Scanned.</p>", DocumentType: "Clinical Notes", Handwritten: true},
			{ID: 3, EntryOriginal: "<p>Invoice total.</p>", DocumentType: "invoice", EntryFinal: &previous},
			{ID: 4, EntryOriginal: "   "},
			{ID: 5, EntryOriginal: "garbage <<<"},
		}
		f := filter.New([]string{"Invoice"}, true, nil)

		stats, err := Process(context.Background(), New(plain), entries, f, 2)
		require.NoError(t, err)

		assert.Equal(t, Stats{Processed: 2, Skipped: 3}, stats)
		assert.Equal(t, join(p("Plan:"), p("Rest.")), entries[0].Final())
		assert.Nil(t, entries[1].EntryFinal)
		assert.Same(t, &previous, entries[2].EntryFinal)
		assert.Nil(t, entries[3].EntryFinal)
		require.NotNil(t, entries[4].EntryFinal)
		assert.Equal(t, "", entries[4].Final())
	})

	t.Run("Should process every entry with many workers", func(t *testing.T) {
		entries := make([]core.Entry, 200)
		for i := range entries {
			entries[i] = core.Entry{ID: int64(i), EntryOriginal: fmt.Sprintf("<p>Entry %d done.</p>", i)}
		}

		stats, err := Process(context.Background(), New(plain), entries, nil, 8)
		require.NoError(t, err)

		assert.Equal(t, 200, stats.Processed)
		for i, e := range entries {
			assert.Equal(t, p(fmt.Sprintf("Entry %d done.", i)), e.Final())
		}
	})

	t.Run("Should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		entries := []core.Entry{{ID: 1, EntryOriginal: "<p>x.</p>"}}

		_, err := Process(ctx, New(plain), entries, nil, 1)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, entries[0].EntryFinal)
	})
}
