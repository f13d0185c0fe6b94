package tapgen

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubny/tap2trip"
)

func TestGenerator_Generate(t *testing.T) {
	counts := Counts{Completed: 10, Incomplete: 5, Cancelled: 2}

	var buf bytes.Buffer
	require.NoError(t, New(42).Generate(counts, &buf))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, counts.Records()+1)
	assert.Equal(t, []string(tap2trip.TapHeader), records[0])

	for _, r := range records[1:] {
		_, err := tap2trip.NewTap(r, tap2trip.DefaultConfig())
		assert.NoError(t, err)
	}
}

func TestGenerator_GenerateNotEnoughItems(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(g *Generator)
		counts   Counts
		hasError bool
	}{
		{
			name:     "single stop with completed trips",
			setup:    func(g *Generator) { g.Stops = []string{"Stop1"} },
			counts:   Counts{Completed: 1},
			hasError: true,
		},
		{
			name:   "single stop without completed trips",
			setup:  func(g *Generator) { g.Stops = []string{"Stop1"} },
			counts: Counts{Incomplete: 2, Cancelled: 2},
		},
		{
			name:     "no buses",
			setup:    func(g *Generator) { g.Buses = nil },
			counts:   Counts{Incomplete: 1},
			hasError: true,
		},
		{
			name:     "no companies",
			setup:    func(g *Generator) { g.Companies = []string{} },
			counts:   Counts{Cancelled: 1},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(1)
			tt.setup(g)

			var buf bytes.Buffer
			var err error
			require.NotPanics(t, func() { err = g.Generate(tt.counts, &buf) })
			if tt.hasError {
				assert.Error(t, err)
				assert.Zero(t, buf.Len(), "nothing should be written")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGenerator_SameSeedSameFile(t *testing.T) {
	counts := Counts{Completed: 3, Incomplete: 3, Cancelled: 3}

	var a, b bytes.Buffer
	require.NoError(t, New(7).Generate(counts, &a))
	require.NoError(t, New(7).Generate(counts, &b))
	assert.Equal(t, a.String(), b.String())
}

func TestGenerator_BatchRoundTrip(t *testing.T) {
	counts := Counts{Completed: 20, Incomplete: 7, Cancelled: 4}

	var taps bytes.Buffer
	require.NoError(t, New(1).Generate(counts, &taps))

	batch, err := tap2trip.NewBatch(tap2trip.DefaultFares(), tap2trip.DefaultConfig(), nil)
	require.NoError(t, err)

	metrics, err := batch.Process(context.TODO(), &taps, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, int64(counts.Records()), metrics.TapsRead)
	assert.Zero(t, metrics.TapReadErrors)
	assert.Equal(t, int64(counts.Completed), metrics.TripsByStatus[tap2trip.StatusCompleted])
	assert.Equal(t, int64(counts.Cancelled), metrics.TripsByStatus[tap2trip.StatusCancelled])
	assert.Equal(t, int64(counts.Incomplete), metrics.TripsByStatus[tap2trip.StatusIncomplete])
}

func BenchmarkGenerator_Generate(b *testing.B) {
	counts := Counts{Completed: 100, Incomplete: 10, Cancelled: 10}
	for n := 0; n < b.N; n++ {
		var buf bytes.Buffer
		_ = New(int64(n)).Generate(counts, &buf)
	}
}
