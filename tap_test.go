package tap2trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTap(t *testing.T) {
	tests := []struct {
		name     string
		line     Line
		hasError bool
	}{
		{
			name:     "ok",
			line:     Line{"1", "22-01-2018 13:00:00", "ON", "Stop1", "Company1", "Bus37", "5500005555555559"},
			hasError: false,
		},
		{
			name:     "surrounding spaces are trimmed",
			line:     Line{" 1", " 22-01-2018 13:00:00 ", " OFF", " Stop1", " Company1", " Bus37", " 5500005555555559 "},
			hasError: false,
		},
		{
			name:     "wrong id - error",
			line:     Line{"a", "22-01-2018 13:00:00", "ON", "Stop1", "Company1", "Bus37", "5500005555555559"},
			hasError: true,
		},
		{
			name:     "wrong time - error",
			line:     Line{"1", "2018-01-22 13:00:00", "ON", "Stop1", "Company1", "Bus37", "5500005555555559"},
			hasError: true,
		},
		{
			name:     "lower case tap type - error",
			line:     Line{"1", "22-01-2018 13:00:00", "on", "Stop1", "Company1", "Bus37", "5500005555555559"},
			hasError: true,
		},
		{
			name:     "truncated - error",
			line:     Line{"2", "22-01-2018 13:05:00", "OFF", "Stop2", ""},
			hasError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewTap(test.line, DefaultConfig())
			assert.Equal(t, test.hasError, err != nil)
		})
	}
}

func TestNewTap_Fields(t *testing.T) {
	tap, err := NewTap(Line{" 7", " 22-01-2018 13:05:00", " OFF", " Stop2", " Company1", " Bus37", " 5500005555555559"}, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, Tap{
		ID:        7,
		Timestamp: time.Date(2018, time.January, 22, 13, 5, 0, 0, time.UTC),
		Direction: DirectionOff,
		StopID:    "Stop2",
		CompanyID: "Company1",
		BusID:     "Bus37",
		PAN:       "5500005555555559",
	}, tap)
}

func TestNewTap_KeepsLine(t *testing.T) {
	line := Line{" 7", " 22-01-2018 13:05:00", " OFF", " Stop2", " Company1", " Bus37", " 5500005555555559"}
	want := append(Line(nil), line...)

	_, err := NewTap(line, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, want, line)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("ON")
	assert.NoError(t, err)
	assert.Equal(t, DirectionOn, d)

	d, err = ParseDirection("OFF")
	assert.NoError(t, err)
	assert.Equal(t, DirectionOff, d)

	_, err = ParseDirection("Off")
	assert.Error(t, err)
}

func BenchmarkNewTap(b *testing.B) {
	conf := DefaultConfig()
	for n := 0; n < b.N; n++ {
		line := Line{"1", "22-01-2018 13:00:00", "ON", "Stop1", "Company1", "Bus37", "5500005555555559"}
		_, _ = NewTap(line, conf)
	}
}
