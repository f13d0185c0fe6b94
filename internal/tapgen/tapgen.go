// Package tapgen writes synthetic tap files for load and smoke testing.
// The timestamps are functional rather than realistic: trips start in the
// morning and completed trips end in the afternoon.
package tapgen

import (
	"encoding/csv"
	"errors"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/cubny/tap2trip"
)

var (
	startOfDay = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	midday     = startOfDay.Add(12 * time.Hour)
	endOfDay   = startOfDay.Add(24*time.Hour - time.Second)
)

// Counts is the number of trips of each status to generate
type Counts struct {
	Completed  int
	Incomplete int
	Cancelled  int
}

// Records returns the number of tap records generated for c
func (c Counts) Records() int {
	return 2*c.Completed + 2*c.Cancelled + c.Incomplete
}

// Generator writes tap files over a fixed set of stops, companies and buses
type Generator struct {
	Stops     []string
	Companies []string
	Buses     []string

	rnd *rand.Rand
	now time.Time
	id  int64
}

// New creates a Generator over the stops of tap2trip.DefaultFares
func New(seed int64) *Generator {
	return &Generator{
		Stops:     []string{"Stop1", "Stop2", "Stop3"},
		Companies: []string{"Company1"},
		Buses:     []string{"Bus1", "Bus2", "Bus3"},
		rnd:       rand.New(rand.NewSource(seed)),
		now:       startOfDay.Add(time.Second),
	}
}

// Generate writes counts.Records() taps to w, preceded by the tap file header.
// Trips are picked in random status order; completed trips tap off after all others tapped on.
func (g *Generator) Generate(counts Counts, w io.Writer) error {
	switch {
	case len(g.Stops) == 0 || len(g.Companies) == 0 || len(g.Buses) == 0:
		return errors.New("stops, companies and buses should not be empty")
	case counts.Completed > 0 && len(g.Stops) < 2:
		return errors.New("completed trips need at least two stops")
	}

	out := csv.NewWriter(w)
	if err := out.Write(tap2trip.TapHeader); err != nil {
		return err
	}

	remaining := map[tap2trip.Status]int{
		tap2trip.StatusCompleted:  counts.Completed,
		tap2trip.StatusCancelled:  counts.Cancelled,
		tap2trip.StatusIncomplete: counts.Incomplete,
	}
	// fixed order so that a seed always gives the same file
	statuses := []tap2trip.Status{tap2trip.StatusCompleted, tap2trip.StatusCancelled, tap2trip.StatusIncomplete}

	var inProgress []tap2trip.Tap
	for total := counts.Completed + counts.Cancelled + counts.Incomplete; total > 0; total-- {
		status := g.pickStatus(statuses, remaining)
		remaining[status]--

		on := tap2trip.Tap{
			ID:        g.nextID(),
			Timestamp: g.nextOn(),
			Direction: tap2trip.DirectionOn,
			StopID:    g.pick(g.Stops, ""),
			CompanyID: g.pick(g.Companies, ""),
			BusID:     g.pick(g.Buses, ""),
			PAN:       g.pan(),
		}
		if err := out.Write(record(on)); err != nil {
			return err
		}

		switch status {
		case tap2trip.StatusCompleted:
			inProgress = append(inProgress, on)
		case tap2trip.StatusCancelled:
			off := on
			off.ID = g.nextID()
			off.Timestamp = g.nextOn()
			off.Direction = tap2trip.DirectionOff
			if err := out.Write(record(off)); err != nil {
				return err
			}
		}
	}

	for _, on := range inProgress {
		off := on
		off.ID = g.nextID()
		off.Timestamp = g.nextOff()
		off.Direction = tap2trip.DirectionOff
		off.StopID = g.pick(g.Stops, on.StopID)
		if err := out.Write(record(off)); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

func (g *Generator) pickStatus(statuses []tap2trip.Status, remaining map[tap2trip.Status]int) tap2trip.Status {
	var left []tap2trip.Status
	for _, s := range statuses {
		if remaining[s] > 0 {
			left = append(left, s)
		}
	}
	return left[g.rnd.Intn(len(left))]
}

// pick returns a random item of items other than exclude
func (g *Generator) pick(items []string, exclude string) string {
	candidates := make([]string, 0, len(items))
	for _, item := range items {
		if item != exclude {
			candidates = append(candidates, item)
		}
	}
	return candidates[g.rnd.Intn(len(candidates))]
}

// pan returns a random 16 digit card number
func (g *Generator) pan() string {
	var sb strings.Builder
	for i := 0; i < 16; i++ {
		sb.WriteByte(byte('0' + g.rnd.Intn(10)))
	}
	return sb.String()
}

func (g *Generator) nextID() int64 {
	g.id++
	return g.id
}

// nextOn returns the current time and moves it forward a second, up to midday
func (g *Generator) nextOn() time.Time {
	t := g.now
	if g.now.Before(midday) {
		g.now = g.now.Add(time.Second)
	}
	return t
}

// nextOff jumps past midday and moves forward a second, up to the end of the day
func (g *Generator) nextOff() time.Time {
	if g.now.Before(midday) {
		g.now = midday.Add(time.Second)
	}
	t := g.now
	if g.now.Before(endOfDay) {
		g.now = g.now.Add(time.Second)
	}
	return t
}

func record(tap tap2trip.Tap) []string {
	return []string{
		strconv.FormatInt(tap.ID, 10),
		tap.Timestamp.Format(tap2trip.TimeLayout),
		string(tap.Direction),
		tap.StopID,
		tap.CompanyID,
		tap.BusID,
		tap.PAN,
	}
}
