package tap2trip

import (
	"fmt"
	"io"
)

// Metrics counts what a batch read and wrote. It is not safe for concurrent use.
type Metrics struct {
	TapsRead      int64
	TapReadErrors int64
	TripsWritten  int64
	// TripsByStatus counts the written trips per status
	TripsByStatus map[Status]int64
}

func (m *Metrics) tripWritten(status Status) {
	if m.TripsByStatus == nil {
		m.TripsByStatus = make(map[Status]int64)
	}
	m.TripsWritten++
	m.TripsByStatus[status]++
}

// Print writes the counts to w
func (m Metrics) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Tap records read:    %d\nTaps failed to read: %d\nTrips written:       %d\n"+
			"Trips completed:     %d\nTrips cancelled:     %d\nTrips incomplete:    %d\n",
		m.TapsRead, m.TapReadErrors, m.TripsWritten,
		m.TripsByStatus[StatusCompleted], m.TripsByStatus[StatusCancelled], m.TripsByStatus[StatusIncomplete])
	return err
}
