package tap2trip

import (
	"container/list"
	"fmt"
	"log/slog"

	"github.com/cubny/tap2trip/internal/logging"
)

// TripConsumer receives the trips produced by a TripMatcher, in production order
type TripConsumer interface {
	Consume(trip Trip)
}

// TripConsumerFunc adapts a function to a TripConsumer
type TripConsumerFunc func(trip Trip)

func (f TripConsumerFunc) Consume(trip Trip) {
	f(trip)
}

// TripMatcher pairs the ON and OFF taps of each traveller into trips.
// Taps must be added one at a time in arrival order; a TripMatcher is not safe for concurrent use.
type TripMatcher struct {
	fares    *FareTable
	consumer TripConsumer
	logger   *slog.Logger

	// open holds the unmatched ON tap of each traveller, keyed by PAN.
	// The elements live in order, which keeps the order travellers first tapped on.
	open  map[string]*list.Element
	order *list.List
}

// NewTripMatcher creates a TripMatcher charging trips with fares and passing them to consumer
func NewTripMatcher(fares *FareTable, consumer TripConsumer, logger *slog.Logger) *TripMatcher {
	return &TripMatcher{
		fares:    fares,
		consumer: consumer,
		logger:   logger,
		open:     make(map[string]*list.Element),
		order:    list.New(),
	}
}

// AddTap applies tap to the traveller's state and emits the trip it concludes, if any.
// It returns ErrUnknownStopOrRoute, leaving the state untouched, when the tap's stop
// or the route of the concluded trip has no fare, and an error for a Direction other than ON or OFF.
func (m *TripMatcher) AddTap(tap Tap) error {
	// every tap may end up in an incomplete trip, so its stop has to be known upfront
	if _, err := m.fares.IncompleteCharge(tap.StopID); err != nil {
		return err
	}

	switch tap.Direction {
	case DirectionOn:
		return m.tapOn(tap)
	case DirectionOff:
		return m.tapOff(tap)
	}
	return fmt.Errorf("invalid tap type %q", tap.Direction)
}

func (m *TripMatcher) tapOn(tap Tap) error {
	elem, ok := m.open[tap.PAN]
	if !ok {
		m.open[tap.PAN] = m.order.PushBack(tap)
		return nil
	}

	// the traveller tapped on twice, the first boarding is charged as incomplete
	trip, err := incompleteOnTrip(elem.Value.(Tap), m.fares)
	if err != nil {
		return err
	}
	elem.Value = tap
	m.consumer.Consume(trip)
	return nil
}

func (m *TripMatcher) tapOff(tap Tap) error {
	elem, ok := m.open[tap.PAN]
	if !ok {
		trip, err := incompleteOffTrip(tap, m.fares)
		if err != nil {
			return err
		}
		m.consumer.Consume(trip)
		return nil
	}

	trip, err := newTrip(elem.Value.(Tap), tap, m.fares)
	if err != nil {
		return err
	}
	m.remove(tap.PAN, elem)
	m.consumer.Consume(trip)
	return nil
}

// CompletePeriod ends the batch: every traveller still tapped on gets an incomplete trip.
// Calling it again without adding taps emits nothing.
func (m *TripMatcher) CompletePeriod() {
	for elem := m.order.Front(); elem != nil; {
		next := elem.Next()
		tap := elem.Value.(Tap)
		m.remove(tap.PAN, elem)

		trip, err := incompleteOnTrip(tap, m.fares)
		if err != nil {
			// unreachable, AddTap checked the stop before opening the tap
			logging.LogError(m.logger, "failed to charge incomplete trip", err,
				slog.Int64("tap_id", tap.ID),
				slog.String("stop_id", tap.StopID))
		} else {
			m.consumer.Consume(trip)
		}
		elem = next
	}
}

// Open returns the number of travellers with an unmatched ON tap
func (m *TripMatcher) Open() int {
	return len(m.open)
}

func (m *TripMatcher) remove(pan string, elem *list.Element) {
	delete(m.open, pan)
	m.order.Remove(elem)
}
