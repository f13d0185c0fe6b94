package tap2trip

import (
	"strconv"
	"time"
)

// Status is the outcome of matching the taps of a trip
type Status string

const (
	// StatusCompleted is a trip tapped on and off at different stops
	StatusCompleted Status = "COMPLETED"
	// StatusCancelled is a trip tapped on and off at the same stop, it is free
	StatusCancelled Status = "CANCELLED"
	// StatusIncomplete is a trip with only one of its taps known
	StatusIncomplete Status = "INCOMPLETE"
)

// Trip is a journey reconciled from one or two taps.
// Nil pointers and empty stop ids mark unknown values.
type Trip struct {
	Started    *time.Time
	Finished   *time.Time
	Duration   *time.Duration
	FromStopID string
	ToStopID   string
	Charge     *Amount
	CompanyID  string
	BusID      string
	PAN        string
	Status     Status
}

// newTrip pairs an ON tap with the OFF tap of the same traveller
func newTrip(on, off Tap, fares *FareTable) (Trip, error) {
	status := StatusCompleted
	var charge Amount
	if on.StopID == off.StopID {
		status = StatusCancelled
	} else {
		var err error
		charge, err = fares.Charge(on.StopID, off.StopID)
		if err != nil {
			return Trip{}, err
		}
	}

	started, finished := on.Timestamp, off.Timestamp
	// an OFF tap older than its ON tap gives a negative duration, it is reported as is
	duration := finished.Sub(started)

	return Trip{
		Started:    &started,
		Finished:   &finished,
		Duration:   &duration,
		FromStopID: on.StopID,
		ToStopID:   off.StopID,
		Charge:     &charge,
		CompanyID:  on.CompanyID,
		BusID:      on.BusID,
		PAN:        on.PAN,
		Status:     status,
	}, nil
}

// incompleteOnTrip is the trip of a traveller who never tapped off
func incompleteOnTrip(on Tap, fares *FareTable) (Trip, error) {
	charge, err := fares.IncompleteCharge(on.StopID)
	if err != nil {
		return Trip{}, err
	}
	started := on.Timestamp

	return Trip{
		Started:    &started,
		FromStopID: on.StopID,
		Charge:     &charge,
		CompanyID:  on.CompanyID,
		BusID:      on.BusID,
		PAN:        on.PAN,
		Status:     StatusIncomplete,
	}, nil
}

// incompleteOffTrip is the trip of a traveller who never tapped on
func incompleteOffTrip(off Tap, fares *FareTable) (Trip, error) {
	charge, err := fares.IncompleteCharge(off.StopID)
	if err != nil {
		return Trip{}, err
	}
	finished := off.Timestamp

	return Trip{
		Finished:  &finished,
		ToStopID:  off.StopID,
		Charge:    &charge,
		CompanyID: off.CompanyID,
		BusID:     off.BusID,
		PAN:       off.PAN,
		Status:    StatusIncomplete,
	}, nil
}

// Record formats the trip as a trip file record, unknown values are left empty
func (t Trip) Record(conf *Config) Line {
	record := make(Line, 0, len(tripHeader))
	record = append(record,
		formatTime(t.Started, conf),
		formatTime(t.Finished, conf),
	)

	duration := ""
	if t.Duration != nil {
		duration = strconv.FormatInt(int64(*t.Duration/time.Second), 10)
	}

	charge := ""
	if t.Charge != nil {
		charge = conf.formatAmount(*t.Charge)
	}

	return append(record,
		duration,
		t.FromStopID,
		t.ToStopID,
		charge,
		t.CompanyID,
		t.BusID,
		t.PAN,
		string(t.Status),
	)
}

func formatTime(t *time.Time, conf *Config) string {
	if t == nil {
		return ""
	}
	return t.In(conf.Location).Format(conf.TimeLayout)
}
