package tap2trip

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Direction tells whether a tap boards or alights a bus
type Direction string

const (
	DirectionOn  Direction = "ON"
	DirectionOff Direction = "OFF"
)

// number of columns of a tap record: ID, DateTimeUTC, TapType, StopId, CompanyId, BusID, PAN
const tapFields = 7

// Tap is a card scanned at a stop
type Tap struct {
	ID        int64
	Timestamp time.Time
	Direction Direction
	StopID    string
	CompanyID string
	BusID     string
	// PAN identifies the traveller's card, it is not validated
	PAN string
}

// ParseDirection parses the case sensitive tap type ON or OFF
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(raw); d {
	case DirectionOn, DirectionOff:
		return d, nil
	}
	return "", fmt.Errorf("invalid tap type %q", raw)
}

// NewTap creates a Tap out of a tap record
func NewTap(line Line, conf *Config) (Tap, error) {
	if len(line) != tapFields {
		return Tap{}, fmt.Errorf("expected %d fields, got %d", tapFields, len(line))
	}
	fields := make([]string, len(line))
	for i := range line {
		fields[i] = strings.TrimSpace(line[i])
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Tap{}, fmt.Errorf("invalid ID: %w", err)
	}

	timestamp, err := time.ParseInLocation(conf.TimeLayout, fields[1], conf.Location)
	if err != nil {
		return Tap{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	direction, err := ParseDirection(fields[2])
	if err != nil {
		return Tap{}, err
	}

	return Tap{
		ID:        id,
		Timestamp: timestamp,
		Direction: direction,
		StopID:    fields[3],
		CompanyID: fields[4],
		BusID:     fields[5],
		PAN:       fields[6],
	}, nil
}
