package tap2trip

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// FareTable holds the fare between each pair of stops and, per stop,
// the charge applied to trips that only have that end known
type FareTable struct {
	// fares[from][to]
	fares map[string]map[string]Amount
	// maxCharges[stop] is the largest fare ever added from or to stop
	maxCharges map[string]Amount
}

// NewFareTable creates an empty FareTable
func NewFareTable() *FareTable {
	return &FareTable{
		fares:      make(map[string]map[string]Amount),
		maxCharges: make(map[string]Amount),
	}
}

// DefaultFares returns the fares of the three stop network the batch runs with when none are given
func DefaultFares() *FareTable {
	return NewFareTable().
		AddCharge("Stop1", "Stop2", 325).
		AddCharge("Stop2", "Stop3", 550).
		AddCharge("Stop1", "Stop3", 730)
}

// AddCharge records amount as the fare between the two stops in both directions.
// A later call for the same pair replaces the fare, but the incomplete charge
// of a stop never decreases.
func (f *FareTable) AddCharge(fromStopID, toStopID string, amount Amount) *FareTable {
	f.addDirected(fromStopID, toStopID, amount)
	f.addDirected(toStopID, fromStopID, amount)
	return f
}

func (f *FareTable) addDirected(fromStopID, toStopID string, amount Amount) {
	to, ok := f.fares[fromStopID]
	if !ok {
		to = make(map[string]Amount)
		f.fares[fromStopID] = to
	}
	to[toStopID] = amount

	if current, ok := f.maxCharges[fromStopID]; !ok || amount > current {
		f.maxCharges[fromStopID] = amount
	}
}

// Charge returns the fare of a trip from fromStopID to toStopID
func (f *FareTable) Charge(fromStopID, toStopID string) (Amount, error) {
	to, ok := f.fares[fromStopID]
	if !ok {
		return 0, unknownStop(fromStopID)
	}
	amount, ok := to[toStopID]
	if !ok {
		return 0, unknownRoute(fromStopID, toStopID)
	}
	return amount, nil
}

// IncompleteCharge returns the charge of a trip of which only stopID is known
func (f *FareTable) IncompleteCharge(stopID string) (Amount, error) {
	amount, ok := f.maxCharges[stopID]
	if !ok {
		return 0, unknownStop(stopID)
	}
	return amount, nil
}

// LoadFares reads a FareTable from CSV records of the form (from_stop, to_stop, amount).
// The first record is the header. Amounts are in major units, e.g. 3.25 or $3.25.
func LoadFares(r io.Reader) (*FareTable, error) {
	in := csv.NewReader(r)
	in.TrimLeadingSpace = true
	in.FieldsPerRecord = 3

	if _, err := in.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.New("fares: missing header")
		}
		return nil, fmt.Errorf("fares: %w", err)
	}

	table := NewFareTable()
	for {
		record, err := in.Read()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, fmt.Errorf("fares: %w", err)
		}

		amount, err := ParseAmount(record[2])
		if err != nil {
			line, _ := in.FieldPos(2)
			return nil, fmt.Errorf("fares: line %d: %w", line, err)
		}
		table.AddCharge(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), amount)
	}
}

// ParseAmount parses a decimal currency string such as 3.25 or $3.25 into cents
func ParseAmount(raw string) (Amount, error) {
	value := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: more than two decimals", raw)
	}
	return Amount(cents.IntPart()), nil
}
