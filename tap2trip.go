/*
	Package tap2trip reconstructs passenger trips from a stream of card taps and prices them.
	A tap is either ON (boarding) or OFF (alighting) at a bus stop. Taps are matched per
	traveller by a TripMatcher, which emits COMPLETED, CANCELLED and INCOMPLETE trips charged
	with the fares configured in a FareTable. Batch wires the matcher between a CSV tap file
	and CSV trip and error files.
*/
package tap2trip

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor currency units (cents)
type Amount int64

// Line is a slice of strings
type Line []string

// TimeLayout is the layout of timestamps in tap and trip files
const TimeLayout = "02-01-2006 15:04:05"

// String formats the amount with two decimals, e.g. 325 becomes $3.25
func (a Amount) String() string {
	return "$" + a.Decimal().StringFixed(2)
}

// Decimal returns the amount in major currency units
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Config holds the formatting rules shared by the batch readers and writers
type Config struct {
	TimeLayout string
	Location   *time.Location
	Currency   string
}

// DefaultConfig returns the configuration of the tap and trip files: UTC timestamps in TimeLayout
func DefaultConfig() *Config {
	return &Config{
		TimeLayout: TimeLayout,
		Location:   time.UTC,
		Currency:   "$",
	}
}

func (c Config) Validate() error {
	switch {
	case c.TimeLayout == "":
		return errors.New("TimeLayout should not be empty")
	case c.Location == nil:
		return errors.New("location should be set")
	}

	return nil
}

// formatAmount formats a using the configured currency symbol
func (c Config) formatAmount(a Amount) string {
	return c.Currency + a.Decimal().StringFixed(2)
}
