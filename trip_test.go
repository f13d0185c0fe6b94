package tap2trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrip_Record(t *testing.T) {
	started := epoch
	finished := epoch.Add(10 * time.Minute)
	duration := finished.Sub(started)
	charge := Amount(100)
	negative := -time.Minute

	tests := []struct {
		name   string
		trip   Trip
		record Line
	}{
		{
			name: "completed",
			trip: Trip{
				Started:    &started,
				Finished:   &finished,
				Duration:   &duration,
				FromStopID: "fromStop",
				ToStopID:   "toStop",
				Charge:     &charge,
				CompanyID:  "companyId",
				BusID:      "busId",
				PAN:        "PAN",
				Status:     StatusCompleted,
			},
			record: Line{"01-01-1970 00:00:00", "01-01-1970 00:10:00", "600", "fromStop", "toStop", "$1.00", "companyId", "busId", "PAN", "COMPLETED"},
		},
		{
			name: "incomplete tap on",
			trip: Trip{
				Started:    &started,
				FromStopID: "fromStop",
				Charge:     &charge,
				PAN:        "PAN",
				Status:     StatusIncomplete,
			},
			record: Line{"01-01-1970 00:00:00", "", "", "fromStop", "", "$1.00", "", "", "PAN", "INCOMPLETE"},
		},
		{
			name:   "empty",
			trip:   Trip{},
			record: Line{"", "", "", "", "", "", "", "", "", ""},
		},
		{
			name: "negative duration",
			trip: Trip{
				Duration: &negative,
				Status:   StatusCompleted,
			},
			record: Line{"", "", "-60", "", "", "", "", "", "", "COMPLETED"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.record, test.trip.Record(DefaultConfig()))
		})
	}
}

func TestTrip_RecordInLocation(t *testing.T) {
	started := time.Date(2018, time.January, 22, 13, 0, 0, 0, time.UTC)
	conf := DefaultConfig()
	conf.Location = time.FixedZone("UTC+10", 10*60*60)

	record := Trip{Started: &started}.Record(conf)
	assert.Equal(t, "22-01-2018 23:00:00", record[0])
}
