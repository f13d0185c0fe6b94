package tap2trip

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/cubny/tap2trip/internal/logging"
	"github.com/cubny/tap2trip/internal/pipeline"
)

var (
	// TapHeader is the header of the tap file
	TapHeader = Line{"ID", "DateTimeUTC", "TapType", "StopId", "CompanyId", "BusID", "PAN"}

	tripHeader  = Line{"Started", "Finished", "DurationSecs", "FromStopId", "ToStopId", "ChargeAmount", "CompanyId", "BusID", "PAN", "Status"}
	errorHeader = Line{"Record No.", "Message"}
)

// Batch reads a tap file and writes the trips it makes up, one TripMatcher per run
type Batch struct {
	fares  *FareTable
	conf   *Config
	logger *slog.Logger
}

// numberedLine is a tap record with its line number in the tap file
type numberedLine struct {
	number int
	line   Line
}

// tapRecord is the result of parsing a numberedLine
type tapRecord struct {
	number int
	tap    Tap
	err    error
}

// NewBatch creates a Batch charging trips with fares
func NewBatch(fares *FareTable, config *Config, logger *slog.Logger) (*Batch, error) {
	if fares == nil {
		return nil, errors.New("fares should be set")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewStructuredLogger(io.Discard, slog.LevelError)
	}

	return &Batch{
		fares:  fares,
		conf:   config,
		logger: logger,
	}, nil
}

// Process runs the batch pipeline: taps are read from tapsCSV, trips written to tripsCSV
// and rejected taps to errorCSV. A rejected tap does not stop the batch; read and write
// failures do, in which case the metrics gathered so far are returned with the error.
func (b *Batch) Process(ctx context.Context, tapsCSV io.Reader, tripsCSV, errorCSV io.Writer) (Metrics, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := b.logger.With(slog.String("run_id", uuid.NewString()))
	metrics := Metrics{}

	trips, err := newTripWriter(tripsCSV, b.conf, &metrics, logger)
	if err != nil {
		return metrics, err
	}
	errs, err := newErrorWriter(errorCSV)
	if err != nil {
		return metrics, err
	}

	in := csv.NewReader(tapsCSV)
	in.FieldsPerRecord = -1
	in.TrimLeadingSpace = true
	if _, err := in.Read(); err != nil && err != io.EOF {
		return metrics, fmt.Errorf("read tap header: %w", err)
	}

	logging.LogOperation(logger, "batch_started")

	matcher := NewTripMatcher(b.fares, trips, logger)
	linec, errc1 := pipeline.Generate(ctx, b.streamFromCSV(in))
	tapc, errc2 := pipeline.Map(ctx, linec, b.parseTap)
	if err := pipeline.Sink(ctx, tapc, b.applyTap(matcher, trips, errs, &metrics, logger)); err != nil {
		return metrics, err
	}
	// a canceled stage may have lost its error in MergeErrors, so the context decides
	if ctx.Err() != nil {
		return metrics, fmt.Errorf("read taps: %w", pipeline.ErrCanceled)
	}

	errm := pipeline.MergeErrors(ctx, errc1, errc2)
	for err := range errm {
		switch {
		case err == io.EOF:
		case err != nil:
			return metrics, fmt.Errorf("read taps: %w", err)
		}
	}

	open := matcher.Open()
	matcher.CompletePeriod()

	if err := trips.flush(); err != nil {
		return metrics, err
	}
	if err := errs.flush(); err != nil {
		return metrics, err
	}

	logging.LogOperation(logger, "batch_finished",
		slog.Int64("taps_read", metrics.TapsRead),
		slog.Int64("tap_read_errors", metrics.TapReadErrors),
		slog.Int64("trips_written", metrics.TripsWritten),
		slog.Int("incomplete_at_period_end", open))

	return metrics, nil
}

// streamFromCSV returns a pipeline.generateFunc that reads one tap record at a time
func (b *Batch) streamFromCSV(in *csv.Reader) func() (interface{}, error) {
	return func() (interface{}, error) {
		record, err := in.Read()
		if err != nil {
			return nil, err
		}
		number, _ := in.FieldPos(0)
		return numberedLine{number: number, line: Line(record)}, nil
	}
}

// parseTap is a pipeline.mapFunc turning a numberedLine into a tapRecord.
// Parse errors travel with the record so that they are reported in input order.
func (b *Batch) parseTap(item interface{}) (interface{}, error) {
	nl, ok := item.(numberedLine)
	if !ok {
		return nil, errors.New("item of the wrong type passed")
	}
	tap, err := NewTap(nl.line, b.conf)
	if err != nil {
		err = fmt.Errorf("parse tap: %w", err)
	}
	return tapRecord{number: nl.number, tap: tap, err: err}, nil
}

// applyTap returns the pipeline.eachFunc feeding tap records to the matcher
func (b *Batch) applyTap(matcher *TripMatcher, trips *tripWriter, errs *errorWriter, metrics *Metrics, logger *slog.Logger) func(interface{}) error {
	return func(val interface{}) error {
		rec, ok := val.(tapRecord)
		if !ok {
			return errors.New("item of the wrong type passed")
		}

		err := rec.err
		if err == nil {
			err = matcher.AddTap(rec.tap)
		}
		if err != nil {
			metrics.TapReadErrors++
			logger.Debug("tap rejected", slog.Int("record", rec.number), slog.String("error", err.Error()))
			return errs.write(rec.number, err)
		}

		metrics.TapsRead++
		return trips.err
	}
}

// tripWriter is the TripConsumer writing trips in CSV format
type tripWriter struct {
	w       *csv.Writer
	conf    *Config
	metrics *Metrics
	logger  *slog.Logger
	// err is the first write failure, later trips are dropped
	err error
}

func newTripWriter(w io.Writer, conf *Config, metrics *Metrics, logger *slog.Logger) (*tripWriter, error) {
	out := csv.NewWriter(w)
	if err := out.Write(tripHeader); err != nil {
		return nil, fmt.Errorf("write trip header: %w", err)
	}

	return &tripWriter{
		w:       out,
		conf:    conf,
		metrics: metrics,
		logger:  logger,
	}, nil
}

func (t *tripWriter) Consume(trip Trip) {
	if t.err != nil {
		return
	}
	if trip.Duration != nil && *trip.Duration < 0 {
		t.logger.Warn("trip finished before it started",
			slog.String("pan", trip.PAN),
			slog.Duration("duration", *trip.Duration))
	}
	if err := t.w.Write(trip.Record(t.conf)); err != nil {
		t.err = fmt.Errorf("write trip: %w", err)
		return
	}
	t.metrics.tripWritten(trip.Status)
}

func (t *tripWriter) flush() error {
	if t.err != nil {
		return t.err
	}
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return fmt.Errorf("write trips: %w", err)
	}
	return nil
}

// errorWriter writes rejected taps as (record number, message) in CSV format
type errorWriter struct {
	w *csv.Writer
}

func newErrorWriter(w io.Writer) (*errorWriter, error) {
	out := csv.NewWriter(w)
	if err := out.Write(errorHeader); err != nil {
		return nil, fmt.Errorf("write error header: %w", err)
	}
	return &errorWriter{w: out}, nil
}

func (e *errorWriter) write(number int, err error) error {
	if werr := e.w.Write(Line{strconv.Itoa(number), err.Error()}); werr != nil {
		return fmt.Errorf("write error record: %w", werr)
	}
	return nil
}

func (e *errorWriter) flush() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return fmt.Errorf("write errors: %w", err)
	}
	return nil
}
