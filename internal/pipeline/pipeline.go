package pipeline

import (
	"context"
	"errors"
	"sync"
)

// Event is used as the type for input and output channels
type Event interface{}

type (
	// eachFunc is called for each event of the input channel
	eachFunc func(val interface{}) error
	// generateFunc is used in Generate to produce values for the output channel
	generateFunc func() (interface{}, error)
	// mapFunc transforms one event of the input channel into one event of the output channel
	mapFunc func(item interface{}) (interface{}, error)
)

// ErrCanceled is sent on the error channel of a stage stopped by its context
var ErrCanceled = errors.New("pipeline canceled")

// Generate converts output of a generateFunc to channel of Event
// the only way to close the output channel is to return an error from the generateFunc
// if generateFunc returns nil as the value, Generate won't put it to the channel
func Generate(ctx context.Context, fn generateFunc) (<-chan Event, <-chan error) {
	outc := make(chan Event)
	errc := make(chan error, 1)
	go func() {
		defer func() {
			close(outc)
			close(errc)
		}()
		for {
			res, err := fn()
			if err != nil {
				errc <- err
				return
			}
			if res == nil { // only non nil res is put to out channel
				continue
			}
			select {
			case <-ctx.Done():
				errc <- ErrCanceled
				return
			case outc <- res:
			}
		}
	}()

	return outc, errc
}

// Map is a transformer that passes each event to a mapFunc and puts the result
// to the output channel, keeping the order of the input channel.
// nil results are dropped; an error stops the stage
func Map(ctx context.Context, inc <-chan Event, fn mapFunc) (<-chan Event, <-chan error) {
	outc := make(chan Event)
	errc := make(chan error, 1)
	go func() {
		defer func() {
			close(outc)
			close(errc)
		}()
		for item := range inc {
			result, err := fn(item)
			switch {
			case err != nil:
				errc <- err
				return
			case result == nil:
				continue
			}

			select {
			case <-ctx.Done():
				errc <- ErrCanceled
				return
			case outc <- result:
			}
		}
	}()
	return outc, errc
}

// Sink is a sinker which runs an eachFunc on each event
// it is the final stage of the pipeline as it does not produce any channel
func Sink(ctx context.Context, ch <-chan Event, fn eachFunc) error {
	for r := range ch {
		select {
		case <-ctx.Done():
			return ErrCanceled
		default:
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// MergeErrors is a transformer which merges all input error channels into one output channel
func MergeErrors(ctx context.Context, errs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	outc := make(chan error, len(errs))
	output := func(errc <-chan error) {
		defer wg.Done()
		for e := range errc {
			select {
			case outc <- e:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(len(errs))
	for _, errc := range errs {
		go output(errc)
	}

	go func() {
		wg.Wait()
		close(outc)
	}()

	return outc
}
