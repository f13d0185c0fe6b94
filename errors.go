package tap2trip

import (
	"errors"
	"fmt"
)

// ErrUnknownStopOrRoute is matched by every fare lookup failure
var ErrUnknownStopOrRoute = errors.New("unknown stop or route")

// UnknownStopOrRouteError reports the stop ids a fare lookup failed on.
// StopIDs holds one id when the stop itself is unknown and the (from, to) pair
// when only the route between them has no fare.
type UnknownStopOrRouteError struct {
	StopIDs []string
	msg     string
}

func (e *UnknownStopOrRouteError) Error() string {
	return e.msg
}

// Is makes errors.Is(err, ErrUnknownStopOrRoute) hold
func (e *UnknownStopOrRouteError) Is(target error) bool {
	return target == ErrUnknownStopOrRoute
}

func unknownStop(stopID string) error {
	return &UnknownStopOrRouteError{
		StopIDs: []string{stopID},
		msg:     fmt.Sprintf("unknown stop ID: %s", stopID),
	}
}

func unknownRoute(fromStopID, toStopID string) error {
	return &UnknownStopOrRouteError{
		StopIDs: []string{fromStopID, toStopID},
		msg:     fmt.Sprintf("no charge is found between stops %s and %s", fromStopID, toStopID),
	}
}
