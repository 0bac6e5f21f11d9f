// Package clock provides the wall-clock implementation of the domain Clock.
package clock

import (
	"time"

	"authd/internal/domain/service"
)

type systemClock struct{}

// New returns a Clock backed by time.Now.
func New() service.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
