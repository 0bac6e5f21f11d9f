package service

import "time"

// Clock abstracts the time source used by expiry and cooldown checks so tests
// can drive the verification lifecycle deterministically.
type Clock interface {
	Now() time.Time
}
