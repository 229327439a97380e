// Package clock supplies the timestamps recorded in definition metadata.
package clock

import "time"

// Func returns the current time
type Func func() time.Time

// NowFunc is the process wide time source
var NowFunc Func = time.Now

// Now returns the current time in UTC
func Now() time.Time { return NowFunc().UTC() }

// Fixed returns a Func that always reports at
func Fixed(at time.Time) Func {
	return func() time.Time { return at }
}
