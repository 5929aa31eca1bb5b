// Package clock abstracts the wall clock so that scheduling logic never
// reads time.Now directly and tests can pin "now" to a fixed instant.
package clock

import "time"

// Clock yields the current time.
type Clock interface {
	Now() time.Time
}

// Real reads the actual system time.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns a preset instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
