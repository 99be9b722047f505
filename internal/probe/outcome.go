package probe

import (
	"slices"
	"time"
)

type Result string

const (
	Passed Result = "Passed"
	Failed Result = "Failed"
)

// StatusSet is the set of HTTP status codes a check treats as success.
type StatusSet []int

func NewStatusSet(codes ...int) StatusSet {
	return StatusSet(codes)
}

func (s StatusSet) Contains(code int) bool {
	return slices.Contains(s, code)
}

// Outcome is the result of one check. StatusCode is zero when no response
// was received, in which case Error holds the transport error.
type Outcome struct {
	Description string
	Body        string
	StatusCode  int
	Error       string
	Result      Result
	Duration    time.Duration
}

// HasStatus reports whether a response was received.
func (o Outcome) HasStatus() bool {
	return o.StatusCode != 0
}

func (o Outcome) Passed() bool {
	return o.Result == Passed
}
