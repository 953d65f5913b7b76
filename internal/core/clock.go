package core

import "time"

// Clock supplies the current time. Production code uses RealClock; tests
// inject a fixed clock so timestamps and day boundaries are deterministic.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns a Clock backed by time.Now.
func RealClock() Clock { return realClock{} }
