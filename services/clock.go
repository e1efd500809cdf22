package services

import "time"

// Clock menyediakan waktu untuk ledger dan billing.
// Interface ini memudahkan mock waktu di test.
type Clock interface {
	Now() time.Time
}

// RealClock memakai waktu sistem.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// TestClock memberikan waktu tetap untuk testing.
type TestClock struct {
	CurrentTime time.Time
}

func (t *TestClock) Now() time.Time {
	return t.CurrentTime
}
