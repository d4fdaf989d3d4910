package storage

import (
	"math/rand"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// NewID returns a record identifier: milliseconds since the epoch, scaled by
// 1000, plus a random offset below 1000. Ordered in practice for a single
// writer; not guaranteed unique for concurrent writers.
func NewID() int64 {
	return newIDAt(time.Now())
}

func newIDAt(t time.Time) int64 {
	return t.UnixMilli()*1000 + rand.Int63n(1000)
}

// Today returns the local date as YYYY-MM-DD.
func Today() string {
	return FormatDate(time.Now())
}

// Now returns the local date and time as YYYY-MM-DD HH:mm.
func Now() string {
	return FormatDateTime(time.Now())
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateTime formats t as YYYY-MM-DD HH:mm.
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}
