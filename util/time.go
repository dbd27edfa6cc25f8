package util

import (
	"sync/atomic"
	"time"
)

var mockTime int64

// GetTime returns the current unix time in seconds, or the mock time when
// one has been set.
func GetTime() int64 {
	if mt := atomic.LoadInt64(&mockTime); mt > 0 {
		return mt
	}
	return time.Now().Unix()
}

// SetMockTime pins GetTime to t. Zero restores the wall clock.
func SetMockTime(t int64) {
	atomic.StoreInt64(&mockTime, t)
}
